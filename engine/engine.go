package engine

import "context"

// RawFormat is one encoding as reported by the extraction engine.
// Height and Filesize come back as null for audio-only or size-less
// entries and unmarshal to zero.
type RawFormat struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	Height   int    `json:"height"`
	VCodec   string `json:"vcodec"`
	Filesize int64  `json:"filesize"`
}

// MediaInfo is the metadata returned by a probe, without downloading.
type MediaInfo struct {
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail"`
	Duration  float64     `json:"duration"`
	Uploader  string      `json:"uploader"`
	Formats   []RawFormat `json:"formats"`
}

// Update statuses reported through the progress callback.
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

// Update is one progress callback payload. Percent and Speed are set on
// downloading updates, Filename on the terminal finished update.
type Update struct {
	Status   string
	Percent  string
	Speed    string
	Filename string
}

// ProgressFunc receives progress updates during a download. The engine
// invokes it sequentially for a given download.
type ProgressFunc func(Update)

// Spec describes one download request.
type Spec struct {
	URL string
	// FormatID selects an encoding; empty means engine-chosen best.
	FormatID string
	// OutputTemplate is the engine output path template, e.g.
	// "downloads/video_abc_1700000000.%(ext)s".
	OutputTemplate string
}

// Engine is the extraction-engine boundary. Probe resolves a URL to media
// metadata without downloading; Download fetches the media and streams
// progress through fn.
type Engine interface {
	Probe(ctx context.Context, url string) (*MediaInfo, error)
	Download(ctx context.Context, spec Spec, fn ProgressFunc) error
}
