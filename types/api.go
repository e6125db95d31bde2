package types

// FormatCandidate represents one selectable quality/container option
type FormatCandidate struct {
	FormatID string `json:"format_id"`
	Quality  string `json:"quality"` // "720p", "1080p", or "Unknown"
	Ext      string `json:"ext"`
	Filesize int64  `json:"filesize,omitempty"`
}

// VideoInfo is the analyze response payload
type VideoInfo struct {
	Title     string            `json:"title"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Duration  float64           `json:"duration,omitempty"`
	Uploader  string            `json:"uploader,omitempty"`
	Formats   []FormatCandidate `json:"formats"`
}

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// DownloadRequest is the body of POST /api/download
type DownloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
}
