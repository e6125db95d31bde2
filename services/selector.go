package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bestxosh-ops/video-downloader/engine"
	"github.com/bestxosh-ops/video-downloader/types"
)

// maxFormatCandidates caps how many qualities the analyze response offers.
const maxFormatCandidates = 5

// SelectFormats reduces the engine's raw format list to at most five
// candidates: video-only-or-muxed entries, labeled by vertical resolution,
// sorted best-first, one candidate per distinct quality label.
func SelectFormats(raw []engine.RawFormat) []types.FormatCandidate {
	candidates := make([]types.FormatCandidate, 0, len(raw))
	for _, f := range raw {
		// Only the literal "none" marks audio-only; an absent vcodec
		// (null in the probe JSON) means unknown and the format stays.
		if f.VCodec == "none" {
			continue
		}

		quality := "Unknown"
		if f.Height > 0 {
			quality = fmt.Sprintf("%dp", f.Height)
		}

		ext := f.Ext
		if ext == "" {
			ext = "mp4"
		}

		candidates = append(candidates, types.FormatCandidate{
			FormatID: f.FormatID,
			Quality:  quality,
			Ext:      ext,
			Filesize: f.Filesize,
		})
	}

	// Stable sort keeps engine-native order within a quality, so the
	// first occurrence wins the dedup below.
	sort.SliceStable(candidates, func(i, j int) bool {
		return qualityRank(candidates[i].Quality) > qualityRank(candidates[j].Quality)
	})

	seen := make(map[string]bool, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if seen[c.Quality] {
			continue
		}
		seen[c.Quality] = true
		unique = append(unique, c)
		if len(unique) == maxFormatCandidates {
			break
		}
	}

	return unique
}

// qualityRank turns a "<height>p" label into its numeric height; unknown
// or malformed labels rank lowest.
func qualityRank(quality string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(quality, "p"))
	if err != nil {
		return 0
	}
	return n
}
