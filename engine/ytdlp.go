package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// progressTemplate renders each progress tick as a single JSON line on
// stdout, which keeps parsing independent of yt-dlp's human output.
const progressTemplate = `download:{"status":"downloading","percent":"%(progress._percent_str)s","speed":"%(progress._speed_str)s"}`

// YtDlp runs the yt-dlp binary as the extraction engine.
type YtDlp struct {
	binary string
}

// NewYtDlp creates an engine backed by the given yt-dlp binary path.
// An empty path falls back to "yt-dlp" on PATH.
func NewYtDlp(binary string) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{binary: binary}
}

// Probe resolves metadata for a URL without downloading anything.
func (y *YtDlp) Probe(ctx context.Context, url string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, y.binary,
		"--dump-json",
		"--no-warnings",
		"--no-playlist",
		url,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("could not extract video info: %s", probeCause(err, stderr.String()))
	}

	return parseMediaInfo(out.Bytes())
}

// Download fetches the media described by spec, streaming progress updates
// into fn. fn receives downloading updates during transfer and a single
// finished update carrying the output filename after a clean exit.
func (y *YtDlp) Download(ctx context.Context, spec Spec, fn ProgressFunc) error {
	cmd := exec.CommandContext(ctx, y.binary, buildDownloadArgs(spec)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("download failed: %v", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("download failed: %v", err)
	}

	var outputPath string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if update, ok := parseProgressLine(line); ok {
			if fn != nil {
				fn(update)
			}
			continue
		}
		// Any remaining stdout line is the printed final filepath.
		outputPath = line
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("download failed: %s", probeCause(err, stderr.String()))
	}

	if outputPath == "" {
		return fmt.Errorf("download failed: engine reported no output file")
	}

	if fn != nil {
		fn(Update{Status: StatusFinished, Filename: outputPath})
	}
	return nil
}

// buildDownloadArgs assembles the yt-dlp invocation for a download. An
// empty format id defers to the engine's "best" selection.
func buildDownloadArgs(spec Spec) []string {
	format := spec.FormatID
	if format == "" {
		format = "best"
	}

	return []string{
		"-f", format,
		"-o", spec.OutputTemplate,
		"--quiet",
		"--progress",
		"--newline",
		"--no-warnings",
		"--no-playlist",
		"--progress-template", progressTemplate,
		"--print", "after_move:filepath",
		spec.URL,
	}
}

// parseProgressLine decodes one rendered progress-template line. Lines
// that are not progress JSON (the printed filepath) return ok=false.
func parseProgressLine(line string) (Update, bool) {
	if !strings.HasPrefix(line, "{") {
		return Update{}, false
	}

	var raw struct {
		Status  string `json:"status"`
		Percent string `json:"percent"`
		Speed   string `json:"speed"`
	}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Update{}, false
	}

	return Update{
		Status:  StatusDownloading,
		Percent: strings.TrimSpace(raw.Percent),
		Speed:   strings.TrimSpace(raw.Speed),
	}, true
}

// parseMediaInfo decodes a --dump-json probe result.
func parseMediaInfo(data []byte) (*MediaInfo, error) {
	var info MediaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("could not extract video info: invalid engine output: %v", err)
	}
	if info.Title == "" {
		info.Title = "Unknown Title"
	}
	return &info, nil
}

// probeCause prefers the engine's stderr tail over the bare exec error.
func probeCause(err error, stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err.Error()
	}
	lines := strings.Split(stderr, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
