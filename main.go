package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/bestxosh-ops/video-downloader/cmd"
	"github.com/bestxosh-ops/video-downloader/config"
	"github.com/bestxosh-ops/video-downloader/engine"
)

func main() {
	config.Load()

	var (
		videoURL string
		formatID string
		server   bool
		port     int
	)

	flag.StringVar(&videoURL, "url", "", "Video URL to download")
	flag.StringVar(&formatID, "format", "", "Format id to download (default: best)")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.Parse()

	portFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			portFlagSet = true
		}
	})

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port, portFlagSet)
		return
	}

	if videoURL == "" {
		flag.Usage()
		return
	}

	if err := downloadToTerminal(videoURL, formatID); err != nil {
		log.Fatalf("Error: %s", err)
	}
}

// downloadToTerminal runs one synchronous download, rendering the engine's
// progress callbacks as a terminal progress bar.
func downloadToTerminal(videoURL, formatID string) error {
	downloadDir, err := config.EnsureDownloadDir()
	if err != nil {
		return err
	}

	eng := engine.NewYtDlp(config.GetEngineBinary())

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
	)

	spec := engine.Spec{
		URL:            videoURL,
		FormatID:       formatID,
		OutputTemplate: filepath.Join(downloadDir, fmt.Sprintf("video_%s_%d.%%(ext)s", uuid.New().String(), time.Now().Unix())),
	}

	var outputPath string
	err = eng.Download(context.Background(), spec, func(u engine.Update) {
		switch u.Status {
		case engine.StatusDownloading:
			if pct, err := strconv.ParseFloat(strings.TrimSuffix(u.Percent, "%"), 64); err == nil {
				bar.Set(int(pct))
			}
		case engine.StatusFinished:
			bar.Finish()
			outputPath = u.Filename
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nSaved to %s\n", outputPath)
	return nil
}
