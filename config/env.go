package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Load pulls a .env file into the environment when one exists. Missing
// files are fine; explicit environment variables always win.
func Load() {
	_ = godotenv.Load()
}

// GetDownloadLocation returns the directory downloaded artifacts are
// written to.
func GetDownloadLocation() string {
	if custom := os.Getenv("DOWNLOAD_LOCATION"); custom != "" {
		return custom
	}
	return filepath.Join(".", "downloads")
}

// GetEngineBinary returns the yt-dlp binary path used as the extraction
// engine.
func GetEngineBinary() string {
	if bin := os.Getenv("YTDLP_PATH"); bin != "" {
		return bin
	}
	return "yt-dlp"
}

// EnsureDownloadDir creates the download directory if it is absent.
func EnsureDownloadDir() (string, error) {
	dir := GetDownloadLocation()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
