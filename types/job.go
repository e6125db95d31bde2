package types

import "time"

// JobStatus represents the current status of a download job
type JobStatus string

const (
	JobStatusStarting    JobStatus = "starting"
	JobStatusDownloading JobStatus = "downloading"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusError       JobStatus = "error"
)

// IsTerminal reports whether the status permits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// DownloadJob represents one in-flight or finished download job
type DownloadJob struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Progress    string     `json:"progress"`
	Speed       string     `json:"speed"`
	URL         string     `json:"url"`
	FormatID    string     `json:"format_id,omitempty"`
	FilePath    string     `json:"file_path,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
