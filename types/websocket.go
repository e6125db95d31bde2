package types

import "time"

// ProgressMessage is pushed over WebSocket whenever a job record changes
type ProgressMessage struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Progress  string    `json:"progress"`
	Speed     string    `json:"speed"`
	FilePath  string    `json:"file_path,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
