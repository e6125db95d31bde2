package services

import (
	"sync"
	"time"

	"github.com/bestxosh-ops/video-downloader/types"
	"github.com/bestxosh-ops/video-downloader/websocket"
)

// Registry is the single source of truth for job lifecycle. Each job has
// exactly one writer (its worker goroutine); any number of pollers read
// concurrently. Records are never removed: they live for the process
// lifetime.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*types.DownloadJob
	hub  websocket.Hub
}

// NewRegistry creates an empty registry. hub may be nil when no WebSocket
// push is wanted (CLI mode, tests).
func NewRegistry(hub websocket.Hub) *Registry {
	return &Registry{
		jobs: make(map[string]*types.DownloadJob),
		hub:  hub,
	}
}

// Add inserts a new job record. Ids come from uuid generation and are
// never reused.
func (r *Registry) Add(job *types.DownloadJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Get returns a snapshot of the job with the given id.
func (r *Registry) Get(id string) (types.DownloadJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return types.DownloadJob{}, false
	}
	return *job, true
}

// All returns snapshots of every known job.
func (r *Registry) All() []types.DownloadJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]types.DownloadJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// SetProgress records a progress callback: the first call moves the job
// from starting to downloading, later calls refresh progress and speed.
// Terminal jobs are never touched.
func (r *Registry) SetProgress(id, progress, speed string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.IsTerminal() {
		return
	}

	job.Status = types.JobStatusDownloading
	if progress != "" {
		job.Progress = progress
	}
	if speed != "" {
		job.Speed = speed
	}
	r.notify(job)
}

// Complete moves the job into its completed terminal state, capturing the
// artifact path exactly once. A completed job always carries a non-empty
// path; an empty one is an engine contract violation and fails the job
// instead.
func (r *Registry) Complete(id, filePath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.IsTerminal() {
		return
	}

	now := time.Now()
	if filePath == "" {
		job.Status = types.JobStatusError
		job.Error = "download finished without an output file"
		job.CompletedAt = &now
		r.notify(job)
		return
	}
	job.Status = types.JobStatusCompleted
	job.FilePath = filePath
	job.CompletedAt = &now
	r.notify(job)
}

// Fail moves the job into its error terminal state with a human-readable
// cause.
func (r *Registry) Fail(id, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.IsTerminal() {
		return
	}

	now := time.Now()
	job.Status = types.JobStatusError
	job.Error = errMsg
	job.CompletedAt = &now
	r.notify(job)
}

// notify pushes the job's current state to WebSocket subscribers. Callers
// hold the write lock.
func (r *Registry) notify(job *types.DownloadJob) {
	if r.hub == nil {
		return
	}
	r.hub.Broadcast(types.ProgressMessage{
		JobID:     job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		Speed:     job.Speed,
		FilePath:  job.FilePath,
		Error:     job.Error,
		Timestamp: time.Now(),
	})
}
