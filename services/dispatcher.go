package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bestxosh-ops/video-downloader/engine"
	"github.com/bestxosh-ops/video-downloader/types"
)

// Dispatcher accepts download requests and runs one worker goroutine per
// job. Dispatch never waits for the download; progress is observable only
// through the registry.
type Dispatcher struct {
	registry *Registry
	engine   engine.Engine
	// outputDir receives downloaded artifacts; created at startup.
	outputDir string
}

// NewDispatcher creates a dispatcher writing artifacts under outputDir.
func NewDispatcher(registry *Registry, eng engine.Engine, outputDir string) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		engine:    eng,
		outputDir: outputDir,
	}
}

// Dispatch registers a starting job and launches its worker. The returned
// record is the initial snapshot; poll the registry for progress.
func (d *Dispatcher) Dispatch(url, formatID string) types.DownloadJob {
	job := &types.DownloadJob{
		ID:        uuid.New().String(),
		Status:    types.JobStatusStarting,
		Progress:  "0%",
		Speed:     "N/A",
		URL:       url,
		FormatID:  formatID,
		CreatedAt: time.Now(),
	}

	d.registry.Add(job)
	snapshot := *job

	go d.run(job.ID, url, formatID)

	return snapshot
}

// run executes one download job. It is the job's only writer; every
// outcome, including a panic out of the engine, lands in the registry and
// nothing propagates past the goroutine.
func (d *Dispatcher) run(id, url, formatID string) {
	defer func() {
		if rec := recover(); rec != nil {
			d.registry.Fail(id, fmt.Sprintf("download failed: %v", rec))
			log.Printf("job %s panicked: %v", id, rec)
		}
	}()

	spec := engine.Spec{
		URL:            url,
		FormatID:       formatID,
		OutputTemplate: filepath.Join(d.outputDir, fmt.Sprintf("video_%s_%d.%%(ext)s", id, time.Now().Unix())),
	}

	err := d.engine.Download(context.Background(), spec, func(u engine.Update) {
		switch u.Status {
		case engine.StatusDownloading:
			d.registry.SetProgress(id, u.Percent, u.Speed)
		case engine.StatusFinished:
			d.registry.Complete(id, u.Filename)
		}
	})
	if err != nil {
		d.registry.Fail(id, err.Error())
		log.Printf("job %s failed: %v", id, err)
	}
}
