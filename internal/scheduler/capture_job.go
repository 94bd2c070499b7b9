package scheduler

import (
	"context"

	"github.com/avdeenko/carrymon/internal/capture"
	"github.com/avdeenko/carrymon/internal/contracts"
)

// CaptureJob runs one capture pass over the configured universe.
type CaptureJob struct {
	capturer *capture.Capturer
	entries  []contracts.UniverseEntry
	schedule string
	workers  int
}

// NewCaptureJob creates a capture job. The universe is loaded once at
// startup; a changed universe file needs a restart.
func NewCaptureJob(capturer *capture.Capturer, entries []contracts.UniverseEntry, schedule string, workers int) *CaptureJob {
	return &CaptureJob{
		capturer: capturer,
		entries:  entries,
		schedule: schedule,
		workers:  workers,
	}
}

func (j *CaptureJob) Name() string     { return "capture" }
func (j *CaptureJob) Schedule() string { return j.schedule }

func (j *CaptureJob) Run(ctx context.Context) error {
	_, err := j.capturer.Run(ctx, j.entries, j.workers)
	return err
}
