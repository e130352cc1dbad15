// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// BACKGROUND JOBS
// =============================================================================

// JobFunc is the work a job performs. It should return promptly once ctx
// is cancelled.
type JobFunc func(ctx context.Context) (string, error)

// Job is a running background job.
type Job struct {
	ID      string
	Label   string
	Started time.Time
}

// ShortID is the first block of the job ID, for display.
func (j Job) ShortID() string {
	return shortID(j.ID)
}

// JobDoneMsg is delivered when a job finishes.
type JobDoneMsg struct {
	ID      string
	Label   string
	Output  string
	Err     error
	Elapsed time.Duration
}

// Jobs tracks work started by commands. Start hands back a tea.Cmd that the
// command queues with Session.Defer; bubbletea runs it off the UI loop.
type Jobs struct {
	mu      sync.Mutex
	running map[string]Job

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewJobs creates an empty tracker.
func NewJobs(logger *zap.Logger) *Jobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Jobs{
		running: make(map[string]Job),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.Named("jobs"),
	}
}

// Start registers a job and returns its ID and the command that runs it.
func (j *Jobs) Start(label string, fn JobFunc) (string, tea.Cmd) {
	job := Job{
		ID:      uuid.New().String(),
		Label:   label,
		Started: time.Now(),
	}

	j.mu.Lock()
	j.running[job.ID] = job
	j.mu.Unlock()

	j.logger.Debug("job started", zap.String("id", job.ID), zap.String("label", label))

	ctx := j.ctx
	return job.ID, func() tea.Msg {
		out, err := fn(ctx)
		return JobDoneMsg{
			ID:      job.ID,
			Label:   job.Label,
			Output:  out,
			Err:     err,
			Elapsed: time.Since(job.Started),
		}
	}
}

// Finish removes a completed job. It reports false for unknown IDs.
func (j *Jobs) Finish(msg JobDoneMsg) bool {
	j.mu.Lock()
	_, ok := j.running[msg.ID]
	delete(j.running, msg.ID)
	j.mu.Unlock()

	if ok {
		j.logger.Debug("job finished",
			zap.String("id", msg.ID),
			zap.Duration("elapsed", msg.Elapsed),
			zap.Error(msg.Err),
		)
	}
	return ok
}

// Running lists running jobs, oldest first.
func (j *Jobs) Running() []Job {
	j.mu.Lock()
	out := make([]Job, 0, len(j.running))
	for _, job := range j.running {
		out = append(out, job)
	}
	j.mu.Unlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].Started.Equal(out[b].Started) {
			return out[a].ID < out[b].ID
		}
		return out[a].Started.Before(out[b].Started)
	})
	return out
}

// Len returns the number of running jobs.
func (j *Jobs) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.running)
}

// Stop cancels every running job.
func (j *Jobs) Stop() {
	j.cancel()
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
