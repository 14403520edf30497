package internal

import (
	"context"
	"errors"
	"time"
)

// SourceOpener opens the batch source for a recorder
type SourceOpener func(SourceConfig) (BatchSource, error)

// CycleSummary reports one poll of the recorder
type CycleSummary struct {
	CycleResult
	Extract ExtractStats
	Err     error
}

// Recorder polls a batch source on a fixed interval and feeds every poll
// through the ingestion pipeline.
type Recorder struct {
	pipeline  *Pipeline
	sourceCfg SourceConfig
	open      SourceOpener
	source    BatchSource
	interval  time.Duration
	maxErrors int

	// OnCycle, if set, is called after every cycle, including failed ones.
	OnCycle func(CycleSummary)
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithSourceOpener replaces OpenSource, e.g. with an in-memory source.
func WithSourceOpener(open SourceOpener) RecorderOption {
	return func(r *Recorder) {
		r.open = open
	}
}

// NewRecorder creates a recorder using the source, interval and error limit
// from cfg.
func NewRecorder(pipeline *Pipeline, cfg Config, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		pipeline:  pipeline,
		sourceCfg: cfg.Source,
		open:      OpenSource,
		interval:  cfg.Interval,
		maxErrors: cfg.MaxConsecutiveErrors,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		r.interval = time.Second
	}
	if r.maxErrors <= 0 {
		r.maxErrors = 5
	}
	return r
}

// RunCycle fetches one batch, extracts it and ingests the messages. The source
// is opened on first use.
func (r *Recorder) RunCycle(ctx context.Context) (CycleSummary, error) {
	var summary CycleSummary

	if r.source == nil {
		src, err := r.open(r.sourceCfg)
		if err != nil {
			return summary, err
		}
		r.source = src
	}

	elements, err := r.source.Fetch(ctx)
	if err != nil {
		return summary, err
	}

	messages, stats := ExtractBatch(elements)
	summary.Extract = stats

	result, err := r.pipeline.Ingest(ctx, messages)
	summary.CycleResult = result
	return summary, err
}

// Run polls until ctx is cancelled. After maxErrors consecutive failed cycles
// the source is closed and reopened on the next cycle.
func (r *Recorder) Run(ctx context.Context) error {
	defer r.Close()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	consecutive := 0
	for {
		summary, err := r.RunCycle(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		summary.Err = err

		if err != nil {
			consecutive++
			LogError("Cycle failed (%d/%d): %v", consecutive, r.maxErrors, err)
			if consecutive >= r.maxErrors {
				LogWarn("Too many consecutive errors, restarting source")
				r.Close()
				consecutive = 0
			}
		} else {
			consecutive = 0
		}

		if r.OnCycle != nil {
			r.OnCycle(summary)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Close releases the source, if open. A later cycle reopens it.
func (r *Recorder) Close() {
	if r.source == nil {
		return
	}
	if err := r.source.Close(); err != nil {
		LogWarn("Failed to close source: %v", err)
	}
	r.source = nil
}
