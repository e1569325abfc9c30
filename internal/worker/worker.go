package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmk-contents/backend/internal/ads"
	"github.com/jmk-contents/backend/pkg/queue"
)

// TrackingProcessor applies queued ad impression/click events as atomic
// counter increments in the store.
type TrackingProcessor struct {
	adRepo *ads.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewTrackingProcessor creates a tracking event processor.
func NewTrackingProcessor(adRepo *ads.Repository, q *queue.Queue, logger *zap.Logger) *TrackingProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingProcessor{adRepo: adRepo, queue: q, logger: logger}
}

// Process executes one tracking job. An increment against a deleted ad is
// a no-op, not an error: the ad may legitimately be removed while events
// are still in flight.
func (p *TrackingProcessor) Process(ctx context.Context, job *queue.Job) error {
	var payload queue.AdTrackingPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	switch job.Type {
	case queue.JobTypeAdImpression:
		if err := p.adRepo.IncrementImpressions(ctx, payload.AdID); err != nil {
			return fmt.Errorf("increment impressions: %w", err)
		}
	case queue.JobTypeAdClick:
		if err := p.adRepo.IncrementClicks(ctx, payload.AdID); err != nil {
			return fmt.Errorf("increment clicks: %w", err)
		}
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	p.logger.Debug("tracking event applied", zap.String("job_id", job.ID), zap.String("type", string(job.Type)), zap.String("ad_id", payload.AdID.String()))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *TrackingProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("tracking worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			backoff(ctx, queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			backoff(ctx, queue.RetryBackoff)
			continue
		}
	}
}

// backoff waits for d, returning early when ctx is cancelled so shutdown
// is not delayed by a pending retry pause.
func backoff(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
