package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/goap/queue"
	"github.com/zero-day-ai/goap/state"
)

// DefaultHeartbeatInterval is how often a running worker refreshes its
// health key. It must stay well under the key's 30s TTL.
const DefaultHeartbeatInterval = 10 * time.Second

// Options configures a queue-driven planning worker.
type Options struct {
	// ID identifies the worker in heartbeats and results. Empty means
	// a generated "planner-<uuid>" ID.
	ID string

	// Queue is the request queue to consume. Empty means
	// queue.DefaultRequestQueue.
	Queue string

	// HeartbeatInterval overrides DefaultHeartbeatInterval.
	HeartbeatInterval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.ID == "" {
		o.ID = "planner-" + uuid.NewString()
	}
	if o.Queue == "" {
		o.Queue = queue.DefaultRequestQueue
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Run consumes planning requests from the queue until the context is
// cancelled, publishing each result on the request's result channel.
//
// The worker registers itself in the queue's worker count for the
// duration of the run and heartbeats its health key on a ticker.
// Cancellation is the only clean exit; Run returns nil for it. Queue
// transport failures other than cancellation abort the run.
func Run(ctx context.Context, planner Planner, client queue.Client, opts Options) error {
	if planner == nil {
		return errors.New("worker: planner must not be nil")
	}
	if client == nil {
		return errors.New("worker: queue client must not be nil")
	}

	o := opts.withDefaults()
	logger := o.Logger.With("worker_id", o.ID, "queue", o.Queue)

	if err := client.IncrementWorkerCount(ctx, o.Queue); err != nil {
		return fmt.Errorf("worker: register: %w", err)
	}
	defer func() {
		// Best-effort deregistration with a fresh context; the run
		// context is usually already cancelled here.
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.DecrementWorkerCount(dctx, o.Queue); err != nil {
			logger.Warn("failed to deregister worker", "error", err)
		}
	}()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go heartbeat(heartbeatCtx, client, o.ID, o.HeartbeatInterval, logger)

	logger.Info("planning worker started")

	for {
		req, err := client.Next(ctx, o.Queue)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("planning worker stopped")
				return nil
			}
			return fmt.Errorf("worker: next request: %w", err)
		}
		if req == nil {
			continue
		}

		result := serve(ctx, planner, o.ID, req)
		if err := client.Publish(ctx, queue.ResultChannel(req.ID), result); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("failed to publish plan result",
				"request_id", req.ID, "error", err)
		}
	}
}

// serve plans one request. Planning failures become the result's Error
// field rather than aborting the worker.
func serve(ctx context.Context, planner Planner, workerID string, req *queue.PlanRequest) queue.PlanResult {
	result := queue.PlanResult{
		RequestID: req.ID,
		AgentID:   req.AgentID,
		WorkerID:  workerID,
		StartedAt: time.Now().UnixMilli(),
	}

	if err := req.IsValid(); err != nil {
		result.Error = err.Error()
		result.CompletedAt = time.Now().UnixMilli()
		return result
	}

	facts := req.Facts
	if facts.Len() == 0 {
		facts = state.New()
	}

	p, err := planner.Plan(ctx, req.AgentID, facts, req.Goal)
	result.CompletedAt = time.Now().UnixMilli()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StepNames = p.StepNames()
	result.TotalCost = p.TotalCost()
	return result
}

func heartbeat(ctx context.Context, client queue.Client, workerID string, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Establish health immediately rather than one interval in.
	if err := client.Heartbeat(ctx, workerID); err != nil && ctx.Err() == nil {
		logger.Warn("heartbeat failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Heartbeat(ctx, workerID); err != nil && ctx.Err() == nil {
				logger.Warn("heartbeat failed", "error", err)
			}
		}
	}
}
