package loads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/webharvest/loader-http-service/common/constants"
	"github.com/webharvest/loader-http-service/common/messaging"
	"github.com/webharvest/loader-http-service/common/work"
)

// RegisterLoadConsumer wires the load.run subject to the runner through a
// durable JetStream consumer backed by a worker pool.
func RegisterLoadConsumer(ctx context.Context, broker *messaging.NatsBroker, runner *Runner, numWorkers int) (jetstream.ConsumeContext, error) {
	if broker == nil {
		return nil, fmt.Errorf("nats broker is nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("runner is nil")
	}

	consumer, err := messaging.GetJetStreamConsumer(broker, constants.LoadStreamName, messaging.SubjectLoadRun)
	if err != nil {
		return nil, fmt.Errorf("failed to get load consumer: %w", err)
	}
	if consumer == nil {
		return nil, fmt.Errorf("load consumer unavailable")
	}

	pool, err := work.NewWorkerPool[int](numWorkers, numWorkers*2)
	if err != nil {
		return nil, fmt.Errorf("failed to create load worker pool: %w", err)
	}
	pool.Start(ctx, "load-runner")

	// Drain results so completed tasks don't pile up in the channel.
	go func() {
		for result := range pool.Results() {
			if result.Error != nil {
				log.Error().Err(result.Error).
					Str("taskID", result.TaskID).
					Dur("duration", result.Duration).
					Msg("Load job failed")
				continue
			}
			log.Info().
				Str("taskID", result.TaskID).
				Int("documents", result.Result).
				Dur("duration", result.Duration).
				Msg("Load job finished")
		}
	}()

	handler := createLoadHandler(ctx, runner, pool)

	consumeCtx, err := broker.Consume(ctx, consumer, handler)
	if err != nil {
		pool.Stop()
		return nil, fmt.Errorf("failed to consume load messages: %w", err)
	}

	log.Info().
		Str("subject", messaging.SubjectLoadRun).
		Int("workers", numWorkers).
		Msg("Registered load consumer")

	return consumeCtx, nil
}

// createLoadHandler builds the JetStream message handler that dispatches load
// requests onto the worker pool.
func createLoadHandler(ctx context.Context, runner *Runner, pool *work.Pool[int]) jetstream.MessageHandler {
	return func(msg jetstream.Msg) {
		var req messaging.LoadRequest
		if err := json.Unmarshal(msg.Data(), &req); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject()).Msg("Failed to unmarshal load request")
			_ = msg.Term()
			return
		}

		if req.JobID == "" {
			log.Error().Str("subject", msg.Subject()).Msg("Load request has no job ID")
			_ = msg.Term()
			return
		}

		job, err := runner.jobs.GetByID(ctx, req.JobID)
		if err != nil {
			log.Error().Err(err).Str("jobID", req.JobID).Msg("Load request references unknown job")
			_ = msg.Term()
			return
		}

		task, err := work.NewTask[int](
			func(taskCtx context.Context) (int, error) {
				return runner.Run(taskCtx, job)
			},
			work.WithID[int](job.ID),
			work.WithErrorHandler[int](func(err error) {
				log.Error().Err(err).Str("jobID", job.ID).Msg("Load task error")
			}),
		)
		if err != nil {
			log.Error().Err(err).Str("jobID", job.ID).Msg("Failed to create load task")
			_ = msg.Nak()
			return
		}

		if err := pool.AddTask(ctx, task); err != nil {
			log.Error().Err(err).Str("jobID", job.ID).Msg("Failed to queue load task")
			_ = msg.Nak()
			return
		}

		if err := msg.Ack(); err != nil {
			log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to ack load message")
		}
	}
}
