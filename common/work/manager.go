package work

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/webharvest/loader-http-service/common/db"
	"github.com/webharvest/loader-http-service/repository"
)

const (
	loadStateKeyPrefix = "load:state:"
	runningState       = "running"
	// loadTimeout sets how long a load is considered running before it's considered stale.
	// This prevents loads that died without proper cleanup from being stuck in 'running' state forever.
	loadTimeout = 2 * time.Hour
)

// Job status values persisted to the database.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// LoadManager manages the state of load jobs in Redis.
type LoadManager struct {
	db *db.DB
}

// NewLoadManager creates a new LoadManager. The db parameter can be nil; in that case
// job state will only be stored in Redis.
func NewLoadManager(dbConn *db.DB) *LoadManager {
	return &LoadManager{
		db: dbConn,
	}
}

// getLoadKey returns the Redis key for a given job ID.
func (lm *LoadManager) getLoadKey(jobID string) string {
	return fmt.Sprintf("%s%s", loadStateKeyPrefix, jobID)
}

// Start marks a load as running. It sets a key in Redis with an expiration.
// If the load is already running, it returns an error.
func (lm *LoadManager) Start(ctx context.Context, jobID string) error {
	key := lm.getLoadKey(jobID)
	// SetNX to prevent starting a load that is already running.
	ok, err := lm.db.Redis.SetNX(ctx, key, runningState, loadTimeout)
	if err != nil {
		return fmt.Errorf("failed to start load %s: %w", jobID, err)
	}
	if !ok {
		return fmt.Errorf("load %s is already running", jobID)
	}

	if err := lm.updateJobStatus(ctx, jobID, StatusRunning); err != nil {
		log.Warn().Err(err).Str("jobID", jobID).Msg("failed to persist job status to DB")
	}

	return nil
}

// IsRunning checks if a load is currently marked as running.
func (lm *LoadManager) IsRunning(ctx context.Context, jobID string) (bool, error) {
	key := lm.getLoadKey(jobID)
	state, err := lm.db.Redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get load state for %s: %w", jobID, err)
	}
	return state == runningState, nil
}

// removeLoad removes a load's state from Redis.
func (lm *LoadManager) removeLoad(ctx context.Context, jobID string) error {
	key := lm.getLoadKey(jobID)
	err := lm.db.Redis.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to remove load %s: %w", jobID, err)
	}
	return nil
}

// Complete marks a load as completed by removing its state from Redis.
func (lm *LoadManager) Complete(ctx context.Context, jobID string) error {
	if err := lm.removeLoad(ctx, jobID); err != nil {
		return err
	}

	if err := lm.updateJobStatus(ctx, jobID, StatusCompleted); err != nil {
		log.Warn().Err(err).Str("jobID", jobID).Msg("failed to persist job completion to DB")
	}

	return nil
}

// Fail marks a load as failed by removing its state from Redis.
func (lm *LoadManager) Fail(ctx context.Context, jobID string) error {
	if err := lm.removeLoad(ctx, jobID); err != nil {
		return err
	}

	if err := lm.updateJobStatus(ctx, jobID, StatusFailed); err != nil {
		log.Warn().Err(err).Str("jobID", jobID).Msg("failed to persist job failure to DB")
	}

	return nil
}

// Cancel marks a load as cancelled by removing its state from Redis.
func (lm *LoadManager) Cancel(ctx context.Context, jobID string) error {
	if err := lm.removeLoad(ctx, jobID); err != nil {
		return err
	}

	if err := lm.updateJobStatus(ctx, jobID, StatusCancelled); err != nil {
		log.Warn().Err(err).Str("jobID", jobID).Msg("failed to persist job cancellation to DB")
	}

	return nil
}

// ListRunningLoads returns a slice of job IDs for all loads currently marked as running.
// This can be used on startup to find and resume stale loads.
// It uses SCAN to avoid blocking the Redis server.
func (lm *LoadManager) ListRunningLoads(ctx context.Context) ([]string, error) {
	var jobIDs []string
	pattern := fmt.Sprintf("%s*", loadStateKeyPrefix)

	iter := lm.db.Redis.GetClient().Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		jobID := strings.TrimPrefix(key, loadStateKeyPrefix)
		jobIDs = append(jobIDs, jobID)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan for running loads in Redis: %w", err)
	}

	return jobIDs, nil
}

// Resume checks if a load is running and extends its expiration if it is.
func (lm *LoadManager) Resume(ctx context.Context, jobID string) (bool, error) {
	key := lm.getLoadKey(jobID)
	state, err := lm.db.Redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return false, nil // Not running
		}
		return false, fmt.Errorf("failed to get load state for %s: %w", jobID, err)
	}

	if state == runningState {
		// If it's running, extend the expiration time.
		if err := lm.db.Redis.Set(ctx, key, runningState, loadTimeout); err != nil {
			return true, fmt.Errorf("failed to extend load session for %s: %w", jobID, err)
		}

		if err := lm.updateJobStatus(ctx, jobID, StatusRunning); err != nil {
			log.Warn().Err(err).Str("jobID", jobID).Msg("failed to persist job resume to DB")
		}
		return true, nil
	}

	return false, nil
}

// updateJobStatus updates the job record in the database.
// It is a no-op when database initialisation failed.
func (lm *LoadManager) updateJobStatus(ctx context.Context, jobID, status string) error {
	if lm.db == nil || lm.db.Queries == nil {
		// DB not provided; skip persistence.
		return nil
	}

	if _, err := lm.db.Queries.UpdateLoadJobStatus(ctx, repository.UpdateLoadJobStatusParams{
		ID:     jobID,
		Status: status,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Job rows are created by the API handler before the load starts; a
			// missing row means the caller skipped that step.
			return fmt.Errorf("load job %s has no database record", jobID)
		}
		return fmt.Errorf("update job status: %w", err)
	}

	return nil
}
