package logger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/webharvest/loader-http-service/common/db"
	"github.com/webharvest/loader-http-service/repository"
)

// LoaderLogHook implements zerolog.Hook interface
// for storing logs in the database
type LoaderLogHook struct {
	db *db.DB
}

// NewLoaderLogHook creates a new log hook
func NewLoaderLogHook(db *db.DB) *LoaderLogHook {
	return &LoaderLogHook{
		db: db,
	}
}

// Run implements zerolog.Hook.Run
func (h *LoaderLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	// Skip if level is too low
	if level < zerolog.InfoLevel {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	logEvent := LogEvent{
		Message:   msg,
		EventType: level.String(),
	}

	// This is done asynchronously to not block the logging
	go func() {
		defer cancel()
		if err := h.logToDatabase(ctx, logEvent); err != nil {
			// Log the error but don't use the hook to avoid potential infinite recursion
			log.Error().Err(err).Msg("Failed to log to database via hook")
		}
	}()
}

// logToDatabase stores the log in the database
func (h *LoaderLogHook) logToDatabase(ctx context.Context, event LogEvent) error {
	logID := uuid.New().String()

	var detailsJSON json.RawMessage
	if event.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
			detailsJSON = json.RawMessage("{}")
		}
	} else {
		detailsJSON = json.RawMessage("{}")
	}

	jobID := pgtype.Text{
		String: event.JobID,
		Valid:  event.JobID != "",
	}

	message := pgtype.Text{
		String: event.Message,
		Valid:  event.Message != "",
	}

	logParams := repository.CreateLoaderLogParams{
		ID:        logID,
		JobID:     jobID,
		EventType: event.EventType,
		Message:   message,
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	}

	return h.db.Queries.CreateLoaderLog(ctx, logParams)
}

// LogService provides structured logging to database
type LogService struct {
	db *db.DB
}

// LogEvent represents a log event
type LogEvent struct {
	JobID     string
	EventType string
	Message   string
	Details   interface{}
}

// InitializeLogging sets up global zerolog configuration with database hooks
func InitializeLogging(db *db.DB) {
	hook := NewLoaderLogHook(db)
	log.Logger = log.Logger.Hook(hook)
}

// NewLogService creates a new log service
func NewLogService(db *db.DB) *LogService {
	return &LogService{
		db: db,
	}
}

// Log creates a log entry in the database
func (s *LogService) Log(ctx context.Context, event LogEvent) error {
	logID := uuid.New().String()

	var detailsJSON json.RawMessage
	if event.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
			detailsJSON = json.RawMessage("{}")
		}
	} else {
		detailsJSON = json.RawMessage("{}")
	}

	jobID := pgtype.Text{
		String: event.JobID,
		Valid:  event.JobID != "",
	}

	message := pgtype.Text{
		String: event.Message,
		Valid:  event.Message != "",
	}

	logParams := repository.CreateLoaderLogParams{
		ID:        logID,
		JobID:     jobID,
		EventType: event.EventType,
		Message:   message,
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	}

	if err := s.db.Queries.CreateLoaderLog(ctx, logParams); err != nil {
		log.Error().Err(err).Msg("Failed to insert log into database")
		return err
	}

	// Also log to console for visibility
	logEntry := log.Info()

	if event.JobID != "" {
		logEntry = logEntry.Str("jobID", event.JobID)
	}

	logEntry.
		Str("eventType", event.EventType).
		Str("message", event.Message).
		Interface("details", event.Details).
		Msg("Loader event")

	return nil
}

// Error logs an error event
func (s *LogService) Error(ctx context.Context, jobID, message string, err error, details interface{}) error {
	detailMap := map[string]interface{}{
		"error": err.Error(),
	}

	if details != nil {
		if detailsMap, ok := details.(map[string]interface{}); ok {
			for k, v := range detailsMap {
				detailMap[k] = v
			}
		} else {
			detailMap["additional"] = details
		}
	}

	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "error",
		Message:   message,
		Details:   detailMap,
	})
}

// LoadStart logs the start of a load operation
func (s *LogService) LoadStart(ctx context.Context, jobID, mode, url string) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "load.started",
		Message:   "Load operation started",
		Details: map[string]interface{}{
			"mode": mode,
			"url":  url,
		},
	})
}

// LoadComplete logs the completion of a load operation
func (s *LogService) LoadComplete(ctx context.Context, jobID string, documentsCount int) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "load.completed",
		Message:   "Load operation completed",
		Details: map[string]interface{}{
			"documents_count": documentsCount,
		},
	})
}

// LoadFailed logs a failed load operation
func (s *LogService) LoadFailed(ctx context.Context, jobID string, loadErr error) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "load.failed",
		Message:   "Load operation failed",
		Details: map[string]interface{}{
			"error": loadErr.Error(),
		},
	})
}

// CheckDatabaseHealth verifies the database connection is alive
func (s *LogService) CheckDatabaseHealth(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetDatabaseStats returns connection pool statistics
func (s *LogService) GetDatabaseStats() map[string]interface{} {
	stat := s.db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"idle_conns":     stat.IdleConns(),
		"acquired_conns": stat.AcquiredConns(),
		"max_conns":      stat.MaxConns(),
	}
}
