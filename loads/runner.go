package loads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/webharvest/loader-http-service/common/config"
	"github.com/webharvest/loader-http-service/common/db"
	"github.com/webharvest/loader-http-service/common/loader"
	"github.com/webharvest/loader-http-service/common/logger"
	"github.com/webharvest/loader-http-service/common/messaging"
	"github.com/webharvest/loader-http-service/common/redis"
	"github.com/webharvest/loader-http-service/common/services"
	"github.com/webharvest/loader-http-service/common/storage"
	"github.com/webharvest/loader-http-service/common/work"
	"github.com/webharvest/loader-http-service/repository"
)

// Runner executes load jobs end to end: it claims the job, runs the loader,
// persists the resulting documents and reports the outcome.
type Runner struct {
	db         *db.DB
	broker     *messaging.NatsBroker
	cfg        config.Config
	storage    storage.StorageService
	manager    *work.LoadManager
	logService *logger.LogService
	jobs       services.LoadJobService
	documents  services.DocumentService

	// newLoader builds a loader for a job. Overridable in tests.
	newLoader func(cfg loader.Config) (*loader.Loader, error)
}

// NewRunner creates a new load job runner
func NewRunner(dbConn *db.DB, broker *messaging.NatsBroker, cfg config.Config, storageService storage.StorageService) *Runner {
	return &Runner{
		db:         dbConn,
		broker:     broker,
		cfg:        cfg,
		storage:    storageService,
		manager:    work.NewLoadManager(dbConn),
		logService: logger.NewLogService(dbConn),
		jobs:       services.NewLoadJobRepository(dbConn.Queries),
		documents:  services.NewDocumentRepository(dbConn.Queries),
		newLoader:  loader.New,
	}
}

// Run executes a single load job. It returns the number of documents produced.
func (r *Runner) Run(ctx context.Context, job repository.LoadJob) (int, error) {
	if err := r.manager.Start(ctx, job.ID); err != nil {
		return 0, err
	}

	if err := r.logService.LoadStart(ctx, job.ID, job.Mode, job.Url); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to log load start")
	}

	docs, err := r.execute(ctx, job)
	if err != nil {
		r.fail(ctx, job, err)
		return 0, err
	}

	if err := r.finish(ctx, job, docs); err != nil {
		return len(docs), err
	}

	return len(docs), nil
}

// execute builds the loader for the job and runs it.
func (r *Runner) execute(ctx context.Context, job repository.LoadJob) ([]loader.Document, error) {
	var params map[string]any
	if len(job.Params) > 0 {
		if err := json.Unmarshal(job.Params, &params); err != nil {
			return nil, fmt.Errorf("failed to parse job params: %w", err)
		}
	}

	ld, err := r.newLoader(loader.Config{
		URL:    job.Url,
		APIKey: r.cfg.Firecrawl.APIKey,
		APIURL: r.cfg.Firecrawl.APIURL,
		Mode:   loader.Mode(job.Mode),
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	return ld.Load(ctx)
}

// finish persists documents and reports a successful outcome.
func (r *Runner) finish(ctx context.Context, job repository.LoadJob, docs []loader.Document) error {
	for i, doc := range docs {
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			metadata = json.RawMessage("{}")
		}

		record, err := r.documents.Create(ctx, repository.CreateDocumentParams{
			ID:       uuid.New().String(),
			JobID:    job.ID,
			Position: int32(i),
			Content:  doc.Content,
			Metadata: metadata,
		})
		if err != nil {
			r.fail(ctx, job, fmt.Errorf("failed to persist document %d: %w", i, err))
			return err
		}

		r.archiveDocument(ctx, job, record)
	}

	if _, err := r.jobs.Complete(ctx, repository.CompleteLoadJobParams{
		ID:             job.ID,
		Status:         work.StatusCompleted,
		TotalDocuments: int32(len(docs)),
	}); err != nil {
		log.Error().Err(err).Str("jobID", job.ID).Msg("Failed to finalize load job")
		return err
	}

	if err := r.manager.Complete(ctx, job.ID); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to release load state")
	}

	if err := r.db.Redis.CacheLoadResult(ctx, job.ID, docs, redis.DefaultLoadResultTTL); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to cache load result")
	}

	if err := r.logService.LoadComplete(ctx, job.ID, len(docs)); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to log load completion")
	}

	r.publish(ctx, messaging.SubjectLoadCompleted, messaging.LoadCompletedMessage{
		JobID:          job.ID,
		Mode:           job.Mode,
		URL:            job.Url,
		TotalDocuments: len(docs),
	})

	return nil
}

// fail records a failed outcome for the job.
func (r *Runner) fail(ctx context.Context, job repository.LoadJob, loadErr error) {
	if _, err := r.jobs.Complete(ctx, repository.CompleteLoadJobParams{
		ID:     job.ID,
		Status: work.StatusFailed,
		ErrorMessage: pgtype.Text{
			String: loadErr.Error(),
			Valid:  true,
		},
	}); err != nil {
		log.Error().Err(err).Str("jobID", job.ID).Msg("Failed to persist load failure")
	}

	if err := r.manager.Fail(ctx, job.ID); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to release load state")
	}

	if err := r.logService.LoadFailed(ctx, job.ID, loadErr); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID).Msg("Failed to log load failure")
	}

	r.publish(ctx, messaging.SubjectLoadFailed, messaging.LoadFailedMessage{
		JobID: job.ID,
		Mode:  job.Mode,
		URL:   job.Url,
		Error: loadErr.Error(),
	})
}

// archiveDocument uploads a document's content to object storage when a bucket
// is configured. Archive failures are logged but do not fail the job.
func (r *Runner) archiveDocument(ctx context.Context, job repository.LoadJob, doc repository.Document) {
	if r.storage == nil || r.cfg.GCS.Bucket == "" {
		return
	}

	objectName := fmt.Sprintf("loads/%s/%s.md", job.ID, doc.ID)
	link, err := r.storage.Upload(ctx, r.cfg.GCS.Bucket, objectName, []byte(doc.Content), "text/markdown")
	if err != nil {
		log.Warn().Err(err).
			Str("jobID", job.ID).
			Str("documentID", doc.ID).
			Msg("Failed to archive document")
		return
	}

	if err := r.documents.SetArchiveLink(ctx, doc.ID, pgtype.Text{String: link, Valid: true}); err != nil {
		log.Warn().Err(err).
			Str("jobID", job.ID).
			Str("documentID", doc.ID).
			Msg("Failed to record archive link")
	}
}

// publish sends an outcome message. Publish failures are logged but not fatal;
// the database already holds the job's final state.
func (r *Runner) publish(ctx context.Context, subject string, payload any) {
	if r.broker == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal outcome message")
		return
	}

	if err := r.broker.PublishSync(ctx, subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish outcome message")
	}
}
