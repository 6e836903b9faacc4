package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/webharvest/loader-http-service/repository"
)

// LoadJobService defines the interface for load job database operations
type LoadJobService interface {
	// Create creates a new load job
	Create(ctx context.Context, arg repository.CreateLoadJobParams) (repository.LoadJob, error)

	// GetByID gets a load job by ID
	GetByID(ctx context.Context, id string) (repository.LoadJob, error)

	// List lists load jobs with pagination and optional filters
	List(ctx context.Context, arg repository.ListLoadJobsParams) ([]repository.LoadJob, error)

	// Count counts load jobs matching the filters
	Count(ctx context.Context, arg repository.CountLoadJobsParams) (int64, error)

	// UpdateStatus updates the status of a load job
	UpdateStatus(ctx context.Context, id string, status string) (repository.LoadJob, error)

	// Complete finalizes a load job with its outcome
	Complete(ctx context.Context, arg repository.CompleteLoadJobParams) (repository.LoadJob, error)
}

// DocumentService defines the interface for document database operations
type DocumentService interface {
	// Create creates a new document
	Create(ctx context.Context, arg repository.CreateDocumentParams) (repository.Document, error)

	// ListByJobID lists documents for a job ordered by position
	ListByJobID(ctx context.Context, arg repository.ListDocumentsByJobIDParams) ([]repository.Document, error)

	// CountByJobID counts documents for a job
	CountByJobID(ctx context.Context, jobID string) (int64, error)

	// SetArchiveLink records the storage object holding an archived document
	SetArchiveLink(ctx context.Context, id string, archiveLink pgtype.Text) error
}
