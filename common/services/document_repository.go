package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/webharvest/loader-http-service/repository"
)

// DocumentRepository is a PostgreSQL implementation of DocumentService
type DocumentRepository struct {
	db *repository.Queries
}

// NewDocumentRepository creates a new PostgreSQL DocumentRepository
func NewDocumentRepository(db *repository.Queries) DocumentService {
	return &DocumentRepository{
		db: db,
	}
}

// Create creates a new document
func (r *DocumentRepository) Create(ctx context.Context, arg repository.CreateDocumentParams) (repository.Document, error) {
	doc, err := r.db.CreateDocument(ctx, arg)
	if err != nil {
		return repository.Document{}, err
	}

	return doc, nil
}

// ListByJobID lists documents for a job ordered by position
func (r *DocumentRepository) ListByJobID(ctx context.Context, arg repository.ListDocumentsByJobIDParams) ([]repository.Document, error) {
	docs, err := r.db.ListDocumentsByJobID(ctx, arg)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// CountByJobID counts documents for a job
func (r *DocumentRepository) CountByJobID(ctx context.Context, jobID string) (int64, error) {
	return r.db.CountDocumentsByJobID(ctx, jobID)
}

// SetArchiveLink records the storage object holding an archived document
func (r *DocumentRepository) SetArchiveLink(ctx context.Context, id string, archiveLink pgtype.Text) error {
	return r.db.UpdateDocumentArchiveLink(ctx, repository.UpdateDocumentArchiveLinkParams{
		ID:          id,
		ArchiveLink: archiveLink,
	})
}
