package services

import (
	"context"

	"github.com/webharvest/loader-http-service/repository"
)

// LoadJobRepository is a PostgreSQL implementation of LoadJobService
type LoadJobRepository struct {
	db *repository.Queries
}

// NewLoadJobRepository creates a new PostgreSQL LoadJobRepository
func NewLoadJobRepository(db *repository.Queries) LoadJobService {
	return &LoadJobRepository{
		db: db,
	}
}

// Create creates a new load job
func (r *LoadJobRepository) Create(ctx context.Context, arg repository.CreateLoadJobParams) (repository.LoadJob, error) {
	job, err := r.db.CreateLoadJob(ctx, arg)
	if err != nil {
		return repository.LoadJob{}, err
	}

	return job, nil
}

// GetByID gets a load job by ID
func (r *LoadJobRepository) GetByID(ctx context.Context, id string) (repository.LoadJob, error) {
	job, err := r.db.GetLoadJobByID(ctx, id)
	if err != nil {
		return repository.LoadJob{}, err
	}

	return job, nil
}

// List lists load jobs with pagination and optional filters
func (r *LoadJobRepository) List(ctx context.Context, arg repository.ListLoadJobsParams) ([]repository.LoadJob, error) {
	jobs, err := r.db.ListLoadJobs(ctx, arg)
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// Count counts load jobs matching the filters
func (r *LoadJobRepository) Count(ctx context.Context, arg repository.CountLoadJobsParams) (int64, error) {
	return r.db.CountLoadJobs(ctx, arg)
}

// UpdateStatus updates the status of a load job
func (r *LoadJobRepository) UpdateStatus(ctx context.Context, id string, status string) (repository.LoadJob, error) {
	job, err := r.db.UpdateLoadJobStatus(ctx, repository.UpdateLoadJobStatusParams{
		ID:     id,
		Status: status,
	})
	if err != nil {
		return repository.LoadJob{}, err
	}

	return job, nil
}

// Complete finalizes a load job with its outcome
func (r *LoadJobRepository) Complete(ctx context.Context, arg repository.CompleteLoadJobParams) (repository.LoadJob, error) {
	job, err := r.db.CompleteLoadJob(ctx, arg)
	if err != nil {
		return repository.LoadJob{}, err
	}

	return job, nil
}
