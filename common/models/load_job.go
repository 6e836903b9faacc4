package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/webharvest/loader-http-service/repository"
)

type LoaderLogResponse struct {
	ID        string      `json:"id"`
	JobID     pgtype.Text `json:"job_id"`
	EventType string      `json:"event_type"`
	Message   pgtype.Text `json:"message"`
	Details   interface{} `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
}

type LoadJobDetailResponse struct {
	Job  repository.LoadJob  `json:"job"`
	Logs []LoaderLogResponse `json:"logs"`
}
