package messaging

import "github.com/webharvest/loader-http-service/common/constants"

// Constants for NATS subjects
const (
	SubjectLoadRun       = "load.run"
	SubjectLoadCompleted = "load.completed"
	SubjectLoadFailed    = "load.failed"
)

// LoadRequest is published to load.run to trigger a load job
type LoadRequest struct {
	JobID  string               `json:"job_id"`
	Type   constants.ActionType `json:"type"`
	Mode   string               `json:"mode"`
	URL    string               `json:"url"`
	Params map[string]any       `json:"params,omitempty"`
}

// LoadCompletedMessage is published to load.completed when a job finishes
type LoadCompletedMessage struct {
	JobID          string `json:"job_id"`
	Mode           string `json:"mode"`
	URL            string `json:"url"`
	TotalDocuments int    `json:"total_documents"`
}

// LoadFailedMessage is published to load.failed when a job fails
type LoadFailedMessage struct {
	JobID string `json:"job_id"`
	Mode  string `json:"mode"`
	URL   string `json:"url"`
	Error string `json:"error"`
}
