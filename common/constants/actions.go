package constants

// ActionType defines the type of action a message represents.
type ActionType string

const (
	// LoadRunAction triggers a load for a specific job.
	LoadRunAction ActionType = "load:run"
	// LoadCancelAction cancels a running load job.
	LoadCancelAction ActionType = "load:cancel"
)

// LoadStreamName is the JetStream stream that holds load job messages.
const LoadStreamName = "LOADS"
