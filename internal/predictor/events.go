package predictor

// Event names.
const (
	EventPrediction         = "prediction"
	EventPredictionFailed   = "prediction_failed"
	EventArtifactLoaded     = "artifact_loaded"
	EventArtifactLoadFailed = "artifact_load_failed"
)

// Event represents a service lifecycle event.
// Minimal and stable: name plus optional fields via key/values.
//
//	prediction            class (int), label (string)
//	prediction_failed     kind (string), error (string)
//	artifact_loaded       backend, dir (string), duration (time.Duration)
//	artifact_load_failed  error (string), duration (time.Duration)
type Event struct {
	Name   string
	Fields map[string]any
}

// EventPublisher receives events from the service. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
