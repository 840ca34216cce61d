package predictor

import (
	"context"
	"time"
)

// State represents the lifecycle state of the service.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Artifact is a loaded vectorizer + classifier. Implementations must be safe
// for concurrent use once loaded.
type Artifact interface {
	Classify(ctx context.Context, text string) (int, error)
}

// ArtifactInfo describes where an artifact came from.
type ArtifactInfo struct {
	Backend string
	Dir     string
}

// Loader produces the artifact. It is called at most once concurrently; a
// successful result is kept for the life of the Service.
type Loader func(ctx context.Context) (Artifact, ArtifactInfo, error)

// Result is the outcome of one prediction.
type Result struct {
	Message string
	Label   string
	Class   int
}

// loadedArtifact is the cached state after a successful load.
type loadedArtifact struct {
	art      Artifact
	info     ArtifactInfo
	loadedAt time.Time
}
