package predictor

import (
	"time"

	"github.com/rs/zerolog"

	"mbtid/pkg/types"
)

// Config encapsulates everything needed to construct a Service. Exactly one of
// Artifact or Loader should be set; with neither, every prediction fails with
// ErrArtifactUnavailable.
type Config struct {
	// Artifact is an already-loaded classifier.
	Artifact Artifact
	// Info describes Artifact; ignored when Loader is used.
	Info ArtifactInfo
	// Loader loads the artifact on first use.
	Loader Loader
	// Logger receives load and inference diagnostics. Zero value discards.
	Logger zerolog.Logger
	// Publisher receives lifecycle events. Nil drops them.
	Publisher EventPublisher
	// Catalog lists the artifacts available on disk for Status. Optional.
	Catalog func() []types.ArtifactEntry
}

// NewWithConfig constructs a Service from Config.
func NewWithConfig(cfg Config) *Service {
	s := &Service{
		loader:    cfg.Loader,
		log:       cfg.Logger,
		pub:       cfg.Publisher,
		catalog:   cfg.Catalog,
		startTime: time.Now(),
	}
	if s.pub == nil {
		s.pub = noopPublisher{}
	}
	if cfg.Artifact != nil {
		s.cur = &loadedArtifact{art: cfg.Artifact, info: cfg.Info, loadedAt: s.startTime}
	}
	return s
}
