package predictor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"mbtid/internal/textclf"
	"mbtid/pkg/types"
)

// Service runs predictions against a single classifier artifact. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	loader  Loader
	log     zerolog.Logger
	pub     EventPublisher
	catalog func() []types.ArtifactEntry

	group singleflight.Group

	mu      sync.RWMutex
	cur     *loadedArtifact
	lastErr string
	closed  bool

	startTime   time.Time
	predictions atomic.Uint64
	failures    atomic.Uint64
}

// New returns a Service backed by an already-loaded artifact.
func New(art Artifact, info ArtifactInfo) *Service {
	return NewWithConfig(Config{Artifact: art, Info: info})
}

// NewLazy returns a Service that loads its artifact on first use.
func NewLazy(loader Loader) *Service {
	return NewWithConfig(Config{Loader: loader})
}

// Predict classifies message and resolves the label. An empty message fails
// with ErrInvalidInput before any artifact access.
func (s *Service) Predict(ctx context.Context, message string) (Result, error) {
	if message == "" {
		err := fmt.Errorf("%w: message is required", ErrInvalidInput)
		s.failures.Add(1)
		s.pub.Publish(Event{Name: EventPredictionFailed, Fields: map[string]any{"kind": KindInvalidInput, "error": err.Error()}})
		return Result{}, err
	}
	art, err := s.artifact(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !IsArtifactUnavailable(err) {
			return Result{}, s.canceled(ctxErr)
		}
		return Result{}, s.fail(err)
	}
	class, err := art.Classify(ctx, message)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, s.canceled(ctxErr)
		}
		if errors.Is(err, textclf.ErrUnmappedLabel) {
			return Result{}, s.fail(unknownClassError{class: -1, cause: err})
		}
		return Result{}, s.fail(fmt.Errorf("%w: %w", ErrInference, err))
	}
	label, ok := Label(class)
	if !ok {
		return Result{}, s.fail(unknownClassError{class: class})
	}
	s.predictions.Add(1)
	s.pub.Publish(Event{Name: EventPrediction, Fields: map[string]any{"class": class, "label": label}})
	return Result{Message: message, Label: label, Class: class}, nil
}

// Warmup loads the artifact if it is not loaded yet.
func (s *Service) Warmup(ctx context.Context) error {
	_, err := s.artifact(ctx)
	return err
}

// artifact returns the cached artifact, loading it through the loader when absent.
// Concurrent callers share one load; a failed load is not cached. The load
// does not inherit the caller's cancellation, so a caller that gives up only
// stops waiting and the other callers still get the artifact.
func (s *Service) artifact(ctx context.Context) (Artifact, error) {
	s.mu.RLock()
	cur, closed := s.cur, s.closed
	s.mu.RUnlock()
	if cur != nil {
		return cur.art, nil
	}
	if closed {
		return nil, ArtifactUnavailable(errServiceClosed)
	}
	if s.loader == nil {
		return nil, ArtifactUnavailable(errors.New("no artifact configured"))
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("artifact", func() (any, error) {
		return s.load(loadCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(Artifact), nil
	}
}

func (s *Service) load(ctx context.Context) (Artifact, error) {
	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()
	if cur != nil {
		return cur.art, nil
	}
	start := time.Now()
	art, info, err := s.loader(ctx)
	if err == nil && art == nil {
		err = errors.New("loader returned no artifact")
	}
	if err != nil {
		err = ArtifactUnavailable(err)
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.log.Error().Err(err).Dur("dur", time.Since(start)).Msg("artifact load failed")
		s.pub.Publish(Event{Name: EventArtifactLoadFailed, Fields: map[string]any{"error": err.Error(), "duration": time.Since(start)}})
		return nil, err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		closeArtifact(art)
		return nil, ArtifactUnavailable(errServiceClosed)
	}
	s.cur = &loadedArtifact{art: art, info: info, loadedAt: time.Now()}
	s.mu.Unlock()
	s.log.Info().Str("backend", info.Backend).Str("dir", info.Dir).Dur("dur", time.Since(start)).Msg("artifact loaded")
	s.pub.Publish(Event{Name: EventArtifactLoaded, Fields: map[string]any{"backend": info.Backend, "dir": info.Dir, "duration": time.Since(start)}})
	return art, nil
}

// Close releases the loaded artifact if it holds resources, such as an ONNX
// session. Predictions after Close fail with ErrArtifactUnavailable.
func (s *Service) Close() error {
	s.mu.Lock()
	cur := s.cur
	s.cur = nil
	s.closed = true
	s.mu.Unlock()
	if cur == nil {
		return nil
	}
	return closeArtifact(cur.art)
}

func closeArtifact(art Artifact) error {
	if c, ok := art.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// canceled records a prediction abandoned by its caller. It is not a server
// failure and leaves the service state alone.
func (s *Service) canceled(err error) error {
	s.failures.Add(1)
	s.pub.Publish(Event{Name: EventPredictionFailed, Fields: map[string]any{"kind": KindCanceled, "error": err.Error()}})
	return err
}

// fail records a server-side failure and returns err.
func (s *Service) fail(err error) error {
	s.failures.Add(1)
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	if !IsArtifactUnavailable(err) {
		s.log.Error().Err(err).Msg("prediction failed")
	}
	s.pub.Publish(Event{Name: EventPredictionFailed, Fields: map[string]any{"kind": Kind(err), "error": err.Error()}})
	return err
}
