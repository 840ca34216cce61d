package predictor

import (
	"time"

	"mbtid/pkg/types"
)

// Ready reports whether an artifact is loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.cur != nil:
		return StateReady
	case s.lastErr != "":
		return StateError
	default:
		return StateLoading
	}
}

// Status returns a snapshot for the /status endpoint. With a catalog
// configured it also lists the artifacts found on disk.
func (s *Service) Status() types.StatusResponse {
	var found []types.ArtifactEntry
	if s.catalog != nil {
		found = s.catalog()
	}
	state := s.State()
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	out := types.StatusResponse{
		State:            string(state),
		PredictionsTotal: s.predictions.Load(),
		FailuresTotal:    s.failures.Load(),
		LastError:        s.lastErr,
		UptimeSeconds:    int64(now.Sub(s.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
		Artifacts:        found,
	}
	if s.cur != nil {
		out.Backend = s.cur.info.Backend
		out.ArtifactDir = s.cur.info.Dir
		out.LoadedAtUnix = s.cur.loadedAt.Unix()
	}
	return out
}
