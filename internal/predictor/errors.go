package predictor

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing or empty message.
	ErrInvalidInput = errors.New("invalid input")
	// ErrArtifactUnavailable reports that the vectorizer/classifier could not be loaded.
	ErrArtifactUnavailable = errors.New("artifact unavailable")
	// ErrUnknownClass reports a predicted index with no entry in the label table.
	ErrUnknownClass = errors.New("unknown class")
	// ErrInference reports a failure inside the classifier itself.
	ErrInference = errors.New("inference failed")
)

var errServiceClosed = errors.New("service closed")

// artifactError carries load failure detail and unwraps to ErrArtifactUnavailable.
type artifactError struct{ err error }

func (e artifactError) Error() string { return "artifact unavailable: " + e.err.Error() }

func (e artifactError) Unwrap() []error { return []error{ErrArtifactUnavailable, e.err} }

// ArtifactUnavailable wraps err so that it satisfies IsArtifactUnavailable.
// Errors that already do are returned unchanged.
func ArtifactUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrArtifactUnavailable) {
		return err
	}
	return artifactError{err: err}
}

// unknownClassError records the offending index.
type unknownClassError struct {
	class int
	cause error
}

func (e unknownClassError) Error() string {
	if e.cause != nil {
		return "unknown class: " + e.cause.Error()
	}
	return fmt.Sprintf("unknown class: index %d has no label", e.class)
}

func (e unknownClassError) Unwrap() error { return ErrUnknownClass }

// IsInvalidInput reports whether err is a client input error (return 400).
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsArtifactUnavailable reports whether err is an artifact load failure.
func IsArtifactUnavailable(err error) bool { return errors.Is(err, ErrArtifactUnavailable) }

// IsUnknownClass reports whether err is a class index outside the label table.
func IsUnknownClass(err error) bool { return errors.Is(err, ErrUnknownClass) }

// Failure kinds reported in EventPredictionFailed and used as metric labels.
const (
	KindInvalidInput        = "invalid_input"
	KindArtifactUnavailable = "artifact_unavailable"
	KindUnknownClass        = "unknown_class"
	KindInference           = "inference"
	KindCanceled            = "canceled"
)

// Kind classifies a Predict error.
func Kind(err error) string {
	switch {
	case IsInvalidInput(err):
		return KindInvalidInput
	case IsArtifactUnavailable(err):
		return KindArtifactUnavailable
	case IsUnknownClass(err):
		return KindUnknownClass
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInference
	}
}
