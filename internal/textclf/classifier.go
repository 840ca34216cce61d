// Package textclf implements the inference side of an exported text
// classification model: a TF-IDF vectorizer feeding a linear decision
// function, or an ONNX text-classification export run through hugot.
//
// Artifacts are JSON documents carrying a "type" field; decoders are looked
// up by that type so new model families can be added without touching the
// callers.
package textclf

import (
	"context"
	"errors"
)

// Classifier maps raw text to a class index.
type Classifier interface {
	Classify(ctx context.Context, text string) (int, error)
}

// Vectorizer turns raw text into a sparse feature vector.
type Vectorizer interface {
	Transform(text string) SparseVector
	// NumFeatures is the width of the vectors produced by Transform.
	NumFeatures() int
}

// Model maps a feature vector to a class index.
type Model interface {
	Predict(x SparseVector) int
	NumFeatures() int
	// Classes lists the class indices the model can emit, in decision order.
	Classes() []int
}

// LabelIndex resolves a string class label (e.g. "INTP") to a class index.
type LabelIndex func(label string) (int, bool)

var (
	// ErrUnknownType is returned when an artifact declares a type no decoder handles.
	ErrUnknownType = errors.New("unknown artifact type")
	// ErrShape is returned when artifact arrays have inconsistent dimensions.
	ErrShape = errors.New("inconsistent artifact shape")
	// ErrUnmappedLabel is returned when a backend emits a label that cannot be
	// resolved to a class index.
	ErrUnmappedLabel = errors.New("unmapped class label")
	// ErrClosed is returned by a classifier used after Close.
	ErrClosed = errors.New("classifier closed")
)
