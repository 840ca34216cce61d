package textclf

import (
	"context"
	"fmt"
)

// Pipeline chains a Vectorizer and a Model. It holds no mutable state and is
// safe for concurrent use.
type Pipeline struct {
	vec   Vectorizer
	model Model
}

// NewPipeline checks that the vectorizer output fits the model input.
func NewPipeline(vec Vectorizer, model Model) (*Pipeline, error) {
	if vec.NumFeatures() != model.NumFeatures() {
		return nil, fmt.Errorf("%w: vectorizer emits %d features, model expects %d", ErrShape, vec.NumFeatures(), model.NumFeatures())
	}
	return &Pipeline{vec: vec, model: model}, nil
}

// Classify implements Classifier.
func (p *Pipeline) Classify(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.model.Predict(p.vec.Transform(text)), nil
}

// Classes lists the class indices the underlying model can emit.
func (p *Pipeline) Classes() []int { return p.model.Classes() }
