package textclf

import "fmt"

// LinearModel evaluates argmax(coef . x + intercept). It covers logistic
// regression, linear SVMs and SGD classifiers, and multinomial naive Bayes
// once its log probabilities are loaded as coefficients.
//
// A single coefficient row with two classes is the binary case: a positive
// score selects the second class.
type LinearModel struct {
	classes   []int
	coef      [][]float64
	intercept []float64
	width     int
}

// NewLinearModel validates shapes and builds a LinearModel.
func NewLinearModel(classes []int, coef [][]float64, intercept []float64) (*LinearModel, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("%w: no coefficient rows", ErrShape)
	}
	if len(intercept) == 0 {
		intercept = make([]float64, len(coef))
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("%w: %d intercepts for %d coefficient rows", ErrShape, len(intercept), len(coef))
	}
	binary := len(coef) == 1 && len(classes) == 2
	if !binary && len(classes) != len(coef) {
		return nil, fmt.Errorf("%w: %d classes for %d coefficient rows", ErrShape, len(classes), len(coef))
	}
	width := len(coef[0])
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("%w: coefficient row %d has %d columns, want %d", ErrShape, i, len(row), width)
		}
	}
	return &LinearModel{classes: classes, coef: coef, intercept: intercept, width: width}, nil
}

// NumFeatures implements Model.
func (m *LinearModel) NumFeatures() int { return m.width }

// Classes implements Model.
func (m *LinearModel) Classes() []int {
	out := make([]int, len(m.classes))
	copy(out, m.classes)
	return out
}

// Predict implements Model. Ties resolve to the lowest row.
func (m *LinearModel) Predict(x SparseVector) int {
	if len(m.coef) == 1 && len(m.classes) == 2 {
		if x.Dot(m.coef[0])+m.intercept[0] > 0 {
			return m.classes[1]
		}
		return m.classes[0]
	}
	best := 0
	bestScore := x.Dot(m.coef[0]) + m.intercept[0]
	for k := 1; k < len(m.coef); k++ {
		if s := x.Dot(m.coef[k]) + m.intercept[k]; s > bestScore {
			best, bestScore = k, s
		}
	}
	return m.classes[best]
}
