package textclf

import "math"

// SparseVector holds the non-zero entries of a feature vector, sorted by index.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Dot computes the dot product with a dense row. Indices outside the row are ignored.
func (v SparseVector) Dot(row []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(row) {
			sum += row[idx] * v.Values[i]
		}
	}
	return sum
}

// normalize scales v in place to unit norm. kind is "l2", "l1" or "" (none).
func (v SparseVector) normalize(kind string) {
	var n float64
	switch kind {
	case "l2":
		for _, x := range v.Values {
			n += x * x
		}
		n = math.Sqrt(n)
	case "l1":
		for _, x := range v.Values {
			n += math.Abs(x)
		}
	default:
		return
	}
	if n == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= n
	}
}
