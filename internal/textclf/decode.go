package textclf

import (
	"encoding/json"
	"fmt"
	"io"
)

// vectorizerDecoder builds a Vectorizer from a raw artifact document.
type vectorizerDecoder func(raw []byte) (Vectorizer, error)

// modelDecoder builds a Model from a raw artifact document.
type modelDecoder func(raw []byte, labels LabelIndex) (Model, error)

var vectorizerDecoders = map[string]vectorizerDecoder{
	"tfidf": func(raw []byte) (Vectorizer, error) {
		var doc tfidfDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return newTfidfVectorizer(doc)
	},
}

var modelDecoders = map[string]modelDecoder{
	"linear": func(raw []byte, labels LabelIndex) (Model, error) {
		var doc struct {
			Classes   []json.RawMessage `json:"classes"`
			Coef      [][]float64       `json:"coef"`
			Intercept []float64         `json:"intercept"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		classes, err := resolveClasses(doc.Classes, labels)
		if err != nil {
			return nil, err
		}
		return NewLinearModel(classes, doc.Coef, doc.Intercept)
	},
	"multinomial_nb": func(raw []byte, labels LabelIndex) (Model, error) {
		var doc struct {
			Classes        []json.RawMessage `json:"classes"`
			FeatureLogProb [][]float64       `json:"feature_log_prob"`
			ClassLogPrior  []float64         `json:"class_log_prior"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		classes, err := resolveClasses(doc.Classes, labels)
		if err != nil {
			return nil, err
		}
		if len(doc.ClassLogPrior) != len(doc.FeatureLogProb) {
			return nil, fmt.Errorf("%w: %d priors for %d classes", ErrShape, len(doc.ClassLogPrior), len(doc.FeatureLogProb))
		}
		if len(classes) != len(doc.FeatureLogProb) {
			return nil, fmt.Errorf("%w: %d classes for %d log-probability rows", ErrShape, len(classes), len(doc.FeatureLogProb))
		}
		return NewLinearModel(classes, doc.FeatureLogProb, doc.ClassLogPrior)
	},
}

// DecodeVectorizer reads a vectorizer artifact.
func DecodeVectorizer(r io.Reader) (Vectorizer, error) {
	raw, typ, err := readTyped(r)
	if err != nil {
		return nil, err
	}
	dec, ok := vectorizerDecoders[typ]
	if !ok {
		return nil, fmt.Errorf("%w: vectorizer %q", ErrUnknownType, typ)
	}
	v, err := dec(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s vectorizer: %w", typ, err)
	}
	return v, nil
}

// DecodeModel reads a model artifact. labels resolves string class labels and may be nil
// when the artifact uses integer classes only.
func DecodeModel(r io.Reader, labels LabelIndex) (Model, error) {
	raw, typ, err := readTyped(r)
	if err != nil {
		return nil, err
	}
	dec, ok := modelDecoders[typ]
	if !ok {
		return nil, fmt.Errorf("%w: model %q", ErrUnknownType, typ)
	}
	m, err := dec(raw, labels)
	if err != nil {
		return nil, fmt.Errorf("decode %s model: %w", typ, err)
	}
	return m, nil
}

func readTyped(r io.Reader) ([]byte, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, "", err
	}
	if head.Type == "" {
		return nil, "", fmt.Errorf("%w: missing type field", ErrUnknownType)
	}
	return raw, head.Type, nil
}

// resolveClasses accepts integer class indices or string labels.
func resolveClasses(raw []json.RawMessage, labels LabelIndex) ([]int, error) {
	out := make([]int, len(raw))
	for i, r := range raw {
		var n int
		if err := json.Unmarshal(r, &n); err == nil {
			out[i] = n
			continue
		}
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, fmt.Errorf("class %d: not an integer or string: %s", i, string(r))
		}
		if labels == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedLabel, s)
		}
		idx, ok := labels(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedLabel, s)
		}
		out[i] = idx
	}
	return out, nil
}
