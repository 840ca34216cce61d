package textclf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// ONNXClassifier runs a Hugging Face text-classification export through the
// hugot pure-Go session. The session is not safe for concurrent inference, so
// calls are serialized.
type ONNXClassifier struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	labels   LabelIndex
}

// NewONNXClassifier loads the model in modelDir. onnxFile selects the graph when
// the directory holds more than one; empty lets hugot pick model.onnx. A graph
// the ONNX parser panics on is reported as an error.
func NewONNXClassifier(modelDir, onnxFile string, labels LabelIndex) (clf *ONNXClassifier, err error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = session.Destroy()
			clf, err = nil, fmt.Errorf("load onnx model: %v", r)
		}
	}()
	config := hugot.TextClassificationConfig{
		ModelPath:    modelDir,
		Name:         "mbtid-text-classification",
		OnnxFilename: onnxFile,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("create text classification pipeline: %w", err)
	}
	return &ONNXClassifier{session: session, pipeline: pipeline, labels: labels}, nil
}

// Classify implements Classifier. The highest scoring label wins.
func (c *ONNXClassifier) Classify(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return 0, ErrClosed
	}
	out, err := c.pipeline.RunPipeline([]string{text})
	c.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("run pipeline: %w", err)
	}
	if len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return 0, fmt.Errorf("run pipeline: empty output")
	}
	best := out.ClassificationOutputs[0][0]
	for _, o := range out.ClassificationOutputs[0][1:] {
		if o.Score > best.Score {
			best = o
		}
	}
	return ParseLabel(best.Label, c.labels)
}

// Close releases the hugot session. Later calls to Classify fail with
// ErrClosed.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}

// ParseLabel resolves a backend label. Generic "LABEL_<n>" names map to n;
// anything else goes through labels.
func ParseLabel(label string, labels LabelIndex) (int, error) {
	if rest, ok := strings.CutPrefix(label, "LABEL_"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return n, nil
		}
	}
	if labels != nil {
		if idx, ok := labels(label); ok {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnmappedLabel, label)
}
