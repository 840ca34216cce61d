// Package artifact locates and loads the classifier artifacts in a model
// directory.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"mbtid/internal/common/fsutil"
	"mbtid/internal/predictor"
	"mbtid/internal/textclf"
	"mbtid/pkg/types"
)

// Backend selects how the artifact in a directory is executed.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendLinear Backend = "linear"
	BackendONNX   Backend = "onnx"
)

const (
	DefaultVectorizerFile = "vectorizer.json"
	DefaultModelFile      = "model.json"
	tokenizerFile         = "tokenizer.json"
)

// ErrNotDetected is returned when a directory holds no recognizable artifact.
var ErrNotDetected = errors.New("no artifact detected")

// ParseBackend validates a configured backend name. Empty means auto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendLinear, BackendONNX:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want auto, linear or onnx)", s)
	}
}

// Options controls where and how artifacts are loaded.
type Options struct {
	Dir            string
	Backend        Backend
	VectorizerFile string
	ModelFile      string
	// ONNXFile picks the graph in an onnx directory; empty lets hugot choose.
	ONNXFile string
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendAuto
	}
	if o.VectorizerFile == "" {
		o.VectorizerFile = DefaultVectorizerFile
	}
	if o.ModelFile == "" {
		o.ModelFile = DefaultModelFile
	}
	return o
}

// Manifest describes a detected artifact.
type Manifest struct {
	Backend Backend  `json:"backend"`
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
}

// Info converts the manifest for the predictor status report.
func (m Manifest) Info() predictor.ArtifactInfo {
	return predictor.ArtifactInfo{Backend: string(m.Backend), Dir: m.Dir}
}

// Entry converts the manifest for the status report.
func (m Manifest) Entry() types.ArtifactEntry {
	return types.ArtifactEntry{Backend: string(m.Backend), Dir: m.Dir, Files: append([]string(nil), m.Files...)}
}

// Catalog returns a predictor catalog hook that scans dir on every call. An
// unreadable dir yields an empty list.
func Catalog(dir string) func() []types.ArtifactEntry {
	return func() []types.ArtifactEntry {
		found, err := Scan(dir)
		if err != nil {
			return nil
		}
		out := make([]types.ArtifactEntry, 0, len(found))
		for _, m := range found {
			out = append(out, m.Entry())
		}
		return out
	}
}

// Detect inspects dir and reports which backend its files belong to. The
// linear layout wins when both are present.
func Detect(dir string, opts Options) (Manifest, error) {
	opts = opts.withDefaults()
	abs, err := resolveDir(dir)
	if err != nil {
		return Manifest{}, err
	}
	vec := filepath.Join(abs, opts.VectorizerFile)
	model := filepath.Join(abs, opts.ModelFile)
	if fsutil.IsFile(vec) && fsutil.IsFile(model) {
		return Manifest{Backend: BackendLinear, Dir: abs, Files: []string{opts.VectorizerFile, opts.ModelFile}}, nil
	}
	if fsutil.IsFile(filepath.Join(abs, tokenizerFile)) {
		onnx, err := onnxFiles(abs)
		if err != nil {
			return Manifest{}, err
		}
		if len(onnx) > 0 {
			return Manifest{Backend: BackendONNX, Dir: abs, Files: append([]string{tokenizerFile}, onnx...)}, nil
		}
	}
	return Manifest{}, fmt.Errorf("%w in %s", ErrNotDetected, abs)
}

// Scan lists the artifacts found in dir and its immediate subdirectories.
func Scan(dir string) ([]Manifest, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Manifest
	if m, err := Detect(abs, Options{}); err == nil {
		out = append(out, m)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if m, err := Detect(filepath.Join(abs, e.Name()), Options{}); err == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// Load builds a classifier from opts.Dir. Every failure satisfies
// predictor.IsArtifactUnavailable.
func Load(ctx context.Context, opts Options) (textclf.Classifier, Manifest, error) {
	opts = opts.withDefaults()
	var (
		m   Manifest
		err error
	)
	switch opts.Backend {
	case BackendAuto:
		m, err = Detect(opts.Dir, opts)
	case BackendLinear:
		m, err = manifestFor(opts, BackendLinear, opts.VectorizerFile, opts.ModelFile)
	case BackendONNX:
		m, err = manifestFor(opts, BackendONNX, tokenizerFile)
	default:
		err = fmt.Errorf("unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, Manifest{}, predictor.ArtifactUnavailable(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, Manifest{}, predictor.ArtifactUnavailable(err)
	}

	var clf textclf.Classifier
	switch m.Backend {
	case BackendLinear:
		clf, err = loadLinear(ctx, m.Dir, opts)
	case BackendONNX:
		clf, err = textclf.NewONNXClassifier(m.Dir, opts.ONNXFile, predictor.IndexOfCode)
	}
	if err != nil {
		return nil, Manifest{}, predictor.ArtifactUnavailable(fmt.Errorf("%s artifact in %s: %w", m.Backend, m.Dir, err))
	}
	return clf, m, nil
}

// Loader adapts Load to the predictor's lazy loading hook.
func Loader(opts Options) predictor.Loader {
	return func(ctx context.Context) (predictor.Artifact, predictor.ArtifactInfo, error) {
		clf, m, err := Load(ctx, opts)
		if err != nil {
			return nil, predictor.ArtifactInfo{}, err
		}
		return clf, m.Info(), nil
	}
}

// loadLinear decodes the vectorizer and the model in parallel.
func loadLinear(ctx context.Context, dir string, opts Options) (*textclf.Pipeline, error) {
	var (
		vec   textclf.Vectorizer
		model textclf.Model
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, opts.VectorizerFile))
		if err != nil {
			return err
		}
		defer f.Close()
		vec, err = textclf.DecodeVectorizer(f)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.VectorizerFile, err)
		}
		return nil
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, opts.ModelFile))
		if err != nil {
			return err
		}
		defer f.Close()
		model, err = textclf.DecodeModel(f, predictor.IndexOfCode)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.ModelFile, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return textclf.NewPipeline(vec, model)
}

func manifestFor(opts Options, b Backend, files ...string) (Manifest, error) {
	abs, err := resolveDir(opts.Dir)
	if err != nil {
		return Manifest{}, err
	}
	for _, f := range files {
		if !fsutil.IsFile(filepath.Join(abs, f)) {
			return Manifest{}, fmt.Errorf("%s backend: %s not found in %s", b, f, abs)
		}
	}
	return Manifest{Backend: b, Dir: abs, Files: files}, nil
}

func resolveDir(dir string) (string, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return "", fmt.Errorf("model dir: %w", err)
	}
	return abs, nil
}

func onnxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".onnx") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
