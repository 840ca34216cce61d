package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mbtid/internal/artifact"
	"mbtid/internal/config"
	"mbtid/internal/predictor"
)

// cliFlags holds the raw flag values. Only flags the user actually set
// override the file and environment layers.
type cliFlags struct {
	configPath   string
	envFile      string
	addr         string
	modelDir     string
	backend      string
	lazy         bool
	logLevel     string
	logFormat    string
	maxBodyBytes int64
	corsOrigins  string

	predictTimeout time.Duration
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&cliFlags{}) }

// newRootCmdWith builds the command tree with flags bound to f.
func newRootCmdWith(f *cliFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "mbtid",
		Short:         "Personality type prediction daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&f.envFile, "env-file", ".env", "Optional .env file loaded before MBTID_* variables are read")
	pf.StringVar(&f.modelDir, "model-dir", config.DefaultModelDir, "Directory holding the classifier artifact")
	pf.StringVar(&f.backend, "backend", config.DefaultBackend, "Artifact backend: auto|linear|onnx")
	pf.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level: off|error|info|debug")
	pf.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format: console|json")

	root.AddCommand(
		newServeCmd(f),
		newPredictCmd(f),
		newMCPCmd(f),
		newVersionCmd(),
	)
	return root
}

// resolveConfig merges defaults < config file < environment < flags.
func resolveConfig(cmd *cobra.Command, f *cliFlags) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return cfg, fmt.Errorf("load env file: %w", err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("addr") {
		cfg.Addr = f.addr
	}
	if changed("model-dir") {
		cfg.ModelDir = f.modelDir
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("lazy") {
		cfg.LazyLoad = f.lazy
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("max-body-bytes") {
		cfg.MaxBodyBytes = f.maxBodyBytes
	}
	if changed("predict-timeout") {
		cfg.PredictTimeout = config.Duration(f.predictTimeout)
	}
	if changed("cors-origins") {
		cfg.CORS.AllowedOrigins = splitCSV(f.corsOrigins)
		cfg.CORS.Enabled = len(cfg.CORS.AllowedOrigins) > 0
	}
	return cfg.WithDefaults(), nil
}

// splitCSV splits a comma-separated flag value, dropping empty items.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// newLogger builds the process logger. Levels follow the HTTP layer's names;
// "off" disables logging.
func newLogger(w io.Writer, cfg config.Config) zerolog.Logger {
	if cfg.LogFormat != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.LogLevel) {
	case "off", "none":
		level = zerolog.Disabled
	case "error", "warn", "warning":
		level = zerolog.ErrorLevel
	case "debug", "trace":
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func artifactOptions(cfg config.Config) (artifact.Options, error) {
	backend, err := artifact.ParseBackend(cfg.Backend)
	if err != nil {
		return artifact.Options{}, err
	}
	return artifact.Options{
		Dir:            cfg.ModelDir,
		Backend:        backend,
		VectorizerFile: cfg.VectorizerFile,
		ModelFile:      cfg.ModelFile,
		ONNXFile:       cfg.ONNXFile,
	}, nil
}

// newService wires the predictor to the artifact directory. The artifact is
// loaded on first use; callers Warmup for eager loading.
func newService(cfg config.Config, log zerolog.Logger, pub predictor.EventPublisher) (*predictor.Service, error) {
	opts, err := artifactOptions(cfg)
	if err != nil {
		return nil, err
	}
	return predictor.NewWithConfig(predictor.Config{
		Loader:    artifact.Loader(opts),
		Logger:    log,
		Publisher: pub,
		Catalog:   artifact.Catalog(cfg.ModelDir),
	}), nil
}
