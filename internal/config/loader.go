package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mbtid/internal/common/fsutil"
)

// EnvPrefix namespaces every environment override, e.g. MBTID_MODEL_DIR.
const EnvPrefix = "MBTID"

const (
	DefaultAddr           = ":8080"
	DefaultModelDir       = "./model"
	DefaultBackend        = "auto"
	DefaultVectorizerFile = "vectorizer.json"
	DefaultModelFile      = "model.json"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultMaxBodyBytes   = int64(1 << 20)
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr           string `json:"addr" yaml:"addr" toml:"addr" envconfig:"ADDR"`
	ModelDir       string `json:"model_dir" yaml:"model_dir" toml:"model_dir" envconfig:"MODEL_DIR"`
	Backend        string `json:"backend" yaml:"backend" toml:"backend" envconfig:"BACKEND"`
	VectorizerFile string `json:"vectorizer_file" yaml:"vectorizer_file" toml:"vectorizer_file" envconfig:"VECTORIZER_FILE"`
	ModelFile      string `json:"model_file" yaml:"model_file" toml:"model_file" envconfig:"MODEL_FILE"`
	ONNXFile       string `json:"onnx_file" yaml:"onnx_file" toml:"onnx_file" envconfig:"ONNX_FILE"`
	LazyLoad       bool   `json:"lazy_load" yaml:"lazy_load" toml:"lazy_load" envconfig:"LAZY_LOAD"`
	LogLevel       string `json:"log_level" yaml:"log_level" toml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat      string `json:"log_format" yaml:"log_format" toml:"log_format" envconfig:"LOG_FORMAT"`
	MaxBodyBytes   int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" envconfig:"MAX_BODY_BYTES"`
	CORS           CORS   `json:"cors" yaml:"cors" toml:"cors" envconfig:"CORS"`

	// PredictTimeout bounds one HTTP prediction; zero disables it.
	PredictTimeout Duration `json:"predict_timeout" yaml:"predict_timeout" toml:"predict_timeout" envconfig:"PREDICT_TIMEOUT"`
}

// Duration is a time.Duration written as "2s" or "750ms" in config files and
// environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("duration %q: negative", s)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// CORS configures cross-origin access for a separately hosted frontend.
type CORS struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled" envconfig:"ENABLED"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods" envconfig:"ALLOWED_METHODS"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers" envconfig:"ALLOWED_HEADERS"`
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelDir == "" {
		c.ModelDir = DefaultModelDir
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.VectorizerFile == "" {
		c.VectorizerFile = DefaultVectorizerFile
	}
	if c.ModelFile == "" {
		c.ModelFile = DefaultModelFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.CORS.Enabled {
		if len(c.CORS.AllowedOrigins) == 0 {
			c.CORS.AllowedOrigins = []string{"*"}
		}
		if len(c.CORS.AllowedMethods) == 0 {
			c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.CORS.AllowedHeaders) == 0 {
			c.CORS.AllowedHeaders = []string{"Accept", "Content-Type", "X-Log-Level", "X-Request-Id"}
		}
	}
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays MBTID_* environment variables onto cfg. Unset variables
// leave the corresponding field untouched.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file without overriding the ones
// already set. A missing file is not an error; empty path means ".env".
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if !fsutil.PathExists(path) {
		return nil
	}
	return godotenv.Load(path)
}
