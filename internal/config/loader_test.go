package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_dir: /tmp/m\nbackend: linear\nlazy_load: true\nmax_body_bytes: 2048\ncors:\n  enabled: true\n  allowed_origins: [\"http://localhost:3000\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelDir != "/tmp/m" || cfg.Backend != "linear" || !cfg.LazyLoad || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.CORS.Enabled || !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Fatalf("unexpected cors: %+v", cfg.CORS)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_dir":"/m","vectorizer_file":"v.json","model_file":"c.json","log_level":"debug"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelDir != "/m" || cfg.VectorizerFile != "v.json" || cfg.ModelFile != "c.json" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_dir=\"/x\"\nlog_format=\"json\"\n[cors]\nenabled=true\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelDir != "/x" || cfg.LogFormat != "json" || !cfg.CORS.Enabled {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
	for name, body := range map[string]string{
		"bad.yaml": "addr: :8080\n: broken\n",
		"bad.json": `{ "addr": ":8080", "model_dir": }`,
		"bad.toml": "addr=:8080\nmodel_dir\n",
	} {
		if _, err := Load(writeTempFile(t, d, name, body)); err == nil {
			t.Fatalf("%s: expected unmarshal error", name)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr || cfg.ModelDir != DefaultModelDir || cfg.Backend != DefaultBackend {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.VectorizerFile != DefaultVectorizerFile || cfg.ModelFile != DefaultModelFile || cfg.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CORS.AllowedOrigins != nil {
		t.Fatalf("cors disabled should keep origins empty: %+v", cfg.CORS)
	}
	cfg = Config{Addr: ":1", CORS: CORS{Enabled: true}}.WithDefaults()
	if cfg.Addr != ":1" || len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestPredictTimeoutAcrossFormats(t *testing.T) {
	d := t.TempDir()
	cases := []struct {
		name, content string
		want          time.Duration
	}{
		{"cfg.yaml", "predict_timeout: 2s\n", 2 * time.Second},
		{"cfg.json", `{"predict_timeout":"750ms"}`, 750 * time.Millisecond},
		{"cfg.toml", "predict_timeout = \"1m30s\"\n", 90 * time.Second},
	}
	for _, c := range cases {
		cfg, err := Load(writeTempFile(t, d, c.name, c.content))
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if time.Duration(cfg.PredictTimeout) != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, time.Duration(cfg.PredictTimeout), c.want)
		}
	}

	if _, err := Load(writeTempFile(t, d, "bad.yaml", "predict_timeout: soon\n")); err == nil {
		t.Fatalf("expected error for invalid duration")
	}

	cfg, err := Load(writeTempFile(t, d, "env.yaml", "predict_timeout: 2s\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Setenv("MBTID_PREDICT_TIMEOUT", "3s")
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if time.Duration(cfg.PredictTimeout) != 3*time.Second {
		t.Fatalf("env not applied: %v", time.Duration(cfg.PredictTimeout))
	}
	t.Setenv("MBTID_PREDICT_TIMEOUT", "-1s")
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9000\nmodel_dir: /from/file\nlog_level: warn\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Setenv("MBTID_MODEL_DIR", "/from/env")
	t.Setenv("MBTID_LAZY_LOAD", "true")
	t.Setenv("MBTID_CORS_ALLOWED_ORIGINS", "http://a,http://b")
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.LogLevel != "warn" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.ModelDir != "/from/env" || !cfg.LazyLoad {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"http://a", "http://b"}) {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}

	t.Setenv("MBTID_MAX_BODY_BYTES", "lots")
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	d := t.TempDir()
	if err := LoadDotEnv(filepath.Join(d, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
	t.Setenv("MBTID_BACKEND", "")
	os.Unsetenv("MBTID_BACKEND")
	t.Setenv("MBTID_ADDR", ":1234")
	p := writeTempFile(t, d, "test.env", "MBTID_BACKEND=onnx\nMBTID_ADDR=:5555\n")
	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("MBTID_BACKEND"); got != "onnx" {
		t.Fatalf("MBTID_BACKEND=%q", got)
	}
	if got := os.Getenv("MBTID_ADDR"); got != ":1234" {
		t.Fatalf("existing var overridden: %q", got)
	}
}
