package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mbtid/internal/config"
	"mbtid/pkg/types"
)

const fixtureDir = "../../internal/artifact/testdata/linear"

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

// resolveWith runs the serve command with a RunE that only resolves the
// configuration.
func resolveWith(t *testing.T, args ...string) config.Config {
	t.Helper()
	f := &cliFlags{}
	root := newRootCmdWith(f)
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	var got config.Config
	serve.RunE = func(cmd *cobra.Command, _ []string) error {
		got, err = resolveConfig(cmd, f)
		return err
	}
	root.SetArgs(append([]string{"serve", "--env-file", noEnvFile(t)}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	return got
}

func TestResolveConfig_Defaults(t *testing.T) {
	got := resolveWith(t)
	want := config.Config{}.WithDefaults()
	if got.Addr != want.Addr || got.ModelDir != want.ModelDir || got.Backend != want.Backend {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.LazyLoad || got.CORS.Enabled {
		t.Fatalf("unexpected opt-ins: %+v", got)
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "mbtid.yaml")
	yaml := "addr: \":9000\"\nmodel_dir: /from/file\nbackend: linear\nlog_level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MBTID_MODEL_DIR", "/from/env")
	t.Setenv("MBTID_LOG_FORMAT", "json")

	got := resolveWith(t, "--config", cfgPath, "--addr", ":7000", "--lazy")
	if got.Addr != ":7000" {
		t.Errorf("flag should win over file: addr=%q", got.Addr)
	}
	if got.ModelDir != "/from/env" {
		t.Errorf("env should win over file: model_dir=%q", got.ModelDir)
	}
	if got.Backend != "linear" || got.LogLevel != "debug" {
		t.Errorf("file values lost: %+v", got)
	}
	if got.LogFormat != "json" || !got.LazyLoad {
		t.Errorf("env or flag not applied: %+v", got)
	}
	if got.VectorizerFile != config.DefaultVectorizerFile || got.MaxBodyBytes != config.DefaultMaxBodyBytes {
		t.Errorf("defaults not applied: %+v", got)
	}
}

func TestResolveConfig_UnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("MBTID_BACKEND", "onnx")
	t.Setenv("MBTID_ADDR", ":1234")
	got := resolveWith(t, "--log-level", "error")
	if got.Backend != "onnx" || got.Addr != ":1234" {
		t.Fatalf("flag defaults overrode env: %+v", got)
	}
	if got.LogLevel != "error" {
		t.Fatalf("log level = %q", got.LogLevel)
	}
}

func TestResolveConfig_DotEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("MBTID_MAX_BODY_BYTES=2048\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MBTID_MAX_BODY_BYTES", "")
	os.Unsetenv("MBTID_MAX_BODY_BYTES")
	got := resolveWith(t, "--env-file", envPath)
	if got.MaxBodyBytes != 2048 {
		t.Fatalf("max body bytes = %d", got.MaxBodyBytes)
	}
}

func TestResolveConfig_CORSFlag(t *testing.T) {
	got := resolveWith(t, "--cors-origins", "http://localhost:5173, https://app.example")
	if !got.CORS.Enabled {
		t.Fatal("cors should be enabled")
	}
	if len(got.CORS.AllowedOrigins) != 2 || got.CORS.AllowedOrigins[1] != "https://app.example" {
		t.Fatalf("origins = %v", got.CORS.AllowedOrigins)
	}
	if len(got.CORS.AllowedMethods) == 0 {
		t.Fatal("cors defaults not applied")
	}
}

func TestResolveConfig_BadConfigFile(t *testing.T) {
	f := &cliFlags{}
	root := newRootCmdWith(f)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"predict", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "hi"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

func TestPredictCommand(t *testing.T) {
	out, _, err := execute(t, "", "predict", "--model-dir", fixtureDir, "--env-file", noEnvFile(t), "--log-level", "off", "I am an INTP, obviously")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	var res types.PredictResponse
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Message != "I am an INTP, obviously" {
		t.Errorf("message = %q", res.Message)
	}
	if res.Prediction != "INTP (Introversion, Intuition, Thinking, Perceiving)" {
		t.Errorf("prediction = %q", res.Prediction)
	}
}

func TestPredictCommand_Stdin(t *testing.T) {
	out, _, err := execute(t, "enfj all the way\n", "predict", "--model-dir", fixtureDir, "--env-file", noEnvFile(t), "--log-level", "off")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(out, `"message": "enfj all the way"`) || !strings.Contains(out, "ENFJ (") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestPredictCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "", "predict", "--model-dir", fixtureDir, "--env-file", noEnvFile(t), "--log-level", "off")
	if err == nil || err.Error() != "message is required" {
		t.Fatalf("empty message: %v", err)
	}
	_, _, err = execute(t, "", "predict", "--model-dir", t.TempDir(), "--env-file", noEnvFile(t), "--log-level", "off", "hello")
	if err == nil {
		t.Fatal("expected error for empty model dir")
	}
	_, _, err = execute(t, "", "predict", "--backend", "forest", "--env-file", noEnvFile(t), "hello")
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "mbtid "+version+"\n" {
		t.Fatalf("version output %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, config.Config{LogFormat: "json", LogLevel: "error"})
	log.Info().Msg("hidden")
	log.Error().Str("k", "v").Msg("shown")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["message"] != "shown" || rec["k"] != "v" {
		t.Fatalf("unexpected record: %v", rec)
	}

	buf.Reset()
	offLog := newLogger(&buf, config.Config{LogLevel: "off"})
	offLog.Error().Msg("x")
	if buf.Len() != 0 {
		t.Fatalf("off level wrote %q", buf.String())
	}
}

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Config{Addr: "127.0.0.1:0", ModelDir: fixtureDir, LogLevel: "off"}.WithDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, zerolog.Nop()) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}

func TestRunServe_EagerLoadFailure(t *testing.T) {
	cfg := config.Config{Addr: "127.0.0.1:0", ModelDir: t.TempDir()}.WithDefaults()
	err := runServe(context.Background(), cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "load artifact") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestNewService_StatusListsArtifacts(t *testing.T) {
	cfg := config.Config{ModelDir: fixtureDir}.WithDefaults()
	svc, err := newService(cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatal(err)
	}
	st := svc.Status()
	if len(st.Artifacts) != 1 || st.Artifacts[0].Backend != "linear" {
		t.Fatalf("unexpected artifacts: %+v", st.Artifacts)
	}
	if st.State != "loading" {
		t.Fatalf("service should load lazily until warmed up, state=%q", st.State)
	}
}

func TestResolveConfig_PredictTimeout(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "mbtid.toml")
	if err := os.WriteFile(cfgPath, []byte("predict_timeout = \"10s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := resolveWith(t, "--config", cfgPath); time.Duration(got.PredictTimeout) != 10*time.Second {
		t.Fatalf("file value not applied: %v", time.Duration(got.PredictTimeout))
	}

	t.Setenv("MBTID_PREDICT_TIMEOUT", "5s")
	if got := resolveWith(t, "--config", cfgPath); time.Duration(got.PredictTimeout) != 5*time.Second {
		t.Fatalf("env should win over file: %v", time.Duration(got.PredictTimeout))
	}
	if got := resolveWith(t, "--config", cfgPath, "--predict-timeout", "1s"); time.Duration(got.PredictTimeout) != time.Second {
		t.Fatalf("flag should win over env: %v", time.Duration(got.PredictTimeout))
	}
}
