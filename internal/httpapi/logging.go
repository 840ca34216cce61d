package httpapi

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer.
var zlog = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "":
		return LevelOff
	case "error", "warn", "warning":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetDefaultLogLevel sets the request log level used when a request carries
// no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// predictLog carries the per-request logging state of a prediction.
type predictLog struct {
	r     *http.Request
	lvl   LogLevel
	start time.Time
}

func startPredictLog(r *http.Request) predictLog {
	pl := predictLog{r: r, lvl: requestLogLevel(r), start: time.Now()}
	if pl.lvl >= LevelInfo {
		pl.event(zlog.Info()).Str("path", r.URL.Path).Str("method", r.Method).Msg("predict start")
	}
	return pl
}

func (pl predictLog) event(e *zerolog.Event) *zerolog.Event {
	if rid := middleware.GetReqID(pl.r.Context()); rid != "" {
		e = e.Str("request_id", rid)
	}
	return e
}

// end logs the outcome. Server errors are logged from LevelError up; the
// message text only at LevelDebug.
func (pl predictLog) end(status int, message, label string, err error) {
	switch {
	case pl.lvl >= LevelDebug:
		pl.event(zlog.Debug()).Int("status", status).Dur("dur", time.Since(pl.start)).
			Str("message", message).Str("prediction", label).Err(err).Msg("predict end")
	case pl.lvl >= LevelInfo:
		pl.event(zlog.Info()).Int("status", status).Dur("dur", time.Since(pl.start)).
			Str("prediction", label).Err(err).Msg("predict end")
	case pl.lvl >= LevelError && status >= http.StatusInternalServerError:
		pl.event(zlog.Error()).Int("status", status).Dur("dur", time.Since(pl.start)).Err(err).Msg("predict end")
	}
}
