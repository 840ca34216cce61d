package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"mbtid/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const pageTitle = "MBTI Personality Predictor"

// pageData is the view model shared by every HTML page.
type pageData struct {
	Title       string
	Name        string
	Country     string
	Prediction  string
	Code        int
	Description string
	Message     string
}

// renderHTML executes the named page into a buffer first so a template error
// never leaves a half-written response behind.
func renderHTML(w http.ResponseWriter, status int, page string, data pageData) {
	if data.Title == "" {
		data.Title = pageTitle
	}
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, page, data); err != nil {
		zlog.Error().Err(err).Str("page", page).Msg("render page")
		writeJSONError(w, errInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError answers with the error page or the JSON body, by negotiation.
func writeError(w http.ResponseWriter, r *http.Request, body types.ErrorResponse) {
	if wantsJSON(r) {
		writeJSONError(w, body)
		return
	}
	renderHTML(w, body.Code, "error.html", pageData{Code: body.Code, Description: body.Description, Message: body.Message})
}

// wantsJSON reports whether the client prefers JSON over HTML. /api and the
// paths below it always answer JSON; otherwise an explicit ?format=json or an Accept
// header naming JSON without HTML selects JSON.
func wantsJSON(r *http.Request) bool {
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "json":
		return true
	case "html":
		return false
	}
	accept := strings.ToLower(r.Header.Get("Accept"))
	if accept == "" || strings.Contains(accept, "text/html") {
		return false
	}
	return strings.Contains(accept, "application/json") || strings.Contains(accept, "+json")
}
