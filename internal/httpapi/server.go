package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mbtid/internal/predictor"
	"mbtid/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(ctx context.Context, message string) (predictor.Result, error)
	Status() types.StatusResponse
	Ready() bool
}

// maxMultipartMemory is the part of a multipart body kept in memory; the
// body as a whole is still capped by maxBodyBytes.
const maxMultipartMemory = 1 << 20

// statusClientClosed is logged when the client went away mid-prediction.
const statusClientClosed = 499

type api struct {
	svc Service
}

func NewMux(svc Service) http.Handler {
	a := &api{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/", a.index)
	r.Get("/api", a.index)

	r.Get("/predict", a.getPredict)
	r.Post("/predict", a.postPredict)
	r.Get("/api/predict", a.getPredict)
	r.Post("/api/predict", a.postPredict)

	r.Get("/labels", a.labels)
	r.Get("/api/labels", a.labels)
	r.Get("/status", a.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		// The predict routes only serve GET and POST; anything else goes home.
		if isPredictPath(r.URL.Path) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		writeError(w, r, errMethodNotAllowed)
	})

	return r
}

func isPredictPath(p string) bool {
	p = strings.TrimSuffix(p, "/")
	return p == "/predict" || p == "/api/predict"
}

// index godoc
// @Summary      Welcome page
// @Description  HTML page with the prediction form, or a JSON welcome when the client prefers JSON.
// @Tags         predict
// @Produce      html
// @Produce      json
// @Success      200  {object}  types.WelcomeResponse
// @Router       / [get]
func (a *api) index(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, types.WelcomeResponse{
			Description: "Welcome to the MBTI API!",
			Message:     "Use GET /predict?message=... or POST /api/predict with name, country and message.",
		})
		return
	}
	renderHTML(w, http.StatusOK, "main.html", pageData{})
}

// getPredict godoc
// @Summary      Predict from a query parameter
// @Tags         predict
// @Produce      json
// @Param        message  query     string  true  "Text to classify"
// @Success      200      {object}  types.PredictResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /predict [get]
func (a *api) getPredict(w http.ResponseWriter, r *http.Request) {
	res, body, err := a.predict(r, r.URL.Query().Get("message"), errNoMessageQuery)
	if err != nil {
		if body.Code != 0 {
			writeJSONError(w, body)
		}
		return
	}
	writeJSON(w, http.StatusOK, types.PredictResponse{Message: res.Message, Prediction: res.Label})
}

// postPredict godoc
// @Summary      Predict from a form submission
// @Description  Accepts urlencoded, multipart or JSON bodies. /predict renders the result page unless JSON is preferred; /api/predict always answers JSON.
// @Tags         predict
// @Accept       x-www-form-urlencoded
// @Accept       mpfd
// @Accept       json
// @Produce      html
// @Produce      json
// @Param        name     formData  string  false  "Presentation-only name"
// @Param        country  formData  string  false  "Presentation-only country"
// @Param        message  formData  string  true   "Text to classify"
// @Success      200      {object}  types.FormPredictResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      413      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /predict [post]
// @Router       /api/predict [post]
func (a *api) postPredict(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		writeError(w, r, formErrorBody(err))
		return
	}
	res, body, err := a.predict(r, form.Message, errNoMessageForm)
	if err != nil {
		if body.Code != 0 {
			writeError(w, r, body)
		}
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, types.FormPredictResponse{Name: form.Name, Country: form.Country, Prediction: res.Label})
		return
	}
	renderHTML(w, http.StatusOK, "result.html", pageData{Name: form.Name, Country: form.Country, Prediction: res.Label})
}

// labels godoc
// @Summary      List the personality type labels
// @Tags         predict
// @Produce      json
// @Success      200  {object}  types.LabelsResponse
// @Router       /labels [get]
func (a *api) labels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.LabelsResponse{Labels: predictor.LabelEntries()})
}

// status godoc
// @Summary      Service status
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (a *api) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Status())
}

// predict runs one prediction and logs the outcome. On failure body holds the
// response to send; a zero body means the client is gone and nothing should
// be written.
func (a *api) predict(r *http.Request, message string, invalid types.ErrorResponse) (predictor.Result, types.ErrorResponse, error) {
	pl := startPredictLog(r)
	ctx, cancel := predictContext(r.Context())
	defer cancel()

	res, err := a.svc.Predict(ctx, message)
	switch {
	case err == nil:
		pl.end(http.StatusOK, message, res.Label, nil)
		return res, types.ErrorResponse{}, nil
	case r.Context().Err() != nil:
		pl.end(statusClientClosed, message, "", err)
		return res, types.ErrorResponse{}, err
	case serverBaseCtx.Err() != nil:
		pl.end(errUnavailable.Code, message, "", err)
		return res, errUnavailable, err
	}
	body := predictErrorBody(err, invalid)
	pl.end(body.Code, message, "", err)
	return res, body, err
}

// readForm reads name, country and message from a urlencoded, multipart or
// JSON body. The body is capped at maxBodyBytes.
func readForm(w http.ResponseWriter, r *http.Request) (types.PredictForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "application/json") {
		var req types.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return types.PredictForm{}, err
		}
		return types.PredictForm{Name: req.Name, Country: req.Country, Message: req.Message}, nil
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return types.PredictForm{}, err
	}
	return types.PredictForm{
		Name:    r.PostFormValue("name"),
		Country: r.PostFormValue("country"),
		Message: r.PostFormValue("message"),
	}, nil
}
