package types

// PredictResponse is returned by GET /predict.
type PredictResponse struct {
	// The input text, echoed back.
	// example: I love quiet evenings with a good book.
	Message string `json:"message" example:"I love quiet evenings with a good book."`
	// Resolved personality type label.
	// example: INFP (Introversion, Intuition, Feeling, Perceiving)
	Prediction string `json:"prediction" example:"INFP (Introversion, Intuition, Feeling, Perceiving)"`
}

// PredictRequest is the JSON body accepted by POST /predict and POST /api/predict
// as an alternative to form encoding.
type PredictRequest struct {
	// example: Alice
	Name string `json:"name" example:"Alice"`
	// example: US
	Country string `json:"country" example:"US"`
	// Free text to classify.
	// example: I spend weekends planning next quarter's roadmap.
	Message string `json:"message" example:"I spend weekends planning next quarter's roadmap."`
}

// FormPredictResponse is returned by POST /api/predict (and POST /predict for JSON clients).
type FormPredictResponse struct {
	// Presentation-only name from the form.
	// example: Alice
	Name string `json:"name" example:"Alice"`
	// Presentation-only country from the form.
	// example: US
	Country string `json:"country" example:"US"`
	// Resolved personality type label.
	// example: ENTJ (Extroversion, Intuition, Thinking, Judging)
	Prediction string `json:"prediction" example:"ENTJ (Extroversion, Intuition, Thinking, Judging)"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Short description of the failure.
	// example: Bad Request. No message was provided.
	Description string `json:"description" example:"Bad Request. No message was provided."`
	// Hint for the caller.
	// example: Use the message parameter to make a GET request.
	Message string `json:"message" example:"Use the message parameter to make a GET request."`
}

// WelcomeResponse is returned by GET / for JSON clients.
type WelcomeResponse struct {
	// example: Welcome to the MBTI API!
	Description string `json:"description" example:"Welcome to the MBTI API!"`
	// example: Use GET /predict?message=... or POST /api/predict with a form.
	Message string `json:"message" example:"Use GET /predict?message=... or POST /api/predict with a form."`
}

// LabelsResponse wraps the label table returned by GET /labels.
type LabelsResponse struct {
	Labels []Label `json:"labels"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Service state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Inference backend of the loaded artifact.
	// example: linear
	Backend string `json:"backend,omitempty" example:"linear"`
	// Directory the artifact was loaded from.
	// example: /srv/mbtid/model
	ArtifactDir string `json:"artifact_dir,omitempty" example:"/srv/mbtid/model"`
	// Time the artifact finished loading (unix seconds, 0 when not loaded).
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix" example:"1700000000"`
	// Total successful predictions.
	// example: 42
	PredictionsTotal uint64 `json:"predictions_total" example:"42"`
	// Total failed predictions (client and server errors).
	// example: 1
	FailuresTotal uint64 `json:"failures_total" example:"1"`
	// Last server-side error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Artifacts detected in the model directory and its subdirectories.
	Artifacts []ArtifactEntry `json:"artifacts,omitempty"`
}
