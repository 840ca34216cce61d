package types

// Label is one entry of the fixed personality-type label table.
type Label struct {
	// Class index produced by the classifier.
	// example: 11
	Index int `json:"index" example:"11"`
	// Four-letter type code.
	// example: INTP
	Code string `json:"code" example:"INTP"`
	// Human-readable label.
	// example: INTP (Introversion, Intuition, Thinking, Perceiving)
	Label string `json:"label" example:"INTP (Introversion, Intuition, Thinking, Perceiving)"`
}

// ArtifactEntry describes a classifier artifact found on disk.
type ArtifactEntry struct {
	// example: linear
	Backend string `json:"backend" example:"linear"`
	// example: /srv/mbtid/model
	Dir   string   `json:"dir" example:"/srv/mbtid/model"`
	Files []string `json:"files"`
}

// PredictForm carries the fields of a form submission. Name and Country are
// presentation-only and never reach the classifier.
type PredictForm struct {
	Name    string
	Country string
	Message string
}
