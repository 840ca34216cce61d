// Package predictor is the prediction service: it validates input, obtains the
// classifier artifact, runs inference and resolves the class index against the
// fixed personality-type label table. It is structured into small files by concern:
//
//   - service.go: Service type, constructors, Predict.
//   - config.go: Config and NewWithConfig.
//   - types.go: State, Result, Artifact and Loader.
//   - labels.go: the compiled-in label table.
//   - errors.go: error taxonomy and Is* helpers.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - status.go: readiness and status reporting.
//
// External packages should use the public methods only (New, NewLazy,
// NewWithConfig, Predict, Warmup, Ready, Status).
package predictor
