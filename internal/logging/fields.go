package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for analysis run identifiers.
	FieldRunID = "run_id"
	// FieldManifest identifies the manifest file an analysis reads.
	FieldManifest = "manifest"
	// FieldClipID identifies a timeline clip.
	FieldClipID = "clip_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
