package adapter

// MetricsRecorder records reconciliation and import outcomes.
type MetricsRecorder interface {
	IncrSuggestion(level string)
	IncrDuplicate(reason string)
	IncrLinkConflict()
	AddImported(count int)
	AddAutoLinked(count int)
}
