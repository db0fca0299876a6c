package bpydoc

// Diagnostic records one recovered, non-fatal failure during a run.
type Diagnostic struct {
	Path   string `json:"path"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// DiagnosticFunc is called as diagnostics are produced. Implementations
// passed to a concurrent driver must be safe for serialized use by the
// driver; the driver never invokes it from more than one goroutine at once.
type DiagnosticFunc func(d Diagnostic)

// RunSummary is the outcome of one extraction run. It is always produced,
// even when the run aborts on a fatal error, so the operator can see how
// many entities were lost and why.
type RunSummary struct {
	RunID          string       `json:"runId"`
	FilesProcessed int          `json:"filesProcessed"`
	FilesSkipped   int          `json:"filesSkipped"`
	RecordsEmitted int          `json:"recordsEmitted"`
	Errors         []Diagnostic `json:"errors"`
}
