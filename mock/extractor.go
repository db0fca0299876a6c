package mock

import "github.com/bpydoc/bpydoc"

var _ bpydoc.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of bpydoc.RecordExtractor.
type RecordExtractor struct {
	ExtractRecordsFn func(sourcePath string, html []byte, diag bpydoc.DiagnosticFunc) ([]*bpydoc.DocumentRecord, error)
}

func (e *RecordExtractor) ExtractRecords(sourcePath string, html []byte, diag bpydoc.DiagnosticFunc) ([]*bpydoc.DocumentRecord, error) {
	return e.ExtractRecordsFn(sourcePath, html, diag)
}
