package bpydoc

// RecordExtractor parses one documentation page into structured records.
type RecordExtractor interface {
	// ExtractRecords parses the page markup and returns zero or more records
	// in document order. A single page may describe one class plus many
	// methods as distinct records. Every returned record has passed
	// Validate; records that fail validation are dropped and reported
	// through diag.
	//
	// Returns EMALFORMED if the markup cannot be parsed at all, and
	// ENOENTITY if it parses but contains no recognized entity definition.
	// Both are per-file conditions the caller is expected to recover from.
	//
	// Extraction is restartable: the same input always yields the same
	// record sequence.
	ExtractRecords(sourcePath string, html []byte, diag DiagnosticFunc) ([]*DocumentRecord, error)
}
