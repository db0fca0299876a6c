package bpydoc

import "context"

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Kind   *Kind   `json:"kind"`
	Module *string `json:"module"`
	Prefix *string `json:"prefix"` // identifier prefix, e.g. "bpy.types.Object"

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordCatalog stores extracted records locally for offline inspection.
// The catalog is a convenience view over the record stream, never the
// source of truth; reloading a stream replaces records by identifier.
type RecordCatalog interface {
	// CreateRecords upserts a batch of records keyed by identifier.
	CreateRecords(ctx context.Context, records []*DocumentRecord) error

	// FindRecordByID retrieves a record by identifier.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, identifier string) (*DocumentRecord, error)

	// FindRecords retrieves records matching the filter, ordered by
	// identifier.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*DocumentRecord, error)

	// CountRecords returns the total number of cataloged records.
	CountRecords(ctx context.Context) (int, error)
}
