package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bpydoc/bpydoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ bpydoc.RecordCatalog = (*RecordService)(nil)

// RecordService implements bpydoc.RecordCatalog using SQLite. The full
// record is stored as its serialized stream line, so the catalog can always
// reproduce exactly what the pipeline emitted; the scalar columns exist for
// filtering only.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// CreateRecords upserts a batch of records keyed by identifier. All records
// in one call share a batch ID for traceability.
func (s *RecordService) CreateRecords(ctx context.Context, records []*bpydoc.DocumentRecord) error {
	batchID := uuid.New().String()
	loadedAt := time.Now().UTC().Format(time.RFC3339)

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
		payload, err := rec.MarshalLine()
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO records (identifier, kind, module, signature, summary, source_path, payload, batch_id, loaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(identifier) DO UPDATE SET
				kind = excluded.kind,
				module = excluded.module,
				signature = excluded.signature,
				summary = excluded.summary,
				source_path = excluded.source_path,
				payload = excluded.payload,
				batch_id = excluded.batch_id,
				loaded_at = excluded.loaded_at
		`, rec.Identifier, string(rec.Kind), rec.Module(), rec.Signature, rec.Summary,
			rec.SourcePath, string(payload), batchID, loadedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindRecordByID retrieves a record by identifier.
func (s *RecordService) FindRecordByID(ctx context.Context, identifier string) (*bpydoc.DocumentRecord, error) {
	var payload string

	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM records WHERE identifier = ?
	`, identifier).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, bpydoc.Errorf(bpydoc.ENOTFOUND, "record %q not found", identifier)
	}
	if err != nil {
		return nil, err
	}

	return bpydoc.UnmarshalLine([]byte(payload))
}

// FindRecords retrieves records matching the filter, ordered by identifier.
func (s *RecordService) FindRecords(ctx context.Context, filter bpydoc.RecordFilter) ([]*bpydoc.DocumentRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT payload FROM records WHERE 1=1")

	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.Module != nil {
		query.WriteString(" AND module = ?")
		args = append(args, *filter.Module)
	}
	if filter.Prefix != nil {
		query.WriteString(` AND identifier LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(*filter.Prefix)+"%")
	}

	query.WriteString(" ORDER BY identifier ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*bpydoc.DocumentRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := bpydoc.UnmarshalLine([]byte(payload))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountRecords returns the total number of cataloged records.
func (s *RecordService) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// escapeLike escapes LIKE wildcards in identifier prefixes. Underscores are
// common in identifiers (e.g. "use_auto_smooth") and must match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
