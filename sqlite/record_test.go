package sqlite_test

import (
	"context"
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MustOpenDB returns a new, open in-memory DB. Fatal on error.
func MustOpenDB(tb testing.TB) *sqlite.DB {
	tb.Helper()
	db := sqlite.NewDB(":memory:")
	if err := db.Open(); err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Fatal(err)
		}
	})
	return db
}

func record(id string, kind bpydoc.Kind) *bpydoc.DocumentRecord {
	r := &bpydoc.DocumentRecord{
		Identifier: id,
		Kind:       kind,
		Summary:    "Summary of " + id + ".",
		Parameters: []bpydoc.Parameter{},
		SourcePath: "bpy.types.Object.html",
	}
	if kind == bpydoc.KindMethod || kind == bpydoc.KindFunction || kind == bpydoc.KindOperator {
		r.Signature = id + "()"
	}
	return r
}

func TestRecordService_CreateRecords(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the full record", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewRecordService(db)
		ctx := context.Background()

		want := record("bpy.types.Object.ray_cast", bpydoc.KindMethod)
		want.Parameters = []bpydoc.Parameter{
			{Name: "origin", TypeHint: "Vector", Description: "Origin of the ray."},
		}
		want.ReturnInfo = &bpydoc.ReturnInfo{TypeHint: "tuple"}

		require.NoError(t, s.CreateRecords(ctx, []*bpydoc.DocumentRecord{want}))

		got, err := s.FindRecordByID(ctx, "bpy.types.Object.ray_cast")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("reloading overwrites by identifier", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewRecordService(db)
		ctx := context.Background()

		first := record("bpy.types.Object.location", bpydoc.KindProperty)
		require.NoError(t, s.CreateRecords(ctx, []*bpydoc.DocumentRecord{first}))

		second := record("bpy.types.Object.location", bpydoc.KindProperty)
		second.Summary = "Updated summary."
		require.NoError(t, s.CreateRecords(ctx, []*bpydoc.DocumentRecord{second}))

		got, err := s.FindRecordByID(ctx, "bpy.types.Object.location")
		require.NoError(t, err)
		assert.Equal(t, "Updated summary.", got.Summary)

		count, err := s.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)
		s := sqlite.NewRecordService(db)

		bad := record("", bpydoc.KindProperty)
		err := s.CreateRecords(context.Background(), []*bpydoc.DocumentRecord{bad})
		require.Error(t, err)
		assert.Equal(t, bpydoc.EINVALID, bpydoc.ErrorCode(err))
	})
}

func TestRecordService_FindRecordByID(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewRecordService(db)

	_, err := s.FindRecordByID(context.Background(), "bpy.types.Missing")
	require.Error(t, err)
	assert.Equal(t, bpydoc.ENOTFOUND, bpydoc.ErrorCode(err))
}

func TestRecordService_FindRecords(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.RecordService {
		t.Helper()
		db := MustOpenDB(t)
		s := sqlite.NewRecordService(db)
		require.NoError(t, s.CreateRecords(context.Background(), []*bpydoc.DocumentRecord{
			record("bpy.types.Object", bpydoc.KindClass),
			record("bpy.types.Object.location", bpydoc.KindProperty),
			record("bpy.types.Object.ray_cast", bpydoc.KindMethod),
			record("bpy.ops.mesh.subdivide", bpydoc.KindOperator),
			record("mathutils.Vector", bpydoc.KindClass),
		}))
		return s
	}

	identifiers := func(records []*bpydoc.DocumentRecord) []string {
		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.Identifier
		}
		return ids
	}

	t.Run("no filter returns all ordered by identifier", func(t *testing.T) {
		t.Parallel()

		s := seed(t)
		records, err := s.FindRecords(context.Background(), bpydoc.RecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"bpy.ops.mesh.subdivide",
			"bpy.types.Object",
			"bpy.types.Object.location",
			"bpy.types.Object.ray_cast",
			"mathutils.Vector",
		}, identifiers(records))
	})

	t.Run("filter by kind", func(t *testing.T) {
		t.Parallel()

		s := seed(t)
		kind := bpydoc.KindClass
		records, err := s.FindRecords(context.Background(), bpydoc.RecordFilter{Kind: &kind})
		require.NoError(t, err)
		assert.Equal(t, []string{"bpy.types.Object", "mathutils.Vector"}, identifiers(records))
	})

	t.Run("filter by module", func(t *testing.T) {
		t.Parallel()

		s := seed(t)
		module := "bpy.ops"
		records, err := s.FindRecords(context.Background(), bpydoc.RecordFilter{Module: &module})
		require.NoError(t, err)
		assert.Equal(t, []string{"bpy.ops.mesh.subdivide"}, identifiers(records))
	})

	t.Run("filter by prefix matches literally", func(t *testing.T) {
		t.Parallel()

		s := seed(t)
		prefix := "bpy.types.Object.ray_"
		records, err := s.FindRecords(context.Background(), bpydoc.RecordFilter{Prefix: &prefix})
		require.NoError(t, err)
		assert.Equal(t, []string{"bpy.types.Object.ray_cast"}, identifiers(records))

		// Underscores are literal characters, not single-character wildcards.
		wildcard := "bpy.types.Object.ray_cas_"
		records, err = s.FindRecords(context.Background(), bpydoc.RecordFilter{Prefix: &wildcard})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("pagination", func(t *testing.T) {
		t.Parallel()

		s := seed(t)
		records, err := s.FindRecords(context.Background(), bpydoc.RecordFilter{Offset: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"bpy.types.Object", "bpy.types.Object.location"}, identifiers(records))
	})
}

func TestRecordService_CountRecords(t *testing.T) {
	t.Parallel()

	db := MustOpenDB(t)
	s := sqlite.NewRecordService(db)
	ctx := context.Background()

	count, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, s.CreateRecords(ctx, []*bpydoc.DocumentRecord{
		record("bpy.types.Object", bpydoc.KindClass),
		record("mathutils.Vector", bpydoc.KindClass),
	}))

	count, err = s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
