package bpydoc

import (
	"encoding/json"
	"strings"
)

// Kind identifies the category of a documented API entity.
type Kind string

// Record kinds. The kind determines which optional fields may be populated.
const (
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
	KindFunction Kind = "function"
	KindProperty Kind = "property"
	KindOperator Kind = "operator"
)

// Valid returns true if k is one of the known record kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindModule, KindClass, KindMethod, KindFunction, KindProperty, KindOperator:
		return true
	}
	return false
}

// Parameter represents one documented parameter of a callable entity.
// Order within a record follows documentation order.
type Parameter struct {
	Name        string `json:"name"`
	TypeHint    string `json:"typeHint,omitempty"`
	Description string `json:"description,omitempty"`
}

// ReturnInfo describes the return value of a callable entity.
type ReturnInfo struct {
	TypeHint    string `json:"typeHint,omitempty"`
	Description string `json:"description,omitempty"`
}

// DocumentRecord is the normalized representation of one documented API
// entity (module, class, method, function, property, or operator).
//
// Identifier is the fully-qualified dotted name (e.g.
// "bpy.types.Object.location") and acts as the natural key for idempotent
// re-ingestion. SourcePath is provenance only, never identity.
//
// TypeHint carries a property's declared value type, parsed from the bare
// "Type" field of its documentation. CodeExamples holds the literal code
// blocks documented alongside the entity, in document order, with their
// original line breaks intact.
//
// Members and CodeExamples are nil when empty, never zero-length; a
// zero-length slice fails Validate. This keeps serialization an exact
// round trip, since JSON cannot distinguish an omitted field from an
// empty one.
type DocumentRecord struct {
	Identifier   string      `json:"identifier"`
	Kind         Kind        `json:"kind"`
	Signature    string      `json:"signature,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	Parameters   []Parameter `json:"parameters"`
	ReturnInfo   *ReturnInfo `json:"returnInfo,omitempty"`
	TypeHint     string      `json:"typeHint,omitempty"`
	CodeExamples []string    `json:"codeExamples,omitempty"`
	SourcePath   string      `json:"sourcePath,omitempty"`
	Members      []string    `json:"members,omitempty"`
}

// Validate returns an error if the record violates the schema invariants.
func (r *DocumentRecord) Validate() error {
	if r.Identifier == "" {
		return Errorf(EINVALID, "record identifier required")
	}
	if !r.Kind.Valid() {
		return Errorf(EINVALID, "record %q has unknown kind %q", r.Identifier, r.Kind)
	}
	switch r.Kind {
	case KindModule, KindProperty:
		if r.Signature != "" {
			return Errorf(EINVALID, "record %q of kind %q must not carry a signature", r.Identifier, r.Kind)
		}
	}
	if len(r.Members) > 0 && r.Kind != KindClass && r.Kind != KindModule {
		return Errorf(EINVALID, "record %q of kind %q must not carry members", r.Identifier, r.Kind)
	}
	if r.Members != nil && len(r.Members) == 0 {
		return Errorf(EINVALID, "record %q members must be absent when empty", r.Identifier)
	}
	if r.CodeExamples != nil && len(r.CodeExamples) == 0 {
		return Errorf(EINVALID, "record %q code examples must be absent when empty", r.Identifier)
	}
	if r.Parameters == nil {
		return Errorf(EINVALID, "record %q parameters must be empty, not absent", r.Identifier)
	}
	return nil
}

// Module returns the owning module of the record, derived from the
// identifier. Two-segment module prefixes like "bpy.ops" are preserved so
// that operators group under their operator module rather than plain "bpy".
func (r *DocumentRecord) Module() string {
	parts := strings.Split(r.Identifier, ".")
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}

// MarshalLine serializes the record to a single JSON line (without the
// trailing newline). MarshalLine and UnmarshalLine are exact inverses for
// valid records.
func (r *DocumentRecord) MarshalLine() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, Errorf(EINTERNAL, "marshal record %q: %v", r.Identifier, err)
	}
	return data, nil
}

// UnmarshalLine deserializes a record from one line of the record stream.
// A missing parameters field is normalized to an empty sequence so the
// round-trip law holds for records that validated before serialization.
func UnmarshalLine(line []byte) (*DocumentRecord, error) {
	var r DocumentRecord
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, Errorf(EMALFORMED, "unmarshal record line: %v", err)
	}
	if r.Parameters == nil {
		r.Parameters = []Parameter{}
	}
	return &r, nil
}
