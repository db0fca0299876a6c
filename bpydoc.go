// Package bpydoc converts a pre-downloaded static HTML tree of the Blender
// Python API reference into a normalized, line-delimited record stream, and
// provides thin adapters for embedding the records into a vector store and
// querying it for verification.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, chroma/).
package bpydoc
