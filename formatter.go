package bpydoc

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildEmbeddingText renders a record into the fixed markdown template used
// as embedding input. Markdown structure helps downstream LLMs understand
// the context of a retrieved chunk.
func BuildEmbeddingText(r *DocumentRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# API Reference: %s\n", r.Identifier)
	fmt.Fprintf(&sb, "- Type: %s\n", r.Kind)

	if r.Summary != "" {
		sb.WriteString("\n## Description\n")
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}

	if r.Signature != "" {
		sb.WriteString("\n## Signature\n```python\n")
		sb.WriteString(r.Signature)
		sb.WriteString("\n```\n")
	}

	if r.TypeHint != "" {
		sb.WriteString("\n## Type\n- " + r.TypeHint + "\n")
	}

	if len(r.Parameters) > 0 {
		sb.WriteString("\n## Parameters\n")
		for _, p := range r.Parameters {
			sb.WriteString("- " + p.Name)
			if p.TypeHint != "" {
				sb.WriteString(" (" + p.TypeHint + ")")
			}
			if p.Description != "" {
				sb.WriteString(": " + p.Description)
			}
			sb.WriteString("\n")
		}
	}

	if r.ReturnInfo != nil {
		sb.WriteString("\n## Returns\n")
		if r.ReturnInfo.Description != "" {
			sb.WriteString("- " + r.ReturnInfo.Description + "\n")
		}
		if r.ReturnInfo.TypeHint != "" {
			sb.WriteString("- Type: " + r.ReturnInfo.TypeHint + "\n")
		}
	}

	if len(r.CodeExamples) > 0 {
		sb.WriteString("\n## Example Code\n")
		for _, example := range r.CodeExamples {
			sb.WriteString("```python\n")
			sb.WriteString(example)
			sb.WriteString("\n```\n")
		}
	}

	if len(r.Members) > 0 {
		sb.WriteString("\n## Members\n")
		for _, m := range r.Members {
			sb.WriteString("- " + m + "\n")
		}
	}

	return sb.String()
}

// BuildMetadata returns the vector-store metadata for a record: the record
// minus its summary, flattened to strings.
func BuildMetadata(r *DocumentRecord) map[string]string {
	md := map[string]string{
		"identifier": r.Identifier,
		"kind":       string(r.Kind),
		"module":     r.Module(),
		"sourcePath": r.SourcePath,
		"hasCode":    strconv.FormatBool(len(r.CodeExamples) > 0),
	}
	if r.Signature != "" {
		md["signature"] = r.Signature
	}
	if r.TypeHint != "" {
		md["typeHint"] = r.TypeHint
	}
	return md
}
