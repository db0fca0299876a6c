// Package goquery provides the HTML record extractor for Sphinx-generated
// API references. Validated against the Blender Python API docs (Sphinx
// v5.x-v7.x templates).
package goquery

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bpydoc/bpydoc"
)

// Ensure Extractor implements bpydoc.RecordExtractor at compile time.
var _ bpydoc.RecordExtractor = (*Extractor)(nil)

// kindByClass is the explicit dispatch table from Sphinx definition-list
// classes to record kinds. Unknown classes are skipped with a diagnostic
// rather than guessed at.
var kindByClass = map[string]bpydoc.Kind{
	"class":        bpydoc.KindClass,
	"exception":    bpydoc.KindClass,
	"function":     bpydoc.KindFunction,
	"method":       bpydoc.KindMethod,
	"classmethod":  bpydoc.KindMethod,
	"staticmethod": bpydoc.KindMethod,
	"attribute":    bpydoc.KindProperty,
	"property":     bpydoc.KindProperty,
	"data":         bpydoc.KindProperty,
	"module":       bpydoc.KindModule,
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Extractor parses Sphinx class/module/operator pages into records.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractRecords parses one page and returns its records in document order.
func (e *Extractor) ExtractRecords(sourcePath string, html []byte, diag bpydoc.DiagnosticFunc) ([]*bpydoc.DocumentRecord, error) {
	if len(bytes.TrimSpace(html)) == 0 {
		return nil, bpydoc.Errorf(bpydoc.EMALFORMED, "empty document %q", sourcePath)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, bpydoc.Errorf(bpydoc.EMALFORMED, "parse %q: %v", sourcePath, err)
	}

	root := doc.Find("article[role=main]").First()
	if root.Length() == 0 {
		root = doc.Find("div[role=main]").First()
	}
	if root.Length() == 0 {
		return nil, bpydoc.Errorf(bpydoc.ENOENTITY, "no main content in %q", sourcePath)
	}

	// Top-level definition blocks only; nested definitions are handled
	// recursively so members end up attached to their parent.
	var definitions []*goquery.Selection
	root.Find("dl").Each(func(_ int, sel *goquery.Selection) {
		if !isPyDefinition(sel) {
			return
		}
		nested := false
		sel.Parents().Each(func(_ int, p *goquery.Selection) {
			if goquery.NodeName(p) == "dl" && isPyDefinition(p) {
				nested = true
			}
		})
		if !nested {
			definitions = append(definitions, sel)
		}
	})

	if len(definitions) == 0 {
		return nil, bpydoc.Errorf(bpydoc.ENOENTITY, "no entity definitions in %q", sourcePath)
	}

	var records []*bpydoc.DocumentRecord
	for _, sel := range definitions {
		records = append(records, e.extractDefinition(sel, sourcePath, "", diag)...)
	}
	return records, nil
}

// extractDefinition converts one dl block (and its nested definitions) into
// records. parentID prefixes synthesized identifiers of children whose
// signature term carries no anchor of its own.
func (e *Extractor) extractDefinition(sel *goquery.Selection, sourcePath, parentID string, diag bpydoc.DiagnosticFunc) []*bpydoc.DocumentRecord {
	terms := sel.ChildrenFiltered("dt")
	if terms.Length() == 0 {
		return nil
	}
	body := sel.ChildrenFiltered("dd").First()

	primary := terms.First()
	identifier := identifierFor(primary, parentID)

	kind, ok := kindFor(sel, identifier)
	if !ok {
		emitDiag(diag, sourcePath, bpydoc.Errorf(bpydoc.EINVALID,
			"definition %q has no recognized kind class", identifier))
		return nil
	}

	summary := extractSummary(body)
	params, returnInfo, typeHint := extractFields(body)
	examples := extractCodeExamples(body)

	record := &bpydoc.DocumentRecord{
		Identifier:   identifier,
		Kind:         kind,
		Summary:      summary,
		Parameters:   params,
		ReturnInfo:   returnInfo,
		TypeHint:     typeHint,
		CodeExamples: examples,
		SourcePath:   sourcePath,
	}
	if kind != bpydoc.KindModule && kind != bpydoc.KindProperty {
		record.Signature = signatureFor(primary)
	}

	records := []*bpydoc.DocumentRecord{record}

	// Overloads: additional signature terms under the same block share the
	// base identifier with an ordinal suffix, assigned by document order.
	terms.Slice(1, terms.Length()).Each(func(i int, dt *goquery.Selection) {
		overload := &bpydoc.DocumentRecord{
			Identifier:   identifier + "#" + strconv.Itoa(i+2),
			Kind:         kind,
			Summary:      summary,
			Parameters:   params,
			ReturnInfo:   returnInfo,
			TypeHint:     typeHint,
			CodeExamples: examples,
			SourcePath:   sourcePath,
		}
		if kind != bpydoc.KindModule && kind != bpydoc.KindProperty {
			overload.Signature = signatureFor(dt)
		}
		records = append(records, overload)
	})

	// Recurse into nested definitions of container kinds and collect their
	// identifiers as members in encounter order.
	if body.Length() > 0 && (kind == bpydoc.KindClass || kind == bpydoc.KindModule) {
		body.ChildrenFiltered("dl").Each(func(_ int, child *goquery.Selection) {
			if !isPyDefinition(child) {
				return
			}
			children := e.extractDefinition(child, sourcePath, identifier, diag)
			if len(children) > 0 {
				record.Members = append(record.Members, children[0].Identifier)
			}
			records = append(records, children...)
		})
	}

	// Validate every record before yielding; drop invalid ones.
	valid := records[:0]
	for _, r := range records {
		if err := r.Validate(); err != nil {
			emitDiag(diag, sourcePath, err)
			continue
		}
		valid = append(valid, r)
	}
	return valid
}

// isPyDefinition reports whether sel is a Sphinx Python definition list,
// i.e. a dl carrying a class token starting with "py" ("py class",
// "py function", or legacy single-token forms like "py-class").
func isPyDefinition(sel *goquery.Selection) bool {
	class, exists := sel.Attr("class")
	if !exists {
		return false
	}
	for _, token := range strings.Fields(class) {
		if strings.HasPrefix(token, "py") {
			return true
		}
	}
	return false
}

// kindFor resolves the record kind from the dl class tokens via the
// dispatch table. Functions documented under an operator module (an ".ops."
// identifier segment) are reclassified as operators.
func kindFor(sel *goquery.Selection, identifier string) (bpydoc.Kind, bool) {
	class, _ := sel.Attr("class")
	for _, token := range strings.Fields(class) {
		kind, ok := kindByClass[token]
		if !ok {
			kind, ok = kindByClass[strings.TrimPrefix(token, "py-")]
		}
		if !ok {
			continue
		}
		if kind == bpydoc.KindFunction && strings.Contains(identifier, ".ops.") {
			return bpydoc.KindOperator, true
		}
		return kind, true
	}
	return "", false
}

// identifierFor returns the fully-qualified identifier of a signature term.
// Sphinx anchors terms with id attributes holding the dotted name; when a
// term has none, the identifier is synthesized from the parent and the
// term's name node.
func identifierFor(dt *goquery.Selection, parentID string) string {
	if id, exists := dt.Attr("id"); exists && id != "" {
		return id
	}
	name := cleanText(dt.Find(".sig-name, .descname").First().Text())
	if name != "" && parentID != "" {
		return parentID + "." + name
	}
	return name
}

// signatureFor returns the whitespace-collapsed literal signature of a
// term, without the headerlink pilcrow Sphinx appends to anchored terms.
func signatureFor(dt *goquery.Selection) string {
	sig := cleanText(dt.Text())
	sig = strings.TrimSuffix(sig, "¶")
	return strings.TrimSpace(sig)
}

// extractSummary returns the first descriptive paragraph of the definition
// body, trimmed of markup.
func extractSummary(body *goquery.Selection) string {
	if body.Length() == 0 {
		return ""
	}
	var summary string
	body.ChildrenFiltered("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := cleanText(p.Text()); text != "" {
			summary = text
			return false
		}
		return true
	})
	return summary
}

// extractFields walks the definition body's field list and returns the
// parameters in document order, the return info, and the bare type hint
// Sphinx emits for attributes and data ("Type: float"), each empty when
// not documented.
func extractFields(body *goquery.Selection) ([]bpydoc.Parameter, *bpydoc.ReturnInfo, string) {
	params := []bpydoc.Parameter{}
	var returnInfo *bpydoc.ReturnInfo
	var typeHint string

	if body.Length() == 0 {
		return params, nil, ""
	}

	fieldList := body.ChildrenFiltered("dl.field-list").First()
	if fieldList.Length() == 0 {
		return params, nil, ""
	}

	var field string
	fieldList.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "dt":
			field = strings.ToLower(cleanText(child.Text()))
		case "dd":
			switch {
			case field == "":
				// Stray dd without a preceding field name.
			case strings.Contains(field, "param"):
				items := child.Find("ul li")
				if items.Length() == 0 {
					params = append(params, parseParameter(cleanText(child.Text())))
				} else {
					items.Each(func(_ int, li *goquery.Selection) {
						params = append(params, parseParameter(cleanText(li.Text())))
					})
				}
			case strings.Contains(field, "return") && strings.Contains(field, "type"):
				if returnInfo == nil {
					returnInfo = &bpydoc.ReturnInfo{}
				}
				returnInfo.TypeHint = cleanText(child.Text())
			case strings.Contains(field, "return"):
				if returnInfo == nil {
					returnInfo = &bpydoc.ReturnInfo{}
				}
				returnInfo.Description = cleanText(child.Text())
			case strings.Contains(field, "type"):
				typeHint = cleanText(child.Text())
			}
			field = ""
		}
	})

	return params, returnInfo, typeHint
}

// extractCodeExamples collects the literal code blocks of a definition body
// in document order: bare pre elements and pre elements wrapped in a
// highlight div. Text is kept verbatim apart from trailing newlines, since
// indentation and line breaks are meaningful in code. Blocks belonging to
// nested definitions are left for the recursion to pick up.
func extractCodeExamples(body *goquery.Selection) []string {
	if body.Length() == 0 {
		return nil
	}
	var examples []string
	appendPre := func(pre *goquery.Selection) {
		if text := strings.TrimRight(pre.Text(), "\n"); strings.TrimSpace(text) != "" {
			examples = append(examples, text)
		}
	}
	body.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "pre":
			appendPre(child)
		case "div":
			child.Find("pre").Each(func(_ int, pre *goquery.Selection) {
				appendPre(pre)
			})
		}
	})
	return examples
}

// parseParameter splits one rendered parameter item into its parts. Sphinx
// renders items as "name (type) – description"; the type annotation and the
// description are both optional, and type annotations may themselves contain
// parentheses (e.g. "boolean, (optional)"). Items that do not match the
// expected shape degrade to a name-only parameter so no documented
// parameter is ever lost.
func parseParameter(text string) bpydoc.Parameter {
	var p bpydoc.Parameter
	rest := text
	if i := strings.Index(rest, " – "); i >= 0 { // en dash separator
		p.Description = strings.TrimSpace(rest[i+len(" – "):])
		rest = strings.TrimSpace(rest[:i])
	}
	if i := strings.Index(rest, "("); i >= 0 && strings.HasSuffix(rest, ")") {
		p.TypeHint = strings.TrimSpace(rest[i+1 : len(rest)-1])
		rest = strings.TrimSpace(rest[:i])
	}
	p.Name = rest
	return p
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

func emitDiag(diag bpydoc.DiagnosticFunc, path string, err error) {
	if diag == nil {
		return
	}
	diag(bpydoc.Diagnostic{
		Path:   path,
		Code:   bpydoc.ErrorCode(err),
		Reason: bpydoc.ErrorMessage(err),
	})
}

