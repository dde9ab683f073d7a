// Package document implements the hierarchical form-document model: the
// closed set of node shapes a stored document may contain, the builder that
// assembles flat field definitions into a nested document, the reconciler
// that classifies array-shaped values, and the codec used at the store
// boundary.
//
// A Document is immutable once built or loaded. Edits live in a separate
// overlay; saving always constructs a new Document.
package document

import (
	"strings"

	"github.com/docflow/docflow/internal/catalog"
)

// Node is the closed union of shapes a decoded document value can take.
// Classify maps any decoded value to exactly one variant; shapes that match
// no variant degrade to Scalar so rendering never fails.
type Node interface {
	node()
}

// Scalar is a plain leaf: string, number, bool, or null.
type Scalar struct {
	Value any
}

// TypedField is a leaf carrying an explicit type tag, as written by the
// form editor: {"type": ..., "value": ..., "options": [...]}.
type TypedField struct {
	Type    catalog.FieldType
	Value   any
	Options []string
}

// Table is an array of records rendered as rows and columns.
type Table struct {
	Rows []map[string]any
}

// CheckboxSet is an array of selected scalar values, possibly empty.
type CheckboxSet struct {
	Selected []any
}

// SignatureSet is an array of signature records (bounding box, label, image
// reference, signed timestamp).
type SignatureSet struct {
	Entries []map[string]any
}

// Section is an untagged nested record, rendered as a sub-grouping.
type Section struct {
	Fields map[string]any
}

func (Scalar) node()       {}
func (TypedField) node()   {}
func (Table) node()        {}
func (CheckboxSet) node()  {}
func (SignatureSet) node() {}
func (Section) node()      {}

// typedFieldTag recognizes the editor's tagged-leaf shape: a record with a
// string "type" and a "value" entry.
func typedFieldTag(m map[string]any) (catalog.FieldType, bool) {
	t, ok := m["type"].(string)
	if !ok {
		return "", false
	}
	if _, ok := m["value"]; !ok {
		return "", false
	}
	return catalog.FieldType(t), true
}

// Classify maps one decoded value to its Node variant. rawKey is the storage
// key the value sits under (signature detection reads its lexical form) and
// hint is the catalog-declared type for the key, if any.
func Classify(rawKey string, v any, hint catalog.FieldType) Node {
	switch val := v.(type) {
	case nil, string, bool, float64, int, int64:
		return Scalar{Value: val}
	case map[string]any:
		if t, ok := typedFieldTag(val); ok {
			return TypedField{
				Type:    t,
				Value:   val["value"],
				Options: stringList(val["options"]),
			}
		}
		return Section{Fields: val}
	case []any:
		return classifyArray(rawKey, val, hint)
	default:
		// MalformedLeaf: no known variant. Degrade to plain text.
		return Scalar{Value: val}
	}
}

// stringList coerces a decoded JSON array into []string, dropping
// non-string elements.
func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		if s, ok := v.([]string); ok {
			return s
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// isScalar reports whether v is a plain leaf value.
func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, int, int64:
		return true
	}
	return false
}

// signatureKeyPattern matches field keys that name signature captures.
func signatureKeyPattern(rawKey string) bool {
	k := strings.ToLower(rawKey)
	return strings.Contains(k, "signature") || strings.Contains(k, "initial")
}

// Attributes that identify a signature record: bounding box coordinates,
// an image reference, or a signed timestamp.
var signatureAttrs = []string{
	"x", "y", "width", "height", "image", "image_url", "signed_at", "signedAt",
}

func hasSignatureAttrs(m map[string]any) bool {
	for _, attr := range signatureAttrs {
		if _, ok := m[attr]; ok {
			return true
		}
	}
	return false
}
