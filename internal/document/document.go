package document

import (
	"sort"

	"github.com/docflow/docflow/internal/keys"
)

// Document is a stored nested form document: section keys mapping to
// section records, plus reserved metadata entries recording intended
// iteration order. The storage layer guarantees nothing about key
// enumeration order, which is why the metadata exists.
//
// Treat a Document as immutable after construction or load.
type Document map[string]any

// SectionOrder returns the recorded top-level section order, or nil when
// the metadata entry is absent.
func (d Document) SectionOrder() []string {
	return stringList(d[keys.KeyOrder])
}

// FieldOrder returns the recorded field order for a section key, or nil.
func (d Document) FieldOrder(sectionKey string) []string {
	return stringList(d[keys.FieldOrderKey(sectionKey)])
}

// Section returns the named section record, when present and record-shaped.
func (d Document) Section(sectionKey string) (map[string]any, bool) {
	m, ok := d[sectionKey].(map[string]any)
	return m, ok
}

// OrderedKeys merges an order annotation with the data keys actually present
// in m. Annotated keys come first, in annotation order; keys missing from
// the annotation append in sorted order so the result is deterministic.
// Metadata keys are never returned.
func OrderedKeys(m map[string]any, order []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !keys.IsMeta(k) && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !keys.IsMeta(k) && !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// LeafCount counts data leaves in the document: every non-metadata entry of
// every section contributes one leaf.
func (d Document) LeafCount() int {
	n := 0
	for k, v := range d {
		if keys.IsMeta(k) {
			continue
		}
		sec, ok := v.(map[string]any)
		if !ok {
			n++
			continue
		}
		for fk := range sec {
			if !keys.IsMeta(fk) {
				n++
			}
		}
	}
	return n
}
