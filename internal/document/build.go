package document

import (
	"fmt"
	"strings"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/keys"
)

// generalSection receives fields whose section id resolves to nothing, and
// is the single synthesized section when a template declares fields but no
// sections at all.
var generalSection = catalog.Section{ID: "general", Title: "General"}

// Placeholder columns for a table field declared without any.
var placeholderColumns = []string{"column_1", "column_2"}

// ValidationError reports a save-path failure detected before document
// construction. It blocks persistence.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + e.Reason
}

// ValidateSubmission checks top-level save invariants eagerly: a submission
// needs a title and at least one field.
func ValidateSubmission(title string, fields []catalog.Field) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Reason: "title is empty"}
	}
	if len(fields) == 0 {
		return &ValidationError{Reason: "no fields defined"}
	}
	return nil
}

// Build assembles ordered field definitions and a section list into a new
// nested document with seeded values and order metadata attached.
func Build(fields []catalog.Field, sections []catalog.Section) Document {
	return Rebuild(fields, sections, nil)
}

// Rebuild constructs a new document from the current definitions over a
// previously stored one. Values and shapes already stored are preserved
// verbatim; only order metadata is recomputed. Fields new to the
// definitions are seeded; branches present in prev with no matching
// definition are retained, never dropped.
func Rebuild(fields []catalog.Field, sections []catalog.Section, prev Document) Document {
	groups, order := groupBySection(fields, sections)

	doc := Document{}
	var sectionOrder []string

	for _, g := range order {
		grp := groups[g]
		secKey := grp.key
		sec := make(map[string]any, len(grp.fields))

		prevSec, _ := prev.Section(secKey)

		labels := make([]string, len(grp.fields))
		for i, f := range grp.fields {
			labels[i] = f.Label
		}
		fieldKeys := keys.Disambiguate(labels)

		for i, f := range grp.fields {
			fk := fieldKeys[i]
			if prevVal, ok := prevSec[fk]; ok {
				sec[fk] = prevVal
			} else {
				sec[fk] = seedValue(f)
			}
			if f.Type == catalog.TypeTable {
				// Column metadata follows the current declaration even for
				// preserved rows; columns only the rows carry are restored
				// by the render-side column union.
				sec[keys.ColumnOrderKey(fk)] = toAnyList(tableColumnsFor(f))
			}
		}

		// Retain branches stored previously that no current definition
		// covers, including their metadata entries.
		for pk, pv := range prevSec {
			if _, ok := sec[pk]; ok {
				continue
			}
			sec[pk] = pv
		}

		doc[secKey] = sec
		// Retained fields keep their previously recorded position after
		// the currently defined ones.
		annotation := append(append([]string{}, fieldKeys...), prev.FieldOrder(secKey)...)
		doc[keys.FieldOrderKey(secKey)] = toAnyList(OrderedKeys(sec, annotation))
		sectionOrder = append(sectionOrder, secKey)
	}

	// Whole sections present before but absent from the current
	// definitions are retained in their recorded order.
	if prev != nil {
		for _, pk := range OrderedKeys(prev, prev.SectionOrder()) {
			if _, ok := doc[pk]; ok {
				continue
			}
			doc[pk] = prev[pk]
			if fo := prev.FieldOrder(pk); fo != nil {
				doc[keys.FieldOrderKey(pk)] = toAnyList(fo)
			}
			sectionOrder = append(sectionOrder, pk)
		}
	}

	doc[keys.KeyOrder] = toAnyList(sectionOrder)
	return doc
}

type group struct {
	key    string
	fields []catalog.Field
}

// groupBySection buckets fields by declared section, preserving section
// order then field order. Unresolvable section ids land in a trailing
// General bucket; a field list with no sections at all gets a single
// synthesized General section.
func groupBySection(fields []catalog.Field, sections []catalog.Section) (map[string]*group, []string) {
	if len(sections) == 0 && len(fields) > 0 {
		sections = []catalog.Section{generalSection}
	}

	groups := make(map[string]*group, len(sections)+1)
	var order []string

	known := make(map[string]string, len(sections)) // declared id → section key
	for _, s := range sections {
		sk := keys.Normalize(s.ID)
		known[s.ID] = sk
		if _, ok := groups[sk]; !ok {
			groups[sk] = &group{key: sk}
			order = append(order, sk)
		}
	}

	generalKey := keys.Normalize(generalSection.ID)
	for _, f := range fields {
		sk, ok := known[f.Section]
		if !ok {
			sk = generalKey
			if _, exists := groups[sk]; !exists {
				groups[sk] = &group{key: sk}
				order = append(order, sk)
			}
		}
		g := groups[sk]
		g.fields = append(g.fields, f)
	}

	return groups, order
}

// seedValue produces the initial stored value for a newly defined field.
func seedValue(f catalog.Field) any {
	switch f.Type {
	case catalog.TypeTable:
		row := make(map[string]any)
		for _, c := range tableColumnsFor(f) {
			row[c] = nil
		}
		return []any{row}
	case catalog.TypeCheckbox:
		return []any{}
	case catalog.TypeSignature:
		return []any{map[string]any{
			"label":     f.Label,
			"image":     nil,
			"signed_at": nil,
		}}
	default:
		return nil
	}
}

func tableColumnsFor(f catalog.Field) []string {
	if len(f.Columns) == 0 {
		return placeholderColumns
	}
	return keys.Disambiguate(f.Columns)
}

// toAnyList widens []string for storage; stored JSON arrays decode back as
// []any, so writing []any keeps built and loaded documents shape-identical.
func toAnyList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Describe returns a short human summary of a document, used in logs.
func Describe(d Document) string {
	return fmt.Sprintf("%d sections, %d leaves", len(OrderedKeys(d, d.SectionOrder())), d.LeafCount())
}
