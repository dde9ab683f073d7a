// Package catalog holds the authoritative field definitions a form template
// declares: label, control type, options, owning section, and table columns.
// The catalog is read-only to the rest of the system; template management
// owns its contents.
package catalog

import (
	"github.com/docflow/docflow/internal/keys"
)

// FieldType identifies the control a field renders as.
type FieldType string

const (
	TypeText      FieldType = "text"
	TypeLongText  FieldType = "textarea"
	TypeNumber    FieldType = "number"
	TypeDate      FieldType = "date"
	TypeEmail     FieldType = "email"
	TypePhone     FieldType = "phone"
	TypeSelect    FieldType = "select"
	TypeRadio     FieldType = "radio"
	TypeCheckbox  FieldType = "checkbox"
	TypeTable     FieldType = "table"
	TypeSignature FieldType = "signature"
)

// Generic is the default control type. A tag carrying it conveys no real
// type information, so catalog entries and heuristics may override it.
const Generic = TypeText

// Enumerable reports whether t renders a fixed option set.
func (t FieldType) Enumerable() bool {
	return t == TypeSelect || t == TypeRadio || t == TypeCheckbox
}

// Known reports whether t is one of the declared control types.
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeLongText, TypeNumber, TypeDate, TypeEmail, TypePhone,
		TypeSelect, TypeRadio, TypeCheckbox, TypeTable, TypeSignature:
		return true
	}
	return false
}

// Field is one declared form field.
type Field struct {
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
	Section string    `json:"section,omitempty"`
	Columns []string  `json:"columns,omitempty"`
}

// Key returns the normalized storage key for the field's label.
func (f Field) Key() string {
	return keys.Normalize(f.Label)
}

// Section is a declared grouping of fields, in template order.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Catalog indexes a template's fields for lookup by normalized label.
type Catalog struct {
	fields   []Field
	sections []Section

	byKey      map[string]int // normalized label → first field index
	byMatchKey map[string]int // page-suffix-stripped label → first field index
}

// New builds a catalog from declared fields and sections. Field and section
// order is preserved. On duplicate keys the first declaration wins.
func New(fields []Field, sections []Section) *Catalog {
	c := &Catalog{
		fields:     fields,
		sections:   sections,
		byKey:      make(map[string]int, len(fields)),
		byMatchKey: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		k := keys.Normalize(f.Label)
		if _, ok := c.byKey[k]; !ok {
			c.byKey[k] = i
		}
		mk := keys.MatchKey(f.Label)
		if _, ok := c.byMatchKey[mk]; !ok {
			c.byMatchKey[mk] = i
		}
	}
	return c
}

// Empty is a catalog with no declarations. Lookups always miss.
func Empty() *Catalog {
	return New(nil, nil)
}

// Lookup resolves a stored key to its catalog field. Stored keys and catalog
// labels may each have kept or dropped their page suffix independently, so
// four comparison passes run in order: exact, stored-stripped,
// catalog-stripped, both-stripped. First hit wins.
func (c *Catalog) Lookup(rawKey string) (Field, bool) {
	if c == nil {
		return Field{}, false
	}
	exact := keys.Normalize(rawKey)
	stripped := keys.MatchKey(rawKey)
	if i, ok := c.byKey[exact]; ok {
		return c.fields[i], true
	}
	if i, ok := c.byKey[stripped]; ok {
		return c.fields[i], true
	}
	if i, ok := c.byMatchKey[exact]; ok {
		return c.fields[i], true
	}
	if i, ok := c.byMatchKey[stripped]; ok {
		return c.fields[i], true
	}
	return Field{}, false
}

// Fields returns the declared fields in template order.
func (c *Catalog) Fields() []Field {
	if c == nil {
		return nil
	}
	return c.fields
}

// Sections returns the declared sections in template order.
func (c *Catalog) Sections() []Section {
	if c == nil {
		return nil
	}
	return c.sections
}

// SectionOrder returns the declared section IDs in template order.
func (c *Catalog) SectionOrder() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.ID
	}
	return out
}

// SectionTitle returns the declared title for a section ID, falling back to
// a label derived from the ID.
func (c *Catalog) SectionTitle(id string) string {
	if c != nil {
		for _, s := range c.sections {
			if s.ID == id {
				return s.Title
			}
		}
	}
	return keys.Label(keys.Normalize(id))
}
