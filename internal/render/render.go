// Package render walks a loaded document depth-first and produces a neutral
// control tree for the host to serialize. The source document is never
// mutated; every control binds to a path in an overlay that holds the edits.
//
// The walk is defensive by construction: every node shape has a
// deterministic rendering, and unexpected input degrades to plain text
// rather than failing.
package render

import (
	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/document"
	"github.com/docflow/docflow/internal/keys"
	"github.com/docflow/docflow/internal/resolve"
)

// Form is the rendered view of one document.
type Form struct {
	Empty    bool           `json:"empty"`
	Sections []*FormSection `json:"sections"`
}

// FormSection is one titled container of controls, possibly nested.
type FormSection struct {
	Key         string         `json:"key"`
	Title       string         `json:"title"`
	Path        string         `json:"path"`
	Controls    []*Control     `json:"controls"`
	Subsections []*FormSection `json:"subsections,omitempty"`
}

// Control is one rendered input bound to an overlay path.
type Control struct {
	Path    string            `json:"path"`
	Key     string            `json:"key"`
	Label   string            `json:"label"`
	Type    catalog.FieldType `json:"type"`
	Options []string          `json:"options,omitempty"`
	Value   any               `json:"value,omitempty"`

	// Table and signature controls.
	Columns []string         `json:"columns,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`

	// Checkbox controls.
	Selected []any `json:"selected,omitempty"`
}

// Renderer renders documents against one catalog and one overlay.
type Renderer struct {
	cat     *catalog.Catalog
	overlay *Overlay
}

// New creates a renderer. A nil overlay gets an empty private one.
func New(cat *catalog.Catalog, overlay *Overlay) *Renderer {
	if overlay == nil {
		overlay = NewOverlay()
	}
	return &Renderer{cat: cat, overlay: overlay}
}

// Overlay returns the overlay the renderer binds controls to.
func (r *Renderer) Overlay() *Overlay {
	return r.overlay
}

// Render walks the document and produces its form view. A nil document is
// the terminal "no data" state: an empty form, not an error.
func (r *Renderer) Render(doc document.Document) *Form {
	if doc == nil {
		return &Form{Empty: true}
	}

	order := doc.SectionOrder()
	if order == nil {
		// Documents store sections under normalized keys; catalog IDs are
		// raw declarations and must be normalized to match.
		for _, id := range r.cat.SectionOrder() {
			order = append(order, keys.Normalize(id))
		}
	}

	form := &Form{}
	for _, sk := range document.OrderedKeys(doc, order) {
		v := doc[sk]
		if m, ok := v.(map[string]any); ok {
			form.Sections = append(form.Sections, r.renderRecord(sk, r.cat.SectionTitle(sk), m, map[string]any(doc), sk, 1))
			continue
		}
		// A bare top-level leaf still renders, inside its own container.
		sec := &FormSection{Key: sk, Title: r.cat.SectionTitle(sk), Path: sk}
		if c := r.renderValue(sk, v, map[string]any(doc), sk); c != nil {
			sec.Controls = append(sec.Controls, c)
		}
		form.Sections = append(form.Sections, sec)
	}
	if len(form.Sections) == 0 {
		form.Empty = true
	}
	return form
}

// renderRecord renders one section-shaped record. siblings is the map the
// record sits in; order metadata lives there under the reserved sibling key.
func (r *Renderer) renderRecord(key, title string, m map[string]any, siblings map[string]any, path string, depth int) *FormSection {
	sec := &FormSection{Key: key, Title: title, Path: path}

	order := metaList(siblings, keys.FieldOrderKey(key))
	secNorm := keys.Normalize(key)

	for _, fk := range document.OrderedKeys(m, order) {
		// A field echoing its enclosing section's key is an upstream
		// naming collision; rendering it would duplicate the header.
		if keys.Normalize(fk) == secNorm {
			continue
		}

		v := m[fk]
		fieldPath := path + "." + fk

		if node, ok := document.Classify(fk, v, r.hint(fk)).(document.Section); ok {
			sec.Subsections = append(sec.Subsections,
				r.renderRecord(fk, keys.Label(keys.Normalize(fk)), node.Fields, m, fieldPath, depth+1))
			continue
		}

		if c := r.renderValue(fk, v, m, fieldPath); c != nil {
			sec.Controls = append(sec.Controls, c)
		}
	}
	return sec
}

// renderValue renders one non-section value as a control.
func (r *Renderer) renderValue(fk string, v any, siblings map[string]any, path string) *Control {
	node := document.Classify(fk, v, r.hint(fk))

	c := &Control{
		Path:  path,
		Key:   fk,
		Label: r.label(fk),
	}

	switch n := node.(type) {
	case document.Table:
		c.Type = catalog.TypeTable
		c.Rows = n.Rows
		c.Columns = document.TableColumns(n.Rows, r.columnOrder(fk, siblings))
	case document.SignatureSet:
		c.Type = catalog.TypeSignature
		c.Rows = n.Entries
	case document.CheckboxSet:
		c.Type = catalog.TypeCheckbox
		c.Selected = n.Selected
		_, c.Options = resolve.Resolve(fk, node, r.cat)
	case document.TypedField:
		return r.renderTyped(fk, n, siblings, path, c)
	case document.Scalar:
		c.Type, c.Options = resolve.Resolve(fk, node, r.cat)
		c.Value = r.boundValue(path, n.Value)
	default:
		c.Type = catalog.Generic
		c.Value = r.boundValue(path, v)
	}
	return c
}

// renderTyped dispatches a tagged leaf on its declared type, falling back to
// the cascade when the tag is generic or unknown.
func (r *Renderer) renderTyped(fk string, tf document.TypedField, siblings map[string]any, path string, c *Control) *Control {
	switch tf.Type {
	case catalog.TypeTable:
		inner := document.Classify(fk, tf.Value, "")
		if t, ok := inner.(document.Table); ok {
			c.Type = catalog.TypeTable
			c.Rows = t.Rows
			c.Columns = document.TableColumns(t.Rows, r.columnOrder(fk, siblings))
			return c
		}
		// Tagged table without table-shaped rows: best-effort text.
		c.Type = catalog.Generic
		c.Value = r.boundValue(path, tf.Value)
		return c
	case catalog.TypeSignature:
		c.Type = catalog.TypeSignature
		if rows, ok := document.Classify(fk, tf.Value, "").(document.SignatureSet); ok {
			c.Rows = rows.Entries
		} else if t, ok := document.Classify(fk, tf.Value, "").(document.Table); ok {
			c.Rows = t.Rows
		}
		return c
	default:
		c.Type, c.Options = resolve.Resolve(fk, tf, r.cat)
		c.Value = r.boundValue(path, tf.Value)
		return c
	}
}

// boundValue reads the overlay first so edits shadow stored values.
func (r *Renderer) boundValue(path string, stored any) any {
	if v, ok := r.overlay.Get(path); ok {
		return v
	}
	return stored
}

// hint returns the catalog-declared type for a key, when any. An explicit
// checkbox declaration overrides shape-based array classification.
func (r *Renderer) hint(fk string) catalog.FieldType {
	if f, ok := r.cat.Lookup(fk); ok {
		return f.Type
	}
	return ""
}

// label prefers the catalog's declared label over one derived from the key.
func (r *Renderer) label(fk string) string {
	if f, ok := r.cat.Lookup(fk); ok && f.Label != "" {
		return f.Label
	}
	return keys.Label(keys.Normalize(keys.StripPageSuffix(fk)))
}

// columnOrder resolves table column order: sibling metadata first, then the
// catalog's declared columns.
func (r *Renderer) columnOrder(fk string, siblings map[string]any) []string {
	if order := metaList(siblings, keys.ColumnOrderKey(fk)); order != nil {
		return order
	}
	if f, ok := r.cat.Lookup(fk); ok && len(f.Columns) > 0 {
		return keys.Disambiguate(f.Columns)
	}
	return nil
}

func metaList(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		if ss, ok := m[key].([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
