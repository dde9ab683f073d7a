// Package resolve decides what kind of control a leaf value represents. The
// cascade is an ordered list of fallback tiers evaluated as a pure function:
// explicit type tag, catalog lookup, key-name heuristics, plain text. The
// same inputs always produce the same output; nothing here depends on render
// order or prior calls.
package resolve

import (
	"strings"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/document"
)

// Placeholder options synthesized for enumerable controls that resolved no
// option set, so the control is always renderable.
var placeholderOptions = []string{"Option 1", "Option 2"}

// HeuristicRule maps key-name substrings to a control type. Rules run in
// declaration order against the lowercased raw key; within a rule, tokens
// run in declaration order. First match wins.
type HeuristicRule struct {
	Tokens []string
	Type   catalog.FieldType
}

// Heuristics is the ordered tier-3 rule list. Order is behavior: tests pin
// it so an accidental reordering fails loudly.
var Heuristics = []HeuristicRule{
	{Tokens: []string{"date", "dob", "birth", "valid", "expir"}, Type: catalog.TypeDate},
	{Tokens: []string{"email"}, Type: catalog.TypeEmail},
	{Tokens: []string{"phone", "mobile", "contact"}, Type: catalog.TypePhone},
	{Tokens: []string{"number", "quantity", "amount", "price", "age"}, Type: catalog.TypeNumber},
	{Tokens: []string{"address", "description", "note", "comment"}, Type: catalog.TypeLongText},
}

// Resolve determines the control type and option set for a leaf.
//
// Precedence rule (applied consistently everywhere): a specific explicit
// tag beats the catalog; the catalog beats a generic or missing tag; key
// heuristics apply only when both are silent.
func Resolve(rawKey string, node document.Node, cat *catalog.Catalog) (catalog.FieldType, []string) {
	var tagOptions []string

	// Tier 1: explicit tag more specific than the generic default.
	if tf, ok := node.(document.TypedField); ok {
		tagOptions = tf.Options
		if tf.Type.Known() && tf.Type != catalog.Generic {
			return finish(tf.Type, tf.Options)
		}
	}

	// Tier 2: catalog lookup, including page-suffix comparison passes.
	if f, ok := cat.Lookup(rawKey); ok {
		t := f.Type
		if !t.Known() {
			t = catalog.Generic
		}
		opts := f.Options
		if len(opts) == 0 {
			opts = tagOptions
		}
		return finish(t, opts)
	}

	// Tier 3: key-name heuristics.
	lower := strings.ToLower(rawKey)
	for _, rule := range Heuristics {
		for _, tok := range rule.Tokens {
			if strings.Contains(lower, tok) {
				return finish(rule.Type, tagOptions)
			}
		}
	}

	// Tier 4: plain text.
	return finish(catalog.Generic, tagOptions)
}

func finish(t catalog.FieldType, opts []string) (catalog.FieldType, []string) {
	if t.Enumerable() && len(opts) == 0 {
		opts = placeholderOptions
	}
	return t, opts
}
