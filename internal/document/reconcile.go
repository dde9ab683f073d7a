package document

import (
	"sort"

	"github.com/docflow/docflow/internal/catalog"
)

// classifyArray resolves an array-shaped value to CheckboxSet, SignatureSet,
// or Table. Every ambiguity has a deterministic outcome; nothing here fails.
//
// Check order: a catalog-declared checkbox type overrides every shape-based
// guess, then empty/all-scalar arrays are checkbox sets, then all-record
// arrays under a signature-named key with signature attributes are signature
// sets, and any remaining array is a table. Mixed scalar/record arrays
// resolve to a table over the record elements' column union.
func classifyArray(rawKey string, arr []any, hint catalog.FieldType) Node {
	if hint == catalog.TypeCheckbox {
		return CheckboxSet{Selected: arr}
	}

	if len(arr) == 0 {
		return CheckboxSet{Selected: arr}
	}

	allScalar := true
	allRecord := true
	for _, e := range arr {
		if !isScalar(e) {
			allScalar = false
		}
		if _, ok := e.(map[string]any); !ok {
			allRecord = false
		}
	}

	if allScalar {
		return CheckboxSet{Selected: arr}
	}

	if allRecord {
		rows := make([]map[string]any, len(arr))
		for i, e := range arr {
			rows[i] = e.(map[string]any)
		}
		if signatureKeyPattern(rawKey) && allHaveSignatureAttrs(rows) {
			return SignatureSet{Entries: rows}
		}
		return Table{Rows: collapseDegenerateRows(rows)}
	}

	// AmbiguousArrayShape: mixed scalar and record elements. Resolve to a
	// table over whatever records are present.
	var rows []map[string]any
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return Table{Rows: collapseDegenerateRows(rows)}
}

func allHaveSignatureAttrs(rows []map[string]any) bool {
	for _, r := range rows {
		if !hasSignatureAttrs(r) {
			return false
		}
	}
	return len(rows) > 0
}

// collapseDegenerateRows repairs a known upstream malformation where table
// columns were transposed into single-key rows. When every row holds exactly
// one key, the whole array collapses into one row whose columns are the
// union of all observed keys. The first value seen for a key wins.
func collapseDegenerateRows(rows []map[string]any) []map[string]any {
	if len(rows) < 2 {
		return rows
	}
	for _, r := range rows {
		if len(r) != 1 {
			return rows
		}
	}
	merged := make(map[string]any, len(rows))
	for _, r := range rows {
		for k, v := range r {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return []map[string]any{merged}
}

// TableColumns returns the rendered column set for a table: the union of
// keys across all rows, so ragged rows still produce a complete header.
// Keys named by order (column-order metadata or declared columns) come
// first; the rest append in sorted order.
func TableColumns(rows []map[string]any, order []string) []string {
	present := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			present[k] = true
		}
	}

	var out []string
	seen := make(map[string]bool, len(present))
	for _, k := range order {
		if present[k] && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range present {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
