// Package keys canonicalizes field labels into storage keys and owns the
// reserved metadata-key naming used for order annotations.
package keys

import (
	"fmt"
	"regexp"
	"strings"
)

// Fallback key for labels that normalize to nothing.
const emptyKey = "field"

// KeyOrder is the reserved top-level metadata key holding section order.
const KeyOrder = "_keyOrder"

// marker prefixes every metadata key. Normalize strips leading underscores,
// so a normalized data key can never collide with a metadata key.
const marker = "_"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// pageSuffix matches trailing "page N" markers in the surface forms produced
// upstream: "_page_1", " page 1", " Page 1".
var pageSuffix = regexp.MustCompile(`(?i)[ _]page[ _]?[0-9]+$`)

// Normalize converts a field label to its canonical storage key: lowercase,
// trimmed, runs of non-alphanumerics collapsed to a single underscore, outer
// underscores stripped. Idempotent.
func Normalize(label string) string {
	k := strings.ToLower(strings.TrimSpace(label))
	k = nonAlnum.ReplaceAllString(k, "_")
	k = strings.Trim(k, "_")
	if k == "" {
		return emptyKey
	}
	return k
}

// Disambiguate normalizes each label and suffixes repeats with _2, _3, … in
// first-seen order. Output preserves input order and contains no duplicates.
// A label may itself normalize to an already-emitted suffixed form ("Phone 2"
// after two "Phone"s), so candidate keys are checked against every key
// emitted so far, not just a per-base counter.
func Disambiguate(labels []string) []string {
	out := make([]string, len(labels))
	used := make(map[string]bool, len(labels))
	next := make(map[string]int, len(labels))
	for i, label := range labels {
		base := Normalize(label)
		key := base
		if used[key] {
			n := next[base]
			if n < 2 {
				n = 2
			}
			for used[fmt.Sprintf("%s_%d", base, n)] {
				n++
			}
			key = fmt.Sprintf("%s_%d", base, n)
			next[base] = n + 1
		}
		out[i] = key
		used[key] = true
	}
	return out
}

// StripPageSuffix removes a trailing "page N" marker. It exists for fuzzy
// catalog matching and display only; stored keys keep their suffix.
func StripPageSuffix(s string) string {
	return pageSuffix.ReplaceAllString(s, "")
}

// MatchKey is the fuzzy-match form of a label: page suffix stripped, then
// normalized again.
func MatchKey(label string) string {
	return Normalize(StripPageSuffix(label))
}

// IsMeta reports whether key is a reserved metadata key rather than data.
func IsMeta(key string) bool {
	return strings.HasPrefix(key, marker)
}

// FieldOrderKey names the sibling metadata entry recording field order for a
// section key.
func FieldOrderKey(sectionKey string) string {
	return marker + sectionKey + "_fieldOrder"
}

// ColumnOrderKey names the sibling metadata entry recording column order for
// a table field key.
func ColumnOrderKey(fieldKey string) string {
	return marker + fieldKey + "_columnOrder"
}

// Known abbreviations kept upper-case in generated labels.
var abbreviations = map[string]string{
	"id": "ID", "dob": "DOB", "ssn": "SSN", "ein": "EIN",
	"url": "URL", "uuid": "UUID", "po": "PO", "zip": "ZIP",
}

// Label converts a normalized key back to a human-readable label:
// "date_of_birth" → "Date Of Birth", "ssn" → "SSN".
func Label(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if abbr, ok := abbreviations[p]; ok {
			parts[i] = abbr
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
