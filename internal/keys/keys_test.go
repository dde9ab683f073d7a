package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"  Date of Birth  ", "date_of_birth"},
		{"Email -- Address!!", "email_address"},
		{"already_normal", "already_normal"},
		{"__leading__", "leading"},
		{"UPPER CASE", "upper_case"},
		{"Témoin (2)", "t_moin_2"},
		{"", "field"},
		{"!!!", "field"},
		{"_keyOrder", "keyorder"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Name", "  Date of Birth  ", "a--b", "", "Page 1", "x_2"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestNormalize_NeverMetaPrefixed(t *testing.T) {
	for _, in := range []string{"_keyOrder", "__hidden", "_a_fieldOrder", "_"} {
		assert.False(t, IsMeta(Normalize(in)), "Normalize(%q) = %q", in, Normalize(in))
	}
}

func TestDisambiguate(t *testing.T) {
	got := Disambiguate([]string{"Name", "Name", "Email"})
	assert.Equal(t, []string{"name", "name_2", "email"}, got)
}

func TestDisambiguate_ManyCollisions(t *testing.T) {
	got := Disambiguate([]string{"A", "a", "A!", "b", "a"})
	assert.Equal(t, []string{"a", "a_2", "a_3", "b", "a_4"}, got)
}

func TestDisambiguate_LabelCollidesWithSuffixedForm(t *testing.T) {
	// "Phone 2" normalizes to the key the second "Phone" was already
	// suffixed into; the counter must skip past it.
	got := Disambiguate([]string{"Phone", "Phone", "Phone 2"})
	assert.Equal(t, []string{"phone", "phone_2", "phone_2_2"}, got)

	// Same collision with the suffixed form arriving first.
	got = Disambiguate([]string{"Phone 2", "Phone", "Phone"})
	assert.Equal(t, []string{"phone_2", "phone", "phone_3"}, got)

	seen := map[string]bool{}
	for _, k := range got {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestStripPageSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ssn_page_1", "ssn"},
		{"Name page 1", "Name"},
		{"Name Page 12", "Name"},
		{"page_turner", "page_turner"},
		{"homepage", "homepage"},
		{"notes", "notes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripPageSuffix(tt.in), "StripPageSuffix(%q)", tt.in)
	}
}

func TestMatchKey(t *testing.T) {
	assert.Equal(t, "ssn", MatchKey("SSN Page 2"))
	assert.Equal(t, "date_of_birth", MatchKey("date_of_birth_page_1"))
}

func TestMetaKeys(t *testing.T) {
	assert.Equal(t, "_applicant_fieldOrder", FieldOrderKey("applicant"))
	assert.Equal(t, "_dependents_columnOrder", ColumnOrderKey("dependents"))
	assert.True(t, IsMeta(KeyOrder))
	assert.True(t, IsMeta(FieldOrderKey("x")))
	assert.False(t, IsMeta("name"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Date Of Birth", Label("date_of_birth"))
	assert.Equal(t, "SSN", Label("ssn"))
	assert.Equal(t, "Employee ID", Label("employee_id"))
}
