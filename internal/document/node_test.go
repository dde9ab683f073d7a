package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docflow/docflow/internal/catalog"
)

func TestClassify_Scalars(t *testing.T) {
	for _, v := range []any{nil, "text", true, 3.14, 42} {
		n := Classify("field", v, "")
		s, ok := n.(Scalar)
		require.True(t, ok, "Classify(%v)", v)
		assert.Equal(t, v, s.Value)
	}
}

func TestClassify_TypedField(t *testing.T) {
	n := Classify("status", map[string]any{
		"type":    "select",
		"value":   "open",
		"options": []any{"open", "closed"},
	}, "")
	tf, ok := n.(TypedField)
	require.True(t, ok)
	assert.Equal(t, catalog.TypeSelect, tf.Type)
	assert.Equal(t, "open", tf.Value)
	assert.Equal(t, []string{"open", "closed"}, tf.Options)
}

func TestClassify_UntaggedRecordIsSection(t *testing.T) {
	n := Classify("employer", map[string]any{"name": "ACME", "city": "Lyon"}, "")
	sec, ok := n.(Section)
	require.True(t, ok)
	assert.Len(t, sec.Fields, 2)
}

func TestClassify_RecordWithTypeButNoValueIsSection(t *testing.T) {
	// "type" alone is a legitimate data key; only the tagged pair
	// {type, value} marks a typed leaf.
	n := Classify("vehicle", map[string]any{"type": "sedan", "seats": 5.0}, "")
	_, ok := n.(Section)
	assert.True(t, ok)
}

func TestClassify_UnknownShapeDegradesToScalar(t *testing.T) {
	n := Classify("weird", complex(1, 2), "")
	_, ok := n.(Scalar)
	assert.True(t, ok)
}

func TestClassifyArray_AllRecordsIsTable(t *testing.T) {
	n := Classify("dependents", []any{
		map[string]any{"name": "a", "age": 4.0},
		map[string]any{"name": "b", "age": 9.0},
	}, "")
	tbl, ok := n.(Table)
	require.True(t, ok)
	assert.Len(t, tbl.Rows, 2)
}

func TestClassifyArray_EmptyIsCheckboxSet(t *testing.T) {
	n := Classify("allergies", []any{}, "")
	cb, ok := n.(CheckboxSet)
	require.True(t, ok)
	assert.Empty(t, cb.Selected)
}

func TestClassifyArray_AllScalarIsCheckboxSet(t *testing.T) {
	n := Classify("days", []any{"mon", "wed"}, "")
	cb, ok := n.(CheckboxSet)
	require.True(t, ok)
	assert.Equal(t, []any{"mon", "wed"}, cb.Selected)
}

func TestClassifyArray_CatalogCheckboxOverridesShape(t *testing.T) {
	// Shape alone says table; an explicit catalog checkbox wins.
	n := Classify("consent", []any{
		map[string]any{"ticked": true},
		map[string]any{"ticked": false},
	}, catalog.TypeCheckbox)
	_, ok := n.(CheckboxSet)
	assert.True(t, ok)
}

func TestClassifyArray_SignatureSet(t *testing.T) {
	rows := []any{
		map[string]any{"label": "Applicant", "x": 10.0, "y": 20.0, "signed_at": nil},
	}
	n := Classify("applicant_signature", rows, "")
	_, ok := n.(SignatureSet)
	require.True(t, ok)

	// Same shape under a non-signature key stays a table.
	n = Classify("coordinates", rows, "")
	_, ok = n.(Table)
	assert.True(t, ok)
}

func TestClassifyArray_MixedResolvesToTable(t *testing.T) {
	n := Classify("mixed", []any{"stray", map[string]any{"col": 1.0}}, "")
	tbl, ok := n.(Table)
	require.True(t, ok)
	assert.Len(t, tbl.Rows, 1)
}

func TestCollapseDegenerateRows(t *testing.T) {
	n := Classify("transposed", []any{
		map[string]any{"first_name": "Ada"},
		map[string]any{"last_name": "Lovelace"},
		map[string]any{"born": "1815"},
	}, "")
	tbl, ok := n.(Table)
	require.True(t, ok)
	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Rows[0], 3)
	assert.Equal(t, "Ada", tbl.Rows[0]["first_name"])
}

func TestCollapseDegenerateRows_NormalRowsUntouched(t *testing.T) {
	n := Classify("rows", []any{
		map[string]any{"a": 1.0, "b": 2.0},
		map[string]any{"a": 3.0},
	}, "")
	tbl, ok := n.(Table)
	require.True(t, ok)
	assert.Len(t, tbl.Rows, 2)
}

func TestTableColumns_UnionAcrossRows(t *testing.T) {
	rows := []map[string]any{
		{"a": 1.0, "b": 2.0},
		{"b": 3.0, "c": 4.0},
	}
	assert.Equal(t, []string{"a", "b", "c"}, TableColumns(rows, nil))
	// Annotated order leads; leftovers append sorted.
	assert.Equal(t, []string{"c", "b", "a"}, TableColumns(rows, []string{"c", "b", "a"}))
	assert.Equal(t, []string{"b", "a", "c"}, TableColumns(rows, []string{"b", "missing"}))
}
