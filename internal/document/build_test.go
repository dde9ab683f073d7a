package document

import (
	"testing"

	"github.com/docflow/docflow/internal/catalog"
	"github.com/docflow/docflow/internal/keys"
)

func twoSectionFixture() ([]catalog.Field, []catalog.Section) {
	fields := []catalog.Field{
		{Label: "Full Name", Type: catalog.TypeText, Section: "a"},
		{Label: "Email", Type: catalog.TypeEmail, Section: "a"},
		{Label: "Notes", Type: catalog.TypeLongText, Section: "b"},
	}
	sections := []catalog.Section{
		{ID: "a", Title: "Applicant"},
		{ID: "b", Title: "Background"},
	}
	return fields, sections
}

func TestBuild_TwoSections(t *testing.T) {
	fields, sections := twoSectionFixture()
	doc := Build(fields, sections)

	order := doc.SectionOrder()
	if len(order) != 2 {
		t.Fatalf("_keyOrder length = %d, want 2", len(order))
	}
	if order[0] != "a" || order[1] != "b" {
		t.Errorf("_keyOrder = %v, want [a b]", order)
	}

	secA, ok := doc.Section("a")
	if !ok {
		t.Fatal("section a missing")
	}
	for _, fk := range []string{"full_name", "email"} {
		v, present := secA[fk]
		if !present {
			t.Errorf("section a missing field %q", fk)
		}
		if v != nil {
			t.Errorf("field %q seeded with %v, want nil", fk, v)
		}
	}

	if fo := doc.FieldOrder("a"); len(fo) != 2 {
		t.Errorf("_a_fieldOrder length = %d, want 2", len(fo))
	}
	if fo := doc.FieldOrder("b"); len(fo) != 1 {
		t.Errorf("_b_fieldOrder length = %d, want 1", len(fo))
	}
}

func TestBuild_LeafCountMatchesFieldCount(t *testing.T) {
	fields := []catalog.Field{
		{Label: "Name", Section: "a"},
		{Label: "Name", Section: "a"}, // collides, must disambiguate not drop
		{Label: "History", Type: catalog.TypeTable, Section: "b", Columns: []string{"Year", "Event"}},
		{Label: "Consent", Type: catalog.TypeCheckbox, Section: "b"},
		{Label: "Signature", Type: catalog.TypeSignature, Section: "b"},
		{Label: "Stray", Section: "nowhere"},
	}
	sections := []catalog.Section{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	doc := Build(fields, sections)
	if got := doc.LeafCount(); got != len(fields) {
		t.Errorf("LeafCount = %d, want %d", got, len(fields))
	}
}

func TestBuild_SuffixedLabelCollisionKeepsEveryField(t *testing.T) {
	// "Phone 2" normalizes to the same key the second "Phone" is suffixed
	// into; all three fields must survive under distinct keys.
	fields := []catalog.Field{
		{Label: "Phone", Section: "a"},
		{Label: "Phone", Section: "a"},
		{Label: "Phone 2", Section: "a"},
	}
	sections := []catalog.Section{{ID: "a", Title: "A"}}

	doc := Build(fields, sections)
	if got := doc.LeafCount(); got != len(fields) {
		t.Errorf("LeafCount = %d, want %d", got, len(fields))
	}
	sec, _ := doc.Section("a")
	for _, fk := range []string{"phone", "phone_2", "phone_2_2"} {
		if _, ok := sec[fk]; !ok {
			t.Errorf("section a missing field %q", fk)
		}
	}
}

func TestBuild_UnresolvableSectionFallsToGeneral(t *testing.T) {
	fields := []catalog.Field{
		{Label: "Known", Section: "a"},
		{Label: "Orphan", Section: "ghost"},
	}
	sections := []catalog.Section{{ID: "a", Title: "A"}}

	doc := Build(fields, sections)
	order := doc.SectionOrder()
	if len(order) != 2 || order[1] != "general" {
		t.Fatalf("_keyOrder = %v, want general trailing", order)
	}
	gen, ok := doc.Section("general")
	if !ok {
		t.Fatal("general section missing")
	}
	if _, ok := gen["orphan"]; !ok {
		t.Error("orphan field not bucketed into general")
	}
}

func TestBuild_NoSectionsSynthesizesGeneral(t *testing.T) {
	doc := Build([]catalog.Field{{Label: "Only"}}, nil)
	if _, ok := doc.Section("general"); !ok {
		t.Fatal("expected synthesized general section")
	}
	if order := doc.SectionOrder(); len(order) != 1 || order[0] != "general" {
		t.Errorf("_keyOrder = %v", order)
	}
}

func TestBuild_SeedShapes(t *testing.T) {
	fields := []catalog.Field{
		{Label: "History", Type: catalog.TypeTable, Section: "s", Columns: []string{"Year", "Event"}},
		{Label: "Bare Table", Type: catalog.TypeTable, Section: "s"},
		{Label: "Days", Type: catalog.TypeCheckbox, Section: "s"},
		{Label: "Signed", Type: catalog.TypeSignature, Section: "s"},
	}
	doc := Build(fields, []catalog.Section{{ID: "s", Title: "S"}})
	sec, _ := doc.Section("s")

	rows, ok := sec["history"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("history = %#v, want one blank row", sec["history"])
	}
	row := rows[0].(map[string]any)
	if len(row) != 2 {
		t.Errorf("history row has %d columns, want 2", len(row))
	}
	if _, ok := sec[keys.ColumnOrderKey("history")]; !ok {
		t.Error("history column order metadata missing")
	}

	bare := sec["bare_table"].([]any)[0].(map[string]any)
	if len(bare) != 2 {
		t.Errorf("placeholder table row has %d columns, want 2", len(bare))
	}

	if cb, ok := sec["days"].([]any); !ok || len(cb) != 0 {
		t.Errorf("days = %#v, want empty array", sec["days"])
	}

	sig, ok := sec["signed"].([]any)
	if !ok || len(sig) != 1 {
		t.Fatalf("signed = %#v, want one placeholder record", sec["signed"])
	}
	if _, ok := sig[0].(map[string]any)["label"]; !ok {
		t.Error("signature placeholder missing label")
	}
}

func TestRebuild_PreservesStoredValues(t *testing.T) {
	fields, sections := twoSectionFixture()
	prev := Build(fields, sections)
	secA, _ := prev.Section("a")
	secA["full_name"] = "Grace Hopper"

	doc := Rebuild(fields, sections, prev)
	got, _ := doc.Section("a")
	if got["full_name"] != "Grace Hopper" {
		t.Errorf("full_name = %v, want preserved value", got["full_name"])
	}
}

func TestRebuild_NewFieldSeeded(t *testing.T) {
	fields, sections := twoSectionFixture()
	prev := Build(fields, sections)

	fields = append(fields, catalog.Field{Label: "Phone", Type: catalog.TypePhone, Section: "a"})
	doc := Rebuild(fields, sections, prev)

	sec, _ := doc.Section("a")
	if _, ok := sec["phone"]; !ok {
		t.Fatal("new field not added")
	}
	fo := doc.FieldOrder("a")
	if len(fo) != 3 {
		t.Errorf("_a_fieldOrder = %v, want 3 entries", fo)
	}
}

func TestRebuild_RetainsUndeclaredBranches(t *testing.T) {
	fields, sections := twoSectionFixture()
	prev := Build(fields, sections)
	secB, _ := prev.Section("b")
	secB["legacy_field"] = "kept"
	prev["legacy_section"] = map[string]any{"old": true}

	// Drop section b from the declarations entirely.
	doc := Rebuild(fields[:2], sections[:1], prev)

	if b, ok := doc.Section("b"); !ok || b["legacy_field"] != "kept" {
		t.Error("undeclared section b was dropped")
	}
	if _, ok := doc.Section("legacy_section"); !ok {
		t.Error("legacy_section was dropped")
	}

	order := doc.SectionOrder()
	if order[0] != "a" {
		t.Errorf("_keyOrder = %v, want a first", order)
	}
	if len(order) != 3 {
		t.Errorf("_keyOrder = %v, want 3 entries", order)
	}
}

func TestOrderedKeys_SubsetAnnotationAppendsRestSorted(t *testing.T) {
	m := map[string]any{
		"delta":       1,
		"alpha":       2,
		"charlie":     3,
		"bravo":       4,
		"_keyOrder":   []any{"charlie"},
		"_meta_extra": []any{},
	}
	// Annotation covers a proper subset: annotated keys lead in annotation
	// order, unannotated keys follow sorted, metadata never appears.
	got := OrderedKeys(m, []string{"charlie", "missing"})
	want := []string{"charlie", "alpha", "bravo", "delta"}
	if len(got) != len(want) {
		t.Fatalf("OrderedKeys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OrderedKeys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateSubmission(t *testing.T) {
	fields := []catalog.Field{{Label: "X"}}
	if err := ValidateSubmission("ok", fields); err != nil {
		t.Errorf("valid submission rejected: %v", err)
	}
	if err := ValidateSubmission("   ", fields); err == nil {
		t.Error("blank title accepted")
	}
	if err := ValidateSubmission("ok", nil); err == nil {
		t.Error("zero fields accepted")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	fields, sections := twoSectionFixture()
	doc := Build(fields, sections)

	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got, want := back.LeafCount(), doc.LeafCount(); got != want {
		t.Errorf("LeafCount after round trip = %d, want %d", got, want)
	}
	if got := back.SectionOrder(); len(got) != 2 || got[0] != "a" {
		t.Errorf("SectionOrder after round trip = %v", got)
	}
}

func TestDecode_Empty(t *testing.T) {
	d, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode(nil): %v", err)
	}
	if len(d) != 0 {
		t.Errorf("Decode(nil) = %v, want empty", d)
	}
}
