package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Template is one form template declared in CUE: an ordered field list and
// its section grouping.
type Template struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Fields   []Field   `json:"fields"`
}

// Catalog builds the lookup index for the template's declarations.
func (t Template) Catalog() *Catalog {
	return New(t.Fields, t.Sections)
}

// Load reads form templates from the CUE package in dir. Templates are
// declared as data under a top-level "templates" list:
//
//	templates: [{
//		name: "employment_intake"
//		title: "Employment Intake"
//		sections: [{id: "applicant", title: "Applicant"}]
//		fields: [{label: "Full Name", type: "text", section: "applicant"}]
//	}]
func Load(dir string) ([]Template, error) {
	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return nil, fmt.Errorf("no CUE instances found in %s", dir)
	}
	if insts[0].Err != nil {
		return nil, fmt.Errorf("loading templates CUE: %w", insts[0].Err)
	}

	ctx := cuecontext.New()
	val := ctx.BuildInstance(insts[0])
	if val.Err() != nil {
		return nil, fmt.Errorf("building templates CUE value: %w", val.Err())
	}

	list := val.LookupPath(cue.ParsePath("templates"))
	if !list.Exists() {
		return nil, fmt.Errorf("no top-level templates list in %s", dir)
	}

	var templates []Template
	if err := list.Decode(&templates); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}

	for ti := range templates {
		t := &templates[ti]
		if t.Name == "" {
			return nil, fmt.Errorf("template %d has no name", ti)
		}
		for fi := range t.Fields {
			f := &t.Fields[fi]
			if f.Label == "" {
				return nil, fmt.Errorf("template %q: field %d has no label", t.Name, fi)
			}
			// Unknown declared types degrade to the generic default rather
			// than failing the whole template.
			if f.Type != "" && !f.Type.Known() {
				f.Type = Generic
			}
		}
	}
	return templates, nil
}
