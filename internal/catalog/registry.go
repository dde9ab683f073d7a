package catalog

// Registry holds the loaded templates keyed by name.
type Registry struct {
	templates []Template
	byName    map[string]int
}

// NewRegistry indexes templates by name. On duplicate names the first wins.
func NewRegistry(templates []Template) *Registry {
	r := &Registry{
		templates: templates,
		byName:    make(map[string]int, len(templates)),
	}
	for i, t := range templates {
		if _, ok := r.byName[t.Name]; !ok {
			r.byName[t.Name] = i
		}
	}
	return r
}

// Templates returns the loaded templates in declaration order.
func (r *Registry) Templates() []Template {
	if r == nil {
		return nil
	}
	return r.templates
}

// Get returns the template with the given name.
func (r *Registry) Get(name string) (Template, bool) {
	if r == nil {
		return Template{}, false
	}
	i, ok := r.byName[name]
	if !ok {
		return Template{}, false
	}
	return r.templates[i], true
}

// CatalogFor returns the catalog for a template name. Unknown or empty names
// get the empty catalog, so documents saved without a template still render.
func (r *Registry) CatalogFor(name string) *Catalog {
	if t, ok := r.Get(name); ok {
		return t.Catalog()
	}
	return Empty()
}
