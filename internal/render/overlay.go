package render

import "sync"

// Overlay holds user edits as a flat map from dotted value path to value,
// kept disjoint from the loaded document. Writes are last-write-wins per
// path; discarding an overlay discards the edits with no side effect on the
// document it shadowed.
type Overlay struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{values: make(map[string]any)}
}

// Set records an edit for the given path.
func (o *Overlay) Set(path string, v any) {
	o.mu.Lock()
	o.values[path] = v
	o.mu.Unlock()
}

// Get returns the edited value for a path, if one was written.
func (o *Overlay) Get(path string) (any, bool) {
	o.mu.RLock()
	v, ok := o.values[path]
	o.mu.RUnlock()
	return v, ok
}

// Len returns the number of edited paths.
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.values)
}

// Export copies the overlay into a plain map for the host's draft/submit
// handling. Mutating the copy does not affect the overlay.
func (o *Overlay) Export() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}
