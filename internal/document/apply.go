package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Clone returns a deep copy of the document. Maps and slices are copied;
// scalar leaves are shared, which is safe because leaves are never mutated
// in place.
func Clone(doc Document) Document {
	return cloneMap(doc)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ApplyPath writes a value at a dot-joined key path inside the document,
// mutating it in place. Intermediate maps are created as needed; a numeric
// segment indexes into a slice and must be in range. Returns an error when
// a segment lands on a value that cannot be descended into.
func ApplyPath(doc Document, path string, value any) error {
	segs := strings.Split(path, ".")
	if len(segs) == 0 || path == "" {
		return fmt.Errorf("empty path")
	}
	var cur any = map[string]any(doc)
	for i, seg := range segs[:len(segs)-1] {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok || next == nil {
				child := map[string]any{}
				node[seg] = child
				cur = child
				continue
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return fmt.Errorf("path %q: segment %q indexes a list", path, seg)
			}
			if idx < 0 || idx >= len(node) {
				return fmt.Errorf("path %q: index %d out of range", path, idx)
			}
			cur = node[idx]
		default:
			return fmt.Errorf("path %q: segment %q lands on a scalar", path, segs[i])
		}
	}
	last := segs[len(segs)-1]
	switch node := cur.(type) {
	case map[string]any:
		node[last] = value
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil {
			return fmt.Errorf("path %q: segment %q indexes a list", path, last)
		}
		if idx < 0 || idx >= len(node) {
			return fmt.Errorf("path %q: index %d out of range", path, idx)
		}
		node[idx] = value
	default:
		return fmt.Errorf("path %q: parent is a scalar", path)
	}
	return nil
}
