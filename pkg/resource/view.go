package resource

import (
	"bytes"
	"encoding/json"
)

// Entry is one key/value pair of a serialized record.
type Entry struct {
	Key   string
	Value any
}

// View is the ordered key/value tree representation of a record. Nested
// records appear as their own View; collections as []any of views or
// primitives.
type View []Entry

// Get looks up an entry value by key.
func (v View) Get(key string) (any, bool) {
	for _, entry := range v {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// MarshalJSON emits the view as a JSON object preserving entry order, so
// exports stay deterministic across runs.
func (v View) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Transform rewrites one serialized entry. When supplied to
// SerializableView it takes precedence over the default nested-view
// substitution for every entry.
type Transform func(key string, value any) any

// SerializableView builds the ordered key/value tree from the attribute
// snapshot. Without a transform, nested records are replaced by their own
// serializable view recursively (collections element-wise) and primitives
// pass through unchanged. The record graph is assumed acyclic; ownership is
// a strict tree.
func (r *Record) SerializableView(transform Transform) View {
	view := make(View, 0, len(r.kind.order))
	for _, name := range r.kind.order {
		value := r.Get(name)
		if transform != nil {
			value = transform(name, value)
		} else {
			value = substituteNested(value)
		}
		view = append(view, Entry{Key: name, Value: value})
	}
	return view
}

func substituteNested(value any) any {
	switch v := value.(type) {
	case *Record:
		if v == nil {
			return nil
		}
		return v.SerializableView(nil)
	case []any:
		out := make([]any, len(v))
		for i, element := range v {
			out[i] = substituteNested(element)
		}
		return out
	default:
		return value
	}
}
