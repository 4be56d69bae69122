package resource

import (
	"fmt"
	"reflect"
)

// Record is a constructed instance of a Kind. Stored values form a closed
// set: primitives as produced by the caster, *Record for nested resources,
// or []any of those for collections. Records are plain mutable state owned
// by a single logical writer; concurrent mutation needs external
// synchronization.
type Record struct {
	kind   *Kind
	values map[string]any
}

// New constructs a record and bulk-assigns the initial values. Unknown keys
// are ignored per the SetAttributes overlay policy; cast failures abort
// construction.
func (k *Kind) New(initial map[string]any) (*Record, error) {
	rec := &Record{
		kind:   k,
		values: make(map[string]any, len(k.order)),
	}
	if len(initial) > 0 {
		if _, err := rec.SetAttributes(initial); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// MustNew panics when construction fails. Fixture helper.
func (k *Kind) MustNew(initial map[string]any) *Record {
	rec, err := k.New(initial)
	if err != nil {
		panic(err)
	}
	return rec
}

// Kind returns the schema the record conforms to.
func (r *Record) Kind() *Kind {
	return r.kind
}

// Get returns the stored value for a declared attribute. Unset collection
// attributes read as an empty sequence, never nil, so callers do not guard
// collection access. Unset scalars read as nil.
func (r *Record) Get(name string) any {
	value, ok := r.values[name]
	if ok && value != nil {
		return value
	}
	if desc, declared := r.kind.descriptors[name]; declared && desc.Collection {
		return []any{}
	}
	return nil
}

// Set coerces raw through the registered caster and replaces any prior value.
// There are no merge semantics; collections are cast element-wise.
func (r *Record) Set(name string, raw any) error {
	desc, ok := r.kind.descriptors[name]
	if !ok {
		return fmt.Errorf("resource: kind %q has no attribute %q", r.kind.name, name)
	}
	value, err := r.castValue(desc, raw)
	if err != nil {
		return err
	}
	r.values[name] = value
	return nil
}

// Attributes produces a full shallow snapshot: every declared attribute name
// mapped to its current getter value. Nested records appear as themselves.
func (r *Record) Attributes() map[string]any {
	out := make(map[string]any, len(r.kind.order))
	for _, name := range r.kind.order {
		out[name] = r.Get(name)
	}
	return out
}

// SetAttributes bulk-assigns from source and returns the resulting snapshot.
// When source exposes an attribute snapshot itself (another record), that
// snapshot is the input map. Keys that match declared attributes route
// through the setter; unknown keys are silently ignored, a deliberate
// overlay-merge policy for loosely-shaped input. Assignment happens in
// declaration order; a cast failure aborts mid-way with earlier assignments
// retained.
//
// Nested records arriving in the input are stored as-is, not copied, so a
// record built from another record's snapshot shares its nested instances.
// Callers needing disjoint trees must rebuild nested records from their own
// snapshots.
func (r *Record) SetAttributes(source any) (map[string]any, error) {
	var input map[string]any
	switch src := source.(type) {
	case nil:
		return r.Attributes(), nil
	case AttributeProvider:
		input = src.Attributes()
	case map[string]any:
		input = src
	default:
		return nil, fmt.Errorf("resource: cannot assign attributes from %T", source)
	}

	for _, name := range r.kind.order {
		raw, present := input[name]
		if !present {
			continue
		}
		if err := r.Set(name, raw); err != nil {
			return nil, err
		}
	}
	return r.Attributes(), nil
}

// NestedResources returns every directly-nested record in attribute
// declaration order, flattening collections and dropping unset entries.
func (r *Record) NestedResources() []*Record {
	var nested []*Record
	for _, name := range r.kind.order {
		desc := r.kind.descriptors[name]
		if desc.Type != TypeResource {
			continue
		}
		switch value := r.values[name].(type) {
		case *Record:
			if value != nil {
				nested = append(nested, value)
			}
		case []any:
			for _, element := range value {
				if rec, ok := element.(*Record); ok && rec != nil {
					nested = append(nested, rec)
				}
			}
		}
	}
	return nested
}

// RenderMarkup delegates to the registry's markup renderer.
func (r *Record) RenderMarkup() (string, error) {
	renderer := r.kind.registry.renderer
	if renderer == nil {
		return "", fmt.Errorf("resource: kind %q registry has no markup renderer", r.kind.name)
	}
	return renderer.Render(r)
}

// castValue routes a raw value through the caster: once for scalars,
// element-wise for collections with order preserved. A nil raw stores as
// explicit absence without touching the caster.
func (r *Record) castValue(desc Descriptor, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	caster := r.kind.registry.caster
	if !desc.Collection {
		return caster.Cast(raw, desc.Type, desc.Kind)
	}

	elements, err := sequenceOf(raw)
	if err != nil {
		return nil, &CastError{Type: desc.Type, Value: raw, Cause: err}
	}
	out := make([]any, 0, len(elements))
	for _, element := range elements {
		if element == nil {
			out = append(out, nil)
			continue
		}
		value, err := caster.Cast(element, desc.Type, desc.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// sequenceOf normalizes any slice or array into []any so collection input
// can arrive as []map[string]any, []string, and friends.
func sequenceOf(raw any) ([]any, error) {
	if elements, ok := raw.([]any); ok {
		return elements, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a sequence, got %T", raw)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
