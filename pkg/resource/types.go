package resource

import "fmt"

// Type identifies the declared value type of an attribute. Primitive tags are
// interpreted by the configured Caster; TypeResource marks a nested record
// kind reference resolved at declaration time.
type Type string

const (
	TypeString   Type = "string"
	TypeInteger  Type = "integer"
	TypeFloat    Type = "float"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeDateTime Type = "datetime"
	TypeResource Type = "resource"
)

// Descriptor is the per-attribute metadata owned by a Kind. Immutable after
// declaration.
type Descriptor struct {
	Name       string
	Type       Type
	Kind       *Kind // resolved nested kind when Type == TypeResource
	Collection bool
	// ElementName names collection elements when rendering markup. Optional.
	ElementName string
}

// Container carries the markup container metadata of a kind. Options are
// opaque to this package and consumed by markup renderers.
type Container struct {
	Name    string
	Options map[string]any
}

// Caster coerces raw values into their declared types. Implementations must
// be deterministic and side-effect free; nested record construction happens
// when typ is TypeResource and kind names the target. Failures are reported
// as *CastError.
//
// The concrete primitive coercions live outside this package (see
// pkg/casting for the default implementation).
type Caster interface {
	// Known reports whether the type tag can be cast.
	Known(typ Type) bool
	// Cast coerces raw into typ. kind is non-nil only for TypeResource.
	Cast(raw any, typ Type, kind *Kind) (any, error)
}

// Renderer turns a record into a markup document. The engine delegates
// RenderMarkup entirely to the configured implementation, which is expected
// to read the kind's container metadata, attribute order, and descriptors.
type Renderer interface {
	Render(rec *Record) (string, error)
}

// AttributeProvider is satisfied by anything exposing a bulk attribute
// snapshot, most notably *Record. SetAttributes treats providers as the
// source map, enabling copy construction between records.
type AttributeProvider interface {
	Attributes() map[string]any
}

// CastError reports a raw value that cannot be coerced to its declared type.
// Casters return it; the engine never catches it, so malformed input
// surfaces to the caller of the setter or constructor.
type CastError struct {
	Type  Type
	Value any
	Cause error
}

func (e *CastError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resource: cannot cast %v (%T) to %s: %v", e.Value, e.Value, e.Type, e.Cause)
	}
	return fmt.Sprintf("resource: cannot cast %v (%T) to %s", e.Value, e.Value, e.Type)
}

func (e *CastError) Unwrap() error {
	return e.Cause
}
