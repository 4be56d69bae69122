package record

import (
	"context"

	"github.com/goliatone/go-record/pkg/casting"
	"github.com/goliatone/go-record/pkg/markup"
	"github.com/goliatone/go-record/pkg/resource"
	"github.com/goliatone/go-record/pkg/yamlsource"
)

// Core engine types exported via the root package for convenience.
type (
	Registry   = resource.Registry
	Kind       = resource.Kind
	Record     = resource.Record
	Descriptor = resource.Descriptor
	Result     = resource.Result
	View       = resource.View
	Transform  = resource.Transform
)

// Attribute type tags.
const (
	TypeString   = resource.TypeString
	TypeInteger  = resource.TypeInteger
	TypeFloat    = resource.TypeFloat
	TypeBoolean  = resource.TypeBoolean
	TypeDate     = resource.TypeDate
	TypeDateTime = resource.TypeDateTime
	TypeResource = resource.TypeResource
)

// Attribute declaration options re-exported for declaration blocks.
var (
	ClassName   = resource.ClassName
	Collection  = resource.Collection
	ElementName = resource.ElementName
)

// NewRegistry builds a registry with the default caster and the XML markup
// renderer, the configuration most callers want. Use resource.NewRegistry
// directly to supply custom collaborators.
func NewRegistry(options ...resource.RegistryOption) *Registry {
	opts := append([]resource.RegistryOption{resource.WithRenderer(markup.NewXML())}, options...)
	return resource.NewRegistry(casting.Default(), opts...)
}

// RegisterYAML parses a YAML kind-definition document and installs every kind
// it declares into the registry.
func RegisterYAML(ctx context.Context, reg *Registry, raw []byte) error {
	defs, err := yamlsource.Parse(raw)
	if err != nil {
		return err
	}
	return defs.Register(ctx, reg)
}
