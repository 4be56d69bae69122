// Package yamlsource declares record kinds from YAML definition files. It is
// the hand-written counterpart to the OpenAPI source: a small document format
// listing kinds, their container metadata, and their attributes.
package yamlsource

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-record/pkg/resource"
)

// Definitions is a parsed kind-definition document. It implements
// resource.AttributeSource, and Register installs every kind it declares into
// a registry in one pass.
type Definitions struct {
	Kinds []KindDefinition `yaml:"kinds"`

	index map[string]int
}

// KindDefinition declares one record kind.
type KindDefinition struct {
	Name       string                `yaml:"name"`
	Container  ContainerDefinition   `yaml:"container"`
	Attributes []AttributeDefinition `yaml:"attributes"`
}

// ContainerDefinition overrides the kind's markup container.
type ContainerDefinition struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

// AttributeDefinition declares one attribute on a kind.
type AttributeDefinition struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	ClassName   string `yaml:"class_name"`
	Collection  bool   `yaml:"collection"`
	ElementName string `yaml:"element_name"`
	Required    bool   `yaml:"required"`
}

var _ resource.AttributeSource = (*Definitions)(nil)

// Parse decodes a kind-definition document.
func Parse(raw []byte) (*Definitions, error) {
	if len(raw) == 0 {
		return nil, errors.New("yamlsource: document is empty")
	}

	defs := &Definitions{}
	if err := yaml.Unmarshal(raw, defs); err != nil {
		return nil, fmt.Errorf("yamlsource: decode: %w", err)
	}
	if len(defs.Kinds) == 0 {
		return nil, errors.New("yamlsource: document declares no kinds")
	}

	defs.index = make(map[string]int, len(defs.Kinds))
	for i, kind := range defs.Kinds {
		if kind.Name == "" {
			return nil, fmt.Errorf("yamlsource: kind %d has no name", i)
		}
		if _, dup := defs.index[kind.Name]; dup {
			return nil, fmt.Errorf("yamlsource: kind %q declared twice", kind.Name)
		}
		defs.index[kind.Name] = i
	}
	return defs, nil
}

// Container returns the declared container metadata for a kind.
func (d *Definitions) Container(ctx context.Context, kind string) (resource.Container, error) {
	if err := ctx.Err(); err != nil {
		return resource.Container{}, err
	}
	def, err := d.lookup(kind)
	if err != nil {
		return resource.Container{}, err
	}
	return resource.Container{Name: def.Container.Name, Options: def.Container.Options}, nil
}

// Attributes returns the declared attributes for a kind in document order.
// The YAML format draws no document/complex-type distinction, so mode is
// accepted for the contract and ignored.
func (d *Definitions) Attributes(ctx context.Context, kind string, _ resource.Mode) ([]resource.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	def, err := d.lookup(kind)
	if err != nil {
		return nil, err
	}
	if len(def.Attributes) == 0 {
		return nil, fmt.Errorf("yamlsource: kind %q declares no attributes", kind)
	}

	declarations := make([]resource.Declaration, 0, len(def.Attributes))
	for _, attr := range def.Attributes {
		typ, err := attributeType(attr.Type)
		if err != nil {
			return nil, fmt.Errorf("yamlsource: kind %q attribute %q: %w", kind, attr.Name, err)
		}
		options := map[string]any{}
		if attr.ClassName != "" {
			options[resource.OptionClassName] = attr.ClassName
		}
		if attr.Collection {
			options[resource.OptionCollection] = true
		}
		if attr.ElementName != "" {
			options[resource.OptionElementName] = attr.ElementName
		}
		if len(options) == 0 {
			options = nil
		}
		declarations = append(declarations, resource.Declaration{
			Name:     attr.Name,
			Type:     typ,
			Options:  options,
			Required: attr.Required,
		})
	}
	return declarations, nil
}

// Register defines every declared kind in the registry and then declares
// their attributes. Definition runs in two phases so kinds may reference one
// another regardless of document order, including mutual recursion.
func (d *Definitions) Register(ctx context.Context, reg *resource.Registry) error {
	kinds := make([]*resource.Kind, len(d.Kinds))
	for i, def := range d.Kinds {
		kind, err := reg.Define(def.Name)
		if err != nil {
			return fmt.Errorf("yamlsource: define %q: %w", def.Name, err)
		}
		kinds[i] = kind
	}
	for _, kind := range kinds {
		if err := kind.DeclareFromDocumentSchema(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (d *Definitions) lookup(kind string) (KindDefinition, error) {
	i, ok := d.index[kind]
	if !ok {
		return KindDefinition{}, fmt.Errorf("yamlsource: kind %q not declared", kind)
	}
	return d.Kinds[i], nil
}

func attributeType(name string) (resource.Type, error) {
	switch name {
	case "string", "":
		return resource.TypeString, nil
	case "integer":
		return resource.TypeInteger, nil
	case "float", "number":
		return resource.TypeFloat, nil
	case "boolean":
		return resource.TypeBoolean, nil
	case "date":
		return resource.TypeDate, nil
	case "datetime", "date-time":
		return resource.TypeDateTime, nil
	case "resource":
		return resource.TypeResource, nil
	default:
		return "", fmt.Errorf("unknown attribute type %q", name)
	}
}
