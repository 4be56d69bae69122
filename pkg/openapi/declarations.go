package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-record/pkg/resource"
)

const elementNameExtensionKey = "x-element-name"

// SourceOptions tunes document parsing.
type SourceOptions struct {
	// ResolveReferences validates the document and allows external $refs.
	ResolveReferences bool
}

// SchemaSource implements resource.AttributeSource over an OpenAPI document:
// each record kind maps to the component schema carrying its name.
type SchemaSource struct {
	spec *openapi3.T
}

var _ resource.AttributeSource = (*SchemaSource)(nil)

// NewSchemaSource parses the document with kin-openapi and indexes its
// component schemas.
func NewSchemaSource(ctx context.Context, doc Document, options SourceOptions) (*SchemaSource, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document has no component schemas")
	}

	return &SchemaSource{spec: spec}, nil
}

// Container derives markup container metadata for a kind: the x-element-name
// extension when present, otherwise the kind keeps its default name. A
// sanitized schema description travels along as a container option.
func (s *SchemaSource) Container(ctx context.Context, kind string) (resource.Container, error) {
	if err := ctx.Err(); err != nil {
		return resource.Container{}, err
	}
	ref, err := s.lookup(kind, resource.ModeDocument)
	if err != nil {
		return resource.Container{}, err
	}

	container := resource.Container{}
	if name, ok := ref.Value.Extensions[elementNameExtensionKey].(string); ok {
		container.Name = strings.TrimSpace(name)
	}
	if description := sanitizeDescription(ref.Value.Description); description != "" {
		container.Options = map[string]any{"description": description}
	}
	return container, nil
}

// Attributes resolves the ordered attribute declarations for a kind.
// Property names sort lexically so declaration order is deterministic
// regardless of document parsing order.
func (s *SchemaSource) Attributes(ctx context.Context, kind string, mode resource.Mode) ([]resource.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ref, err := s.lookup(kind, mode)
	if err != nil {
		return nil, err
	}
	schema := ref.Value
	if len(schema.Properties) == 0 {
		return nil, fmt.Errorf("openapi: schema %q declares no properties", kind)
	}

	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	declarations := make([]resource.Declaration, 0, len(names))
	for _, name := range names {
		decl, err := declarationFor(name, schema.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: schema %q property %q: %w", kind, name, err)
		}
		_, decl.Required = requiredSet[name]
		declarations = append(declarations, decl)
	}
	return declarations, nil
}

// lookup resolves the component schema backing a kind. Complex-type mode
// prefers a "<Kind>Type" component, falling back to the bare kind name.
func (s *SchemaSource) lookup(kind string, mode resource.Mode) (*openapi3.SchemaRef, error) {
	if mode == resource.ModeComplexType {
		if ref, ok := s.spec.Components.Schemas[kind+"Type"]; ok && ref != nil && ref.Value != nil {
			return ref, nil
		}
	}
	ref, ok := s.spec.Components.Schemas[kind]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: no component schema for kind %q", kind)
	}
	return ref, nil
}

func declarationFor(name string, ref *openapi3.SchemaRef) (resource.Declaration, error) {
	if ref == nil {
		return resource.Declaration{}, errors.New("schema reference is nil")
	}

	decl := resource.Declaration{Name: name}
	if ref.Ref != "" {
		decl.Type = resource.TypeResource
		decl.Options = map[string]any{resource.OptionClassName: refName(ref.Ref)}
		return decl, nil
	}
	if ref.Value == nil {
		return resource.Declaration{}, errors.New("schema value is nil")
	}

	schema := ref.Value
	switch firstSchemaType(schema.Type) {
	case "array":
		if schema.Items == nil {
			return resource.Declaration{}, errors.New("array schema must define items")
		}
		item, err := declarationFor(name, schema.Items)
		if err != nil {
			return resource.Declaration{}, err
		}
		decl.Type = item.Type
		decl.Options = item.Options
		if decl.Options == nil {
			decl.Options = make(map[string]any, 2)
		}
		decl.Options[resource.OptionCollection] = true
		if schema.Items.Value != nil && schema.Items.Value.Title != "" {
			decl.Options[resource.OptionElementName] = schema.Items.Value.Title
		}
		return decl, nil
	case "object", "":
		decl.Type = resource.TypeResource
		if schema.Title != "" {
			decl.Options = map[string]any{resource.OptionClassName: schema.Title}
		}
		return decl, nil
	case "integer":
		decl.Type = resource.TypeInteger
	case "number":
		decl.Type = resource.TypeFloat
	case "boolean":
		decl.Type = resource.TypeBoolean
	default:
		switch schema.Format {
		case "date":
			decl.Type = resource.TypeDate
		case "date-time":
			decl.Type = resource.TypeDateTime
		default:
			decl.Type = resource.TypeString
		}
	}
	return decl, nil
}

func refName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
