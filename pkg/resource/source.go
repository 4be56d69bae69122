package resource

import (
	"context"
	"fmt"
)

// Mode selects which face of an external schema a source resolves:
// a document (root element with container metadata) or a bare complex type.
type Mode string

const (
	ModeDocument    Mode = "document"
	ModeComplexType Mode = "complex-type"
)

// Declaration is one attribute declaration produced by an external schema
// source. Options uses the Declare option keys; Required asks the registrar
// to add a presence rule alongside the attribute.
type Declaration struct {
	Name     string
	Type     Type
	Options  map[string]any
	Required bool
}

// AttributeSource resolves record kinds against an external schema
// description (an OpenAPI document, a YAML kind definition, an XSD-like
// schema). Implementations live outside this package; the engine only
// consumes resolved declaration lists.
type AttributeSource interface {
	// Container returns the markup container metadata for a kind. Consulted
	// only in document mode.
	Container(ctx context.Context, kind string) (Container, error)
	// Attributes returns the ordered attribute declarations for a kind.
	Attributes(ctx context.Context, kind string, mode Mode) ([]Declaration, error)
}

// DeclareFromDocumentSchema declares the kind from the source's document-mode
// view: container metadata is applied first, then every returned attribute,
// with presence rules for declarations marked required.
func (k *Kind) DeclareFromDocumentSchema(ctx context.Context, src AttributeSource) error {
	container, err := src.Container(ctx, k.name)
	if err != nil {
		return fmt.Errorf("resource: kind %q: resolve container: %w", k.name, err)
	}
	if container.Name != "" || container.Options != nil {
		k.SetContainer(container.Name, container.Options)
	}
	return k.declareFromSource(ctx, src, ModeDocument)
}

// DeclareFromComplexTypeSchema declares the kind from the source's
// complex-type view. No container override is applied.
func (k *Kind) DeclareFromComplexTypeSchema(ctx context.Context, src AttributeSource) error {
	return k.declareFromSource(ctx, src, ModeComplexType)
}

func (k *Kind) declareFromSource(ctx context.Context, src AttributeSource, mode Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	declarations, err := src.Attributes(ctx, k.name, mode)
	if err != nil {
		return fmt.Errorf("resource: kind %q: resolve attributes: %w", k.name, err)
	}
	for _, decl := range declarations {
		if err := k.Declare(decl.Name, decl.Type, decl.Options); err != nil {
			return err
		}
		if decl.Required {
			k.RequirePresence(decl.Name)
		}
	}
	return nil
}
