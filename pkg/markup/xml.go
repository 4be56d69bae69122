// Package markup renders records into XML documents. The renderer walks the
// kind's descriptor table: the container metadata names the root element,
// attributes render in declaration order, and collections wrap their
// elements using the declared element-name hint.
package markup

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-record/pkg/resource"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = time.RFC3339
)

// Option configures the XML renderer.
type Option func(*XML)

// WithIndent sets the per-level indent string. Empty renders the whole
// document on one line.
func WithIndent(indent string) Option {
	return func(x *XML) {
		x.indent = indent
	}
}

// WithDeclaration toggles the leading <?xml?> declaration.
func WithDeclaration(enabled bool) Option {
	return func(x *XML) {
		x.declaration = enabled
	}
}

// XML implements resource.Renderer with a structural walk over the record
// graph. Unset attributes are omitted entirely; empty collections and empty
// nested records collapse into self-closing elements.
type XML struct {
	indent      string
	declaration bool
}

var _ resource.Renderer = (*XML)(nil)

// NewXML constructs a renderer with two-space indentation and no XML
// declaration.
func NewXML(options ...Option) *XML {
	x := &XML{indent: "  "}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(x)
	}
	return x
}

// Render produces the markup document for a record, rooted at its kind's
// container element.
func (x *XML) Render(rec *resource.Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("markup: record is nil")
	}
	lines, err := x.recordLines(rec, rec.Kind().Container().Name)
	if err != nil {
		return "", err
	}
	if x.declaration {
		lines = append([]string{`<?xml version="1.0" encoding="UTF-8"?>`}, lines...)
	}
	if x.indent == "" {
		return strings.Join(lines, ""), nil
	}
	return strings.Join(lines, "\n"), nil
}

func (x *XML) recordLines(rec *resource.Record, element string) ([]string, error) {
	var inner []string
	kind := rec.Kind()
	for _, name := range kind.AttributeNames() {
		desc, _ := kind.Descriptor(name)
		value := rec.Get(name)
		if value == nil {
			continue
		}
		if desc.Collection {
			elements, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("markup: attribute %q on kind %q is not a sequence", name, kind.Name())
			}
			lines, err := x.collectionLines(desc, elements)
			if err != nil {
				return nil, err
			}
			inner = append(inner, lines...)
			continue
		}
		lines, err := x.valueLines(desc, name, value)
		if err != nil {
			return nil, err
		}
		inner = append(inner, lines...)
	}
	return x.wrap(element, inner), nil
}

func (x *XML) collectionLines(desc resource.Descriptor, elements []any) ([]string, error) {
	element := collectionElementName(desc)
	var inner []string
	for _, entry := range elements {
		if entry == nil {
			inner = append(inner, "<"+element+"/>")
			continue
		}
		lines, err := x.valueLines(desc, element, entry)
		if err != nil {
			return nil, err
		}
		inner = append(inner, lines...)
	}
	return x.wrap(desc.Name, inner), nil
}

func (x *XML) valueLines(desc resource.Descriptor, element string, value any) ([]string, error) {
	if rec, ok := value.(*resource.Record); ok {
		return x.recordLines(rec, element)
	}
	text, err := scalarText(desc.Type, value)
	if err != nil {
		return nil, err
	}
	escaped, err := escape(text)
	if err != nil {
		return nil, err
	}
	return []string{"<" + element + ">" + escaped + "</" + element + ">"}, nil
}

// wrap surrounds inner lines with an element, collapsing empty content into
// a self-closing tag.
func (x *XML) wrap(element string, inner []string) []string {
	if len(inner) == 0 {
		return []string{"<" + element + "/>"}
	}
	out := make([]string, 0, len(inner)+2)
	out = append(out, "<"+element+">")
	for _, line := range inner {
		out = append(out, x.indent+line)
	}
	return append(out, "</"+element+">")
}

func collectionElementName(desc resource.Descriptor) string {
	if desc.ElementName != "" {
		return desc.ElementName
	}
	if desc.Kind != nil {
		return desc.Kind.Container().Name
	}
	return "item"
}

func scalarText(typ resource.Type, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		if typ == resource.TypeDate {
			return v.Format(dateLayout), nil
		}
		return v.Format(datetimeLayout), nil
	default:
		return "", fmt.Errorf("markup: cannot render %T as %s", value, typ)
	}
}

func escape(text string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(text)); err != nil {
		return "", err
	}
	return b.String(), nil
}
