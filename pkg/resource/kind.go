package resource

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Declaration-time failures. These fail fast: a kind whose declaration
// errored must not be instantiated.
var (
	ErrAttributeNameRequired = errors.New("resource: attribute name is required")
	ErrUnknownType           = errors.New("resource: unknown attribute type")
	ErrDuplicateAttribute    = errors.New("resource: attribute already declared")
	ErrUnresolvedKind        = errors.New("resource: unresolved nested kind")
)

// Allowed keys of the attribute option map.
const (
	OptionClassName   = "class_name"
	OptionCollection  = "collection"
	OptionElementName = "collection_element_name"
)

// Kind is the declared schema identity of a record: an ordered attribute
// registry plus container metadata and validation rules. Declare everything
// up front; kinds are read-only once records exist.
type Kind struct {
	registry    *Registry
	name        string
	order       []string
	descriptors map[string]Descriptor
	container   Container
	rules       []Rule
}

// Name returns the kind identifier used in the registry.
func (k *Kind) Name() string {
	return k.name
}

// Registry returns the registry the kind was defined against.
func (k *Kind) Registry() *Registry {
	return k.registry
}

// Declare registers an attribute from an option map, the form bulk
// declaration sources use. Allowed option keys are class_name, collection and
// collection_element_name; anything else is a declaration error naming the
// offending keys. Re-declaring a name is an explicit error.
func (k *Kind) Declare(name string, typ Type, options map[string]any) error {
	if name == "" {
		return fmt.Errorf("%w (kind %q)", ErrAttributeNameRequired, k.name)
	}
	if _, exists := k.descriptors[name]; exists {
		return fmt.Errorf("%w: %q on kind %q", ErrDuplicateAttribute, name, k.name)
	}
	if err := checkOptionKeys(options); err != nil {
		return fmt.Errorf("resource: kind %q attribute %q: %w", k.name, name, err)
	}

	desc := Descriptor{Name: name, Type: typ}
	if collection, ok := options[OptionCollection].(bool); ok {
		desc.Collection = collection
	}
	if element, ok := options[OptionElementName].(string); ok {
		desc.ElementName = element
	}

	if typ == TypeResource {
		className, _ := options[OptionClassName].(string)
		if className == "" {
			className = classify(name)
		}
		nested, ok := k.registry.Kind(className)
		if !ok {
			return fmt.Errorf("%w: %q for attribute %q on kind %q", ErrUnresolvedKind, className, name, k.name)
		}
		desc.Kind = nested
	} else if !k.registry.caster.Known(typ) {
		return fmt.Errorf("%w: %q for attribute %q on kind %q", ErrUnknownType, typ, name, k.name)
	}

	k.order = append(k.order, name)
	k.descriptors[name] = desc
	return nil
}

// AttributeOption builds one entry of the Declare option map.
type AttributeOption func(map[string]any)

// ClassName pins the nested kind a resource attribute resolves to.
func ClassName(name string) AttributeOption {
	return func(options map[string]any) {
		options[OptionClassName] = name
	}
}

// Collection marks the attribute as a sequence of its declared type.
func Collection() AttributeOption {
	return func(options map[string]any) {
		options[OptionCollection] = true
	}
}

// ElementName sets the markup element name used for collection entries.
func ElementName(name string) AttributeOption {
	return func(options map[string]any) {
		options[OptionElementName] = name
	}
}

// Attribute is the functional-option form of Declare for Go callers.
func (k *Kind) Attribute(name string, typ Type, options ...AttributeOption) error {
	opts := make(map[string]any, len(options))
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}
	return k.Declare(name, typ, opts)
}

// MustAttribute panics on declaration failure. Returns the kind so
// declaration blocks chain naturally.
func (k *Kind) MustAttribute(name string, typ Type, options ...AttributeOption) *Kind {
	if err := k.Attribute(name, typ, options...); err != nil {
		panic(err)
	}
	return k
}

// SetContainer overrides the markup container metadata. Options are opaque
// here; renderers decide what they mean.
func (k *Kind) SetContainer(name string, options map[string]any) {
	if name == "" {
		name = underscore(k.name)
	}
	k.container = Container{Name: name, Options: options}
}

// Container returns the markup container metadata, defaulting to the kind's
// own underscored name.
func (k *Kind) Container() Container {
	return k.container
}

// AttributeNames returns the attribute names in declaration order.
func (k *Kind) AttributeNames() []string {
	return append([]string(nil), k.order...)
}

// Mappings returns a copy of the descriptor table keyed by attribute name.
func (k *Kind) Mappings() map[string]Descriptor {
	out := make(map[string]Descriptor, len(k.descriptors))
	for name, desc := range k.descriptors {
		out[name] = desc
	}
	return out
}

// Descriptor looks up a single attribute descriptor.
func (k *Kind) Descriptor(name string) (Descriptor, bool) {
	desc, ok := k.descriptors[name]
	return desc, ok
}

// Describe renders a human-readable "name: type" summary in declaration
// order, bracketing collections.
func (k *Kind) Describe() string {
	var b strings.Builder
	b.WriteString(k.name)
	b.WriteString(":")
	for _, name := range k.order {
		desc := k.descriptors[name]
		label := string(desc.Type)
		if desc.Kind != nil {
			label = desc.Kind.name
		}
		if desc.Collection {
			label = "[" + label + "]"
		}
		fmt.Fprintf(&b, "\n  %s: %s", name, label)
	}
	return b.String()
}

func checkOptionKeys(options map[string]any) error {
	if len(options) == 0 {
		return nil
	}
	var offending []string
	for key := range options {
		switch key {
		case OptionClassName, OptionCollection, OptionElementName:
		default:
			offending = append(offending, key)
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)
	return fmt.Errorf("disallowed option keys: %s", strings.Join(offending, ", "))
}

// classify derives a kind name from an attribute name: snake/kebab segments
// and camel boundaries become title-cased and joined, so "line_item" and
// "lineItem" both resolve to "LineItem".
func classify(name string) string {
	var words []string
	for _, chunk := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		words = append(words, splitCamel(chunk)...)
	}

	var b strings.Builder
	for _, word := range words {
		lower := strings.ToLower(word)
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

// underscore is the inverse used for default container and element names:
// "LineItem" becomes "line_item".
func underscore(name string) string {
	var parts []string
	for _, chunk := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}) {
		for _, word := range splitCamel(chunk) {
			parts = append(parts, strings.ToLower(word))
		}
	}
	return strings.Join(parts, "_")
}

func splitCamel(input string) []string {
	if input == "" {
		return nil
	}
	var words []string
	start := 0
	runes := []rune(input)
	for i := 1; i < len(runes); i++ {
		if isLower(runes[i-1]) && isUpper(runes[i]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
