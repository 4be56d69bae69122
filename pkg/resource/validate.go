package resource

import (
	"fmt"
	"strings"
)

// Symbolic error kinds carried by validation entries.
const (
	// ErrorKindBlank marks a required attribute with no usable value.
	ErrorKindBlank = "blank"
	// ErrorKindInvalid marks an attribute holding a failing nested resource.
	ErrorKindInvalid = "invalid"
)

// Error is a single validation failure keyed by attribute name.
type Error struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome of one validity check. It is rebuilt on every
// Validate call; records keep no hidden error state between checks.
type Result struct {
	errs []Error
}

// Valid reports whether the check passed.
func (r *Result) Valid() bool {
	return len(r.errs) == 0
}

// Errors returns every failure in the order it was recorded.
func (r *Result) Errors() []Error {
	return append([]Error(nil), r.errs...)
}

// On returns the failures recorded for one attribute.
func (r *Result) On(field string) []Error {
	var out []Error
	for _, err := range r.errs {
		if err.Field == field {
			out = append(out, err)
		}
	}
	return out
}

// Messages renders the failures as "field message" strings, trimmed and
// de-duplicated while preserving order.
func (r *Result) Messages() []string {
	var out []string
	seen := make(map[string]struct{}, len(r.errs))
	for _, err := range r.errs {
		msg := strings.TrimSpace(fmt.Sprintf("%s %s", err.Field, err.Message))
		if msg == "" {
			continue
		}
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		out = append(out, msg)
	}
	return out
}

// Rule is a native validation check registered on a kind. Rules run against
// the record itself, before any nested cascading.
type Rule func(*Record) []Error

// Validates registers a custom rule on the kind.
func (k *Kind) Validates(rule Rule) {
	if rule == nil {
		return
	}
	k.rules = append(k.rules, rule)
}

// RequirePresence registers presence rules: the named attributes must hold a
// non-nil value, a non-empty string, or a non-empty collection.
func (k *Kind) RequirePresence(names ...string) {
	for _, name := range names {
		name := name
		k.rules = append(k.rules, func(rec *Record) []Error {
			if present(rec.Get(name)) {
				return nil
			}
			return []Error{{Field: name, Kind: ErrorKindBlank, Message: "is required"}}
		})
	}
}

func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// Validate runs the kind's native rules and, when they pass, cascades into
// every nested resource. A failing nested record folds into the parent
// result under the attribute that holds it, kind "invalid", its own messages
// joined by ", ". The root result is the single place callers inspect.
func (r *Record) Validate() *Result {
	result := &Result{}
	for _, rule := range r.kind.rules {
		result.errs = append(result.errs, rule(r)...)
	}
	if !result.Valid() {
		return result
	}

	for _, name := range r.kind.order {
		desc := r.kind.descriptors[name]
		if desc.Type != TypeResource {
			continue
		}
		for _, nested := range nestedAt(r, name) {
			nestedResult := nested.Validate()
			if nestedResult.Valid() {
				continue
			}
			result.errs = append(result.errs, Error{
				Field:   name,
				Kind:    ErrorKindInvalid,
				Message: strings.Join(nestedResult.Messages(), ", "),
			})
		}
	}
	return result
}

func nestedAt(r *Record, name string) []*Record {
	var out []*Record
	switch value := r.values[name].(type) {
	case *Record:
		if value != nil {
			out = append(out, value)
		}
	case []any:
		for _, element := range value {
			if rec, ok := element.(*Record); ok && rec != nil {
				out = append(out, rec)
			}
		}
	}
	return out
}
