package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-record/pkg/resource"
)

// Filler walks a kind's attribute declarations and builds a record from
// interactive answers. Booleans use confirm prompts, nested kinds recurse,
// and collections repeat until the user declines another element. Raw text
// answers go through the record setter, so the registry's caster applies the
// same coercions as programmatic construction.
type Filler struct {
	driver Driver
}

// NewFiller builds a filler on the given driver. A nil driver falls back to
// the terminal-backed survey driver.
func NewFiller(driver Driver) *Filler {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Filler{driver: driver}
}

// Fill prompts for every attribute of the kind and returns the populated
// record. Empty answers leave the attribute unset.
func (f *Filler) Fill(ctx context.Context, kind *resource.Kind) (*resource.Record, error) {
	if kind == nil {
		return nil, ErrNoKind
	}
	if err := f.driver.Info(ctx, fmt.Sprintf("Filling %s", kind.Name())); err != nil {
		return nil, err
	}

	rec, err := kind.New(nil)
	if err != nil {
		return nil, err
	}
	for _, name := range kind.AttributeNames() {
		desc, _ := kind.Descriptor(name)
		value, set, err := f.askAttribute(ctx, kind.Name(), desc)
		if err != nil {
			return nil, err
		}
		if !set {
			continue
		}
		if err := rec.Set(name, value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (f *Filler) askAttribute(ctx context.Context, kindName string, desc resource.Descriptor) (any, bool, error) {
	if desc.Collection {
		return f.askCollection(ctx, kindName, desc)
	}
	return f.askScalar(ctx, kindName, desc)
}

func (f *Filler) askScalar(ctx context.Context, kindName string, desc resource.Descriptor) (any, bool, error) {
	label := fmt.Sprintf("%s.%s", kindName, desc.Name)

	switch desc.Type {
	case resource.TypeBoolean:
		value, err := f.driver.Confirm(ctx, ConfirmConfig{Message: label + "?"})
		if err != nil {
			return nil, false, err
		}
		return value, true, nil
	case resource.TypeResource:
		nested, err := f.Fill(ctx, desc.Kind)
		if err != nil {
			return nil, false, err
		}
		return nested, true, nil
	default:
		answer, err := f.driver.Input(ctx, InputConfig{
			Message: label,
			Help:    scalarHelp(desc.Type),
		})
		if err != nil {
			return nil, false, err
		}
		if answer == "" {
			return nil, false, nil
		}
		return answer, true, nil
	}
}

func (f *Filler) askCollection(ctx context.Context, kindName string, desc resource.Descriptor) (any, bool, error) {
	label := fmt.Sprintf("%s.%s", kindName, desc.Name)
	elements := []any{}
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add an element to %s?", label),
			Default: len(elements) == 0,
		})
		if err != nil {
			return nil, false, err
		}
		if !more {
			break
		}
		element, set, err := f.askScalar(ctx, kindName, resource.Descriptor{
			Name: desc.Name,
			Type: desc.Type,
			Kind: desc.Kind,
		})
		if err != nil {
			return nil, false, err
		}
		if set {
			elements = append(elements, element)
		}
	}
	if len(elements) == 0 {
		return nil, false, nil
	}
	return elements, true, nil
}

func scalarHelp(typ resource.Type) string {
	switch typ {
	case resource.TypeInteger:
		return "whole number"
	case resource.TypeFloat:
		return "number"
	case resource.TypeDate:
		return "YYYY-MM-DD"
	case resource.TypeDateTime:
		return "RFC 3339 timestamp"
	default:
		return ""
	}
}
