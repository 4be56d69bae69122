// Package casting supplies the default primitive coercions behind the
// resource.Caster contract: strings, integers, floats, booleans, dates and
// datetimes, plus recursive construction of nested records.
package casting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-record/pkg/resource"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = time.RFC3339
)

// Caster implements resource.Caster for the built-in primitive tags.
type Caster struct{}

var _ resource.Caster = (*Caster)(nil)

// Default returns the stock caster.
func Default() *Caster {
	return &Caster{}
}

// Known reports the type tags this caster understands.
func (c *Caster) Known(typ resource.Type) bool {
	switch typ {
	case resource.TypeString, resource.TypeInteger, resource.TypeFloat,
		resource.TypeBoolean, resource.TypeDate, resource.TypeDateTime,
		resource.TypeResource:
		return true
	default:
		return false
	}
}

// Cast coerces raw into typ. Coercions are deterministic and side-effect
// free; anything that cannot be coerced fails with *resource.CastError.
func (c *Caster) Cast(raw any, typ resource.Type, kind *resource.Kind) (any, error) {
	switch typ {
	case resource.TypeString:
		return castString(raw)
	case resource.TypeInteger:
		return castInteger(raw)
	case resource.TypeFloat:
		return castFloat(raw)
	case resource.TypeBoolean:
		return castBoolean(raw)
	case resource.TypeDate:
		return castTime(raw, resource.TypeDate, dateLayout)
	case resource.TypeDateTime:
		return castTime(raw, resource.TypeDateTime, datetimeLayout)
	case resource.TypeResource:
		return castResource(raw, kind)
	default:
		return nil, &resource.CastError{Type: typ, Value: raw, Cause: fmt.Errorf("unknown type")}
	}
}

func castString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return nil, &resource.CastError{Type: resource.TypeString, Value: raw}
	}
}

func castInteger(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, &resource.CastError{Type: resource.TypeInteger, Value: raw}
		}
		return int64(v), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, &resource.CastError{Type: resource.TypeInteger, Value: raw, Cause: err}
		}
		return parsed, nil
	default:
		return nil, &resource.CastError{Type: resource.TypeInteger, Value: raw}
	}
}

func castFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &resource.CastError{Type: resource.TypeFloat, Value: raw, Cause: err}
		}
		return parsed, nil
	default:
		return nil, &resource.CastError{Type: resource.TypeFloat, Value: raw}
	}
}

func castBoolean(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, &resource.CastError{Type: resource.TypeBoolean, Value: raw, Cause: err}
		}
		return parsed, nil
	case int:
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, &resource.CastError{Type: resource.TypeBoolean, Value: raw}
	default:
		return nil, &resource.CastError{Type: resource.TypeBoolean, Value: raw}
	}
}

func castTime(raw any, typ resource.Type, layout string) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(layout, strings.TrimSpace(v))
		if err != nil && typ == resource.TypeDateTime {
			// Date-only input widens to midnight UTC.
			parsed, err = time.Parse(dateLayout, strings.TrimSpace(v))
		}
		if err != nil {
			return nil, &resource.CastError{Type: typ, Value: raw, Cause: err}
		}
		return parsed, nil
	default:
		return nil, &resource.CastError{Type: typ, Value: raw}
	}
}

func castResource(raw any, kind *resource.Kind) (any, error) {
	if kind == nil {
		return nil, &resource.CastError{Type: resource.TypeResource, Value: raw, Cause: fmt.Errorf("no nested kind")}
	}
	switch v := raw.(type) {
	case *resource.Record:
		return v, nil
	case map[string]any:
		rec, err := kind.New(v)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case resource.AttributeProvider:
		rec, err := kind.New(v.Attributes())
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, &resource.CastError{Type: resource.TypeResource, Value: raw}
	}
}
