package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-record/pkg/resource"
)

func TestSerializableViewSubstitutesNested(t *testing.T) {
	t.Parallel()

	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":       9,
		"customer": "ACME",
		"line_items": []any{
			map[string]any{"sku": "A-1", "quantity": 2},
		},
		"shipping_address": map[string]any{"city": "Springfield"},
	})

	view := rec.SerializableView(nil)
	wantKeys := []string{"id", "customer", "placed_on", "paid", "line_items", "shipping_address"}
	if len(view) != len(wantKeys) {
		t.Fatalf("view length = %d, want %d", len(view), len(wantKeys))
	}
	for i, entry := range view {
		if entry.Key != wantKeys[i] {
			t.Fatalf("entry %d key = %q, want %q", i, entry.Key, wantKeys[i])
		}
	}

	items, _ := view.Get("line_items")
	elements, ok := items.([]any)
	if !ok || len(elements) != 1 {
		t.Fatalf("line_items = %#v", items)
	}
	itemView, ok := elements[0].(resource.View)
	if !ok {
		t.Fatalf("collection element = %T, want View", elements[0])
	}
	if sku, _ := itemView.Get("sku"); sku != "A-1" {
		t.Fatalf("sku = %#v", sku)
	}

	address, _ := view.Get("shipping_address")
	addressView, ok := address.(resource.View)
	if !ok {
		t.Fatalf("shipping_address = %T, want View", address)
	}
	if city, _ := addressView.Get("city"); city != "Springfield" {
		t.Fatalf("city = %#v", city)
	}

	// Unset attributes still appear.
	if placed, found := view.Get("placed_on"); !found || placed != nil {
		t.Fatalf("placed_on = %#v, want explicit nil entry", placed)
	}
}

func TestSerializableViewTransformTakesPrecedence(t *testing.T) {
	t.Parallel()

	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":               4,
		"shipping_address": map[string]any{"city": "Springfield"},
	})

	view := rec.SerializableView(func(key string, value any) any {
		if key == "shipping_address" {
			return "redacted"
		}
		return value
	})

	address, _ := view.Get("shipping_address")
	if address != "redacted" {
		t.Fatalf("shipping_address = %#v", address)
	}
	// With a transform the default nested substitution does not run, so
	// untouched values come back as stored.
	id, _ := view.Get("id")
	if id != int64(4) {
		t.Fatalf("id = %#v", id)
	}
}

func TestViewMarshalJSONPreservesOrder(t *testing.T) {
	t.Parallel()

	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":       1,
		"customer": "ACME",
		"line_items": []any{
			map[string]any{"sku": "A-1"},
		},
	})

	payload, err := json.Marshal(rec.SerializableView(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"customer":"ACME","placed_on":null,"paid":null,` +
		`"line_items":[{"sku":"A-1","quantity":null,"price":null}],"shipping_address":null}`
	if string(payload) != want {
		t.Fatalf("json = %s\nwant  %s", payload, want)
	}
}
