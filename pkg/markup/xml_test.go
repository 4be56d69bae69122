package markup_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-record/pkg/casting"
	"github.com/goliatone/go-record/pkg/markup"
	"github.com/goliatone/go-record/pkg/resource"
	"github.com/goliatone/go-record/pkg/testsupport"
)

func orderRegistry(t *testing.T) (*resource.Registry, *resource.Kind) {
	t.Helper()
	reg := resource.NewRegistry(casting.Default(), resource.WithRenderer(markup.NewXML()))

	reg.MustDefine("Address").
		MustAttribute("street", resource.TypeString).
		MustAttribute("city", resource.TypeString)

	reg.MustDefine("LineItem").
		MustAttribute("sku", resource.TypeString).
		MustAttribute("quantity", resource.TypeInteger)

	order := reg.MustDefine("Order")
	order.MustAttribute("id", resource.TypeInteger).
		MustAttribute("customer", resource.TypeString).
		MustAttribute("placed_on", resource.TypeDate).
		MustAttribute("paid", resource.TypeBoolean).
		MustAttribute("line_items", resource.TypeResource,
			resource.ClassName("LineItem"), resource.Collection(), resource.ElementName("line_item")).
		MustAttribute("shipping_address", resource.TypeResource, resource.ClassName("Address"))
	return reg, order
}

func TestRenderFullDocument(t *testing.T) {
	t.Parallel()

	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":        7,
		"customer":  "ACME & Sons",
		"placed_on": "2024-03-01",
		"paid":      true,
		"line_items": []any{
			map[string]any{"sku": "A-1", "quantity": 2},
		},
		"shipping_address": map[string]any{"street": "Main St", "city": "Springfield"},
	})

	got, err := rec.RenderMarkup()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := strings.Join([]string{
		"<order>",
		"  <id>7</id>",
		"  <customer>ACME &amp; Sons</customer>",
		"  <placed_on>2024-03-01</placed_on>",
		"  <paid>true</paid>",
		"  <line_items>",
		"    <line_item>",
		"      <sku>A-1</sku>",
		"      <quantity>2</quantity>",
		"    </line_item>",
		"  </line_items>",
		"  <shipping_address>",
		"    <street>Main St</street>",
		"    <city>Springfield</city>",
		"  </shipping_address>",
		"</order>",
	}, "\n")
	if got != want {
		t.Fatalf("render mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderOmitsUnsetAndCollapsesEmpty(t *testing.T) {
	t.Parallel()

	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":         1,
		"line_items": []any{},
	})

	got, err := rec.RenderMarkup()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<order>\n  <id>1</id>\n  <line_items/>\n</order>"
	if got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	empty := order.MustNew(nil)
	got, err = empty.RenderMarkup()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Unset collections read as empty sequences, so they still render.
	want = "<order>\n  <line_items/>\n</order>"
	if got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestRenderElementNameFallbacks(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())
	reg.MustDefine("LineItem").MustAttribute("sku", resource.TypeString)

	order := reg.MustDefine("Order")
	// No element-name hint: fall back to the nested kind's container.
	order.MustAttribute("items", resource.TypeResource,
		resource.ClassName("LineItem"), resource.Collection())
	// Primitive collections without hints use a generic element.
	order.MustAttribute("tags", resource.TypeString, resource.Collection())

	rec := order.MustNew(map[string]any{
		"items": []any{map[string]any{"sku": "A-1"}},
		"tags":  []any{"rush", "gift"},
	})

	got, err := markup.NewXML().Render(rec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"<order>",
		"  <items>",
		"    <line_item>",
		"      <sku>A-1</sku>",
		"    </line_item>",
		"  </items>",
		"  <tags>",
		"    <item>rush</item>",
		"    <item>gift</item>",
		"  </tags>",
		"</order>",
	}, "\n")
	if got != want {
		t.Fatalf("render mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())
	item := reg.MustDefine("LineItem")
	item.MustAttribute("sku", resource.TypeString)
	rec := item.MustNew(map[string]any{"sku": "A-1"})

	got, err := markup.NewXML(markup.WithIndent("")).Render(rec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<line_item><sku>A-1</sku></line_item>" {
		t.Fatalf("compact render = %q", got)
	}

	got, err = markup.NewXML(markup.WithDeclaration(true)).Render(rec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`+"\n") {
		t.Fatalf("declaration missing: %q", got)
	}
}

func TestRenderGolden(t *testing.T) {
	_, order := orderRegistry(t)
	rec := order.MustNew(map[string]any{
		"id":        7,
		"customer":  "ACME & Sons",
		"placed_on": "2024-03-01",
		"paid":      true,
		"line_items": []any{
			map[string]any{"sku": "A-1", "quantity": 2},
			map[string]any{"sku": "B-2", "quantity": 1},
		},
		"shipping_address": map[string]any{"street": "Main St", "city": "Springfield"},
	})

	got, err := rec.RenderMarkup()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got += "\n"

	golden := "testdata/order.xml"
	if testsupport.WriteMaybeGolden(t, golden, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNilRecord(t *testing.T) {
	t.Parallel()

	if _, err := markup.NewXML().Render(nil); err == nil {
		t.Fatalf("expected error for nil record")
	}
}
