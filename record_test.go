package record_test

import (
	"context"
	"strings"
	"testing"

	record "github.com/goliatone/go-record"
)

func TestNewRegistryDefaults(t *testing.T) {
	t.Parallel()

	reg := record.NewRegistry()
	item := reg.MustDefine("LineItem")
	item.MustAttribute("sku", record.TypeString).
		MustAttribute("quantity", record.TypeInteger)

	rec := item.MustNew(map[string]any{"sku": "A-1", "quantity": "2"})
	if got := rec.Get("quantity"); got != int64(2) {
		t.Fatalf("quantity = %#v, want int64(2)", got)
	}

	xml, err := rec.RenderMarkup()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(xml, "<line_item>") || !strings.Contains(xml, "<sku>A-1</sku>") {
		t.Fatalf("xml = %q", xml)
	}
}

func TestRegisterYAML(t *testing.T) {
	t.Parallel()

	const doc = `
kinds:
  - name: Note
    attributes:
      - name: title
        type: string
        required: true
      - name: body
        type: string
`
	reg := record.NewRegistry()
	if err := record.RegisterYAML(context.Background(), reg, []byte(doc)); err != nil {
		t.Fatalf("register: %v", err)
	}

	note, ok := reg.Kind("Note")
	if !ok {
		t.Fatalf("Note kind not registered")
	}
	rec := note.MustNew(nil)
	if rec.Validate().Valid() {
		t.Fatalf("missing title should fail validation")
	}

	if err := record.RegisterYAML(context.Background(), reg, []byte("kinds: []")); err == nil {
		t.Fatalf("expected parse error")
	}
}
