package resource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-record/pkg/casting"
	"github.com/goliatone/go-record/pkg/resource"
)

// stubSource hands back canned declarations so the declaration plumbing can
// be tested without a real schema backend.
type stubSource struct {
	container    resource.Container
	containerErr error
	declarations []resource.Declaration
	attrErr      error

	sawKind string
	sawMode resource.Mode
}

func (s *stubSource) Container(_ context.Context, kind string) (resource.Container, error) {
	s.sawKind = kind
	return s.container, s.containerErr
}

func (s *stubSource) Attributes(_ context.Context, kind string, mode resource.Mode) ([]resource.Declaration, error) {
	s.sawKind = kind
	s.sawMode = mode
	return s.declarations, s.attrErr
}

func TestDeclareFromDocumentSchema(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())
	src := &stubSource{
		container: resource.Container{Name: "purchase_order", Options: map[string]any{"description": "an order"}},
		declarations: []resource.Declaration{
			{Name: "id", Type: resource.TypeInteger, Required: true},
			{Name: "customer", Type: resource.TypeString},
			{Name: "line_items", Type: resource.TypeResource,
				Options: map[string]any{
					resource.OptionClassName:  "Order",
					resource.OptionCollection: true,
				}},
		},
	}

	order := reg.MustDefine("Order")
	if err := order.DeclareFromDocumentSchema(context.Background(), src); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if src.sawKind != "Order" || src.sawMode != resource.ModeDocument {
		t.Fatalf("source saw kind=%q mode=%q", src.sawKind, src.sawMode)
	}

	if got := order.Container().Name; got != "purchase_order" {
		t.Fatalf("container = %q", got)
	}
	names := order.AttributeNames()
	if len(names) != 3 || names[0] != "id" || names[2] != "line_items" {
		t.Fatalf("attribute names = %v", names)
	}

	// Required declarations install presence rules.
	rec := order.MustNew(nil)
	result := rec.Validate()
	if len(result.On("id")) != 1 {
		t.Fatalf("id should be required, errors: %v", result.Errors())
	}
	if len(result.On("customer")) != 0 {
		t.Fatalf("customer should not be required")
	}
}

func TestDeclareFromComplexTypeSchema(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())
	src := &stubSource{
		container: resource.Container{Name: "ignored"},
		declarations: []resource.Declaration{
			{Name: "city", Type: resource.TypeString},
		},
	}

	address := reg.MustDefine("Address")
	if err := address.DeclareFromComplexTypeSchema(context.Background(), src); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if src.sawMode != resource.ModeComplexType {
		t.Fatalf("mode = %q", src.sawMode)
	}
	// Complex-type declaration never consults the container.
	if got := address.Container().Name; got != "address" {
		t.Fatalf("container = %q, want default", got)
	}
}

func TestDeclareFromSourcePropagatesErrors(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())

	src := &stubSource{containerErr: errors.New("boom")}
	if err := reg.MustDefine("A").DeclareFromDocumentSchema(context.Background(), src); err == nil {
		t.Fatalf("expected container error")
	}

	src = &stubSource{attrErr: errors.New("boom")}
	if err := reg.MustDefine("B").DeclareFromDocumentSchema(context.Background(), src); err == nil {
		t.Fatalf("expected attribute error")
	}

	// A bad declaration surfaces the kind's own declaration error.
	src = &stubSource{declarations: []resource.Declaration{{Name: "x", Type: resource.Type("decimal")}}}
	err := reg.MustDefine("C").DeclareFromDocumentSchema(context.Background(), src)
	if !errors.Is(err, resource.ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
}

func TestDeclareFromSourceHonorsContext(t *testing.T) {
	t.Parallel()

	reg := resource.NewRegistry(casting.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &stubSource{declarations: []resource.Declaration{{Name: "id", Type: resource.TypeInteger}}}
	if err := reg.MustDefine("A").DeclareFromComplexTypeSchema(ctx, src); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
