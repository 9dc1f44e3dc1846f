package pagination

import (
	"testing"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in, def, max, want int
	}{
		{in: 0, def: 20, max: 100, want: 20},
		{in: -5, def: 20, max: 100, want: 20},
		{in: 50, def: 20, max: 100, want: 50},
		{in: 500, def: 20, max: 100, want: 100},
		{in: 0, def: 0, max: 0, want: DefaultLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in, tc.def, tc.max); got != tc.want {
			t.Fatalf("NormalizeLimit(%d,%d,%d) = %d, want %d", tc.in, tc.def, tc.max, got, tc.want)
		}
	}
}

func TestParamsOffsetAndMeta(t *testing.T) {
	p := Params{Page: 0, Limit: 0}.Normalized(20, 100)
	if p.Page != 1 || p.Limit != 20 || p.Offset() != 0 {
		t.Fatalf("unexpected normalized params %+v offset=%d", p, p.Offset())
	}

	p = Params{Page: 3, Limit: 10}.Normalized(20, 100)
	if p.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", p.Offset())
	}

	meta := NewMeta(p, 21)
	if meta.TotalPages != 3 {
		t.Fatalf("expected ceil(21/10)=3 pages, got %d", meta.TotalPages)
	}
	if NewMeta(p, 0).TotalPages != 0 {
		t.Fatalf("empty result should have zero pages")
	}
	if NewMeta(p, 20).TotalPages != 2 {
		t.Fatalf("exact multiple should not round up")
	}
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[int](nil, Params{Page: 1, Limit: 20}, 0)
	if page.Items == nil {
		t.Fatalf("items should be an empty slice")
	}
	mapped := MapPage(NewPage([]int{1, 2}, Params{Page: 1, Limit: 20}, 2), func(v int) string {
		return string(rune('a' + v))
	})
	if len(mapped.Items) != 2 || mapped.Items[0] != "b" || mapped.Meta.Total != 2 {
		t.Fatalf("unexpected mapped page %+v", mapped)
	}
}

func TestSortSpecOrderClause(t *testing.T) {
	spec := SortSpec{
		Columns: map[string]string{
			"name":      "sweets.name",
			"createdAt": "sweets.created_at",
			"id":        "sweets.id",
		},
		DefaultKey:   "createdAt",
		DefaultOrder: enums.SortOrderDesc,
	}

	if got := spec.OrderClause(Params{}, "sweets.id"); got != "sweets.created_at DESC, sweets.id DESC" {
		t.Fatalf("unexpected default clause %q", got)
	}
	if got := spec.OrderClause(Params{SortBy: "name", SortOrder: enums.SortOrderAsc}, "sweets.id"); got != "sweets.name ASC, sweets.id ASC" {
		t.Fatalf("unexpected clause %q", got)
	}
	if got := spec.OrderClause(Params{SortBy: "id", SortOrder: enums.SortOrderAsc}, "sweets.id"); got != "sweets.id ASC" {
		t.Fatalf("id sort should not repeat the tie-breaker, got %q", got)
	}
	if err := spec.Validate("price"); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	if err := spec.Validate(""); err != nil {
		t.Fatalf("empty key should fall back to default: %v", err)
	}
}

func TestSortSpecCheck(t *testing.T) {
	spec := SortSpec{Columns: map[string]string{"name": "name", "id": "id"}, DefaultKey: "id"}
	if err := spec.Check(Params{SortBy: "name"}); err != nil {
		t.Fatalf("expected name to be accepted: %v", err)
	}
	if err := spec.Check(Params{}); err != nil {
		t.Fatalf("expected empty sortBy to be accepted: %v", err)
	}
	err := spec.Check(Params{SortBy: "password_hash"})
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	if details["sortBy"] != "must be one of id, name" {
		t.Fatalf("unexpected details %v", details)
	}
}
