package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	if err != nil || role != RoleAdmin {
		t.Fatalf("expected admin role, got %q err=%v", role, err)
	}
	if !role.IsAdmin() {
		t.Fatalf("admin should report IsAdmin")
	}
	if RoleCustomer.IsAdmin() {
		t.Fatalf("customer should not report IsAdmin")
	}
	if _, err := ParseRole("ADMIN"); err == nil {
		t.Fatalf("role parsing is case-sensitive")
	}
	if Role("owner").IsValid() {
		t.Fatalf("unknown roles must be invalid")
	}
}

func TestParseLifecycleStatus(t *testing.T) {
	if s, err := ParseLifecycleStatus("deleted"); err != nil || s != LifecycleStatusDeleted {
		t.Fatalf("expected deleted, got %q err=%v", s, err)
	}
	if _, err := ParseLifecycleStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseSortOrder(t *testing.T) {
	if s, err := ParseSortOrder(" ASC "); err != nil || s != SortOrderAsc {
		t.Fatalf("expected asc, got %q err=%v", s, err)
	}
	if SortOrderAsc.SQL() != "ASC" || SortOrderDesc.SQL() != "DESC" {
		t.Fatalf("unexpected sql keywords")
	}
	if _, err := ParseSortOrder("sideways"); err == nil {
		t.Fatalf("expected error for unknown sort order")
	}
}
