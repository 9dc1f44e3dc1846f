package repo

import (
	"testing"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		" Toffee ":  "%toffee%",
		"100%":      `%100\%%`,
		"half_half": `%half\_half%`,
		`back\in`:   `%back\\in%`,
	}
	for in, want := range cases {
		if got := ContainsPattern(in); got != want {
			t.Fatalf("ContainsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLikeLowerMatchesWildcardsLiterally(t *testing.T) {
	conn := dbtest.Open(t)
	for _, name := range []string{"Fudge", "Half_Half Mix", "Caramel"} {
		if err := conn.Create(&models.Category{Name: name}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count := func(term string) int64 {
		var n int64
		err := conn.Model(&models.Category{}).
			Where(LikeLower("categories.name"), ContainsPattern(term)).
			Count(&n).Error
		if err != nil {
			t.Fatalf("count %q: %v", term, err)
		}
		return n
	}

	if got := count("%"); got != 0 {
		t.Fatalf("a bare %% must not match every row, got %d", got)
	}
	if got := count("_"); got != 1 {
		t.Fatalf("underscore should only match the literal underscore, got %d", got)
	}
	if got := count("CARA"); got != 1 {
		t.Fatalf("expected case-insensitive substring match, got %d", got)
	}
}
