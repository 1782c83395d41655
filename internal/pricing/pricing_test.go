package pricing

import (
	"testing"
)

func TestProjectPriceRates(t *testing.T) {
	table := NewTable()

	cases := []struct {
		hours int
		level string
		want  int
	}{
		{100, "senior", 60000},
		{100, "junior", 10000},
		{100, "expert", 100000},
		{100, "mid", 40000},
		{50, "junior", 5000},
		{0, "expert", 0},
	}
	for _, c := range cases {
		if got := table.ProjectPrice(c.hours, c.level); got != c.want {
			t.Errorf("ProjectPrice(%d, %q) = %d, want %d", c.hours, c.level, got, c.want)
		}
	}
}

func TestProjectPricePartialLevelMatch(t *testing.T) {
	table := NewTable()

	if got := table.ProjectPrice(100, "Senior Developer"); got != 60000 {
		t.Errorf("partial senior match: got %d, want 60000", got)
	}
	if got := table.ProjectPrice(10, "  EXPERT consultant "); got != 10000 {
		t.Errorf("partial expert match: got %d, want 10000", got)
	}
}

func TestProjectPriceUnknownLevelDefaultsToMid(t *testing.T) {
	table := NewTable()

	for _, level := range []string{"", "unknown", "principal", "intern"} {
		if got := table.ProjectPrice(10, level); got != 4000 {
			t.Errorf("ProjectPrice(10, %q) = %d, want mid rate 4000", level, got)
		}
	}
}

func TestProjectPriceIdempotent(t *testing.T) {
	table := NewTable()

	first := table.ProjectPrice(137, "senior")
	for i := 0; i < 5; i++ {
		if got := table.ProjectPrice(137, "senior"); got != first {
			t.Fatalf("pricing not idempotent: got %d then %d", first, got)
		}
	}
}

func TestFormatGrouped(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{60000, "60,000"},
		{1234567, "1,234,567"},
		{-40000, "-40,000"},
	}
	for _, c := range cases {
		if got := FormatGrouped(c.in); got != c.want {
			t.Errorf("FormatGrouped(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
