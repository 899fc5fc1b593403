package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cavanpasek/ouray-info/internal/domain"
)

func TestFillPercent_IntegerRatings(t *testing.T) {
	want := map[int]float64{0: 0, 1: 20, 2: 40, 3: 60, 4: 80, 5: 100}
	for r, fill := range want {
		got := domain.FillPercent(float64(r))
		if got != fill {
			t.Fatalf("FillPercent(%d) = %v, want %v", r, got, fill)
		}
		// every integer rating snaps to a multiple of 5 in [0,100]
		if int(got)%5 != 0 || got < 0 || got > 100 {
			t.Fatalf("FillPercent(%d) = %v is not a multiple of 5 in range", r, got)
		}
	}
}

func TestFillPercent_SnapsToNearestFive(t *testing.T) {
	cases := []struct {
		avg  float64
		want float64
	}{
		{4.3, 85},  // 0.86 -> 0.85
		{4.4, 90},  // 0.88 -> 0.90
		{2.5, 50},  // exact
		{3.7, 75},  // 0.74 -> 0.75
		{4.9, 100}, // 0.98 -> 1.00
		{0.1, 0},   // 0.02 -> 0.00
	}
	for _, c := range cases {
		if got := domain.FillPercent(c.avg); got != c.want {
			t.Fatalf("FillPercent(%v) = %v, want %v", c.avg, got, c.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	if s := domain.Summarize(nil); s.Average != 0 || s.Count != 0 {
		t.Fatalf("empty summary = %+v", s)
	}

	s := domain.Summarize([]domain.Review{
		{Rating: 5, Approved: true},
		{Rating: 3, Approved: true},
		{Rating: 1, Approved: false}, // unapproved reviews don't count
	})
	if s.Count != 2 || s.Average != 4 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestParseSort(t *testing.T) {
	cases := map[string]domain.SortMode{
		"top":    domain.SortTop,
		"az":     domain.SortAZ,
		"google": domain.SortGoogle,
		"bogus":  domain.SortTop,
		"":       domain.SortTop,
		"TOP":    domain.SortTop,
	}
	for in, want := range cases {
		if got := domain.ParseSort(in); got != want {
			t.Fatalf("ParseSort(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ouray Brewery":         "ouray-brewery",
		"  Mouse's  Chocolates": "mouse-s-chocolates",
		"Café 33!":              "caf-33",
		"---":                   "",
		"Already-Slugged":       "already-slugged",
	}
	for in, want := range cases {
		if got := domain.Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if got := domain.TruncateLabel(string(long)); len(got) != domain.ErrorLabelMax {
		t.Fatalf("len = %d, want %d", len(got), domain.ErrorLabelMax)
	}
	if got := domain.TruncateLabel("short"); got != "short" {
		t.Fatalf("got %q", got)
	}

	// truncation counts characters and must not split a rune
	wide := strings.Repeat("é", 300)
	got := domain.TruncateLabel(wide)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated label is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != domain.ErrorLabelMax {
		t.Fatalf("rune count = %d, want %d", n, domain.ErrorLabelMax)
	}
}
