package service

import (
	"testing"
	"time"

	"clientregistry/internal/search/domain"
)

func TestSubtitlePriority(t *testing.T) {
	cases := []struct {
		name string
		rec  domain.CandidateRecord
		want string
	}{
		{"all present", domain.CandidateRecord{TaxCode: "TC", VATNumber: "VAT", Email: "e@x.it", Phone: "02"}, "TC • VAT"},
		{"skips absent", domain.CandidateRecord{Email: "e@x.it", Phone: "02"}, "e@x.it • 02"},
		{"blank counts as absent", domain.CandidateRecord{TaxCode: "  ", Phone: "02"}, "02"},
		{"nothing", domain.CandidateRecord{}, ""},
	}

	for _, tc := range cases {
		if got := Subtitle(tc.rec); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRelativeTimeBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	cases := []struct {
		at   *time.Time
		want string
	}{
		{nil, ""},
		{ago(30 * time.Second), "now"},
		{ago(5 * time.Minute), "5 min ago"},
		{ago(3*time.Hour + 10*time.Minute), "3 h ago"},
		{ago(30 * time.Hour), "1 day ago"},
		{ago(4 * 24 * time.Hour), "4 days ago"},
		{ago(8 * 24 * time.Hour), "02/03/2026"},
	}

	for _, tc := range cases {
		if got := RelativeTime(tc.at, now); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestIcon(t *testing.T) {
	if got := Icon(" SRL "); got != IconCompany {
		t.Fatalf("expected company icon, got %q", got)
	}
	if got := Icon("persona_fisica"); got != IconPerson {
		t.Fatalf("expected person icon, got %q", got)
	}
	if got := Icon("unknown"); got != IconDefault {
		t.Fatalf("expected default icon, got %q", got)
	}
}
