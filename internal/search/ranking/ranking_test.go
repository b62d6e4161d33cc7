package ranking

import (
	"fmt"
	"strings"
	"testing"

	"clientregistry/internal/search/domain"
)

func TestScoreSignals(t *testing.T) {
	cases := []struct {
		name  string
		rec   domain.CandidateRecord
		query string
		want  int
	}{
		{
			name:  "exact name adds prefix and contains",
			rec:   domain.CandidateRecord{DisplayName: "Acme"},
			query: "ACME",
			want:  BonusExactName + BonusNamePrefix + BonusNameContains,
		},
		{
			name:  "name prefix",
			rec:   domain.CandidateRecord{DisplayName: "Acme Studio Srl"},
			query: "acme",
			want:  BonusNamePrefix + BonusNameContains,
		},
		{
			name:  "name contains only",
			rec:   domain.CandidateRecord{DisplayName: "Studio Acme"},
			query: "acme",
			want:  BonusNameContains,
		},
		{
			name:  "exact tax code is case-insensitive",
			rec:   domain.CandidateRecord{DisplayName: "Rossi Mario", TaxCode: "RSSMRA80A01F205X"},
			query: "rssmra80a01f205x",
			want:  BonusExactTaxID,
		},
		{
			name:  "tax code and vat count once",
			rec:   domain.CandidateRecord{DisplayName: "X", TaxCode: "01234567890", VATNumber: "01234567890"},
			query: "01234567890",
			want:  BonusExactTaxID,
		},
		{
			name:  "email prefix and contains",
			rec:   domain.CandidateRecord{DisplayName: "Zeta", Email: "acme@zeta.it"},
			query: "acme",
			want:  BonusEmailPrefix + BonusEmailContains,
		},
		{
			name:  "email contains",
			rec:   domain.CandidateRecord{DisplayName: "Zeta", Email: "info@acme.it"},
			query: "acme",
			want:  BonusEmailContains,
		},
		{
			name:  "mobile phone contains",
			rec:   domain.CandidateRecord{DisplayName: "Zeta", MobilePhone: "+39 333 1234567"},
			query: "1234",
			want:  BonusPhoneContains,
		},
		{
			name:  "active and open cases",
			rec:   domain.CandidateRecord{DisplayName: "Studio Acme", Active: true, OpenCases: 2},
			query: "acme",
			want:  BonusNameContains + BonusActive + BonusHasOpenCases,
		},
		{
			name:  "empty query scores zero",
			rec:   domain.CandidateRecord{DisplayName: "Acme", Active: true, OpenCases: 1},
			query: "  ",
			want:  0,
		},
	}

	for _, tc := range cases {
		if got := Score(tc.rec, tc.query); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestTaxCodeMatchBeatsNameSubstring(t *testing.T) {
	byTax := domain.CandidateRecord{ID: 2, DisplayName: "Zeta Srl", TaxCode: "ACMEX", Active: false}
	byName := domain.CandidateRecord{ID: 1, DisplayName: "Studio acmex", Active: true, OpenCases: 4}

	taxScore := Score(byTax, "acmex")
	nameScore := Score(byName, "acmex")
	if taxScore < BonusExactTaxID {
		t.Fatalf("expected tax match to score at least %d, got %d", BonusExactTaxID, taxScore)
	}
	if taxScore <= nameScore {
		t.Fatalf("expected tax match (%d) to outrank name substring (%d)", taxScore, nameScore)
	}
}

func TestRankOrdering(t *testing.T) {
	records := []domain.CandidateRecord{
		{ID: 5, DisplayName: "beta acme"},
		{ID: 4, DisplayName: "Alpha acme"},
		{ID: 3, DisplayName: "alpha acme"},
		{ID: 2, DisplayName: "Acme"},
		{ID: 1, DisplayName: "Acme Studio"},
	}

	ranked := Rank(records, "acme")

	wantIDs := []int64{2, 1, 3, 4, 5}
	for i, want := range wantIDs {
		if ranked[i].Record.ID != want {
			t.Fatalf("position %d: expected id %d, got %d (%+v)", i, want, ranked[i].Record.ID, ids(ranked))
		}
	}
	assertStrictOrder(t, ranked)
}

func TestRankEmptyQueryOrdersByName(t *testing.T) {
	records := []domain.CandidateRecord{
		{ID: 1, DisplayName: "Zeta", Active: true},
		{ID: 2, DisplayName: "alfa", Active: true, OpenCases: 3},
		{ID: 3, DisplayName: "Beta", Active: true},
	}

	ranked := Rank(records, "")
	for _, r := range ranked {
		if r.Score != 0 {
			t.Fatalf("expected zero score for empty query, got %d", r.Score)
		}
	}
	if got := ids(ranked); fmt.Sprint(got) != "[2 3 1]" {
		t.Fatalf("expected name order [2 3 1], got %v", got)
	}
}

// A store-side LIMIT before ranking would drop the exact match that sorts
// last alphabetically; ranking the whole set must keep it first.
func TestRankBeforeTruncateKeepsTrueTopResult(t *testing.T) {
	records := make([]domain.CandidateRecord, 0, 60)
	for i := 0; i < 59; i++ {
		records = append(records, domain.CandidateRecord{
			ID:          int64(i + 1),
			DisplayName: fmt.Sprintf("A%02d studio rossi", i),
		})
	}
	records = append(records, domain.CandidateRecord{ID: 60, DisplayName: "Rossi"})

	page := Page(Rank(records, "rossi"), 0, 10)

	if page[0].Record.ID != 60 {
		t.Fatalf("expected exact name match first, got id %d", page[0].Record.ID)
	}
	if len(page) != 10 {
		t.Fatalf("expected page of 10, got %d", len(page))
	}
}

func TestRankIsIdempotent(t *testing.T) {
	records := []domain.CandidateRecord{
		{ID: 3, DisplayName: "Acme B"},
		{ID: 1, DisplayName: "Acme A"},
		{ID: 2, DisplayName: "Acme A"},
	}

	first := ids(Rank(records, "acme"))
	second := ids(Rank(records, "acme"))
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("expected identical orderings, got %v and %v", first, second)
	}
	if fmt.Sprint(first) != "[1 2 3]" {
		t.Fatalf("expected id tie-break, got %v", first)
	}
}

func TestPage(t *testing.T) {
	ranked := Rank([]domain.CandidateRecord{
		{ID: 1, DisplayName: "a"}, {ID: 2, DisplayName: "b"}, {ID: 3, DisplayName: "c"},
	}, "")

	if got := ids(Page(ranked, 1, 1)); fmt.Sprint(got) != "[2]" {
		t.Fatalf("expected [2], got %v", got)
	}
	if got := ids(Page(ranked, 2, 10)); fmt.Sprint(got) != "[3]" {
		t.Fatalf("expected [3], got %v", got)
	}
	if got := Page(ranked, 5, 10); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", ids(got))
	}
}

func ids(results []domain.ScoredResult) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.Record.ID
	}
	return out
}

func assertStrictOrder(t *testing.T, results []domain.ScoredResult) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if prev.Score > cur.Score {
			continue
		}
		if prev.Score < cur.Score {
			t.Fatalf("score order violated at %d", i)
		}
		pn, cn := strings.ToLower(prev.Record.DisplayName), strings.ToLower(cur.Record.DisplayName)
		if pn < cn {
			continue
		}
		if pn > cn || prev.Record.ID >= cur.Record.ID {
			t.Fatalf("tie-break order violated at %d", i)
		}
	}
}
