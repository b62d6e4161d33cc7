// Package ranking scores candidate records against a query and produces the
// final deterministic ordering. Ranking always sees the complete filtered
// candidate set; pagination happens afterwards.
package ranking

import (
	"slices"
	"strings"

	"clientregistry/internal/search/domain"
)

// Score bonuses. Signals are independent and add up.
const (
	BonusExactName     = 100
	BonusExactTaxID    = 90
	BonusNamePrefix    = 50
	BonusEmailPrefix   = 40
	BonusNameContains  = 30
	BonusEmailContains = 20
	BonusPhoneContains = 15
	BonusActive        = 5
	BonusHasOpenCases  = 3
)

// Score computes the relevance of rec for query. An empty query scores 0.
func Score(rec domain.CandidateRecord, query string) int {
	q := domain.Fold(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	return scoreFolded(rec, q)
}

func scoreFolded(rec domain.CandidateRecord, q string) int {
	name := domain.Fold(rec.DisplayName)
	email := domain.Fold(rec.Email)

	score := 0
	if name == q {
		score += BonusExactName
	}
	if domain.Fold(rec.TaxCode) == q || domain.Fold(rec.VATNumber) == q {
		score += BonusExactTaxID
	}
	if strings.HasPrefix(name, q) {
		score += BonusNamePrefix
	}
	if email != "" && strings.HasPrefix(email, q) {
		score += BonusEmailPrefix
	}
	if strings.Contains(name, q) {
		score += BonusNameContains
	}
	if email != "" && strings.Contains(email, q) {
		score += BonusEmailContains
	}
	if strings.Contains(domain.Fold(rec.Phone), q) || strings.Contains(domain.Fold(rec.MobilePhone), q) {
		score += BonusPhoneContains
	}
	if rec.Active {
		score += BonusActive
	}
	if rec.OpenCases > 0 {
		score += BonusHasOpenCases
	}
	return score
}

type keyed struct {
	result domain.ScoredResult
	name   string
}

// Rank scores every record and returns them ordered by score descending,
// display name ascending (case-insensitive) and id ascending.
func Rank(records []domain.CandidateRecord, query string) []domain.ScoredResult {
	q := domain.Fold(strings.TrimSpace(query))

	items := make([]keyed, len(records))
	for i, rec := range records {
		score := 0
		if q != "" {
			score = scoreFolded(rec, q)
		}
		items[i] = keyed{
			result: domain.ScoredResult{Record: rec, Score: score},
			name:   domain.Fold(rec.DisplayName),
		}
	}

	slices.SortFunc(items, func(a, b keyed) int {
		if a.result.Score != b.result.Score {
			return b.result.Score - a.result.Score
		}
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		switch {
		case a.result.Record.ID < b.result.Record.ID:
			return -1
		case a.result.Record.ID > b.result.Record.ID:
			return 1
		}
		return 0
	})

	results := make([]domain.ScoredResult, len(items))
	for i, item := range items {
		results[i] = item.result
	}
	return results
}

// Page returns the window [offset, offset+limit) of an already ranked list.
func Page(results []domain.ScoredResult, offset, limit int) []domain.ScoredResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) || limit <= 0 {
		return []domain.ScoredResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	page := make([]domain.ScoredResult, end-offset)
	copy(page, results[offset:end])
	return page
}
