// Package domain holds the client search types shared by every stage of the
// pipeline: the normalized request, the typed filter set, the candidate
// records fetched from the store and the scored results built from them.
package domain

import "time"

// Mode selects how the query is matched against record fields.
type Mode string

const (
	// ModeAutocomplete matches case-insensitive prefixes on identity fields.
	ModeAutocomplete Mode = "autocomplete"
	// ModeFullText matches case-insensitive substrings on a wide field set.
	ModeFullText Mode = "full"
	// ModeExact matches case-sensitive equality on identity fields.
	ModeExact Mode = "exact"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == ModeAutocomplete || m == ModeFullText || m == ModeExact
}

// Status restricts results by the record's active flag.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// FilterSet holds the structured filters. A nil pointer means "no constraint".
type FilterSet struct {
	Status             Status
	BusinessType       *string
	AssignedOperatorID *int64
	ActiveOnly         bool
}

// SearchRequest is a normalized search request.
type SearchRequest struct {
	Query     string
	Mode      Mode
	Filters   FilterSet
	Limit     int
	Offset    int
	CallerKey string
}

// TooShort reports whether the query is below the minimum length for its mode.
// Such requests succeed with an empty result set without touching the store.
func (r SearchRequest) TooShort() bool {
	return r.Mode != ModeFullText && runeLen(r.Query) < MinQueryLength
}

// CandidateRecord is an immutable snapshot of a client as returned by the store,
// including the related aggregates the ranking needs.
type CandidateRecord struct {
	ID                   int64
	DisplayName          string
	TaxCode              string
	VATNumber            string
	Email                string
	Phone                string
	MobilePhone          string
	Address              string
	City                 string
	Province             string
	PostalCode           string
	Notes                string
	BusinessType         string
	FiscalRegime         string
	Active               bool
	AssignedOperatorID   *int64
	AssignedOperatorName *string
	TotalCases           int
	OpenCases            int
	LastContactAt        *time.Time
}

// ScoredResult wraps a record with its relevance score and presentation fields.
type ScoredResult struct {
	Record              CandidateRecord
	Score               int
	HighlightedName     string
	Subtitle            string
	Icon                string
	LastContactRelative string
}
