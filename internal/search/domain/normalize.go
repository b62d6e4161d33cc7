package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"clientregistry/platform/sanitize"
)

const (
	// DefaultLimit is used when no or an unparsable limit is given.
	DefaultLimit = 10
	// MaxLimit is the largest page size a caller may request.
	MaxLimit = 50
	// MinQueryLength is the minimum query length outside full-text mode.
	MinQueryLength = 2
)

// RawParams carries request parameters exactly as received.
type RawParams struct {
	Query        string
	Mode         string
	Limit        string
	Offset       string
	Status       string
	BusinessType string
	Operator     string
	ActiveOnly   string
}

// Normalize turns raw parameters into a well-formed SearchRequest. It never
// fails: out-of-range or unparsable values are clamped or defaulted.
func Normalize(raw RawParams, callerKey string) SearchRequest {
	return SearchRequest{
		Query:     sanitize.Query(raw.Query),
		Mode:      ParseMode(raw.Mode),
		Filters:   ParseFilters(raw.Status, raw.BusinessType, raw.Operator, raw.ActiveOnly),
		Limit:     ClampLimit(parseIntOr(raw.Limit, DefaultLimit)),
		Offset:    ClampOffset(parseIntOr(raw.Offset, 0)),
		CallerKey: callerKey,
	}
}

// ParseMode maps the public mode name; unknown values fall back to autocomplete.
func ParseMode(raw string) Mode {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	if mode.IsValid() {
		return mode
	}
	return ModeAutocomplete
}

// ClampLimit forces limit into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampOffset forces offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ParseFilters builds the typed filter set from the raw filter values.
func ParseFilters(status, businessType, operator, activeOnly string) FilterSet {
	return FilterSet{
		Status:             parseStatus(status),
		BusinessType:       parseBusinessType(businessType),
		AssignedOperatorID: parseOperator(operator),
		ActiveOnly:         parseFlag(activeOnly),
	}
}

func parseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "attivo", "attivi", "attiva":
		return StatusActive
	case "suspended", "sospeso", "sospesi", "sospesa", "inactive", "inattivo":
		return StatusSuspended
	default:
		return StatusAll
	}
}

func parseBusinessType(raw string) *string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", "all", "tutte", "tutti":
		return nil
	}
	return &value
}

func parseOperator(raw string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on", "si", "sì":
		return true
	}
	return false
}

func parseIntOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// Syntactically valid but too large: saturate so the clamp applies.
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return fallback
	}
	return value
}
