package transport

// MaxQueryLength bounds the raw query accepted from callers.
const MaxQueryLength = 200

// SearchRequest carries the raw query-string parameters. Numeric and filter
// values stay strings: unparsable input is defaulted by the normalizer
// instead of failing the request.
type SearchRequest struct {
	Q          string `form:"q" validate:"max=200"`
	Query      string `form:"query" validate:"max=200"`
	Type       string `form:"type" validate:"max=32"`
	Limit      string `form:"limit"`
	Offset     string `form:"offset"`
	Stato      string `form:"stato" validate:"max=32"`
	Tipologia  string `form:"tipologia" validate:"max=64"`
	Operatore  string `form:"operatore" validate:"max=20"`
	SoloAttivi string `form:"solo_attivi" validate:"max=8"`
}

// RawQuery returns q, falling back to query.
func (r SearchRequest) RawQuery() string {
	if r.Q != "" {
		return r.Q
	}
	return r.Query
}

// SearchResultItem is one client in the result list.
type SearchResultItem struct {
	ID                  int64   `json:"id"`
	DisplayName         string  `json:"display_name"`
	HighlightedName     string  `json:"highlighted_name"`
	TaxCode             string  `json:"tax_code"`
	VATNumber           string  `json:"vat_number"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	PhoneE164           string  `json:"phone_e164,omitempty"`
	MobilePhone         string  `json:"mobile_phone"`
	MobilePhoneE164     string  `json:"mobile_phone_e164,omitempty"`
	Address             string  `json:"address"`
	City                string  `json:"city"`
	Province            string  `json:"province"`
	PostalCode          string  `json:"postal_code"`
	BusinessType        string  `json:"business_type"`
	FiscalRegime        string  `json:"fiscal_regime"`
	Active              bool    `json:"active"`
	AssignedOperatorID  *int64  `json:"assigned_operator_id"`
	AssignedOperator    *string `json:"assigned_operator"`
	TotalCases          int     `json:"total_cases"`
	OpenCases           int     `json:"open_cases"`
	LastContact         *string `json:"last_contact"`
	LastContactRelative string  `json:"last_contact_relative"`
	Subtitle            string  `json:"subtitle"`
	Icon                string  `json:"icon"`
	Score               int     `json:"score"`
}

// FiltersEcho reports the filters as they were applied.
type FiltersEcho struct {
	Status       string  `json:"stato"`
	BusinessType *string `json:"tipologia"`
	Operator     *int64  `json:"operatore"`
	ActiveOnly   bool    `json:"solo_attivi"`
}

// SearchResponse is the success envelope.
type SearchResponse struct {
	Success         bool               `json:"success"`
	Results         []SearchResultItem `json:"results"`
	Total           int                `json:"total"`
	Query           string             `json:"query"`
	Filters         FiltersEcho        `json:"filters"`
	SearchType      string             `json:"search_type"`
	ExecutionTimeMs float64            `json:"execution_time_ms"`
	Message         string             `json:"message,omitempty"`
	Limit           int                `json:"limit"`
	Offset          int                `json:"offset"`
}
