// Package predicate builds the typed filter expression a record store
// evaluates to select search candidates. Expressions are plain data: the
// Postgres store compiles them to parameterized SQL and the in-memory store
// evaluates them with Matches. The query text only ever travels as a value.
package predicate

import (
	"strings"

	"clientregistry/internal/search/domain"
)

// Field names a record attribute a predicate can refer to.
type Field string

const (
	FieldDisplayName  Field = "display_name"
	FieldTaxCode      Field = "tax_code"
	FieldVATNumber    Field = "vat_number"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldMobilePhone  Field = "mobile_phone"
	FieldAddress      Field = "address"
	FieldCity         Field = "city"
	FieldNotes        Field = "notes"
	FieldOperatorName Field = "operator_name"

	FieldActive           Field = "active"
	FieldBusinessType     Field = "business_type"
	FieldAssignedOperator Field = "assigned_operator_id"
)

// Op is the comparison a text clause performs.
type Op string

const (
	// OpEquals is case-sensitive equality.
	OpEquals Op = "eq"
	// OpPrefix is a case-insensitive prefix match.
	OpPrefix Op = "prefix"
	// OpContains is a case-insensitive substring match.
	OpContains Op = "contains"
)

// IdentityFields are matched in exact and autocomplete modes.
var IdentityFields = []Field{FieldDisplayName, FieldTaxCode, FieldVATNumber, FieldEmail}

// FullTextFields are matched in full-text mode.
var FullTextFields = []Field{
	FieldDisplayName, FieldTaxCode, FieldVATNumber, FieldEmail,
	FieldPhone, FieldMobilePhone, FieldAddress, FieldCity, FieldNotes, FieldOperatorName,
}

// TextClause matches when any of Fields satisfies Op against Value.
type TextClause struct {
	Op     Op
	Fields []Field
	Value  string
}

// Filter is a single structured constraint. Exactly one of the value
// fields is meaningful, selected by Field.
type Filter struct {
	Field Field
	Bool  bool
	Text  string
	ID    int64
}

// ActiveIs constrains the active flag.
func ActiveIs(active bool) Filter {
	return Filter{Field: FieldActive, Bool: active}
}

// BusinessTypeIs constrains the business type (case-insensitive).
func BusinessTypeIs(businessType string) Filter {
	return Filter{Field: FieldBusinessType, Text: strings.ToLower(businessType)}
}

// AssignedOperatorIs constrains the assigned operator.
func AssignedOperatorIs(id int64) Filter {
	return Filter{Field: FieldAssignedOperator, ID: id}
}

// Expression is the conjunction of an optional text clause and filters.
type Expression struct {
	Text    *TextClause
	Filters []Filter
}

// IsEmpty reports whether the expression selects every record.
func (e Expression) IsEmpty() bool {
	return e.Text == nil && len(e.Filters) == 0
}

// Build turns a normalized request into an expression.
func Build(req domain.SearchRequest) Expression {
	var expr Expression

	if req.Query != "" {
		switch req.Mode {
		case domain.ModeExact:
			expr.Text = &TextClause{Op: OpEquals, Fields: IdentityFields, Value: req.Query}
		case domain.ModeFullText:
			expr.Text = &TextClause{Op: OpContains, Fields: FullTextFields, Value: req.Query}
		default:
			expr.Text = &TextClause{Op: OpPrefix, Fields: IdentityFields, Value: req.Query}
		}
	}

	expr.Filters = BuildFilters(req.Filters)
	return expr
}

// BuildFilters translates a FilterSet; every present filter becomes one
// ANDed constraint.
func BuildFilters(f domain.FilterSet) []Filter {
	filters := make([]Filter, 0, 4)

	switch f.Status {
	case domain.StatusActive:
		filters = append(filters, ActiveIs(true))
	case domain.StatusSuspended:
		filters = append(filters, ActiveIs(false))
	}
	if f.ActiveOnly {
		filters = append(filters, ActiveIs(true))
	}
	if f.BusinessType != nil {
		filters = append(filters, BusinessTypeIs(*f.BusinessType))
	}
	if f.AssignedOperatorID != nil {
		filters = append(filters, AssignedOperatorIs(*f.AssignedOperatorID))
	}

	return filters
}

// Matches evaluates the expression against a record in memory.
func (e Expression) Matches(rec domain.CandidateRecord) bool {
	for _, f := range e.Filters {
		if !f.Matches(rec) {
			return false
		}
	}
	if e.Text == nil {
		return true
	}
	return e.Text.Matches(rec)
}

// Matches reports whether the record satisfies the filter.
func (f Filter) Matches(rec domain.CandidateRecord) bool {
	switch f.Field {
	case FieldActive:
		return rec.Active == f.Bool
	case FieldBusinessType:
		return strings.ToLower(rec.BusinessType) == f.Text
	case FieldAssignedOperator:
		return rec.AssignedOperatorID != nil && *rec.AssignedOperatorID == f.ID
	default:
		return false
	}
}

// Matches reports whether any clause field satisfies the comparison.
func (t TextClause) Matches(rec domain.CandidateRecord) bool {
	folded := domain.Fold(t.Value)
	for _, field := range t.Fields {
		value, ok := FieldValue(rec, field)
		if !ok || value == "" {
			continue
		}
		switch t.Op {
		case OpEquals:
			if value == t.Value {
				return true
			}
		case OpPrefix:
			if strings.HasPrefix(domain.Fold(value), folded) {
				return true
			}
		case OpContains:
			if strings.Contains(domain.Fold(value), folded) {
				return true
			}
		}
	}
	return false
}

// FieldValue returns the text value of a record field.
func FieldValue(rec domain.CandidateRecord, field Field) (string, bool) {
	switch field {
	case FieldDisplayName:
		return rec.DisplayName, true
	case FieldTaxCode:
		return rec.TaxCode, true
	case FieldVATNumber:
		return rec.VATNumber, true
	case FieldEmail:
		return rec.Email, true
	case FieldPhone:
		return rec.Phone, true
	case FieldMobilePhone:
		return rec.MobilePhone, true
	case FieldAddress:
		return rec.Address, true
	case FieldCity:
		return rec.City, true
	case FieldNotes:
		return rec.Notes, true
	case FieldOperatorName:
		if rec.AssignedOperatorName == nil {
			return "", false
		}
		return *rec.AssignedOperatorName, true
	default:
		return "", false
	}
}
