package repository

import (
	"fmt"
	"strings"

	"clientregistry/internal/search/predicate"
)

const candidateSelect = `
SELECT
	c.id,
	c.display_name,
	COALESCE(c.tax_code, ''),
	COALESCE(c.vat_number, ''),
	COALESCE(c.email, ''),
	COALESCE(c.phone, ''),
	COALESCE(c.mobile_phone, ''),
	COALESCE(c.address, ''),
	COALESCE(c.city, ''),
	COALESCE(c.province, ''),
	COALESCE(c.postal_code, ''),
	COALESCE(c.notes, ''),
	c.business_type,
	c.fiscal_regime,
	c.is_active,
	c.assigned_operator_id,
	o.full_name,
	COALESCE(cs.total_cases, 0),
	COALESCE(cs.open_cases, 0),
	cm.last_contact_at
FROM clients c
LEFT JOIN operators o ON o.id = c.assigned_operator_id
LEFT JOIN LATERAL (
	SELECT
		COUNT(*) AS total_cases,
		COUNT(*) FILTER (WHERE cc.status = 'open') AS open_cases
	FROM client_cases cc
	WHERE cc.client_id = c.id
) cs ON true
LEFT JOIN LATERAL (
	SELECT MAX(m.occurred_at) AS last_contact_at
	FROM client_communications m
	WHERE m.client_id = c.id
) cm ON true
`

// columns maps predicate fields to SQL expressions.
var columns = map[predicate.Field]string{
	predicate.FieldDisplayName:      "c.display_name",
	predicate.FieldTaxCode:          "c.tax_code",
	predicate.FieldVATNumber:        "c.vat_number",
	predicate.FieldEmail:            "c.email",
	predicate.FieldPhone:            "c.phone",
	predicate.FieldMobilePhone:      "c.mobile_phone",
	predicate.FieldAddress:          "c.address",
	predicate.FieldCity:             "c.city",
	predicate.FieldNotes:            "c.notes",
	predicate.FieldOperatorName:     "o.full_name",
	predicate.FieldActive:           "c.is_active",
	predicate.FieldBusinessType:     "lower(c.business_type)",
	predicate.FieldAssignedOperator: "c.assigned_operator_id",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildCandidateQuery compiles expr into the candidate SELECT. User values
// only ever appear in args. There is no ORDER BY or LIMIT: ordering and
// pagination belong to the ranking stage.
func buildCandidateQuery(expr predicate.Expression) (string, []interface{}, error) {
	whereSQL, args, err := buildWhere(expr)
	if err != nil {
		return "", nil, err
	}
	return candidateSelect + whereSQL, args, nil
}

func buildWhere(expr predicate.Expression) (whereSQL string, args []interface{}, err error) {
	var where []string
	nextArg := 1

	for _, f := range expr.Filters {
		col, ok := columns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", f.Field)
		}
		where = append(where, fmt.Sprintf("%s = $%d", col, nextArg))
		switch f.Field {
		case predicate.FieldActive:
			args = append(args, f.Bool)
		case predicate.FieldBusinessType:
			args = append(args, f.Text)
		case predicate.FieldAssignedOperator:
			args = append(args, f.ID)
		}
		nextArg++
	}

	if expr.Text != nil {
		clause, err := buildTextClause(*expr.Text, nextArg)
		if err != nil {
			return "", nil, err
		}
		where = append(where, clause)
		args = append(args, textArg(*expr.Text))
	}

	if len(where) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(where, " AND "), args, nil
}

func buildTextClause(t predicate.TextClause, argN int) (string, error) {
	if len(t.Fields) == 0 {
		return "", fmt.Errorf("text clause without fields")
	}

	parts := make([]string, 0, len(t.Fields))
	for _, field := range t.Fields {
		col, ok := columns[field]
		if !ok {
			return "", fmt.Errorf("unsupported text field %q", field)
		}
		switch t.Op {
		case predicate.OpEquals:
			parts = append(parts, fmt.Sprintf("%s = $%d", col, argN))
		case predicate.OpPrefix, predicate.OpContains:
			parts = append(parts, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, col, argN))
		default:
			return "", fmt.Errorf("unsupported text op %q", t.Op)
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func textArg(t predicate.TextClause) string {
	switch t.Op {
	case predicate.OpPrefix:
		return escapeLike(t.Value) + "%"
	case predicate.OpContains:
		return "%" + escapeLike(t.Value) + "%"
	default:
		return t.Value
	}
}
