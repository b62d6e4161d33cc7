package repository

import (
	"strings"
	"testing"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/predicate"
)

func build(t *testing.T, query string, mode domain.Mode, filters domain.FilterSet) (string, []interface{}) {
	t.Helper()
	expr := predicate.Build(domain.SearchRequest{Query: query, Mode: mode, Filters: filters})
	sql, args, err := buildCandidateQuery(expr)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return sql, args
}

func TestQueryTextTravelsOnlyAsArgument(t *testing.T) {
	hostile := "x'); DROP TABLE clients; --"
	sql, args := build(t, hostile, domain.ModeFullText, domain.FilterSet{})

	if strings.Contains(sql, "DROP TABLE") {
		t.Fatalf("query text leaked into SQL: %s", sql)
	}
	if len(args) != 1 || args[0] != "%"+hostile+"%" {
		t.Fatalf("unexpected args: %#v", args)
	}
	if strings.Contains(strings.ToUpper(sql), "ORDER BY") || strings.Contains(strings.ToUpper(sql), "LIMIT") {
		t.Fatalf("candidate query must not order or limit: %s", sql)
	}
}

func TestLikeWildcardsAreEscaped(t *testing.T) {
	_, args := build(t, `50%_off\`, domain.ModeAutocomplete, domain.FilterSet{})
	want := `50\%\_off\\%`
	if len(args) != 1 || args[0] != want {
		t.Fatalf("expected %q, got %#v", want, args)
	}
}

func TestExactModeUsesEquality(t *testing.T) {
	sql, args := build(t, "IT01234567890", domain.ModeExact, domain.FilterSet{})

	for _, frag := range []string{"c.display_name = $1", "c.tax_code = $1", "c.vat_number = $1", "c.email = $1"} {
		if !strings.Contains(sql, frag) {
			t.Fatalf("expected %q in %s", frag, sql)
		}
	}
	if strings.Contains(sql, "ILIKE $") {
		t.Fatal("exact mode must not use ILIKE")
	}
	if args[0] != "IT01234567890" {
		t.Fatalf("unexpected arg %#v", args[0])
	}
}

func TestFullTextCoversOperatorName(t *testing.T) {
	sql, _ := build(t, "rossi", domain.ModeFullText, domain.FilterSet{})
	if !strings.Contains(sql, `o.full_name ILIKE $1 ESCAPE '\'`) {
		t.Fatalf("expected operator name clause in %s", sql)
	}
}

func TestFiltersAreParameterizedAndANDed(t *testing.T) {
	businessType := "srl"
	operator := int64(7)
	sql, args := build(t, "ac", domain.ModeAutocomplete, domain.FilterSet{
		Status:             domain.StatusActive,
		BusinessType:       &businessType,
		AssignedOperatorID: &operator,
	})

	for _, frag := range []string{
		"c.is_active = $1",
		"lower(c.business_type) = $2",
		"c.assigned_operator_id = $3",
		"c.display_name ILIKE $4",
		" AND ",
	} {
		if !strings.Contains(sql, frag) {
			t.Fatalf("expected %q in %s", frag, sql)
		}
	}
	if len(args) != 4 || args[0] != true || args[1] != "srl" || args[2] != int64(7) || args[3] != "ac%" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestEmptyExpressionHasNoWhere(t *testing.T) {
	sql, args := build(t, "", domain.ModeFullText, domain.FilterSet{})
	if strings.Contains(sql, "WHERE c.") || strings.Contains(sql, "\nWHERE") {
		t.Fatalf("expected no top-level WHERE: %s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %#v", args)
	}
}

func TestCaseAggregatesAreBatched(t *testing.T) {
	sql, _ := build(t, "", domain.ModeFullText, domain.FilterSet{})
	if strings.Count(sql, "LEFT JOIN LATERAL") != 2 {
		t.Fatalf("expected two lateral aggregates: %s", sql)
	}
	if !strings.Contains(sql, "FILTER (WHERE cc.status = 'open')") {
		t.Fatalf("expected open case aggregate: %s", sql)
	}
}
