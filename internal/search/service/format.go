package service

import (
	"fmt"
	"strings"
	"time"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/transport"
	"clientregistry/platform/phone"
)

const subtitleSeparator = " • "

// Icon names understood by the frontend.
const (
	IconPerson       = "user"
	IconSoleTrader   = "briefcase"
	IconCompany      = "building"
	IconAssociation  = "users"
	IconProfessional = "id-badge"
	IconDefault      = "address-card"
)

var iconsByBusinessType = map[string]string{
	"persona_fisica":      IconPerson,
	"privato":             IconPerson,
	"ditta_individuale":   IconSoleTrader,
	"impresa_individuale": IconSoleTrader,
	"professionista":      IconProfessional,
	"srl":                 IconCompany,
	"srls":                IconCompany,
	"spa":                 IconCompany,
	"sas":                 IconCompany,
	"snc":                 IconCompany,
	"cooperativa":         IconCompany,
	"associazione":        IconAssociation,
	"fondazione":          IconAssociation,
}

// Icon picks the result icon for a business type.
func Icon(businessType string) string {
	if icon, ok := iconsByBusinessType[strings.ToLower(strings.TrimSpace(businessType))]; ok {
		return icon
	}
	return IconDefault
}

// Subtitle joins the first two present of tax code, VAT number, email and phone.
func Subtitle(rec domain.CandidateRecord) string {
	parts := make([]string, 0, 2)
	for _, v := range []string{rec.TaxCode, rec.VATNumber, rec.Email, rec.Phone} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts = append(parts, v)
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, subtitleSeparator)
}

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}

	elapsed := now.Sub(*t)
	switch {
	case elapsed < time.Minute:
		return "now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d min ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(elapsed/time.Hour))
	case elapsed < 7*24*time.Hour:
		days := int(elapsed / (24 * time.Hour))
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("02/01/2006")
	}
}

func toItem(r domain.ScoredResult) transport.SearchResultItem {
	rec := r.Record
	item := transport.SearchResultItem{
		ID:                  rec.ID,
		DisplayName:         rec.DisplayName,
		HighlightedName:     r.HighlightedName,
		TaxCode:             rec.TaxCode,
		VATNumber:           rec.VATNumber,
		Email:               rec.Email,
		Phone:               rec.Phone,
		PhoneE164:           phone.E164(rec.Phone),
		MobilePhone:         rec.MobilePhone,
		MobilePhoneE164:     phone.E164(rec.MobilePhone),
		Address:             rec.Address,
		City:                rec.City,
		Province:            rec.Province,
		PostalCode:          rec.PostalCode,
		BusinessType:        rec.BusinessType,
		FiscalRegime:        rec.FiscalRegime,
		Active:              rec.Active,
		AssignedOperatorID:  rec.AssignedOperatorID,
		AssignedOperator:    rec.AssignedOperatorName,
		TotalCases:          rec.TotalCases,
		OpenCases:           rec.OpenCases,
		LastContactRelative: r.LastContactRelative,
		Subtitle:            r.Subtitle,
		Icon:                r.Icon,
		Score:               r.Score,
	}
	if rec.LastContactAt != nil {
		ts := rec.LastContactAt.UTC().Format(time.RFC3339)
		item.LastContact = &ts
	}
	return item
}

func filtersEcho(f domain.FilterSet) transport.FiltersEcho {
	return transport.FiltersEcho{
		Status:       string(f.Status),
		BusinessType: f.BusinessType,
		Operator:     f.AssignedOperatorID,
		ActiveOnly:   f.ActiveOnly,
	}
}
