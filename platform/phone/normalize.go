// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country prefix.
const DefaultRegion = "IT"

// E164 formats a phone number to E.164 for dialing links. It returns ""
// when the input is not a valid number, so callers can omit the field.
func E164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	number, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil {
		return ""
	}

	if !phonenumbers.IsValidNumber(number) {
		return ""
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
