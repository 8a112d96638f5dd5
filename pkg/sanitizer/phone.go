package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers written without a country code.
const DefaultRegion = "HR"

// NormalizePhone returns the E.164 form of a valid phone number, or "" when the input
// cannot be parsed as one.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

func IsValidPhone(phone string) bool {
	return NormalizePhone(phone) != ""
}
