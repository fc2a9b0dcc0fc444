package sanitizer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// DigitsOnly drops every rune that is not an ASCII digit.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone keeps the patient's number as typed apart from surrounding
// and repeated whitespace. Malformed numbers are tolerated.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, TrimAndNormalize(phone))
}

// RegionForCountryCode maps a calling code such as "91" to its main region.
func RegionForCountryCode(countryCode string) string {
	code, err := strconv.Atoi(strings.TrimPrefix(countryCode, "+"))
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(code)
	if region == "ZZ" {
		return ""
	}
	return region
}

// FormatForDisplay renders phone in international format, reading numbers
// without a leading '+' as local to countryCode. Anything the parser rejects
// is returned trimmed but otherwise untouched.
func FormatForDisplay(phone, countryCode string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || DigitsOnly(phone) == "" {
		return phone
	}

	region := RegionForCountryCode(countryCode)
	if region == "" && !strings.HasPrefix(phone, "+") {
		return phone
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
