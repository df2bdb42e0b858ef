package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Cents converts a scraped price string into minor currency units.
// It tolerates comma decimal separators and trailing currency or unit
// suffixes like "€" or "€/vnt.". Returns nil for anything unparseable;
// malformed input is expected and never an error.
func Cents(raw string) *int32 {
	price := strings.TrimRightFunc(strings.TrimSpace(raw), func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	price = strings.ReplaceAll(price, ",", ".")

	if strings.Count(price, ".") != 1 {
		return nil
	}

	parts := strings.SplitN(price, ".", 2)
	euros, cents := parts[0], parts[1]

	// minor units must be exactly two digits, "1.5" is ambiguous
	if len(cents) != 2 || !isDigits(euros) || !isDigits(cents) {
		return nil
	}

	eurosVal, err := strconv.ParseInt(euros, 10, 32)
	if err != nil {
		return nil
	}
	centsVal, err := strconv.ParseInt(cents, 10, 32)
	if err != nil {
		return nil
	}

	return lo.ToPtr(int32(eurosVal)*100 + int32(centsVal))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
