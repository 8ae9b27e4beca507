package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

// ParseAmount converts a user-entered decimal string to minor units.
// Up to two fraction digits are accepted; "50" and "50.00" parse to
// 5000, "50.5" to 5050.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if units < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}

	return units*100 + cents, nil
}

func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// NormalizeZelleTransactionID uppercases the input, strips everything
// outside [A-Z0-9] and truncates to the 9-character Zelle confirmation
// length. Applied on every keystroke/paste equivalent so the stored
// value is always canonical.
func NormalizeZelleTransactionID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == model.ZelleTransactionIDLen {
				break
			}
		}
	}
	return b.String()
}

// NormalizeBankReference keeps digits only, truncated to the
// 10-character account-number-like reference length.
func NormalizeBankReference(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == model.BankReferenceLen {
				break
			}
		}
	}
	return b.String()
}
