package payment

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// referencePattern matches the human-readable payout reference format:
// TRF-{YYYYMMDD}-{3-digit-random}-{up-to-3-letter-initials}
// Example: TRF-20241113-001-KBI (Kue Basah Ibu)
var referencePattern = regexp.MustCompile(`^TRF-\d{8}-\d{3}-[A-Z]{1,3}$`)

// randomSerial is swapped in tests for deterministic references
var randomSerial = func() int {
	return rand.IntN(900) + 100
}

// GenerateReference builds a payout reference from the supplier name and
// payment date. Uniqueness is best-effort: the random serial makes a
// collision negligible at expected volumes, and callers that need a hard
// guarantee pass an externally reserved reference instead.
func GenerateReference(supplierName string, at time.Time) string {
	return fmt.Sprintf("TRF-%s-%03d-%s",
		at.Format("20060102"),
		randomSerial(),
		SupplierInitials(supplierName))
}

// SupplierInitials returns the uppercase initials of the supplier name,
// capped at three letters. Only ASCII letters are used so the result always
// matches the reference pattern; an unusable name falls back to "X".
func SupplierInitials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if r >= 'a' && r <= 'z' {
				r = unicode.ToUpper(r)
			}
			if r >= 'A' && r <= 'Z' {
				b.WriteRune(r)
				break
			}
		}
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

// ValidReference reports whether a reference matches the TRF format
func ValidReference(reference string) bool {
	return referencePattern.MatchString(reference)
}
