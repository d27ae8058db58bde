package repository

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateQuoteNumber builds the human-readable quote code assigned at
// submission time: FC-{YYYYMMDD}-{4-digit-random}. The random suffix keeps
// collisions unlikely but not impossible; the correlative, not this code, is
// the sequential identifier.
func GenerateQuoteNumber(now time.Time) string {
	rng := rand.New(rand.NewSource(now.UnixNano()))
	suffix := rng.Intn(9000) + 1000

	return fmt.Sprintf("FC-%s-%04d", now.Format("20060102"), suffix)
}

// FormatCorrelative zero-pads a sequence number to the 4-digit correlative
// form.
func FormatCorrelative(n int) string {
	return fmt.Sprintf("%04d", n)
}
