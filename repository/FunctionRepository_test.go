package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateQuoteNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	code := GenerateQuoteNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^FC-20260829-\d{4}$`), code)
}

func TestFormatCorrelative(t *testing.T) {
	assert.Equal(t, "0000", FormatCorrelative(0))
	assert.Equal(t, "0001", FormatCorrelative(1))
	assert.Equal(t, "0042", FormatCorrelative(42))
	assert.Equal(t, "9999", FormatCorrelative(9999))
	assert.Equal(t, "10000", FormatCorrelative(10000))
}
