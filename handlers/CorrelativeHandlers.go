package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"backend/models"
	"backend/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	exactCorrelativeRe    = regexp.MustCompile(`^\d{4}$`)
	embeddedCorrelativeRe = regexp.MustCompile(`\d{4}`)
)

// NextCorrelative computes the current and next 4-digit correlative by
// scanning every assigned value in fasercon_quotes. A value counts when it is
// exactly four digits, or failing that when it contains an embedded 4-digit
// group (older rows carried prefixes).
//
// This is a read-then-compute sequence with no lock and no store-side
// counter: two concurrent submissions can be handed the same next value.
// Accepted at current quoting volume; see DESIGN.md.
//
// The scan failing is not fatal. Correlatives are cosmetic sequencing, so the
// allocator falls back to 0000/0001 and returns the error for out-of-band
// reporting instead of propagating it.
func NextCorrelative(db *gorm.DB) (current string, next string, err error) {
	var values []string
	err = db.Table(models.TableQuotes).
		Where("correlative IS NOT NULL").
		Pluck("correlative", &values).Error
	if err != nil {
		return "0000", "0001", err
	}

	max := 0
	for _, v := range values {
		s := strings.TrimSpace(v)
		match := ""
		if exactCorrelativeRe.MatchString(s) {
			match = s
		} else {
			match = embeddedCorrelativeRe.FindString(s)
		}
		if match == "" {
			continue
		}
		if n, convErr := strconv.Atoi(match); convErr == nil && n > max {
			max = n
		}
	}

	return repository.FormatCorrelative(max), repository.FormatCorrelative(max + 1), nil
}

// NextCorrelativeHandler serves the allocator on both correlative routes.
// @Summary      Next quote correlative
// @Description  Returns the highest assigned correlative and the next free one. Falls back to 0000/0001 when the scan fails.
// @Tags         Quotes
// @Produce      json
// @Success      200  {object}  models.CorrelativeResponse
// @Router       /api/correlative/next [get]
func NextCorrelativeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, next, err := NextCorrelative(db.WithContext(c.Request.Context()))

		resp := models.CorrelativeResponse{Current: current, Next: next}
		if err != nil {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}
