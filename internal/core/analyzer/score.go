package analyzer

import (
	"math"
	"strings"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

// confidenceScore rates an analysis: completeness ratio against the nominal
// field count, scaled by a text-quality bonus, capped at 1.0 and rounded to
// two decimals. Quality rewards longer texts with labeled structure, digits,
// and dollar amounts. Rupee texts do not get the currency bonus; their
// confidence runs slightly lower than equivalent dollar documents.
func confidenceScore(text string, result *domain.AnalysisResult) float64 {
	populated := result.PopulatedFieldCount()
	if populated == 0 {
		return 0
	}

	quality := 1.0
	if len(text) > 100 {
		quality += 0.1
	}
	if strings.ContainsAny(text, ":\n") {
		quality += 0.1
	}
	if strings.ContainsAny(text, "0123456789") {
		quality += 0.1
	}
	if strings.Contains(text, "$") {
		quality += 0.1
	}

	score := float64(populated) / domain.NominalFieldCount * quality
	if score > 1.0 {
		score = 1.0
	}
	return math.Round(score*100) / 100
}
