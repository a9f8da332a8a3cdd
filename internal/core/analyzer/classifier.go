package analyzer

import (
	"regexp"
	"strings"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

// invoiceFastPathRE short-circuits classification: invoices self-identify
// reliably, and a stray rental/utility keyword in a billing line item must
// not out-score them.
var invoiceFastPathRE = regexp.MustCompile(`tax\s+invoice|invoice#|invoice\s+number`)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// typeKeywords holds the per-type keyword pattern lists. Declaration order
// doubles as the tie-break order.
var typeKeywords = []struct {
	docType  domain.DocumentType
	patterns []*regexp.Regexp
}{
	{domain.TypeInvoice, compileAll(
		`invoice`,
		`tax\s+invoice`,
		`invoice#`,
		`bill\s+to`,
		`invoice\s+number`,
		`invoice\s+date`,
		`due\s+date`,
		`total\s+amount`,
		`amount\s+due`,
		`gstin`,
		`pan\s+no`,
		`payment\s+made`,
	)},
	{domain.TypeRentalAgreement, compileAll(
		`lease\s+agreement`,
		`rental\s+agreement`,
		`landlord`,
		`tenant`,
		`monthly\s+rent`,
		`lease\s+start`,
		`lease\s+end`,
		`security\s+deposit`,
	)},
	{domain.TypeUtilityBill, compileAll(
		`utility\s+bill`,
		`electric\s+bill`,
		`gas\s+bill`,
		`water\s+bill`,
		`service\s+period`,
		`meter\s+reading`,
		`usage`,
	)},
}

// classify scores every keyword list against the lowered text, summing match
// counts rather than testing presence, and returns the strictly best type.
// All-zero scores mean the text is not classifiable.
func classify(text string) (domain.DocumentType, bool) {
	lowered := strings.ToLower(text)

	if invoiceFastPathRE.MatchString(lowered) {
		return domain.TypeInvoice, true
	}

	var best domain.DocumentType
	bestScore := 0
	for _, entry := range typeKeywords {
		score := 0
		for _, re := range entry.patterns {
			score += len(re.FindAllStringIndex(lowered, -1))
		}
		if score > bestScore {
			best = entry.docType
			bestScore = score
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return best, true
}
