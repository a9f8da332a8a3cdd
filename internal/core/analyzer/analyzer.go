// Package analyzer classifies real-estate document text and extracts the
// structured fields the rest of the system stores and serves. Extraction is
// rule-based: ordered regular-expression lists per field with first-match-wins
// semantics, followed by a heuristic confidence score.
package analyzer

import (
	"log/slog"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

// Engine implements ports.DocumentAnalyzer. It is stateless and safe for
// concurrent use; all rule tables are compiled at package init.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Analyze runs classification, every field extractor, and the confidence
// scorer over the text. It never fails: a panic in any rule degrades to the
// empty zero-confidence record so one malformed document cannot take down a
// worker.
func (e *Engine) Analyze(text string) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analysis panicked, returning empty result", "panic", r)
			result = domain.EmptyAnalysisResult()
		}
	}()

	result = domain.EmptyAnalysisResult()

	if docType, ok := classify(text); ok {
		s := string(docType)
		result.DocumentType = &s
	}

	result.TenantName = extract(text, tenantNameRules)
	result.LandlordName = extract(text, landlordNameRules)
	result.PropertyAddress = extract(text, propertyAddressRules)
	result.LeaseStartDate = extract(text, leaseStartDateRules)
	result.LeaseEndDate = extract(text, leaseEndDateRules)
	result.MonthlyRent = extractAmount(text, monthlyRentRules)
	result.SecurityDeposit = extractAmount(text, securityDepositRules)
	result.PinCode = extract(text, pinCodeRules)
	result.PhoneNumbers = extractPhoneNumbers(text)

	result.InvoiceNumber = extract(text, invoiceNumberRules)
	result.InvoiceDate = extract(text, invoiceDateRules)
	result.DueDate = extract(text, dueDateRules)
	result.BillToName = extract(text, billToNameRules)
	result.BillToAddress = extract(text, billToAddressRules)
	result.TotalAmount = extractAmount(text, totalAmountRules)
	result.TaxAmount = extractAmount(text, taxAmountRules)
	result.PaymentStatus = extractPaymentStatus(text)
	result.PetsMentioned = petsMentioned(text)

	result.ConfidenceScore = confidenceScore(text, &result)

	e.logger.Debug("document analyzed",
		"document_type", derefOr(result.DocumentType, "unknown"),
		"populated_fields", result.PopulatedFieldCount(),
		"confidence", result.ConfidenceScore,
	)
	return result
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
