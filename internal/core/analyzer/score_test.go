package analyzer

import (
	"strings"
	"testing"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

func strptr(s string) *string { return &s }

func TestScoreZeroWhenNothingExtracted(t *testing.T) {
	empty := domain.EmptyAnalysisResult()
	text := "Total: $100.00\n" + strings.Repeat("x", 200)
	if got := confidenceScore(text, &empty); got != 0 {
		t.Fatalf("confidenceScore() = %v, want 0 for empty result", got)
	}
}

func TestScoreBaseRatioWithoutQualityBonuses(t *testing.T) {
	res := domain.EmptyAnalysisResult()
	res.DocumentType = strptr("invoice")
	res.PaymentStatus = strptr("paid")
	// Short text, no colon, digit, or dollar sign: quality stays at 1.0.
	if got := confidenceScore("short", &res); got != 0.1 {
		t.Fatalf("confidenceScore() = %v, want 0.1", got)
	}
}

func TestScoreQualityBonuses(t *testing.T) {
	res := domain.EmptyAnalysisResult()
	res.DocumentType = strptr("invoice")
	res.TotalAmount = strptr("$100.00")
	text := "Total: $100.00\n" + strings.Repeat("x", 120)
	// Four bonuses stack: length, structure, digits, dollar amounts.
	if got := confidenceScore(text, &res); got != 0.14 {
		t.Fatalf("confidenceScore() = %v, want 0.14", got)
	}
}

func TestScoreRupeeTextGetsNoCurrencyBonus(t *testing.T) {
	res := domain.EmptyAnalysisResult()
	res.DocumentType = strptr("invoice")
	res.TotalAmount = strptr("₹100.00")
	text := "Total: ₹100.00\n" + strings.Repeat("x", 120)
	if got := confidenceScore(text, &res); got != 0.13 {
		t.Fatalf("confidenceScore() = %v, want 0.13", got)
	}
}

func TestScoreCappedAtOne(t *testing.T) {
	res := domain.EmptyAnalysisResult()
	for _, set := range []**string{
		&res.DocumentType, &res.TenantName, &res.LandlordName, &res.PropertyAddress,
		&res.LeaseStartDate, &res.LeaseEndDate, &res.MonthlyRent, &res.SecurityDeposit,
		&res.PinCode, &res.InvoiceNumber, &res.InvoiceDate, &res.DueDate,
		&res.BillToName, &res.BillToAddress, &res.TotalAmount, &res.TaxAmount,
		&res.PaymentStatus,
	} {
		*set = strptr("value")
	}
	res.PhoneNumbers = []string{"(555) 123-4567"}
	res.PetsMentioned = true

	text := "Everything: $1\n" + strings.Repeat("x", 120)
	if got := confidenceScore(text, &res); got != 1.0 {
		t.Fatalf("confidenceScore() = %v, want capped 1.0", got)
	}
}

func TestPopulatedFieldCountSkipsFalsePets(t *testing.T) {
	res := domain.EmptyAnalysisResult()
	res.DocumentType = strptr("invoice")
	if got := res.PopulatedFieldCount(); got != 1 {
		t.Fatalf("PopulatedFieldCount() = %d, want 1", got)
	}
	res.PetsMentioned = true
	if got := res.PopulatedFieldCount(); got != 2 {
		t.Fatalf("PopulatedFieldCount() = %d, want 2", got)
	}
}
