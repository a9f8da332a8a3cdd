package analyzer

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/mkravets/estate-docs/internal/core/domain"
)

func testEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func reqField(t *testing.T, name string, got *string, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %q", name, want)
	}
	if *got != want {
		t.Fatalf("%s = %q, want %q", name, *got, want)
	}
}

func reqNil(t *testing.T, name string, got *string) {
	t.Helper()
	if got != nil {
		t.Fatalf("%s = %q, want nil", name, *got)
	}
}

const rentalText = `RENTAL AGREEMENT

Landlord: John Property Smith
Tenant: Sarah Jane Wilson
Property Address: 425 Oak Avenue, Apartment 2B, Springfield, IL 62704
Lease Start Date: January 1, 2024
Lease End Date: December 31, 2024
Monthly Rent: $1,850.00
Security Deposit: $2,500
Pin Code: 62704
Contact: (555) 123-4567 or 555.987.6543
No pets allowed on the premises.`

func TestAnalyzeRentalAgreement(t *testing.T) {
	res := testEngine().Analyze(rentalText)

	reqField(t, "document_type", res.DocumentType, "rental_agreement")
	reqField(t, "tenant_name", res.TenantName, "Sarah Jane Wilson")
	reqField(t, "landlord_name", res.LandlordName, "John Property Smith")
	reqField(t, "property_address", res.PropertyAddress, "425 Oak Avenue, Apartment 2B, Springfield, IL 62704")
	reqField(t, "lease_start_date", res.LeaseStartDate, "January 1, 2024")
	reqField(t, "lease_end_date", res.LeaseEndDate, "December 31, 2024")
	reqField(t, "monthly_rent", res.MonthlyRent, "$1850.00")
	reqField(t, "security_deposit", res.SecurityDeposit, "$2500")
	reqField(t, "pin_code", res.PinCode, "62704")

	// The generic "date:" fallback also matches lease date lines.
	reqField(t, "invoice_date", res.InvoiceDate, "January 1, 2024")
	reqNil(t, "invoice_number", res.InvoiceNumber)
	reqNil(t, "due_date", res.DueDate)
	reqNil(t, "bill_to_name", res.BillToName)
	reqNil(t, "total_amount", res.TotalAmount)
	reqNil(t, "payment_status", res.PaymentStatus)

	wantPhones := []string{"(555) 123-4567", "(555) 987-6543"}
	if !reflect.DeepEqual(res.PhoneNumbers, wantPhones) {
		t.Fatalf("phone_numbers = %v, want %v", res.PhoneNumbers, wantPhones)
	}
	if !res.PetsMentioned {
		t.Fatalf("pets_mentioned = false, want true")
	}
	if res.ConfidenceScore != 0.84 {
		t.Fatalf("confidence_score = %v, want 0.84", res.ConfidenceScore)
	}
}

const rupeeInvoiceText = `TAX INVOICE

INVOICE# : 1025260110273
DATE : 12 Jun 2025
DUE DATE : 12 Jun 2025

Bill To
Ravi Kumar
Attn: Accounts
H No.8-2-293, Road No 14, Banjara Hills Hyderabad 500034
GSTIN : 36ABCDE1234F1Z5

IGST18 (18%) 647.82
Total ₹4,246.82
Balance Due ₹0.00
Payment Made ₹4,246.82
Pin Code: 500034 Telangana`

func TestAnalyzeRupeeInvoice(t *testing.T) {
	res := testEngine().Analyze(rupeeInvoiceText)

	reqField(t, "document_type", res.DocumentType, "invoice")
	reqField(t, "invoice_number", res.InvoiceNumber, "1025260110273")
	reqField(t, "invoice_date", res.InvoiceDate, "12 Jun 2025")
	reqField(t, "due_date", res.DueDate, "12 Jun 2025")
	reqField(t, "bill_to_name", res.BillToName, "Ravi Kumar")
	reqField(t, "bill_to_address", res.BillToAddress, "8-2-293, Road No 14, Banjara Hills Hyderabad 500034")
	reqField(t, "total_amount", res.TotalAmount, "₹4246.82")
	reqField(t, "tax_amount", res.TaxAmount, "₹647.82")
	reqField(t, "payment_status", res.PaymentStatus, "paid")
	reqField(t, "pin_code", res.PinCode, "500034")

	// The loose phone shape accepts ten consecutive digits, so long numeric
	// identifiers surface as phone hits.
	wantPhones := []string{"(102) 526-0110"}
	if !reflect.DeepEqual(res.PhoneNumbers, wantPhones) {
		t.Fatalf("phone_numbers = %v, want %v", res.PhoneNumbers, wantPhones)
	}
	if res.PetsMentioned {
		t.Fatalf("pets_mentioned = true, want false")
	}
	if res.ConfidenceScore != 0.72 {
		t.Fatalf("confidence_score = %v, want 0.72", res.ConfidenceScore)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	res := testEngine().Analyze("")
	if !reflect.DeepEqual(res, domain.EmptyAnalysisResult()) {
		t.Fatalf("Analyze(\"\") = %+v, want empty result", res)
	}
	if res.ConfidenceScore != 0 {
		t.Fatalf("confidence_score = %v, want 0", res.ConfidenceScore)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	eng := testEngine()
	first := eng.Analyze(rupeeInvoiceText)
	second := eng.Analyze(rupeeInvoiceText)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated analysis differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
