package analyzer

import "testing"

func TestTenantNameFallsThroughFailedValidation(t *testing.T) {
	// "Jo" is too short to pass the name check; the lessee rule supplies
	// the value instead.
	text := "Tenant: Jo\nLessee: Mary Jane Watson\n"
	got := extract(text, tenantNameRules)
	if got == nil || *got != "Mary Jane Watson" {
		t.Fatalf("tenant = %v, want Mary Jane Watson", got)
	}
}

func TestPropertyAddressRequiresDigitAndLetter(t *testing.T) {
	if got := extract("Premises: The Old Mill\n", propertyAddressRules); got != nil {
		t.Fatalf("address = %q, want nil for digit-free capture", *got)
	}
	got := extract("Located at: 12 Harbor Lane\n", propertyAddressRules)
	if got == nil || *got != "12 Harbor Lane" {
		t.Fatalf("address = %v, want 12 Harbor Lane", got)
	}
}

func TestAmountFormattingStripsCommas(t *testing.T) {
	got := extractAmount("Monthly Rent: $1,850.00", monthlyRentRules)
	if got == nil || *got != "$1850.00" {
		t.Fatalf("monthly_rent = %v, want $1850.00", got)
	}
}

func TestAmountCurrencyFollowsDocument(t *testing.T) {
	// A rupee sign anywhere in the text switches every amount to rupees,
	// even when the matched amount itself carried no symbol.
	got := extractAmount("Rental Amount: 12,000\nTotal ₹12,000", monthlyRentRules)
	if got == nil || *got != "₹12000" {
		t.Fatalf("monthly_rent = %v, want ₹12000", got)
	}
}

func TestPinCodeRegionFallback(t *testing.T) {
	got := extract("Kelambakkam 600127 Tamil Nadu", pinCodeRules)
	if got == nil || *got != "600127" {
		t.Fatalf("pin_code = %v, want 600127", got)
	}
	if got := extract("order ref 600127 confirmed", pinCodeRules); got != nil {
		t.Fatalf("pin_code = %q, want nil without label or region", *got)
	}
}

func TestInvoiceNumberUppercaseAnchor(t *testing.T) {
	got := extract("INVOICE# : 1025260110273\n", invoiceNumberRules)
	if got == nil || *got != "1025260110273" {
		t.Fatalf("invoice_number = %v, want 1025260110273", got)
	}
}

func TestPaymentStatusZeroBalanceCountsAsPaid(t *testing.T) {
	// "balance due" contains "due", but the zero-balance branch is checked
	// first.
	got := extractPaymentStatus("Balance Due $0.00")
	if got == nil || *got != "paid" {
		t.Fatalf("payment_status = %v, want paid", got)
	}
}

func TestPaymentStatusBranches(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"INVOICE PAID IN FULL", "paid"},
		{"Payment made via UPI", "paid"},
		{"Amount Due: $50.00", "due"},
		{"Status: partial", "partial"},
	}
	for _, tc := range cases {
		got := extractPaymentStatus(tc.text)
		if got == nil || *got != tc.want {
			t.Fatalf("extractPaymentStatus(%q) = %v, want %q", tc.text, got, tc.want)
		}
	}
	if got := extractPaymentStatus("no payment words here"); got != nil {
		t.Fatalf("payment_status = %q, want nil", *got)
	}
}

func TestPetsMentionedIncludesProhibitions(t *testing.T) {
	if !petsMentioned("Strictly no pets on the premises") {
		t.Fatalf("petsMentioned = false for a pet prohibition")
	}
	if !petsMentioned("One cat lives here") {
		t.Fatalf("petsMentioned = false for cat")
	}
	if petsMentioned("new carpet installed") {
		t.Fatalf("petsMentioned = true for carpet")
	}
}
