package domain

import "strings"

type DocumentType string

const (
	TypeInvoice         DocumentType = "invoice"
	TypeRentalAgreement DocumentType = "rental_agreement"
	TypeUtilityBill     DocumentType = "utility_bill"
)

// NominalFieldCount is the denominator used for field-completeness ratios.
// The live extractable-field count is 19; the constant is kept at 20 so the
// maximum achievable completeness stays below 1.0. Do not correct it without
// revisiting every stored confidence score.
const NominalFieldCount = 20

// AnalysisResult is the structured record produced for one document text.
// String fields are nil when no extraction rule matched; PhoneNumbers is
// always non-nil and free of duplicates.
type AnalysisResult struct {
	DocumentType    *string  `json:"document_type"`
	TenantName      *string  `json:"tenant_name"`
	LandlordName    *string  `json:"landlord_name"`
	PropertyAddress *string  `json:"property_address"`
	LeaseStartDate  *string  `json:"lease_start_date"`
	LeaseEndDate    *string  `json:"lease_end_date"`
	MonthlyRent     *string  `json:"monthly_rent"`
	SecurityDeposit *string  `json:"security_deposit"`
	PinCode         *string  `json:"pin_code"`
	PhoneNumbers    []string `json:"phone_numbers"`
	InvoiceNumber   *string  `json:"invoice_number"`
	InvoiceDate     *string  `json:"invoice_date"`
	DueDate         *string  `json:"due_date"`
	BillToName      *string  `json:"bill_to_name"`
	BillToAddress   *string  `json:"bill_to_address"`
	TotalAmount     *string  `json:"total_amount"`
	TaxAmount       *string  `json:"tax_amount"`
	PaymentStatus   *string  `json:"payment_status"`
	PetsMentioned   bool     `json:"pets_mentioned"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// EmptyAnalysisResult is the canonical zero record returned when analysis
// cannot run: every field absent, no phones, pets false, confidence 0.
func EmptyAnalysisResult() AnalysisResult {
	return AnalysisResult{PhoneNumbers: []string{}}
}

// stringFields maps JSON field names to the nullable string values, in
// declaration order. Shared by completeness counting and field search.
func (r *AnalysisResult) stringFields() []struct {
	Name  string
	Value *string
} {
	return []struct {
		Name  string
		Value *string
	}{
		{"document_type", r.DocumentType},
		{"tenant_name", r.TenantName},
		{"landlord_name", r.LandlordName},
		{"property_address", r.PropertyAddress},
		{"lease_start_date", r.LeaseStartDate},
		{"lease_end_date", r.LeaseEndDate},
		{"monthly_rent", r.MonthlyRent},
		{"security_deposit", r.SecurityDeposit},
		{"pin_code", r.PinCode},
		{"invoice_number", r.InvoiceNumber},
		{"invoice_date", r.InvoiceDate},
		{"due_date", r.DueDate},
		{"bill_to_name", r.BillToName},
		{"bill_to_address", r.BillToAddress},
		{"total_amount", r.TotalAmount},
		{"tax_amount", r.TaxAmount},
		{"payment_status", r.PaymentStatus},
	}
}

// PopulatedFieldCount counts extracted fields: non-nil non-empty strings,
// a non-empty phone list, and pets_mentioned only when true. The confidence
// score itself is never counted.
func (r *AnalysisResult) PopulatedFieldCount() int {
	n := 0
	for _, f := range r.stringFields() {
		if f.Value != nil && *f.Value != "" {
			n++
		}
	}
	if len(r.PhoneNumbers) > 0 {
		n++
	}
	if r.PetsMentioned {
		n++
	}
	return n
}

// SearchFields returns every extracted field whose value contains the query,
// case-insensitively. Phone numbers are matched individually.
func (r *AnalysisResult) SearchFields(query string) []FieldMatch {
	q := strings.ToLower(query)
	var matches []FieldMatch
	for _, f := range r.stringFields() {
		if f.Value != nil && *f.Value != "" && strings.Contains(strings.ToLower(*f.Value), q) {
			matches = append(matches, FieldMatch{Field: f.Name, Value: *f.Value})
		}
	}
	for _, phone := range r.PhoneNumbers {
		if strings.Contains(strings.ToLower(phone), q) {
			matches = append(matches, FieldMatch{Field: "phone_numbers", Value: phone})
		}
	}
	return matches
}
