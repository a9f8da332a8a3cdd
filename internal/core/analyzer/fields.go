package analyzer

import (
	"regexp"
	"strings"
)

// Pattern tables for the 16 string fields. Rule order is a correctness
// property: anchored layout patterns (uppercase labels from known document
// layouts, rupee-anchored amounts) are declared before generic labeled
// patterns, which are declared before loose fallbacks.

var tenantNameRules = []rule{
	{regexp.MustCompile(`(?i)tenant[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)renter[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)lessee[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
}

var landlordNameRules = []rule{
	{regexp.MustCompile(`(?i)landlord[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)lessor[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)owner[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)property\s+owner[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
}

var propertyAddressRules = []rule{
	{regexp.MustCompile(`(?i)property\s+address[:\s]*([^\n]+)`), validAddress},
	{regexp.MustCompile(`(?i)address[:\s]*([^\n]+(?:\d{5}|\d{6}))`), validAddress},
	{regexp.MustCompile(`(?i)located\s+at[:\s]*([^\n]+)`), validAddress},
	{regexp.MustCompile(`(?i)premises[:\s]*([^\n]+)`), validAddress},
}

var leaseStartDateRules = []rule{
	{regexp.MustCompile(`(?i)lease\s+start\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)start\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)commencement\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)lease\s+begins[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
}

var leaseEndDateRules = []rule{
	{regexp.MustCompile(`(?i)lease\s+end\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)end\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)expiration\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)lease\s+expires[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
}

var monthlyRentRules = []rule{
	{regexp.MustCompile(`(?i)monthly\s+rent[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)rent[:\s]*\$?([\d,]+\.?\d*)\s*(?:per\s+month|monthly|/month)`), nil},
	{regexp.MustCompile(`(?i)rental\s+amount[:\s]*\$?([\d,]+\.?\d*)`), nil},
}

var securityDepositRules = []rule{
	{regexp.MustCompile(`(?i)security\s+deposit[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)deposit[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)damage\s+deposit[:\s]*\$?([\d,]+\.?\d*)`), nil},
}

// Bare 5/6-digit fallbacks only count when a recognized region name follows;
// that keeps invoice numbers from being read as postal codes.
var pinCodeRules = []rule{
	{regexp.MustCompile(`(?i)pin\s+code:\s*(\d{5,6})`), nil},
	{regexp.MustCompile(`(?i)pin\s+code[:\s]*(\d{5,6})`), nil},
	{regexp.MustCompile(`(?i)zip\s+code[:\s]*(\d{5})`), nil},
	{regexp.MustCompile(`(?i)postal\s+code[:\s]*(\d{5,6})`), nil},
	{regexp.MustCompile(`(?i)pin\s+code\s*:\s*(\d{5,6})`), nil},
	{regexp.MustCompile(`(?i)\b(\d{6})\b(?:\s*Tamil\s+Nadu|\s*India|\s*Telangana)`), nil},
	{regexp.MustCompile(`(?i)\b(\d{5})\b(?:\s*Tamil\s+Nadu|\s*India|\s*Telangana)`), nil},
}

var invoiceNumberRules = []rule{
	{regexp.MustCompile(`INVOICE#\s*:\s*([A-Za-z0-9-]+)`), nil},
	{regexp.MustCompile(`(?i)invoice\s+(?:number|#)[:\s]*([A-Za-z0-9-]+)`), nil},
	{regexp.MustCompile(`(?i)invoice[:\s]*([A-Za-z0-9-]+)`), nil},
	{regexp.MustCompile(`(?i)bill\s+(?:number|#)[:\s]*([A-Za-z0-9-]+)`), nil},
	{regexp.MustCompile(`TAX\s+INVOICE[^#]*#\s*:\s*([A-Za-z0-9-]+)`), nil},
}

var invoiceDateRules = []rule{
	{regexp.MustCompile(`DATE\s*:\s*(\d{1,2}\s+[A-Za-z]+\s+\d{4})`), nil},
	{regexp.MustCompile(`(?i)invoice\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)bill\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`DATE\s*:\s*(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})`), nil},
}

var dueDateRules = []rule{
	{regexp.MustCompile(`DUE\s+DATE\s*:\s*(\d{1,2}\s+[A-Za-z]+\s+\d{4})`), nil},
	{regexp.MustCompile(`(?i)due\s+date[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)payment\s+due[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`(?i)due\s+by[:\s]*([A-Za-z]+ \d{1,2},? \d{4})`), nil},
	{regexp.MustCompile(`DUE\s+DATE\s*:\s*(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})`), nil},
}

var billToNameRules = []rule{
	{regexp.MustCompile(`(?i)Bill\s+To\s*\n\s*([A-Za-z\s]+?)(?:\n|Attn:)`), validName},
	{regexp.MustCompile(`(?i)bill\s+to[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)billed\s+to[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)customer[:\s]*([A-Za-z\s]+?)(?:\n|$|,)`), validName},
	{regexp.MustCompile(`(?i)Bill\s+To[^A-Za-z]*([A-Za-z\s]+?)(?:Attn:|H\s+No\.|Address:|$)`), validName},
}

var billToAddressRules = []rule{
	{regexp.MustCompile(`(?i)Bill\s+To[^H]*H\s+No\.([^G]*?)(?:GSTIN|Telangana)`), validAddress},
	{regexp.MustCompile(`(?i)bill\s+to[:\s]*[A-Za-z\s]+\n([^\n]+(?:\d{5}|\d{6}))`), validAddress},
	{regexp.MustCompile(`(?i)billing\s+address[:\s]*([^\n]+)`), validAddress},
	{regexp.MustCompile(`(?i)customer\s+address[:\s]*([^\n]+)`), validAddress},
	{regexp.MustCompile(`(?i)Attn:[^\n]*\n([^G]*?)(?:GSTIN|$)`), validAddress},
}

var totalAmountRules = []rule{
	{regexp.MustCompile(`(?i)Total\s+₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)Total\s+Rs\.?\s*([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)total\s+amount[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)total\s+amount[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)total[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)total[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)amount\s+due[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)amount\s+due[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)balance\s+due[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)balance\s+due[:\s]*₹([\d,]+\.?\d*)`), nil},
}

var taxAmountRules = []rule{
	{regexp.MustCompile(`IGST18\s*\(18%\)\s*([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`IGST\s*\d+\s*\([^)]+\)\s*([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)tax[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)tax[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)sales\s+tax[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)sales\s+tax[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)vat[:\s]*\$?([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)vat[:\s]*₹([\d,]+\.?\d*)`), nil},
	{regexp.MustCompile(`(?i)GST[:\s]*₹([\d,]+\.?\d*)`), nil},
}

func extractAmount(text string, rules []rule) *string {
	v, ok := firstMatch(text, rules)
	if !ok {
		return nil
	}
	s := formatAmount(text, v)
	return &s
}

// Payment status is a fixed-priority decision list; the first matching
// branch wins. A zero balance counts as paid even without a "paid" marker.
var (
	statusPaidRE        = regexp.MustCompile(`\bpaid\b|\bpayment\s+received\b|\bcomplete\b|\bpayment\s+made\b`)
	statusZeroBalanceRE = regexp.MustCompile(`balance\s+due\s*₹?0\.00|balance\s+due\s*\$?0\.00`)
	statusDueRE         = regexp.MustCompile(`\bdue\b|\bpending\b|\bunpaid\b|\boverdue\b`)
	statusPartialRE     = regexp.MustCompile(`\bpartial\b|\bpartially\s+paid\b`)
)

func extractPaymentStatus(text string) *string {
	lowered := strings.ToLower(text)

	var status string
	switch {
	case statusPaidRE.MatchString(lowered):
		status = "paid"
	case statusZeroBalanceRE.MatchString(lowered):
		status = "paid"
	case statusDueRE.MatchString(lowered):
		status = "due"
	case statusPartialRE.MatchString(lowered):
		status = "partial"
	default:
		return nil
	}
	return &status
}

var petKeywordREs = compileAll(
	`\bpet\b`,
	`\bdog\b`,
	`\bcat\b`,
	`\banimal\b`,
	`\bpuppy\b`,
	`\bkitten\b`,
	`\bpets\s+allowed\b`,
	`\bno\s+pets\b`,
	`\bpet\s+deposit\b`,
	`\bpet\s+fee\b`,
)

// petsMentioned reports whether pets are discussed at all; "no pets" still
// counts. Downstream consumers rely on the "discussed" semantics, so this
// must not be tightened to "pets permitted".
func petsMentioned(text string) bool {
	lowered := strings.ToLower(text)
	for _, re := range petKeywordREs {
		if re.MatchString(lowered) {
			return true
		}
	}
	return false
}
