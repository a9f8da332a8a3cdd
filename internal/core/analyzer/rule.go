package analyzer

import (
	"regexp"
	"strings"
)

// rule is one entry in an ordered extraction list. Rules are tried in
// declaration order; the first pattern whose trimmed capture passes its
// validator wins and later rules are skipped. Order encodes priority:
// layout-anchored patterns are declared before loosely-labeled ones.
type rule struct {
	re       *regexp.Regexp
	validate func(string) bool
}

// firstMatch returns the first validated capture across rules.
// A rule whose first match fails validation does not get a second chance;
// the search moves on to the next rule.
func firstMatch(text string, rules []rule) (string, bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		captured := strings.TrimSpace(m[1])
		if captured == "" {
			continue
		}
		if r.validate != nil && !r.validate(captured) {
			continue
		}
		return captured, true
	}
	return "", false
}

func extract(text string, rules []rule) *string {
	if v, ok := firstMatch(text, rules); ok {
		return &v
	}
	return nil
}

var (
	digitRE        = regexp.MustCompile(`\d`)
	addressShapeRE = regexp.MustCompile(`\d+.*[A-Za-z]`)
)

// validName rejects captures that are too short to be a person's name or
// that contain digits (spurious address fragments).
func validName(s string) bool {
	return len(s) > 2 && !digitRE.MatchString(s)
}

// validAddress requires at least one digit followed somewhere by a letter,
// which filters out bare numbers and label-only captures.
func validAddress(s string) bool {
	return addressShapeRE.MatchString(s)
}

// formatAmount strips thousands separators and prefixes the currency symbol.
// The symbol is inferred from the whole source text: any rupee sign anywhere
// makes the document a rupee document, otherwise dollars are assumed.
func formatAmount(text, amount string) string {
	amount = strings.ReplaceAll(amount, ",", "")
	if strings.Contains(text, "₹") {
		return "₹" + amount
	}
	return "$" + amount
}
