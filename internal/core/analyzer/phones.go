package analyzer

import (
	"fmt"
	"regexp"
)

// Five phone shapes, most specific first. Every shape captures exactly
// area/exchange/line so all hits normalize to one canonical rendering.
var phoneREs = []*regexp.Regexp{
	regexp.MustCompile(`\((\d{3})\)\s*(\d{3})-(\d{4})`),
	regexp.MustCompile(`(\d{3})-(\d{3})-(\d{4})`),
	regexp.MustCompile(`(\d{3})\.(\d{3})\.(\d{4})`),
	regexp.MustCompile(`(\d{3})\s+(\d{3})\s+(\d{4})`),
	regexp.MustCompile(`\+?1?[-.\s]?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})`),
}

// extractPhoneNumbers collects every phone shape occurrence, normalizes it to
// "(area) exchange-line", and deduplicates while preserving first-seen order.
// The returned slice is never nil.
func extractPhoneNumbers(text string) []string {
	phones := []string{}
	seen := map[string]bool{}
	for _, re := range phoneREs {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			normalized := fmt.Sprintf("(%s) %s-%s", m[1], m[2], m[3])
			if seen[normalized] {
				continue
			}
			seen[normalized] = true
			phones = append(phones, normalized)
		}
	}
	return phones
}
