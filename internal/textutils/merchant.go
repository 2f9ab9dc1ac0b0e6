package textutils

import (
	"regexp"
	"strings"
)

// Extraction patterns: text between a known marker phrase and a known
// terminator phrase. First non-empty match wins, so bank-specific patterns
// precede the generic ones.
var (
	genericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)COMPRA (?:INTERNET |CONTACTLESS |TARJETA )?EN (.+?)(?:, CON LA TARJETA\b.*)?$`),
		regexp.MustCompile(`(?i)PAGO (?:MOVIL |CONTACTLESS )?EN (.+?)(?:, TARJ(?:\.|ETA)\b.*)?$`),
		regexp.MustCompile(`(?i)COMPRA (.+?), TARJETA\b.*$`),
		regexp.MustCompile(`(?i)ADEUDO RECIBO (.+?)(?:, REF\b.*)?$`),
	}

	bankPatterns = map[string][]*regexp.Regexp{
		"Santander": {
			regexp.MustCompile(`(?i)PAGO MOVIL EN (.+?), TARJ\..*$`),
			regexp.MustCompile(`(?i)COMPRA (.+?), TARJETA \d+.*$`),
		},
		"EVO": {
			regexp.MustCompile(`(?i)COMPRA TARJ\.\s*\S*\s+EN (.+)$`),
		},
	}

	cardNumberRe = regexp.MustCompile(`\b[\dXx*]{4,}\b`)
	spacesRe     = regexp.MustCompile(`\s{2,}`)
)

// ExtractMerchant pulls a canonical merchant token out of a free-text
// description. Bank-specific patterns are tried first, then the generic
// list; the first non-empty match is returned with embedded card numbers
// and trailing punctuation stripped. Returns "" when no pattern matches.
func ExtractMerchant(description, bank string) string {
	for _, re := range bankPatterns[bank] {
		if m := re.FindStringSubmatch(description); len(m) > 1 {
			if cleaned := cleanMerchant(m[1]); cleaned != "" {
				return cleaned
			}
		}
	}
	for _, re := range genericPatterns {
		if m := re.FindStringSubmatch(description); len(m) > 1 {
			if cleaned := cleanMerchant(m[1]); cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

func cleanMerchant(raw string) string {
	s := cardNumberRe.ReplaceAllString(raw, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t,.;:-")
}
