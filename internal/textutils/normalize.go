// Package textutils provides description normalization and merchant
// extraction. Both are pure functions: every classification layer may call
// them without re-deriving inconsistent results.
package textutils

import "strings"

// boilerplatePrefixes are known bank prefixes stripped before matching,
// ordered most specific first so "COMPRA INTERNET EN " wins over
// "COMPRA EN ". Transfer keywords are deliberately absent: the transfer
// detector matches on them.
var boilerplatePrefixes = []string{
	"COMPRA INTERNET EN ",
	"COMPRA CONTACTLESS EN ",
	"COMPRA TARJETA EN ",
	"COMPRA EN ",
	"PAGO MOVIL EN ",
	"PAGO CONTACTLESS EN ",
	"PAGO EN ",
	"ADEUDO RECIBO ",
	"RECIBO DOMICILIADO ",
	"CARGO POR ",
}

// Normalize strips known boilerplate prefixes from a raw description and
// trims whitespace. It strips at most one prefix per pass and repeats until
// none matches, so it is idempotent. Empty input is returned unchanged.
func Normalize(description string) string {
	s := strings.TrimSpace(description)
	for {
		stripped := false
		upper := strings.ToUpper(s)
		for _, prefix := range boilerplatePrefixes {
			if len(upper) > len(prefix) && strings.HasPrefix(upper, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}
