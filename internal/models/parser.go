package models

import "io"

// Parser is the interface every bank-format decoder implements. Parsers are
// thin: they yield canonical records with the raw fields populated and never
// classify, hash, or deduplicate.
type Parser interface {
	// Parse reads one export file and returns its records in file order,
	// with LineNum set to each record's 1-based position.
	Parse(r io.Reader, sourceFile string) ([]Transaction, error)

	// Bank returns the bank identifier this parser produces records for.
	Bank() string

	// ValidateFormat reports whether the file looks like this parser's
	// format without fully decoding it.
	ValidateFormat(r io.Reader) (bool, error)
}
