// Package bankparser decodes the export formats of the supported banks into
// canonical records. Parsers are deliberately thin: they populate the raw
// fields and the 1-based line number and leave classification, hashing and
// deduplication to later stages.
package bankparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var ibanRe = regexp.MustCompile(`\bES\d{22}\b`)

// readCSV decodes semicolon- or comma-delimited rows into TCSVRow structs
// using their csv tags.
func readCSV[TCSVRow any](r io.Reader, comma rune) ([]TCSVRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// parseAmount accepts both the Spanish convention ("1.234,56") and the plain
// machine one ("1234.56").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "€", ""))
	s = strings.TrimSpace(strings.ReplaceAll(s, "EUR", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// parseDate tries each layout in order and truncates to the calendar day.
func parseDate(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// peekLines reads the first n lines for format sniffing.
func peekLines(r io.Reader, n int) ([]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return lines, nil
}

// All returns one parser per supported bank, in detection order. CSV
// dialects are sniffed by header, so order only matters among formats that
// share an extension.
func All(logger logging.Logger) []models.Parser {
	return []models.Parser{
		NewOpenBank(logger),
		NewSantander(logger),
		NewEVO(logger),
		NewING(logger),
		NewBBVA(logger),
		NewAbanca(NewPdftotextExtractor(), logger),
	}
}

// Detect picks the parser whose ValidateFormat accepts the content. The
// caller supplies a reopen function because sniffing consumes the reader.
func Detect(open func() (io.ReadCloser, error), logger logging.Logger) (models.Parser, error) {
	for _, p := range All(logger) {
		r, err := open()
		if err != nil {
			return nil, err
		}
		ok, err := p.ValidateFormat(r)
		_ = r.Close()
		if err != nil {
			continue
		}
		if ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no parser recognizes the file format")
}
