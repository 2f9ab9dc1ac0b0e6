package bankparser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
)

// abancaLineRe matches one movement line of a pdftotext-extracted Abanca
// statement: date, free-text concept, signed amount, running balance.
var abancaLineRe = regexp.MustCompile(
	`^\s*(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(-?[\d.]+,\d{2})\s+(-?[\d.]+,\d{2})\s*$`)

// AbancaParser decodes Abanca PDF statements via a text extractor. The
// statement header carries the account IBAN; each movement occupies one
// layout line.
type AbancaParser struct {
	extractor TextExtractor
	logger    logging.Logger
}

func NewAbanca(extractor TextExtractor, logger logging.Logger) *AbancaParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AbancaParser{extractor: extractor, logger: logger}
}

func (p *AbancaParser) Bank() string { return models.BankAbanca }

func (p *AbancaParser) ValidateFormat(r io.Reader) (bool, error) {
	// PDF files start with the %PDF magic; the extractor is too expensive
	// for sniffing.
	head := make([]byte, 5)
	n, err := io.ReadFull(r, head)
	if err != nil && n < 5 {
		return false, nil
	}
	return string(head[:n]) == "%PDF-", nil
}

func (p *AbancaParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	text, err := p.extractor.Extract(r)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", sourceFile, err)
	}

	account := ibanRe.FindString(text)
	if account == "" {
		return nil, fmt.Errorf("%s: no account IBAN in statement header", sourceFile)
	}

	var records []models.Transaction
	for _, line := range strings.Split(text, "\n") {
		m := abancaLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := parseDate(m[1], "02/01/2006")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		amount, err := parseAmount(m[3])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		records = append(records, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(m[2]),
			Bank:        models.BankAbanca,
			Account:     account,
			SourceFile:  sourceFile,
			LineNum:     len(records) + 1,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no movement lines found", sourceFile)
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed Abanca statement")
	return records, nil
}
