package bankparser

import (
	"fmt"
	"io"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
)

const evoHeader = "Fecha;Concepto;Importe;Divisa"

// evoRow is one data row of an EVO export. EVO leaves the concept column
// empty on app-driven internal moves; those rows are kept, the classifier's
// bank catch-all handles them.
type evoRow struct {
	Date        string `csv:"Fecha"`
	Description string `csv:"Concepto"`
	Amount      string `csv:"Importe"`
	Currency    string `csv:"Divisa"`
}

type EVOParser struct {
	logger logging.Logger
}

func NewEVO(logger logging.Logger) *EVOParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &EVOParser{logger: logger}
}

func (p *EVOParser) Bank() string { return models.BankEVO }

func (p *EVOParser) ValidateFormat(r io.Reader) (bool, error) {
	lines, err := peekLines(r, 5)
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if strings.HasPrefix(line, evoHeader) {
			return true, nil
		}
	}
	return false, nil
}

func (p *EVOParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceFile, err)
	}

	account := ibanRe.FindString(string(data))
	if account == "" {
		return nil, fmt.Errorf("%s: no account IBAN in preamble", sourceFile)
	}

	body := string(data)
	idx := strings.Index(body, evoHeader)
	if idx < 0 {
		return nil, fmt.Errorf("%s: header row not found", sourceFile)
	}

	rows, err := readCSV[evoRow](strings.NewReader(body[idx:]), ';')
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", sourceFile, err)
	}

	var records []models.Transaction
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		date, err := parseDate(row.Date, "02/01/2006")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		amount, err := parseAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		records = append(records, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(row.Description),
			Bank:        models.BankEVO,
			Account:     account,
			SourceFile:  sourceFile,
			LineNum:     len(records) + 1,
		})
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed EVO export")
	return records, nil
}
