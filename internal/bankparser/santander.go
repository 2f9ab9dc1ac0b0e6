package bankparser

import (
	"fmt"
	"io"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
)

const santanderHeader = "FECHA OPERACION,CONCEPTO,IMPORTE,DIVISA,SALDO,CUENTA"

// santanderRow is one data row of a Santander export: comma-delimited,
// dd-mm-yyyy dates and the account IBAN repeated per row.
type santanderRow struct {
	OperationDate string `csv:"FECHA OPERACION"`
	Description   string `csv:"CONCEPTO"`
	Amount        string `csv:"IMPORTE"`
	Currency      string `csv:"DIVISA"`
	Balance       string `csv:"SALDO"`
	Account       string `csv:"CUENTA"`
}

type SantanderParser struct {
	logger logging.Logger
}

func NewSantander(logger logging.Logger) *SantanderParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &SantanderParser{logger: logger}
}

func (p *SantanderParser) Bank() string { return models.BankSantander }

func (p *SantanderParser) ValidateFormat(r io.Reader) (bool, error) {
	lines, err := peekLines(r, 1)
	if err != nil {
		return false, err
	}
	return len(lines) > 0 && strings.HasPrefix(lines[0], santanderHeader), nil
}

func (p *SantanderParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	rows, err := readCSV[santanderRow](r, ',')
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", sourceFile, err)
	}

	var records []models.Transaction
	for _, row := range rows {
		if row.OperationDate == "" {
			continue
		}
		date, err := parseDate(row.OperationDate, "02-01-2006", "02/01/2006")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		amount, err := parseAmount(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		account := strings.TrimSpace(row.Account)
		if account == "" {
			return nil, fmt.Errorf("%s: row %d missing account", sourceFile, len(records)+1)
		}
		records = append(records, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(row.Description),
			Bank:        models.BankSantander,
			Account:     account,
			SourceFile:  sourceFile,
			LineNum:     len(records) + 1,
		})
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed Santander export")
	return records, nil
}
