package bankparser

import (
	"fmt"
	"io"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
)

const openBankHeader = "Fecha Operación;Fecha Valor;Concepto;Importe;Saldo"

// openBankRow is one data row of an OpenBank account export. The export
// carries a one-line preamble with the account IBAN before this header.
type openBankRow struct {
	OperationDate string `csv:"Fecha Operación"`
	ValueDate     string `csv:"Fecha Valor"`
	Description   string `csv:"Concepto"`
	Amount        string `csv:"Importe"`
	Balance       string `csv:"Saldo"`
}

// OpenBankParser decodes OpenBank CSV exports: semicolon-delimited, Spanish
// dates and amounts, account IBAN in the preamble.
type OpenBankParser struct {
	logger logging.Logger
}

func NewOpenBank(logger logging.Logger) *OpenBankParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &OpenBankParser{logger: logger}
}

func (p *OpenBankParser) Bank() string { return models.BankOpenBank }

func (p *OpenBankParser) ValidateFormat(r io.Reader) (bool, error) {
	lines, err := peekLines(r, 5)
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if strings.HasPrefix(line, openBankHeader) {
			return true, nil
		}
	}
	return false, nil
}

func (p *OpenBankParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceFile, err)
	}

	account := ibanRe.FindString(string(data))
	if account == "" {
		return nil, fmt.Errorf("%s: no account IBAN in preamble", sourceFile)
	}

	body := string(data)
	idx := strings.Index(body, openBankHeader)
	if idx < 0 {
		return nil, fmt.Errorf("%s: header row not found", sourceFile)
	}

	rows, err := readCSV[openBankRow](strings.NewReader(body[idx:]), ';')
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", sourceFile, err)
	}

	var records []models.Transaction
	for _, row := range rows {
		if row.OperationDate == "" {
			continue
		}
		date, err := parseDate(row.OperationDate, "02/01/2006")
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
			Bank:        models.BankOpenBank,
			Account:     account,
			SourceFile:  sourceFile,
			LineNum:     len(records) + 1,
		})
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed OpenBank export")
	return records, nil
}
