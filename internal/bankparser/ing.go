package bankparser

import (
	"fmt"
	"io"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/xuri/excelize/v2"
)

// INGParser decodes the XLSX movement export of ING. The sheet carries a
// few metadata rows (among them the account IBAN), then a header row, then
// one row per movement.
type INGParser struct {
	logger logging.Logger
}

func NewING(logger logging.Logger) *INGParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &INGParser{logger: logger}
}

func (p *INGParser) Bank() string { return models.BankING }

const ingHeaderCell = "FECHA VALOR"

func (p *INGParser) ValidateFormat(r io.Reader) (bool, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		// Not a spreadsheet at all.
		return false, nil
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := p.sheetRows(f)
	if err != nil {
		return false, nil
	}
	for _, row := range rows {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), ingHeaderCell) {
			return true, nil
		}
	}
	return false, nil
}

func (p *INGParser) sheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func (p *INGParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", sourceFile, err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := p.sheetRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceFile, err)
	}

	account := ""
	headerAt := -1
	for i, row := range rows {
		for _, cell := range row {
			if m := ibanRe.FindString(cell); m != "" && account == "" {
				account = m
			}
		}
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), ingHeaderCell) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, fmt.Errorf("%s: header row not found", sourceFile)
	}
	if account == "" {
		return nil, fmt.Errorf("%s: no account IBAN in metadata rows", sourceFile)
	}

	var records []models.Transaction
	for _, row := range rows[headerAt+1:] {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		date, err := parseDate(row[0], "02/01/2006", "2006-01-02")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		amount, err := parseAmount(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sourceFile, err)
		}
		records = append(records, models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: strings.TrimSpace(row[1]),
			Bank:        models.BankING,
			Account:     account,
			SourceFile:  sourceFile,
			LineNum:     len(records) + 1,
		})
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed ING export")
	return records, nil
}
