package bankparser

import (
	"bytes"
	"testing"
	"time"

	"amunoz/movimientos/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildINGWorkbook(t *testing.T) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	cells := map[string]string{
		"A1": "Movimientos de cuenta",
		"A2": "Número de cuenta: ES2114650100722030876293",
		"A4": "FECHA VALOR", "B4": "DESCRIPCIÓN", "C4": "IMPORTE (€)",
		"A5": "15/03/2024", "B5": "PAGO EN MERCADONA VALENCIA", "C5": "-42,17",
		"A6": "20/03/2024", "B6": "TRASPASO CUENTA NARANJA", "C6": "-500,00",
	}
	for cell, value := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestINGParse(t *testing.T) {
	p := NewING(logging.NewMockLogger())

	ok, err := p.ValidateFormat(buildINGWorkbook(t))
	require.NoError(t, err)
	assert.True(t, ok)

	records, err := p.Parse(buildINGWorkbook(t), "ing_marzo.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "ES2114650100722030876293", records[0].Account, "account from metadata rows")
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(-42.17)))
	assert.Equal(t, "PAGO EN MERCADONA VALENCIA", records[0].Description)
	assert.Equal(t, "TRASPASO CUENTA NARANJA", records[1].Description)
}

func TestINGRejectsCSV(t *testing.T) {
	p := NewING(logging.NewMockLogger())
	ok, err := p.ValidateFormat(bytes.NewReader([]byte(openBankSample)))
	require.NoError(t, err)
	assert.False(t, ok)
}
