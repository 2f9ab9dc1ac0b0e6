package bankparser

import (
	"strings"
	"testing"
	"time"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openBankSample = `Cuenta;ES0600730100500123456789
Fecha Operación;Fecha Valor;Concepto;Importe;Saldo
15/03/2024;15/03/2024;COMPRA TARJ. 5402XXXXXXXX1234 MERCADONA VALENCIA;-42,17;1.234,56
16/03/2024;16/03/2024;TRANSFERENCIA DE JUAN GARCIA LOPEZ;250,00;1.484,56
`

func TestOpenBankParse(t *testing.T) {
	p := NewOpenBank(logging.NewMockLogger())

	records, err := p.Parse(strings.NewReader(openBankSample), "openbank_marzo.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.True(t, first.Amount.Equal(decimal.NewFromFloat(-42.17)), "Spanish decimal comma")
	assert.Equal(t, "COMPRA TARJ. 5402XXXXXXXX1234 MERCADONA VALENCIA", first.Description)
	assert.Equal(t, models.BankOpenBank, first.Bank)
	assert.Equal(t, "ES0600730100500123456789", first.Account, "account from the preamble")
	assert.Equal(t, "openbank_marzo.csv", first.SourceFile)
	assert.Equal(t, 1, first.LineNum)
	assert.Equal(t, 2, records[1].LineNum)

	assert.True(t, records[1].Amount.Equal(decimal.NewFromInt(250)))
}

func TestOpenBankThousandsSeparator(t *testing.T) {
	sample := `Cuenta;ES0600730100500123456789
Fecha Operación;Fecha Valor;Concepto;Importe;Saldo
01/02/2024;01/02/2024;NOMINA EMPRESA SL;1.850,33;3.000,00
`
	p := NewOpenBank(logging.NewMockLogger())
	records, err := p.Parse(strings.NewReader(sample), "nomina.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(1850.33)))
}

func TestOpenBankMissingIBAN(t *testing.T) {
	sample := `Fecha Operación;Fecha Valor;Concepto;Importe;Saldo
15/03/2024;15/03/2024;COMPRA;-1,00;0,00
`
	p := NewOpenBank(logging.NewMockLogger())
	_, err := p.Parse(strings.NewReader(sample), "broken.csv")
	assert.Error(t, err)
}

func TestSantanderParse(t *testing.T) {
	sample := `FECHA OPERACION,CONCEPTO,IMPORTE,DIVISA,SALDO,CUENTA
15-03-2024,PAGO MOVIL EN ZARA MADRID,-59.95,EUR,900.05,ES9100490001512345678901
`
	p := NewSantander(logging.NewMockLogger())
	records, err := p.Parse(strings.NewReader(sample), "santander.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.BankSantander, records[0].Bank)
	assert.Equal(t, "ES9100490001512345678901", records[0].Account)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(-59.95)), "plain decimal point dialect")
}

func TestEVOParseKeepsEmptyDescription(t *testing.T) {
	sample := `Cuenta: ES1502390806101234567890
Fecha;Concepto;Importe;Divisa
10/04/2024;;-300,00;EUR
11/04/2024;RECIBO LUZ IBERDROLA;-85,20;EUR
`
	p := NewEVO(logging.NewMockLogger())
	records, err := p.Parse(strings.NewReader(sample), "evo.csv")
	require.NoError(t, err)
	require.Len(t, records, 2, "empty-concept rows are kept for the bank catch-all")
	assert.Equal(t, "", records[0].Description)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(-300)))
}

const bbvaSample = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Acct><Id><IBAN>ES7901821234500123456789</IBAN></Id></Acct>
      <Ntry>
        <Amt Ccy="EUR">42.17</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2024-03-15</Dt></BookgDt>
        <NtryDtls><TxDtls><RmtInf><Ustrd>COMPRA MERCADONA VALENCIA</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="EUR">250.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2024-03-16</Dt></BookgDt>
        <AddtlNtryInf>TRANSFERENCIA RECIBIDA</AddtlNtryInf>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>
`

func TestBBVAParse(t *testing.T) {
	p := NewBBVA(logging.NewMockLogger())

	ok, err := p.ValidateFormat(strings.NewReader(bbvaSample))
	require.NoError(t, err)
	assert.True(t, ok)

	records, err := p.Parse(strings.NewReader(bbvaSample), "bbva.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "ES7901821234500123456789", records[0].Account)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(-42.17)), "DBIT entries become negative")
	assert.Equal(t, "COMPRA MERCADONA VALENCIA", records[0].Description)
	assert.True(t, records[1].Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "TRANSFERENCIA RECIBIDA", records[1].Description, "falls back to AddtlNtryInf")
}

const abancaText = `ABANCA  Extracto de cuenta
Titular: ANTONIO MUÑOZ PEREZ
Cuenta: ES4020800000771234567890

FECHA       CONCEPTO                                   IMPORTE      SALDO
15/03/2024  COMPRA MERCADONA VALENCIA                   -42,17   1.234,56
18/03/2024  RECIBO COMUNIDAD PROPIETARIOS              -120,00   1.114,56
`

func TestAbancaParse(t *testing.T) {
	p := NewAbanca(&MockExtractor{Text: abancaText}, logging.NewMockLogger())

	records, err := p.Parse(strings.NewReader("%PDF-1.7"), "abanca_marzo.pdf")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "ES4020800000771234567890", records[0].Account)
	assert.Equal(t, "COMPRA MERCADONA VALENCIA", records[0].Description)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromFloat(-42.17)))
	assert.Equal(t, models.BankAbanca, records[0].Bank)
}

func TestAbancaNoMovements(t *testing.T) {
	p := NewAbanca(&MockExtractor{Text: "Cuenta: ES4020800000771234567890\nsin movimientos"}, logging.NewMockLogger())
	_, err := p.Parse(strings.NewReader("%PDF-1.7"), "empty.pdf")
	assert.Error(t, err)
}

func TestValidateFormatSniffing(t *testing.T) {
	logger := logging.NewMockLogger()

	tests := []struct {
		name    string
		parser  models.Parser
		content string
		want    bool
	}{
		{"openbank accepts own header", NewOpenBank(logger), openBankSample, true},
		{"openbank rejects santander", NewOpenBank(logger), "FECHA OPERACION,CONCEPTO,IMPORTE,DIVISA,SALDO,CUENTA\n", false},
		{"santander accepts own header", NewSantander(logger), "FECHA OPERACION,CONCEPTO,IMPORTE,DIVISA,SALDO,CUENTA\n", true},
		{"evo accepts own header", NewEVO(logger), "Cuenta: ES15\nFecha;Concepto;Importe;Divisa\n", true},
		{"bbva rejects csv", NewBBVA(logger), openBankSample, false},
		{"abanca wants pdf magic", NewAbanca(&MockExtractor{}, logger), "%PDF-1.4 junk", true},
		{"abanca rejects csv", NewAbanca(&MockExtractor{}, logger), openBankSample, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.parser.ValidateFormat(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestParseAmountFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-42,17", "-42.17"},
		{"1.234,56", "1234.56"},
		{"250,00", "250"},
		{"-59.95", "-59.95"},
		{"1850.33 EUR", "1850.33"},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s -> %s", tt.in, got)
	}

	_, err := parseAmount("")
	assert.Error(t, err)
}
