package report

import (
	"strings"
	"testing"
	"time"

	"amunoz/movimientos/internal/ingest"
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/transfer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTransactions(t *testing.T) {
	w := NewWriter(logging.NewMockLogger())

	records := []models.Transaction{{
		ID:          7,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(-42.17),
		Description: "COMPRA EN MERCADONA",
		Bank:        models.BankOpenBank,
		Account:     "ES12",
		Category1:   models.CategoryGroceries,
		Category2:   "Mercadona",
		Type:        models.TypeExpense,
		Layer:       models.LayerMerchant,
		Merchant:    "MERCADONA",
		SourceFile:  "marzo.csv",
	}}

	var out strings.Builder
	require.NoError(t, w.WriteTransactions(&out, records))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,fecha,importe,concepto,banco,cuenta,categoria1,categoria2,tipo,capa,comercio,fichero", lines[0])
	assert.Contains(t, lines[1], "2024-03-15")
	assert.Contains(t, lines[1], "-42.17")
	assert.Contains(t, lines[1], "Mercadona")
}

func TestWritePairsEmitsBothRoles(t *testing.T) {
	w := NewWriter(logging.NewMockLogger())

	report := transfer.Report{
		Pairs: []models.TransferPair{{
			PairID:     "p1",
			OutboundID: 1,
			InboundID:  2,
			DayGap:     0,
			Confidence: models.ConfidenceHigh,
		}},
	}

	var out strings.Builder
	require.NoError(t, w.WritePairs(&out, report))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "header plus one row per role")
	assert.Contains(t, lines[1], "outbound")
	assert.Contains(t, lines[1], "p1,1,outbound,2")
	assert.Contains(t, lines[2], "p1,2,inbound,1")
}

func TestRenderSummary(t *testing.T) {
	w := NewWriter(logging.NewMockLogger())

	summary := &ingest.Summary{
		Files: []ingest.FileResult{
			{File: "a.csv", Accepted: 3},
			{File: "b.csv", Err: assert.AnError},
		},
		Accepted:     3,
		Duplicates:   2,
		Unclassified: 1,
		Coercions:    1,
		ByLayer: map[models.Layer]int{
			models.LayerMerchant:     2,
			models.LayerUnclassified: 1,
		},
	}

	var out strings.Builder
	require.NoError(t, w.RenderSummary(&out, summary))

	text := out.String()
	assert.Contains(t, text, "Files processed: 2 (1 excluded)")
	assert.Contains(t, text, "EXCLUDED b.csv")
	assert.Contains(t, text, "Accepted:     3")
	assert.Contains(t, text, "Duplicates:   2")
	assert.Contains(t, text, "Unclassified: 1")
	assert.Contains(t, text, "layer 2")
	assert.Contains(t, text, "layer 5")
}
