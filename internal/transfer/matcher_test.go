package transfer

import (
	"testing"
	"time"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func internalTx(id int64, day, amount, account, bank, desc string) models.Transaction {
	date, _ := time.Parse(models.DateLayout, day)
	return models.Transaction{
		ID:          id,
		Date:        date,
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
		Bank:        bank,
		Account:     account,
		Category1:   models.CategoryTransfers,
		Category2:   models.TransferInternal,
		Type:        models.TypeTransfer,
	}
}

func TestMatchSameDayPairIsHighConfidence(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-10", "-1000.00", "ES11", models.BankOpenBank, "TRASPASO A CUENTA PROPIA"),
		internalTx(2, "2024-04-10", "1000.00", "ES22", models.BankEVO, "TRASPASO RECIBIDO"),
	})

	require.Len(t, report.Pairs, 1)
	pair := report.Pairs[0]
	assert.Equal(t, int64(1), pair.OutboundID)
	assert.Equal(t, int64(2), pair.InboundID)
	assert.Equal(t, 0, pair.DayGap)
	assert.Equal(t, models.ConfidenceHigh, pair.Confidence)
	assert.NotEmpty(t, pair.PairID)
	assert.Empty(t, report.Unmatched)
}

func TestMatchPrefersSmallerDateGap(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-10", "-500.00", "ES11", models.BankOpenBank, "TRASPASO"),
		internalTx(2, "2024-04-13", "500.00", "ES22", models.BankOpenBank, "TRASPASO"),
		internalTx(3, "2024-04-10", "500.00", "ES33", models.BankOpenBank, "TRASPASO"),
	})

	require.Len(t, report.Pairs, 1)
	assert.Equal(t, int64(3), report.Pairs[0].InboundID)
	// The later inbound stays unmatched and is reported.
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, int64(2), report.Unmatched[0].TransactionID)
}

func TestMatchSameBankBonusBreaksDateTies(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-10", "-500.00", "ES11", models.BankOpenBank, "TRASPASO"),
		internalTx(2, "2024-04-10", "500.00", "ES22", models.BankEVO, "TRASPASO"),
		internalTx(3, "2024-04-10", "500.00", "ES33", models.BankOpenBank, "TRASPASO"),
	})

	require.Len(t, report.Pairs, 1)
	assert.Equal(t, int64(3), report.Pairs[0].InboundID)
}

func TestMatchHardConstraints(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	tests := []struct {
		name    string
		inbound models.Transaction
	}{
		{"same account", internalTx(2, "2024-04-10", "500.00", "ES11", models.BankOpenBank, "TRASPASO")},
		{"amount off by more than a cent", internalTx(2, "2024-04-10", "500.05", "ES22", models.BankOpenBank, "TRASPASO")},
		{"gap beyond seven days", internalTx(2, "2024-04-20", "500.00", "ES22", models.BankOpenBank, "TRASPASO")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := m.Match([]models.Transaction{
				internalTx(1, "2024-04-10", "-500.00", "ES11", models.BankOpenBank, "TRASPASO"),
				tt.inbound,
			})
			assert.Empty(t, report.Pairs)
			assert.Len(t, report.Unmatched, 2)
		})
	}
}

func TestMatchCentToleranceAccepted(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-10", "-500.00", "ES11", models.BankOpenBank, "TRASPASO"),
		internalTx(2, "2024-04-11", "500.01", "ES22", models.BankEVO, "TRASPASO"),
	})

	require.Len(t, report.Pairs, 1)
	assert.Equal(t, 1, report.Pairs[0].DayGap)
	assert.Equal(t, models.ConfidenceHigh, report.Pairs[0].Confidence)
}

func TestMatchPairSymmetry(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())
	records := []models.Transaction{
		internalTx(1, "2024-04-10", "-1000.00", "ES11", models.BankOpenBank, "TRASPASO"),
		internalTx(2, "2024-04-12", "1000.00", "ES22", models.BankEVO, "TRASPASO"),
		internalTx(3, "2024-04-15", "-200.00", "ES22", models.BankEVO, "TRASPASO"),
		internalTx(4, "2024-04-15", "200.00", "ES11", models.BankOpenBank, "TRASPASO"),
	}
	byID := map[int64]models.Transaction{}
	for _, tx := range records {
		byID[tx.ID] = tx
	}

	report := m.Match(records)
	require.Len(t, report.Pairs, 2)

	for _, pair := range report.Pairs {
		out, in := byID[pair.OutboundID], byID[pair.InboundID]
		assert.True(t, out.Amount.IsNegative())
		assert.True(t, in.Amount.IsPositive())
		assert.True(t, out.Amount.Abs().Sub(in.Amount.Abs()).Abs().LessThanOrEqual(decimal.RequireFromString("0.01")))
		assert.NotEqual(t, out.Account, in.Account)
		assert.LessOrEqual(t, pair.DayGap, MaxDayGap)
	}
	// Each record is claimed exactly once.
	seen := map[int64]bool{}
	for _, pair := range report.Pairs {
		assert.False(t, seen[pair.OutboundID])
		assert.False(t, seen[pair.InboundID])
		seen[pair.OutboundID] = true
		seen[pair.InboundID] = true
	}
}

func TestMatchConfidenceTiers(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	tiers := []struct {
		day      string
		expected models.PairConfidence
	}{
		{"2024-04-11", models.ConfidenceHigh},
		{"2024-04-13", models.ConfidenceMedium},
		{"2024-04-16", models.ConfidenceLow},
	}

	for _, tt := range tiers {
		report := m.Match([]models.Transaction{
			internalTx(1, "2024-04-10", "-500.00", "ES11", models.BankOpenBank, "TRASPASO"),
			internalTx(2, tt.day, "500.00", "ES22", models.BankEVO, "TRASPASO"),
		})
		require.Len(t, report.Pairs, 1, tt.day)
		assert.Equal(t, tt.expected, report.Pairs[0].Confidence)
	}
}

func TestUnmatchedSubCategorization(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-01", "-300.00", "ES11", models.BankOpenBank, "TRASPASO A CUENTA AHORRO"),
		internalTx(2, "2024-05-01", "-50.00", "ES11", models.BankOpenBank, "TRASPASO PERIODICO INVERSION"),
		internalTx(3, "2024-06-01", "-75.00", "ES11", models.BankOpenBank, "TRANSFERENCIA A FAVOR DE PEDRO RUIZ"),
		internalTx(4, "2024-07-01", "-20.00", "ES11", models.BankOpenBank, "TRASPASO"),
	})

	require.Empty(t, report.Pairs)
	require.Len(t, report.Unmatched, 4)
	got := map[int64]models.PairCategory{}
	for _, u := range report.Unmatched {
		got[u.TransactionID] = u.Category
	}
	assert.Equal(t, models.PairSavings, got[1])
	assert.Equal(t, models.PairRebalance, got[2])
	assert.Equal(t, models.PairSuspectedExternal, got[3])
	assert.Equal(t, models.PairUnmatched, got[4])
}

func TestMatchIgnoresZeroAmounts(t *testing.T) {
	m := NewMatcher(0, logging.NewMockLogger())

	report := m.Match([]models.Transaction{
		internalTx(1, "2024-04-10", "0.00", "ES11", models.BankOpenBank, "TRASPASO"),
	})

	assert.Empty(t, report.Pairs)
	assert.Empty(t, report.Unmatched)
}
