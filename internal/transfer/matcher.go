// Package transfer reconciles opposite-signed internal-transfer records
// across accounts into linked pairs. It is a best-effort report over the
// stored set: nothing here blocks ingestion, and unmatched internals are
// sub-categorized rather than discarded.
package transfer

import (
	"sort"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDayGap is the hard limit on the date distance between the two legs of
// a pair.
const MaxDayGap = 7

// amountTolerance absorbs cent-level rounding differences between banks.
var amountTolerance = decimal.RequireFromString("0.01")

// Matcher pairs outbound internal transfers with their inbound leg.
type Matcher struct {
	maxDayGap int
	logger    logging.Logger
}

// NewMatcher creates a Matcher. maxDayGap caps the date distance between
// the legs of a pair; zero or negative selects the default window.
func NewMatcher(maxDayGap int, logger logging.Logger) *Matcher {
	if maxDayGap <= 0 {
		maxDayGap = MaxDayGap
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Matcher{maxDayGap: maxDayGap, logger: logger}
}

// Report is the outcome of one reconciliation pass.
type Report struct {
	Pairs     []models.TransferPair
	Unmatched []models.UnmatchedTransfer
}

// Match partitions the internal transfers into outbound and inbound legs
// and greedily assigns each outbound record its best-scoring unclaimed
// inbound counterpart. Outbound records are processed in a stable order
// (date, then id) so results are deterministic across runs.
func (m *Matcher) Match(internals []models.Transaction) Report {
	var outbound, inbound []models.Transaction
	for _, tx := range internals {
		switch {
		case tx.Amount.IsZero():
			continue
		case tx.Amount.IsNegative():
			outbound = append(outbound, tx)
		default:
			inbound = append(inbound, tx)
		}
	}

	sort.SliceStable(outbound, func(i, j int) bool {
		if !outbound[i].Date.Equal(outbound[j].Date) {
			return outbound[i].Date.Before(outbound[j].Date)
		}
		return outbound[i].ID < outbound[j].ID
	})

	claimed := make(map[int64]bool, len(inbound))
	matchedOut := make(map[int64]bool, len(outbound))
	var report Report

	for _, out := range outbound {
		best := -1
		bestScore := 0
		for i, in := range inbound {
			if claimed[in.ID] {
				continue
			}
			score, ok := m.score(out, in)
			if !ok {
				continue
			}
			if best == -1 || score > bestScore ||
				(score == bestScore && in.ID < inbound[best].ID) {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			continue
		}

		in := inbound[best]
		claimed[in.ID] = true
		matchedOut[out.ID] = true
		gap := dayGap(out, in)
		report.Pairs = append(report.Pairs, models.TransferPair{
			PairID:     uuid.NewString(),
			OutboundID: out.ID,
			InboundID:  in.ID,
			DayGap:     gap,
			Confidence: confidence(gap),
		})
	}

	for _, tx := range internals {
		if tx.Amount.IsZero() || matchedOut[tx.ID] || claimed[tx.ID] {
			continue
		}
		report.Unmatched = append(report.Unmatched, models.UnmatchedTransfer{
			TransactionID: tx.ID,
			Category:      classifyUnmatched(tx),
		})
	}

	m.logger.WithFields(
		logging.Field{Key: "pairs", Value: len(report.Pairs)},
		logging.Field{Key: "unmatched", Value: len(report.Unmatched)},
	).Info("Transfer pairing finished")
	return report
}

// score returns a candidate's rank, or ok=false when the hard constraints
// fail: equal absolute amount within tolerance, different account, date gap
// within the window. Same-day matches rank highest, decreasing with the
// gap; a same-bank pair gets a small bonus.
func (m *Matcher) score(out, in models.Transaction) (int, bool) {
	if out.Account == in.Account {
		return 0, false
	}
	diff := out.Amount.Abs().Sub(in.Amount.Abs()).Abs()
	if diff.GreaterThan(amountTolerance) {
		return 0, false
	}
	gap := dayGap(out, in)
	if gap > m.maxDayGap {
		return 0, false
	}

	score := 100 - gap*10
	if out.Bank == in.Bank {
		score += 5
	}
	return score, true
}

func dayGap(a, b models.Transaction) int {
	gap := int(b.Date.Sub(a.Date).Hours() / 24)
	if gap < 0 {
		gap = -gap
	}
	return gap
}

func confidence(gap int) models.PairConfidence {
	switch {
	case gap <= 1:
		return models.ConfidenceHigh
	case gap <= 3:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Sub-categorization keywords for internals left without a pair. Savings
// and rebalancing movements legitimately have no opposite leg in the data;
// a generic transfer phrase suggests a misclassified external.
var (
	savingsKeywords   = []string{"AHORRO", "CUENTA NARANJA", "HUCHA"}
	rebalanceKeywords = []string{"PERIODICO", "APORTACION", "REDONDEO"}
	externalKeywords  = []string{"TRANSFERENCIA A FAVOR", "TRANSF. A FAVOR", "BENEFICIARIO"}
)

func classifyUnmatched(tx models.Transaction) models.PairCategory {
	upper := strings.ToUpper(tx.Description)
	for _, keyword := range savingsKeywords {
		if strings.Contains(upper, keyword) {
			return models.PairSavings
		}
	}
	for _, keyword := range rebalanceKeywords {
		if strings.Contains(upper, keyword) {
			return models.PairRebalance
		}
	}
	for _, keyword := range externalKeywords {
		if strings.Contains(upper, keyword) {
			return models.PairSuspectedExternal
		}
	}
	return models.PairUnmatched
}
