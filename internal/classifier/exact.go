package classifier

import (
	"strings"

	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
)

// ExactStrategy looks the original description up in the table built from
// the historical ground-truth dataset (layer 1). The orchestrator skips it
// whenever the peer-to-peer marker is present so stale history can never
// shadow the transfer detector.
type ExactStrategy struct {
	table map[string]rules.CategoryPair
}

// NewExactStrategy creates the layer from a prebuilt exact-match table.
func NewExactStrategy(table map[string]rules.CategoryPair) *ExactStrategy {
	return &ExactStrategy{table: table}
}

// Name returns the layer name for logging.
func (s *ExactStrategy) Name() string {
	return "ExactMatch"
}

// Classify matches on the original description, trimmed but otherwise
// untouched; the table was built from the same raw form.
func (s *ExactStrategy) Classify(in Input) (Result, bool) {
	pair, ok := s.table[strings.TrimSpace(in.Description)]
	if !ok {
		return Result{}, false
	}
	return Result{
		Category1: pair.Category1,
		Category2: pair.Category2,
		Type:      pair.Type,
		Layer:     models.LayerExact,
		Merchant:  in.Merchant,
	}, true
}
