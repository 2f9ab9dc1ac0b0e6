package classifier

import (
	"strings"

	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"

	"github.com/shopspring/decimal"
)

// PriorityStrategy evaluates the manually curated override list (layer 0).
// Some transactions are ambiguous or actively misleading under the general
// rules, e.g. a refund carrying a merchant name; these are forced to a
// specific outcome here before any other layer runs.
type PriorityStrategy struct {
	rules []rules.PriorityRule
}

// NewPriorityStrategy creates the layer from an ordered rule list.
func NewPriorityStrategy(ruleList []rules.PriorityRule) *PriorityStrategy {
	return &PriorityStrategy{rules: ruleList}
}

// Name returns the layer name for logging.
func (s *PriorityStrategy) Name() string {
	return "Priority"
}

// Classify returns the outcome of the first rule whose every non-empty
// criterion matches.
func (s *PriorityStrategy) Classify(in Input) (Result, bool) {
	upperDesc := strings.ToUpper(in.Description)

	for _, rule := range s.rules {
		if rule.Bank != "" && rule.Bank != in.Bank {
			continue
		}
		if rule.Contains != "" && !strings.Contains(upperDesc, strings.ToUpper(rule.Contains)) {
			continue
		}
		if rule.Date != "" {
			if in.Date.IsZero() || in.Date.Format(models.DateLayout) != rule.Date {
				continue
			}
		}
		if rule.Amount != "" {
			want, err := decimal.NewFromString(rule.Amount)
			if err != nil || !in.Amount.Equal(want) {
				continue
			}
		}

		merchant := rule.Merchant
		if merchant == "" {
			merchant = in.Merchant
		}
		return Result{
			Category1: rule.Category1,
			Category2: rule.Category2,
			Type:      rule.Type,
			Layer:     models.LayerPriority,
			Merchant:  merchant,
		}, true
	}
	return Result{}, false
}
