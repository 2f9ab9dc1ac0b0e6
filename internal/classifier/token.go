package classifier

import (
	"regexp"
	"strings"

	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
)

// TokenStrategy is layer 4: bank-specific catch-alls followed by the
// generic ordered keyword table. Short collision-prone tokens are matched
// on word boundaries so "BAR" never fires inside "BARCELONA".
type TokenStrategy struct {
	rules     []rules.TokenRule
	wholeWord []*regexp.Regexp // index-aligned with rules; nil for substring rules
}

// NewTokenStrategy precompiles the word-boundary matchers.
func NewTokenStrategy(ruleList []rules.TokenRule) *TokenStrategy {
	wholeWord := make([]*regexp.Regexp, len(ruleList))
	for i, rule := range ruleList {
		if rule.WholeWord {
			wholeWord[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToUpper(rule.Keyword)) + `\b`)
		}
	}
	return &TokenStrategy{rules: ruleList, wholeWord: wholeWord}
}

// Name returns the layer name for logging.
func (s *TokenStrategy) Name() string {
	return "TokenHeuristic"
}

// Classify tries the bank catch-alls, then the ordered keyword table.
func (s *TokenStrategy) Classify(in Input) (Result, bool) {
	if result, ok := s.bankCatchAll(in); ok {
		return result, true
	}

	upper := strings.ToUpper(in.Normalized)
	for i, rule := range s.rules {
		matched := false
		if s.wholeWord[i] != nil {
			matched = s.wholeWord[i].MatchString(upper)
		} else {
			matched = strings.Contains(upper, strings.ToUpper(rule.Keyword))
		}
		if matched {
			return Result{
				Category1: rule.Category1,
				Category2: rule.Category2,
				Type:      rule.Type,
				Layer:     models.LayerToken,
				Merchant:  in.Merchant,
			}, true
		}
	}
	return Result{}, false
}

// bankCatchAll handles per-bank quirks. EVO exports carry an empty
// description for automatic account movements; the sign tells a real
// transfer out from a rebalancing credit.
func (s *TokenStrategy) bankCatchAll(in Input) (Result, bool) {
	if in.Bank == models.BankEVO && strings.TrimSpace(in.Description) == "" {
		if in.Amount.IsNegative() {
			return Result{
				Category1: models.CategoryTransfers,
				Category2: models.TransferInternal,
				Type:      models.TypeTransfer,
				Layer:     models.LayerToken,
			}, true
		}
		return Result{
			Category1: models.CategoryInvestment,
			Category2: "Traspaso",
			Type:      models.TypeInvestment,
			Layer:     models.LayerToken,
		}, true
	}
	return Result{}, false
}
