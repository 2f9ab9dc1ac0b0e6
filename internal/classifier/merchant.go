package classifier

import (
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
)

// MerchantStrategy is layer 2: the enrichment dictionaries and the ordered
// keyword table, tried in fixed order — places dictionary, full-name
// dictionary, keywords over the extracted merchant, keywords over the full
// description. A database-backed lookup (layer 2.5) runs only when those
// four produced nothing and a merchant name was extracted.
type MerchantStrategy struct {
	tables *rules.Tables
	store  MerchantStore
	logger logging.Logger
}

// NewMerchantStrategy creates the layer. store may be nil, which disables
// the 2.5 lookup.
func NewMerchantStrategy(tables *rules.Tables, store MerchantStore, logger logging.Logger) *MerchantStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &MerchantStrategy{tables: tables, store: store, logger: logger}
}

// Name returns the layer name for logging.
func (s *MerchantStrategy) Name() string {
	return "MerchantLookup"
}

// Classify runs the dictionary and keyword lookups in order.
func (s *MerchantStrategy) Classify(in Input) (Result, bool) {
	// (a) place-enrichment dictionary, exact extracted merchant name.
	if in.Merchant != "" {
		if pair, ok := s.tables.Places[in.Merchant]; ok {
			return s.result(pair, models.LayerMerchant, in.Merchant), true
		}
		// (b) full-name merchant dictionary.
		if pair, ok := s.tables.MerchantNames[in.Merchant]; ok {
			return s.result(pair, models.LayerMerchant, in.Merchant), true
		}
		// (c) keyword search restricted to the extracted merchant.
		if pair, ok := s.keywordMatch(in.Merchant); ok {
			return s.result(pair, models.LayerMerchant, in.Merchant), true
		}
	}

	// (d) keyword search over the full description as a fallback.
	if pair, ok := s.keywordMatch(in.Normalized); ok {
		return s.result(pair, models.LayerMerchant, in.Merchant), true
	}

	// Layer 2.5: learned-merchant lookup, only with an extracted merchant.
	if s.store != nil && in.Merchant != "" {
		pair, found, err := s.store.LookupMerchant(in.Merchant)
		if err != nil {
			// A store failure downgrades to "no match"; the cascade continues.
			s.logger.WithError(err).WithField("merchant", in.Merchant).
				Warn("Merchant store lookup failed")
		} else if found {
			return s.result(pair, models.LayerMerchantStore, in.Merchant), true
		}
	}

	return Result{}, false
}

// keywordMatch scans the ordered merchant rules; earlier entries win when
// several keywords match the same text.
func (s *MerchantStrategy) keywordMatch(text string) (rules.CategoryPair, bool) {
	if strings.TrimSpace(text) == "" {
		return rules.CategoryPair{}, false
	}
	upper := strings.ToUpper(text)
	for _, rule := range s.tables.Merchant {
		if strings.Contains(upper, strings.ToUpper(rule.Keyword)) {
			return rules.CategoryPair{
				Category1: rule.Category1,
				Category2: rule.Category2,
				Type:      rule.Type,
			}, true
		}
	}
	return rules.CategoryPair{}, false
}

func (s *MerchantStrategy) result(pair rules.CategoryPair, layer models.Layer, merchant string) Result {
	return Result{
		Category1: pair.Category1,
		Category2: pair.Category2,
		Type:      pair.Type,
		Layer:     layer,
		Merchant:  merchant,
	}
}
