package classifier

import (
	"regexp"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
)

// TransferStrategy is layer 3: decides whether a movement is a transfer and
// of which kind, using bank-specific and counterparty heuristics in a fixed
// order. The terminal fallback inside the layer is the unclassified-transfer
// verdict "Externa"; a description with no transfer signal at all is passed
// to the next layer.
type TransferStrategy struct {
	rules       rules.TransferRules
	p2pPatterns map[string][]*regexp.Regexp
}

// NewTransferStrategy compiles the configured peer-to-peer patterns once.
// Invalid patterns are dropped with a warning rather than failing the run.
func NewTransferStrategy(transferRules rules.TransferRules, logger logging.Logger) *TransferStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	compiled := make(map[string][]*regexp.Regexp, len(transferRules.P2PPatterns))
	for bank, patterns := range transferRules.P2PPatterns {
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				logger.WithError(err).WithFields(
					logging.Field{Key: "bank", Value: bank},
					logging.Field{Key: "pattern", Value: pattern},
				).Warn("Dropping invalid p2p pattern")
				continue
			}
			compiled[bank] = append(compiled[bank], re)
		}
	}
	return &TransferStrategy{rules: transferRules, p2pPatterns: compiled}
}

// Name returns the layer name for logging.
func (s *TransferStrategy) Name() string {
	return "TransferDetector"
}

// Classify runs the detector cascade. Order matters: internal-move keywords
// before peer-to-peer, loans before shared-account, own-account heuristics
// before the generic keyword fallback.
func (s *TransferStrategy) Classify(in Input) (Result, bool) {
	upper := strings.ToUpper(in.Normalized)
	upperRaw := strings.ToUpper(in.Description)

	// Bank-specific internal savings/move keyword sets.
	for _, keyword := range s.rules.InternalKeywords[in.Bank] {
		if strings.Contains(upper, strings.ToUpper(keyword)) {
			return s.transfer(models.TransferInternal), true
		}
	}

	// Peer-to-peer: the explicit marker token anywhere in the raw
	// description, or a bank-specific name/phone pattern.
	if strings.Contains(upperRaw, models.P2PMarker) {
		return s.transfer(models.TransferP2P), true
	}
	for _, re := range s.p2pPatterns[in.Bank] {
		if re.MatchString(in.Description) {
			return s.transfer(models.TransferP2P), true
		}
	}

	// Named-counterparty loans.
	for _, name := range s.rules.LoanCounterparties {
		if name != "" && strings.Contains(upper, strings.ToUpper(name)) {
			return s.transfer(models.TransferLoan), true
		}
	}

	// Shared household account.
	for _, marker := range s.rules.SharedMarkers {
		if strings.Contains(upper, strings.ToUpper(marker)) {
			return s.transfer(models.TransferShared), true
		}
	}

	// Own-account heuristics: explicit phrases, known own IBANs, the
	// holder's own name variants.
	for _, phrase := range s.rules.OwnPhrases {
		if strings.Contains(upper, strings.ToUpper(phrase)) {
			return s.transfer(models.TransferInternal), true
		}
	}
	for _, iban := range s.rules.OwnIBANs {
		if iban != "" && strings.Contains(upperRaw, strings.ToUpper(iban)) {
			return s.transfer(models.TransferInternal), true
		}
	}
	if s.mentionsTransfer(upper) {
		for _, name := range s.rules.HolderNames {
			if name != "" && strings.Contains(upper, strings.ToUpper(name)) {
				return s.transfer(models.TransferInternal), true
			}
		}
	}

	// Generic transfer keywords: a transfer, counterparty unknown.
	if s.mentionsTransfer(upper) {
		return s.transfer(models.TransferExternal), true
	}

	return Result{}, false
}

func (s *TransferStrategy) mentionsTransfer(upper string) bool {
	for _, keyword := range s.rules.GenericKeywords {
		if strings.Contains(upper, strings.ToUpper(keyword)) {
			return true
		}
	}
	return false
}

func (s *TransferStrategy) transfer(kind string) Result {
	return Result{
		Category1: models.CategoryTransfers,
		Category2: kind,
		Type:      models.TypeTransfer,
		Layer:     models.LayerTransfer,
	}
}
