package classifier

import (
	"strings"
	"time"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"
	"amunoz/movimientos/internal/textutils"

	"github.com/shopspring/decimal"
)

// Classifier runs the layer cascade in fixed priority order and returns the
// first conclusive result. It owns ClassificationResult construction; no
// other component emits category pairs.
type Classifier struct {
	priority  *PriorityStrategy
	exact     *ExactStrategy
	merchant  *MerchantStrategy
	transfer  *TransferStrategy
	token     *TokenStrategy
	validator *Validator
	logger    logging.Logger
}

// New builds a classifier over loaded rule tables. store backs the layer
// 2.5 merchant lookup and may be nil.
func New(tables *rules.Tables, store MerchantStore, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{
		priority:  NewPriorityStrategy(tables.Priority),
		exact:     NewExactStrategy(tables.ExactMatch),
		merchant:  NewMerchantStrategy(tables, store, logger),
		transfer:  NewTransferStrategy(tables.Transfer, logger),
		token:     NewTokenStrategy(tables.Token),
		validator: NewValidator(tables, logger),
		logger:    logger,
	}
}

// Coercions reports how many invalid category pairs the validator repaired
// since construction. Surfaced as a soft finding in the batch summary.
func (c *Classifier) Coercions() int {
	return c.validator.Coercions
}

// Classify assigns a category pair, semantic type, originating layer and
// optional merchant to one transaction. It always returns a result; the
// worst case is the layer-5 unclassified verdict.
func (c *Classifier) Classify(description, bank string, amount decimal.Decimal, date time.Time, account string) Result {
	in := Input{
		Description: description,
		Normalized:  textutils.Normalize(description),
		Merchant:    textutils.ExtractMerchant(description, bank),
		Bank:        bank,
		Amount:      amount,
		Date:        date,
		Account:     account,
	}

	// Layer 0 runs unconditionally.
	if result, ok := c.priority.Classify(in); ok {
		return c.validator.Validate(result)
	}

	// A peer-to-peer marker anywhere in the description skips the
	// exact-match and merchant-lookup layers entirely: those transactions
	// must resolve via the transfer detector, never via stale history.
	p2p := strings.Contains(strings.ToUpper(description), models.P2PMarker)
	if !p2p {
		if result, ok := c.exact.Classify(in); ok {
			return c.validator.Validate(result)
		}
		if result, ok := c.merchant.Classify(in); ok {
			return c.validator.Validate(result)
		}
	}

	if result, ok := c.transfer.Classify(in); ok {
		return c.validator.Validate(result)
	}

	if result, ok := c.token.Classify(in); ok {
		return c.validator.Validate(result)
	}

	return c.validator.Validate(Result{
		Category1: models.CategoryUnclassified,
		Layer:     models.LayerUnclassified,
		Merchant:  in.Merchant,
	})
}

// ClassifyTransaction classifies a canonical record and writes the verdict
// into its classification fields.
func (c *Classifier) ClassifyTransaction(tx *models.Transaction) {
	result := c.Classify(tx.Description, tx.Bank, tx.Amount, tx.Date, tx.Account)
	tx.Category1 = result.Category1
	tx.Category2 = result.Category2
	tx.Type = result.Type
	tx.Layer = result.Layer
	tx.Merchant = result.Merchant
}
