// Package classifier implements the ordered classification cascade: a fixed
// list of layer strategies evaluated per transaction, first conclusive
// result wins, with a terminal "unclassified" fallback. The orchestrator is
// a pure function of its input; it never returns an error.
package classifier

import (
	"time"

	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/rules"

	"github.com/shopspring/decimal"
)

// Input is everything a layer may look at. Description is the original
// text; Normalized has boilerplate prefixes stripped; Merchant is the
// extracted merchant token, empty when no pattern matched.
type Input struct {
	Description string
	Normalized  string
	Merchant    string
	Bank        string
	Amount      decimal.Decimal
	Date        time.Time // zero when unknown
	Account     string    // empty when unknown
}

// Result is a classification verdict. Only the orchestrator constructs
// results that leave this package, and every one of them has passed the
// combination validator.
type Result struct {
	Category1 string
	Category2 string
	Type      models.TxType
	Layer     models.Layer
	Merchant  string
}

// Strategy is one classification layer. Classify returns its verdict and
// whether the layer was conclusive; an inconclusive layer passes the
// transaction to the next one.
type Strategy interface {
	Classify(in Input) (Result, bool)
	Name() string
}

// MerchantStore is the secondary database-backed merchant lookup consulted
// by layer 2.5. Implemented by the SQLite store; nil disables the layer.
type MerchantStore interface {
	LookupMerchant(name string) (rules.CategoryPair, bool, error)
}
