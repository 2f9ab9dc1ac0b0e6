package models

// PairRole marks which side of a reconciled transfer pair a record is.
type PairRole string

const (
	RoleOutbound PairRole = "outbound"
	RoleInbound  PairRole = "inbound"
)

// PairConfidence is the tier assigned to a reconciled pair from the date
// gap between its two legs.
type PairConfidence string

const (
	ConfidenceHigh   PairConfidence = "high"
	ConfidenceMedium PairConfidence = "medium"
	ConfidenceLow    PairConfidence = "low"
)

// PairCategory tags internal transfers the matcher could not pair. The
// vocabulary is fixed; unmatched records are reported, never discarded.
type PairCategory string

const (
	PairSavings           PairCategory = "savings"
	PairRebalance         PairCategory = "rebalance"
	PairSuspectedExternal PairCategory = "suspected-external"
	PairUnmatched         PairCategory = "no-pair-found"
)

// TransferPair links an outbound internal transfer to its inbound leg in a
// different account. It is a derived, append-only annotation; the underlying
// records are never mutated.
type TransferPair struct {
	PairID     string         `json:"pair_id" yaml:"pair_id"`
	OutboundID int64          `json:"outbound_id" yaml:"outbound_id"`
	InboundID  int64          `json:"inbound_id" yaml:"inbound_id"`
	DayGap     int            `json:"day_gap" yaml:"day_gap"`
	Confidence PairConfidence `json:"confidence" yaml:"confidence"`
}

// UnmatchedTransfer is an internal transfer left over after pairing,
// carrying its sub-category tag.
type UnmatchedTransfer struct {
	TransactionID int64        `json:"transaction_id" yaml:"transaction_id"`
	Category      PairCategory `json:"pair_category" yaml:"pair_category"`
}
