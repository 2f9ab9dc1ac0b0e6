// Package models defines the canonical transaction record shared by every
// pipeline stage, together with the closed category vocabulary and the
// derived transfer-pair annotation.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record every bank parser must produce.
// The raw fields (Date through LineNum) are immutable once parsed; the
// classification and dedup fields are filled in by later stages.
type Transaction struct {
	// Raw fields, populated by the parser.
	Date        time.Time       `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Description string          `json:"description" yaml:"description"`
	Bank        string          `json:"bank" yaml:"bank"`
	Account     string          `json:"account" yaml:"account"`
	SourceFile  string          `json:"source_file" yaml:"source_file"`
	LineNum     int             `json:"line_num" yaml:"line_num"` // 1-based position within SourceFile

	// Classification output.
	Category1 string `json:"category1" yaml:"category1"`
	Category2 string `json:"category2" yaml:"category2"`
	Type      TxType `json:"type" yaml:"type"`
	Layer     Layer  `json:"layer" yaml:"layer"`
	Merchant  string `json:"merchant_name,omitempty" yaml:"merchant_name,omitempty"`

	// Content hash, computed at parse time and persisted forever.
	Hash string `json:"hash" yaml:"hash"`

	// Database identifier, zero until persisted.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`
}

// DateLayout is the calendar-day format used everywhere a date crosses a
// text boundary (CSV, SQLite, hashes).
const DateLayout = "2006-01-02"

// DateString returns the transaction date as a calendar day.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// IsOutbound reports whether the amount is negative.
func (t Transaction) IsOutbound() bool {
	return t.Amount.IsNegative()
}

// IsInbound reports whether the amount is positive.
func (t Transaction) IsInbound() bool {
	return t.Amount.IsPositive()
}

// TxType is the semantic type of a classified transaction. A zero value
// means the transaction could not be typed (unclassified records).
type TxType string

const (
	TypeExpense    TxType = "EXPENSE"
	TypeIncome     TxType = "INCOME"
	TypeTransfer   TxType = "TRANSFER"
	TypeInvestment TxType = "INVESTMENT"
)

// Layer identifies the classification stage that produced a result. It is
// kept for auditability and never drives behavior downstream.
type Layer string

const (
	LayerPriority      Layer = "0"
	LayerExact         Layer = "1"
	LayerMerchant      Layer = "2"
	LayerMerchantStore Layer = "2.5"
	LayerTransfer      Layer = "3"
	LayerToken         Layer = "4"
	LayerUnclassified  Layer = "5"
)
