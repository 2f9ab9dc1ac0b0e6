// Package report exports the stored records and the pairing results as CSV
// and renders the batch summary.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"amunoz/movimientos/internal/ingest"
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/transfer"

	"github.com/gocarina/gocsv"
)

// transactionRow is the CSV shape of one classified record.
type transactionRow struct {
	ID          int64  `csv:"id"`
	Date        string `csv:"fecha"`
	Amount      string `csv:"importe"`
	Description string `csv:"concepto"`
	Bank        string `csv:"banco"`
	Account     string `csv:"cuenta"`
	Category1   string `csv:"categoria1"`
	Category2   string `csv:"categoria2"`
	Type        string `csv:"tipo"`
	Layer       string `csv:"capa"`
	Merchant    string `csv:"comercio"`
	SourceFile  string `csv:"fichero"`
}

// pairRow is the CSV shape of one leg of a reconciled transfer pair. Both
// legs are emitted so the pair reads symmetrically.
type pairRow struct {
	PairID        string `csv:"pair_id"`
	TransactionID int64  `csv:"transaction_id"`
	Role          string `csv:"role"`
	CounterpartID int64  `csv:"counterpart_id"`
	DayGap        int    `csv:"day_gap"`
	Confidence    string `csv:"confidence"`
}

// unmatchedRow is the CSV shape of an internal transfer left unpaired.
type unmatchedRow struct {
	TransactionID int64  `csv:"transaction_id"`
	PairCategory  string `csv:"pair_category"`
}

// Writer renders the export and summary outputs.
type Writer struct {
	logger logging.Logger
}

func NewWriter(logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Writer{logger: logger}
}

// WriteTransactions exports classified records as CSV.
func (w *Writer) WriteTransactions(out io.Writer, records []models.Transaction) error {
	rows := make([]transactionRow, 0, len(records))
	for _, tx := range records {
		rows = append(rows, transactionRow{
			ID:          tx.ID,
			Date:        tx.DateString(),
			Amount:      tx.Amount.StringFixed(2),
			Description: tx.Description,
			Bank:        tx.Bank,
			Account:     tx.Account,
			Category1:   tx.Category1,
			Category2:   tx.Category2,
			Type:        string(tx.Type),
			Layer:       string(tx.Layer),
			Merchant:    tx.Merchant,
			SourceFile:  tx.SourceFile,
		})
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("writing transactions CSV: %w", err)
	}
	w.logger.WithField("count", len(rows)).Info("Exported transactions")
	return nil
}

// WritePairs exports the pairing report as CSV: two rows per pair, one per
// role, symmetric references. Unmatched transfers go to their own export.
func (w *Writer) WritePairs(out io.Writer, report transfer.Report) error {
	rows := make([]pairRow, 0, len(report.Pairs)*2)
	for _, p := range report.Pairs {
		rows = append(rows,
			pairRow{
				PairID:        p.PairID,
				TransactionID: p.OutboundID,
				Role:          string(models.RoleOutbound),
				CounterpartID: p.InboundID,
				DayGap:        p.DayGap,
				Confidence:    string(p.Confidence),
			},
			pairRow{
				PairID:        p.PairID,
				TransactionID: p.InboundID,
				Role:          string(models.RoleInbound),
				CounterpartID: p.OutboundID,
				DayGap:        p.DayGap,
				Confidence:    string(p.Confidence),
			},
		)
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("writing pairs CSV: %w", err)
	}
	return nil
}

// WriteUnmatched exports the unpaired internal transfers as CSV.
func (w *Writer) WriteUnmatched(out io.Writer, report transfer.Report) error {
	rows := make([]unmatchedRow, 0, len(report.Unmatched))
	for _, u := range report.Unmatched {
		rows = append(rows, unmatchedRow{
			TransactionID: u.TransactionID,
			PairCategory:  string(u.Category),
		})
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("writing unmatched CSV: %w", err)
	}
	return nil
}

// RenderSummary renders a batch summary for the terminal. Hard failures
// come first; soft findings follow.
func (w *Writer) RenderSummary(out io.Writer, summary *ingest.Summary) error {
	var b strings.Builder

	failed := summary.FailedFiles()
	fmt.Fprintf(&b, "Files processed: %d (%d excluded)\n", len(summary.Files), len(failed))
	for _, f := range failed {
		fmt.Fprintf(&b, "  EXCLUDED %s: %v\n", f.File, f.Err)
	}

	fmt.Fprintf(&b, "Accepted:     %d\n", summary.Accepted)
	fmt.Fprintf(&b, "Duplicates:   %d\n", summary.Duplicates)
	fmt.Fprintf(&b, "Unclassified: %d\n", summary.Unclassified)
	fmt.Fprintf(&b, "Coercions:    %d\n", summary.Coercions)

	layers := make([]string, 0, len(summary.ByLayer))
	for layer := range summary.ByLayer {
		layers = append(layers, string(layer))
	}
	sort.Strings(layers)
	for _, layer := range layers {
		fmt.Fprintf(&b, "  layer %-4s %d\n", layer, summary.ByLayer[models.Layer(layer)])
	}

	_, err := io.WriteString(out, b.String())
	return err
}
