package store

import (
	"fmt"

	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/transfer"
)

// SavePairReport replaces the stored pairing results with a fresh matcher
// run. Pairing is a derived annotation, so each run supersedes the last.
func (s *Store) SavePairReport(report transfer.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning pair save: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM transfer_pairs`); err != nil {
		return fmt.Errorf("clearing pairs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM unmatched_transfers`); err != nil {
		return fmt.Errorf("clearing unmatched transfers: %w", err)
	}

	for _, p := range report.Pairs {
		if _, err := tx.Exec(
			`INSERT INTO transfer_pairs (pair_id, outbound_id, inbound_id, day_gap, confidence)
			 VALUES (?, ?, ?, ?, ?)`,
			p.PairID, p.OutboundID, p.InboundID, p.DayGap, string(p.Confidence),
		); err != nil {
			return fmt.Errorf("inserting pair %s: %w", p.PairID, err)
		}
	}
	for _, u := range report.Unmatched {
		if _, err := tx.Exec(
			`INSERT INTO unmatched_transfers (transaction_id, pair_category) VALUES (?, ?)`,
			u.TransactionID, string(u.Category),
		); err != nil {
			return fmt.Errorf("inserting unmatched transfer %d: %w", u.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pair save: %w", err)
	}
	return nil
}

// LoadPairReport returns the stored pairing results.
func (s *Store) LoadPairReport() (transfer.Report, error) {
	var report transfer.Report

	rows, err := s.db.Query(
		`SELECT pair_id, outbound_id, inbound_id, day_gap, confidence
		 FROM transfer_pairs ORDER BY pair_id`)
	if err != nil {
		return report, fmt.Errorf("loading pairs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var p models.TransferPair
		var confidence string
		if err := rows.Scan(&p.PairID, &p.OutboundID, &p.InboundID, &p.DayGap, &confidence); err != nil {
			return report, err
		}
		p.Confidence = models.PairConfidence(confidence)
		report.Pairs = append(report.Pairs, p)
	}
	if err := rows.Err(); err != nil {
		return report, err
	}

	unmatched, err := s.db.Query(
		`SELECT transaction_id, pair_category FROM unmatched_transfers ORDER BY transaction_id`)
	if err != nil {
		return report, fmt.Errorf("loading unmatched transfers: %w", err)
	}
	defer func() {
		_ = unmatched.Close()
	}()
	for unmatched.Next() {
		var u models.UnmatchedTransfer
		var category string
		if err := unmatched.Scan(&u.TransactionID, &category); err != nil {
			return report, err
		}
		u.Category = models.PairCategory(category)
		report.Unmatched = append(report.Unmatched, u)
	}
	return report, unmatched.Err()
}
