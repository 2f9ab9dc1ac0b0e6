package store

import (
	"database/sql"
	"fmt"
	"time"

	"amunoz/movimientos/internal/models"

	"github.com/shopspring/decimal"
)

// InsertTransactions persists a batch of accepted records atomically and
// fills in their database ids. Duplicate hashes violate the schema's unique
// constraint: deduplication must have run first.
func (s *Store) InsertTransactions(records []models.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions
			(date, amount, description, bank, account, source_file, line_num,
			 category1, category2, type, layer, merchant, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range records {
		r := &records[i]
		res, err := stmt.Exec(
			r.DateString(), r.Amount.String(), r.Description, r.Bank, r.Account,
			r.SourceFile, r.LineNum,
			r.Category1, r.Category2, string(r.Type), string(r.Layer), r.Merchant, r.Hash,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s line %d: %w", r.SourceFile, r.LineNum, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading insert id: %w", err)
		}
		r.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

const selectColumns = `
	id, date, amount, description, bank, account, source_file, line_num,
	category1, category2, type, layer, merchant, hash`

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction
	var date, amount, txType, layer string
	if err := rows.Scan(
		&t.ID, &date, &amount, &t.Description, &t.Bank, &t.Account,
		&t.SourceFile, &t.LineNum,
		&t.Category1, &t.Category2, &txType, &layer, &t.Merchant, &t.Hash,
	); err != nil {
		return models.Transaction{}, err
	}

	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parsing stored date %q: %w", date, err)
	}
	t.Date = parsed

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parsing stored amount %q: %w", amount, err)
	}
	t.Amount = dec
	t.Type = models.TxType(txType)
	t.Layer = models.Layer(layer)
	return t, nil
}

func (s *Store) queryTransactions(query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// ListTransactions returns every stored record in insertion order.
func (s *Store) ListTransactions() ([]models.Transaction, error) {
	return s.queryTransactions(`SELECT` + selectColumns + ` FROM transactions ORDER BY id`)
}

// ListInternalTransfers returns the non-zero internal transfers the pairing
// matcher reconciles.
func (s *Store) ListInternalTransfers() ([]models.Transaction, error) {
	return s.queryTransactions(
		`SELECT`+selectColumns+` FROM transactions
		 WHERE category1 = ? AND category2 = ? AND amount NOT IN ('0', '0.00')
		 ORDER BY id`,
		models.CategoryTransfers, models.TransferInternal,
	)
}

// ListUnclassified returns the layer-5 records, the set the suggest command
// proposes categories for.
func (s *Store) ListUnclassified() ([]models.Transaction, error) {
	return s.queryTransactions(
		`SELECT`+selectColumns+` FROM transactions WHERE category1 = ? ORDER BY id`,
		models.CategoryUnclassified,
	)
}

// CountByLayer returns how many stored records each classification layer
// produced.
func (s *Store) CountByLayer() (map[models.Layer]int, error) {
	rows, err := s.db.Query(`SELECT layer, COUNT(*) FROM transactions GROUP BY layer`)
	if err != nil {
		return nil, fmt.Errorf("counting by layer: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[models.Layer]int)
	for rows.Next() {
		var layer string
		var count int
		if err := rows.Scan(&layer, &count); err != nil {
			return nil, err
		}
		counts[models.Layer(layer)] = count
	}
	return counts, rows.Err()
}
