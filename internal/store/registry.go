package store

import (
	"fmt"

	"amunoz/movimientos/internal/dedup"
)

// LoadRegistry seeds a dedup registry with the occurrence counts persisted by
// earlier batches.
func (s *Store) LoadRegistry() (*dedup.Registry, error) {
	rows, err := s.db.Query(`SELECT account, fingerprint, count FROM hash_registry`)
	if err != nil {
		return nil, fmt.Errorf("loading hash registry: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	reg := dedup.NewRegistry()
	for rows.Next() {
		var account, fingerprint string
		var count int
		if err := rows.Scan(&account, &fingerprint, &count); err != nil {
			return nil, err
		}
		reg.Seed(account, fingerprint, count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reg, nil
}

// ApplyRegistryDelta folds the accepted occurrences of a persisted batch into
// the stored registry. Call it only after InsertTransactions succeeded.
func (s *Store) ApplyRegistryDelta(delta dedup.Delta) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning registry update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO hash_registry (account, fingerprint, count)
		VALUES (?, ?, ?)
		ON CONFLICT(account, fingerprint)
		DO UPDATE SET count = count + excluded.count`)
	if err != nil {
		return fmt.Errorf("preparing registry upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for account, fingerprints := range delta {
		for fingerprint, n := range fingerprints {
			if n <= 0 {
				continue
			}
			if _, err := stmt.Exec(account, fingerprint, n); err != nil {
				return fmt.Errorf("upserting registry entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing registry update: %w", err)
	}
	return nil
}
