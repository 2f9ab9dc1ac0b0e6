package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"amunoz/movimientos/internal/rules"
)

// LookupMerchant returns the persisted categorization of a merchant, if any.
// It satisfies the classifier's merchant store and backs the lookup layer
// that sits between the rule dictionary and the keyword passes.
func (s *Store) LookupMerchant(name string) (rules.CategoryPair, bool, error) {
	var pair rules.CategoryPair
	row := s.db.QueryRow(
		`SELECT category1, category2 FROM merchants WHERE name = ?`,
		strings.ToUpper(strings.TrimSpace(name)),
	)
	if err := row.Scan(&pair.Category1, &pair.Category2); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rules.CategoryPair{}, false, nil
		}
		return rules.CategoryPair{}, false, fmt.Errorf("looking up merchant %q: %w", name, err)
	}
	return pair, true, nil
}

// SaveMerchant records or updates a merchant categorization.
func (s *Store) SaveMerchant(name string, pair rules.CategoryPair) error {
	_, err := s.db.Exec(
		`INSERT INTO merchants (name, category1, category2) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			category1 = excluded.category1,
			category2 = excluded.category2`,
		strings.ToUpper(strings.TrimSpace(name)), pair.Category1, pair.Category2,
	)
	if err != nil {
		return fmt.Errorf("saving merchant %q: %w", name, err)
	}
	return nil
}
