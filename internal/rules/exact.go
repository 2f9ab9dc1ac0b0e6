package rules

import (
	"fmt"
	"os"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"github.com/gocarina/gocsv"
)

// GroundTruthRow is one row of the historical ground-truth dataset the
// exact-match table is built from.
type GroundTruthRow struct {
	Description string        `csv:"description"`
	Category1   string        `csv:"category1"`
	Category2   string        `csv:"category2"`
	Type        models.TxType `csv:"type"`
}

// BuildExactTable builds the description→category lookup from historical
// rows. Collision policy: when a description was classified differently
// across the history, the most frequent pair wins; ties break toward the
// pair seen first, keeping the build deterministic.
func BuildExactTable(rows []GroundTruthRow) map[string]CategoryPair {
	type vote struct {
		pair  CategoryPair
		count int
		first int
	}

	votes := map[string]map[string]*vote{}
	for i, row := range rows {
		if row.Description == "" || row.Category1 == "" {
			continue
		}
		pair := CategoryPair{Category1: row.Category1, Category2: row.Category2, Type: row.Type}
		key := row.Category1 + "\x00" + row.Category2
		if votes[row.Description] == nil {
			votes[row.Description] = map[string]*vote{}
		}
		if v, ok := votes[row.Description][key]; ok {
			v.count++
		} else {
			votes[row.Description][key] = &vote{pair: pair, count: 1, first: i}
		}
	}

	table := make(map[string]CategoryPair, len(votes))
	for desc, candidates := range votes {
		var winner *vote
		for _, v := range candidates {
			if winner == nil || v.count > winner.count ||
				(v.count == winner.count && v.first < winner.first) {
				winner = v
			}
		}
		table[desc] = winner.pair
	}
	return table
}

// LoadGroundTruth reads the historical dataset CSV and builds the
// exact-match table into the given tables. A missing file leaves the table
// empty, which only disables layer 1.
func (s *Store) LoadGroundTruth(path string, tables *Tables) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("file", path).Warn("Ground-truth dataset not found, exact-match layer disabled")
			return nil
		}
		return fmt.Errorf("error opening ground-truth dataset: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close ground-truth file")
		}
	}()

	var rows []GroundTruthRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return fmt.Errorf("error parsing ground-truth dataset: %w", err)
	}

	tables.ExactMatch = BuildExactTable(rows)
	s.logger.WithFields(
		logging.Field{Key: "rows", Value: len(rows)},
		logging.Field{Key: "entries", Value: len(tables.ExactMatch)},
	).Info("Exact-match table built")
	return nil
}
