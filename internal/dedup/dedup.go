package dedup

import (
	"errors"
	"fmt"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
)

// ErrMissingHash marks an upstream contract violation: a parser delivered a
// record without a content hash. The file must be excluded, not weakened to
// a lesser hash.
var ErrMissingHash = errors.New("record missing content hash")

// Registry tracks persisted occurrence counts per account and fingerprint.
// It is the only mutable state shared across files in a run and is written
// exclusively through Apply. Dedup decisions for one account never depend on
// another account's entries.
type Registry struct {
	counts map[string]map[string]int // account → fingerprint → persisted count
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{counts: make(map[string]map[string]int)}
}

// Seed sets the persisted count for one (account, fingerprint) entry.
// Used when loading the registry from the store and in tests.
func (r *Registry) Seed(account, fingerprint string, count int) {
	if r.counts[account] == nil {
		r.counts[account] = make(map[string]int)
	}
	r.counts[account][fingerprint] = count
}

// Count returns the persisted occurrence count for a fingerprint.
func (r *Registry) Count(account, fingerprint string) int {
	return r.counts[account][fingerprint]
}

// Delta is the per-account set of newly accepted occurrence counts produced
// by filtering one file. Applied to the registry only after the records are
// durably persisted, so counts track persisted occurrences, not occurrences
// ever scanned.
type Delta map[string]map[string]int

// Apply folds a delta into the registry.
func (r *Registry) Apply(delta Delta) {
	for account, fingerprints := range delta {
		for fingerprint, accepted := range fingerprints {
			if r.counts[account] == nil {
				r.counts[account] = make(map[string]int)
			}
			r.counts[account][fingerprint] += accepted
		}
	}
}

// Deduplicator decides NEW or DUPLICATE per record. It owns hash comparison;
// nothing else reads or writes the registry.
type Deduplicator struct {
	registry *Registry
	logger   logging.Logger
}

// New creates a deduplicator over a registry the caller owns for the run.
func New(registry *Registry, logger logging.Logger) *Deduplicator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Deduplicator{registry: registry, logger: logger}
}

// Filter partitions one file's records into accepted (NEW) and rejected
// (DUPLICATE). The Nth in-file occurrence of a fingerprint is NEW only if
// fewer than N occurrences already exist in the persisted registry; this
// keeps five genuinely identical purchases apart while recognizing a full
// re-import as entirely duplicate. Filter does not mutate the registry: the
// caller applies the returned delta after persistence succeeds.
func (d *Deduplicator) Filter(records []models.Transaction) (accepted []models.Transaction, duplicates int, delta Delta, err error) {
	delta = make(Delta)
	occurrences := make(map[string]int, len(records))

	for _, record := range records {
		if record.Hash == "" {
			return nil, 0, nil, fmt.Errorf("%w: %s line %d", ErrMissingHash, record.SourceFile, record.LineNum)
		}

		fingerprint := Fingerprint(record)
		key := record.Account + "\x00" + fingerprint
		occurrences[key]++
		n := occurrences[key]

		if d.registry.Count(record.Account, fingerprint) < n {
			accepted = append(accepted, record)
			if delta[record.Account] == nil {
				delta[record.Account] = make(map[string]int)
			}
			delta[record.Account][fingerprint]++
		} else {
			duplicates++
			d.logger.WithFields(
				logging.Field{Key: "file", Value: record.SourceFile},
				logging.Field{Key: "line", Value: record.LineNum},
			).Debug("Duplicate record skipped")
		}
	}
	return accepted, duplicates, delta, nil
}
