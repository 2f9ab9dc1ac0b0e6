// Package ingest runs the batch pipeline: for each export file, parse,
// hash, deduplicate, classify and persist. One defective file never aborts
// the batch; it is excluded and reported.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"amunoz/movimientos/internal/bankparser"
	"amunoz/movimientos/internal/classifier"
	"amunoz/movimientos/internal/dedup"
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/store"
)

// FileResult is the per-file outcome of a batch run.
type FileResult struct {
	File       string
	Bank       string
	Parsed     int
	Accepted   int
	Duplicates int
	Err        error
}

// Summary aggregates a batch run. Hard failures (excluded files) are kept
// apart from soft findings: duplicates, unclassified records and coercions
// are expected outcomes, not errors.
type Summary struct {
	Files        []FileResult
	Accepted     int
	Duplicates   int
	Unclassified int
	Coercions    int
	ByLayer      map[models.Layer]int
}

// FailedFiles returns the files excluded by a parser or pipeline defect.
func (s *Summary) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range s.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Runner wires the pipeline stages together. Single-threaded: the hash
// registry is the only state shared across files and is owned by the
// deduplicator for the whole run.
type Runner struct {
	store      *store.Store
	classifier *classifier.Classifier
	logger     logging.Logger
}

func NewRunner(st *store.Store, cl *classifier.Classifier, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Runner{store: st, classifier: cl, logger: logger}
}

// Run ingests the given export files in a stable order: size descending,
// then name. Larger files first makes overlapping exports resolve the same
// way run after run, whatever order the shell globbed them in.
func (r *Runner) Run(paths []string) (*Summary, error) {
	ordered, err := orderFiles(paths)
	if err != nil {
		return nil, err
	}

	registry, err := r.store.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading hash registry: %w", err)
	}
	deduper := dedup.New(registry, r.logger)

	coercionsBefore := r.classifier.Coercions()
	summary := &Summary{ByLayer: make(map[models.Layer]int)}

	for _, path := range ordered {
		result := r.ingestFile(path, deduper, registry, summary)
		summary.Files = append(summary.Files, result)
		if result.Err != nil {
			r.logger.WithError(result.Err).WithField("file", path).Error("File excluded from batch")
		}
	}

	summary.Coercions = r.classifier.Coercions() - coercionsBefore
	return summary, nil
}

func (r *Runner) ingestFile(path string, deduper *dedup.Deduplicator, registry *dedup.Registry, summary *Summary) FileResult {
	result := FileResult{File: path}

	parser, err := bankparser.Detect(func() (io.ReadCloser, error) {
		return os.Open(path)
	}, r.logger)
	if err != nil {
		result.Err = err
		return result
	}
	result.Bank = parser.Bank()

	f, err := os.Open(path)
	if err != nil {
		result.Err = err
		return result
	}
	records, err := parser.Parse(f, filepath.Base(path))
	_ = f.Close()
	if err != nil {
		result.Err = err
		return result
	}
	result.Parsed = len(records)

	dedup.HashFile(records)

	accepted, duplicates, delta, err := deduper.Filter(records)
	if err != nil {
		result.Err = err
		return result
	}
	result.Duplicates = duplicates

	for i := range accepted {
		r.classifier.ClassifyTransaction(&accepted[i])
	}

	if len(accepted) > 0 {
		if err := r.store.InsertTransactions(accepted); err != nil {
			result.Err = fmt.Errorf("persisting %s: %w", path, err)
			return result
		}
		if err := r.store.ApplyRegistryDelta(delta); err != nil {
			result.Err = fmt.Errorf("updating registry for %s: %w", path, err)
			return result
		}
		// In-memory registry follows only after durable persistence, so
		// counts track persisted occurrences.
		registry.Apply(delta)
	}

	for i := range accepted {
		summary.ByLayer[accepted[i].Layer]++
		if accepted[i].Category1 == models.CategoryUnclassified {
			summary.Unclassified++
		}
	}
	result.Accepted = len(accepted)
	summary.Accepted += len(accepted)
	summary.Duplicates += duplicates
	return result
}

func orderFiles(paths []string) ([]string, error) {
	type entry struct {
		path string
		size int64
	}
	entries := make([]entry, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		entries = append(entries, entry{path: p, size: info.Size()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].size != entries[j].size {
			return entries[i].size > entries[j].size
		}
		return entries[i].path < entries[j].path
	})
	ordered := make([]string, len(entries))
	for i, e := range entries {
		ordered[i] = e.path
	}
	return ordered, nil
}
