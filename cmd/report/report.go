// Package report implements the CSV export command.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/internal/models"
	"amunoz/movimientos/internal/report"

	"github.com/spf13/cobra"
)

var outputDir string

// Cmd represents the report command.
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Export stored movements and pairing results as CSV",
	Long: `Report writes three CSV files to the output directory: the
classified movements, the reconciled transfer pairs (one row per leg)
and the internal transfers left unpaired.`,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the CSV files (defaults to the data directory)")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	if outputDir == "" {
		outputDir = root.Cfg.Data.Directory
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	records, err := st.ListTransactions()
	if err != nil {
		return err
	}
	pairReport, err := st.LoadPairReport()
	if err != nil {
		return err
	}

	w := report.NewWriter(root.Log)

	exports := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"movimientos.csv", func(f *os.File) error { return w.WriteTransactions(f, records) }},
		{"parejas.csv", func(f *os.File) error { return w.WritePairs(f, pairReport) }},
		{"sin_pareja.csv", func(f *os.File) error { return w.WriteUnmatched(f, pairReport) }},
	}
	for _, e := range exports {
		path := filepath.Join(outputDir, e.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := e.write(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}

	byLayer, err := st.CountByLayer()
	if err != nil {
		return err
	}
	total := 0
	for _, n := range byLayer {
		total += n
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nMovements: %d (%d paired, %d unpaired internal transfers)\n",
		total, 2*len(pairReport.Pairs), len(pairReport.Unmatched))
	layers := make([]models.Layer, 0, len(byLayer))
	for layer := range byLayer {
		layers = append(layers, layer)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })
	for _, layer := range layers {
		fmt.Fprintf(cmd.OutOrStdout(), "  layer %s: %d\n", layer, byLayer[layer])
	}
	return nil
}
