// Package ingest implements the batch ingestion command.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/internal/ingest"
	"amunoz/movimientos/internal/report"

	"github.com/spf13/cobra"
)

var inputDir string

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest bank export files into the database",
	Long: `Ingest parses the given export files (or every file in --input-dir),
deduplicates them against previous imports, classifies every accepted
movement and stores the result. Files the parsers reject are excluded
and reported; they never abort the batch.

Example:
  movimientos ingest exports/openbank_marzo.csv exports/ing_marzo.xlsx
  movimientos ingest --input-dir exports/`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "ingest every file in this directory")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	paths := args
	if inputDir != "" {
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return fmt.Errorf("reading input directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				paths = append(paths, filepath.Join(inputDir, entry.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("nothing to ingest: pass files or --input-dir")
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	cl, err := root.NewClassifier(st)
	if err != nil {
		return err
	}

	runner := ingest.NewRunner(st, cl, root.Log)
	summary, err := runner.Run(paths)
	if err != nil {
		return err
	}

	return report.NewWriter(root.Log).RenderSummary(cmd.OutOrStdout(), summary)
}
