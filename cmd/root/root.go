// Package root contains the root command and the shared wiring every
// subcommand builds on.
package root

import (
	"fmt"

	"amunoz/movimientos/internal/classifier"
	"amunoz/movimientos/internal/config"
	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/rules"
	"amunoz/movimientos/internal/store"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands.
	Log logging.Logger = logging.GetLogger()

	// Cfg is the loaded configuration, available after PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "movimientos",
		Short: "Classify and deduplicate Spanish bank exports",
		Long: `movimientos ingests heterogeneous bank export files, removes the
duplicates overlapping downloads introduce, classifies every movement
through an ordered rule cascade and reconciles transfers between your
own accounts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetDefault(Log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// OpenStore opens the configured SQLite database.
func OpenStore() (*store.Store, error) {
	return store.Open(Cfg.DatabasePath(), Log)
}

// LoadTables loads the rule tables: built-in defaults overlaid with the
// YAML files, plus the exact-match table when a ground-truth CSV is
// configured.
func LoadTables() (*rules.Tables, error) {
	ruleStore := rules.NewStore(Cfg.Rules.Directory, Log)
	tables, err := ruleStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading rule tables: %w", err)
	}
	if Cfg.Rules.GroundTruth != "" {
		if err := ruleStore.LoadGroundTruth(Cfg.Rules.GroundTruth, tables); err != nil {
			return nil, fmt.Errorf("loading ground truth: %w", err)
		}
	}
	return tables, nil
}

// NewClassifier assembles the cascade over the loaded tables, with the
// store as the learned-merchant lookup.
func NewClassifier(st *store.Store) (*classifier.Classifier, error) {
	tables, err := LoadTables()
	if err != nil {
		return nil, err
	}
	return classifier.New(tables, st, Log), nil
}
