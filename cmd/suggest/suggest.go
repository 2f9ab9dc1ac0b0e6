// Package suggest implements the AI suggestion command for unclassified
// movements.
package suggest

import (
	"fmt"

	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/internal/rules"
	"amunoz/movimientos/internal/suggest"

	"github.com/spf13/cobra"
)

var apply bool

// Cmd represents the suggest command.
var Cmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask Gemini for category proposals on unclassified movements",
	Long: `Suggest sends each stored unclassified movement to Gemini and prints
a category proposal constrained to the configured vocabulary. Proposals
are hints for the operator; with --apply, proposals that carry a
merchant are saved to the learned-merchant table so the next ingest run
picks them up at layer 2.5. The classification cascade itself never
calls the model.

Requires ai.enabled and GEMINI_API_KEY.`,
	RunE: suggestFunc,
}

func init() {
	Cmd.Flags().BoolVar(&apply, "apply", false, "save proposals with a merchant to the learned-merchant table")
}

func suggestFunc(cmd *cobra.Command, args []string) error {
	if !root.Cfg.AI.Enabled {
		return fmt.Errorf("AI suggestions are disabled; set ai.enabled and GEMINI_API_KEY")
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	records, err := st.ListUnclassified()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No unclassified movements.")
		return nil
	}

	tables, err := root.LoadTables()
	if err != nil {
		return err
	}

	model, err := suggest.NewGeminiModel(cmd.Context(), root.Cfg.AI.APIKey, root.Cfg.AI.Model)
	if err != nil {
		return err
	}
	defer func() {
		_ = model.Close()
	}()

	suggester := suggest.New(model, tables, root.Log)
	proposals := suggester.ProposeAll(cmd.Context(), records)

	out := cmd.OutOrStdout()
	saved := 0
	for _, p := range proposals {
		fmt.Fprintf(out, "#%d %s\n  -> %s", p.TransactionID, p.Description, p.Pair.Category1)
		if p.Pair.Category2 != "" {
			fmt.Fprintf(out, " / %s", p.Pair.Category2)
		}
		fmt.Fprintln(out)

		if apply && p.Merchant != "" {
			if err := st.SaveMerchant(p.Merchant, rules.CategoryPair{
				Category1: p.Pair.Category1,
				Category2: p.Pair.Category2,
			}); err != nil {
				return err
			}
			saved++
		}
	}
	fmt.Fprintf(out, "%d proposals for %d movements", len(proposals), len(records))
	if apply {
		fmt.Fprintf(out, ", %d merchants saved", saved)
	}
	fmt.Fprintln(out)
	return nil
}
