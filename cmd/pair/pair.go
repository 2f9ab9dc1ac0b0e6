// Package pair implements the transfer pairing command.
package pair

import (
	"fmt"

	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/internal/transfer"

	"github.com/spf13/cobra"
)

// Cmd represents the pair command.
var Cmd = &cobra.Command{
	Use:   "pair",
	Short: "Reconcile internal transfers across accounts",
	Long: `Pair matches stored internal transfers into outbound/inbound pairs
and sub-categorizes what it cannot match. The result replaces the
previous pairing run; the underlying movements are never modified.`,
	RunE: pairFunc,
}

func pairFunc(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	transfers, err := st.ListInternalTransfers()
	if err != nil {
		return err
	}

	matcher := transfer.NewMatcher(root.Cfg.Pairing.MaxDayGap, root.Log)
	rep := matcher.Match(transfers)

	if err := st.SavePairReport(rep); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Internal transfers: %d\n", len(transfers))
	fmt.Fprintf(out, "Pairs:              %d\n", len(rep.Pairs))
	fmt.Fprintf(out, "Unmatched:          %d\n", len(rep.Unmatched))
	return nil
}
