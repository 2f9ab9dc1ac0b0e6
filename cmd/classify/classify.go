// Package classify implements the ad-hoc classification command.
package classify

import (
	"fmt"
	"time"

	"amunoz/movimientos/cmd/root"
	"amunoz/movimientos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	description string
	bank        string
	amountStr   string
	dateStr     string
	account     string
)

// Cmd represents the classify command.
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one movement without storing it",
	Long: `Classify runs the rule cascade over a single description and prints
the verdict with its originating layer. Nothing is persisted; use it to
check what a rule change does to a movement.

Example:
  movimientos classify -d "COMPRA EN MERCADONA VALENCIA" -b OpenBank -a -42,17`,
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "movement description (required)")
	Cmd.Flags().StringVarP(&bank, "bank", "b", "", "bank identifier")
	Cmd.Flags().StringVarP(&amountStr, "amount", "a", "0", "signed amount")
	Cmd.Flags().StringVar(&dateStr, "date", "", "movement date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&account, "account", "", "account identifier")
	_ = Cmd.MarkFlagRequired("description")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
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

	amount, err := decimal.NewFromString(normalizeAmount(amountStr))
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr != "" {
		date, err = time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
	}

	result := cl.Classify(description, bank, amount, date, account)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Category:  %s", result.Category1)
	if result.Category2 != "" {
		fmt.Fprintf(out, " / %s", result.Category2)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Type:      %s\n", result.Type)
	fmt.Fprintf(out, "Layer:     %s\n", result.Layer)
	if result.Merchant != "" {
		fmt.Fprintf(out, "Merchant:  %s\n", result.Merchant)
	}
	return nil
}

// normalizeAmount accepts the Spanish decimal comma on the command line.
func normalizeAmount(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ',' {
			r = '.'
		}
		out = append(out, r)
	}
	return string(out)
}
