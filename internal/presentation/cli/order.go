package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/Zhima-Mochi/minishop-catalog/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var errLineFormat = errors.New("order line must look like NAME=QUANTITY")

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order NAME=QUANTITY...",
		Short: "Place one order and print its receipt",
		Long: "Place one order against a freshly loaded catalog. Lines that cannot be bought are " +
			"listed with the reason and do not stop the rest of the order.",
		Example: `  minishop order "MacBook Air M2=2" "Shipping=1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseLines(args)
			if err != nil {
				return err
			}

			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := withCommandContext(cmd.Context(), a.tel.Logger(), "order")
			res, err := a.shop.PlaceOrder(ctx, shop.PlaceOrderInput{Lines: lines})
			if err != nil {
				return fmt.Errorf("placing order: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReceipt(res.OrderID, res.Report.Lines, res.Report.Total))
			return nil
		},
	}
}

// parseLines splits each argument at its last '=' so names may contain '='.
func parseLines(args []string) ([]store.Line, error) {
	lines := make([]store.Line, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q", errLineFormat, arg)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(arg[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errLineFormat, arg)
		}
		lines = append(lines, store.Line{Name: strings.TrimSpace(arg[:i]), Quantity: qty})
	}
	return lines, nil
}
