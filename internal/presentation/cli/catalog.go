package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Zhima-Mochi/minishop-catalog/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products that can be ordered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := withCommandContext(cmd.Context(), a.tel.Logger(), "products")
			products := a.shop.ListProducts(ctx)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(products)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProducts(products))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func newTotalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Show the total quantity of active products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := withCommandContext(cmd.Context(), a.tel.Logger(), "total")
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTotal(a.shop.TotalQuantity(ctx)))
			return nil
		},
	}
}
