package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/Zhima-Mochi/minishop-catalog/internal/presentation/tui"
	"github.com/spf13/cobra"
)

const menuText = `
   Store Menu
   ----------
1. List all products in store
2. Show total amount in store
3. Make an order
4. Quit
`

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive store menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m := &menu{
				svc: a.shop,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return m.run(withCommandContext(cmd.Context(), a.tel.Logger(), "menu"))
		},
	}
}

// menu drives the store from line-based input. End of input quits.
type menu struct {
	svc *shop.Service
	in  *bufio.Scanner
	out io.Writer
}

func (m *menu) run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Please choose a number: ")
		if !ok {
			return m.in.Err()
		}
		switch choice {
		case "1":
			m.listProducts(ctx)
		case "2":
			fmt.Fprintf(m.out, "Total of %d items in store\n", m.svc.TotalQuantity(ctx))
		case "3":
			if err := m.order(ctx); err != nil {
				return err
			}
		case "4":
			return nil
		}
	}
}

func (m *menu) prompt(question string) (string, bool) {
	fmt.Fprint(m.out, question)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) listProducts(ctx context.Context) {
	fmt.Fprintln(m.out, "------")
	fmt.Fprint(m.out, tui.RenderProducts(m.svc.ListProducts(ctx)))
	fmt.Fprintln(m.out, "------")
}

// order collects product number and amount pairs until either answer is empty
// or not a number, then places the order.
func (m *menu) order(ctx context.Context) error {
	m.listProducts(ctx)
	fmt.Fprintln(m.out, "When you want to finish order, enter empty text")

	var lines []store.Line
	for {
		pos, ok := m.prompt("Which product # do you want? ")
		if !ok {
			break
		}
		amount, ok := m.prompt("What amount do you want? ")
		if !ok {
			break
		}
		p, perr := strconv.Atoi(pos)
		q, qerr := strconv.Atoi(amount)
		if perr != nil || qerr != nil {
			break
		}
		name, err := m.svc.ResolveSelection(ctx, p)
		if err != nil {
			fmt.Fprintf(m.out, "There is no product #%d\n", p)
			continue
		}
		lines = append(lines, store.Line{Name: name, Quantity: q})
		fmt.Fprint(m.out, "Product added to list!\n\n")
	}

	res, err := m.svc.PlaceOrder(ctx, shop.PlaceOrderInput{Lines: lines})
	if err != nil {
		return err
	}
	fmt.Fprint(m.out, tui.RenderSkipped(res.Report.Lines))
	fmt.Fprintln(m.out, "********")
	fmt.Fprintf(m.out, "Order made! Total payment: $%s\n", res.Report.Total.String())
	return nil
}
