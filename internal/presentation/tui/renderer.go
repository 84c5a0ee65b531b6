package tui

import (
	"fmt"
	"strings"

	"github.com/Zhima-Mochi/minishop-catalog/internal/application/shop"
	"github.com/Zhima-Mochi/minishop-catalog/internal/domain/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	accent  = lipgloss.Color("#2563EB") // blue
	fg      = lipgloss.Color("#E5E7EB") // light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	promo   = lipgloss.Color("#F59E0B") // amber
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	okStyle       = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	promoStyle    = lipgloss.NewStyle().Foreground(promo)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 56))
)

// RenderProducts lists products numbered from 1, the numbers the menu accepts.
func RenderProducts(products []shop.ProductView) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Products"))
	b.WriteString("\n")
	if len(products) == 0 {
		b.WriteString(dimStyle.Render("  No products available."))
		b.WriteString("\n")
		return b.String()
	}
	for i, p := range products {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%3d. ", i+1)))
		b.WriteString(titleStyle.Render(p.Name))
		b.WriteString(dimStyle.Render(strings.TrimPrefix(p.Display, p.Name)))
		if p.Promotion != "" {
			b.WriteString("  ")
			b.WriteString(promoStyle.Render("★"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func RenderTotal(total int) string {
	return titleStyle.Render("Total quantity: ") + fmt.Sprintf("%d", total) + "\n"
}

// RenderReceipt shows every line of an order, skipped ones with their reason.
func RenderReceipt(orderID string, lines []store.LineResult, total decimal.Decimal) string {
	var b strings.Builder
	header := headerStyle.Render("Order") + " " + dimStyle.Render(orderID)

	var body strings.Builder
	for _, l := range lines {
		if l.OK() {
			body.WriteString(okStyle.Render("✓ "))
			body.WriteString(fmt.Sprintf("%-28s x%-4d $%s", l.Line.Name, l.Line.Quantity, l.Price.String()))
		} else {
			body.WriteString(failStyle.Render("✗ "))
			body.WriteString(fmt.Sprintf("%-28s x%-4d ", l.Line.Name, l.Line.Quantity))
			body.WriteString(dimStyle.Render(l.Reason()))
		}
		body.WriteString("\n")
	}
	if len(lines) == 0 {
		body.WriteString(dimStyle.Render("No lines."))
		body.WriteString("\n")
	}
	body.WriteString(separatorLine)
	body.WriteString("\n")
	body.WriteString(titleStyle.Render("Total payment: $" + total.String()))

	b.WriteString(boxStyle.Render(header + "\n\n" + body.String()))
	b.WriteString("\n")
	return b.String()
}

// RenderSkipped lists the lines of an order that were not bought.
func RenderSkipped(lines []store.LineResult) string {
	var b strings.Builder
	for _, l := range lines {
		if l.OK() {
			continue
		}
		b.WriteString(failStyle.Render(l.Reason()))
		b.WriteString("\n")
	}
	return b.String()
}
