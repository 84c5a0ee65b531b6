package store

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineStatus is the outcome of a single order line.
type LineStatus string

const (
	LineOK                LineStatus = "ok"
	LineUnknownProduct    LineStatus = "unknown_product"
	LineInvalidQuantity   LineStatus = "invalid_quantity"
	LineInsufficientStock LineStatus = "insufficient_stock"
	LineLimitExceeded     LineStatus = "limit_exceeded"
	LineRejected          LineStatus = "rejected"
)

// Line is one (name, quantity) request of a shopping list.
type Line struct {
	Name     string
	Quantity int
}

// LineResult records what happened to a line. Price is zero unless Status is LineOK.
// Available and Maximum are filled for stock and limit failures.
type LineResult struct {
	Line      Line
	Status    LineStatus
	Price     decimal.Decimal
	Available int
	Maximum   int
	Err       error
}

func (r LineResult) OK() bool { return r.Status == LineOK }

// Reason describes why a line was skipped; empty for successful lines.
func (r LineResult) Reason() string {
	name := r.Line.Name
	switch r.Status {
	case LineOK:
		return ""
	case LineUnknownProduct:
		return fmt.Sprintf("Product %q not found", name)
	case LineInvalidQuantity:
		return fmt.Sprintf("Invalid quantity for %s", name)
	case LineInsufficientStock:
		return fmt.Sprintf("Not enough stock for %s. Available quantity: %d", name, r.Available)
	case LineLimitExceeded:
		return fmt.Sprintf("Purchase quantity for %s cannot exceed the max limit of %d item per order", name, r.Maximum)
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return fmt.Sprintf("Could not buy %s", name)
	}
}

// Report is the per-line outcome of an order and the total over successful lines.
type Report struct {
	Lines []LineResult
	Total decimal.Decimal
}

func (r *Report) Succeeded() int {
	n := 0
	for _, l := range r.Lines {
		if l.OK() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int { return len(r.Lines) - r.Succeeded() }

// Order processes lines independently: a failed line is recorded and skipped, and
// stock taken by earlier lines is never given back.
func (s *Store) Order(lines []Line) *Report {
	report := &Report{
		Lines: make([]LineResult, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		res := s.orderLine(line)
		if res.OK() {
			report.Total = report.Total.Add(res.Price)
		}
		report.Lines = append(report.Lines, res)
	}
	return report
}

func (s *Store) orderLine(line Line) LineResult {
	res := LineResult{Line: line, Price: decimal.Zero}

	p, ok := s.Product(line.Name)
	if !ok {
		res.Status = LineUnknownProduct
		return res
	}
	if line.Quantity <= 0 {
		res.Status = LineInvalidQuantity
		return res
	}
	if p.TracksStock() && line.Quantity > p.Quantity() {
		res.Status = LineInsufficientStock
		res.Available = p.Quantity()
		return res
	}
	if limit, capped := p.MaxPerOrder(); capped && line.Quantity > limit {
		res.Status = LineLimitExceeded
		res.Maximum = limit
		return res
	}

	price, err := p.Buy(line.Quantity)
	if err != nil {
		res.Status = LineRejected
		res.Err = err
		return res
	}
	res.Status = LineOK
	res.Price = price
	return res
}
