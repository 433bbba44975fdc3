// Package receipt renders recorded sales as plain-text tickets for
// 32-column receipt printers.
package receipt

import (
	"fmt"
	"strings"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/money"
)

const width = 32

// Renderer turns sales into printable tickets
type Renderer struct {
	currencyCode string
}

// NewRenderer creates a renderer for the given currency code
func NewRenderer(currencyCode string) *Renderer {
	return &Renderer{currencyCode: currencyCode}
}

// Render produces the full ticket text for a sale
func (r *Renderer) Render(sale *models.SaleWithItems, settings *models.Settings) string {
	var b strings.Builder
	rule := strings.Repeat("-", width)

	b.WriteString(center(settings.Name))
	b.WriteByte('\n')
	if settings.Address != "" {
		b.WriteString(center(settings.Address))
		b.WriteByte('\n')
	}
	if settings.Phone != nil && *settings.Phone != "" {
		b.WriteString(center("Tél: " + *settings.Phone))
		b.WriteByte('\n')
	}

	b.WriteString(rule)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Ticket N°: %s\n", sale.TicketNumber)
	fmt.Fprintf(&b, "Date: %s\n", sale.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString(rule)
	b.WriteByte('\n')

	for _, item := range sale.Items {
		b.WriteString(item.ProductName)
		b.WriteByte('\n')
		left := fmt.Sprintf("  %d x %s", item.Quantity, money.Format(item.UnitPrice))
		b.WriteString(spread(left, money.Format(item.TotalPrice)))
		b.WriteByte('\n')
	}

	b.WriteString(rule)
	b.WriteByte('\n')
	b.WriteString(spread("TOTAL", money.FormatWithCode(sale.Total, r.currencyCode)))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Articles: %d\n", sale.ItemsCount)
	b.WriteString(rule)
	b.WriteByte('\n')
	b.WriteString(center("Merci de votre visite!"))
	b.WriteByte('\n')

	return b.String()
}

// center pads a line to the ticket width
func center(s string) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

// spread puts left and right text at the ticket edges
func spread(left, right string) string {
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
