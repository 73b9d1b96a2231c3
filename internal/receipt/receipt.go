// Package receipt renders a finalized sale as printable counter output.
// The layout is a compatibility surface: existing tooling parses the
// printed text, so line order, labels and separators must not change.
// The renderer never computes money, it only formats the totals the sale
// was persisted with.
package receipt

import (
	"fmt"
	"strings"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/money"
)

const (
	header     = "           FARMACIA SALUD"
	footer     = "        ¡GRACIAS POR SU COMPRA!"
	doubleRule = "═══════════════════════════════════"
	singleRule = "───────────────────────────────────"

	genericName     = "Cliente General"
	genericDocument = "00000000"
)

// Render produces the printable receipt for a finalized sale. taxRate is
// only used for the IGV label; the amount is the persisted one.
func Render(sale *model.Sale, taxRate float64) string {
	name, document := genericName, genericDocument
	if sale.Customer != nil {
		if sale.Customer.Name != "" {
			name = sale.Customer.Name
		}
		if sale.Customer.DocumentNumber != "" {
			document = sale.Customer.DocumentNumber
		}
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(doubleRule)
	line(header)
	line(doubleRule)
	line("%s: %s", sale.ReceiptType, sale.SaleNumber)
	line("Fecha: %s", sale.CreatedAt.Format("02/01/2006 15:04:05"))
	line(singleRule)
	line("Cliente: %s", name)
	line("Doc: %s", document)
	line(singleRule)
	line("PRODUCTOS:")
	for _, item := range sale.Items {
		line("%s", item.Name)
		line("  %d x %s = %s", item.Quantity, money.Format(item.UnitPrice), money.Format(item.Subtotal))
	}
	line(singleRule)
	line("%-17s%s", "Subtotal:", money.Format(sale.Subtotal))
	line("%-17s%s", fmt.Sprintf("IGV (%g%%):", taxRate*100), money.Format(sale.IGV))
	line("%-17s%s", "TOTAL:", money.Format(sale.Total))
	line(singleRule)
	line("Pago: %s", sale.PaymentMethod)
	line(singleRule)
	line(footer)
	b.WriteString(doubleRule)
	return b.String()
}
