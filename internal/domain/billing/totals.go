// Package billing contiene el motor de totales: la aritmética pura que deriva
// las cifras financieras de una factura a partir de sus líneas.
//
// El mismo motor respalda la vista previa del cliente y la persistencia
// autoritativa; el valor almacenado siempre proviene de una recomputación en
// el servidor, nunca del cuerpo de la petición.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals son las cifras agregadas de una factura. Subtotal ya es neto de
// descuento (Σ lineNet), NO la suma bruta de las líneas.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// LineBreakdown es el desglose de una línea. DisplayTotal (neto + impuesto) se
// usa solo en presentación; nunca se persiste.
type LineBreakdown struct {
	Gross        decimal.Decimal
	Discount     decimal.Decimal
	Net          decimal.Decimal
	Tax          decimal.Decimal
	DisplayTotal decimal.Decimal
}

// BreakdownLine deriva el desglose de una línea. El orden importa: el
// descuento se aplica sobre el bruto y el impuesto sobre el neto resultante.
// No se redondea aquí; el redondeo a 2 decimales es asunto de presentación.
func BreakdownLine(item entity.LineItem) LineBreakdown {
	gross := item.Quantity.Mul(item.UnitPrice)
	discount := gross.Mul(item.Discount.Div(hundred))
	net := gross.Sub(discount)
	tax := net.Mul(item.TaxRate.Div(hundred))
	return LineBreakdown{
		Gross:        gross,
		Discount:     discount,
		Net:          net,
		Tax:          tax,
		DisplayTotal: net.Add(tax),
	}
}

// ComputeTotals deriva las cifras agregadas de la secuencia de líneas.
// Función pura y determinista: misma entrada, mismo resultado. Una secuencia
// vacía produce cuatro ceros. Un descuento mayor a 100 produce un neto
// negativo que fluye sin recortar.
func ComputeTotals(items []entity.LineItem) Totals {
	var t Totals
	for _, item := range items {
		b := BreakdownLine(item)
		t.Subtotal = t.Subtotal.Add(b.Net)
		t.DiscountAmount = t.DiscountAmount.Add(b.Discount)
		t.TaxAmount = t.TaxAmount.Add(b.Tax)
	}
	t.Total = t.Subtotal.Sub(t.DiscountAmount).Add(t.TaxAmount)
	return t
}

// Apply sobrescribe los campos derivados de la factura con los totales
// recomputados. Es el único camino por el que esos campos deben cambiar.
func (t Totals) Apply(inv *entity.Invoice) {
	inv.Subtotal = t.Subtotal
	inv.DiscountAmount = t.DiscountAmount
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}
