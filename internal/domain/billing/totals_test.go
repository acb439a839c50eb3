package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/domain/billing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

func item(qty, price, tax, disc float64) entity.LineItem {
	return entity.LineItem{
		Description: "ítem de prueba",
		Quantity:    decimal.NewFromFloat(qty),
		UnitPrice:   decimal.NewFromFloat(price),
		TaxRate:     decimal.NewFromFloat(tax),
		Discount:    decimal.NewFromFloat(disc),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Vector de referencia: {qty:2, price:50, tax:10%, disc:10%}
//   bruto=100, descuento=10, neto=90, impuesto=9, total visual=99
//   agregado: subtotal=90, descuento=10, impuesto=9, total=89
// ──────────────────────────────────────────────────────────────────────────────

func TestBreakdownLine_VectorExacto(t *testing.T) {
	b := billing.BreakdownLine(item(2, 50, 10, 10))

	assert.True(t, b.Gross.Equal(decimal.NewFromInt(100)), "bruto = 2*50 = 100")
	assert.True(t, b.Discount.Equal(decimal.NewFromInt(10)), "descuento = 100*10%% = 10")
	assert.True(t, b.Net.Equal(decimal.NewFromInt(90)), "neto = 100-10 = 90")
	assert.True(t, b.Tax.Equal(decimal.NewFromInt(9)), "impuesto = 90*10%% = 9")
	assert.True(t, b.DisplayTotal.Equal(decimal.NewFromInt(99)), "total visual = 90+9 = 99")
}

func TestComputeTotals_VectorExacto(t *testing.T) {
	tot := billing.ComputeTotals([]entity.LineItem{item(2, 50, 10, 10)})

	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(90)))
	assert.True(t, tot.DiscountAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, tot.TaxAmount.Equal(decimal.NewFromInt(9)))
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(89)), "total = 90-10+9 = 89")
}

// TestComputeTotals_ListaVacia verifica que una secuencia sin líneas produce
// cuatro ceros (no nil, no error).
func TestComputeTotals_ListaVacia(t *testing.T) {
	tot := billing.ComputeTotals(nil)

	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.DiscountAmount.IsZero())
	assert.True(t, tot.TaxAmount.IsZero())
	assert.True(t, tot.Total.IsZero())
}

// TestComputeTotals_Identidad valida la propiedad
// subtotal + impuesto - descuento == total para secuencias variadas.
func TestComputeTotals_Identidad(t *testing.T) {
	cases := [][]entity.LineItem{
		{item(2, 50, 10, 10)},
		{item(1, 19.99, 19, 0), item(3, 7.5, 5, 15)},
		{item(0, 100, 19, 50)},
		{item(2.5, 33.33, 0, 0), item(1, 0, 100, 100)},
	}
	for _, items := range cases {
		tot := billing.ComputeTotals(items)
		lhs := tot.Subtotal.Add(tot.TaxAmount).Sub(tot.DiscountAmount)
		assert.True(t, lhs.Equal(tot.Total),
			"subtotal+impuesto-descuento debe igualar el total")
	}
}

// TestComputeTotals_Idempotente verifica que recomputar sobre la misma
// secuencia produce resultados idénticos.
func TestComputeTotals_Idempotente(t *testing.T) {
	items := []entity.LineItem{item(2, 50, 10, 10), item(7, 3.14, 19, 2)}

	t1 := billing.ComputeTotals(items)
	t2 := billing.ComputeTotals(items)

	require.True(t, t1.Subtotal.Equal(t2.Subtotal))
	require.True(t, t1.DiscountAmount.Equal(t2.DiscountAmount))
	require.True(t, t1.TaxAmount.Equal(t2.TaxAmount))
	require.True(t, t1.Total.Equal(t2.Total))
}

// TestComputeTotals_OrdenIrrelevante: la suma es conmutativa, el orden de las
// líneas solo importa para la presentación.
func TestComputeTotals_OrdenIrrelevante(t *testing.T) {
	a := item(2, 50, 10, 10)
	b := item(5, 12.75, 19, 0)

	t1 := billing.ComputeTotals([]entity.LineItem{a, b})
	t2 := billing.ComputeTotals([]entity.LineItem{b, a})

	assert.True(t, t1.Total.Equal(t2.Total))
	assert.True(t, t1.Subtotal.Equal(t2.Subtotal))
}

// TestComputeTotals_DescuentoMayorA100 documenta el comportamiento observado:
// un descuento > 100 produce un neto negativo que fluye sin recortar.
func TestComputeTotals_DescuentoMayorA100(t *testing.T) {
	tot := billing.ComputeTotals([]entity.LineItem{item(1, 100, 0, 150)})

	assert.True(t, tot.Subtotal.Equal(decimal.NewFromInt(-50)), "neto = 100-150 = -50")
	assert.True(t, tot.DiscountAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, tot.Total.Equal(decimal.NewFromInt(-200)), "total = -50-150+0")
}

// TestApply verifica que Apply sobrescribe los cuatro campos derivados.
func TestApply_SobrescribeDerivados(t *testing.T) {
	inv := &entity.Invoice{
		Items:    []entity.LineItem{item(2, 50, 10, 10)},
		Subtotal: decimal.NewFromInt(999999), // valor del cliente, se ignora
		Total:    decimal.NewFromInt(999999),
	}

	billing.ComputeTotals(inv.Items).Apply(inv)

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(90)))
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(89)))
}
