// Package render captura la factura como una sola superficie visual alta: el
// equivalente servidor de renderizar la vista de la factura y fotografiarla.
// El resultado alimenta al paginador, que reparte la imagen en páginas A4.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	appbilling "github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain"
	domainbilling "github.com/jhoicas/facturador-api/internal/domain/billing"
	"github.com/jhoicas/facturador-api/internal/domain/document"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que BasicRasterizer implementa el puerto.
var _ appbilling.InvoiceRasterizer = (*BasicRasterizer)(nil)

// Geometría del lienzo. Ancho fijo a densidad doble (~A4 a 150 dpi); el alto
// crece con el contenido.
const (
	canvasWidth = 1240
	marginX     = 60
	lineHeight  = 28
	marginY     = 48
)

// BasicRasterizer dibuja la factura sobre un lienzo RGBA blanco con la fuente
// bitmap de x/image y lo codifica como PNG. Aquí (y solo aquí) los montos se
// redondean a 2 decimales: es presentación, nunca persistencia.
type BasicRasterizer struct{}

// NewBasicRasterizer construye el capturador.
func NewBasicRasterizer() *BasicRasterizer { return &BasicRasterizer{} }

// Capture produce la superficie visual completa de la factura.
// Devuelve domain.ErrRenderFailed si no hay factura que renderizar.
func (r *BasicRasterizer) Capture(inv *entity.Invoice) (*document.RasterImage, error) {
	if inv == nil {
		return nil, domain.ErrRenderFailed
	}

	lines := layoutLines(inv)
	height := marginY*2 + len(lines)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	y := marginY
	for _, line := range lines {
		drawer.Dot = fixed.P(marginX, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: codificar PNG: %v", domain.ErrRenderFailed, err)
	}
	return &document.RasterImage{
		WidthPx:  canvasWidth,
		HeightPx: height,
		PNG:      buf.Bytes(),
	}, nil
}

// layoutLines produce el texto de la factura línea por línea: cabecera,
// partes, tabla de ítems, totales y notas. El orden replica la vista impresa.
func layoutLines(inv *entity.Invoice) []string {
	lines := []string{
		"FACTURA",
		"No. " + inv.InvoiceNumber,
		fmt.Sprintf("Emisión: %s    Vencimiento: %s",
			inv.IssueDate.Format("2006-01-02"), inv.DueDate.Format("2006-01-02")),
		"",
	}

	lines = append(lines, "DE:")
	lines = append(lines, partyLines(inv.Seller)...)
	lines = append(lines, "", "PARA:")
	lines = append(lines, partyLines(inv.Buyer)...)
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("%-40s %10s %12s %8s %12s",
		"Descripción", "Cantidad", "P. Unitario", "IVA", "Total"))
	for _, item := range inv.Items {
		b := domainbilling.BreakdownLine(item)
		lines = append(lines, fmt.Sprintf("%-40s %10s %12s %7s%% %12s",
			truncate(item.Description, 40),
			item.Quantity.String(),
			item.UnitPrice.StringFixed(2),
			item.TaxRate.String(),
			b.DisplayTotal.StringFixed(2)))
		if item.Discount.IsPositive() {
			lines = append(lines, fmt.Sprintf("    Descuento: %s%%", item.Discount.String()))
		}
	}

	lines = append(lines, "",
		"Subtotal:  "+inv.Subtotal.StringFixed(2),
		"Descuento: "+inv.DiscountAmount.StringFixed(2),
		"Impuesto:  "+inv.TaxAmount.StringFixed(2),
		fmt.Sprintf("TOTAL:     %s %s", inv.Total.StringFixed(2), inv.Currency),
	)

	if inv.Notes != "" {
		lines = append(lines, "", "Notas: "+inv.Notes)
	}
	if inv.Terms != "" {
		lines = append(lines, "Términos: "+inv.Terms)
	}
	if inv.PaymentMethod != "" {
		lines = append(lines, "Método de pago: "+inv.PaymentMethod)
	}
	return lines
}

func partyLines(p entity.Party) []string {
	lines := []string{p.Name, p.Address}
	cityLine := p.City
	if p.State != "" {
		cityLine += ", " + p.State
	}
	cityLine += " " + p.ZipCode
	lines = append(lines, cityLine, p.Country, p.Email)
	if p.Phone != "" {
		lines = append(lines, p.Phone)
	}
	if p.TaxID != "" {
		lines = append(lines, "Tax ID: "+p.TaxID)
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
