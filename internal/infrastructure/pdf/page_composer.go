// Package pdf compone el documento paginado: cada página A4 contiene la misma
// imagen fuente colocada con un desplazamiento vertical progresivamente más
// negativo, de modo que cada página revela una franja distinta de la factura.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	appbilling "github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain/document"
)

// Verificar en tiempo de compilación que GofpdfComposer implementa el puerto.
var _ appbilling.PageComposer = (*GofpdfComposer)(nil)

// GofpdfComposer arma el PDF con gofpdf a partir de los cortes del paginador.
type GofpdfComposer struct{}

// NewGofpdfComposer construye el compositor.
func NewGofpdfComposer() *GofpdfComposer { return &GofpdfComposer{} }

// Compose genera el PDF. La imagen se registra una sola vez y se coloca en
// cada página según su corte; gofpdf recorta lo que cae fuera de la página.
func (c *GofpdfComposer) Compose(img *document.RasterImage, pages []document.PageSlice) ([]byte, error) {
	if img == nil || len(img.PNG) == 0 {
		return nil, fmt.Errorf("pdf: imagen fuente vacía")
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf: sin páginas que componer")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("invoice", opts, bytes.NewReader(img.PNG))

	for _, page := range pages {
		doc.AddPage()
		doc.ImageOptions("invoice", 0, page.OffsetYMM, page.ImgWidthMM, page.ImgHeightMM, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return buf.Bytes(), nil
}
