package billing

import (
	"github.com/jhoicas/facturador-api/internal/domain/document"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// InvoiceRasterizer captura la factura como una sola superficie visual alta
// (PNG con sus dimensiones en píxeles). Si la superficie no puede producirse
// devuelve domain.ErrRenderFailed y no se emite ninguna página.
type InvoiceRasterizer interface {
	Capture(inv *entity.Invoice) (*document.RasterImage, error)
}

// PageComposer arma el documento final colocando la misma imagen fuente en
// cada página según los cortes calculados por document.Paginate.
type PageComposer interface {
	Compose(img *document.RasterImage, pages []document.PageSlice) ([]byte, error)
}
