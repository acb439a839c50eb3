package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/document"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// PDFUseCase genera el documento paginado de una factura: captura la factura
// como una sola superficie visual, calcula los cortes de página y compone el
// PDF colocando la imagen con desplazamientos verticales progresivos.
type PDFUseCase struct {
	repo       repository.InvoiceRepository
	rasterizer InvoiceRasterizer
	composer   PageComposer
}

// NewPDFUseCase construye el caso de uso inyectando sus colaboradores.
func NewPDFUseCase(repo repository.InvoiceRepository, rasterizer InvoiceRasterizer, composer PageComposer) *PDFUseCase {
	return &PDFUseCase{repo: repo, rasterizer: rasterizer, composer: composer}
}

// DownloadInvoicePDF produce los bytes del PDF y el nombre de archivo.
// Si la captura visual falla (domain.ErrRenderFailed) no se emite ninguna
// página: la operación aborta sin archivo parcial.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.repo.FindByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: buscar factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	img, err := uc.rasterizer.Capture(inv)
	if err != nil {
		return nil, "", err
	}

	pages := document.Paginate(img.WidthPx, img.HeightPx)

	pdfBytes, err = uc.composer.Compose(img, pages)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: componer documento: %w", err)
	}

	filename = fmt.Sprintf("factura-%s.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
