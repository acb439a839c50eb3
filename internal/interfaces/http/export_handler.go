package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain"
)

// Tiempo máximo de la llamada al servicio de generación externo. Sin esto un
// servicio colgado bloquearía la petición de exportación indefinidamente.
const tallyExportTimeout = 60 * time.Second

// ExportHandler maneja las exportaciones derivadas de una factura:
// el documento PDF paginado y el markup de intercambio Tally.
type ExportHandler struct {
	pdfUC   *billing.PDFUseCase
	tallyUC *billing.TallyExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(pdfUC *billing.PDFUseCase, tallyUC *billing.TallyExportUseCase) *ExportHandler {
	return &ExportHandler{pdfUC: pdfUC, tallyUC: tallyUC}
}

// DownloadPDF genera y descarga el documento paginado.
// GET /api/invoices/:id/pdf
func (h *ExportHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s`, filename))
	return c.Send(pdfBytes)
}

// ExportTally genera y descarga el XML de importación Tally.
// GET /api/invoices/:id/export/tally
func (h *ExportHandler) ExportTally(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), tallyExportTimeout)
	defer cancel()

	markup, filename, err := h.tallyUC.Export(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAINotConfigured) {
			log.Warn().Msg("exportación Tally sin GEMINI_API_KEY configurado; revise las variables de entorno")
		}
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s`, filename))
	return c.SendString(markup)
}
