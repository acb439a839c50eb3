package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturador-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC *billing.InvoiceUseCase
	PDFUC     *billing.PDFUseCase
	TallyUC   *billing.TallyExportUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Exportaciones derivadas (solo lectura)
	exportHandler := NewExportHandler(deps.PDFUC, deps.TallyUC)
	invoices.Get("/:id/pdf", exportHandler.DownloadPDF)
	invoices.Get("/:id/export/tally", exportHandler.ExportTally)
}
