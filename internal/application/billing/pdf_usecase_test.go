package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/document"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

type fakeRasterizer struct {
	img *document.RasterImage
	err error
}

func (f *fakeRasterizer) Capture(inv *entity.Invoice) (*document.RasterImage, error) {
	return f.img, f.err
}

type fakeComposer struct {
	out      []byte
	err      error
	gotPages []document.PageSlice
	calls    int
}

func (f *fakeComposer) Compose(img *document.RasterImage, pages []document.PageSlice) ([]byte, error) {
	f.calls++
	f.gotPages = pages
	return f.out, f.err
}

// TestDownloadInvoicePDF: flujo completo captura → paginación → composición,
// con el nombre de archivo derivado del número de factura.
func TestDownloadInvoicePDF(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	// 1240px de ancho → 210mm; 1240*3 de alto → 630mm → 3 páginas de 295mm
	rasterizer := &fakeRasterizer{img: &document.RasterImage{WidthPx: 1240, HeightPx: 3720, PNG: []byte("png")}}
	composer := &fakeComposer{out: []byte("%PDF-fake")}
	uc := billing.NewPDFUseCase(repo, rasterizer, composer)

	pdfBytes, filename, err := uc.DownloadInvoicePDF(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdfBytes)
	assert.Equal(t, "factura-INV-001.pdf", filename)
	require.Len(t, composer.gotPages, 3)
	assert.Equal(t, float64(0), composer.gotPages[0].OffsetYMM)
	assert.Equal(t, -document.PageHeightMM, composer.gotPages[1].OffsetYMM)
}

// TestDownloadInvoicePDF_FalloDeCaptura: si el capturador falla no se compone
// ninguna página (cero archivos parciales).
func TestDownloadInvoicePDF_FalloDeCaptura(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	rasterizer := &fakeRasterizer{err: domain.ErrRenderFailed}
	composer := &fakeComposer{out: []byte("%PDF-fake")}
	uc := billing.NewPDFUseCase(repo, rasterizer, composer)

	pdfBytes, _, err := uc.DownloadInvoicePDF(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.Nil(t, pdfBytes)
	assert.Equal(t, 0, composer.calls, "la composición nunca debe ejecutarse")
}

func TestDownloadInvoicePDF_NoEncontrada(t *testing.T) {
	uc := billing.NewPDFUseCase(newFakeRepo(), &fakeRasterizer{}, &fakeComposer{})

	_, _, err := uc.DownloadInvoicePDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
