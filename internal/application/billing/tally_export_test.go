package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// fakeGenerator implementa ports.TextGenerator registrando los prompts
// recibidos y devolviendo una respuesta fija.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func storedInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-001",
		IssueDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Status:        entity.StatusSent,
		Currency:      "USD",
		Seller:        entity.Party{Name: "Acme Corp", RegistrationNumber: "REG-9"},
		Buyer:         entity.Party{Name: "Cliente SA"},
		Items: []entity.LineItem{{
			Description: "servicio",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50),
			TaxRate:     decimal.NewFromInt(10),
			Discount:    decimal.NewFromInt(10),
		}},
		Subtotal:        decimal.NewFromInt(90),
		DiscountAmount:  decimal.NewFromInt(10),
		TaxAmount:       decimal.NewFromInt(9),
		Total:           decimal.NewFromInt(89),
		TallySyncStatus: entity.SyncPending,
	}
}

// TestExport_LimpiaDelimitadores: los fences de bloque de código de la
// respuesta se eliminan; el resto del texto se entrega tal cual.
func TestExport_LimpiaDelimitadores(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	gen := &fakeGenerator{response: "```xml\n<ENVELOPE><VOUCHER/></ENVELOPE>\n```"}
	uc := billing.NewTallyExportUseCase(repo, gen)

	markup, filename, err := uc.Export(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "<ENVELOPE><VOUCHER/></ENVELOPE>", markup)
	assert.Equal(t, "invoice-INV-001-tally.xml", filename)
}

// TestExport_PromptContieneRegistro: el prompt lleva el registro normalizado
// snake_case con el total de línea bruto (2*50*0.9*1.1 = 99).
func TestExport_PromptContieneRegistro(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	gen := &fakeGenerator{response: "<ENVELOPE/>"}
	uc := billing.NewTallyExportUseCase(repo, gen)

	_, _, err := uc.Export(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Tally Prime XML")
	assert.Contains(t, prompt, `"invoice_number": "INV-001"`)
	assert.Contains(t, prompt, `"issue_date": "2026-01-15"`)
	assert.Contains(t, prompt, `"line_total": "99"`)
	assert.Contains(t, prompt, `"registration_number": "REG-9"`, "el registro del emisor se incluye")
}

// TestExport_SinConfiguracion: el error de configuración del generador pasa
// sin envolver para que el handler lo distinga del fallo de servicio.
func TestExport_SinConfiguracion(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	gen := &fakeGenerator{err: domain.ErrAINotConfigured}
	uc := billing.NewTallyExportUseCase(repo, gen)

	markup, _, err := uc.Export(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrAINotConfigured)
	assert.Empty(t, markup, "sin salida parcial")
}

// TestExport_FalloDelServicio: cualquier otro error del generador se reporta
// como ErrAIService conservando el detalle.
func TestExport_FalloDelServicio(t *testing.T) {
	repo := newFakeRepo()
	inv := storedInvoice()
	repo.byID[inv.ID] = inv

	gen := &fakeGenerator{err: errors.New("status 503")}
	uc := billing.NewTallyExportUseCase(repo, gen)

	markup, _, err := uc.Export(context.Background(), inv.ID)
	require.ErrorIs(t, err, domain.ErrAIService)
	assert.Contains(t, err.Error(), "status 503")
	assert.Empty(t, markup)
}

func TestExport_FacturaNoExiste(t *testing.T) {
	gen := &fakeGenerator{response: "<ENVELOPE/>"}
	uc := billing.NewTallyExportUseCase(newFakeRepo(), gen)

	_, _, err := uc.Export(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, gen.prompts, "sin factura no hay llamada al generador")
}
