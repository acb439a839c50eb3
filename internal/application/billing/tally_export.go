package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/ports"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// tallyPromptTemplate es la instrucción fija de conversión que acompaña al
// registro normalizado. El servicio externo devuelve el XML de importación.
const tallyPromptTemplate = `You are an expert Tally Prime XML data converter.
Convert the following Invoice Text into a Tally Import XML format (Voucher).
Ensure the XML is valid and follows Tally's schema for a Sales Voucher.

Invoice Text:%s

Output ONLY the raw XML string. Do not include markdown formatting like ` + "```xml." + `
`

// TallyExportUseCase produce el markup de intercambio: aplana la factura en un
// registro normalizado snake_case, lo envía al servicio de generación con la
// instrucción de conversión y sanea la respuesta. No valida que el resultado
// sea XML bien formado: la salida del servicio se entrega tal cual.
type TallyExportUseCase struct {
	repo      repository.InvoiceRepository
	generator ports.TextGenerator
}

// NewTallyExportUseCase construye el caso de uso. El generador se inyecta
// explícitamente (vive del arranque al apagado de la aplicación) para evitar
// estado global oculto y poder sustituirlo en tests.
func NewTallyExportUseCase(repo repository.InvoiceRepository, generator ports.TextGenerator) *TallyExportUseCase {
	return &TallyExportUseCase{repo: repo, generator: generator}
}

// Export genera el payload XML para importar la factura en Tally.
// Devuelve (markup, nombreDeArchivo, nil) o:
//   - domain.ErrNotFound        si la factura no existe.
//   - domain.ErrAINotConfigured si falta la credencial (sin llamada de red).
//   - domain.ErrAIService       si la llamada externa falló (sin salida parcial).
func (uc *TallyExportUseCase) Export(ctx context.Context, id string) (markup, filename string, err error) {
	inv, err := uc.repo.FindByID(id)
	if err != nil {
		return "", "", fmt.Errorf("exportar tally: buscar factura: %w", err)
	}
	if inv == nil {
		return "", "", domain.ErrNotFound
	}

	record, err := json.MarshalIndent(buildTallyRecord(inv), "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("exportar tally: serializar registro: %w", err)
	}

	raw, err := uc.generator.Generate(ctx, fmt.Sprintf(tallyPromptTemplate, string(record)))
	if err != nil {
		if errors.Is(err, domain.ErrAINotConfigured) {
			return "", "", err
		}
		return "", "", fmt.Errorf("%w: %v", domain.ErrAIService, err)
	}

	markup = stripCodeFences(raw)
	filename = fmt.Sprintf("invoice-%s-tally.xml", inv.InvoiceNumber)
	return markup, filename, nil
}

// stripCodeFences elimina los delimitadores de bloque de código (con o sin
// etiqueta de lenguaje) y el espacio circundante. El texto restante se
// devuelve sin más interpretación.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```xml", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ── Registro normalizado ──────────────────────────────────────────────────────

type tallyParty struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state"`
	ZipCode            string `json:"zip_code"`
	Country            string `json:"country"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	TaxID              string `json:"tax_id"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

type tallyLineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type tallyTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type tallyRecord struct {
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	Seller        tallyParty      `json:"seller"`
	Buyer         tallyParty      `json:"buyer"`
	LineItems     []tallyLineItem `json:"line_items"`
	Totals        tallyTotals     `json:"totals"`
	Notes         string          `json:"notes"`
	Terms         string          `json:"terms"`
	PaymentMethod string          `json:"payment_method"`
}

var one = decimal.NewFromInt(1)

// tallyLineTotal calcula el total bruto finalizado de la línea:
// qty * precio * (1 - descuento/100) * (1 + impuesto/100).
// Fórmula deliberadamente distinta a la del motor de totales (descuento sobre
// bruto vs. secuencia neto-luego-impuesto); se conserva tal cual para el
// payload de intercambio y solo para él.
func tallyLineTotal(item entity.LineItem) decimal.Decimal {
	discountFactor := one.Sub(item.Discount.Div(hundredPercent))
	taxFactor := one.Add(item.TaxRate.Div(hundredPercent))
	return item.Quantity.Mul(item.UnitPrice).Mul(discountFactor).Mul(taxFactor)
}

// buildTallyRecord aplana el agregado en el registro normalizado snake_case
// que consume el prompt. Las fechas van en formato YYYY-MM-DD.
func buildTallyRecord(inv *entity.Invoice) tallyRecord {
	rec := tallyRecord{
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Status:        inv.Status,
		Currency:      inv.Currency,
		Seller:        toTallyParty(inv.Seller, true),
		Buyer:         toTallyParty(inv.Buyer, false),
		Totals: tallyTotals{
			Subtotal: inv.Subtotal,
			Discount: inv.DiscountAmount,
			Tax:      inv.TaxAmount,
			Total:    inv.Total,
		},
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		PaymentMethod: inv.PaymentMethod,
	}
	for _, item := range inv.Items {
		rec.LineItems = append(rec.LineItems, tallyLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Discount:    item.Discount,
			LineTotal:   tallyLineTotal(item),
		})
	}
	return rec
}

func toTallyParty(p entity.Party, seller bool) tallyParty {
	tp := tallyParty{
		Name:    p.Name,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		ZipCode: p.ZipCode,
		Country: p.Country,
		Email:   p.Email,
		Phone:   p.Phone,
		TaxID:   p.TaxID,
	}
	if seller {
		tp.RegistrationNumber = p.RegistrationNumber
	}
	return tp
}
