package dto

import "github.com/shopspring/decimal"

// PartyPayload emisor o receptor en peticiones y respuestas.
// RegistrationNumber solo tiene sentido en el emisor.
type PartyPayload struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state,omitempty"`
	ZipCode            string `json:"zip_code"`
	Country            string `json:"country"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	TaxID              string `json:"tax_id,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// LineItemPayload línea de factura en peticiones.
type LineItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Los totales del cliente (subtotal, discount_amount, tax_amount, total) se
// aceptan en el body por compatibilidad pero son solo informativos: el
// servidor los recalcula y sobrescribe siempre antes de persistir.
type CreateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number,omitempty"` // opcional; si va vacío se genera
	IssueDate     string            `json:"issue_date,omitempty"`     // YYYY-MM-DD; por defecto hoy
	DueDate       string            `json:"due_date"`
	Status        string            `json:"status,omitempty"`
	Seller        PartyPayload      `json:"seller"`
	Buyer         PartyPayload      `json:"buyer"`
	Items         []LineItemPayload `json:"items"`

	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	TaxAmount      *decimal.Decimal `json:"tax_amount,omitempty"`
	Total          *decimal.Decimal `json:"total,omitempty"`

	Currency        string `json:"currency,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Terms           string `json:"terms,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	TallyID         string `json:"tally_id,omitempty"`
	TallySyncStatus string `json:"tally_sync_status,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Actualización parcial:
// solo los campos presentes (no nil) se aplican sobre la factura existente.
// Igual que en la creación, los totales se recalculan sin excepción.
type UpdateInvoiceRequest struct {
	InvoiceNumber   *string            `json:"invoice_number,omitempty"`
	IssueDate       *string            `json:"issue_date,omitempty"`
	DueDate         *string            `json:"due_date,omitempty"`
	Status          *string            `json:"status,omitempty"`
	Seller          *PartyPayload      `json:"seller,omitempty"`
	Buyer           *PartyPayload      `json:"buyer,omitempty"`
	Items           *[]LineItemPayload `json:"items,omitempty"`
	Currency        *string            `json:"currency,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	Terms           *string            `json:"terms,omitempty"`
	PaymentMethod   *string            `json:"payment_method,omitempty"`
	TallyID         *string            `json:"tally_id,omitempty"`
	TallySyncStatus *string            `json:"tally_sync_status,omitempty"`
}

// InvoiceLineResponse línea con su total visual (neto + impuesto, sin
// redondear; el redondeo es asunto del cliente al renderizar).
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse factura completa en respuestas.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	Status        string                `json:"status"`
	Seller        PartyPayload          `json:"seller"`
	Buyer         PartyPayload          `json:"buyer"`
	Items         []InvoiceLineResponse `json:"items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`

	Currency        string `json:"currency"`
	Notes           string `json:"notes,omitempty"`
	Terms           string `json:"terms,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	TallyID         string `json:"tally_id,omitempty"`
	TallySyncStatus string `json:"tally_sync_status"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// PreviewTotalsRequest body para POST /api/invoices/preview: solo las líneas.
type PreviewTotalsRequest struct {
	Items []LineItemPayload `json:"items"`
}

// PreviewTotalsResponse cifras calculadas con el mismo motor que usa la
// persistencia. El cliente las muestra en vivo; el valor almacenado siempre
// proviene de la recomputación del servidor al guardar.
type PreviewTotalsResponse struct {
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	Total          decimal.Decimal   `json:"total"`
	LineTotals     []decimal.Decimal `json:"line_totals"`
}
