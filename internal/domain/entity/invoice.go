package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura. El dominio no impone transiciones:
// cualquier estado es alcanzable desde cualquier otro mediante una actualización
// explícita; la lógica de estado es responsabilidad del caller.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// Estados de sincronización con el sistema contable externo (Tally).
// Son metadatos de paso; ningún cálculo depende de ellos.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncFailed  = "failed"
)

// ValidStatus indica si s es un estado de factura reconocido.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// ValidSyncStatus indica si s es un estado de sincronización reconocido.
func ValidSyncStatus(s string) bool {
	switch s {
	case SyncPending, SyncSynced, SyncFailed:
		return true
	}
	return false
}

// Party identifica a una de las partes de la factura (emisor o receptor).
// El conjunto de campos es cerrado; RegistrationNumber solo aplica al emisor.
type Party struct {
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

// LineItem es una línea facturable. No tiene identidad propia: vive y muere
// dentro de la secuencia Items de su factura, y su posición solo importa para
// la presentación, no para el cálculo.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Discount    decimal.Decimal `json:"discount"`
}

// Invoice es el agregado de facturación. Subtotal, DiscountAmount, TaxAmount y
// Total son derivados: el caso de uso los sobrescribe SIEMPRE con el motor de
// totales antes de persistir, sin importar lo que haya enviado el cliente.
type Invoice struct {
	ID            string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	Status        string
	Seller        Party
	Buyer         Party
	Items         []LineItem

	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal

	Currency      string
	Notes         string
	Terms         string
	PaymentMethod string

	// Campos de compatibilidad con Tally (pass-through).
	TallyID         string
	TallySyncStatus string

	CreatedAt time.Time
	UpdatedAt time.Time
}
