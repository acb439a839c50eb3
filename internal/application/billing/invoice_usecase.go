// Package billing orquesta los casos de uso de facturación: CRUD del agregado
// con recomputación obligatoria de totales, vista previa para el cliente y las
// dos exportaciones derivadas (PDF paginado y markup de intercambio Tally).
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	domainbilling "github.com/jhoicas/facturador-api/internal/domain/billing"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// InvoiceUseCase implementa el ciclo de vida del agregado factura.
//
// Invariante central: subtotal, discount_amount, tax_amount y total se
// sobrescriben con el motor de totales inmediatamente antes de cada commit,
// sin importar los valores que haya enviado el caller. Los totales del cliente
// son solo una vista previa.
type InvoiceUseCase struct {
	repo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo}
}

// Create valida, recalcula totales y persiste una factura nueva.
// Si no viene número de factura, se sintetiza uno único en el momento de la
// llamada; la unicidad real la garantiza el constraint del almacenamiento
// (violación → domain.ErrDuplicate).
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.buildAggregate(in)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceNumber == "" {
		count, err := uc.repo.Count()
		if err != nil {
			return nil, fmt.Errorf("contar facturas: %w", err)
		}
		inv.InvoiceNumber = fmt.Sprintf("INV-%d-%d", time.Now().UnixMilli(), count+1)
	}

	// Recomputación autoritativa: pisa cualquier total del request.
	domainbilling.ComputeTotals(inv.Items).Apply(inv)

	now := time.Now()
	inv.ID = uuid.New().String()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := uc.repo.Insert(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Update aplica un parche parcial sobre la factura existente, revalida el
// agregado completo y recalcula totales antes de guardar. Todo o nada: si la
// validación falla no se escribe ningún campo.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	current, err := uc.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("buscar factura: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	// Parchear una copia, nunca el agregado que entregó el repositorio: si la
	// validación falla no debe quedar estado sucio en ninguna instancia viva.
	// Copia superficial suficiente: Items se reemplaza, no se muta in situ.
	cp := *current
	inv := &cp

	if err := applyPatch(inv, in); err != nil {
		return nil, err
	}
	if err := validateAggregate(inv); err != nil {
		return nil, err
	}

	domainbilling.ComputeTotals(inv.Items).Apply(inv)
	inv.UpdatedAt = time.Now()

	found, err := uc.repo.UpdateByID(id, inv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// Delete elimina la factura. Sin soft-delete ni historial.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	found, err := uc.repo.DeleteByID(id)
	if err != nil {
		return fmt.Errorf("eliminar factura: %w", err)
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID devuelve la factura completa.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("buscar factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// List devuelve todas las facturas, más reciente primero.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// PreviewTotals calcula las cifras con el mismo motor que usa la persistencia,
// sin guardar nada. Es el camino de reconciliación cliente/servidor: el
// cliente muestra estas cifras en vivo y el servidor las recalcula al guardar.
func (uc *InvoiceUseCase) PreviewTotals(ctx context.Context, in dto.PreviewTotalsRequest) (*dto.PreviewTotalsResponse, error) {
	items := mapItems(in.Items)
	if err := validateItems(items); err != nil {
		return nil, err
	}

	totals := domainbilling.ComputeTotals(items)
	resp := &dto.PreviewTotalsResponse{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
	}
	for _, item := range items {
		resp.LineTotals = append(resp.LineTotals, domainbilling.BreakdownLine(item).DisplayTotal)
	}
	return resp, nil
}

// ── Construcción y validación del agregado ────────────────────────────────────

// buildAggregate mapea el request a la entidad aplicando defaults y validando.
func (uc *InvoiceUseCase) buildAggregate(in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	issueDate := time.Now()
	if in.IssueDate != "" {
		d, err := parseDate(in.IssueDate)
		if err != nil {
			return nil, domain.NewValidationError("issue_date", "fecha inválida, use YYYY-MM-DD")
		}
		issueDate = d
	}

	if in.DueDate == "" {
		return nil, domain.NewValidationError("due_date", "es obligatorio")
	}
	dueDate, err := parseDate(in.DueDate)
	if err != nil {
		return nil, domain.NewValidationError("due_date", "fecha inválida, use YYYY-MM-DD")
	}

	status := in.Status
	if status == "" {
		status = entity.StatusDraft
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	syncStatus := in.TallySyncStatus
	if syncStatus == "" {
		syncStatus = entity.SyncPending
	}

	inv := &entity.Invoice{
		InvoiceNumber:   in.InvoiceNumber,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Status:          status,
		Seller:          toParty(in.Seller),
		Buyer:           toParty(in.Buyer),
		Currency:        currency,
		Notes:           in.Notes,
		Terms:           in.Terms,
		PaymentMethod:   in.PaymentMethod,
		TallyID:         in.TallyID,
		TallySyncStatus: syncStatus,
	}

	inv.Items = mapItems(in.Items)

	if err := validateAggregate(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// validateAggregate valida el agregado completo: primero las partes (con
// detalle de campo), luego las líneas. Los totales no se validan porque no se
// aceptan del caller.
func validateAggregate(inv *entity.Invoice) error {
	if err := validateParty("seller", inv.Seller); err != nil {
		return err
	}
	if err := validateParty("buyer", inv.Buyer); err != nil {
		return err
	}
	if !entity.ValidStatus(inv.Status) {
		return domain.NewValidationError("status", "estado desconocido: "+inv.Status)
	}
	if !entity.ValidSyncStatus(inv.TallySyncStatus) {
		return domain.NewValidationError("tally_sync_status", "estado de sincronización desconocido: "+inv.TallySyncStatus)
	}
	if inv.DueDate.IsZero() {
		return domain.NewValidationError("due_date", "es obligatorio")
	}
	return validateItems(inv.Items)
}

// validateParty exige los campos obligatorios de emisor/receptor. state,
// phone, tax_id y registration_number son opcionales.
func validateParty(prefix string, p entity.Party) error {
	required := []struct{ field, value string }{
		{"name", p.Name},
		{"address", p.Address},
		{"city", p.City},
		{"zip_code", p.ZipCode},
		{"country", p.Country},
		{"email", p.Email},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.NewValidationError(prefix+"."+r.field, "es obligatorio")
		}
	}
	return nil
}

// validateItems aplica la validación por línea. Los valores negativos se
// rechazan aquí, en la frontera; el motor de totales nunca recorta.
func validateItems(items []entity.LineItem) error {
	for i, item := range items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if item.Description == "" {
			return domain.NewValidationError(field("description"), "es obligatorio")
		}
		if item.Quantity.IsNegative() {
			return domain.NewValidationError(field("quantity"), "no puede ser negativa")
		}
		if item.UnitPrice.IsNegative() {
			return domain.NewValidationError(field("unit_price"), "no puede ser negativo")
		}
		if item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(hundredPercent) {
			return domain.NewValidationError(field("tax_rate"), "debe estar entre 0 y 100")
		}
		// discount solo tiene cota inferior; un descuento > 100 es válido y
		// produce un neto negativo (comportamiento observado, no recortar).
		if item.Discount.IsNegative() {
			return domain.NewValidationError(field("discount"), "no puede ser negativo")
		}
	}
	return nil
}

// ── Mapeos ────────────────────────────────────────────────────────────────────

func mapItems(payloads []dto.LineItemPayload) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, entity.LineItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			TaxRate:     p.TaxRate,
			Discount:    p.Discount,
		})
	}
	return items
}

func applyPatch(inv *entity.Invoice, in dto.UpdateInvoiceRequest) error {
	if in.InvoiceNumber != nil {
		inv.InvoiceNumber = *in.InvoiceNumber
	}
	if in.IssueDate != nil {
		d, err := parseDate(*in.IssueDate)
		if err != nil {
			return domain.NewValidationError("issue_date", "fecha inválida, use YYYY-MM-DD")
		}
		inv.IssueDate = d
	}
	if in.DueDate != nil {
		d, err := parseDate(*in.DueDate)
		if err != nil {
			return domain.NewValidationError("due_date", "fecha inválida, use YYYY-MM-DD")
		}
		inv.DueDate = d
	}
	if in.Status != nil {
		// Sin máquina de estados: cualquier valor del enum es aceptado desde
		// cualquier estado actual; la lógica de transición es del caller.
		inv.Status = *in.Status
	}
	if in.Seller != nil {
		inv.Seller = toParty(*in.Seller)
	}
	if in.Buyer != nil {
		inv.Buyer = toParty(*in.Buyer)
	}
	if in.Items != nil {
		inv.Items = mapItems(*in.Items)
	}
	if in.Currency != nil {
		inv.Currency = *in.Currency
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.Terms != nil {
		inv.Terms = *in.Terms
	}
	if in.PaymentMethod != nil {
		inv.PaymentMethod = *in.PaymentMethod
	}
	if in.TallyID != nil {
		inv.TallyID = *in.TallyID
	}
	if in.TallySyncStatus != nil {
		inv.TallySyncStatus = *in.TallySyncStatus
	}
	return nil
}

func toParty(p dto.PartyPayload) entity.Party {
	return entity.Party{
		Name:               p.Name,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		Country:            p.Country,
		Email:              p.Email,
		Phone:              p.Phone,
		TaxID:              p.TaxID,
		RegistrationNumber: p.RegistrationNumber,
	}
}

func toPartyPayload(p entity.Party) dto.PartyPayload {
	return dto.PartyPayload{
		Name:               p.Name,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		Country:            p.Country,
		Email:              p.Email,
		Phone:              p.Phone,
		TaxID:              p.TaxID,
		RegistrationNumber: p.RegistrationNumber,
	}
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		IssueDate:       inv.IssueDate.Format(dateLayout),
		DueDate:         inv.DueDate.Format(dateLayout),
		Status:          inv.Status,
		Seller:          toPartyPayload(inv.Seller),
		Buyer:           toPartyPayload(inv.Buyer),
		Items:           make([]dto.InvoiceLineResponse, 0, len(inv.Items)),
		Subtotal:        inv.Subtotal,
		DiscountAmount:  inv.DiscountAmount,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		Currency:        inv.Currency,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		PaymentMethod:   inv.PaymentMethod,
		TallyID:         inv.TallyID,
		TallySyncStatus: inv.TallySyncStatus,
		CreatedAt:       inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       inv.UpdatedAt.Format(time.RFC3339),
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceLineResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			Discount:    item.Discount,
			LineTotal:   domainbilling.BreakdownLine(item).DisplayTotal,
		})
	}
	return resp
}

const dateLayout = "2006-01-02"

var hundredPercent = decimal.NewFromInt(100)

// parseDate acepta fecha simple (YYYY-MM-DD) o RFC 3339 completo.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(dateLayout, s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}
