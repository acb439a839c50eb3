package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// Querier abstrae pool o transacción pgx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación PostgreSQL de InvoiceRepository. Las partes y las
// líneas se guardan como documentos jsonb dentro de la fila de la factura; los
// totales como NUMERIC (codec shopspring/decimal registrado en el pool). El
// constraint único sobre invoice_number es quien garantiza la unicidad del
// número: la violación se mapea a domain.ErrDuplicate.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, invoice_number, issue_date, due_date, status,
	seller, buyer, items,
	subtotal, discount_amount, tax_amount, total,
	currency, notes, terms, payment_method,
	tally_id, tally_sync_status,
	created_at, updated_at`

// Insert persiste una factura nueva.
func (r *InvoiceRepo) Insert(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	seller, buyer, items, err := marshalDocuments(inv)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err = r.q.Exec(context.Background(), query,
		inv.ID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.Status,
		seller, buyer, items,
		inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.Total,
		inv.Currency, nullIfEmpty(inv.Notes), nullIfEmpty(inv.Terms), nullIfEmpty(inv.PaymentMethod),
		nullIfEmpty(inv.TallyID), inv.TallySyncStatus,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// UpdateByID reemplaza el documento completo de la factura.
func (r *InvoiceRepo) UpdateByID(id string, inv *entity.Invoice) (bool, error) {
	seller, buyer, items, err := marshalDocuments(inv)
	if err != nil {
		return false, err
	}
	query := `
		UPDATE invoices
		SET invoice_number = $2, issue_date = $3, due_date = $4, status = $5,
		    seller = $6, buyer = $7, items = $8,
		    subtotal = $9, discount_amount = $10, tax_amount = $11, total = $12,
		    currency = $13, notes = $14, terms = $15, payment_method = $16,
		    tally_id = $17, tally_sync_status = $18,
		    updated_at = $19
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		id, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.Status,
		seller, buyer, items,
		inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.Total,
		inv.Currency, nullIfEmpty(inv.Notes), nullIfEmpty(inv.Terms), nullIfEmpty(inv.PaymentMethod),
		nullIfEmpty(inv.TallyID), inv.TallySyncStatus,
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
		}
		return false, fmt.Errorf("update invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID devuelve la factura o (nil, nil) si no existe.
func (r *InvoiceRepo) FindByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// FindAll devuelve todas las facturas, más reciente primero.
func (r *InvoiceRepo) FindAll() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// DeleteByID elimina la factura; false si el ID no existe.
func (r *InvoiceRepo) DeleteByID(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count devuelve el número de facturas almacenadas.
func (r *InvoiceRepo) Count() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM invoices`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// ── Scan / marshal ────────────────────────────────────────────────────────────

func marshalDocuments(inv *entity.Invoice) (seller, buyer, items []byte, err error) {
	if seller, err = json.Marshal(inv.Seller); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal seller: %w", err)
	}
	if buyer, err = json.Marshal(inv.Buyer); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal buyer: %w", err)
	}
	if inv.Items == nil {
		items = []byte("[]")
		return seller, buyer, items, nil
	}
	if items, err = json.Marshal(inv.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal items: %w", err)
	}
	return seller, buyer, items, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var seller, buyer, items []byte
	var notes, terms, paymentMethod, tallyID *string

	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate, &inv.Status,
		&seller, &buyer, &items,
		&inv.Subtotal, &inv.DiscountAmount, &inv.TaxAmount, &inv.Total,
		&inv.Currency, &notes, &terms, &paymentMethod,
		&tallyID, &inv.TallySyncStatus,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(seller, &inv.Seller); err != nil {
		return nil, fmt.Errorf("unmarshal seller: %w", err)
	}
	if err := json.Unmarshal(buyer, &inv.Buyer); err != nil {
		return nil, fmt.Errorf("unmarshal buyer: %w", err)
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}

	inv.Notes = deref(notes)
	inv.Terms = deref(terms)
	inv.PaymentMethod = deref(paymentMethod)
	inv.TallyID = deref(tallyID)
	return &inv, nil
}

func deref(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
