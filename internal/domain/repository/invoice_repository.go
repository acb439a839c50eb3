package repository

import "github.com/jhoicas/facturador-api/internal/domain/entity"

// InvoiceRepository es el puerto del colaborador de almacenamiento. El
// almacenamiento es quien garantiza la unicidad de invoice_number: una
// violación del constraint se reporta como domain.ErrDuplicate desde Insert.
type InvoiceRepository interface {
	// FindAll devuelve todas las facturas ordenadas por fecha de creación
	// descendente.
	FindAll() ([]*entity.Invoice, error)

	// FindByID devuelve la factura o (nil, nil) si no existe.
	FindByID(id string) (*entity.Invoice, error)

	// Insert persiste una factura nueva. Devuelve domain.ErrDuplicate si el
	// número de factura ya existe.
	Insert(inv *entity.Invoice) error

	// UpdateByID reemplaza el documento completo. found es false si el ID no
	// existe (ninguna fila afectada).
	UpdateByID(id string, inv *entity.Invoice) (found bool, err error)

	// DeleteByID elimina la factura; devuelve false si el ID no existe.
	DeleteByID(id string) (bool, error)

	// Count devuelve el número de facturas almacenadas (se usa para
	// sintetizar números de factura).
	Count() (int64, error)
}
