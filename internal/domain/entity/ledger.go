package entity

import "time"

// LedgerRecord campos comunes a entradas y salidas del libro de movimientos.
type LedgerRecord struct {
	ID        string
	ProductID string
	Quantity  int // siempre > 0; el sentido lo da el tipo (Entry/Exit)
	Date      time.Time
	Employee  string // email de quien registró el movimiento
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry movimiento de entrada (aumenta stock).
type Entry struct {
	LedgerRecord
}

// Exit movimiento de salida (disminuye stock).
type Exit struct {
	LedgerRecord
}

// Tipos de movimiento para reportes.
const (
	MovementTypeEntry = "entry"
	MovementTypeExit  = "exit"
)

// Movement vista derivada (no persistida) que une entradas y salidas para reportes.
type Movement struct {
	Type        string // entry | exit
	ID          string
	ProductID   string
	ProductName string
	Quantity    int
	Date        time.Time
	Employee    string
	CreatedAt   time.Time
}

// SignedQuantity devuelve la cantidad con signo según el efecto sobre el stock.
func (m Movement) SignedQuantity() int {
	if m.Type == MovementTypeExit {
		return -m.Quantity
	}
	return m.Quantity
}
