package dto

import "time"

// DateLayout formato de fecha del libro (solo día).
const DateLayout = "2006-01-02"

// RecordMovementRequest body para POST /api/entries y /api/exits.
// Date vacío = hoy; Employee vacío = email de la sesión.
type RecordMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Employee  string `json:"employee" validate:"omitempty,max=200"`
}

// EditMovementRequest body para PUT /api/entries/:id y /api/exits/:id.
// ProductID vacío conserva el producto; Date vacío conserva la fecha.
type EditMovementRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// LedgerResponse entrada o salida registrada.
type LedgerResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Date      string    `json:"date"`
	Employee  string    `json:"employee"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse fila del reporte de movimientos.
type MovementResponse struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Date        string `json:"date"`
	Employee    string `json:"employee"`
}

// MovementReportResponse reporte filtrado con totales.
type MovementReportResponse struct {
	Items    []MovementResponse `json:"items"`
	Total    int                `json:"total"`
	TotalIn  int                `json:"total_in"`
	TotalOut int                `json:"total_out"`
}

// MovementFilterQuery query string de /api/reports/movements.
type MovementFilterQuery struct {
	Type      string `query:"type" validate:"omitempty,oneof=all entry exit"`
	ProductID string `query:"product_id"`
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=pdf xlsx"`
}

// LedgerActionResponse resultado de registrar o editar un movimiento.
type LedgerActionResponse struct {
	Message string         `json:"message"`
	Record  LedgerResponse `json:"record"`
}
