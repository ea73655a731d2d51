package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Unit     string `json:"unit" validate:"required,min=1,max=50"`
	Quantity int    `json:"quantity" validate:"min=0"`
	MinStock int    `json:"min_stock" validate:"min=0"`
	Category string `json:"category" validate:"required,min=1,max=100"`
}

// UpdateProductRequest entrada para actualizar un producto. Quantity es una corrección
// administrativa: redefine el saldo inicial del producto.
type UpdateProductRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Unit     *string `json:"unit" validate:"omitempty,min=1,max=50"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=0"`
	MinStock *int    `json:"min_stock" validate:"omitempty,min=0"`
	Category *string `json:"category" validate:"omitempty,min=1,max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Quantity  int       `json:"quantity"`
	MinStock  int       `json:"min_stock"`
	Category  string    `json:"category"`
	LowStock  bool      `json:"low_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductGroupResponse productos de una categoría.
type ProductGroupResponse struct {
	Category string            `json:"category"`
	Products []ProductResponse `json:"products"`
}
