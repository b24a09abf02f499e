package dto

import "time"

// CreateOrderItemRequest ítem del pedido: solo referencia de producto y cantidad.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear un pedido. RepresentativeID vacío = usuario autenticado.
type CreateOrderRequest struct {
	CustomerName     *string                  `json:"customer_name" validate:"omitempty,max=200"`
	CustomerContact  *string                  `json:"customer_contact" validate:"omitempty,max=200"`
	RepresentativeID string                   `json:"representative_id" validate:"omitempty,uuid"`
	Notes            string                   `json:"notes"`
	Items            []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest campos editables de la cabecera; nil = sin cambio.
type UpdateOrderRequest struct {
	CustomerName    *string `json:"customer_name" validate:"omitempty,max=200"`
	CustomerContact *string `json:"customer_contact" validate:"omitempty,max=200"`
	Notes           *string `json:"notes"`
}

// UpdateOrderStatusRequest cambio de columna en el tablero.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AddInteractionRequest nueva entrada del historial.
type AddInteractionRequest struct {
	Type    string `json:"type" validate:"required"`
	Content string `json:"content" validate:"required,min=1"`
}

// OrderItemResponse ítem con la copia del producto.
type OrderItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

// InteractionResponse entrada del historial.
type InteractionResponse struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
}

// OrderResponse pedido desnormalizado.
type OrderResponse struct {
	ID               string                `json:"id"`
	CustomerName     *string               `json:"customer_name,omitempty"`
	CustomerContact  *string               `json:"customer_contact,omitempty"`
	RepresentativeID string                `json:"representative_id"`
	Items            []OrderItemResponse   `json:"items"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	Notes            string                `json:"notes"`
	Interactions     []InteractionResponse `json:"interactions"`
	Origin           string                `json:"origin"`
}

// OrderListResponse lista de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
