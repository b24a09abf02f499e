package entity

import (
	"strings"
	"time"
)

// OrderStatus estado del pedido en el tablero CRM.
type OrderStatus string

const (
	OrderStatusNew          OrderStatus = "NEW"
	OrderStatusInProgress   OrderStatus = "IN_PROGRESS"
	OrderStatusWaitingStock OrderStatus = "WAITING_STOCK"
	OrderStatusClosed       OrderStatus = "CLOSED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// ParseOrderStatus normaliza un estado externo.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusWaitingStock, OrderStatusClosed, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// InteractionType tipo de interacción registrada en el historial del pedido.
type InteractionType string

const (
	InteractionNote    InteractionType = "note"
	InteractionCall    InteractionType = "call"
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
)

// ParseInteractionType normaliza un tipo externo.
func ParseInteractionType(s string) (InteractionType, bool) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case InteractionNote, InteractionCall, InteractionEmail, InteractionMeeting:
		return t, true
	}
	return "", false
}

// CartItem copia del producto más cantidad (>= 1). No sigue las ediciones posteriores del producto.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CRMInteraction entrada del historial. Solo se agregan, nunca se editan ni se borran.
type CRMInteraction struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Type       InteractionType `json:"type"`
	Content    string          `json:"content"`
	AuthorName string          `json:"author_name"`
}

// Order vista desnormalizada: cabecera + ítems + historial.
type Order struct {
	ID               string           `json:"id"`
	CustomerName     *string          `json:"customer_name,omitempty"`
	CustomerContact  *string          `json:"customer_contact,omitempty"`
	RepresentativeID string           `json:"representative_id"`
	Items            []CartItem       `json:"items"`
	Status           OrderStatus      `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	Notes            string           `json:"notes"`
	Interactions     []CRMInteraction `json:"interactions"`
	Origin           Origin           `json:"origin,omitempty"`
}

// OrderHeader fila de la tabla orders (sin ítems ni historial).
type OrderHeader struct {
	ID               string
	CustomerName     *string
	CustomerContact  *string
	RepresentativeID string
	Status           OrderStatus
	CreatedAt        time.Time
	Notes            string
	Origin           Origin
}

// OrderItem fila de order_items: solo referencia de producto y cantidad.
type OrderItem struct {
	OrderID   string
	ProductID string
	Quantity  int
}

// OrderInteraction fila de interactions.
type OrderInteraction struct {
	OrderID     string
	Interaction CRMInteraction
}
