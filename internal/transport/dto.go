package transport

import (
	"time"

	"github.com/sweetly/sweetly-server/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateSweetRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    uint    `json:"quantity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	ImageAlt    string  `json:"imageAlt"`
}

type UpdateSweetRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *uint    `json:"quantity"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	ImageAlt    *string  `json:"imageAlt"`
}

type PurchaseRequest struct {
	Quantity *uint `json:"quantity"`
}

type RestockRequest struct {
	Quantity uint `json:"quantity"`
}

type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type CreateOrderItem struct {
	SweetID   uint    `json:"sweetId"`
	SweetName string  `json:"sweetName"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem      `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	DeliveryFee     float64                `json:"deliveryFee"`
	FinalAmount     float64                `json:"finalAmount"`
	DeliveryDetails models.DeliveryDetails `json:"deliveryDetails"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	Status       string     `json:"status"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

type OrderPage struct {
	Orders      []models.Order `json:"orders"`
	TotalOrders int64          `json:"totalOrders"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// AdminOrder carries the owner's username alongside the order for the admin
// listing.
type AdminOrder struct {
	models.Order
	Username string `json:"username"`
}

type AdminOrderPage struct {
	Orders      []AdminOrder `json:"orders"`
	TotalOrders int64        `json:"totalOrders"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
}
