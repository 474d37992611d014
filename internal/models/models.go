package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	TokenHash string    `gorm:"not null"            json:"-"`
	UserID    uint      `gorm:"index;not null"      json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"            json:"expires_at"`
	Revoked   bool      `gorm:"default:false"       json:"revoked"`
}

type Sweet struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null"     json:"name"`
	Category    string  `gorm:"index;not null"           json:"category"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Quantity    uint    `gorm:"not null;default:0"       json:"quantity"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	ImageAlt    string  `json:"imageAlt,omitempty"`
}

// OrderItem snapshots name and price at order time, so later Sweet edits or
// deletes never rewrite order history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                 json:"-"`
	OrderID   uint    `gorm:"index;not null"             json:"-"`
	SweetID   uint    `gorm:"not null"                   json:"sweetId"`
	SweetName string  `gorm:"not null"                   json:"sweetName"`
	Price     float64 `gorm:"not null"                   json:"price"`
	Quantity  uint    `gorm:"not null;check:quantity>0"  json:"quantity"`
}

type DeliveryDetails struct {
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Phone   string `gorm:"not null" json:"phone"`
	Address string `gorm:"not null" json:"address"`
	City    string `gorm:"not null" json:"city"`
	Pincode string `gorm:"not null" json:"pincode"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey"                           json:"id"`
	UserID          uint            `gorm:"index;not null"                       json:"userId"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"                   json:"items"`
	TotalAmount     float64         `gorm:"not null"                             json:"totalAmount"`
	DeliveryFee     float64         `gorm:"not null"                             json:"deliveryFee"`
	FinalAmount     float64         `gorm:"not null"                             json:"finalAmount"`
	DeliveryDetails DeliveryDetails `gorm:"embedded;embeddedPrefix:delivery_"    json:"deliveryDetails"`
	PaymentMethod   string          `gorm:"not null"                             json:"paymentMethod"`
	Status          string          `gorm:"index;not null"                       json:"status"`
	OrderDate       time.Time       `gorm:"index;not null"                       json:"orderDate"`
	DeliveryDate    *time.Time      `json:"deliveryDate,omitempty"`
}

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentMethodCOD  = "cod"
	PaymentMethodUPI  = "upi"
	PaymentMethodCard = "card"
)

var orderTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing},
	OrderStatusPreparing:      {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCOD, PaymentMethodUPI, PaymentMethodCard:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// Re-applying the current status is a no-op; delivered and cancelled are
// terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
