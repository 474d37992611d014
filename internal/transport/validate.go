package transport

import (
	"net/mail"
	"strconv"
	"strings"

	"github.com/sweetly/sweetly-server/internal/models"
)

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{"username", "username required"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{"password", "password must be at least 6 characters"})
	}
	if r.Role != "" && r.Role != "user" && r.Role != "admin" {
		errs = append(errs, FieldError{"role", "role must be user or admin"})
	}
	return errs
}

func (r LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{"username", "username required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{"password", "password required"})
	}
	return errs
}

func (r RefreshRequest) Validate() []FieldError {
	if r.RefreshToken == "" {
		return []FieldError{{"refresh_token", "refresh token required"}}
	}
	return nil
}

func (r CreateSweetRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{"name", "Name is required"})
	}
	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, FieldError{"category", "Category is required"})
	}
	if r.Price < 0 {
		errs = append(errs, FieldError{"price", "Price must be positive"})
	}
	return errs
}

func (r UpdateSweetRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs = append(errs, FieldError{"name", "Name must not be empty"})
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		errs = append(errs, FieldError{"category", "Category must not be empty"})
	}
	if r.Price != nil && *r.Price < 0 {
		errs = append(errs, FieldError{"price", "Price must be positive"})
	}
	return errs
}

func (r PurchaseRequest) Validate() []FieldError {
	if r.Quantity != nil && *r.Quantity < 1 {
		return []FieldError{{"quantity", "Quantity must be at least 1"}}
	}
	return nil
}

func (r RestockRequest) Validate() []FieldError {
	if r.Quantity < 1 {
		return []FieldError{{"quantity", "Quantity must be at least 1"}}
	}
	return nil
}

func validateDeliveryDetails(d models.DeliveryDetails) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, FieldError{"deliveryDetails.name", "Name is required"})
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		errs = append(errs, FieldError{"deliveryDetails.email", "Valid email is required"})
	}
	if len(d.Phone) < 10 {
		errs = append(errs, FieldError{"deliveryDetails.phone", "Phone number must be at least 10 digits"})
	}
	if strings.TrimSpace(d.Address) == "" {
		errs = append(errs, FieldError{"deliveryDetails.address", "Address is required"})
	}
	if strings.TrimSpace(d.City) == "" {
		errs = append(errs, FieldError{"deliveryDetails.city", "City is required"})
	}
	if len(d.Pincode) < 6 {
		errs = append(errs, FieldError{"deliveryDetails.pincode", "Pincode must be at least 6 digits"})
	}
	return errs
}

func (r CreateOrderRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Items) == 0 {
		errs = append(errs, FieldError{"items", "At least one item is required"})
	}
	for i, item := range r.Items {
		prefix := "items." + strconv.Itoa(i)
		if item.SweetID == 0 {
			errs = append(errs, FieldError{prefix + ".sweetId", "Sweet ID is required"})
		}
		if item.Quantity < 1 {
			errs = append(errs, FieldError{prefix + ".quantity", "Quantity must be at least 1"})
		}
		if item.Price < 0 {
			errs = append(errs, FieldError{prefix + ".price", "Price must be positive"})
		}
	}
	if r.DeliveryFee < 0 {
		errs = append(errs, FieldError{"deliveryFee", "Delivery fee must be positive"})
	}
	if !models.ValidPaymentMethod(r.PaymentMethod) {
		errs = append(errs, FieldError{"paymentMethod", "Payment method must be cod, upi or card"})
	}
	errs = append(errs, validateDeliveryDetails(r.DeliveryDetails)...)
	return errs
}

func (r UpdateOrderStatusRequest) Validate() []FieldError {
	if !models.ValidOrderStatus(r.Status) {
		return []FieldError{{"status", "Invalid order status"}}
	}
	return nil
}
