package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/repo"
	"github.com/sweetly/sweetly-server/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// Create places an order inside a single transaction: every line item is
// resolved and its stock decremented through the conditional update, then the
// order row is written. Any failing line rolls the whole order back, so stock
// is untouched on failure and two overlapping orders cannot oversell.
func (s *OrderService) Create(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", userID)

	order := &models.Order{
		UserID:          userID,
		DeliveryFee:     req.DeliveryFee,
		DeliveryDetails: req.DeliveryDetails,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		OrderDate:       time.Now().UTC(),
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var total float64
		for _, item := range req.Items {
			sweet, err := tx.GetSweet(ctx, item.SweetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: Sweet with ID %d not found", ErrValidation, item.SweetID)
				}
				return err
			}

			ok, err := tx.DecrementStock(ctx, sweet.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: Insufficient quantity for %s. Available: %d",
					ErrInsufficientStock, sweet.Name, sweet.Quantity)
			}

			// Snapshot name and price from the catalog row, not the request.
			order.Items = append(order.Items, models.OrderItem{
				SweetID:   sweet.ID,
				SweetName: sweet.Name,
				Price:     sweet.Price,
				Quantity:  item.Quantity,
			})
			total += sweet.Price * float64(item.Quantity)
		}

		order.TotalAmount = total
		order.FinalAmount = total + order.DeliveryFee

		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	l.Info("order created", "order_id", order.ID, "items", len(order.Items), "final_amount", order.FinalAmount)
	return order, nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID uint, page, limit int) (*transport.OrderPage, error) {
	page, limit = normalizePage(page, limit)

	total, orders, err := s.Repo.ListUserOrders(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &transport.OrderPage{
		Orders:      orders,
		TotalOrders: total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (s *OrderService) AllOrders(ctx context.Context, page, limit int, status string) (*transport.AdminOrderPage, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: Invalid order status", ErrValidation)
	}
	page, limit = normalizePage(page, limit)

	total, orders, err := s.Repo.ListOrders(ctx, status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}
	usernames, err := s.Repo.UsernamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]transport.AdminOrder, len(orders))
	for i, o := range orders {
		out[i] = transport.AdminOrder{Order: o, Username: usernames[o.UserID]}
	}

	return &transport.AdminOrderPage{
		Orders:      out,
		TotalOrders: total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// ByID returns the order only when it belongs to userID; anything else is a
// plain not-found, never another user's order.
func (s *OrderService) ByID(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.Repo.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string, deliveryDate *time.Time) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", orderID)

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
		}
		return nil, err
	}

	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: Cannot change order status from %s to %s",
			ErrBadTransition, order.Status, status)
	}

	order.Status = status
	if deliveryDate != nil {
		order.DeliveryDate = deliveryDate
	}
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	l.Info("order status updated", "status", status)
	return order, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
