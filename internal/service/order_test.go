package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/repo"
	"github.com/sweetly/sweetly-server/internal/transport"
)

func newTestOrderEnv(t *testing.T) (*OrderService, *CatalogService, *repo.GormRepo) {
	t.Helper()
	r := newTestRepo(t)
	return &OrderService{Repo: r}, &CatalogService{Repo: r}, r
}

func testDeliveryDetails() models.DeliveryDetails {
	return models.DeliveryDetails{
		Name:    "Alice",
		Email:   "alice@example.com",
		Phone:   "9876543210",
		Address: "12 Sweet Street",
		City:    "Pune",
		Pincode: "411001",
	}
}

func TestOrderService_Create(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	gulab := seedSweet(t, catalog, "gulab jamun", "traditional", 35, 10)
	rasgulla := seedSweet(t, catalog, "rasgulla", "traditional", 20, 5)

	order, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{SweetID: gulab.ID, Quantity: 2},
			{SweetID: rasgulla.ID, Quantity: 1},
		},
		DeliveryFee:     40,
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 90.0, order.TotalAmount)
	assert.Equal(t, 130.0, order.FinalAmount)
	assert.WithinDuration(t, time.Now().UTC(), order.OrderDate, 5*time.Second)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "gulab jamun", order.Items[0].SweetName)
	assert.Equal(t, 35.0, order.Items[0].Price)

	gotGulab, err := catalog.Get(ctx, gulab.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(8), gotGulab.Quantity)

	gotRasgulla, err := catalog.Get(ctx, rasgulla.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(4), gotRasgulla.Quantity)
}

func TestOrderService_Create_UnknownSweet(t *testing.T) {
	orders, _, _ := newTestOrderEnv(t)

	_, err := orders.Create(context.Background(), 1, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: 99, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodUPI,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Sweet with ID 99 not found", Reason(err))
}

func TestOrderService_Create_InsufficientStockRollsBackEverything(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	gulab := seedSweet(t, catalog, "gulab jamun", "traditional", 35, 10)
	rasgulla := seedSweet(t, catalog, "rasgulla", "traditional", 20, 2)

	_, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{SweetID: gulab.ID, Quantity: 4},
			{SweetID: rasgulla.ID, Quantity: 3},
		},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCard,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "Insufficient quantity for rasgulla. Available: 2", Reason(err))

	// The first line's decrement must have been rolled back.
	gotGulab, err := catalog.Get(ctx, gulab.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), gotGulab.Quantity)

	gotRasgulla, err := catalog.Get(ctx, rasgulla.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), gotRasgulla.Quantity)

	page, err := orders.UserOrders(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.TotalOrders)
}

func TestOrderService_ItemsSnapshotSurvivesSweetMutation(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	sweet := seedSweet(t, catalog, "kaju katli", "premium", 60, 10)

	order, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	newPrice := 80.0
	_, err = catalog.Update(ctx, sweet.ID, transport.UpdateSweetRequest{Price: &newPrice})
	require.NoError(t, err)
	require.NoError(t, catalog.Delete(ctx, sweet.ID))

	got, err := orders.ByID(ctx, order.ID, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "kaju katli", got.Items[0].SweetName)
	assert.Equal(t, 60.0, got.Items[0].Price)
}

func TestOrderService_ByID_OwnershipIsEnforced(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	sweet := seedSweet(t, catalog, "jalebi", "fried", 25, 10)

	order, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	_, err = orders.ByID(ctx, order.ID, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := orders.ByID(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_UserOrders_Pagination(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	sweet := seedSweet(t, catalog, "jalebi", "fried", 25, 100)

	for i := 0; i < 5; i++ {
		_, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
			Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
			DeliveryDetails: testDeliveryDetails(),
			PaymentMethod:   models.PaymentMethodCOD,
		})
		require.NoError(t, err)
	}

	page, err := orders.UserOrders(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalOrders)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Orders, 2)

	last, err := orders.UserOrders(ctx, 1, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Orders, 1)
}

func TestOrderService_AllOrders_FiltersByStatusAndJoinsUsername(t *testing.T) {
	orders, catalog, r := newTestOrderEnv(t)
	ctx := context.Background()

	owner := models.User{Username: "alice", PasswordHash: "x", Role: "user"}
	require.NoError(t, r.DB.Create(&owner).Error)

	sweet := seedSweet(t, catalog, "jalebi", "fried", 25, 100)

	first, err := orders.Create(ctx, owner.ID, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	_, err = orders.Create(ctx, owner.ID, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	_, err = orders.UpdateStatus(ctx, first.ID, models.OrderStatusConfirmed, nil)
	require.NoError(t, err)

	confirmed, err := orders.AllOrders(ctx, 1, 10, models.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed.Orders, 1)
	assert.Equal(t, first.ID, confirmed.Orders[0].ID)
	assert.Equal(t, "alice", confirmed.Orders[0].Username)

	all, err := orders.AllOrders(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalOrders)
}

func TestOrderService_AllOrders_RejectsUnknownStatus(t *testing.T) {
	orders, _, _ := newTestOrderEnv(t)

	_, err := orders.AllOrders(context.Background(), 1, 10, "shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name string
		path []string
		to   string
		ok   bool
	}{
		{name: "pending to confirmed", path: nil, to: models.OrderStatusConfirmed, ok: true},
		{name: "pending to cancelled", path: nil, to: models.OrderStatusCancelled, ok: true},
		{name: "pending to delivered skips the chain", path: nil, to: models.OrderStatusDelivered, ok: false},
		{name: "confirmed to preparing", path: []string{models.OrderStatusConfirmed}, to: models.OrderStatusPreparing, ok: true},
		{name: "confirmed cannot be cancelled", path: []string{models.OrderStatusConfirmed}, to: models.OrderStatusCancelled, ok: false},
		{name: "same status is idempotent", path: []string{models.OrderStatusConfirmed}, to: models.OrderStatusConfirmed, ok: true},
		{
			name: "delivered is terminal",
			path: []string{models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusOutForDelivery, models.OrderStatusDelivered},
			to:   models.OrderStatusCancelled,
			ok:   false,
		},
		{name: "cancelled is terminal", path: []string{models.OrderStatusCancelled}, to: models.OrderStatusConfirmed, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, catalog, _ := newTestOrderEnv(t)
			ctx := context.Background()

			sweet := seedSweet(t, catalog, "jalebi", "fried", 25, 100)
			order, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
				Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
				DeliveryDetails: testDeliveryDetails(),
				PaymentMethod:   models.PaymentMethodCOD,
			})
			require.NoError(t, err)

			for _, step := range tt.path {
				_, err := orders.UpdateStatus(ctx, order.ID, step, nil)
				require.NoError(t, err)
			}

			got, err := orders.UpdateStatus(ctx, order.ID, tt.to, nil)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got.Status)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadTransition)
			}
		})
	}
}

func TestOrderService_UpdateStatus_SetsDeliveryDate(t *testing.T) {
	orders, catalog, _ := newTestOrderEnv(t)
	ctx := context.Background()

	sweet := seedSweet(t, catalog, "jalebi", "fried", 25, 100)
	order, err := orders.Create(ctx, 1, transport.CreateOrderRequest{
		Items:           []transport.CreateOrderItem{{SweetID: sweet.ID, Quantity: 1}},
		DeliveryDetails: testDeliveryDetails(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	got, err := orders.UpdateStatus(ctx, order.ID, models.OrderStatusConfirmed, &when)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryDate)
	assert.Equal(t, when, got.DeliveryDate.UTC())
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	orders, _, _ := newTestOrderEnv(t)

	_, err := orders.UpdateStatus(context.Background(), 404, models.OrderStatusConfirmed, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
