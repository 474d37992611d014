package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/transport"
)

func newTestCatalog(t *testing.T) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: newTestRepo(t)}
}

func seedSweet(t *testing.T, svc *CatalogService, name, category string, price float64, qty uint) *models.Sweet {
	t.Helper()
	sweet, err := svc.Create(context.Background(), transport.CreateSweetRequest{
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: qty,
	})
	require.NoError(t, err)
	return sweet
}

func TestCatalogService_Create_DuplicateName(t *testing.T) {
	svc := newTestCatalog(t)
	seedSweet(t, svc, "gulab jamun", "traditional", 35, 10)

	_, err := svc.Create(context.Background(), transport.CreateSweetRequest{
		Name:     "gulab jamun",
		Category: "traditional",
		Price:    40,
		Quantity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_Update(t *testing.T) {
	svc := newTestCatalog(t)
	sweet := seedSweet(t, svc, "rasgulla", "traditional", 20, 5)

	newPrice := 25.0
	updated, err := svc.Update(context.Background(), sweet.ID, transport.UpdateSweetRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "rasgulla", updated.Name)
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	svc := newTestCatalog(t)

	name := "ghost"
	_, err := svc.Update(context.Background(), 99, transport.UpdateSweetRequest{Name: &name})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Delete_NotFound(t *testing.T) {
	svc := newTestCatalog(t)

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Purchase_DecrementsStock(t *testing.T) {
	svc := newTestCatalog(t)
	sweet := seedSweet(t, svc, "ladoo", "traditional", 15, 10)

	got, err := svc.Purchase(context.Background(), sweet.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.Quantity)
}

func TestCatalogService_Purchase_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	svc := newTestCatalog(t)
	sweet := seedSweet(t, svc, "ladoo", "traditional", 15, 2)

	_, err := svc.Purchase(context.Background(), sweet.ID, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "Insufficient quantity for ladoo. Available: 2", Reason(err))

	unchanged, err := svc.Get(context.Background(), sweet.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), unchanged.Quantity)
}

func TestCatalogService_Purchase_NotFound(t *testing.T) {
	svc := newTestCatalog(t)

	_, err := svc.Purchase(context.Background(), 123, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Purchase_DefaultsToOne(t *testing.T) {
	svc := newTestCatalog(t)
	sweet := seedSweet(t, svc, "barfi", "milk", 30, 4)

	got, err := svc.Purchase(context.Background(), sweet.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.Quantity)
}

func TestCatalogService_Restock(t *testing.T) {
	svc := newTestCatalog(t)
	sweet := seedSweet(t, svc, "barfi", "milk", 30, 4)

	got, err := svc.Restock(context.Background(), sweet.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, uint(10), got.Quantity)
}

func TestCatalogService_Restock_NotFound(t *testing.T) {
	svc := newTestCatalog(t)

	_, err := svc.Restock(context.Background(), 77, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	svc := newTestCatalog(t)
	ctx := context.Background()

	seedSweet(t, svc, "gulab jamun", "traditional", 35, 10)
	seedSweet(t, svc, "rasgulla", "traditional", 20, 5)
	seedSweet(t, svc, "chocolate barfi", "fusion", 50, 3)

	float := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		filter transport.SweetFilter
		want   []string
	}{
		{
			name:   "empty filter returns everything",
			filter: transport.SweetFilter{},
			want:   []string{"gulab jamun", "rasgulla", "chocolate barfi"},
		},
		{
			name:   "name substring is case-insensitive",
			filter: transport.SweetFilter{Name: "GULAB"},
			want:   []string{"gulab jamun"},
		},
		{
			name:   "category is an exact match",
			filter: transport.SweetFilter{Category: "traditional"},
			want:   []string{"gulab jamun", "rasgulla"},
		},
		{
			name:   "name and price range combine",
			filter: transport.SweetFilter{Name: "g", MinPrice: float(30), MaxPrice: float(60)},
			want:   []string{"gulab jamun"},
		},
		{
			name:   "price bounds are inclusive",
			filter: transport.SweetFilter{MinPrice: float(20), MaxPrice: float(35)},
			want:   []string{"gulab jamun", "rasgulla"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweets, err := svc.Search(ctx, tt.filter)
			require.NoError(t, err)

			var names []string
			for _, s := range sweets {
				names = append(names, s.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}
