package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/transport"
)

func (r *GormRepo) GetSweet(ctx context.Context, id uint) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.DB.WithContext(ctx).First(&sweet, id).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *GormRepo) SweetNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.Sweet{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateSweet(ctx context.Context, sweet *models.Sweet) error {
	return r.DB.WithContext(ctx).Create(sweet).Error
}

func (r *GormRepo) ListSweets(ctx context.Context) ([]models.Sweet, error) {
	var sweets []models.Sweet
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// SearchSweets applies any subset of filters; an empty filter returns the
// whole catalog. The LOWER/LIKE pair keeps the substring match
// case-insensitive on both postgres and sqlite.
func (r *GormRepo) SearchSweets(ctx context.Context, f transport.SweetFilter) ([]models.Sweet, error) {
	q := r.DB.WithContext(ctx).Model(&models.Sweet{})

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var sweets []models.Sweet
	if err := q.Order("id ASC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) PatchSweet(ctx context.Context, req transport.UpdateSweetRequest, id uint) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.DB.WithContext(ctx).First(&sweet, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		sweet.Name = *req.Name
	}
	if req.Category != nil {
		sweet.Category = *req.Category
	}
	if req.Price != nil {
		sweet.Price = *req.Price
	}
	if req.Quantity != nil {
		sweet.Quantity = *req.Quantity
	}
	if req.Description != nil {
		sweet.Description = *req.Description
	}
	if req.ImageURL != nil {
		sweet.ImageURL = *req.ImageURL
	}
	if req.ImageAlt != nil {
		sweet.ImageAlt = *req.ImageAlt
	}

	if err := r.DB.WithContext(ctx).Save(&sweet).Error; err != nil {
		return nil, err
	}

	return &sweet, nil
}

func (r *GormRepo) DeleteSweet(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Sweet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock applies "quantity = quantity - n" guarded by
// "quantity >= n" in a single statement, so two overlapping purchases can
// never drive stock negative. A zero RowsAffected means the guard failed or
// the row is missing; callers distinguish the two.
func (r *GormRepo) DecrementStock(ctx context.Context, id uint, qty uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, id uint, qty uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
