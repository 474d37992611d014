package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/repo"
	"github.com/sweetly/sweetly-server/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Sweet, error) {
	sweet, err := s.Repo.GetSweet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Sweet not found", ErrNotFound)
		}
		return nil, err
	}
	return sweet, nil
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateSweetRequest) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	taken, err := s.Repo.SweetNameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: Sweet with this name already exists", ErrConflict)
	}

	sweet := models.Sweet{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageAlt:    req.ImageAlt,
	}
	if err := s.Repo.CreateSweet(ctx, &sweet); err != nil {
		return nil, err
	}

	l.Info("sweet created", "sweet_id", sweet.ID, "name", sweet.Name)
	return &sweet, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateSweetRequest) (*models.Sweet, error) {
	if req.Name != nil {
		taken, err := s.Repo.SweetNameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: Sweet with this name already exists", ErrConflict)
		}
	}

	sweet, err := s.Repo.PatchSweet(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Sweet not found", ErrNotFound)
		}
		return nil, err
	}
	return sweet, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteSweet(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Sweet not found", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.Sweet, error) {
	return s.Repo.ListSweets(ctx)
}

func (s *CatalogService) Search(ctx context.Context, f transport.SweetFilter) ([]models.Sweet, error) {
	return s.Repo.SearchSweets(ctx, f)
}

// Purchase decrements stock through the conditional update, so the read here
// only serves error messages; the guard itself is atomic.
func (s *CatalogService) Purchase(ctx context.Context, id uint, qty uint) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.purchase", "sweet_id", id)

	if qty < 1 {
		qty = 1
	}

	ok, err := s.Repo.DecrementStock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		sweet, err := s.Repo.GetSweet(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: Sweet not found", ErrNotFound)
			}
			return nil, err
		}
		return nil, fmt.Errorf("%w: Insufficient quantity for %s. Available: %d",
			ErrInsufficientStock, sweet.Name, sweet.Quantity)
	}

	sweet, err := s.Repo.GetSweet(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Info("sweet purchased", "quantity", qty, "remaining", sweet.Quantity)
	return sweet, nil
}

func (s *CatalogService) Restock(ctx context.Context, id uint, qty uint) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.restock", "sweet_id", id)

	ok, err := s.Repo.IncrementStock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: Sweet not found", ErrNotFound)
	}

	sweet, err := s.Repo.GetSweet(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Info("sweet restocked", "quantity", qty, "total", sweet.Quantity)
	return sweet, nil
}
