package product

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	GetList(ctx context.Context, category *string) ([]*Product, error)
	GetFeatured(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, params NewProductParams) (*Product, error)
	Update(ctx context.Context, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (*Product, error)
	DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByIDs rejects the whole request when any id is missing or repeated,
// rather than silently dropping items.
func (s *service) GetByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, ErrProductsNotFound
	}
	return products, nil
}

func (s *service) GetList(ctx context.Context, category *string) ([]*Product, error) {
	return s.repo.List(ctx, category)
}

func (s *service) GetFeatured(ctx context.Context) ([]*Product, error) {
	return s.repo.ListFeatured(ctx)
}

func (s *service) Create(ctx context.Context, params NewProductParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	start := time.Now()
	params.Name = strings.TrimSpace(params.Name)

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.Duration("took", time.Since(start)),
	)
	return p, nil
}

func (s *service) Update(ctx context.Context, params UpdateProductParams) (*Product, error) {
	return s.repo.Update(ctx, params)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ToggleFeatured(ctx context.Context, id string) (*Product, error) {
	return s.repo.ToggleFeatured(ctx, id)
}

func (s *service) DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*Product, error) {
	return s.repo.DecrementStockTx(ctx, tx, id, qty)
}
