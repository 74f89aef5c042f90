package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context, category *string) ([]*Product, error)
	ListFeatured(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, params NewProductParams) (*Product, error)
	Update(ctx context.Context, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (*Product, error)

	// DecrementStockTx subtracts qty from stock and adds it to sold inside
	// tx, guarded on current stock >= qty. Returns nil, nil when the guard
	// rejects the update.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, image, category, stock, sold, is_featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.Category, &p.Stock, &p.Sold, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// FindByIDs returns products in the same order as ids, each id matched at
// most once. It does not error on missing ids; callers compare lengths.
func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
			delete(byID, id)
		}
	}
	return products, nil
}

func (r *repository) List(ctx context.Context, category *string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != nil && strings.TrimSpace(*category) != "" {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryProducts(ctx, query, args...)
}

func (r *repository) ListFeatured(ctx context.Context) ([]*Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_featured = true ORDER BY created_at DESC`,
	)
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, params NewProductParams) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, image, category, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		params.Name, params.Description, params.Price,
		params.Image, params.Category, params.Stock,
	)

	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, params UpdateProductParams) (*Product, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Image != nil {
		add("image", *params.Image)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.Stock != nil {
		add("stock", *params.Stock)
	}

	if len(sets) == 0 {
		return nil, ErrNothingToUpdate
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(
		`UPDATE products SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns,
	)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) ToggleFeatured(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET is_featured = NOT is_featured, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, id,
	)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle featured: %w", err)
	}
	return p, nil
}

func (r *repository) DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*Product, error) {
	log := logger.FromCtx(ctx)

	row := tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $1, sold = sold + $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
		RETURNING `+productColumns,
		qty, id,
	)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		// guard rejected: not enough stock at the moment of update
		return nil, nil
	}
	if err != nil {
		log.Error("db: failed to decrement stock",
			zap.String("product_id", id),
			zap.Int("quantity", qty),
			zap.Error(err),
		)
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	return p, nil
}
