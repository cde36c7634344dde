package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/storelane-api/internal/domain/entity"
	"github.com/storelane/storelane-api/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, name, description, price, category, stock, image_url, created_at, updated_at"

// sortColumns whitelists the fields a listing may be ordered by. Anything
// else falls back to insertion order.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"stock":      "stock",
	"created_at": "created_at",
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.Price, p.Category, p.Stock, p.ImageURL)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, id))
}

// List applies the category filter, sort and pagination of q and reports
// the uncapped total count of rows matching the filter.
func (r *ProductRepository) List(ctx context.Context, q repository.ListQuery) ([]entity.Product, int64, error) {
	where := ""
	args := []any{}
	if q.Category != "" {
		where = "WHERE category = $1"
		args = append(args, q.Category)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at, id"
	if col, ok := sortColumns[q.SortBy]; ok {
		order = col
		if q.SortDesc {
			order += " DESC"
		}
		order += ", id"
	}

	offArg := len(args) + 1
	args = append(args, q.Offset, q.Limit)
	sql := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s OFFSET $%d LIMIT $%d",
		productColumns, where, order, offArg, offArg+1)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]entity.Product, 0, q.Limit)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// Update performs a merge-update: only non-nil patch fields overwrite
// stored values.
func (r *ProductRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price       = COALESCE($4, price),
			category    = COALESCE($5, category),
			stock       = COALESCE($6, stock),
			image_url   = COALESCE($7, image_url),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+productColumns+`
	`, id, patch.Name, patch.Description, patch.Price, patch.Category, patch.Stock, patch.ImageURL))
}

// Delete removes the product and returns its last snapshot.
func (r *ProductRepository) Delete(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `
		DELETE FROM products WHERE id = $1
		RETURNING `+productColumns+`
	`, id))
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
