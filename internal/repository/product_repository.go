package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"shop-admin/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("slug already in use")
)

const pgUniqueViolation = "23505"

// ProductRepository defines the interface for product data access. Insert
// carries create semantics, Replace full-row update semantics.
type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Replace(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, title, description, price, stock, slug, sizes, tags, images, category, audience, created_at, updated_at`

// Insert creates a new product using parameterized queries. A slug collision
// surfaces as ErrSlugTaken.
func (r *productRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	sizes, tags, images, err := marshalCollections(product)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (id, title, description, price, stock, slug, sizes, tags, images, category, audience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Stock,
		product.Slug,
		sizes,
		tags,
		images,
		product.Category,
		product.Audience,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// Replace overwrites the full row for the product's ID.
func (r *productRepository) Replace(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.UpdatedAt = time.Now().UTC()

	sizes, tags, images, err := marshalCollections(product)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, stock = $5, slug = $6,
		    sizes = $7, tags = $8, images = $9, category = $10, audience = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Stock,
		product.Slug,
		sizes,
		tags,
		images,
		product.Category,
		product.Audience,
		product.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return product, nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a product by its URL-safe identifier
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// List retrieves products with pagination, newest first
func (r *productRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`
		SELECT %s FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *productRepository) scanOne(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var sizes, tags, images []byte

	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Slug,
		&sizes,
		&tags,
		&images,
		&product.Category,
		&product.Audience,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
		return nil, fmt.Errorf("failed to decode sizes: %w", err)
	}
	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	return product, nil
}

// marshalCollections encodes the set- and sequence-valued columns as JSONB.
// Empty collections are stored as [], never NULL.
func marshalCollections(product *domain.Product) (sizes, tags, images []byte, err error) {
	if sizes, err = json.Marshal(orEmpty(product.Sizes)); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode sizes: %w", err)
	}
	if tags, err = json.Marshal(orEmpty(product.Tags)); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	if images, err = json.Marshal(orEmpty(product.Images)); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
	}
	return sizes, tags, images, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
