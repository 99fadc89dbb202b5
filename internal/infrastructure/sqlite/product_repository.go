package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodiebot/backend/internal/domain"
)

const productColumns = `product_id, name, category, description, ingredients, price, calories, prep_time,
	dietary_tags, mood_tags, allergens, popularity_score, chef_special, limited_time, spice_level,
	image_prompt, image_url`

// ProductRepository implements domain.ProductRepository
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a product repository on db
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product; a duplicate product_id yields domain.ErrProductExists
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProductID, p.Name, p.Category, p.Description, domain.EncodeTags(p.Ingredients), p.Price, p.Calories, p.PrepTime,
		domain.EncodeTags(p.DietaryTags), domain.EncodeTags(p.MoodTags), domain.EncodeTags(p.Allergens),
		p.PopularityScore, boolToInt(p.ChefSpecial), boolToInt(p.LimitedTime), p.SpiceLevel,
		p.ImagePrompt, p.ImageURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrProductExists, p.ProductID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns the product with the given catalog id
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = ?`, productID)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Exists reports whether a product id is taken
func (r *ProductRepository) Exists(ctx context.Context, productID string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return n > 0, nil
}

// ListAll returns every product in insertion order
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

// TopByPopularity returns the limit most popular products, ties in insertion order
func (r *ProductRepository) TopByPopularity(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return []domain.Product{}, nil
	}
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY popularity_score DESC, id LIMIT ?`, limit)
}

// Count returns the number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "products")
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var (
		p                                     domain.Product
		ingredients, dietary, mood, allergens string
		chefSpecial, limitedTime              int
	)
	if err := s.Scan(
		&p.ProductID, &p.Name, &p.Category, &p.Description, &ingredients, &p.Price, &p.Calories, &p.PrepTime,
		&dietary, &mood, &allergens, &p.PopularityScore, &chefSpecial, &limitedTime, &p.SpiceLevel,
		&p.ImagePrompt, &p.ImageURL,
	); err != nil {
		return nil, err
	}

	p.Ingredients = domain.ParseTags(ingredients)
	p.DietaryTags = domain.ParseTags(dietary)
	p.MoodTags = domain.ParseTags(mood)
	p.Allergens = domain.ParseTags(allergens)
	p.ChefSpecial = chefSpecial != 0
	p.LimitedTime = limitedTime != 0
	return &p, nil
}

// count is only called with fixed table names
func count(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
