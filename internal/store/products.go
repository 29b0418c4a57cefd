package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront-service/internal/models"

	"github.com/lib/pq"
)

const productColumns = "id, design_no, name, description, price, material, color, images, image_url, category, in_stock, created_at"

// lightweight projection for catalog browsing: description stays empty and is
// omitted from the JSON response.
const productColumnsLight = "id, design_no, name, price, material, color, images, image_url, category, in_stock, created_at"

// productListQuery builds the filtered catalog listing query.
func productListQuery(f models.ProductFilter) (string, []interface{}) {
	cols := productColumnsLight
	if f.IncludeDescription {
		cols = productColumns
	}

	var where []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Material != "" {
		add("material = $%d", f.Material)
	}
	if f.Color != "" {
		add("color = $%d", f.Color)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}

	query := "SELECT " + cols + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	return query, args
}

// ListProducts retrieves products matching the filter, newest first.
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	query, args := productListQuery(f)

	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, notFound("Product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, design_no, name, description, price, material, color, images, image_url, category, in_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.DesignNo, p.Name, p.Description, p.Price, p.Material, p.Color,
		p.Images, p.ImageURL, p.Category, p.InStock, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// productUpdateQuery builds the SET clause for a partial update from the
// non-nil patch fields.
func productUpdateQuery(id string, patch models.ProductPatch) (string, []interface{}) {
	var sets []string
	var args []interface{}

	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.DesignNo != nil {
		set("design_no", *patch.DesignNo)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Material != nil {
		set("material", *patch.Material)
	}
	if patch.Color != nil {
		set("color", *patch.Color)
	}
	if patch.Images != nil {
		set("images", pq.StringArray(*patch.Images))
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.InStock != nil {
		set("in_stock", *patch.InStock)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING "+productColumns,
		strings.Join(sets, ", "), len(args))
	return query, args
}

// UpdateProduct applies the non-nil patch fields and returns the updated row.
// Callers must reject an empty patch before calling.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	query, args := productUpdateQuery(id, patch)

	var product models.Product
	err := s.db.GetContext(ctx, &product, query, args...)
	if err == sql.ErrNoRows {
		return nil, notFound("Product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// DeleteProduct removes a product by ID.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Product", id)
	}
	return nil
}

// CountProducts returns the total product count.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}
