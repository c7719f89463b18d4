package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/wichananm65/pharmacy-backend/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, name, manufacturer_id, manufacturer_name, manufacturer_email, category_id, category_name,
	number_in_stock, active_ingredients, rate, price, description, images, date_added`

const (
	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = 0 OR category_id = $1)
		ORDER BY date_added, id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, manufacturer_id, manufacturer_name, manufacturer_email, category_id, category_name,
			number_in_stock, active_ingredients, rate, price, description, images, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			manufacturer_id = $2,
			manufacturer_name = $3,
			manufacturer_email = $4,
			category_id = $5,
			category_name = $6,
			number_in_stock = $7,
			active_ingredients = $8,
			rate = $9,
			price = $10,
			description = $11,
			images = $12
		WHERE id = $13
		RETURNING date_added
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	decrementStockQuery = `
		UPDATE products
		SET number_in_stock = number_in_stock - $1
		WHERE id = $2 AND number_in_stock >= $1
	`
	productExistsQuery = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery, f.CategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	return scanOne(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	images, err := json.Marshal(nonNilImages(p.Images))
	if err != nil {
		return Product{}, err
	}

	err = r.db.QueryRowContext(ctx, insertProductQuery,
		p.Name,
		p.Manufacturer.ID,
		p.Manufacturer.Name,
		p.Manufacturer.Email,
		p.Category.ID,
		p.Category.Name,
		p.NumberInStock,
		pq.Array(p.ActiveIngredients),
		p.Rate,
		p.Price,
		p.Description,
		string(images),
		p.DateAdded,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	images, err := json.Marshal(nonNilImages(p.Images))
	if err != nil {
		return Product{}, err
	}

	err = r.db.QueryRowContext(ctx, updateProductQuery,
		p.Name,
		p.Manufacturer.ID,
		p.Manufacturer.Name,
		p.Manufacturer.Email,
		p.Category.ID,
		p.Category.Name,
		p.NumberInStock,
		pq.Array(p.ActiveIngredients),
		p.Rate,
		p.Price,
		p.Description,
		string(images),
		id,
	).Scan(&p.DateAdded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (Product, error) {
	return scanOne(r.db.QueryRowContext(ctx, deleteProductQuery, id))
}

// DecrementStock relies on the row lock taken by UPDATE: concurrent callers
// serialise on the row and the WHERE clause is re-evaluated against the
// committed stock, so it never goes below zero.
func (r *PostgresRepository) DecrementStock(ctx context.Context, tx storage.Tx, id, amount int) error {
	sqlTx, err := storage.SQLTx(tx)
	if err != nil {
		return err
	}

	res, err := sqlTx.ExecContext(ctx, decrementStockQuery, amount, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := sqlTx.QueryRowContext(ctx, productExistsQuery, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func scanOne(row *sql.Row) (Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p      Product
		images []byte
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Manufacturer.ID,
		&p.Manufacturer.Name,
		&p.Manufacturer.Email,
		&p.Category.ID,
		&p.Category.Name,
		&p.NumberInStock,
		pq.Array(&p.ActiveIngredients),
		&p.Rate,
		&p.Price,
		&p.Description,
		&images,
		&p.DateAdded,
	); err != nil {
		return Product{}, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func nonNilImages(images []Image) []Image {
	if images == nil {
		return []Image{}
	}
	return images
}
