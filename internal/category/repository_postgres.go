package category

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	listCategoriesQuery = `SELECT id, name FROM categories ORDER BY name`
	getCategoryQuery    = `SELECT id, name FROM categories WHERE id = $1`
	insertCategoryQuery = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	updateCategoryQuery = `UPDATE categories SET name = $1 WHERE id = $2 RETURNING id, name`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1 RETURNING id, name`
)

func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Category, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, getCategoryQuery, id))
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) (Category, error) {
	if err := r.db.QueryRowContext(ctx, insertCategoryQuery, c.Name).Scan(&c.ID); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, c Category) (Category, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, updateCategoryQuery, c.Name, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (Category, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, deleteCategoryQuery, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}
