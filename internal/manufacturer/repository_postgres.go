package manufacturer

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listManufacturersQuery = `SELECT id, name, email, mobile, address FROM manufacturers ORDER BY name`
	getManufacturerQuery   = `SELECT id, name, email, mobile, address FROM manufacturers WHERE id = $1`
	findConflictQuery      = `
		SELECT id, name, email, mobile, address
		FROM manufacturers
		WHERE id <> $4 AND (lower(email) = lower($1) OR mobile = $2 OR address = $3)
		ORDER BY id
		LIMIT 1
	`
	insertManufacturerQuery = `
		INSERT INTO manufacturers (name, email, mobile, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	updateManufacturerQuery = `
		UPDATE manufacturers
		SET name = $1, email = $2, mobile = $3, address = $4
		WHERE id = $5
		RETURNING id, name, email, mobile, address
	`
	deleteManufacturerQuery = `DELETE FROM manufacturers WHERE id = $1 RETURNING id, name, email, mobile, address`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Manufacturer, error) {
	rows, err := r.db.QueryContext(ctx, listManufacturersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Manufacturer, 0)
	for rows.Next() {
		m, err := scanManufacturer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Manufacturer, error) {
	return scanOne(r.db.QueryRowContext(ctx, getManufacturerQuery, id))
}

func (r *PostgresRepository) FindConflict(ctx context.Context, m Manufacturer, excludeID int) (Manufacturer, error) {
	return scanOne(r.db.QueryRowContext(ctx, findConflictQuery, m.Email, m.Mobile, m.Address, excludeID))
}

func (r *PostgresRepository) Create(ctx context.Context, m Manufacturer) (Manufacturer, error) {
	err := r.db.QueryRowContext(ctx, insertManufacturerQuery, m.Name, m.Email, m.Mobile, m.Address).Scan(&m.ID)
	if err != nil {
		return Manufacturer{}, err
	}
	return m, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, m Manufacturer) (Manufacturer, error) {
	return scanOne(r.db.QueryRowContext(ctx, updateManufacturerQuery, m.Name, m.Email, m.Mobile, m.Address, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (Manufacturer, error) {
	return scanOne(r.db.QueryRowContext(ctx, deleteManufacturerQuery, id))
}

func scanOne(row *sql.Row) (Manufacturer, error) {
	m, err := scanManufacturer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Manufacturer{}, ErrNotFound
		}
		return Manufacturer{}, err
	}
	return m, nil
}

func scanManufacturer(scanner rowScanner) (Manufacturer, error) {
	var m Manufacturer
	if err := scanner.Scan(&m.ID, &m.Name, &m.Email, &m.Mobile, &m.Address); err != nil {
		return Manufacturer{}, err
	}
	return m, nil
}
