package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/wichananm65/pharmacy-backend/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const orderColumns = `id, buyer_id, buyer_name, buyer_email, line_items, total, status, created_at`

const (
	insertOrderQuery = `
		INSERT INTO orders (id, buyer_id, buyer_name, buyer_email, line_items, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	getOrderQuery   = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	listOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = 0 OR buyer_id = $1)
		ORDER BY created_at, id
	`
	updateStatusQuery = `UPDATE orders SET status = $1 WHERE id = $2 RETURNING ` + orderColumns
	deleteOrderQuery  = `DELETE FROM orders WHERE id = $1 RETURNING ` + orderColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, tx storage.Tx, o Order) error {
	sqlTx, err := storage.SQLTx(tx)
	if err != nil {
		return err
	}

	lines, err := json.Marshal(o.LineItems)
	if err != nil {
		return err
	}

	_, err = sqlTx.ExecContext(ctx, insertOrderQuery,
		o.ID,
		o.Buyer.ID,
		o.Buyer.Name,
		o.Buyer.Email,
		string(lines),
		o.Total,
		string(o.Status),
		o.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Order, error) {
	return scanOne(r.db.QueryRowContext(ctx, getOrderQuery, id))
}

func (r *PostgresRepository) FindAll(ctx context.Context, f Filter) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersQuery, f.BuyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	return scanOne(r.db.QueryRowContext(ctx, updateStatusQuery, string(status), id))
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) (Order, error) {
	return scanOne(r.db.QueryRowContext(ctx, deleteOrderQuery, id))
}

func scanOne(row *sql.Row) (Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		o      Order
		lines  []byte
		status string
	)
	if err := scanner.Scan(
		&o.ID,
		&o.Buyer.ID,
		&o.Buyer.Name,
		&o.Buyer.Email,
		&lines,
		&o.Total,
		&status,
		&o.CreatedAt,
	); err != nil {
		return Order{}, err
	}

	if err := json.Unmarshal(lines, &o.LineItems); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}
