package upload

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertUploadQuery = `
		INSERT INTO uploads (id, filename, original_name, content_type, size, data, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	getUploadQuery     = `SELECT id, filename, original_name, content_type, size, upload_date FROM uploads WHERE id = $1`
	getUploadDataQuery = `SELECT id, filename, original_name, content_type, size, upload_date, data FROM uploads WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, u Upload, data []byte) (Upload, error) {
	_, err := r.db.ExecContext(ctx, insertUploadQuery,
		u.ID, u.Filename, u.OriginalName, u.ContentType, u.Size, data, u.UploadDate)
	if err != nil {
		return Upload{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Upload, error) {
	var u Upload
	err := r.db.QueryRowContext(ctx, getUploadQuery, id).
		Scan(&u.ID, &u.Filename, &u.OriginalName, &u.ContentType, &u.Size, &u.UploadDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, ErrNotFound
		}
		return Upload{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetData(ctx context.Context, id string) (Upload, []byte, error) {
	var u Upload
	var data []byte
	err := r.db.QueryRowContext(ctx, getUploadDataQuery, id).
		Scan(&u.ID, &u.Filename, &u.OriginalName, &u.ContentType, &u.Size, &u.UploadDate, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, nil, ErrNotFound
		}
		return Upload{}, nil, err
	}
	return u, data, nil
}
