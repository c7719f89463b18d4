package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresRepository_SaveAndGetData(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	u := Upload{ID: "2b1c6a8e-0d0e-4a51-9a7e-3f9c1a3e5b10", Filename: "abc.png", OriginalName: "box.png", ContentType: "image/png", Size: 3, UploadDate: now}

	mock.ExpectExec("INSERT INTO uploads").
		WithArgs(u.ID, u.Filename, u.OriginalName, u.ContentType, u.Size, []byte("png"), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+), data FROM uploads WHERE id = \\$1").
		WithArgs(u.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "original_name", "content_type", "size", "upload_date", "data"}).
			AddRow(u.ID, u.Filename, u.OriginalName, u.ContentType, u.Size, now, []byte("png")))

	repo := NewPostgresRepository(db)
	if _, err := repo.Save(context.Background(), u, []byte("png")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, data, err := repo.GetData(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if got.Filename != "abc.png" || string(data) != "png" {
		t.Fatalf("unexpected upload %+v %q", got, data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM uploads WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "original_name", "content_type", "size", "upload_date"}))

	_, err = NewPostgresRepository(db).GetByID(context.Background(), "2b1c6a8e-0d0e-4a51-9a7e-3f9c1a3e5b10")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
