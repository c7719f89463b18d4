package manufacturer

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var columns = []string{"id", "name", "email", "mobile", "address"}

func TestPostgresRepository_FindConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM manufacturers WHERE id <> \\$4").
		WithArgs("info@acme.com", "0123456789", "1 Main Street", 0).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Acme Pharma", "info@acme.com", "0123456789", "1 Main Street"))

	m, err := NewPostgresRepository(db).FindConflict(context.Background(),
		Manufacturer{Email: "info@acme.com", Mobile: "0123456789", Address: "1 Main Street"}, 0)
	if err != nil || m.ID != 1 {
		t.Fatalf("unexpected result %+v, %v", m, err)
	}
}

func TestPostgresRepository_FindConflict_None(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM manufacturers").WillReturnRows(sqlmock.NewRows(columns))

	_, err = NewPostgresRepository(db).FindConflict(context.Background(), Manufacturer{Email: "x@y.com"}, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO manufacturers").
		WithArgs("Acme Pharma", "info@acme.com", "0123456789", "1 Main Street").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	m, err := NewPostgresRepository(db).Create(context.Background(),
		Manufacturer{Name: "Acme Pharma", Email: "info@acme.com", Mobile: "0123456789", Address: "1 Main Street"})
	if err != nil || m.ID != 5 {
		t.Fatalf("unexpected result %+v, %v", m, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
