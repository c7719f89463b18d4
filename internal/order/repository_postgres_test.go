package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/metrics"
	"github.com/wichananm65/pharmacy-backend/internal/product"
	"github.com/wichananm65/pharmacy-backend/internal/storage"
	"github.com/wichananm65/pharmacy-backend/internal/user"
)

var orderRowColumns = []string{"id", "buyer_id", "buyer_name", "buyer_email", "line_items", "total", "status", "created_at"}

const sampleID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestPostgresRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(orderRowColumns).AddRow(
		sampleID, 1, "Buyer One", "one@example.com",
		`[{"product":{"id":1,"name":"Aspirin","price":"15"},"quantity":3}]`,
		"45", "Shipped", created,
	)
	mock.ExpectQuery("FROM orders WHERE id = \\$1").WithArgs(sampleID).WillReturnRows(rows)

	o, err := NewPostgresRepository(db).FindByID(context.Background(), sampleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusShipped || o.Buyer.Email != "one@example.com" {
		t.Fatalf("unexpected order %+v", o)
	}
	if len(o.LineItems) != 1 || !o.LineItems[0].Subtotal().Equal(decimal.NewFromInt(45)) {
		t.Fatalf("unexpected line items %+v", o.LineItems)
	}
	if !o.Total.Equal(decimal.NewFromInt(45)) || !o.CreatedAt.Equal(created) {
		t.Fatalf("unexpected total/created %s %s", o.Total, o.CreatedAt)
	}
}

func TestPostgresRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("UPDATE orders SET status = \\$1 WHERE id = \\$2").
		WithArgs("Cancelled", sampleID).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err = NewPostgresRepository(db).UpdateStatus(context.Background(), sampleID, StatusCancelled)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRepository_FindAll_ByBuyer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(orderRowColumns).
		AddRow(sampleID, 2, "Buyer Two", "two@example.com", `[{"product":{"id":1,"name":"Aspirin","price":15},"quantity":1}]`, "15", "Created", created)
	mock.ExpectQuery("FROM orders WHERE \\(\\$1 = 0 OR buyer_id = \\$1\\) ORDER BY created_at, id").
		WithArgs(2).
		WillReturnRows(rows)

	out, err := NewPostgresRepository(db).FindAll(context.Background(), Filter{BuyerID: 2})
	if err != nil || len(out) != 1 || out[0].Buyer.ID != 2 {
		t.Fatalf("unexpected result %+v, %v", out, err)
	}
}

// sqlCatalog reads products from memory but reserves stock through SQL.
type sqlCatalog struct {
	*product.InMemoryRepository
	pg *product.PostgresRepository
}

func (c sqlCatalog) DecrementStock(ctx context.Context, tx storage.Tx, id, amount int) error {
	return c.pg.DecrementStock(ctx, tx, id, amount)
}

func newSQLService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	users := user.NewInMemoryRepository([]user.User{{ID: 1, Name: "Buyer One", Email: "one@example.com"}})
	catalog := sqlCatalog{
		InMemoryRepository: product.NewInMemoryRepository([]product.Product{item(1, "Aspirin", 15, 10), item(2, "Vitamin C", 15, 10)}),
		pg:                 product.NewPostgresRepository(db),
	}
	s := NewService(users, catalog, NewPostgresRepository(db), storage.NewSQLBeginner(db), metrics.New(prometheus.NewRegistry()), zap.NewNop())
	s.newID = func() string { return sampleID }
	return s, mock, func() { db.Close() }
}

func TestPlaceOrder_SQLTransactionCommits(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(2, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sampleID, 1, "Buyer One", "one@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), "Created", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := s.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID: 1,
		Items:   []ItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != sampleID || !o.Total.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("unexpected order %+v", o)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_SQLConditionalDecrementRejectedRollsBack(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(2, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := s.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID: 1,
		Items:   []ItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
	})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.ProductName != "Vitamin C" {
		t.Fatalf("expected insufficient stock for Vitamin C, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_SQLInsertFailureRollsBack(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.PlaceOrder(context.Background(), PlaceOrderInput{BuyerID: 1, Items: []ItemInput{{ProductID: 1, Quantity: 1}}})
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_SQLCommitFailure(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	_, err := s.PlaceOrder(context.Background(), PlaceOrderInput{BuyerID: 1, Items: []ItemInput{{ProductID: 1, Quantity: 1}}})
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
}

func TestPlaceOrder_SQLDecrementsInProductIDOrder(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(3, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o, err := s.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID: 1,
		Items:   []ItemInput{{ProductID: 2, Quantity: 3}, {ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.LineItems[0].Product.ID != 2 || o.LineItems[1].Product.ID != 1 {
		t.Fatalf("line items must keep request order, got %+v", o.LineItems)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_SQLProductRemovedDuringTransaction(t *testing.T) {
	s, mock, done := newSQLService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET number_in_stock").WithArgs(2, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := s.PlaceOrder(context.Background(), PlaceOrderInput{
		BuyerID: 1,
		Items:   []ItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
	})
	if !errors.Is(err, ErrNotFound) || err.Error() != "Product with id 2 doesn't exist." {
		t.Fatalf("expected not found for product 2, got %v", err)
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		t.Fatalf("a removed product must not be reported as out of stock")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
