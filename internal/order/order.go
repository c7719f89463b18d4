package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCreated   Status = "Created"
	StatusProcessed Status = "Processed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var statuses = []Status{StatusCreated, StatusProcessed, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts exactly one of the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", invalidf("status must be one of Created, Processed, Shipped, Delivered, Cancelled")
}

// Buyer is a snapshot of the user at order time.
type Buyer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Image struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// ProductSnapshot freezes the product fields an order depends on.
type ProductSnapshot struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image *Image          `json:"image,omitempty"`
}

type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID        string          `json:"id"`
	Buyer     Buyer           `json:"buyer"`
	LineItems []LineItem      `json:"lineItems"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Units is the number of stock units the order reserved.
func (o Order) Units() int {
	n := 0
	for _, l := range o.LineItems {
		n += l.Quantity
	}
	return n
}

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOperationFailed   = errors.New("something failed")
)

// Error carries a client-facing message for one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the product that could not be reserved.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("No enough %s in stock", e.ProductName)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
