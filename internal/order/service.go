package order

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/metrics"
	"github.com/wichananm65/pharmacy-backend/internal/product"
	"github.com/wichananm65/pharmacy-backend/internal/storage"
	"github.com/wichananm65/pharmacy-backend/internal/user"
)

const maxLineItems = 50

// UserDirectory resolves buyers.
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (user.User, error)
}

// ProductCatalog reads products and reserves stock inside a transaction.
type ProductCatalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	DecrementStock(ctx context.Context, tx storage.Tx, id, amount int) error
}

type ItemInput struct {
	ProductID int
	Quantity  int
}

type PlaceOrderInput struct {
	BuyerID int
	Items   []ItemInput
}

func (in PlaceOrderInput) validate() error {
	if in.BuyerID <= 0 {
		return invalidf("userId must be a positive id")
	}
	if len(in.Items) == 0 || len(in.Items) > maxLineItems {
		return invalidf("items must contain between 1 and %d entries", maxLineItems)
	}
	for i, item := range in.Items {
		if item.ProductID <= 0 {
			return invalidf("items[%d].productId must be a positive id", i)
		}
		if item.Quantity < 1 {
			return invalidf("items[%d].quantity must be at least 1", i)
		}
	}
	return nil
}

// Requester identifies who is asking; non-admins only see their own orders.
type Requester struct {
	ID      int
	IsAdmin bool
}

func (r Requester) canAccess(o Order) bool {
	return r.IsAdmin || o.Buyer.ID == r.ID
}

type Service struct {
	users    UserDirectory
	products ProductCatalog
	orders   Repository
	txs      storage.Beginner
	metrics  *metrics.Metrics
	log      *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(users UserDirectory, products ProductCatalog, orders Repository, txs storage.Beginner, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		users:    users,
		products: products,
		orders:   orders,
		txs:      txs,
		metrics:  m,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// PlaceOrder checks the buyer and every product against live stock, prices
// the order, then decrements stock and stores the order in one transaction.
// A failure at any point leaves stock and orders untouched.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (ord Order, err error) {
	defer func() {
		s.metrics.OrderPlaced(outcome(err), ord.Units())
	}()

	if err := in.validate(); err != nil {
		return Order{}, err
	}

	buyer, err := s.users.GetByID(ctx, in.BuyerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Order{}, notFoundf("User with given id not found.")
		}
		s.log.Error("place order: lookup buyer", zap.Int("buyer_id", in.BuyerID), zap.Error(err))
		return Order{}, ErrOperationFailed
	}

	lines := make([]LineItem, 0, len(in.Items))
	total := decimal.Zero
	for _, item := range in.Items {
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return Order{}, notFoundf("Product with id %d doesn't exist.", item.ProductID)
			}
			s.log.Error("place order: lookup product", zap.Int("product_id", item.ProductID), zap.Error(err))
			return Order{}, ErrOperationFailed
		}
		if p.NumberInStock < item.Quantity {
			return Order{}, &InsufficientStockError{ProductName: p.Name}
		}

		line := LineItem{
			Product:  ProductSnapshot{ID: p.ID, Name: p.Name, Price: p.Price},
			Quantity: item.Quantity,
		}
		if img := p.FirstImage(); img != nil {
			line.Product.Image = &Image{ID: img.ID, Filename: img.Filename}
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
	}

	candidate := Order{
		ID:        s.newID(),
		Buyer:     Buyer{ID: buyer.ID, Name: buyer.Name, Email: buyer.Email},
		LineItems: lines,
		Total:     total,
		Status:    StatusCreated,
		CreatedAt: s.now(),
	}

	if err := s.commit(ctx, candidate); err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			s.log.Info("place order: stock taken concurrently",
				zap.Int("buyer_id", buyer.ID), zap.String("product", stockErr.ProductName))
			return Order{}, err
		}
		if errors.Is(err, ErrNotFound) {
			s.log.Info("place order: product removed concurrently", zap.Int("buyer_id", buyer.ID), zap.Error(err))
			return Order{}, err
		}
		s.log.Error("place order: transaction", zap.String("order_id", candidate.ID), zap.Error(err))
		return Order{}, ErrOperationFailed
	}

	s.log.Info("order placed",
		zap.String("order_id", candidate.ID),
		zap.Int("buyer_id", buyer.ID),
		zap.Int("items", len(lines)),
		zap.String("total", total.String()))
	return candidate, nil
}

func (s *Service) commit(ctx context.Context, o Order) (err error) {
	tx, err := s.txs.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && !errors.Is(rbErr, storage.ErrTxDone) {
			s.log.Error("place order: rollback", zap.String("order_id", o.ID), zap.Error(rbErr))
		}
	}()

	// Row locks are always taken in product id order.
	for _, line := range lockOrder(o.LineItems) {
		if err = s.products.DecrementStock(ctx, tx, line.Product.ID, line.Quantity); err != nil {
			switch {
			case errors.Is(err, product.ErrInsufficientStock):
				return &InsufficientStockError{ProductName: line.Product.Name}
			case errors.Is(err, product.ErrNotFound):
				return notFoundf("Product with id %d doesn't exist.", line.Product.ID)
			}
			return err
		}
	}

	if err = s.orders.Insert(ctx, tx, o); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	return tx.Commit()
}

func lockOrder(lines []LineItem) []LineItem {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b LineItem) int {
		return cmp.Compare(a.Product.ID, b.Product.ID)
	})
	return sorted
}

// UpdateOrderStatus sets any status on any order. Orders the requester may not
// see are reported as missing.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, who Requester, status string) (Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}

	if _, err := s.GetOrder(ctx, orderID, who); err != nil {
		return Order{}, err
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, st)
	if err != nil {
		return Order{}, s.storeError("update order status", orderID, err)
	}
	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string, who Requester) (Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return Order{}, orderNotFound()
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return Order{}, s.storeError("get order", orderID, err)
	}
	if !who.canAccess(o) {
		return Order{}, orderNotFound()
	}
	return o, nil
}

// ListOrders returns every order for admins and the requester's own otherwise,
// oldest first.
func (s *Service) ListOrders(ctx context.Context, who Requester) ([]Order, error) {
	f := Filter{BuyerID: who.ID}
	if who.IsAdmin {
		f = Filter{}
	}

	orders, err := s.orders.FindAll(ctx, f)
	if err != nil {
		s.log.Error("list orders", zap.Int("requester_id", who.ID), zap.Error(err))
		return nil, ErrOperationFailed
	}
	return orders, nil
}

// DeleteOrder removes an order without restoring stock.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) (Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return Order{}, orderNotFound()
	}

	removed, err := s.orders.DeleteByID(ctx, orderID)
	if err != nil {
		return Order{}, s.storeError("delete order", orderID, err)
	}
	return removed, nil
}

func (s *Service) storeError(op, orderID string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return orderNotFound()
	}
	s.log.Error(op, zap.String("order_id", orderID), zap.Error(err))
	return ErrOperationFailed
}

func orderNotFound() error {
	return notFoundf("The order with given id was not found")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, ErrInvalidArgument):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	default:
		return metrics.OutcomeFailed
	}
}
