package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pharmacy"

// Order placement outcomes used as the "outcome" label.
const (
	OutcomeCreated           = "created"
	OutcomeInvalid           = "invalid"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

type Metrics struct {
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	OrdersPlaced  *prometheus.CounterVec
	StockReserved prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Tests pass a fresh prometheus.NewRegistry()
// so that repeated construction does not panic on duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Order placement attempts by outcome.",
		}, []string{"outcome"}),
		StockReserved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_stock_units_total",
			Help:      "Stock units decremented by committed orders.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.Requests, m.Latency, m.OrdersPlaced, m.StockReserved)
	return m
}

// OrderPlaced is safe to call on a nil receiver.
func (m *Metrics) OrderPlaced(outcome string, units int) {
	if m == nil {
		return
	}
	m.OrdersPlaced.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCreated && units > 0 {
		m.StockReserved.Add(float64(units))
	}
}

// Middleware records request count and latency labelled by the matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		m.Requests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.Latency.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format for the registry passed to New.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
