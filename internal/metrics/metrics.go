package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

// Prom holds the service collectors.
type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         prometheus.Gauge

	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec

	OTPDeliveries *prometheus.CounterVec
	OrdersCreated prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DBErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		OTPDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "otp",
				Name:      "deliveries_total",
				Help:      "OTP delivery attempts by outcome.",
			},
			[]string{"result"}, // delivered|failed
		),
		OrdersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "orders",
				Name:      "created_total",
				Help:      "Orders persisted.",
			},
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.DBQueryDuration, p.DBErrorsTotal, p.OTPDeliveries, p.OrdersCreated)

	return p
}

// Middleware records request counts and latency per route template.
func (p *Prom) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		p.InFlight.Inc()
		defer p.InFlight.Dec()

		err := c.Next()

		// the route is only resolved after routing
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		code := strconv.Itoa(status)
		p.RequestsTotal.WithLabelValues(c.Method(), route, code).Inc()
		p.RequestsDuration.WithLabelValues(c.Method(), route, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// ObserveDB times fn under the logical operation name op. A nil receiver just
// runs fn so repositories can be built without metrics.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}
	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
		p.DBErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}
	p.DBQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

// OTPDelivery counts one delivery outcome.
func (p *Prom) OTPDelivery(delivered bool) {
	if p == nil {
		return
	}
	result := "failed"
	if delivered {
		result = "delivered"
	}
	p.OTPDeliveries.WithLabelValues(result).Inc()
}

// OrderCreated counts one persisted order.
func (p *Prom) OrderCreated() {
	if p == nil {
		return
	}
	p.OrdersCreated.Inc()
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "40001":
			return "serialization_failure"
		case "40P01":
			return "deadlock"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no rows"):
		return "not_found"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
