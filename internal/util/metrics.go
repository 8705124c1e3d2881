package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order requests",
	}, []string{"reason"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of completed orders",
	})

	DiscountsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discounts_applied_total",
		Help: "Total number of discounts applied to orders",
	}, []string{"kind"})

	EmailSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "email_sends_total",
		Help: "Total number of transactional email send attempts",
	}, []string{"status"})

	MailBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mail_circuit_breaker_state",
		Help: "SMTP circuit breaker state (0=closed, 1=open, 2=half-open)",
	})

	NotificationsBroadcastTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_broadcast_total",
		Help: "Total number of notification events broadcast to subscribers",
	})

	NotificationClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_clients",
		Help: "Number of currently connected notification subscribers",
	})

	CatalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_total",
		Help: "Catalog cache lookups by result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
