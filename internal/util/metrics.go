package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesComputedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_quotes_computed_total",
		Help: "Total number of cart quotes computed",
	})

	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of checkout sessions created",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of orders completed from checkout sessions",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout operations",
	}, []string{"reason"})

	TaxCalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tax_calculations_total",
		Help: "Total number of tax calculations by jurisdiction kind",
	}, []string{"country"})

	ShippingRateRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipping_rate_requests_total",
		Help: "Total number of shipping rate lookups",
	})

	NotificationPublishFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_publish_failed_total",
		Help: "Total number of order confirmation events that failed to publish",
	})

	OrderCompletionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_completion_latency_seconds",
		Help:    "Latency of session-to-order completion",
		Buckets: prometheus.DefBuckets,
	})

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
