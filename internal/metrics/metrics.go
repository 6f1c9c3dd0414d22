package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CreditCardsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_credit_cards_created_total",
			Help: "Total number of credit cards created",
		},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_operations_total",
			Help: "Total number of credit card operations recorded",
		},
		[]string{"type"},
	)

	OperationValueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_operation_value_total",
			Help: "Sum of recorded operation values",
		},
		[]string{"type"},
	)

	InvoicesGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_invoices_generated_total",
			Help: "Total number of invoices generated",
		},
	)

	InvoicesPaidTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardledger_invoices_paid_total",
			Help: "Total number of invoices paid",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardledger_notifications_total",
			Help: "Total number of invoice notifications by outcome",
		},
		[]string{"status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardledger_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCreditCardCreated() {
	CreditCardsCreatedTotal.Inc()
}

func RecordOperation(opType string, value float64) {
	OperationsTotal.WithLabelValues(opType).Inc()
	OperationValueTotal.WithLabelValues(opType).Add(value)
}

func RecordInvoiceGenerated() {
	InvoicesGeneratedTotal.Inc()
}

func RecordInvoicePaid() {
	InvoicesPaidTotal.Inc()
}

func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}

func SetNotificationQueueLength(n int64) {
	NotificationQueueLength.Set(float64(n))
}
