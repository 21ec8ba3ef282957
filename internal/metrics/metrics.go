package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkpay_orders_created_total",
			Help: "Total number of orders created by the splitter",
		},
		[]string{"service_type"},
	)

	ClaimAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkpay_order_claims_total",
			Help: "Total number of claim attempts by result",
		},
		[]string{"result"}, // won / conflict
	)

	CallbacksApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkpay_callbacks_total",
			Help: "Total number of worker callbacks applied by transaction status",
		},
		[]string{"status"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulkpay_upstream_requests_total",
			Help: "Total number of source-of-truth lookups by result",
		},
		[]string{"service_type", "result"}, // ok / error / timeout
	)
)
