// app/metrics.go
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_claims_total",
		Help: "Ledger rows opened by claims.",
	})
	DoubleAllocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_double_allocations_total",
		Help: "Claims rejected because the unit already had an open rental.",
	})
	ReturnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_returns_total",
		Help: "Ledger rows closed by returns.",
	})
	PurgesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_purges_total",
		Help: "Open ledger rows removed by administrative purge.",
	})
)

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
