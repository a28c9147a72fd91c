package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var engineOps = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zimmet_engine_operations_total",
		Help: "Engine operations by name and outcome.",
	},
	[]string{"op", "outcome"},
)

func observeOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	engineOps.WithLabelValues(op, outcome).Inc()
}
