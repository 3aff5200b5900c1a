package features

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ImportanceAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_importance_alerts_total",
			Help: "Count of feature importance drift alerts by feature.",
		},
		[]string{"feature"},
	)
)

func init() {
	prometheus.MustRegister(ImportanceAlertsTotal)
}
