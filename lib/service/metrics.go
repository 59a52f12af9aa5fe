package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_operations_total",
		Help: "Registry operations by name and result.",
	}, []string{"operation", "result"})

	tokensMintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_tokens_minted_total",
		Help: "Invoices tokenized.",
	})

	transferredFaceValueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registry_transferred_face_value_total",
		Help: "Sum of face values moved by token transfers.",
	})
)

func observeOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = ErrorKind(err)
		if result == "" {
			result = "error"
		}
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
