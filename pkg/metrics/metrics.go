package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negocio expuestos en /metrics. Se registran en el registry
// por defecto de Prometheus vía promauto.
var (
	// MovementsTotal cuenta movimientos de inventario registrados, por tipo.
	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ensambles",
		Name:      "stock_movements_total",
		Help:      "Movimientos de inventario registrados, por tipo.",
	}, []string{"type"})

	// BuildsTotal cuenta ensambles construidos con éxito.
	BuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ensambles",
		Name:      "builds_total",
		Help:      "Construcciones de ensambles completadas.",
	})

	// BuildFailuresTotal cuenta construcciones rechazadas o fallidas.
	BuildFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ensambles",
		Name:      "build_failures_total",
		Help:      "Construcciones de ensambles rechazadas o fallidas.",
	})

	// UnbuildsTotal cuenta desensambles completados.
	UnbuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ensambles",
		Name:      "unbuilds_total",
		Help:      "Desensambles completados.",
	})

	// UnbuildFailuresTotal cuenta desensambles rechazados o fallidos.
	UnbuildFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ensambles",
		Name:      "unbuild_failures_total",
		Help:      "Desensambles rechazados o fallidos.",
	})
)
