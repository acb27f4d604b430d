// Package metrics exports bkdnn.QueryStats as Prometheus gauges. It is
// an adapter only: bkdnn itself stays free of any metrics dependency, but a
// production caller wants its traversal counters visible the way a search
// service normally exposes query-path instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Snider/bkdnn"
)

// Collector publishes a rolling view of the last Nearest call's QueryStats
// as Prometheus gauges.
type Collector struct {
	cellsPopped          prometheus.Gauge
	cellsPruned          prometheus.Gauge
	leavesVisited        prometheus.Gauge
	pointsConsidered     prometheus.Gauge
	pointsShortCircuited prometheus.Gauge
	elapsedSeconds       prometheus.Gauge
}

// NewCollector builds a Collector and registers each of its gauges with reg.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	mk := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bkdnn",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(g)
		return g
	}
	return &Collector{
		cellsPopped:          mk("cells_popped", "Cells popped from the frontier in the last query."),
		cellsPruned:          mk("cells_pruned", "Cells discarded by the frontier termination check in the last query."),
		leavesVisited:        mk("leaves_visited", "Leaf cells handed to the visitor in the last query."),
		pointsConsidered:     mk("points_considered", "Points the visitor evaluated in the last query."),
		pointsShortCircuited: mk("points_short_circuited", "Points abandoned mid-distance by the incremental bound in the last query."),
		elapsedSeconds:       mk("elapsed_seconds", "Wall-clock duration of the last query."),
	}
}

// Observe updates the collector's gauges from a snapshot.
func (c *Collector) Observe(s bkdnn.QueryStatsSnapshot) {
	c.cellsPopped.Set(float64(s.CellsPopped))
	c.cellsPruned.Set(float64(s.CellsPruned))
	c.leavesVisited.Set(float64(s.LeavesVisited))
	c.pointsConsidered.Set(float64(s.PointsConsidered))
	c.pointsShortCircuited.Set(float64(s.PointsShortCircuited))
	c.elapsedSeconds.Set(s.Elapsed.Seconds())
}
