package bkdnn

import (
	"sync/atomic"
	"time"
)

// QueryStats tracks per-traversal counters for one Nearest call: cells
// popped from the frontier, cells pruned outright, cells that turned out to
// be leaves, points considered by the visitor, and points rejected by the
// incremental distance short-circuit.
//
// QueryStats is optional: Nearest works the same with a nil *QueryStats
// passed through WithStats; passing one lets a caller confirm pruning is
// working by comparing PointsConsidered against the segment's point count,
// or feed a Prometheus exporter (see internal/metrics).
type QueryStats struct {
	cellsPopped          atomic.Int64
	cellsPruned          atomic.Int64
	leavesVisited        atomic.Int64
	pointsConsidered     atomic.Int64
	pointsShortCircuited atomic.Int64
	elapsed              atomic.Int64 // nanoseconds, set once at the end
}

// NewQueryStats allocates a fresh, zeroed counter set.
func NewQueryStats() *QueryStats { return &QueryStats{} }

// QueryStatsSnapshot is an immutable point-in-time view, safe to log or
// serialize after the query that produced it has returned.
type QueryStatsSnapshot struct {
	CellsPopped          int64         `json:"cellsPopped"`
	CellsPruned          int64         `json:"cellsPruned"`
	LeavesVisited        int64         `json:"leavesVisited"`
	PointsConsidered     int64         `json:"pointsConsidered"`
	PointsShortCircuited int64         `json:"pointsShortCircuited"`
	Elapsed              time.Duration `json:"elapsed"`
}

// Snapshot returns a copy of the current counters. Safe to call while the
// query that owns these stats is still running, though the result may then
// be mid-traversal.
func (s *QueryStats) Snapshot() QueryStatsSnapshot {
	if s == nil {
		return QueryStatsSnapshot{}
	}
	return QueryStatsSnapshot{
		CellsPopped:          s.cellsPopped.Load(),
		CellsPruned:          s.cellsPruned.Load(),
		LeavesVisited:        s.leavesVisited.Load(),
		PointsConsidered:     s.pointsConsidered.Load(),
		PointsShortCircuited: s.pointsShortCircuited.Load(),
		Elapsed:              time.Duration(s.elapsed.Load()),
	}
}

func (s *QueryStats) recordPopped() {
	if s != nil {
		s.cellsPopped.Add(1)
	}
}

func (s *QueryStats) recordPruned() {
	if s != nil {
		s.cellsPruned.Add(1)
	}
}

func (s *QueryStats) recordLeaf() {
	if s != nil {
		s.leavesVisited.Add(1)
	}
}

func (s *QueryStats) recordElapsed(d time.Duration) {
	if s != nil {
		s.elapsed.Store(int64(d))
	}
}
