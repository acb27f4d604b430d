package bkdnn

import "math"

// Visitor is invoked by a segment's Cursor for each point of a leaf it
// enumerates. It owns no points; it holds a non-owning reference to the
// query's hit heap and a snapshot of the current segment's doc base and
// live-docs bitmap, refreshed by the traversal driver before each leaf.
type Visitor struct {
	origin []float32
	dim    int
	heap   *hitHeap

	curDocBase  int
	curLiveDocs LiveDocs

	bottomDistanceSq float64
	bottomDocID      int

	stats *QueryStats
}

func newVisitor(origin []float32, heap *hitHeap, stats *QueryStats) *Visitor {
	return &Visitor{
		origin:           origin,
		dim:              len(origin),
		heap:             heap,
		bottomDistanceSq: math.Inf(1),
		bottomDocID:      math.MaxInt,
		stats:            stats,
	}
}

// setSegment points the visitor at a new segment's doc base and live-docs
// bitmap, ahead of a leaf visit. Called by the traversal driver, never by
// a Cursor implementation.
func (v *Visitor) setSegment(docBase int, liveDocs LiveDocs) {
	v.curDocBase = docBase
	v.curLiveDocs = liveDocs
}

// BottomDistanceSq is the current pruning radius: +Inf until the hit heap
// holds k hits, after which it is the worst accepted hit's squared
// distance. The traversal driver reads this at cell admission and at
// frontier termination.
func (v *Visitor) BottomDistanceSq() float64 { return v.bottomDistanceSq }

// PruneCell is the cell-level pruning callback: given a node's current
// bounding box, reports whether the box can still be skipped. It never
// reports a cell as fully contained — every point under a crossing cell
// must still be individually evaluated.
func (v *Visitor) PruneCell(minPacked, maxPacked []byte) CellRelation {
	if v.heap.Len() < v.heap.capacity {
		return CellCrosses
	}
	lb := PointToRectSq(minPacked, maxPacked, v.origin)
	if lb > v.bottomDistanceSq {
		return CellOutside
	}
	return CellCrosses
}

// VisitPoint is the per-point callback: segmentDocID is the point's
// per-segment document id, packed is its packed coordinates.
func (v *Visitor) VisitPoint(segmentDocID int, packed []byte) {
	if v.curLiveDocs != nil && !v.curLiveDocs.Test(segmentDocID) {
		return
	}
	if v.stats != nil {
		v.stats.pointsConsidered.Add(1)
	}

	var distSq float64
	for i := 0; i < v.dim; i++ {
		oi := float64(v.origin[i])
		pi := float64(DecodeDim(packed, i))
		d := oi - pi
		distSq += d * d
		if distSq > v.bottomDistanceSq {
			if v.stats != nil {
				v.stats.pointsShortCircuited.Add(1)
			}
			return
		}
	}

	fullDocID := v.curDocBase + segmentDocID
	if v.heap.Full() && distSq == v.bottomDistanceSq && fullDocID > v.bottomDocID {
		return
	}

	if v.heap.offer(fullDocID, distSq) {
		v.refreshBottom()
	}
}

func (v *Visitor) refreshBottom() {
	if !v.heap.Full() {
		return
	}
	worst := v.heap.peekWorst()
	v.bottomDistanceSq = worst.DistanceSq
	v.bottomDocID = worst.DocID
}
