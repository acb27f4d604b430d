package bkdnn

import (
	"math"
	"time"
)

// NearestOption configures a single Nearest call.
type NearestOption func(*nearestOptions)

type nearestOptions struct {
	stats *QueryStats
}

// WithStats attaches a QueryStats to the call; the traversal driver records
// into it as it runs. Pass nil (or omit the option) to skip instrumentation.
func WithStats(s *QueryStats) NearestOption {
	return func(o *nearestOptions) { o.stats = s }
}

// Nearest is the package's entry point: given a set of segment indexes that
// together partition a document space, the desired result count k, and a
// query origin, it returns the k documents whose point is closest to origin
// under squared Euclidean distance, sorted ascending by (distance, doc id).
//
// Nearest runs a best-first branch-and-bound traversal: a single frontier of
// unexpanded cells cross-cuts all segments, so the globally nearest
// unexplored region is always expanded next, tightening the pruning radius
// as fast as possible. It terminates when the frontier empties or the next
// cell's lower bound exceeds the current radius.
func Nearest(segments []Segment, k int, origin []float32, opts ...NearestOption) ([]Hit, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(origin) == 0 {
		return nil, ErrNoOrigin
	}
	for _, o := range origin {
		if math.IsNaN(float64(o)) {
			return nil, ErrNaNOrigin
		}
	}
	if len(segments) == 0 {
		return nil, nil
	}
	dim := len(origin)
	for _, seg := range segments {
		if seg.Dim != dim {
			return nil, ErrDimMismatch
		}
		if len(seg.MinPacked) != dim*BytesPerDim || len(seg.MaxPacked) != dim*BytesPerDim {
			return nil, ErrInvariant
		}
	}

	cfg := nearestOptions{}
	for _, o := range opts {
		o(&cfg)
	}
	stats := cfg.stats
	start := time.Now()
	defer func() { stats.recordElapsed(time.Since(start)) }()

	heap := newHitHeap(k)
	visitor := newVisitor(origin, heap, stats)
	frontier := newCellFrontier()

	for i := range segments {
		seg := &segments[i]
		lb := PointToRectSq(seg.MinPacked, seg.MaxPacked, origin)
		frontier.push(&cell{
			readerIndex:  i,
			minPacked:    append([]byte(nil), seg.MinPacked...),
			maxPacked:    append([]byte(nil), seg.MaxPacked...),
			lowerBoundSq: lb,
			cursor:       seg.Cursor,
		})
	}

	for frontier.Len() > 0 {
		c := frontier.pop()
		stats.recordPopped()

		if c.lowerBoundSq > visitor.BottomDistanceSq() {
			stats.recordPruned()
			break
		}

		if !c.cursor.MoveToChild() {
			stats.recordLeaf()
			seg := &segments[c.readerIndex]
			visitor.setSegment(seg.DocBase, seg.LiveDocs)
			if err := c.cursor.VisitLeafValues(visitor); err != nil {
				return nil, err
			}
			continue
		}

		left := c.cursor.Clone()
		leftMin := append([]byte(nil), left.MinPacked()...)
		leftMax := append([]byte(nil), left.MaxPacked()...)
		leftLB := PointToRectSq(leftMin, leftMax, origin)
		if leftLB <= visitor.BottomDistanceSq() {
			frontier.push(&cell{
				readerIndex:  c.readerIndex,
				minPacked:    leftMin,
				maxPacked:    leftMax,
				lowerBoundSq: leftLB,
				cursor:       left,
			})
		}

		if c.cursor.MoveToSibling() {
			rightMin := append([]byte(nil), c.cursor.MinPacked()...)
			rightMax := append([]byte(nil), c.cursor.MaxPacked()...)
			rightLB := PointToRectSq(rightMin, rightMax, origin)
			if rightLB <= visitor.BottomDistanceSq() {
				frontier.push(&cell{
					readerIndex:  c.readerIndex,
					minPacked:    rightMin,
					maxPacked:    rightMax,
					lowerBoundSq: rightLB,
					cursor:       c.cursor,
				})
			}
		}
	}

	return assembleResults(heap), nil
}

// assembleResults drains the hit heap in ascending (distance_sq, doc_id)
// order. The result's length is min(k, live points across all segments).
func assembleResults(heap *hitHeap) []Hit {
	hits := heap.drainAscending()
	if len(hits) == 0 {
		return nil
	}
	return hits
}
