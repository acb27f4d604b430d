package bkdnn

import "math"

// Hit is a single accepted candidate: a global document id and its squared
// distance to the query origin.
type Hit struct {
	DocID      int
	DistanceSq float64
}

// Distance returns sqrt(DistanceSq) as a float32, matching the packed
// single-precision coordinates the distance was computed from.
func (h Hit) Distance() float32 {
	return float32(math.Sqrt(h.DistanceSq))
}

// hitHeap is a bounded max-heap of Hit, sized to at most capacity elements.
// The root is always the current "worst" accepted hit: largest DistanceSq,
// and among ties, the largest DocID (so a future candidate with a smaller
// DocID at the same distance can evict it — see offer and the package-level
// discussion of tie-break direction in the design notes).
type hitHeap struct {
	capacity int
	items    []Hit
}

func newHitHeap(capacity int) *hitHeap {
	return &hitHeap{capacity: capacity, items: make([]Hit, 0, capacity)}
}

func (h *hitHeap) Len() int { return len(h.items) }

func (h *hitHeap) Full() bool { return len(h.items) >= h.capacity }

// peekWorst returns the current root (worst accepted hit). Undefined if the
// heap is empty.
func (h *hitHeap) peekWorst() Hit { return h.items[0] }

// worse reports whether a is strictly worse than b under the heap's
// ordering: larger distance first, then larger doc id. It returns false for
// equal hits, which do not occur in practice since docIDs are unique.
func worse(a, b Hit) bool {
	if a.DistanceSq != b.DistanceSq {
		return a.DistanceSq > b.DistanceSq
	}
	return a.DocID > b.DocID
}

// offer proposes a new hit. If the heap isn't full, it is inserted
// unconditionally. Otherwise it replaces the current worst iff it strictly
// precedes the worst under (distance ASC, doc id ASC) — equivalently iff
// distSq < worst.DistanceSq, or distSq == worst.DistanceSq and docID <
// worst.DocID. Returns true if the heap's root changed (or a new element was
// inserted), meaning the caller should refresh its cached pruning radius.
func (h *hitHeap) offer(docID int, distSq float64) bool {
	cand := Hit{DocID: docID, DistanceSq: distSq}
	if len(h.items) < h.capacity {
		h.items = append(h.items, cand)
		h.up(len(h.items) - 1)
		return true
	}
	if !worse(h.items[0], cand) {
		return false
	}
	h.items[0] = cand
	h.down(0)
	return true
}

func (h *hitHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(h.items[i], h.items[parent]) {
			break
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *hitHeap) down(i int) {
	n := len(h.items)
	for {
		l, r := 2*i+1, 2*i+2
		worst := i
		if l < n && worse(h.items[l], h.items[worst]) {
			worst = l
		}
		if r < n && worse(h.items[r], h.items[worst]) {
			worst = r
		}
		if worst == i {
			return
		}
		h.items[i], h.items[worst] = h.items[worst], h.items[i]
		i = worst
	}
}

// drainAscending destructively produces all hits in ascending
// (DistanceSq, DocID) order.
func (h *hitHeap) drainAscending() []Hit {
	out := make([]Hit, len(h.items))
	copy(out, h.items)
	sortHitsAscending(out)
	h.items = h.items[:0]
	return out
}
