package bkdnn_test

import (
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/Snider/bkdnn"
	"github.com/Snider/bkdnn/internal/refcursor"
)

func mustSegment(t *testing.T, coords [][]float32, docBase int, liveDocs bkdnn.LiveDocs) bkdnn.Segment {
	t.Helper()
	pts := make([]refcursor.Point, len(coords))
	for i, c := range coords {
		pts[i] = refcursor.Point{Coords: c}
	}
	seg, err := refcursor.NewSegment(pts, 2, docBase, liveDocs)
	if err != nil {
		t.Fatalf("building segment: %v", err)
	}
	return seg
}

// One segment, d=2, origin at (0,0), k=2.
func TestNearest_OneSegmentBasic(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}, {3, 4}, {1, 1}}, 0, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 2, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].DocID != 0 || hits[0].DistanceSq != 0 {
		t.Fatalf("expected doc 0 at distance 0 first, got %+v", hits[0])
	}
	if hits[1].DocID != 2 {
		t.Fatalf("expected doc 2 second, got %+v", hits[1])
	}
	wantDistSq := 2.0
	if math.Abs(hits[1].DistanceSq-wantDistSq) > 1e-4 {
		t.Fatalf("expected distance_sq ~= %v, got %v", wantDistSq, hits[1].DistanceSq)
	}
}

// Two segments, same distance, tie broken by smaller global doc id.
func TestNearest_TwoSegmentsTieBreak(t *testing.T) {
	segA := mustSegment(t, [][]float32{{5, 0}}, 0, nil)
	segB := mustSegment(t, [][]float32{{5, 0}}, 10, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{segA, segB}, 2, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].DocID != 0 || hits[1].DocID != 10 {
		t.Fatalf("expected doc ids [0,10] ascending, got [%d,%d]", hits[0].DocID, hits[1].DocID)
	}
}

// Live docs filter out deleted documents.
func TestNearest_LiveDocsFiltersDeleted(t *testing.T) {
	coords := make([][]float32, 10)
	for i := range coords {
		coords[i] = []float32{float32(i), 0}
	}
	live := bitset.New(10)
	live.FlipRange(0, 10)
	live.Clear(0)
	live.Clear(1)
	live.Clear(2)
	seg := mustSegment(t, coords, 0, bkdnn.NewFixedLiveDocs(live))

	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 3, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	wantDocs := []int{3, 4, 5}
	for i, want := range wantDocs {
		if hits[i].DocID != want {
			t.Fatalf("position %d: expected doc %d, got %d", i, want, hits[i].DocID)
		}
	}
}

// Near-duplicate points: an exact match wins at distance 0.
func TestNearest_NearDuplicatePoints(t *testing.T) {
	seg := mustSegment(t, [][]float32{{1, 2, 3}, {1, 2, 3.0001}}, 0, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 1, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != 0 || hits[0].DistanceSq != 0 {
		t.Fatalf("expected [{doc:0 dist:0}], got %+v", hits)
	}
}

// k = 0 is an argument error.
func TestNearest_InvalidKIsError(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}}, 0, nil)
	_, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 0, []float32{0, 0})
	if err != bkdnn.ErrInvalidK {
		t.Fatalf("expected ErrInvalidK, got %v", err)
	}
}

func TestNearest_NilOriginIsError(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}}, 0, nil)
	_, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 1, nil)
	if err != bkdnn.ErrNoOrigin {
		t.Fatalf("expected ErrNoOrigin, got %v", err)
	}
}

func TestNearest_NaNOriginIsError(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}}, 0, nil)
	_, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 1, []float32{float32(math.NaN()), 0})
	if err != bkdnn.ErrNaNOrigin {
		t.Fatalf("expected ErrNaNOrigin, got %v", err)
	}
}

func TestNearest_DimMismatchIsError(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}}, 0, nil)
	_, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 1, []float32{0, 0, 0})
	if err != bkdnn.ErrDimMismatch {
		t.Fatalf("expected ErrDimMismatch, got %v", err)
	}
}

func TestNearest_MalformedBoundsIsInvariantError(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}}, 0, nil)
	seg.MaxPacked = seg.MaxPacked[:len(seg.MaxPacked)-1]
	_, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 1, []float32{0, 0})
	if err != bkdnn.ErrInvariant {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
}

func TestNearest_EmptySegmentsReturnsEmptyNoError(t *testing.T) {
	hits, err := bkdnn.Nearest(nil, 5, []float32{0, 0})
	if err != nil {
		t.Fatalf("expected no error for zero segments, got %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty result, got %+v", hits)
	}
}

func TestNearest_KLargerThanLivePoints(t *testing.T) {
	seg := mustSegment(t, [][]float32{{0, 0}, {1, 1}}, 0, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 10, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected all 2 live points returned, got %d", len(hits))
	}
}

func TestNearest_AllDeletedReturnsEmpty(t *testing.T) {
	coords := [][]float32{{0, 0}, {1, 1}, {2, 2}}
	live := bitset.New(3) // all bits 0 => all deleted
	seg := mustSegment(t, coords, 0, bkdnn.NewFixedLiveDocs(live))
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 2, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %+v", hits)
	}
}

func TestNearest_IdenticalCoordinatesChoosesSmallestDocIDs(t *testing.T) {
	coords := make([][]float32, 20)
	for i := range coords {
		coords[i] = []float32{1, 1}
	}
	seg := mustSegment(t, coords, 0, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 5, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) != 5 {
		t.Fatalf("expected 5 hits, got %d", len(hits))
	}
	for i, want := range []int{0, 1, 2, 3, 4} {
		if hits[i].DocID != want {
			t.Fatalf("position %d: expected doc %d, got %d", i, want, hits[i].DocID)
		}
	}
}

func TestNearest_OriginAtStoredPoint(t *testing.T) {
	seg := mustSegment(t, [][]float32{{2, 3}, {5, 5}, {0, 0}}, 0, nil)
	hits, err := bkdnn.Nearest([]bkdnn.Segment{seg}, 3, []float32{2, 3})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(hits) == 0 || hits[0].DocID != 0 || hits[0].DistanceSq != 0 {
		t.Fatalf("expected doc 0 at distance 0 first, got %+v", hits)
	}
}

func TestNearest_IsIdempotent(t *testing.T) {
	seg1 := mustSegment(t, [][]float32{{0, 0}, {3, 4}, {1, 1}, {9, 9}}, 0, nil)
	first, err := bkdnn.Nearest([]bkdnn.Segment{seg1}, 3, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	seg2 := mustSegment(t, [][]float32{{0, 0}, {3, 4}, {1, 1}, {9, 9}}, 0, nil)
	second, err := bkdnn.Nearest([]bkdnn.Segment{seg2}, 3, []float32{0, 0})
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("position %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
