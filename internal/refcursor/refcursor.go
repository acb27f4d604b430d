// Package refcursor is a reference, in-memory implementation of the
// bkdnn.Cursor protocol over a balanced, median-split k-d tree. bkdnn's
// traversal deliberately does not build or own a tree itself — something
// has to, for it to be testable and demonstrable end to end.
//
// The split strategy — pick the axis with the largest per-axis standard
// deviation, then median-partition on it — builds a balanced tree over
// packed, block-leaved, multi-segment points.
package refcursor

import (
	"errors"
	"math"
	"sort"

	"github.com/Snider/bkdnn"
)

var (
	// ErrEmptyPoints indicates Build was called with no points.
	ErrEmptyPoints = errors.New("refcursor: no points provided")
	// ErrZeroDim indicates a point had zero coordinates.
	ErrZeroDim = errors.New("refcursor: points must have at least one dimension")
	// ErrDimMismatch indicates inconsistent dimensionality among points.
	ErrDimMismatch = errors.New("refcursor: inconsistent dimensionality in points")
)

// Point is one input point: Coords has the segment's dimensionality.
// Its position in the slice passed to Build becomes its per-segment
// document id. ExternalID is an optional caller-supplied identifier
// (e.g. a UUID) carried alongside the point purely for display/lookup;
// Build and the Cursor it produces never interpret it.
type Point struct {
	Coords     []float32
	ExternalID string
}

// Tree is a balanced, median-split k-d tree over packed points, held
// entirely in memory.
type Tree struct {
	dim      int
	points   []Point
	packed   [][]byte
	root     *node
	leafSize int
}

type node struct {
	min, max  []byte
	left      *node
	right     *node
	pointIdxs []int // non-nil only for leaves
}

// DefaultLeafSize mirrors a typical block k-d tree's leaf block size.
const DefaultLeafSize = 16

// Build constructs a balanced k-d tree over points. leafSize <= 0 uses
// DefaultLeafSize. Points must all share the same non-zero dimensionality.
func Build(points []Point, leafSize int) (*Tree, error) {
	if len(points) == 0 {
		return nil, ErrEmptyPoints
	}
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}
	dim := len(points[0].Coords)
	if dim == 0 {
		return nil, ErrZeroDim
	}
	packed := make([][]byte, len(points))
	for i, p := range points {
		if len(p.Coords) != dim {
			return nil, ErrDimMismatch
		}
		buf := make([]byte, dim*bkdnn.BytesPerDim)
		for d := 0; d < dim; d++ {
			bkdnn.EncodeDim(buf[d*bkdnn.BytesPerDim:], p.Coords[d])
		}
		packed[i] = buf
	}

	t := &Tree{dim: dim, points: points, packed: packed, leafSize: leafSize}
	idxs := make([]int, len(points))
	for i := range idxs {
		idxs[i] = i
	}
	t.root = t.build(idxs)
	return t, nil
}

// Dim returns the tree's dimensionality.
func (t *Tree) Dim() int { return t.dim }

// Len returns the number of points in the tree.
func (t *Tree) Len() int { return len(t.points) }

// ExternalID returns the caller-supplied identifier for a per-segment
// document id, or "" if none was set when the point was built.
func (t *Tree) ExternalID(segmentDocID int) string {
	return t.points[segmentDocID].ExternalID
}

// RootCursor returns a Cursor rooted at the tree's root, along with the
// root's bounding box, ready to populate a bkdnn.Segment.
func (t *Tree) RootCursor() (cursor bkdnn.Cursor, minPacked, maxPacked []byte) {
	return &cur{tree: t, node: t.root}, t.root.min, t.root.max
}

func (t *Tree) build(idxs []int) *node {
	min, max := t.boundsOf(idxs)
	if len(idxs) <= t.leafSize {
		return &node{min: min, max: max, pointIdxs: idxs}
	}
	axis := t.chooseAxis(idxs)
	sort.Slice(idxs, func(i, j int) bool {
		return t.points[idxs[i]].Coords[axis] < t.points[idxs[j]].Coords[axis]
	})
	mid := len(idxs) / 2
	left := t.build(append([]int(nil), idxs[:mid]...))
	right := t.build(append([]int(nil), idxs[mid:]...))
	return &node{min: min, max: max, left: left, right: right}
}

// chooseAxis picks the axis with the largest standard deviation among idxs,
// a standard heuristic for a balanced split axis.
func (t *Tree) chooseAxis(idxs []int) int {
	means := make([]float64, t.dim)
	for _, i := range idxs {
		for d := 0; d < t.dim; d++ {
			means[d] += float64(t.points[i].Coords[d])
		}
	}
	n := float64(len(idxs))
	for d := range means {
		means[d] /= n
	}
	vars := make([]float64, t.dim)
	for _, i := range idxs {
		for d := 0; d < t.dim; d++ {
			delta := float64(t.points[i].Coords[d]) - means[d]
			vars[d] += delta * delta
		}
	}
	axis, best := 0, -1.0
	for d, v := range vars {
		if v > best {
			best, axis = v, d
		}
	}
	return axis
}

func (t *Tree) boundsOf(idxs []int) (min, max []byte) {
	mn := make([]float32, t.dim)
	mx := make([]float32, t.dim)
	for d := 0; d < t.dim; d++ {
		mn[d] = float32(math.Inf(1))
		mx[d] = float32(math.Inf(-1))
	}
	for _, i := range idxs {
		c := t.points[i].Coords
		for d := 0; d < t.dim; d++ {
			if c[d] < mn[d] {
				mn[d] = c[d]
			}
			if c[d] > mx[d] {
				mx[d] = c[d]
			}
		}
	}
	min = make([]byte, t.dim*bkdnn.BytesPerDim)
	max = make([]byte, t.dim*bkdnn.BytesPerDim)
	for d := 0; d < t.dim; d++ {
		bkdnn.EncodeDim(min[d*bkdnn.BytesPerDim:], mn[d])
		bkdnn.EncodeDim(max[d*bkdnn.BytesPerDim:], mx[d])
	}
	return min, max
}

// cur implements bkdnn.Cursor over a *Tree, walking the binary node
// structure depth-first: MoveToChild descends to the left child and
// remembers the right child as the pending sibling; MoveToSibling consumes
// it. Clone is a cheap value copy since nodes are never mutated in place.
type cur struct {
	tree    *Tree
	node    *node
	pending *node
}

func (c *cur) MinPacked() []byte { return c.node.min }
func (c *cur) MaxPacked() []byte { return c.node.max }

func (c *cur) MoveToChild() bool {
	if c.node.left == nil {
		return false
	}
	c.pending = c.node.right
	c.node = c.node.left
	return true
}

func (c *cur) MoveToSibling() bool {
	if c.pending == nil {
		return false
	}
	c.node = c.pending
	c.pending = nil
	return true
}

func (c *cur) Clone() bkdnn.Cursor {
	cp := *c
	return &cp
}

func (c *cur) VisitLeafValues(v *bkdnn.Visitor) error {
	if len(c.node.pointIdxs) == 0 {
		return nil
	}
	if v.PruneCell(c.node.min, c.node.max) == bkdnn.CellOutside {
		return nil
	}
	for _, idx := range c.node.pointIdxs {
		v.VisitPoint(idx, c.tree.packed[idx])
	}
	return nil
}
