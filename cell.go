package bkdnn

// cell is one unexpanded subtree of one segment's k-d tree, queued on the
// frontier by its lower bound to the query origin. minPacked and maxPacked
// are owned, independent copies taken at enqueue time, because the cursor's
// own bounds mutate as it navigates.
type cell struct {
	readerIndex  int
	minPacked    []byte
	maxPacked    []byte
	lowerBoundSq float64
	cursor       Cursor
}

// cellFrontier is a manual min-heap of cells ordered by lowerBoundSq
// ascending, hand-rolled as a plain array rather than built on
// container/heap.
type cellFrontier struct {
	items []*cell
}

func newCellFrontier() *cellFrontier {
	return &cellFrontier{}
}

func (f *cellFrontier) Len() int { return len(f.items) }

func (f *cellFrontier) push(c *cell) {
	f.items = append(f.items, c)
	f.up(len(f.items) - 1)
}

func (f *cellFrontier) pop() *cell {
	n := len(f.items) - 1
	f.items[0], f.items[n] = f.items[n], f.items[0]
	c := f.items[n]
	f.items = f.items[:n]
	f.down(0)
	return c
}

func (f *cellFrontier) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if f.items[parent].lowerBoundSq <= f.items[i].lowerBoundSq {
			break
		}
		f.items[parent], f.items[i] = f.items[i], f.items[parent]
		i = parent
	}
}

func (f *cellFrontier) down(i int) {
	n := len(f.items)
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && f.items[l].lowerBoundSq < f.items[smallest].lowerBoundSq {
			smallest = l
		}
		if r < n && f.items[r].lowerBoundSq < f.items[smallest].lowerBoundSq {
			smallest = r
		}
		if smallest == i {
			return
		}
		f.items[i], f.items[smallest] = f.items[smallest], f.items[i]
		i = smallest
	}
}
