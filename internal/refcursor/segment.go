package refcursor

import "github.com/Snider/bkdnn"

// NewSegment builds a Tree over points and wraps it into a bkdnn.Segment,
// ready to pass to bkdnn.Nearest. docBase offsets the segment's per-segment
// document ids; liveDocs may be nil.
func NewSegment(points []Point, leafSize, docBase int, liveDocs bkdnn.LiveDocs) (bkdnn.Segment, error) {
	t, err := Build(points, leafSize)
	if err != nil {
		return bkdnn.Segment{}, err
	}
	cursor, min, max := t.RootCursor()
	return bkdnn.Segment{
		Cursor:    cursor,
		MinPacked: min,
		MaxPacked: max,
		Dim:       t.Dim(),
		DocBase:   docBase,
		LiveDocs:  liveDocs,
	}, nil
}
