package bkdnn

// Segment is one per-segment k-d tree index participating in a query.
// Nearest treats all of it as read-only for the duration of the query.
type Segment struct {
	// Cursor is rooted at the segment's k-d tree root.
	Cursor Cursor
	// MinPacked and MaxPacked are the root's bounding box corners.
	MinPacked, MaxPacked []byte
	// Dim is this segment's dimensionality; all segments in one query must
	// agree.
	Dim int
	// DocBase offsets this segment's per-segment document ids into the
	// collection-wide id space.
	DocBase int
	// LiveDocs marks deleted documents, nil if none are deleted in this
	// segment.
	LiveDocs LiveDocs
}
