package bkdnn

import "github.com/bits-and-blooms/bitset"

// FixedLiveDocs adapts a github.com/bits-and-blooms/bitset.BitSet to the
// LiveDocs contract: a set bit means the document is live, an unset bit
// means it was deleted. Nearest only ever calls Test on it; building and
// maintaining the bitmap as documents are deleted is the caller's job.
type FixedLiveDocs struct {
	bits *bitset.BitSet
}

// NewFixedLiveDocs wraps an existing bitset. A nil bitset is treated as
// "all documents live" by Test.
func NewFixedLiveDocs(bits *bitset.BitSet) *FixedLiveDocs {
	return &FixedLiveDocs{bits: bits}
}

// Test reports whether segmentDocID is live.
func (l *FixedLiveDocs) Test(segmentDocID int) bool {
	if l == nil || l.bits == nil {
		return true
	}
	return l.bits.Test(uint(segmentDocID))
}
