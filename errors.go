package bkdnn

import "errors"

var (
	// ErrInvalidK indicates topN was less than 1.
	ErrInvalidK = errors.New("bkdnn: k must be >= 1")
	// ErrNoOrigin indicates origin was nil or empty.
	ErrNoOrigin = errors.New("bkdnn: origin must have at least one dimension")
	// ErrDimMismatch indicates origin's dimensionality didn't match the
	// segments', or segments disagreed on dimensionality with each other.
	ErrDimMismatch = errors.New("bkdnn: dimension mismatch between origin and segments")
	// ErrNaNOrigin indicates the origin contained a NaN coordinate.
	ErrNaNOrigin = errors.New("bkdnn: origin contains NaN")
	// ErrInvariant indicates a segment's root MinPacked or MaxPacked is not
	// exactly Dim*BytesPerDim bytes long. This is treated as a programmer
	// error in the index, not a recoverable query failure. Nearest does not
	// detect leaves with no points or boxes with min > max.
	ErrInvariant = errors.New("bkdnn: cursor invariant violation")
)
