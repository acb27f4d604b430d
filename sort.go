package bkdnn

import "sort"

// SortBy sorts data using a custom less function, generalizing the
// sort.Slice call result assemblers and tests in this package lean on.
func SortBy[T any](data []T, less func(i, j int) bool) {
	sort.Slice(data, less)
}

// sortHitsAscending orders hits by (DistanceSq ASC, DocID ASC), the order
// Nearest's result assembler and the hit heap's drain both require.
func sortHitsAscending(hits []Hit) {
	SortBy(hits, func(i, j int) bool {
		if hits[i].DistanceSq != hits[j].DistanceSq {
			return hits[i].DistanceSq < hits[j].DistanceSq
		}
		return hits[i].DocID < hits[j].DocID
	})
}

// IsSortedFloat64s checks if a slice of float64 values is sorted ascending;
// used in tests that assert result monotonicity.
func IsSortedFloat64s(data []float64) bool {
	return sort.Float64sAreSorted(data)
}
