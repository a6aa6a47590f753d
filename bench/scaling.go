// SPDX-License-Identifier: MIT

package bench

import (
	"sort"

	"github.com/samber/lo"
)

// ScalingPoint is one process count on a strong-scaling curve.
type ScalingPoint struct {
	Processes  int
	Speedup    float64
	Efficiency float64
	Ideal      float64 // linear speedup, equal to Processes
}

// Curve is the strong-scaling curve of one matrix size.
type Curve struct {
	MatrixSize int
	Points     []ScalingPoint
}

// StrongScaling groups records by matrix size into curves sorted by size,
// each sorted by process count. When a (size, processes) pair appears more
// than once the last record wins.
func StrongScaling(recs []TimingRecord) []Curve {
	bySize := lo.GroupBy(recs, func(r TimingRecord) int { return r.MatrixSize })
	sizes := lo.Keys(bySize)
	sort.Ints(sizes)

	return lo.Map(sizes, func(n int, _ int) Curve {
		last := lo.SliceToMap(bySize[n], func(r TimingRecord) (int, TimingRecord) { return r.ProcessCount, r })
		procs := lo.Keys(last)
		sort.Ints(procs)

		return Curve{
			MatrixSize: n,
			Points: lo.Map(procs, func(p int, _ int) ScalingPoint {
				r := last[p]

				return ScalingPoint{Processes: p, Speedup: r.Speedup, Efficiency: r.Efficiency, Ideal: float64(p)}
			}),
		}
	})
}

// Best returns the record with the highest speedup, or false when recs is empty.
func Best(recs []TimingRecord) (TimingRecord, bool) {
	if len(recs) == 0 {
		return TimingRecord{}, false
	}

	return lo.MaxBy(recs, func(a, b TimingRecord) bool { return a.Speedup > b.Speedup }), true
}
