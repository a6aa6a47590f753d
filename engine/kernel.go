// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"runtime"

	"github.com/katalvlaran/distmm/matrix"
	"github.com/katalvlaran/distmm/partition"
	"golang.org/x/sync/errgroup"
)

// Kernel computes dst = a·b for a row-major rows×k slice a and a k×m slice b.
// dst has rows*m zeroed elements on entry.
type Kernel interface {
	Name() string
	MulRows(dst, a []float64, rows, k int, b []float64, m int) error
}

// NaiveKernel is the single-threaded pinned-order kernel (matrix.MulRows).
type NaiveKernel struct{}

// Name implements Kernel.
func (NaiveKernel) Name() string { return "naive" }

// MulRows implements Kernel.
func (NaiveKernel) MulRows(dst, a []float64, rows, k int, b []float64, m int) error {
	matrix.MulRows(dst, a, rows, k, b, m)

	return nil
}

// ParallelKernel splits the rows of a across Workers goroutines (default
// GOMAXPROCS). Each row keeps the pinned accumulation order, so the output is
// bit-identical to NaiveKernel.
type ParallelKernel struct {
	Workers int
}

// Name implements Kernel.
func (ParallelKernel) Name() string { return "parallel" }

// MulRows implements Kernel. Rows are split with the same front-loaded
// remainder plan used across participants.
func (p ParallelKernel) MulRows(dst, a []float64, rows, k int, b []float64, m int) error {
	if rows == 0 {
		return nil
	}
	w := p.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	w = min(w, rows)
	if w == 1 {
		matrix.MulRows(dst, a, rows, k, b, m)

		return nil
	}

	plan, err := partition.New(rows, w)
	if err != nil {
		return fmt.Errorf("engine: ParallelKernel: %w", err)
	}
	var g errgroup.Group
	for _, r := range plan.Ranges() {
		r := r
		g.Go(func() error {
			matrix.MulRows(dst[r.Offset*m:r.End()*m], a[r.Offset*k:r.End()*k], r.Count, k, b, m)

			return nil
		})
	}

	return g.Wait()
}

// GonumKernel delegates to gonum's BLAS-backed product. Accumulation order is
// implementation-defined; compare its results with a tolerance.
type GonumKernel struct{}

// Name implements Kernel.
func (GonumKernel) Name() string { return "gonum" }

// MulRows implements Kernel.
func (GonumKernel) MulRows(dst, a []float64, rows, k int, b []float64, m int) error {
	matrix.MulGonumRows(dst, a, rows, k, b, m)

	return nil
}

// KernelNames lists the names accepted by KernelByName.
var KernelNames = []string{"naive", "parallel", "gonum"}

// KernelByName resolves a configured kernel name. workers applies to
// "parallel" only (0 = GOMAXPROCS).
func KernelByName(name string, workers int) (Kernel, error) {
	switch name {
	case "", "naive":
		return NaiveKernel{}, nil
	case "parallel":
		return ParallelKernel{Workers: workers}, nil
	case "gonum":
		return GonumKernel{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownKernel, name, KernelNames)
	}
}
