// Package partition_test validates the front-loaded row partition.
// Focus:
//  1. Strict sentinels on invalid (n, p).
//  2. Exact tie-break on hand-checked plans.
//  3. Invariants over a grid of (n, p), including p > n.
package partition_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/distmm/partition"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidDimension(t *testing.T) {
	for _, tc := range [][2]int{{0, 1}, {1, 0}, {-3, 2}, {4, -1}} {
		_, err := partition.New(tc[0], tc[1])
		require.ErrorIs(t, err, partition.ErrInvalidDimension, "n=%d p=%d", tc[0], tc[1])
	}
}

func TestNew_ExactPlans(t *testing.T) {
	tests := []struct {
		name    string
		n, p    int
		counts  []int
		offsets []int
	}{
		{"even", 4, 2, []int{2, 2}, []int{0, 2}},
		{"remainder front-loaded", 10, 4, []int{3, 3, 2, 2}, []int{0, 3, 6, 8}},
		{"1001 over 4", 1001, 4, []int{251, 250, 250, 250}, []int{0, 251, 501, 751}},
		{"single", 1, 1, []int{1}, []int{0}},
		{"more ranks than rows", 2, 4, []int{1, 1, 0, 0}, []int{0, 1, 2, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := partition.New(tc.n, tc.p)
			require.NoError(t, err)
			want := &partition.Plan{N: tc.n, P: tc.p, Counts: tc.counts, Offsets: tc.offsets}
			if diff := cmp.Diff(want, plan); diff != "" {
				t.Fatalf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_InvariantsGrid(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for p := 1; p <= 48; p++ {
			plan, err := partition.New(n, p)
			require.NoError(t, err)
			require.NoError(t, plan.Validate(), "n=%d p=%d", n, p)

			sum, lo, hi := 0, n, 0
			for _, c := range plan.Counts {
				sum += c
				lo, hi = min(lo, c), max(hi, c)
				require.GreaterOrEqual(t, c, 0)
			}
			require.Equal(t, n, sum)
			require.LessOrEqual(t, hi-lo, 1)
			if p <= n {
				require.Greater(t, lo, 0, "no empty block when p <= n")
			}
			require.Equal(t, (n+p-1)/p, plan.MaxCount())
		}
	}
}

func TestPlan_BlockAndOwner(t *testing.T) {
	plan, err := partition.New(10, 4)
	require.NoError(t, err)

	r, err := plan.Block(2)
	require.NoError(t, err)
	require.Equal(t, partition.Range{Rank: 2, Offset: 6, Count: 2}, r)
	require.Equal(t, 8, r.End())

	_, err = plan.Block(4)
	require.ErrorIs(t, err, partition.ErrRankOutOfRange)

	owners := make([]int, 10)
	for row := range owners {
		owners[row], err = plan.OwnerOf(row)
		require.NoError(t, err)
	}
	require.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 3, 3}, owners)

	_, err = plan.OwnerOf(10)
	require.ErrorIs(t, err, partition.ErrRowOutOfRange)

	// Empty trailing ranks never own rows.
	small, err := partition.New(2, 4)
	require.NoError(t, err)
	o, err := small.OwnerOf(1)
	require.NoError(t, err)
	require.Equal(t, 1, o)
}

func TestPlan_ElementCounts(t *testing.T) {
	plan, err := partition.New(5, 2)
	require.NoError(t, err)
	require.Equal(t, []int{9, 6}, plan.ElementCounts(3))
	require.Equal(t, []int{0, 9}, plan.Displacements(3))
	require.Len(t, plan.Ranges(), 2)
}

func TestPlan_ValidateRejectsCorruption(t *testing.T) {
	cases := map[string]*partition.Plan{
		"sum":       {N: 4, P: 2, Counts: []int{2, 1}, Offsets: []int{0, 2}},
		"gap":       {N: 4, P: 2, Counts: []int{2, 2}, Offsets: []int{0, 3}},
		"back-load": {N: 3, P: 2, Counts: []int{1, 2}, Offsets: []int{0, 1}},
		"imbalance": {N: 4, P: 2, Counts: []int{3, 1}, Offsets: []int{0, 3}},
		"short":     {N: 4, P: 2, Counts: []int{4}, Offsets: []int{0}},
	}
	for name, plan := range cases {
		require.ErrorIs(t, plan.Validate(), partition.ErrCorruptPlan, name)
	}
	var nilPlan *partition.Plan
	require.ErrorIs(t, nilPlan.Validate(), partition.ErrInvalidDimension)
}
