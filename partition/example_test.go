package partition_test

import (
	"fmt"

	"github.com/katalvlaran/distmm/partition"
)

// ExampleNew shows the front-loaded remainder rule.
func ExampleNew() {
	plan, _ := partition.New(10, 4)
	for _, r := range plan.Ranges() {
		fmt.Printf("rank %d: rows [%d,%d)\n", r.Rank, r.Offset, r.End())
	}

	// Output:
	// rank 0: rows [0,3)
	// rank 1: rows [3,6)
	// rank 2: rows [6,8)
	// rank 3: rows [8,10)
}
