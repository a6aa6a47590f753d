package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/distmm/matrix"
)

// ExampleMul multiplies the identity by a 1..16 sequence, leaving it unchanged.
func ExampleMul() {
	I, _ := matrix.NewIdentity(4)
	B, _ := matrix.NewSequence(4, 4)

	C, _ := matrix.Mul(I, B)
	fmt.Print(C)
	fmt.Println(C.Equal(B))

	// Output:
	// [1, 2, 3, 4]
	// [5, 6, 7, 8]
	// [9, 10, 11, 12]
	// [13, 14, 15, 16]
	// true
}

// ExampleDense_RowBlock cuts rows [2,4) out of a 4×2 matrix.
func ExampleDense_RowBlock() {
	m, _ := matrix.NewSequence(4, 2)
	blk, _ := m.RowBlock(2, 2)
	fmt.Println(blk.Offset, blk.Rows, blk.Data)

	// Output:
	// 2 2 [5 6 7 8]
}
