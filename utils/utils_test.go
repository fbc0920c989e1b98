package utils

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFillSliceWithIdxInt(t *testing.T) {
	vals := make([]int, 3)
	FillSliceWithIdxInt(vals)
	expected := []int{0, 1, 2}
	assert.Equal(t, expected, vals)
}

func TestCartProductInt(t *testing.T) {
	vals := [][]int{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{10, 11, 12, 13},
	}

	result := CartProductInt(vals)

	assert.Equal(t, 64, len(result))
	assert.Equal(t, []int{1, 5, 10}, result[0])
	assert.Equal(t, []int{2, 5, 12}, result[18])
	assert.Equal(t, []int{3, 8, 13}, result[47])

	vals = [][]int{
		{1, 2},
		{2, 3},
		{0, 1},
	}

	result = CartProductInt(vals)

	assert.Equal(t, 8, len(result))

	assert.Nil(t, CartProductInt([][]int{{1}, {}}))
}

func TestProdInt(t *testing.T) {
	assert.Equal(t, 1024, ProdInt([]int{32, 32}))
	assert.Equal(t, 1, ProdInt([]int{1}))
	assert.Equal(t, 0, ProdInt(nil))
}

func TestStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Strides([]int{2, 3, 4}))
	assert.Equal(t, []int{1}, Strides([]int{7}))
}

func TestMod(t *testing.T) {
	assert.Equal(t, 2, Mod(-3, 5))
	assert.Equal(t, 0, Mod(10, 5))
	assert.Equal(t, 4, Mod(4, 5))
}

func TestTruncPrec(t *testing.T) {
	assert.Equal(t, 0.12345, TruncPrec(0.123459, 5))
	assert.Equal(t, 0.1, TruncPrec(0.1, 5))
}

func TestOverlap(t *testing.T) {
	a := Make1DBool([]int{1, 1, 0, 1})
	b := Make1DBool([]int{1, 0, 0, 1})
	assert.Equal(t, 2, Overlap(a, b))
	assert.Equal(t, []int{0, 1, 3}, OnIndices(a))
	assert.Equal(t, 3, CountTrue(a))
}
