package utils

import (
	"math"
)

//Euclidean modulous, result is always in [0,b)
func Mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

//Populates integer slice with index values
func FillSliceWithIdxInt(values []int) {
	for i := range values {
		values[i] = i
	}
}

//Populates bool slice with specified value
func FillSliceBool(values []bool, value bool) {
	for i := range values {
		values[i] = value
	}
}

//Sets length values starting at start
func FillSliceRangeBool(values []bool, value bool, start, length int) {
	for i := 0; i < length; i++ {
		values[start+i] = value
	}
}

//Creates a float slice with all indices containing
// the specified initial value
func MakeSliceFloat64(size int, initialValue float64) []float64 {
	result := make([]float64, size)
	if initialValue != 0 {
		for i := range result {
			result[i] = initialValue
		}
	}
	return result
}

//Returns cartesian product of specified
//2d array
func CartProductInt(values [][]int) [][]int {
	if len(values) == 0 {
		return nil
	}
	for _, val := range values {
		if len(val) == 0 {
			return nil
		}
	}

	pos := make([]int, len(values))
	var result [][]int

	for pos[0] < len(values[0]) {
		temp := make([]int, len(values))
		for j := 0; j < len(values); j++ {
			temp[j] = values[j][pos[j]]
		}
		result = append(result, temp)
		pos[len(values)-1]++
		for k := len(values) - 1; k >= 1; k-- {
			if pos[k] >= len(values[k]) {
				pos[k] = 0
				pos[k-1]++
			} else {
				break
			}
		}
	}
	return result
}

//Returns product of set of integers, empty set is 0
func ProdInt(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	result := 1
	for x := 0; x < len(vals); x++ {
		result *= vals[x]
	}
	return result
}

//Returns row major strides for the specified dimensions
func Strides(dims []int) []int {
	result := make([]int, len(dims))
	stride := 1
	for x := len(dims) - 1; x >= 0; x-- {
		result[x] = stride
		stride *= dims[x]
	}
	return result
}

//Truncates x to prec decimal places
func TruncPrec(x float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	return float64(int64(x*pow)) / pow
}

func Make1DBool(values []int) []bool {
	result := make([]bool, len(values))
	for i, val := range values {
		result[i] = val == 1
	}
	return result
}

//Returns number of occurrences of value
func CountInt(values []int, value int) int {
	count := 0
	for _, val := range values {
		if val == value {
			count++
		}
	}
	return count
}

//Returns number of on bits
func CountTrue(values []bool) int {
	count := 0
	for _, val := range values {
		if val {
			count++
		}
	}
	return count
}

//Returns "on" indices
func OnIndices(s []bool) []int {
	var result []int
	for idx, val := range s {
		if val {
			result = append(result, idx)
		}
	}
	return result
}

//Returns number of positions where both slices are true
func Overlap(a, b []bool) int {
	result := 0
	for idx, val := range a {
		if val && b[idx] {
			result++
		}
	}
	return result
}
