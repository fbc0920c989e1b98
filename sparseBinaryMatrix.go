package htm

import (
	"sort"
)

//Items are sorted indexes of non-zero columns
type SparseRow []int

//Sparse binary matrix stores indexes of non-zero entries in matrix
//to conserve space
type SparseBinaryMatrix struct {
	Width  int
	Height int
	rows   []SparseRow
}

//Create new sparse binary matrix of specified size
func NewSparseBinaryMatrix(height, width int) *SparseBinaryMatrix {
	m := &SparseBinaryMatrix{}
	m.Height = height
	m.Width = width
	m.rows = make([]SparseRow, height)
	return m
}

func (sm *SparseBinaryMatrix) find(row, col int) (int, bool) {
	r := sm.rows[row]
	pos := sort.SearchInts(r, col)
	return pos, pos < len(r) && r[pos] == col
}

//Get value at row,col position
func (sm *SparseBinaryMatrix) Get(row int, col int) bool {
	_, ok := sm.find(row, col)
	return ok
}

//Set value at row,col position
func (sm *SparseBinaryMatrix) Set(row int, col int, value bool) {
	pos, ok := sm.find(row, col)
	r := sm.rows[row]
	switch {
	case value && !ok:
		r = append(r, 0)
		copy(r[pos+1:], r[pos:])
		r[pos] = col
		sm.rows[row] = r
	case !value && ok:
		sm.rows[row] = append(r[:pos], r[pos+1:]...)
	}
}

//Returns a rows "on" indices, the result must not be modified
func (sm *SparseBinaryMatrix) GetRowIndices(row int) []int {
	return sm.rows[row]
}

//Replaces row with true values at specified indices
func (sm *SparseBinaryMatrix) ReplaceRowByIndices(row int, indices []int) {
	r := make(SparseRow, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < sm.Width {
			r = append(r, idx)
		}
	}
	sort.Ints(r)
	//dedupe
	n := 0
	for i, val := range r {
		if i == 0 || val != r[n-1] {
			r[n] = val
			n++
		}
	}
	sm.rows[row] = r[:n]
}

//Returns # of true entries in row
func (sm *SparseBinaryMatrix) RowSize(row int) int {
	return len(sm.rows[row])
}

//Returns total true entries
func (sm *SparseBinaryMatrix) TotalNonZeroCount() int {
	result := 0
	for _, row := range sm.rows {
		result += len(row)
	}
	return result
}
