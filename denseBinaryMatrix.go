package htm

import (
	"bytes"

	"github.com/htm-community/spatialpooler/utils"
)

//Dense binary matrix, used for derived views such as the connected
//synapses of a spatial pooler
type DenseBinaryMatrix struct {
	Width   int
	Height  int
	entries []bool
}

//Create new dense binary matrix of specified size
func NewDenseBinaryMatrix(height, width int) *DenseBinaryMatrix {
	m := &DenseBinaryMatrix{}
	m.Height = height
	m.Width = width
	m.entries = make([]bool, width*height)
	return m
}

//Get value at row,col position
func (sm *DenseBinaryMatrix) Get(row int, col int) bool {
	return sm.entries[row*sm.Width+col]
}

//Set value at row,col position
func (sm *DenseBinaryMatrix) Set(row int, col int, value bool) {
	sm.entries[row*sm.Width+col] = value
}

//Returns a rows "on" indices
func (sm *DenseBinaryMatrix) GetRowIndices(row int) []int {
	return utils.OnIndices(sm.entries[row*sm.Width : (row+1)*sm.Width])
}

//Returns number of true entries per row
func (sm *DenseBinaryMatrix) RowCounts() []int {
	result := make([]int, sm.Height)
	for r := 0; r < sm.Height; r++ {
		result[r] = utils.CountTrue(sm.entries[r*sm.Width : (r+1)*sm.Width])
	}
	return result
}

//Returns total true entries
func (sm *DenseBinaryMatrix) TotalNonZeroCount() int {
	return utils.CountTrue(sm.entries)
}

func (sm *DenseBinaryMatrix) ToString() string {
	var buffer bytes.Buffer

	for r := 0; r < sm.Height; r++ {
		for c := 0; c < sm.Width; c++ {
			if sm.Get(r, c) {
				buffer.WriteByte('1')
			} else {
				buffer.WriteByte('0')
			}
		}
		buffer.WriteByte('\n')
	}

	return buffer.String()
}
