package htm

import (
	"math"
	"sort"

	"github.com/cznic/mathutil"
	"github.com/htm-community/spatialpooler/utils"
)

/*
Topology describes a rectangular n-dimensional grid. Coordinates map
to flat indices in row major order.
*/
type Topology struct {
	Dimensions []int
	strides    []int
	size       int
}

func NewTopology(dims []int) *Topology {
	t := new(Topology)
	t.Dimensions = append([]int(nil), dims...)
	t.strides = utils.Strides(dims)
	t.size = utils.ProdInt(dims)
	return t
}

//Number of cells in grid
func (t *Topology) Size() int {
	return t.size
}

//Converts flat index to grid coordinates
func (t *Topology) Coordinates(index int) []int {
	result := make([]int, len(t.Dimensions))
	for i, stride := range t.strides {
		result[i] = index / stride
		index %= stride
	}
	return result
}

//Converts grid coordinates to flat index
func (t *Topology) Index(coords []int) int {
	result := 0
	for i, c := range coords {
		result += c * t.strides[i]
	}
	return result
}

//Returns the flat indices within radius of center (inclusive of center)
//sorted ascending. When wrap is false the neighborhood is clipped at the
//grid boundaries, otherwise it wraps toroidally.
func (t *Topology) Neighborhood(center int, radius int, wrap bool) []int {
	centerCoords := t.Coordinates(center)
	ranges := make([][]int, len(t.Dimensions))

	for i, dim := range t.Dimensions {
		c := centerCoords[i]
		if wrap {
			if 2*radius+1 >= dim {
				ranges[i] = make([]int, dim)
				utils.FillSliceWithIdxInt(ranges[i])
				continue
			}
			vals := make([]int, 0, 2*radius+1)
			for x := c - radius; x <= c+radius; x++ {
				vals = append(vals, utils.Mod(x, dim))
			}
			sort.Ints(vals)
			ranges[i] = vals
		} else {
			start := mathutil.Max(0, c-radius)
			end := mathutil.Min(dim-1, c+radius)
			vals := make([]int, 0, end-start+1)
			for x := start; x <= end; x++ {
				vals = append(vals, x)
			}
			ranges[i] = vals
		}
	}

	coords := utils.CartProductInt(ranges)
	result := make([]int, len(coords))
	for i, coord := range coords {
		result[i] = t.Index(coord)
	}
	return result
}

//Euclidean distance between two cells, measured around the grid edges
//when wrap is set
func (t *Topology) Distance(a, b int, wrap bool) float64 {
	ca := t.Coordinates(a)
	cb := t.Coordinates(b)
	sum := 0.0
	for i, dim := range t.Dimensions {
		d := ca[i] - cb[i]
		if d < 0 {
			d = -d
		}
		if wrap && dim-d < d {
			d = dim - d
		}
		sum += float64(d * d)
	}
	return math.Sqrt(sum)
}

//Maps a column to the input index at the center of its receptive field.
//The column grid is laid uniformly over the input grid.
func mapColumn(column int, columns, inputs *Topology) int {
	colCoords := columns.Coordinates(column)
	inputCoords := make([]int, len(colCoords))
	for i, c := range colCoords {
		colDim := float64(columns.Dimensions[i])
		inDim := float64(inputs.Dimensions[i])
		ic := int((float64(c) + 0.5) * inDim / colDim)
		inputCoords[i] = mathutil.Min(ic, inputs.Dimensions[i]-1)
	}
	return inputs.Index(inputCoords)
}
