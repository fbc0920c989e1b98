package htm

import (
	"math"
	"sort"

	"github.com/cznic/mathutil"
)

/*
Performs inhibition. This method calculates the necessary values needed to
actually perform inhibition and then delegates the task of picking the
active columns to helper functions. Global inhibition is used when
GlobalInhibition is set or the inhibition radius covers the whole column
space, otherwise local inhibition.

overlaps are the raw overlap scores, columns below StimulusThreshold never
win. boostedOverlaps are the scores columns compete with.
*/
func (sp *SpatialPooler) InhibitColumns(overlaps []int, boostedOverlaps []float64) []int {
	if sp.GlobalInhibition || sp.inhibitionRadius > maxInt(sp.ColumnDimensions) {
		return sp.inhibitColumnsGlobal(overlaps, boostedOverlaps, sp.numActiveColumnsGlobal())
	}
	return sp.inhibitColumnsLocal(overlaps, boostedOverlaps, sp.localDensity())
}

//Number of winners when inhibiting over the whole column space
func (sp *SpatialPooler) numActiveColumnsGlobal() int {
	if sp.NumActiveColumnsPerInhArea > 0 {
		return mathutil.Min(sp.NumActiveColumnsPerInhArea, sp.numColumns)
	}
	return int(sp.LocalAreaDensity * float64(sp.numColumns))
}

//Size of an inhibition neighborhood for the current radius, bounded by
//the column count
func (sp *SpatialPooler) inhibitionArea() int {
	area := math.Pow(float64(2*sp.inhibitionRadius+1), float64(len(sp.ColumnDimensions)))
	if area > float64(sp.numColumns) {
		return sp.numColumns
	}
	return int(area)
}

//Target density of active columns within an inhibition neighborhood
func (sp *SpatialPooler) localDensity() float64 {
	if sp.LocalAreaDensity > 0 {
		return sp.LocalAreaDensity
	}
	density := float64(sp.NumActiveColumnsPerInhArea) / float64(sp.inhibitionArea())
	return math.Min(density, 0.5)
}

/*
Perform global inhibition. Performing global inhibition entails picking the
top numActive columns with the highest boosted overlap score in the entire
region. Ties are broken by column index, lower index wins. Returns the
winning column indices sorted ascending.
*/
func (sp *SpatialPooler) inhibitColumnsGlobal(overlaps []int, boostedOverlaps []float64, numActive int) []int {
	candidates := make([]int, 0, len(overlaps))
	for c, val := range overlaps {
		if val >= sp.StimulusThreshold {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return boostedOverlaps[candidates[i]] > boostedOverlaps[candidates[j]]
	})

	if len(candidates) > numActive {
		candidates = candidates[:numActive]
	}
	sort.Ints(candidates)
	return candidates
}

/*
Performs local inhibition. Local inhibition is performed on a column by
column basis. Each column observes the overlaps of its neighbors and is
selected if its overlap score is within the top numActive in its local
neighborhood, where numActive is density times the neighborhood size.
Columns are visited in ascending index order; a tied neighbor that has
already been selected counts as beating the column, so ties go to the
lower index.
*/
func (sp *SpatialPooler) inhibitColumnsLocal(overlaps []int, boostedOverlaps []float64, density float64) []int {
	active := make([]bool, sp.numColumns)
	neighborhoods := sp.columnNeighborhoods()
	var result []int

	for column := 0; column < sp.numColumns; column++ {
		if overlaps[column] < sp.StimulusThreshold {
			continue
		}

		score := boostedOverlaps[column]
		neighborhood := neighborhoods[column]
		numBigger := 0
		numTiesLost := 0
		for _, n := range neighborhood {
			switch {
			case boostedOverlaps[n] > score:
				numBigger++
			case boostedOverlaps[n] == score && active[n]:
				numTiesLost++
			}
		}

		numActive := int(0.5 + density*float64(len(neighborhood)))
		if numBigger+numTiesLost < numActive {
			active[column] = true
			result = append(result, column)
		}
	}

	return result
}

//Returns the neighborhood of every column for the current inhibition
//radius, including the column itself
func (sp *SpatialPooler) columnNeighborhoods() [][]int {
	if sp.neighborhoods != nil && sp.neighborhoodRadius == sp.inhibitionRadius {
		return sp.neighborhoods
	}
	result := make([][]int, sp.numColumns)
	for c := range result {
		result[c] = sp.columns.Neighborhood(c, sp.inhibitionRadius, sp.WrapAround)
	}
	sp.neighborhoods = result
	sp.neighborhoodRadius = sp.inhibitionRadius
	return result
}

func maxInt(vals []int) int {
	result := 0
	for _, val := range vals {
		result = mathutil.Max(result, val)
	}
	return result
}
