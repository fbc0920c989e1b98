package htm

import (
	"math"

	"github.com/cznic/mathutil"
	"github.com/gonum/floats"
)

/*
The primary method in charge of learning. Adapts the permanence values of
the synapses based on the input vector, and the chosen columns after
inhibition round. Permanence values are increased for synapses connected
to input bits that are turned on, and decreased for synapses connected to
inputs bits that are turned off.
*/
func (sp *SpatialPooler) adaptSynapses(inputVector []bool, activeColumns []int) {
	for _, column := range activeColumns {
		perm := sp.Permanence(column)
		for _, idx := range sp.potentialPools.GetRowIndices(column) {
			if inputVector[idx] {
				perm[idx] += sp.SynPermActiveInc
			} else {
				perm[idx] -= sp.SynPermInactiveDec
			}
		}
		sp.updatePermanencesForColumn(column, perm, true)
	}
}

/*
Updates the duty cycles for each column. The OVERLAP duty cycle is a moving
average of the number of inputs which overlapped with the each column. The
ACTIVITY duty cycles is a moving average of the frequency of activation for
each column.
*/
func (sp *SpatialPooler) updateDutyCycles(overlaps []int, activeColumns []int) {
	overlapArray := make([]float64, sp.numColumns)
	activeArray := make([]float64, sp.numColumns)

	for c, val := range overlaps {
		if val > 0 && val >= sp.StimulusThreshold {
			overlapArray[c] = 1
		}
	}
	for _, c := range activeColumns {
		activeArray[c] = 1
	}

	period := mathutil.Min(sp.DutyCyclePeriod, sp.IterationLearnNum)

	updateDutyCyclesHelper(sp.overlapDutyCycles, overlapArray, period)
	updateDutyCyclesHelper(sp.activeDutyCycles, activeArray, period)
}

/*
Updates a duty cycle estimate in place with a new value. Duty cycles are
updated according to the following formula:

	dutyCycle = ((period - 1)*dutyCycle + newValue) / period
*/
func updateDutyCyclesHelper(dutyCycles []float64, newInput []float64, period int) {
	if period < 1 {
		period = 1
	}
	floats.Scale(float64(period-1), dutyCycles)
	floats.Add(dutyCycles, newInput)
	for i := range dutyCycles {
		dutyCycles[i] /= float64(period)
	}
}

/*
This method increases the permanence values of synapses of columns whose
activity level has been too low. Such columns are identified by having an
overlap duty cycle that drops too much below those of their peers. The
permanence values for such columns are increased. Bumped values are not
trimmed, so a column whose permanences all decayed to zero can regrow.
*/
func (sp *SpatialPooler) bumpUpWeakColumns() {
	for column, dc := range sp.overlapDutyCycles {
		if dc >= sp.minOverlapDutyCycles[column] {
			continue
		}
		perm := sp.Permanence(column)
		for _, idx := range sp.potentialPools.GetRowIndices(column) {
			perm[idx] += sp.SynPermBelowStimulusInc
		}
		sp.storePermanences(column, perm)
	}
}

/*
Update the boost factors for all columns. The boost factors are used to
increase the overlap of inactive columns to improve their chances of
becoming active, and hence encourage participation of more columns in the
learning process. The boost factor is an exponential function of the
difference between a columns active duty cycle and the target density:

	boostFactor = exp(boostStrength * (targetDensity - activeDutyCycle))

A column below target is boosted above 1, a column at or above target gets
a factor <= 1. With global inhibition the target is the global density,
with local inhibition it is the mean active duty cycle of the columns
neighborhood.
*/
func (sp *SpatialPooler) updateBoostFactors() {
	if sp.GlobalInhibition {
		sp.updateBoostFactorsGlobal()
	} else {
		sp.updateBoostFactorsLocal()
	}
}

//Target density of active columns used for global boosting
func (sp *SpatialPooler) targetDensityGlobal() float64 {
	if sp.LocalAreaDensity > 0 {
		return sp.LocalAreaDensity
	}
	return float64(sp.NumActiveColumnsPerInhArea) / float64(sp.numColumns)
}

func (sp *SpatialPooler) updateBoostFactorsGlobal() {
	targetDensity := sp.targetDensityGlobal()
	for i, dc := range sp.activeDutyCycles {
		sp.boostFactors[i] = math.Exp(sp.BoostStrength * (targetDensity - dc))
	}
}

func (sp *SpatialPooler) updateBoostFactorsLocal() {
	neighborhoods := sp.columnNeighborhoods()
	targetDensity := make([]float64, sp.numColumns)
	for i, neighborhood := range neighborhoods {
		sum := 0.0
		for _, n := range neighborhood {
			sum += sp.activeDutyCycles[n]
		}
		targetDensity[i] = sum / float64(len(neighborhood))
	}
	for i, dc := range sp.activeDutyCycles {
		sp.boostFactors[i] = math.Exp(sp.BoostStrength * (targetDensity[i] - dc))
	}
}

/*
Update the inhibition radius. The inhibition radius is a measure of the
square (or hypersquare) of columns that each a column is "connected to"
on average. Since columns are not connected to each other directly, we
determine this quantity by first figuring out how many *inputs* a column is
connected to, and then multiplying it by the total number of columns that
exist for each input. For multiple dimension the aforementioned
calculations are averaged over all dimensions of inputs and columns. This
value is meaningless if global inhibition is enabled.
*/
func (sp *SpatialPooler) updateInhibitionRadius() {
	if sp.GlobalInhibition {
		sp.inhibitionRadius = maxInt(sp.ColumnDimensions)
		return
	}

	connected := sp.ConnectedSynapses()
	spans := make([]float64, sp.numColumns)
	for c := range spans {
		spans[c] = sp.avgConnectedSpanForColumnND(connected.GetRowIndices(c))
	}
	avgConnectedSpan := floats.Sum(spans) / float64(sp.numColumns)
	columnsPerInput := sp.avgColumnsPerInput()
	diameter := avgConnectedSpan * columnsPerInput
	radius := (diameter - 1) / 2.0
	radius = math.Max(1.0, radius)
	sp.inhibitionRadius = int(radius + 0.5)
}

/*
The average number of columns per input, taking into account the topology
of the inputs and columns. This value is used to calculate the inhibition
radius. This function supports an arbitrary number of dimensions.
*/
func (sp *SpatialPooler) avgColumnsPerInput() float64 {
	sum := 0.0
	for i, colDim := range sp.ColumnDimensions {
		sum += float64(colDim) / float64(sp.InputDimensions[i])
	}
	return sum / float64(len(sp.ColumnDimensions))
}

/*
The range of connectedSynapses per column, averaged for each dimension.
This value is used to calculate the inhibition radius. This variation of
the function supports arbitrary column dimensions. Takes the connected
input indices of the column, returns 0 when there are none.
*/
func (sp *SpatialPooler) avgConnectedSpanForColumnND(connected []int) float64 {
	dims := len(sp.InputDimensions)
	maxCoord := make([]int, dims)
	minCoord := make([]int, dims)
	found := false

	for _, idx := range connected {
		coords := sp.inputs.Coordinates(idx)
		if !found {
			copy(maxCoord, coords)
			copy(minCoord, coords)
			found = true
			continue
		}
		for d, val := range coords {
			maxCoord[d] = mathutil.Max(maxCoord[d], val)
			minCoord[d] = mathutil.Min(minCoord[d], val)
		}
	}

	if !found {
		return 0
	}

	sum := 0
	for d := range maxCoord {
		sum += maxCoord[d] - minCoord[d] + 1
	}
	return float64(sum) / float64(dims)
}

// Updates the minimum duty cycles defining normal activity for a column. A
// column with overlap duty cycle below this minimum threshold has its
// permanences bumped.
func (sp *SpatialPooler) updateMinDutyCycles() {
	if sp.GlobalInhibition || sp.inhibitionRadius > sp.numInputs {
		sp.updateMinDutyCyclesGlobal()
	} else {
		sp.updateMinDutyCyclesLocal()
	}
}

// Updates the minimum duty cycles in a global fashion. Sets the minimum duty
// cycles for the overlap of all columns to be a percent of the maximum in
// the region, specified by MinPctOverlapDutyCycle. Functionaly it is
// equivalent to updateMinDutyCyclesLocal, but this function exploits the
// globalilty of the compuation to perform it in a straightforward, and more
// efficient manner.
func (sp *SpatialPooler) updateMinDutyCyclesGlobal() {
	minOverlap := sp.MinPctOverlapDutyCycle * floats.Max(sp.overlapDutyCycles)
	for i := range sp.minOverlapDutyCycles {
		sp.minOverlapDutyCycles[i] = minOverlap
	}
}

// Updates the minimum duty cycles. The minimum duty cycles are determined
// locally. Each column's minimum duty cycles are set to be a percent of the
// maximum duty cycles in the column's neighborhood.
func (sp *SpatialPooler) updateMinDutyCyclesLocal() {
	neighborhoods := sp.columnNeighborhoods()
	for i, neighborhood := range neighborhoods {
		maxOverlap := 0.0
		for _, n := range neighborhood {
			maxOverlap = math.Max(maxOverlap, sp.overlapDutyCycles[n])
		}
		sp.minOverlapDutyCycles[i] = sp.MinPctOverlapDutyCycle * maxOverlap
	}
}
