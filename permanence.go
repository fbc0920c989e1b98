package htm

import (
	"math"
	"sort"

	"github.com/cznic/mathutil"
	"github.com/htm-community/spatialpooler/utils"
)

/*
Maps a column to its input bits. The potential pool is sampled from the
inputs within PotentialRadius of the center input the column maps to,
wrapping around the input edges when WrapAround is set. Exactly
round(PotentialPct * neighborhood size) distinct inputs are drawn, never
fewer than one or StimulusThreshold. Fails only when the neighborhood
itself is smaller than StimulusThreshold. The result is sorted ascending.
*/
func (sp *SpatialPooler) mapPotential(column int) ([]int, error) {
	center := mapColumn(column, sp.columns, sp.inputs)
	neighborhood := sp.inputs.Neighborhood(center, sp.PotentialRadius, sp.WrapAround)
	if len(neighborhood) < sp.StimulusThreshold {
		return nil, configErrorf("StimulusThreshold", "%v exceeds the %v inputs within PotentialRadius of column %v",
			sp.StimulusThreshold, len(neighborhood), column)
	}

	size := int(math.Round(sp.PotentialPct * float64(len(neighborhood))))
	size = mathutil.Max(size, mathutil.Max(1, sp.StimulusThreshold))
	size = mathutil.Min(size, len(neighborhood))

	// partial Fisher-Yates shuffle, the first size entries are the sample
	candidates := append([]int(nil), neighborhood...)
	for i := 0; i < size; i++ {
		j := i + sp.rng.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	result := candidates[:size]
	sort.Ints(result)
	return result, nil
}

//Returns a randomly generated permanence value for a synapse that is
//initialized in a connected state.
func (sp *SpatialPooler) initPermConnected() float64 {
	p := sp.SynPermConnected + sp.rng.Float64()*sp.SynPermActiveInc/4.0
	p = utils.TruncPrec(p, 5)
	return math.Max(p, sp.SynPermConnected)
}

//Returns a randomly generated permanence value for a synapses that is to be
//initialized in a non-connected state.
func (sp *SpatialPooler) initPermNonConnected() float64 {
	p := sp.SynPermConnected * sp.rng.Float64()
	return utils.TruncPrec(p, 5)
}

/*
Initializes the permanences of a column. Returns a dense permanence row
with one value per input, non zero only inside the potential pool.

connectedPct is the target fraction of potential synapses initialized
above the connection threshold. The chance of a candidate being connected
falls off smoothly with its distance from the columns center input, so
nearer inputs are more likely to start connected, and is normalized so
that on average connectedPct of the pool starts connected.
*/
func (sp *SpatialPooler) initPermanence(column int, potential []int, connectedPct float64) []float64 {
	perm := make([]float64, sp.numInputs)
	if len(potential) == 0 {
		return perm
	}

	center := mapColumn(column, sp.columns, sp.inputs)
	sigma := math.Max(1, float64(sp.PotentialRadius)) / 2.0

	weights := make([]float64, len(potential))
	weightSum := 0.0
	for i, idx := range potential {
		d := sp.inputs.Distance(center, idx, sp.WrapAround)
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		weightSum += weights[i]
	}
	weightMean := weightSum / float64(len(potential))

	for i, idx := range potential {
		var prob float64
		switch {
		case connectedPct >= 1:
			prob = 1
		case connectedPct <= 0:
			prob = 0
		default:
			prob = math.Min(1, connectedPct*weights[i]/weightMean)
		}

		if sp.rng.Float64() < prob {
			perm[idx] = sp.initPermConnected()
		} else {
			perm[idx] = sp.initPermNonConnected()
		}
		if perm[idx] < sp.SynPermTrimThreshold {
			perm[idx] = 0
		}
	}

	return perm
}

/*
This method ensures that each column has enough connections to input bits
to allow it to become active. Since a column must have at least
StimulusThreshold overlaps in order to be considered during the
inhibition phase, columns without such minimal number of connections, even
if all the input bits they are connected to turn on, have no chance of
obtaining the minimum threshold. For such columns, the permanence values
are increased until the minimum number of connections are formed.

mask holds the potential pool indices of the column.
*/
func (sp *SpatialPooler) raisePermanenceToThreshold(perm []float64, mask []int) {
	if len(mask) < sp.StimulusThreshold || sp.SynPermBelowStimulusInc <= 0 {
		return
	}

	sp.clipPermanence(perm)
	for {
		numConnected := 0
		for _, idx := range mask {
			if sp.isConnected(perm[idx]) {
				numConnected++
			}
		}
		if numConnected >= sp.StimulusThreshold {
			return
		}
		for _, idx := range mask {
			perm[idx] += sp.SynPermBelowStimulusInc
		}
	}
}

func (sp *SpatialPooler) clipPermanence(perm []float64) {
	for i, val := range perm {
		perm[i] = math.Min(sp.SynPermMax, math.Max(sp.SynPermMin, val))
	}
}

/*
Stores a dense permanence row for a column. Optionally raises the
permanences to the stimulus threshold first, then trims values below
SynPermTrimThreshold to zero and clips the rest to [SynPermMin,
SynPermMax].
*/
func (sp *SpatialPooler) updatePermanencesForColumn(column int, perm []float64, raisePerm bool) {
	mask := sp.potentialPools.GetRowIndices(column)
	if raisePerm {
		sp.raisePermanenceToThreshold(perm, mask)
	}

	for _, idx := range mask {
		if perm[idx] < sp.SynPermTrimThreshold {
			perm[idx] = 0
		}
	}
	sp.storePermanences(column, perm)
}

//Clips and stores the potential pool entries of a dense permanence row
func (sp *SpatialPooler) storePermanences(column int, perm []float64) {
	for _, idx := range sp.potentialPools.GetRowIndices(column) {
		p := math.Min(sp.SynPermMax, math.Max(sp.SynPermMin, perm[idx]))
		sp.permanences.Set(column, idx, p)
	}
}
