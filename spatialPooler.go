package htm

import (
	"log/slog"
	"math/rand/v2"

	"github.com/htm-community/spatialpooler/utils"
	"github.com/skelterjohn/go.matrix"
)

//Selects the winning columns given raw and boosted overlaps. Returned
//indices must be strictly ascending, without duplicates.
type InhibitionFunc func(overlaps []int, boostedOverlaps []float64) []int

/*
The spatial pooler converts a binary input into a fixed sparsity set of
active columns. Every column owns a fixed potential pool of inputs and a
permanence per potential synapse; a synapse is connected when its
permanence is >= SynPermConnected. Connectivity is never stored, it is
always derived from the permanences.

Compute is not reentrant, callers must serialize calls on an instance.
*/
type SpatialPooler struct {
	SpParams

	// Extra parameter settings
	SynPermMin              float64
	SynPermMax              float64
	SynPermTrimThreshold    float64
	SynPermBelowStimulusInc float64

	// Internal state
	IterationNum      int
	IterationLearnNum int

	numInputs  int
	numColumns int
	inputs     *Topology
	columns    *Topology

	//column x input
	potentialPools *SparseBinaryMatrix
	permanences    *matrix.SparseMatrix

	overlapDutyCycles    []float64
	activeDutyCycles     []float64
	minOverlapDutyCycles []float64
	boostFactors         []float64
	inhibitionRadius     int

	//results of the last compute
	overlaps        []int
	boostedOverlaps []float64

	//derived, rebuilt when the inhibition radius changes
	neighborhoods      [][]int
	neighborhoodRadius int

	rngSource *rand.PCG
	rng       *rand.Rand
	logger    *slog.Logger
}

//Creates a new spatial pooler, params are validated and copied
func NewSpatialPooler(spParams SpParams) (*SpatialPooler, error) {
	if err := spParams.Validate(); err != nil {
		return nil, err
	}

	sp := newSpatialPoolerShell(spParams)

	for i := 0; i < sp.numColumns; i++ {
		potential, err := sp.mapPotential(i)
		if err != nil {
			return nil, err
		}
		sp.potentialPools.ReplaceRowByIndices(i, potential)
		perm := sp.initPermanence(i, potential, sp.InitConnectedPct)
		sp.updatePermanencesForColumn(i, perm, true)
	}

	sp.updateInhibitionRadius()

	if sp.SpVerbosity > 0 {
		sp.logger.Info("spatial pooler initialized",
			slog.Any("inputDimensions", sp.InputDimensions),
			slog.Any("columnDimensions", sp.ColumnDimensions),
			slog.Int("potentialSynapses", sp.potentialPools.TotalNonZeroCount()),
			slog.Int("inhibitionRadius", sp.inhibitionRadius),
			slog.Int64("seed", sp.Seed))
	}

	return sp, nil
}

//Allocates all state for validated params, without sampling pools
func newSpatialPoolerShell(spParams SpParams) *SpatialPooler {
	sp := new(SpatialPooler)
	sp.SpParams = spParams.clone()

	sp.SynPermMin = 0.0
	sp.SynPermMax = 1.0
	sp.SynPermTrimThreshold = sp.SynPermActiveInc / 2.0
	sp.SynPermBelowStimulusInc = sp.SynPermConnected / 10.0

	sp.inputs = NewTopology(sp.InputDimensions)
	sp.columns = NewTopology(sp.ColumnDimensions)
	sp.numInputs = sp.inputs.Size()
	sp.numColumns = sp.columns.Size()

	sp.potentialPools = NewSparseBinaryMatrix(sp.numColumns, sp.numInputs)
	sp.permanences = matrix.MakeSparseMatrix(make(map[int]float64, sp.numColumns), sp.numColumns, sp.numInputs)

	sp.overlapDutyCycles = make([]float64, sp.numColumns)
	sp.activeDutyCycles = make([]float64, sp.numColumns)
	sp.minOverlapDutyCycles = make([]float64, sp.numColumns)
	sp.boostFactors = utils.MakeSliceFloat64(sp.numColumns, 1.0)
	sp.overlaps = make([]int, sp.numColumns)
	sp.boostedOverlaps = make([]float64, sp.numColumns)
	sp.neighborhoodRadius = -1

	sp.rngSource = newRandSource(sp.Seed)
	sp.rng = rand.New(sp.rngSource)
	sp.logger = slog.Default().With(slog.String("component", "spatialpooler"))

	return sp
}

func newRandSource(seed int64) *rand.PCG {
	return rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)
}

//Replaces the logger used for diagnostics
func (sp *SpatialPooler) SetLogger(logger *slog.Logger) {
	sp.logger = logger
}

/*
Main func, fills activeArray with the winning columns. inputVector length
must equal the number of inputs and activeArray length the number of
columns. inhibitColumns selects the winners, nil uses sp.InhibitColumns.
On error the spatial pooler is left unmodified.
*/
func (sp *SpatialPooler) Compute(inputVector []bool, learn bool, activeArray []bool, inhibitColumns InhibitionFunc) error {
	if len(inputVector) != sp.numInputs {
		return inputErrorf("input length %v does not match number of inputs %v", len(inputVector), sp.numInputs)
	}
	return sp.compute(inputVector, learn, activeArray, inhibitColumns)
}

//Compute for sparse input given as the indices of the on bits
func (sp *SpatialPooler) ComputeSparse(onIndices []int, learn bool, activeArray []bool, inhibitColumns InhibitionFunc) error {
	inputVector := make([]bool, sp.numInputs)
	for _, idx := range onIndices {
		if idx < 0 || idx >= sp.numInputs {
			return inputErrorf("input index %v out of range [0,%v)", idx, sp.numInputs)
		}
		inputVector[idx] = true
	}
	return sp.compute(inputVector, learn, activeArray, inhibitColumns)
}

//Compute for numeric input, non-zero values are on. With StrictInput
//any value other than 0 or 1 is rejected.
func (sp *SpatialPooler) ComputeFloat(values []float64, learn bool, activeArray []bool, inhibitColumns InhibitionFunc) error {
	if len(values) != sp.numInputs {
		return inputErrorf("input length %v does not match number of inputs %v", len(values), sp.numInputs)
	}
	inputVector := make([]bool, sp.numInputs)
	for idx, val := range values {
		if sp.StrictInput && val != 0 && val != 1 {
			return inputErrorf("input value %v at index %v is not binary", val, idx)
		}
		inputVector[idx] = val != 0
	}
	return sp.compute(inputVector, learn, activeArray, inhibitColumns)
}

func (sp *SpatialPooler) compute(inputVector []bool, learn bool, activeArray []bool, inhibitColumns InhibitionFunc) error {
	if len(activeArray) != sp.numColumns {
		return inputErrorf("active array length %v does not match number of columns %v", len(activeArray), sp.numColumns)
	}
	if inhibitColumns == nil {
		inhibitColumns = sp.InhibitColumns
	}

	overlaps := sp.calculateOverlap(inputVector)

	// Apply boosting when learning is on
	boostedOverlaps := make([]float64, sp.numColumns)
	for i, val := range overlaps {
		boostedOverlaps[i] = float64(val)
		if learn && sp.BoostStrength > 0 {
			boostedOverlaps[i] *= sp.boostFactors[i]
		}
	}

	// Apply inhibition to determine the winning columns
	activeColumns := inhibitColumns(overlaps, boostedOverlaps)
	for i, c := range activeColumns {
		if c < 0 || c >= sp.numColumns {
			return inputErrorf("inhibition selected column %v out of range [0,%v)", c, sp.numColumns)
		}
		if i > 0 && c <= activeColumns[i-1] {
			return inputErrorf("inhibition result not strictly ascending at position %v: %v after %v",
				i, c, activeColumns[i-1])
		}
	}

	sp.updateBookeepingVars(learn)
	sp.overlaps = overlaps
	sp.boostedOverlaps = boostedOverlaps

	if learn {
		sp.adaptSynapses(inputVector, activeColumns)
		sp.updateDutyCycles(overlaps, activeColumns)
		sp.bumpUpWeakColumns()
		sp.updateBoostFactors()
		if sp.isUpdateRound() {
			sp.updateInhibitionRadius()
			sp.updateMinDutyCycles()
			if sp.SpVerbosity > 0 {
				sp.logger.Info("update round",
					slog.Int("iteration", sp.IterationNum),
					slog.Int("inhibitionRadius", sp.inhibitionRadius))
			}
			if sp.SpVerbosity > 2 {
				sp.logger.Debug("connected synapses", slog.String("matrix", sp.ConnectedSynapses().ToString()))
			}
		}
	} else if sp.StripUnlearnedColumns {
		activeColumns = sp.stripNeverLearned(activeColumns)
	}

	utils.FillSliceBool(activeArray, false)
	for _, c := range activeColumns {
		activeArray[c] = true
	}

	if sp.SpVerbosity > 1 {
		sp.logger.Debug("compute",
			slog.Int("iteration", sp.IterationNum),
			slog.Bool("learn", learn),
			slog.Any("activeColumns", activeColumns))
	}

	return nil
}

//Updates counter instance variables each round
func (sp *SpatialPooler) updateBookeepingVars(learn bool) {
	sp.IterationNum++
	if learn {
		sp.IterationLearnNum++
	}
}

//Returns the number of connected synapses on each column whose input is on
func (sp *SpatialPooler) calculateOverlap(inputVector []bool) []int {
	overlaps := make([]int, sp.numColumns)
	for c := 0; c < sp.numColumns; c++ {
		for _, i := range sp.potentialPools.GetRowIndices(c) {
			if inputVector[i] && sp.isConnected(sp.permanences.Get(c, i)) {
				overlaps[c]++
			}
		}
	}
	return overlaps
}

func (sp *SpatialPooler) isConnected(perm float64) bool {
	return perm >= sp.SynPermConnected
}

//Returns true if enough learning rounds have passed to warrant updates of
//the inhibition radius and min duty cycles. Inference calls do not count.
func (sp *SpatialPooler) isUpdateRound() bool {
	return sp.IterationLearnNum%sp.UpdatePeriod == 0
}

//Removes the set of columns who have never been active from the set of
//active columns selected in the inhibition round. Such columns cannot
//represent learned pattern and are therefore meaningless if only inference
//is required.
func (sp *SpatialPooler) stripNeverLearned(activeColumns []int) []int {
	result := make([]int, 0, len(activeColumns))
	for _, col := range activeColumns {
		if sp.activeDutyCycles[col] > 0 {
			result = append(result, col)
		}
	}
	return result
}

// Accessors

func (sp *SpatialPooler) NumInputs() int {
	return sp.numInputs
}

func (sp *SpatialPooler) NumColumns() int {
	return sp.numColumns
}

func (sp *SpatialPooler) InhibitionRadius() int {
	return sp.inhibitionRadius
}

func (sp *SpatialPooler) BoostFactors() []float64 {
	return append([]float64(nil), sp.boostFactors...)
}

func (sp *SpatialPooler) ActiveDutyCycles() []float64 {
	return append([]float64(nil), sp.activeDutyCycles...)
}

func (sp *SpatialPooler) OverlapDutyCycles() []float64 {
	return append([]float64(nil), sp.overlapDutyCycles...)
}

func (sp *SpatialPooler) MinOverlapDutyCycles() []float64 {
	return append([]float64(nil), sp.minOverlapDutyCycles...)
}

//Raw overlaps of the last compute
func (sp *SpatialPooler) Overlaps() []int {
	return append([]int(nil), sp.overlaps...)
}

//Boosted overlaps of the last compute
func (sp *SpatialPooler) BoostedOverlaps() []float64 {
	return append([]float64(nil), sp.boostedOverlaps...)
}

//Input indices of the columns potential pool
func (sp *SpatialPooler) PotentialPool(column int) []int {
	return append([]int(nil), sp.potentialPools.GetRowIndices(column)...)
}

//Dense permanence row of the column, one value per input
func (sp *SpatialPooler) Permanence(column int) []float64 {
	result := make([]float64, sp.numInputs)
	for _, i := range sp.potentialPools.GetRowIndices(column) {
		result[i] = sp.permanences.Get(column, i)
	}
	return result
}

//Column x input matrix of connected synapses, derived from the permanences
func (sp *SpatialPooler) ConnectedSynapses() *DenseBinaryMatrix {
	result := NewDenseBinaryMatrix(sp.numColumns, sp.numInputs)
	for c := 0; c < sp.numColumns; c++ {
		for _, i := range sp.potentialPools.GetRowIndices(c) {
			if sp.isConnected(sp.permanences.Get(c, i)) {
				result.Set(c, i, true)
			}
		}
	}
	return result
}

//Number of connected synapses per column
func (sp *SpatialPooler) ConnectedCounts() []int {
	return sp.ConnectedSynapses().RowCounts()
}
