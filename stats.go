package htm

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/c2h5oh/datasize"
	"github.com/gonum/floats"
)

//Summary of the learning state of a spatial pooler
type LearningStats struct {
	IterationNum          int
	IterationLearnNum     int
	InhibitionRadius      int
	MeanActiveDutyCycle   float64
	MaxActiveDutyCycle    float64
	MeanOverlapDutyCycle  float64
	MinOverlapDutyCycle   float64
	MeanBoostFactor       float64
	MaxBoostFactor        float64
	MeanConnectedSynapses float64
	MeanPotentialSynapses float64
	NeverActiveColumns    int
}

func (sp *SpatialPooler) LearningStats() LearningStats {
	n := float64(sp.numColumns)
	result := LearningStats{
		IterationNum:         sp.IterationNum,
		IterationLearnNum:    sp.IterationLearnNum,
		InhibitionRadius:     sp.inhibitionRadius,
		MeanActiveDutyCycle:  floats.Sum(sp.activeDutyCycles) / n,
		MaxActiveDutyCycle:   floats.Max(sp.activeDutyCycles),
		MeanOverlapDutyCycle: floats.Sum(sp.overlapDutyCycles) / n,
		MinOverlapDutyCycle:  floats.Min(sp.overlapDutyCycles),
		MeanBoostFactor:      floats.Sum(sp.boostFactors) / n,
		MaxBoostFactor:       floats.Max(sp.boostFactors),
	}

	connected, potential := 0, 0
	for c, count := range sp.ConnectedCounts() {
		connected += count
		potential += sp.potentialPools.RowSize(c)
		if sp.activeDutyCycles[c] == 0 {
			result.NeverActiveColumns++
		}
	}
	result.MeanConnectedSynapses = float64(connected) / n
	result.MeanPotentialSynapses = float64(potential) / n

	return result
}

func (s LearningStats) ToString() string {
	result := "Stats: \n"

	result += fmt.Sprintf("IterationNum %v \n", s.IterationNum)
	result += fmt.Sprintf("IterationLearnNum %v \n", s.IterationLearnNum)
	result += fmt.Sprintf("InhibitionRadius %v \n", s.InhibitionRadius)
	result += fmt.Sprintf("MeanActiveDutyCycle %v \n", s.MeanActiveDutyCycle)
	result += fmt.Sprintf("MaxActiveDutyCycle %v \n", s.MaxActiveDutyCycle)
	result += fmt.Sprintf("MeanOverlapDutyCycle %v \n", s.MeanOverlapDutyCycle)
	result += fmt.Sprintf("MinOverlapDutyCycle %v \n", s.MinOverlapDutyCycle)
	result += fmt.Sprintf("MeanBoostFactor %v \n", s.MeanBoostFactor)
	result += fmt.Sprintf("MaxBoostFactor %v \n", s.MaxBoostFactor)
	result += fmt.Sprintf("MeanConnectedSynapses %v \n", s.MeanConnectedSynapses)
	result += fmt.Sprintf("MeanPotentialSynapses %v \n", s.MeanPotentialSynapses)
	result += fmt.Sprintf("NeverActiveColumns %v \n", s.NeverActiveColumns)

	return result
}

//Returns true if both spatial poolers hold identical state and will
//produce identical output for any input sequence
func (sp *SpatialPooler) Equal(other *SpatialPooler) bool {
	if !reflect.DeepEqual(sp.SpParams, other.SpParams) {
		return false
	}
	if sp.numInputs != other.numInputs || sp.numColumns != other.numColumns ||
		sp.inhibitionRadius != other.inhibitionRadius ||
		sp.IterationNum != other.IterationNum || sp.IterationLearnNum != other.IterationLearnNum {
		return false
	}

	for _, pair := range [][2][]float64{
		{sp.overlapDutyCycles, other.overlapDutyCycles},
		{sp.activeDutyCycles, other.activeDutyCycles},
		{sp.minOverlapDutyCycles, other.minOverlapDutyCycles},
		{sp.boostFactors, other.boostFactors},
	} {
		if !floats.Equal(pair[0], pair[1]) {
			return false
		}
	}

	for c := 0; c < sp.numColumns; c++ {
		pool := sp.potentialPools.GetRowIndices(c)
		if !reflect.DeepEqual(pool, other.potentialPools.GetRowIndices(c)) {
			return false
		}
		for _, idx := range pool {
			if sp.permanences.Get(c, idx) != other.permanences.Get(c, idx) {
				return false
			}
		}
	}

	a, errA := sp.rngSource.MarshalBinary()
	b, errB := other.rngSource.MarshalBinary()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

//Returns a human readable estimate of the memory held by the spatial pooler
func (sp *SpatialPooler) SizeReport() string {
	potential := sp.potentialPools.TotalNonZeroCount()
	//pool index + map entry (key, value) per potential synapse
	synMem := potential * (8 + 16)
	//duty cycles, min duty cycles, boost factors, overlaps
	colMem := sp.numColumns * (8*4 + 8 + 8)

	var b bytes.Buffer
	fmt.Fprintf(&b, "Columns: %d\t Inputs: %d\t ColMem: %v\n", sp.numColumns, sp.numInputs,
		datasize.ByteSize(colMem).HumanReadable())
	fmt.Fprintf(&b, "Potential synapses: %d\t Connected: %d\t SynMem: %v\n", potential,
		sp.ConnectedSynapses().TotalNonZeroCount(), datasize.ByteSize(synMem).HumanReadable())
	return b.String()
}
