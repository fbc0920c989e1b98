package htm

import (
	"math"
)

/*
Params for intializing spatial pooler
*/
type SpParams struct {
	//Shape of the input grid, input vectors are the row major flattening
	//of this grid
	InputDimensions []int `json:"inputDimensions"`
	//Shape of the column grid
	ColumnDimensions []int `json:"columnDimensions"`
	//Extent of the input neighborhood each column may sample its potential
	//pool from
	PotentialRadius int `json:"potentialRadius"`
	//Fraction of the neighborhood sampled into the potential pool
	PotentialPct float64 `json:"potentialPct"`
	//Run inhibition over the whole column space instead of per neighborhood
	GlobalInhibition bool `json:"globalInhibition"`
	//Desired density of active columns in an inhibition area. Mutually
	//exclusive with NumActiveColumnsPerInhArea, set to <= 0 when unused.
	LocalAreaDensity float64 `json:"localAreaDensity"`
	//Desired number of active columns per inhibition area. Mutually
	//exclusive with LocalAreaDensity, set to <= 0 when unused.
	NumActiveColumnsPerInhArea int `json:"numActiveColumnsPerInhArea"`
	//Minimum raw overlap for a column to be eligible for winning
	StimulusThreshold  int     `json:"stimulusThreshold"`
	SynPermInactiveDec float64 `json:"synPermInactiveDec"`
	SynPermActiveInc   float64 `json:"synPermActiveInc"`
	SynPermConnected   float64 `json:"synPermConnected"`
	//Fraction of the neighborhood max overlap duty cycle under which a column
	//is considered weak and has its permanences bumped
	MinPctOverlapDutyCycle float64 `json:"minPctOverlapDutyCycle"`
	DutyCyclePeriod        int     `json:"dutyCyclePeriod"`
	//0 disables boosting
	BoostStrength float64 `json:"boostStrength"`
	Seed          int64   `json:"seed"`
	WrapAround    bool    `json:"wrapAround"`

	//Number of iterations between inhibition radius and min duty cycle
	//recomputations
	UpdatePeriod int `json:"updatePeriod"`
	//Target fraction of potential synapses connected at construction
	InitConnectedPct float64 `json:"initConnectedPct"`
	//Reject numeric input values other than 0 and 1
	StrictInput bool `json:"strictInput"`
	//At inference drop winners that never won during learning
	StripUnlearnedColumns bool `json:"stripUnlearnedColumns"`
	SpVerbosity           int  `json:"spVerbosity"`
}

//Initializes spatial pooler params with default values
func NewSpParams() SpParams {
	return SpParams{
		InputDimensions:            []int{32, 32},
		ColumnDimensions:           []int{64, 64},
		PotentialRadius:            16,
		PotentialPct:               0.5,
		GlobalInhibition:           false,
		LocalAreaDensity:           -1.0,
		NumActiveColumnsPerInhArea: 10,
		StimulusThreshold:          0,
		SynPermInactiveDec:         0.008,
		SynPermActiveInc:           0.05,
		SynPermConnected:           0.10,
		MinPctOverlapDutyCycle:     0.001,
		DutyCyclePeriod:            1000,
		BoostStrength:              0.0,
		Seed:                       42,
		WrapAround:                 true,
		UpdatePeriod:               50,
		InitConnectedPct:           0.5,
	}
}

//Validates params, returns a *ConfigurationError naming the first
//offending parameter
func (p *SpParams) Validate() error {
	if err := validateDimensions("InputDimensions", p.InputDimensions); err != nil {
		return err
	}
	if err := validateDimensions("ColumnDimensions", p.ColumnDimensions); err != nil {
		return err
	}
	if len(p.InputDimensions) != len(p.ColumnDimensions) {
		return configErrorf("ColumnDimensions", "rank %v does not match input rank %v",
			len(p.ColumnDimensions), len(p.InputDimensions))
	}

	numColumns := 1
	for _, d := range p.ColumnDimensions {
		numColumns *= d
	}

	if p.PotentialRadius < 0 {
		return configErrorf("PotentialRadius", "must be >= 0, was %v", p.PotentialRadius)
	}
	if !(p.PotentialPct > 0 && p.PotentialPct <= 1) {
		return configErrorf("PotentialPct", "must be in (0,1], was %v", p.PotentialPct)
	}

	switch {
	case p.NumActiveColumnsPerInhArea > 0 && p.LocalAreaDensity > 0:
		return configErrorf("LocalAreaDensity", "conflicts with NumActiveColumnsPerInhArea, only one may be set")
	case p.NumActiveColumnsPerInhArea <= 0 && p.LocalAreaDensity <= 0:
		return configErrorf("NumActiveColumnsPerInhArea", "one of NumActiveColumnsPerInhArea or LocalAreaDensity must be > 0")
	case p.LocalAreaDensity > 0.5:
		return configErrorf("LocalAreaDensity", "must be <= 0.5, was %v", p.LocalAreaDensity)
	case p.NumActiveColumnsPerInhArea > numColumns:
		return configErrorf("NumActiveColumnsPerInhArea", "%v exceeds column count %v",
			p.NumActiveColumnsPerInhArea, numColumns)
	}
	if p.GlobalInhibition && p.LocalAreaDensity > 0 && int(p.LocalAreaDensity*float64(numColumns)) < 1 {
		return configErrorf("LocalAreaDensity", "%v selects no columns out of %v", p.LocalAreaDensity, numColumns)
	}

	if p.StimulusThreshold < 0 {
		return configErrorf("StimulusThreshold", "must be >= 0, was %v", p.StimulusThreshold)
	}
	if !(p.SynPermConnected > 0 && p.SynPermConnected < 1) {
		return configErrorf("SynPermConnected", "must be in (0,1), was %v", p.SynPermConnected)
	}
	if p.SynPermActiveInc < 0 || p.SynPermActiveInc > 1 {
		return configErrorf("SynPermActiveInc", "must be in [0,1], was %v", p.SynPermActiveInc)
	}
	if p.SynPermInactiveDec < 0 || p.SynPermInactiveDec > 1 {
		return configErrorf("SynPermInactiveDec", "must be in [0,1], was %v", p.SynPermInactiveDec)
	}
	if p.MinPctOverlapDutyCycle < 0 || p.MinPctOverlapDutyCycle > 1 {
		return configErrorf("MinPctOverlapDutyCycle", "must be in [0,1], was %v", p.MinPctOverlapDutyCycle)
	}
	if p.DutyCyclePeriod < 1 {
		return configErrorf("DutyCyclePeriod", "must be >= 1, was %v", p.DutyCyclePeriod)
	}
	if p.BoostStrength < 0 || math.IsInf(p.BoostStrength, 0) || math.IsNaN(p.BoostStrength) {
		return configErrorf("BoostStrength", "must be a finite value >= 0, was %v", p.BoostStrength)
	}
	if p.UpdatePeriod < 1 {
		return configErrorf("UpdatePeriod", "must be >= 1, was %v", p.UpdatePeriod)
	}
	if p.InitConnectedPct < 0 || p.InitConnectedPct > 1 {
		return configErrorf("InitConnectedPct", "must be in [0,1], was %v", p.InitConnectedPct)
	}

	return nil
}

func validateDimensions(name string, dims []int) error {
	if len(dims) < 1 {
		return configErrorf(name, "must have at least one dimension")
	}
	for i, d := range dims {
		if d <= 0 {
			return configErrorf(name, "dimension %v must be > 0, was %v", i, d)
		}
	}
	return nil
}

//Returns a deep copy, dimension slices are not shared
func (p SpParams) clone() SpParams {
	result := p
	result.InputDimensions = append([]int(nil), p.InputDimensions...)
	result.ColumnDimensions = append([]int(nil), p.ColumnDimensions...)
	return result
}
