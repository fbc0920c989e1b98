package htm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getConnected(perm []float64, sp *SpatialPooler) (int, []bool) {
	numcon := 0
	connected := make([]bool, len(perm))
	for i := 0; i < len(perm); i++ {
		if perm[i] >= sp.SynPermConnected {
			numcon++
			connected[i] = true
		}
	}

	return numcon, connected
}

func newTestSp(t *testing.T, params SpParams) *SpatialPooler {
	sp, err := NewSpatialPooler(params)
	require.NoError(t, err)
	return sp
}

func TestPermanenceInit(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{10}
	params.ColumnDimensions = []int{1}
	params.NumActiveColumnsPerInhArea = 1
	params.PotentialRadius = 2
	params.PotentialPct = 1
	params.SynPermConnected = 0.1
	params.SynPermActiveInc = 0.1
	sp := newTestSp(t, params)

	mask := []int{0, 1, 2, 8, 9}
	perm := sp.initPermanence(0, mask, 1.0)
	numcon, _ := getConnected(perm, sp)
	assert.Equal(t, 5, numcon)

	maxThresh := sp.SynPermConnected + sp.SynPermActiveInc/4
	for i, val := range perm {
		if val > maxThresh {
			t.Errorf("perm %v was %v higher than threshold", i, val)
		}
	}

	perm = sp.initPermanence(0, mask, 0)
	numcon, _ = getConnected(perm, sp)
	assert.Equal(t, 0, numcon)
	for _, idx := range mask {
		assert.True(t, perm[idx] == 0 || perm[idx] >= sp.SynPermTrimThreshold,
			"perm %v below trim threshold", perm[idx])
	}

	// Inputs outside the pool are never given a permanence
	for _, idx := range []int{3, 4, 5, 6, 7} {
		assert.Equal(t, 0.0, perm[idx])
	}

	params.InputDimensions = []int{100}
	params.PotentialRadius = 100
	sp = newTestSp(t, params)
	mask = make([]int, 100)
	for i := range mask {
		mask[i] = i
	}

	perm = sp.initPermanence(0, mask, 0.5)
	numcon, connected := getConnected(perm, sp)
	assert.True(t, numcon > 0, "numcon was %v expected greater than 0", numcon)
	assert.True(t, numcon < sp.numInputs, "numcon was %v expected less than inputs count", numcon)

	for i, val := range perm {
		if connected[i] {
			assert.True(t, val <= maxThresh)
			continue
		}
		assert.True(t, val == 0 || val >= sp.SynPermTrimThreshold, "perm %v was %v", i, val)
		assert.True(t, val < sp.SynPermConnected)
	}
}

func TestInitPermanenceFavorsCenter(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{200}
	params.ColumnDimensions = []int{1}
	params.NumActiveColumnsPerInhArea = 1
	params.PotentialRadius = 100
	params.PotentialPct = 1
	params.WrapAround = false
	sp := newTestSp(t, params)

	// column 0 maps to input 100
	near, far := 0, 0
	for trial := 0; trial < 20; trial++ {
		pool := sp.PotentialPool(0)
		perm := sp.initPermanence(0, pool, 0.5)
		for _, idx := range pool {
			if !sp.isConnected(perm[idx]) {
				continue
			}
			if idx >= 75 && idx < 125 {
				near++
			} else if idx < 25 || idx >= 175 {
				far++
			}
		}
	}
	assert.True(t, near > far, "near %v far %v", near, far)
}

func TestRaisePermanenceThreshold(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{5}
	params.ColumnDimensions = []int{5}
	params.NumActiveColumnsPerInhArea = 1
	sp := newTestSp(t, params)

	sp.SynPermConnected = 0.1
	sp.StimulusThreshold = 3
	sp.SynPermBelowStimulusInc = 0.01
	sp.SynPermMin = 0
	sp.SynPermMax = 1

	p := [][]float64{
		{0.0, 0.11, 0.095, 0.092, 0.01},
		{0.12, 0.15, 0.02, 0.12, 0.09},
		{0.51, 0.081, 0.025, 0.089, 0.31},
		{0.18, 0.0601, 0.11, 0.011, 0.03},
		{0.011, 0.011, 0.011, 0.011, 0.011},
	}

	truePermanences := [][]float64{
		{0.01, 0.12, 0.105, 0.102, 0.02},
		{0.12, 0.15, 0.02, 0.12, 0.09},
		{0.53, 0.101, 0.045, 0.109, 0.33},
		{0.22, 0.1001, 0.15, 0.051, 0.07},
		{0.101, 0.101, 0.101, 0.101, 0.101},
	}

	maskPP := []int{0, 1, 2, 3, 4}

	for i, perm := range p {
		sp.raisePermanenceToThreshold(perm, maskPP)
		for j := range perm {
			assert.InDelta(t, truePermanences[i][j], perm[j], 1e-9, "column %v input %v", i, j)
		}
	}
}

func TestRaisePermanenceSmallPool(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{5}
	params.ColumnDimensions = []int{5}
	params.NumActiveColumnsPerInhArea = 1
	sp := newTestSp(t, params)
	sp.StimulusThreshold = 3

	// A pool smaller than the threshold can never reach it and is left alone
	perm := []float64{0.01, 0.02, 0, 0, 0}
	sp.raisePermanenceToThreshold(perm, []int{0, 1})
	assert.Equal(t, []float64{0.01, 0.02, 0, 0, 0}, perm)
}

func TestStimulusThresholdExceedsPool(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{10}
	params.ColumnDimensions = []int{10}
	params.NumActiveColumnsPerInhArea = 2
	params.PotentialRadius = 1
	params.PotentialPct = 1
	params.StimulusThreshold = 5

	_, err := NewSpatialPooler(params)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "StimulusThreshold", cfgErr.Param)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestStripNever(t *testing.T) {
	sp := SpatialPooler{}

	sp.activeDutyCycles = []float64{0.5, 0.1, 0, 0.2, 0.4, 0}
	activeColumns := []int{0, 1, 2, 4}
	stripped := sp.stripNeverLearned(activeColumns)
	assert.Equal(t, []int{0, 1, 4}, stripped)

	sp.activeDutyCycles = []float64{0.9, 0, 0, 0, 0.4, 0.3}
	activeColumns = []int{0, 1, 2, 3, 4, 5}
	stripped = sp.stripNeverLearned(activeColumns)
	assert.Equal(t, []int{0, 4, 5}, stripped)

	sp.activeDutyCycles = []float64{0, 0, 0, 0, 0, 0}
	stripped = sp.stripNeverLearned(activeColumns)
	assert.Empty(t, stripped)

	sp.activeDutyCycles = []float64{1, 1, 1, 1, 1, 1}
	stripped = sp.stripNeverLearned(activeColumns)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, stripped)
}

func TestMapPotential(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{12}
	params.ColumnDimensions = []int{4}
	params.NumActiveColumnsPerInhArea = 1
	params.PotentialRadius = 2
	params.PotentialPct = 1
	params.WrapAround = false
	sp := newTestSp(t, params)

	// column 0 maps to input 1, column 3 to input 10
	assert.Equal(t, []int{0, 1, 2, 3}, sp.PotentialPool(0))
	assert.Equal(t, []int{2, 3, 4, 5, 6}, sp.PotentialPool(1))
	assert.Equal(t, []int{8, 9, 10, 11}, sp.PotentialPool(3))

	params.WrapAround = true
	sp = newTestSp(t, params)
	assert.Equal(t, []int{0, 1, 2, 3, 11}, sp.PotentialPool(0))
	assert.Equal(t, []int{0, 8, 9, 10, 11}, sp.PotentialPool(3))
}

func TestMapPotentialSampling(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{100}
	params.ColumnDimensions = []int{10}
	params.NumActiveColumnsPerInhArea = 1
	params.PotentialRadius = 100
	params.PotentialPct = 0.5
	sp := newTestSp(t, params)

	for c := 0; c < sp.NumColumns(); c++ {
		pool := sp.PotentialPool(c)
		for i := 1; i < len(pool); i++ {
			assert.True(t, pool[i] > pool[i-1], "column %v pool not ascending", c)
		}
		// the whole input space is within reach, half of it is sampled
		assert.Len(t, pool, 50)
	}
}

//Pool sizes follow from the params alone, so construction succeeds for
//every seed
func TestPotentialPoolSizeIndependentOfSeed(t *testing.T) {
	cases := []struct {
		inputs, columns []int
		radius          int
		threshold       int
		poolSize        int
	}{
		// 5 inputs, round(0.5*5) = 3
		{[]int{5}, []int{5}, 16, 2, 3},
		// 3x3 neighborhood, round(0.5*9) = 5
		{[]int{32, 32}, []int{16, 16}, 1, 3, 5},
		// threshold above the sampled fraction raises the pool size
		{[]int{32, 32}, []int{16, 16}, 1, 7, 7},
		// a neighborhood of exactly the threshold is taken whole
		{[]int{3}, []int{3}, 16, 3, 3},
	}

	for _, tc := range cases {
		for seed := int64(0); seed < 20; seed++ {
			params := NewSpParams()
			params.InputDimensions = tc.inputs
			params.ColumnDimensions = tc.columns
			params.NumActiveColumnsPerInhArea = 1
			params.PotentialRadius = tc.radius
			params.PotentialPct = 0.5
			params.StimulusThreshold = tc.threshold
			params.Seed = seed

			sp, err := NewSpatialPooler(params)
			require.NoError(t, err, "inputs %v seed %v", tc.inputs, seed)
			for c := 0; c < sp.NumColumns(); c++ {
				pool := sp.PotentialPool(c)
				require.Len(t, pool, tc.poolSize, "inputs %v seed %v column %v", tc.inputs, seed, c)
				for i := 1; i < len(pool); i++ {
					require.True(t, pool[i] > pool[i-1])
				}
			}
		}
	}
}

func TestPotentialPoolsFixed(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{20}
	params.ColumnDimensions = []int{10}
	params.NumActiveColumnsPerInhArea = 2
	params.GlobalInhibition = true
	params.PotentialPct = 0.5
	sp := newTestSp(t, params)

	pools := make([][]int, sp.NumColumns())
	for c := range pools {
		pools[c] = sp.PotentialPool(c)
	}

	rng := newTestRand(3)
	y := make([]bool, sp.NumColumns())
	for i := 0; i < 100; i++ {
		require.NoError(t, sp.Compute(randomInput(rng, sp.NumInputs(), 0.3), true, y, nil))
	}

	for c := range pools {
		assert.Equal(t, pools[c], sp.PotentialPool(c))
		perm := sp.Permanence(c)
		inPool := make(map[int]bool)
		for _, idx := range pools[c] {
			inPool[idx] = true
		}
		for idx, val := range perm {
			if !inPool[idx] {
				assert.Equal(t, 0.0, val, "column %v has permanence outside its pool", c)
			}
		}
	}
}

func TestParamsValidation(t *testing.T) {
	cases := []struct {
		name   string
		param  string
		modify func(p *SpParams)
	}{
		{"empty input dims", "InputDimensions", func(p *SpParams) { p.InputDimensions = nil }},
		{"zero column dim", "ColumnDimensions", func(p *SpParams) { p.ColumnDimensions = []int{10, 0} }},
		{"rank mismatch", "ColumnDimensions", func(p *SpParams) { p.ColumnDimensions = []int{64} }},
		{"negative radius", "PotentialRadius", func(p *SpParams) { p.PotentialRadius = -1 }},
		{"zero potential pct", "PotentialPct", func(p *SpParams) { p.PotentialPct = 0 }},
		{"potential pct above one", "PotentialPct", func(p *SpParams) { p.PotentialPct = 1.5 }},
		{"both sparsity targets", "LocalAreaDensity", func(p *SpParams) { p.LocalAreaDensity = 0.1 }},
		{"no sparsity target", "NumActiveColumnsPerInhArea", func(p *SpParams) { p.NumActiveColumnsPerInhArea = 0 }},
		{"density too high", "LocalAreaDensity", func(p *SpParams) {
			p.NumActiveColumnsPerInhArea = 0
			p.LocalAreaDensity = 0.6
		}},
		{"too many active", "NumActiveColumnsPerInhArea", func(p *SpParams) { p.NumActiveColumnsPerInhArea = 64*64 + 1 }},
		{"global density selects nothing", "LocalAreaDensity", func(p *SpParams) {
			p.ColumnDimensions = []int{10, 10}
			p.GlobalInhibition = true
			p.NumActiveColumnsPerInhArea = 0
			p.LocalAreaDensity = 0.001
		}},
		{"negative threshold", "StimulusThreshold", func(p *SpParams) { p.StimulusThreshold = -1 }},
		{"connected at one", "SynPermConnected", func(p *SpParams) { p.SynPermConnected = 1 }},
		{"negative increment", "SynPermActiveInc", func(p *SpParams) { p.SynPermActiveInc = -0.1 }},
		{"decrement above one", "SynPermInactiveDec", func(p *SpParams) { p.SynPermInactiveDec = 2 }},
		{"min pct above one", "MinPctOverlapDutyCycle", func(p *SpParams) { p.MinPctOverlapDutyCycle = 1.1 }},
		{"zero duty cycle period", "DutyCyclePeriod", func(p *SpParams) { p.DutyCyclePeriod = 0 }},
		{"negative boost", "BoostStrength", func(p *SpParams) { p.BoostStrength = -1 }},
		{"zero update period", "UpdatePeriod", func(p *SpParams) { p.UpdatePeriod = 0 }},
		{"init connected above one", "InitConnectedPct", func(p *SpParams) { p.InitConnectedPct = 1.2 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			params := NewSpParams()
			c.modify(&params)
			_, err := NewSpatialPooler(params)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "unexpected error type %T", err)
			assert.Equal(t, c.param, cfgErr.Param)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}

	params := NewSpParams()
	assert.NoError(t, params.Validate())
}

func TestParamsCopied(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{10}
	params.ColumnDimensions = []int{5}
	params.NumActiveColumnsPerInhArea = 1
	sp := newTestSp(t, params)

	params.InputDimensions[0] = 99
	assert.Equal(t, []int{10}, sp.InputDimensions)
	assert.Equal(t, 10, sp.NumInputs())
	assert.Equal(t, 5, sp.NumColumns())
}

func TestInitialState(t *testing.T) {
	params := NewSpParams()
	params.InputDimensions = []int{16, 16}
	params.ColumnDimensions = []int{8, 8}
	params.PotentialRadius = 4
	params.StimulusThreshold = 2
	sp := newTestSp(t, params)

	for _, val := range sp.BoostFactors() {
		assert.Equal(t, 1.0, val)
	}
	for _, val := range sp.ActiveDutyCycles() {
		assert.Equal(t, 0.0, val)
	}
	for c, count := range sp.ConnectedCounts() {
		assert.True(t, count >= sp.StimulusThreshold, "column %v has %v connected synapses", c, count)
	}
	assert.True(t, sp.InhibitionRadius() >= 1)
	assert.Equal(t, 0, sp.IterationNum)
}
