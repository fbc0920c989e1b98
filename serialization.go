package htm

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
)

const snapshotVersion = 1

//Default upper bound on the size of a serialized snapshot accepted by Load
const DefaultMaxSnapshotSize = 2 * datasize.GB

/*
StateBlob holds everything needed to resume a spatial pooler: construction
params, potential pools, permanences (aligned with the pool indices of
each column), duty cycles, boost factors, counters and the random
generator state.
*/
type StateBlob struct {
	Version              int         `json:"version"`
	Params               SpParams    `json:"params"`
	NumInputs            int         `json:"numInputs"`
	NumColumns           int         `json:"numColumns"`
	PotentialPools       [][]int     `json:"potentialPools"`
	Permanences          [][]float64 `json:"permanences"`
	OverlapDutyCycles    []float64   `json:"overlapDutyCycles"`
	ActiveDutyCycles     []float64   `json:"activeDutyCycles"`
	MinOverlapDutyCycles []float64   `json:"minOverlapDutyCycles"`
	BoostFactors         []float64   `json:"boostFactors"`
	InhibitionRadius     int         `json:"inhibitionRadius"`
	IterationNum         int         `json:"iterationNum"`
	IterationLearnNum    int         `json:"iterationLearnNum"`
	RandState            []byte      `json:"randState"`
}

type LoadOptions struct {
	//Snapshots larger than this are rejected, 0 uses DefaultMaxSnapshotSize
	MaxSize datasize.ByteSize
}

//Captures the complete mutable state of the spatial pooler. The returned
//blob shares no memory with the spatial pooler.
func (sp *SpatialPooler) Snapshot() (*StateBlob, error) {
	randState, err := sp.rngSource.MarshalBinary()
	if err != nil {
		return nil, err
	}

	blob := &StateBlob{
		Version:              snapshotVersion,
		Params:               sp.SpParams.clone(),
		NumInputs:            sp.numInputs,
		NumColumns:           sp.numColumns,
		PotentialPools:       make([][]int, sp.numColumns),
		Permanences:          make([][]float64, sp.numColumns),
		OverlapDutyCycles:    sp.OverlapDutyCycles(),
		ActiveDutyCycles:     sp.ActiveDutyCycles(),
		MinOverlapDutyCycles: sp.MinOverlapDutyCycles(),
		BoostFactors:         sp.BoostFactors(),
		InhibitionRadius:     sp.inhibitionRadius,
		IterationNum:         sp.IterationNum,
		IterationLearnNum:    sp.IterationLearnNum,
		RandState:            randState,
	}

	for c := 0; c < sp.numColumns; c++ {
		pool := sp.PotentialPool(c)
		perm := make([]float64, len(pool))
		for i, idx := range pool {
			perm[i] = sp.permanences.Get(c, idx)
		}
		blob.PotentialPools[c] = pool
		blob.Permanences[c] = perm
	}

	return blob, nil
}

//Reconstructs a spatial pooler from a snapshot. Returns a
//*CorruptStateError when the blob has a different version or its arrays
//do not match the declared dimensions.
func Restore(blob *StateBlob) (*SpatialPooler, error) {
	if err := blob.validate(); err != nil {
		return nil, err
	}

	sp := newSpatialPoolerShell(blob.Params)
	if err := sp.rngSource.UnmarshalBinary(blob.RandState); err != nil {
		return nil, corruptErrorf("random generator state: %v", err)
	}

	for c := 0; c < sp.numColumns; c++ {
		sp.potentialPools.ReplaceRowByIndices(c, blob.PotentialPools[c])
		for i, idx := range blob.PotentialPools[c] {
			sp.permanences.Set(c, idx, blob.Permanences[c][i])
		}
	}

	copy(sp.overlapDutyCycles, blob.OverlapDutyCycles)
	copy(sp.activeDutyCycles, blob.ActiveDutyCycles)
	copy(sp.minOverlapDutyCycles, blob.MinOverlapDutyCycles)
	copy(sp.boostFactors, blob.BoostFactors)
	sp.inhibitionRadius = blob.InhibitionRadius
	sp.IterationNum = blob.IterationNum
	sp.IterationLearnNum = blob.IterationLearnNum

	return sp, nil
}

func (blob *StateBlob) validate() error {
	if blob == nil {
		return corruptErrorf("nil state")
	}
	if blob.Version != snapshotVersion {
		return corruptErrorf("version %v, expected %v", blob.Version, snapshotVersion)
	}
	if err := blob.Params.Validate(); err != nil {
		return corruptErrorf("params: %v", err)
	}

	numInputs := NewTopology(blob.Params.InputDimensions).Size()
	numColumns := NewTopology(blob.Params.ColumnDimensions).Size()
	if blob.NumInputs != numInputs {
		return corruptErrorf("numInputs %v does not match input dimensions %v", blob.NumInputs, blob.Params.InputDimensions)
	}
	if blob.NumColumns != numColumns {
		return corruptErrorf("numColumns %v does not match column dimensions %v", blob.NumColumns, blob.Params.ColumnDimensions)
	}

	if len(blob.PotentialPools) != numColumns {
		return corruptErrorf("%v potential pools for %v columns", len(blob.PotentialPools), numColumns)
	}
	if len(blob.Permanences) != numColumns {
		return corruptErrorf("%v permanence rows for %v columns", len(blob.Permanences), numColumns)
	}
	for c, pool := range blob.PotentialPools {
		if len(pool) == 0 {
			return corruptErrorf("column %v has an empty potential pool", c)
		}
		if len(blob.Permanences[c]) != len(pool) {
			return corruptErrorf("column %v has %v permanences for %v potential synapses", c, len(blob.Permanences[c]), len(pool))
		}
		for i, idx := range pool {
			if idx < 0 || idx >= numInputs {
				return corruptErrorf("column %v potential input %v out of range", c, idx)
			}
			if i > 0 && idx <= pool[i-1] {
				return corruptErrorf("column %v potential pool is not strictly ascending", c)
			}
			p := blob.Permanences[c][i]
			if math.IsNaN(p) || p < 0 || p > 1 {
				return corruptErrorf("column %v permanence %v out of range [0,1]", c, p)
			}
		}
	}

	columnArrays := []struct {
		name   string
		values []float64
	}{
		{"overlapDutyCycles", blob.OverlapDutyCycles},
		{"activeDutyCycles", blob.ActiveDutyCycles},
		{"minOverlapDutyCycles", blob.MinOverlapDutyCycles},
		{"boostFactors", blob.BoostFactors},
	}
	for _, arr := range columnArrays {
		if len(arr.values) != numColumns {
			return corruptErrorf("%v has length %v, expected %v", arr.name, len(arr.values), numColumns)
		}
		for _, val := range arr.values {
			if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
				return corruptErrorf("%v holds invalid value %v", arr.name, val)
			}
		}
	}

	if blob.InhibitionRadius < 0 {
		return corruptErrorf("negative inhibition radius %v", blob.InhibitionRadius)
	}
	if blob.IterationNum < 0 || blob.IterationLearnNum < 0 || blob.IterationLearnNum > blob.IterationNum {
		return corruptErrorf("invalid iteration counters %v/%v", blob.IterationNum, blob.IterationLearnNum)
	}
	if len(blob.RandState) == 0 {
		return corruptErrorf("missing random generator state")
	}

	return nil
}

//Writes a json encoded snapshot to w
func (sp *SpatialPooler) Save(w io.Writer) error {
	blob, err := sp.Snapshot()
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(blob)
}

//Reads a snapshot written by Save and restores it
func Load(r io.Reader, opts LoadOptions) (*SpatialPooler, error) {
	maxSize := opts.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSnapshotSize
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > uint64(maxSize) {
		return nil, corruptErrorf("snapshot exceeds maximum size %v", maxSize.HumanReadable())
	}

	blob := new(StateBlob)
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(blob); err != nil {
		return nil, corruptErrorf("decoding snapshot: %v", err)
	}
	return Restore(blob)
}

//Saves a snapshot to path. The snapshot is written to a temporary file in
//the same directory and renamed into place, a failed write leaves any
//existing file at path untouched.
func (sp *SpatialPooler) SaveFile(path string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	if err = sp.Save(w); err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		sp.logger.Error("saving snapshot failed", "path", path, "error", err)
		return err
	}

	return os.Rename(f.Name(), path)
}

//Loads a snapshot saved with SaveFile
func LoadFile(path string, opts LoadOptions) (sp *SpatialPooler, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			sp = nil
		}
	}()

	return Load(bufio.NewReader(f), opts)
}
