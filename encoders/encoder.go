package encoders

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParams = errors.New("invalid encoder params")
	ErrOutOfRange    = errors.New("encoder input out of range")
)

/*
 A value encoder takes a value and encodes it with a partial sparse representation
of bits.
*/
type ValueEncoder interface {
	//Width in bits
	GetWidth() int
	GetName() string
	//Writes the encoding of input into output, output must be GetWidth() long
	EncodeIntoArray(input float64, output []bool) error
}

//Encodes multivariable input by concatenating the output of its value
//encoders, in order
type Encoder struct {
	Encoders []ValueEncoder
}

func NewEncoder(encoders ...ValueEncoder) *Encoder {
	return &Encoder{Encoders: encoders}
}

func (e *Encoder) Width() int {
	result := 0
	for _, val := range e.Encoders {
		result += val.GetWidth()
	}
	return result
}

//Encodes one value per value encoder into a single bit vector
func (e *Encoder) Encode(values []float64) ([]bool, error) {
	if len(values) != len(e.Encoders) {
		return nil, fmt.Errorf("%w: %v values for %v encoders", ErrInvalidParams, len(values), len(e.Encoders))
	}

	output := make([]bool, e.Width())
	offset := 0
	for i, enc := range e.Encoders {
		width := enc.GetWidth()
		if err := enc.EncodeIntoArray(values[i], output[offset:offset+width]); err != nil {
			return nil, fmt.Errorf("field %v: %w", enc.GetName(), err)
		}
		offset += width
	}
	return output, nil
}
