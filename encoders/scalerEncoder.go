package encoders

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/htm-community/spatialpooler/utils"
)

/*
 n -- The number of bits in the output. Must be greater than or equal to w

radius -- Two inputs separated by more than the radius have non-overlapping
representations. Two inputs separated by less than the radius will
in general overlap in at least some of their bits. You can think
of this as the radius of the input.

resolution -- Two inputs separated by greater than, or equal to the resolution are guaranteed
to have different representations.

Exactly one of N, Radius or Resolution must be set.
*/
type ScalerEncoderParams struct {
	Width      int
	MinVal     float64
	MaxVal     float64
	Periodic   bool
	N          int
	Radius     float64
	Resolution float64
	Name       string
	//Clip out of range values to the range instead of failing,
	//never applies to periodic encoders
	ClipInput bool
	Verbosity int
}

func NewScalerEncoderParams(width int, minVal float64, maxVal float64) *ScalerEncoderParams {
	p := new(ScalerEncoderParams)
	p.Width = width
	p.MinVal = minVal
	p.MaxVal = maxVal
	p.Name = "scaler"
	return p
}

/*
 A scalar encoder encodes a numeric (floating point) value into an array
of bits. The output is 0's except for a contiguous block of 1's. The
location of this contiguous block varies continuously with the input value.

The encoding is linear. If you want a nonlinear encoding, just transform
the scalar (e.g. by applying a logarithm function) before encoding.
It is not recommended to bin the data as a pre-processing step, e.g.
"1" = $0 - $.20, "2" = $.21-$0.80, "3" = $.81-$1.20, etc. as this
removes a lot of information and prevents nearby values from overlapping
in the output. Instead, use a continuous transformation that scales
the data (a piecewise transformation is fine).
*/
type ScalerEncoder struct {
	ScalerEncoderParams

	padding       int
	halfWidth     int
	rangeInternal float64
	valueRange    float64
	resolution    float64
	radius        float64
	n             int
	//nInternal represents the output area excluding the possible padding on each
	//side
	nInternal int

	logger *slog.Logger
}

func NewScalerEncoder(p *ScalerEncoderParams) (*ScalerEncoder, error) {
	se := new(ScalerEncoder)
	se.ScalerEncoderParams = *p
	se.logger = slog.Default().With(slog.String("component", "encoder"), slog.String("name", p.Name))

	if p.Width <= 0 || p.Width%2 == 0 {
		return nil, fmt.Errorf("%w: width must be a positive odd number, was %v", ErrInvalidParams, p.Width)
	}
	if p.MinVal >= p.MaxVal {
		return nil, fmt.Errorf("%w: MinVal %v must be less than MaxVal %v", ErrInvalidParams, p.MinVal, p.MaxVal)
	}

	se.halfWidth = (p.Width - 1) / 2
	if !p.Periodic {
		se.padding = se.halfWidth
	}
	se.rangeInternal = p.MaxVal - p.MinVal

	set := 0
	for _, v := range []bool{p.N != 0, p.Radius != 0, p.Resolution != 0} {
		if v {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: exactly one of N, Radius or Resolution must be set", ErrInvalidParams)
	}

	if p.N != 0 {
		if p.N <= p.Width {
			return nil, fmt.Errorf("%w: N %v must be greater than width %v", ErrInvalidParams, p.N, p.Width)
		}
		se.n = p.N
		if p.Periodic {
			se.resolution = se.rangeInternal / float64(se.n)
		} else {
			se.resolution = se.rangeInternal / float64(se.n-p.Width)
		}
		se.radius = float64(p.Width) * se.resolution
		se.valueRange = se.rangeInternal
		if !p.Periodic {
			se.valueRange += se.resolution
		}
	} else {
		if p.Radius != 0 {
			se.radius = p.Radius
			se.resolution = se.radius / float64(p.Width)
		} else {
			se.resolution = p.Resolution
			se.radius = se.resolution * float64(p.Width)
		}
		if se.radius <= 0 {
			return nil, fmt.Errorf("%w: radius and resolution must be positive", ErrInvalidParams)
		}
		se.valueRange = se.rangeInternal
		if !p.Periodic {
			se.valueRange += se.resolution
		}
		nfloat := float64(p.Width)*(se.valueRange/se.radius) + 2*float64(se.padding)
		se.n = int(math.Ceil(nfloat))
	}

	se.nInternal = se.n - 2*se.padding

	if se.Verbosity > 0 {
		se.logger.Info("scaler encoder initialized",
			slog.Int("n", se.n),
			slog.Int("width", se.Width),
			slog.Float64("resolution", se.resolution),
			slog.Float64("radius", se.radius),
			slog.Bool("periodic", se.Periodic))
	}

	return se, nil
}

func (se *ScalerEncoder) GetWidth() int {
	return se.n
}

func (se *ScalerEncoder) GetName() string {
	return se.Name
}

func (se *ScalerEncoder) Resolution() float64 {
	return se.resolution
}

/* Return the bit offset of the first bit to be set in the encoder output.
For periodic encoders, this can be a negative number when the encoded output
wraps around. */
func (se *ScalerEncoder) getFirstOnBit(input float64) (int, error) {
	if math.IsNaN(input) {
		return 0, fmt.Errorf("%w: NaN", ErrOutOfRange)
	}

	if input < se.MinVal {
		//Don't clip periodic inputs. Out-of-range input is always an error
		if !se.ClipInput || se.Periodic {
			return 0, fmt.Errorf("%w: %v less than range %v - %v", ErrOutOfRange, input, se.MinVal, se.MaxVal)
		}
		if se.Verbosity > 0 {
			se.logger.Info("clipped input to minval", slog.Float64("input", input), slog.Float64("minVal", se.MinVal))
		}
		input = se.MinVal
	}

	if se.Periodic {
		if input >= se.MaxVal {
			return 0, fmt.Errorf("%w: %v greater than periodic range %v - %v", ErrOutOfRange, input, se.MinVal, se.MaxVal)
		}
	} else if input > se.MaxVal {
		if !se.ClipInput {
			return 0, fmt.Errorf("%w: %v greater than range %v - %v", ErrOutOfRange, input, se.MinVal, se.MaxVal)
		}
		if se.Verbosity > 0 {
			se.logger.Info("clipped input to maxval", slog.Float64("input", input), slog.Float64("maxVal", se.MaxVal))
		}
		input = se.MaxVal
	}

	var centerbin int
	if se.Periodic {
		centerbin = int((input-se.MinVal)*float64(se.nInternal)/se.valueRange) + se.padding
	} else {
		centerbin = int(((input-se.MinVal)+se.resolution/2)/se.resolution) + se.padding
	}

	// We use the first bit to be set in the encoded output as the bucket index
	return centerbin - se.halfWidth, nil
}

/*
 Returns bucket index for given input. For periodic encoders the bucket
index is the index of the center bit, otherwise the index of the left bit.
*/
func (se *ScalerEncoder) GetBucketIndex(input float64) (int, error) {
	minbin, err := se.getFirstOnBit(input)
	if err != nil {
		return 0, err
	}

	if !se.Periodic {
		return minbin, nil
	}
	return utils.Mod(minbin+se.halfWidth, se.n), nil
}

func (se *ScalerEncoder) Encode(input float64) ([]bool, error) {
	output := make([]bool, se.n)
	if err := se.EncodeIntoArray(input, output); err != nil {
		return nil, err
	}
	return output, nil
}

func (se *ScalerEncoder) EncodeIntoArray(input float64, output []bool) error {
	if len(output) != se.n {
		return fmt.Errorf("%w: output length %v, expected %v", ErrInvalidParams, len(output), se.n)
	}

	// The bucket index is the index of the first bit to set in the output
	minbin, err := se.getFirstOnBit(input)
	if err != nil {
		return err
	}
	maxbin := minbin + 2*se.halfWidth

	utils.FillSliceBool(output, false)

	if se.Periodic {
		// Handle the edges by computing wrap-around
		if maxbin >= se.n {
			bottombins := maxbin - se.n + 1
			utils.FillSliceRangeBool(output, true, 0, bottombins)
			maxbin = se.n - 1
		}
		if minbin < 0 {
			topbins := -minbin
			utils.FillSliceRangeBool(output, true, se.n-topbins, topbins)
			minbin = 0
		}
	}

	// set the output (except for periodic wraparound)
	utils.FillSliceRangeBool(output, true, minbin, maxbin-minbin+1)

	if se.Verbosity >= 2 {
		se.logger.Debug("encoded",
			slog.Float64("input", input),
			slog.Any("onBits", utils.OnIndices(output)))
	}

	return nil
}
