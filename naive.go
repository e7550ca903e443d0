package forecastate

import (
	"fmt"

	"github.com/aouyang1/go-forecastate/tensor"
)

// Naive is the persistence baseline: every forecasted step repeats the last
// observed time step of its input window. It is the reference model other
// forecasters are compared against.
type Naive struct {
	opt *Params
}

// NewNaive creates a persistence forecaster. If no parameters are provided a
// default is used.
func NewNaive(opt *Params) (*Naive, error) {
	if opt == nil {
		opt = NewDefaultParams()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Naive{opt: opt}, nil
}

// PredictOneStep repeats the last row of each window horizon times. The
// window length is not required to match the configured look back so rolling
// windows assembled from prior predictions can still be forecast.
func (na *Naive) PredictOneStep(batch *tensor.Dense) (*tensor.Dense, error) {
	n, steps, features := batch.Dims()
	if steps < 1 {
		return nil, fmt.Errorf("need at least one observed step, %w", ErrInvalidShape)
	}
	pred, err := tensor.New(n, na.opt.Horizon, features)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < na.opt.Horizon; j++ {
			for k := 0; k < features; k++ {
				pred.Set(i, j, k, batch.At(i, steps-1, k))
			}
		}
	}
	return pred, nil
}
