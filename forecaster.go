package forecastate

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-forecastate/tensor"
)

var (
	ErrInvalidShape = errors.New("tensor has an unsupported shape")
	ErrNoModel      = errors.New("no forecasting model provided")
)

// Model is the single capability required of any forecasting model: given a
// batch of input windows shaped (batch, look_back, features), predict one
// native horizon shaped (batch, horizon, features). The forecaster performs
// no other interaction with the model.
type Model interface {
	PredictOneStep(batch *tensor.Dense) (*tensor.Dense, error)
}

// Forecaster drives a fixed horizon Model, extending it to arbitrary length
// forecasts by feeding predictions back as input. Each instance holds only
// read-only configuration so independent Forecast calls do not interfere.
type Forecaster struct {
	opt   *Params
	model Model
}

// New creates a Forecaster around the given model. If no parameters are
// provided a default is used.
func New(model Model, opt *Params) (*Forecaster, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	if opt == nil {
		opt = NewDefaultParams()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Forecaster{
		opt:   opt,
		model: model,
	}, nil
}

// Forecast predicts the next length steps for every window in data. The
// trailing window length must equal the configured look back length. When
// length is larger than the native horizon the model is invoked repeatedly
// on a rolling window built from its own predictions, and the accumulated
// forecast is truncated to exactly length steps. A non-positive length
// defaults to the native horizon.
func (f *Forecaster) Forecast(data *tensor.Dense, length int) (*tensor.Dense, error) {
	if data == nil {
		return nil, fmt.Errorf("nil input tensor, %w", ErrInvalidShape)
	}
	n, steps, features := data.Dims()
	if steps != f.opt.LookBackLength {
		return nil, fmt.Errorf(
			"window length %d does not match look back length %d, %w",
			steps, f.opt.LookBackLength, ErrInvalidShape,
		)
	}
	if features != f.opt.NFeatures {
		return nil, fmt.Errorf(
			"feature count %d does not match configured %d, %w",
			features, f.opt.NFeatures, ErrInvalidShape,
		)
	}
	if length <= 0 {
		length = f.opt.Horizon
	}

	if length <= f.opt.Horizon {
		pred, err := f.predictOneStep(data, n)
		if err != nil {
			return nil, err
		}
		if length < f.opt.Horizon {
			return pred.HeadSteps(length)
		}
		return pred, nil
	}

	// Iterative composition: drop the oldest horizon steps from the rolling
	// window, append the latest prediction, and repeat until enough steps
	// have accumulated.
	batch := data
	var forecast *tensor.Dense
	accumulated := 0
	for accumulated < length {
		pred, err := f.predictOneStep(batch, n)
		if err != nil {
			return nil, err
		}

		if forecast == nil {
			forecast = pred
		} else {
			forecast, err = forecast.AppendSteps(pred)
			if err != nil {
				return nil, err
			}
		}
		accumulated += f.opt.Horizon

		_, batchSteps, _ := batch.Dims()
		drop := f.opt.Horizon
		if drop > batchSteps {
			drop = batchSteps
		}
		tail, err := batch.TailSteps(drop)
		if err != nil {
			return nil, err
		}
		batch, err = tail.AppendSteps(pred)
		if err != nil {
			return nil, err
		}
	}
	return forecast.HeadSteps(length)
}

func (f *Forecaster) predictOneStep(batch *tensor.Dense, n int) (*tensor.Dense, error) {
	pred, err := f.model.PredictOneStep(batch)
	if err != nil {
		return nil, fmt.Errorf("unable to predict one step, %w", err)
	}
	pn, psteps, pfeatures := pred.Dims()
	if pn != n || psteps != f.opt.Horizon || pfeatures != f.opt.NFeatures {
		return nil, fmt.Errorf(
			"model returned shape (%d, %d, %d), expected (%d, %d, %d), %w",
			pn, psteps, pfeatures, n, f.opt.Horizon, f.opt.NFeatures, ErrInvalidShape,
		)
	}
	return pred, nil
}
