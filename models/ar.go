// Package models provides reference forecasting models satisfying the
// one step predict capability of the forecastate package.
package models

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-forecastate/tensor"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted      = errors.New("model has not been fit")
	ErrNoTrainingData = errors.New("no training windows")
	ErrDimMismatch    = errors.New("window shape does not match fit shape")
)

type LinearAROptions struct {
	FitIntercept bool
}

func NewDefaultLinearAROptions() *LinearAROptions {
	return &LinearAROptions{
		FitIntercept: true,
	}
}

// LinearAR is a least squares autoregressive forecaster. It maps a flattened
// look back window of shape (look_back * features) to a full horizon of
// shape (horizon * features) in a single linear step, fit with QR
// factorization.
type LinearAR struct {
	opt *LinearAROptions

	lookBack int
	horizon  int
	features int

	weights *mat.Dense
	fitted  bool
}

// NewLinearAR creates a LinearAR model. If no options are provided a default
// is used.
func NewLinearAR(opt *LinearAROptions) *LinearAR {
	if opt == nil {
		opt = NewDefaultLinearAROptions()
	}
	return &LinearAR{opt: opt}
}

// Fit solves the least squares problem mapping input windows to their target
// windows.
func (l *LinearAR) Fit(inputs, targets *tensor.Dense) error {
	if inputs == nil || targets == nil {
		return ErrNoTrainingData
	}
	n, lookBack, features := inputs.Dims()
	tn, horizon, tf := targets.Dims()
	if n == 0 {
		return ErrNoTrainingData
	}
	if tn != n || tf != features {
		return fmt.Errorf(
			"targets have shape (%d, %d, %d), inputs have (%d, %d, %d), %w",
			tn, horizon, tf, n, lookBack, features, ErrDimMismatch,
		)
	}

	x := l.designMatrix(inputs)
	y := targets.StackWindows()

	var qr mat.QR
	qr.Factorize(x)

	var weights mat.Dense
	if err := qr.SolveTo(&weights, false, y); err != nil {
		return fmt.Errorf("unable to solve least squares fit, %w", err)
	}

	l.lookBack = lookBack
	l.horizon = horizon
	l.features = features
	l.weights = &weights
	l.fitted = true
	return nil
}

// PredictOneStep forecasts one native horizon for every window in the batch.
func (l *LinearAR) PredictOneStep(batch *tensor.Dense) (*tensor.Dense, error) {
	if !l.fitted {
		return nil, ErrNotFitted
	}
	n, lookBack, features := batch.Dims()
	if lookBack != l.lookBack || features != l.features {
		return nil, fmt.Errorf(
			"batch windows have shape (%d, %d), fit with (%d, %d), %w",
			lookBack, features, l.lookBack, l.features, ErrDimMismatch,
		)
	}

	x := l.designMatrix(batch)
	var yhat mat.Dense
	yhat.Mul(x, l.weights)

	pred, err := tensor.New(n, l.horizon, l.features)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < l.horizon; j++ {
			for k := 0; k < l.features; k++ {
				pred.Set(i, j, k, yhat.At(i, j*l.features+k))
			}
		}
	}
	return pred, nil
}

// designMatrix flattens windows to rows, prepending a ones column when
// fitting an intercept.
func (l *LinearAR) designMatrix(d *tensor.Dense) *mat.Dense {
	flat := d.StackWindows()
	if !l.opt.FitIntercept {
		return flat
	}

	m, cols := flat.Dims()
	x := mat.NewDense(m, cols+1, nil)
	for i := 0; i < m; i++ {
		x.Set(i, 0, 1.0)
		for j := 0; j < cols; j++ {
			x.Set(i, j+1, flat.At(i, j))
		}
	}
	return x
}
