// Package tensor provides a rank-3 float64 tensor backed by a flat row-major
// buffer. Window views may overlap by sharing the buffer with a configurable
// row stride between window starts, so sliding windows over a sequence never
// copy the underlying data.
package tensor

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeDim        = errors.New("negative dimensions not allowed")
	ErrColMismatch        = errors.New("column size mismatch")
	ErrShortBuffer        = errors.New("buffer too short for requested shape")
	ErrDimMismatch        = errors.New("tensor dimensions do not match")
	ErrWindowOutOfBounds  = errors.New("window is out of bounds")
	ErrStepsOutOfBounds   = errors.New("time steps are out of bounds")
	ErrUninitializedDense = errors.New("uninitialized tensor")
)

// Dense is a tensor of shape (n, steps, features). The element (i, j, k)
// lives at data[(i*strideRows+j)*features+k]. A packed tensor has
// strideRows == steps; a sliding window view over a sequence has
// strideRows == 1 so consecutive windows share all but one row.
type Dense struct {
	data       []float64
	n          int
	steps      int
	features   int
	strideRows int
}

// New creates a packed zero tensor of the given shape.
func New(n, steps, features int) (*Dense, error) {
	if n < 0 || steps < 0 || features < 0 {
		return nil, ErrNegativeDim
	}
	return &Dense{
		data:       make([]float64, n*steps*features),
		n:          n,
		steps:      steps,
		features:   features,
		strideRows: steps,
	}, nil
}

// NewView wraps an existing buffer without copying. The buffer must hold at
// least ((n-1)*strideRows+steps)*features values.
func NewView(data []float64, n, steps, features, strideRows int) (*Dense, error) {
	if n < 0 || steps < 0 || features < 0 || strideRows < 0 {
		return nil, ErrNegativeDim
	}
	if n > 0 {
		need := ((n-1)*strideRows + steps) * features
		if len(data) < need {
			return nil, fmt.Errorf("have %d values, need %d, %w", len(data), need, ErrShortBuffer)
		}
	}
	return &Dense{
		data:       data,
		n:          n,
		steps:      steps,
		features:   features,
		strideRows: strideRows,
	}, nil
}

// FromSeries copies a univariate series into a (1, len(y), 1) tensor.
func FromSeries(y []float64) *Dense {
	data := make([]float64, len(y))
	copy(data, y)
	return &Dense{
		data:       data,
		n:          1,
		steps:      len(y),
		features:   1,
		strideRows: len(y),
	}
}

// FromRows copies a (T, F) series into a (1, T, F) tensor. All rows must
// have the same length.
func FromRows(rows [][]float64) (*Dense, error) {
	steps := len(rows)
	features := -1
	for i, row := range rows {
		if features >= 0 && len(row) != features {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if features < 0 {
			features = len(row)
		}
	}
	if features < 0 {
		features = 0
	}

	data := make([]float64, 0, steps*features)
	for _, row := range rows {
		data = append(data, row...)
	}
	return &Dense{
		data:       data,
		n:          1,
		steps:      steps,
		features:   features,
		strideRows: steps,
	}, nil
}

// Dims returns the number of windows, time steps per window, and features.
func (d *Dense) Dims() (int, int, int) {
	return d.n, d.steps, d.features
}

// NumWindows returns the leading axis size.
func (d *Dense) NumWindows() int {
	return d.n
}

func (d *Dense) idx(i, j, k int) int {
	if i < 0 || i >= d.n || j < 0 || j >= d.steps || k < 0 || k >= d.features {
		panic(fmt.Sprintf("tensor: index (%d, %d, %d) out of range for shape (%d, %d, %d)",
			i, j, k, d.n, d.steps, d.features))
	}
	return (i*d.strideRows+j)*d.features + k
}

// At returns the value at window i, step j, feature k, panicking when the
// index is out of range.
func (d *Dense) At(i, j, k int) float64 {
	return d.data[d.idx(i, j, k)]
}

// Set stores a value at window i, step j, feature k, panicking when the
// index is out of range.
func (d *Dense) Set(i, j, k int, v float64) {
	d.data[d.idx(i, j, k)] = v
}

// Window returns a view of a single window with a leading size-1 axis.
// Negative ids count back from the last window.
func (d *Dense) Window(i int) (*Dense, error) {
	if i < -d.n || i >= d.n {
		return nil, fmt.Errorf("window %d of %d, %w", i, d.n, ErrWindowOutOfBounds)
	}
	if i < 0 {
		i += d.n
	}
	start := i * d.strideRows * d.features
	return &Dense{
		data:       d.data[start : start+d.steps*d.features],
		n:          1,
		steps:      d.steps,
		features:   d.features,
		strideRows: d.strideRows,
	}, nil
}

// Slice returns a view over the half-open window range [start, end).
func (d *Dense) Slice(start, end int) (*Dense, error) {
	if start < 0 || end > d.n || start > end {
		return nil, fmt.Errorf("window range [%d, %d) of %d, %w", start, end, d.n, ErrWindowOutOfBounds)
	}
	return &Dense{
		data:       d.data[start*d.strideRows*d.features:],
		n:          end - start,
		steps:      d.steps,
		features:   d.features,
		strideRows: d.strideRows,
	}, nil
}

// HeadSteps returns a view of the first s time steps of every window.
func (d *Dense) HeadSteps(s int) (*Dense, error) {
	if s < 0 || s > d.steps {
		return nil, fmt.Errorf("head of %d steps from %d, %w", s, d.steps, ErrStepsOutOfBounds)
	}
	return &Dense{
		data:       d.data,
		n:          d.n,
		steps:      s,
		features:   d.features,
		strideRows: d.strideRows,
	}, nil
}

// TailSteps returns a view of every window with the first s time steps
// dropped. Dropping all steps yields an empty but valid tensor.
func (d *Dense) TailSteps(s int) (*Dense, error) {
	if s < 0 || s > d.steps {
		return nil, fmt.Errorf("tail after %d steps of %d, %w", s, d.steps, ErrStepsOutOfBounds)
	}
	data := d.data
	if s < d.steps {
		data = d.data[s*d.features:]
	}
	return &Dense{
		data:       data,
		n:          d.n,
		steps:      d.steps - s,
		features:   d.features,
		strideRows: d.strideRows,
	}, nil
}

// AppendSteps concatenates o along the time axis returning a new packed
// tensor. Window counts and feature counts must match.
func (d *Dense) AppendSteps(o *Dense) (*Dense, error) {
	if d.n != o.n || d.features != o.features {
		return nil, fmt.Errorf(
			"appending (%d, %d, %d) to (%d, %d, %d), %w",
			o.n, o.steps, o.features, d.n, d.steps, d.features, ErrDimMismatch,
		)
	}
	res, err := New(d.n, d.steps+o.steps, d.features)
	if err != nil {
		return nil, err
	}
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			for k := 0; k < d.features; k++ {
				res.Set(i, j, k, d.At(i, j, k))
			}
		}
		for j := 0; j < o.steps; j++ {
			for k := 0; k < o.features; k++ {
				res.Set(i, d.steps+j, k, o.At(i, j, k))
			}
		}
	}
	return res, nil
}

// Flatten collapses windows back into a (1, n+steps-1, features) sequence by
// taking the first time step of every window except the last and then the
// entire last window. For stride-1 windows this reconstructs the original
// sequence exactly.
func (d *Dense) Flatten() *Dense {
	if d.n == 0 {
		res, _ := New(1, 0, d.features)
		return res
	}
	rows := d.n + d.steps - 1
	res, _ := New(1, rows, d.features)
	for i := 0; i < d.n-1; i++ {
		for k := 0; k < d.features; k++ {
			res.Set(0, i, k, d.At(i, 0, k))
		}
	}
	for j := 0; j < d.steps; j++ {
		for k := 0; k < d.features; k++ {
			res.Set(0, d.n-1+j, k, d.At(d.n-1, j, k))
		}
	}
	return res
}

// StackRows reshapes to a (n*steps, features) matrix, copying out of any
// window overlap.
func (d *Dense) StackRows() *mat.Dense {
	if d.n*d.steps == 0 || d.features == 0 {
		return nil
	}
	data := make([]float64, 0, d.n*d.steps*d.features)
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			for k := 0; k < d.features; k++ {
				data = append(data, d.At(i, j, k))
			}
		}
	}
	return mat.NewDense(d.n*d.steps, d.features, data)
}

// StackWindows reshapes to a (n, steps*features) matrix, one row per window.
func (d *Dense) StackWindows() *mat.Dense {
	if d.n == 0 || d.steps*d.features == 0 {
		return nil
	}
	data := make([]float64, 0, d.n*d.steps*d.features)
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			for k := 0; k < d.features; k++ {
				data = append(data, d.At(i, j, k))
			}
		}
	}
	return mat.NewDense(d.n, d.steps*d.features, data)
}

// Rows returns all rows in window order as a (n*steps, features) slice copy.
func (d *Dense) Rows() [][]float64 {
	rows := make([][]float64, 0, d.n*d.steps)
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			row := make([]float64, d.features)
			for k := 0; k < d.features; k++ {
				row[k] = d.At(i, j, k)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Values returns a flat row-major packed copy of all windows.
func (d *Dense) Values() []float64 {
	data := make([]float64, 0, d.n*d.steps*d.features)
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			for k := 0; k < d.features; k++ {
				data = append(data, d.At(i, j, k))
			}
		}
	}
	return data
}

// Copy returns a packed deep copy.
func (d *Dense) Copy() *Dense {
	res, _ := New(d.n, d.steps, d.features)
	for i := 0; i < d.n; i++ {
		for j := 0; j < d.steps; j++ {
			for k := 0; k < d.features; k++ {
				res.Set(i, j, k, d.At(i, j, k))
			}
		}
	}
	return res
}
