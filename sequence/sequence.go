// Package sequence provides the raw time series container consumed by the
// window generator along with helpers to synthesize series for tests and
// examples.
package sequence

import (
	"errors"
	"fmt"
)

var (
	ErrNoData     = errors.New("no sequence data")
	ErrRaggedData = errors.New("sequence rows have inconsistent feature counts")
)

// Sequence is an ordered series of observations with shape (T, F). The data
// is copied on construction and never mutated afterwards.
type Sequence struct {
	data     []float64 // row-major (T, F)
	steps    int
	features int
}

// New creates a Sequence from a (T, F) slice of rows. All rows must have the
// same length.
func New(rows [][]float64) (*Sequence, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	features := len(rows[0])
	if features == 0 {
		return nil, ErrNoData
	}
	data := make([]float64, 0, len(rows)*features)
	for i, row := range rows {
		if len(row) != features {
			return nil, fmt.Errorf("row %d has %d features, expected %d, %w", i, len(row), features, ErrRaggedData)
		}
		data = append(data, row...)
	}
	return &Sequence{
		data:     data,
		steps:    len(rows),
		features: features,
	}, nil
}

// NewUnivariate creates a single feature Sequence from a flat series,
// reshaping (T,) to (T, 1).
func NewUnivariate(y []float64) (*Sequence, error) {
	if len(y) == 0 {
		return nil, ErrNoData
	}
	data := make([]float64, len(y))
	copy(data, y)
	return &Sequence{
		data:     data,
		steps:    len(y),
		features: 1,
	}, nil
}

// FromColumns creates a Sequence from per-feature columns of equal length.
func FromColumns(cols ...[]float64) (*Sequence, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, ErrNoData
	}
	steps := len(cols[0])
	for i, col := range cols {
		if len(col) != steps {
			return nil, fmt.Errorf("column %d has %d steps, expected %d, %w", i, len(col), steps, ErrRaggedData)
		}
	}
	data := make([]float64, 0, steps*len(cols))
	for i := 0; i < steps; i++ {
		for _, col := range cols {
			data = append(data, col[i])
		}
	}
	return &Sequence{
		data:     data,
		steps:    steps,
		features: len(cols),
	}, nil
}

// Len returns the number of time steps.
func (s *Sequence) Len() int {
	return s.steps
}

// NumFeatures returns the feature count.
func (s *Sequence) NumFeatures() int {
	return s.features
}

// At returns the value at time step t for feature f, panicking when out of
// range.
func (s *Sequence) At(t, f int) float64 {
	if t < 0 || t >= s.steps || f < 0 || f >= s.features {
		panic(fmt.Sprintf("sequence: index (%d, %d) out of range for shape (%d, %d)", t, f, s.steps, s.features))
	}
	return s.data[t*s.features+f]
}

// Row returns a copy of the observation at time step t.
func (s *Sequence) Row(t int) []float64 {
	row := make([]float64, s.features)
	for f := 0; f < s.features; f++ {
		row[f] = s.At(t, f)
	}
	return row
}

// Values returns a flat row-major copy of the full series.
func (s *Sequence) Values() []float64 {
	data := make([]float64, len(s.data))
	copy(data, s.data)
	return data
}

// Copy returns a deep copy.
func (s *Sequence) Copy() *Sequence {
	return &Sequence{
		data:     s.Values(),
		steps:    s.steps,
		features: s.features,
	}
}
