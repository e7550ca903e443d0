// Package window reinterprets a flat sequence as overlapping fixed-length
// input and target windows without copying the underlying buffer. Input
// window i covers sequence rows [i, i+L) and target window i covers rows
// [i+L, i+L+H), so targets always start exactly L steps after their input by
// construction.
package window

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-forecastate/sequence"
	"github.com/aouyang1/go-forecastate/tensor"
)

var (
	ErrInvalidRange    = errors.New("look back length or horizon out of range for sequence")
	ErrIndexOutOfRange = errors.New("window selection index out of range")
	ErrNoSequence      = errors.New("no sequence provided")
)

// Span is a half-open window range. Nil endpoints default to the start and
// end of the window set.
type Span struct {
	Start *int
	End   *int
}

// Selection narrows an accessor to a single window or a contiguous range and
// optionally flattens the result back into a plain sequence. With both
// Window and Sample set, Window wins.
type Selection struct {
	Window  *int
	Sample  *Span
	Flatten bool
}

// Generator holds the windowed views over a sequence.
type Generator struct {
	data     []float64 // row-major (T, F), owned by the generator
	steps    int
	features int

	lookBack int
	horizon  int

	inputs  *tensor.Dense
	targets *tensor.Dense
}

// New creates a Generator over the sequence with the given look back length
// and horizon. The sequence data is copied once at construction; all window
// views share that single copy.
func New(seq *sequence.Sequence, lookBack, horizon int) (*Generator, error) {
	if seq == nil {
		return nil, ErrNoSequence
	}
	g := &Generator{
		data:     seq.Values(),
		steps:    seq.Len(),
		features: seq.NumFeatures(),
		lookBack: lookBack,
		horizon:  horizon,
	}
	if err := g.build(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) build() error {
	if g.lookBack < 1 || g.lookBack > g.steps-1 {
		return fmt.Errorf("look back length %d must be in [1, %d], %w", g.lookBack, g.steps-1, ErrInvalidRange)
	}
	if g.horizon < 1 || g.horizon > g.steps-g.lookBack {
		return fmt.Errorf("horizon %d must be in [1, %d], %w", g.horizon, g.steps-g.lookBack, ErrInvalidRange)
	}

	n := g.steps - g.lookBack - g.horizon + 1

	inputs, err := tensor.NewView(g.data, n, g.lookBack, g.features, 1)
	if err != nil {
		return err
	}
	targets, err := tensor.NewView(g.data[g.lookBack*g.features:], n, g.horizon, g.features, 1)
	if err != nil {
		return err
	}
	g.inputs = inputs
	g.targets = targets
	return nil
}

// ChangeHorizon rebuilds the window set with a new horizon. The original
// sequence is reconstructed by flattening the inputs and appending the
// flattened last target window before re-windowing.
func (g *Generator) ChangeHorizon(horizon int) error {
	head := g.inputs.Flatten()
	lastTarget, err := g.targets.Window(-1)
	if err != nil {
		return err
	}
	full, err := head.AppendSteps(lastTarget.Flatten())
	if err != nil {
		return err
	}

	_, steps, features := full.Dims()
	prev := *g
	g.data = full.Values()
	g.steps = steps
	g.features = features
	g.horizon = horizon
	if err := g.build(); err != nil {
		*g = prev
		return err
	}
	return nil
}

// Inputs returns the input windows, narrowed by the optional selection. The
// returned tensor is a view sharing the generator's buffer unless flattened.
func (g *Generator) Inputs(sel *Selection) (*tensor.Dense, error) {
	return g.get(g.inputs, sel)
}

// Targets returns the target windows, narrowed by the optional selection.
func (g *Generator) Targets(sel *Selection) (*tensor.Dense, error) {
	return g.get(g.targets, sel)
}

func (g *Generator) get(x *tensor.Dense, sel *Selection) (*tensor.Dense, error) {
	if sel == nil {
		return x, nil
	}

	res := x
	n := x.NumWindows()
	switch {
	case sel.Window != nil:
		id := *sel.Window
		if id < -n || id >= n {
			return nil, fmt.Errorf("window %d must be in [%d, %d], %w", id, -n, n-1, ErrIndexOutOfRange)
		}
		w, err := x.Window(id)
		if err != nil {
			return nil, err
		}
		res = w
	case sel.Sample != nil:
		start := 0
		end := n
		if sel.Sample.Start != nil {
			start = *sel.Sample.Start
		}
		if sel.Sample.End != nil {
			end = *sel.Sample.End
		}
		if start < 0 || end > n || start > end {
			return nil, fmt.Errorf("sample [%d, %d) must be within [0, %d), %w", start, end, n, ErrIndexOutOfRange)
		}
		s, err := x.Slice(start, end)
		if err != nil {
			return nil, err
		}
		res = s
	}

	if sel.Flatten {
		return res.Flatten(), nil
	}
	return res, nil
}

// WindowCount returns the number of windows N = T - L - H + 1.
func (g *Generator) WindowCount() int {
	return g.inputs.NumWindows()
}

func (g *Generator) LookBack() int {
	return g.lookBack
}

func (g *Generator) Horizon() int {
	return g.horizon
}

func (g *Generator) NumFeatures() int {
	return g.features
}
