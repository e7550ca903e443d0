package forecastate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aouyang1/go-forecastate/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrLengthMismatch  = errors.New("prediction sample count does not match true values")
	ErrNoTrueValues    = errors.New("no true values set for evaluation")
	ErrUnknownEvalMode = errors.New("unknown evaluation mode")
	ErrUnknownColumn   = errors.New("unknown quality column")
)

// EvalMode selects how prediction quality is aggregated.
type EvalMode string

const (
	// EvalByFeature computes MSE, RMSE, MAE, and R2 per feature over the
	// flattened (batch*horizon, features) matrix, plus an aggregate row.
	EvalByFeature EvalMode = "features"
	// EvalByTimeStep computes MSE and MAE per forecast origin over the
	// flattened (batch, horizon*features) matrix. R2 and RMSE are omitted
	// in this mode: a per row R2 over a single collapsed sample is not
	// well defined.
	EvalByTimeStep EvalMode = "time_steps"
)

// AllFeaturesLabel indexes the aggregate row in feature mode quality tables.
const AllFeaturesLabel = "ALL_FEATURES"

type namedPrediction struct {
	name string
	data *tensor.Dense
}

// Evaluator collects true values and one or more named prediction sets and
// computes quality metrics across them. Columns in the resulting table
// follow model registration order.
type Evaluator struct {
	featureNames []string

	actual      *tensor.Dense
	firstWindow *tensor.Dense
	preds       []namedPrediction
}

// NewEvaluator creates an Evaluator. Feature names are optional and default
// to the feature index.
func NewEvaluator(featureNames ...string) *Evaluator {
	return &Evaluator{featureNames: featureNames}
}

// SetActual registers the ground truth tensor shaped (batch, horizon,
// features).
func (e *Evaluator) SetActual(actual *tensor.Dense) {
	e.actual = actual
}

// SetPredicted registers a named prediction set. Storing under an existing
// name overwrites the previous tensor while keeping its registration slot.
func (e *Evaluator) SetPredicted(name string, pred *tensor.Dense) {
	for i := range e.preds {
		if e.preds[i].name == name {
			e.preds[i].data = pred
			return
		}
	}
	e.preds = append(e.preds, namedPrediction{name: name, data: pred})
}

// SetFirstWindow registers the input window preceding the true values, used
// only as plot context.
func (e *Evaluator) SetFirstWindow(first *tensor.Dense) {
	e.firstWindow = first
}

// Evaluate computes the quality table for all registered predictions.
func (e *Evaluator) Evaluate(mode EvalMode) (*QualityReport, error) {
	if e.actual == nil {
		return nil, ErrNoTrueValues
	}
	switch mode {
	case EvalByFeature:
		return e.evaluateByFeature()
	case EvalByTimeStep:
		return e.evaluateByTimeStep()
	default:
		return nil, fmt.Errorf("%q, %w", mode, ErrUnknownEvalMode)
	}
}

func (e *Evaluator) checkPrediction(name string, pred *tensor.Dense) error {
	b, h, f := e.actual.Dims()
	pb, ph, pf := pred.Dims()
	if pb != b {
		return fmt.Errorf("%s has %d samples, true values have %d, %w", name, pb, b, ErrLengthMismatch)
	}
	if ph != h || pf != f {
		return fmt.Errorf(
			"%s has shape (%d, %d, %d), true values have (%d, %d, %d), %w",
			name, pb, ph, pf, b, h, f, ErrInvalidShape,
		)
	}
	return nil
}

func (e *Evaluator) evaluateByFeature() (*QualityReport, error) {
	_, _, f := e.actual.Dims()

	index := make([]string, 0, f+1)
	if len(e.featureNames) == f {
		index = append(index, e.featureNames...)
	} else {
		for j := 0; j < f; j++ {
			index = append(index, strconv.Itoa(j))
		}
	}
	index = append(index, AllFeaturesLabel)

	report := newQualityReport("feature", index)
	trueM := e.actual.StackRows()

	type metric struct {
		suffix string
		fn     func(predicted, actual []float64) (float64, error)
	}
	metrics := []metric{
		{"MSE", MSE},
		{"RMSE", RMSE},
		{"MAE", MAE},
		{"R2", RSquared},
	}

	for _, p := range e.preds {
		if err := e.checkPrediction(p.name, p.data); err != nil {
			return nil, err
		}
		predM := p.data.StackRows()

		for _, m := range metrics {
			vals := make([]float64, 0, f+1)
			for j := 0; j < f; j++ {
				v, err := m.fn(mat.Col(nil, j, predM), mat.Col(nil, j, trueM))
				if err != nil {
					return nil, fmt.Errorf("unable to compute %s_%s, %w", p.name, m.suffix, err)
				}
				vals = append(vals, v)
			}
			// aggregate row averages the per feature values, which for MSE
			// and MAE equals the metric over the flattened matrix
			vals = append(vals, floats.Sum(vals)/float64(f))
			report.addColumn(p.name+"_"+m.suffix, vals)
		}
	}
	return report, nil
}

func (e *Evaluator) evaluateByTimeStep() (*QualityReport, error) {
	b, _, _ := e.actual.Dims()

	index := make([]string, 0, b)
	for i := 0; i < b; i++ {
		index = append(index, strconv.Itoa(i))
	}

	report := newQualityReport("time_step", index)
	trueM := e.actual.StackWindows()

	for _, p := range e.preds {
		if err := e.checkPrediction(p.name, p.data); err != nil {
			return nil, err
		}
		predM := p.data.StackWindows()

		mseVals := make([]float64, 0, b)
		maeVals := make([]float64, 0, b)
		for i := 0; i < b; i++ {
			mse, err := MSE(predM.RawRowView(i), trueM.RawRowView(i))
			if err != nil {
				return nil, fmt.Errorf("unable to compute %s_MSE, %w", p.name, err)
			}
			mae, err := MAE(predM.RawRowView(i), trueM.RawRowView(i))
			if err != nil {
				return nil, fmt.Errorf("unable to compute %s_MAE, %w", p.name, err)
			}
			mseVals = append(mseVals, mse)
			maeVals = append(maeVals, mae)
		}
		report.addColumn(p.name+"_MSE", mseVals)
		report.addColumn(p.name+"_MAE", maeVals)
	}
	return report, nil
}

// QualityReport is a row indexed, column keyed table of quality metrics.
// Rows are features plus the aggregate row, or forecast origins, depending
// on the evaluation mode.
type QualityReport struct {
	IndexLabel string
	Index      []string
	Columns    []string
	Data       [][]float64 // row major, len(Index) x len(Columns)
}

func newQualityReport(indexLabel string, index []string) *QualityReport {
	data := make([][]float64, len(index))
	for i := range data {
		data[i] = []float64{}
	}
	return &QualityReport{
		IndexLabel: indexLabel,
		Index:      index,
		Data:       data,
	}
}

func (q *QualityReport) addColumn(name string, vals []float64) {
	q.Columns = append(q.Columns, name)
	for i := range q.Data {
		q.Data[i] = append(q.Data[i], vals[i])
	}
}

// Column returns the values of a single metric column.
func (q *QualityReport) Column(name string) ([]float64, error) {
	for j, col := range q.Columns {
		if col != name {
			continue
		}
		vals := make([]float64, len(q.Data))
		for i := range q.Data {
			vals[i] = q.Data[i][j]
		}
		return vals, nil
	}
	return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
}

// WriteCSV writes the table as delimited text with the index label as the
// first header cell.
func (q *QualityReport) WriteCSV(w *csv.Writer) error {
	header := append([]string{q.IndexLabel}, q.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, label := range q.Index {
		row := make([]string, 0, len(q.Columns)+1)
		row = append(row, label)
		for _, v := range q.Data[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SaveCSV writes the table to a CSV file at the given path.
func (q *QualityReport) SaveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return q.WriteCSV(csv.NewWriter(file))
}
