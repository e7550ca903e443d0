package forecastate

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/aouyang1/go-forecastate/tensor"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// PlotOpts limits how much of the evaluation data gets drawn.
type PlotOpts struct {
	MaxWindows  int // cap on the number of windows drawn, 0 draws all
	DrawHorizon int // cap on the steps drawn per window, 0 draws the full horizon
}

// LineTSeries generates an echart multi-line chart for some arbitrary set of
// series sharing an integer step axis. NaN values render as gaps.
func LineTSeries(title string, seriesName []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	maxLen := 0
	for _, series := range y {
		if len(series) > maxLen {
			maxLen = len(series)
		}
	}
	x := make([]int, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		x = append(x, i)
	}

	line = line.SetXAxis(x)
	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, val := range y[i] {
			if math.IsNaN(val) {
				// echarts renders "-" as a missing point
				lineData = append(lineData, opts.LineData{Value: "-"})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: val})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// PlotResults renders an HTML page with one line chart per feature showing
// the flattened true values against every registered prediction set, with
// the first input window drawn as leading context when set.
func (e *Evaluator) PlotResults(path string, opt *PlotOpts) error {
	if e.actual == nil {
		return ErrNoTrueValues
	}

	actual, err := clipWindows(e.actual, opt)
	if err != nil {
		return err
	}
	_, _, f := actual.Dims()

	offset := 0
	if e.firstWindow != nil {
		_, steps, _ := e.firstWindow.Dims()
		offset = steps
	}

	page := components.NewPage()
	for k := 0; k < f; k++ {
		names := make([]string, 0, len(e.preds)+2)
		series := make([][]float64, 0, len(e.preds)+2)

		if e.firstWindow != nil {
			names = append(names, "Inputs")
			series = append(series, featureSeries(e.firstWindow.Flatten(), k, 0))
		}

		names = append(names, "True")
		series = append(series, featureSeries(actual.Flatten(), k, offset))

		for _, p := range e.preds {
			pred, err := clipWindows(p.data, opt)
			if err != nil {
				return err
			}
			names = append(names, p.name)
			series = append(series, featureSeries(pred.Flatten(), k, offset))
		}

		page.AddCharts(LineTSeries(fmt.Sprintf("Feature %s", e.featureName(k)), names, series))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

func (e *Evaluator) featureName(k int) string {
	_, _, f := e.actual.Dims()
	if len(e.featureNames) == f {
		return e.featureNames[k]
	}
	return strconv.Itoa(k)
}

func clipWindows(d *tensor.Dense, opt *PlotOpts) (*tensor.Dense, error) {
	if opt == nil {
		return d, nil
	}
	n, steps, _ := d.Dims()
	res := d
	if opt.MaxWindows > 0 && opt.MaxWindows < n {
		clipped, err := res.Slice(0, opt.MaxWindows)
		if err != nil {
			return nil, err
		}
		res = clipped
	}
	if opt.DrawHorizon > 0 && opt.DrawHorizon < steps {
		clipped, err := res.HeadSteps(opt.DrawHorizon)
		if err != nil {
			return nil, err
		}
		res = clipped
	}
	return res, nil
}

// featureSeries extracts one feature column from a flattened (1, T, F)
// tensor, left padded with NaN by offset steps.
func featureSeries(flat *tensor.Dense, k, offset int) []float64 {
	_, steps, _ := flat.Dims()
	series := make([]float64, 0, offset+steps)
	for i := 0; i < offset; i++ {
		series = append(series, math.NaN())
	}
	for j := 0; j < steps; j++ {
		series = append(series, flat.At(0, j, k))
	}
	return series
}
