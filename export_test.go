package forecastate

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-forecastate/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePredictions(t *testing.T) {
	actual, err := tensor.NewView([]float64{1, 2, 3, 4}, 2, 2, 1, 2)
	require.NoError(t, err)
	pred, err := tensor.NewView([]float64{1.5, 2.5, 3.5, 4.5}, 2, 2, 1, 2)
	require.NoError(t, err)

	e := NewEvaluator()
	e.SetActual(actual)
	e.SetPredicted("naive", pred)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, e.SavePredictions(dir, "smoke"))

	raw, err := os.ReadFile(filepath.Join(dir, "smoke_naive.bin"))
	require.NoError(t, err)
	require.Len(t, raw, 4*8)

	got := make([]float64, 4)
	for i := range got {
		got[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5}, got)
}

func TestSaveCSV(t *testing.T) {
	actual, err := tensor.FromRows([][]float64{{1}, {2}})
	require.NoError(t, err)

	e := NewEvaluator()
	e.SetActual(actual)
	e.SetPredicted("naive", actual.Copy())

	report, err := e.Evaluate(EvalByFeature)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "quality.csv")
	require.NoError(t, report.SaveCSV(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "feature,naive_MSE,naive_RMSE,naive_MAE,naive_R2")
	assert.Contains(t, string(raw), AllFeaturesLabel)
}
