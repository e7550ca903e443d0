package forecastate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	testData := map[string]struct {
		p   Params
		err error
	}{
		"valid": {
			p: Params{NFeatures: 2, LookBackLength: 5, Horizon: 3},
		},
		"zero features": {
			p:   Params{NFeatures: 0, LookBackLength: 5, Horizon: 3},
			err: ErrInvalidConfig,
		},
		"negative look back": {
			p:   Params{NFeatures: 1, LookBackLength: -1, Horizon: 3},
			err: ErrInvalidConfig,
		},
		"zero horizon": {
			p:   Params{NFeatures: 1, LookBackLength: 5, Horizon: 0},
			err: ErrInvalidConfig,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.p.Validate()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewParams(t *testing.T) {
	p, err := NewParams(2, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, p.NFeatures)
	assert.Equal(t, 8, p.LookBackLength)
	assert.Equal(t, 4, p.Horizon)

	_, err = NewParams(0, 8, 4)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRecurrentParamsValidate(t *testing.T) {
	valid := func() *RecurrentParams {
		p := NewDefaultRecurrentParams()
		p.NFeatures = 2
		return p
	}

	testData := map[string]struct {
		mutate func(*RecurrentParams)
		err    error
	}{
		"default with two features": {
			mutate: func(p *RecurrentParams) {},
		},
		"no layers": {
			mutate: func(p *RecurrentParams) { p.Units = nil },
			err:    ErrInvalidConfig,
		},
		"zero units layer": {
			mutate: func(p *RecurrentParams) { p.Units = []int{512, 0} },
			err:    ErrInvalidConfig,
		},
		"unknown block type": {
			mutate: func(p *RecurrentParams) { p.BlockType = "transformer" },
			err:    ErrInvalidConfig,
		},
		"dropout too high": {
			mutate: func(p *RecurrentParams) { p.Dropout = 1.0 },
			err:    ErrInvalidConfig,
		},
		"negative dropout": {
			mutate: func(p *RecurrentParams) { p.Dropout = -0.1 },
			err:    ErrInvalidConfig,
		},
		"missing activation": {
			mutate: func(p *RecurrentParams) { p.HiddenActivation = "" },
			err:    ErrInvalidConfig,
		},
		"missing loss": {
			mutate: func(p *RecurrentParams) { p.Loss = "" },
			err:    ErrInvalidConfig,
		},
		"invalid embedded window config": {
			mutate: func(p *RecurrentParams) { p.Horizon = 0 },
			err:    ErrInvalidConfig,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p := valid()
			td.mutate(p)
			err := p.Validate()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParamsJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")

	p, err := NewParams(3, 12, 2)
	require.NoError(t, err)
	require.NoError(t, p.SaveJSON(path))

	loaded := NewDefaultParams()
	require.NoError(t, loaded.ReadJSON(path))
	assert.Equal(t, p, loaded)
}

func TestParamsYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	p, err := NewParams(3, 12, 2)
	require.NoError(t, err)
	require.NoError(t, p.SaveYAML(path))

	loaded := NewDefaultParams()
	require.NoError(t, loaded.ReadYAML(path))
	assert.Equal(t, p, loaded)
}

func TestRecurrentParamsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p := NewDefaultRecurrentParams()
	p.Units = []int{256, 128}
	p.BlockType = "GRU"
	p.Dropout = 0.25

	jsonPath := filepath.Join(dir, "recurrent.json")
	require.NoError(t, p.SaveJSON(jsonPath))
	fromJSON := NewDefaultRecurrentParams()
	require.NoError(t, fromJSON.ReadJSON(jsonPath))
	assert.Equal(t, p, fromJSON)

	yamlPath := filepath.Join(dir, "recurrent.yaml")
	require.NoError(t, p.SaveYAML(yamlPath))
	fromYAML := NewDefaultRecurrentParams()
	require.NoError(t, fromYAML.ReadYAML(yamlPath))
	assert.Equal(t, p, fromYAML)
}

func TestReadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"n_features": 0, "look_back_length": 5, "horizon": 1}`), 0o644))

	p, err := NewParams(2, 8, 4)
	require.NoError(t, err)
	require.ErrorIs(t, p.ReadJSON(path), ErrInvalidConfig)

	// the receiver keeps its previous configuration on a failed load
	assert.Equal(t, 2, p.NFeatures)
	assert.Equal(t, 8, p.LookBackLength)
}

func TestReadMissingFile(t *testing.T) {
	p := NewDefaultParams()
	assert.Error(t, p.ReadJSON(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, p.ReadYAML(filepath.Join(t.TempDir(), "missing.yaml")))
}
