// Package forecastate turns a sequence of observations into sliding
// input/output windows, runs a one step forecasting model over those windows,
// extends fixed horizon predictions to arbitrary length forecasts, and scores
// the predictions of multiple candidate models against ground truth.
package forecastate

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid forecaster configuration")

var validBlockTypes = map[string]struct{}{
	"SimpleRNN": {},
	"LSTM":      {},
	"GRU":       {},
}

// Params holds the windowing configuration shared by every forecasting
// model. All fields are validated to be at least 1 before use.
type Params struct {
	NFeatures      int `json:"n_features" yaml:"n_features"`
	LookBackLength int `json:"look_back_length" yaml:"look_back_length"`
	Horizon        int `json:"horizon" yaml:"horizon"`
}

// NewDefaultParams returns a single feature configuration with a look back
// of 10 steps and a horizon of 1.
func NewDefaultParams() *Params {
	return &Params{
		NFeatures:      1,
		LookBackLength: 10,
		Horizon:        1,
	}
}

// NewParams creates a validated Params, failing fast on any out of range
// field.
func NewParams(nFeatures, lookBackLength, horizon int) (*Params, error) {
	p := &Params{
		NFeatures:      nFeatures,
		LookBackLength: lookBackLength,
		Horizon:        horizon,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Params) Validate() error {
	if p.NFeatures < 1 {
		return fmt.Errorf("n_features must be at least 1, got %d, %w", p.NFeatures, ErrInvalidConfig)
	}
	if p.LookBackLength < 1 {
		return fmt.Errorf("look_back_length must be at least 1, got %d, %w", p.LookBackLength, ErrInvalidConfig)
	}
	if p.Horizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d, %w", p.Horizon, ErrInvalidConfig)
	}
	return nil
}

// ReadJSON loads parameters from a JSON file, replacing the receiver's
// fields only when the loaded document validates.
func (p *Params) ReadJSON(path string) error {
	var next Params
	if err := readJSONFile(path, &next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// SaveJSON writes the parameters to a JSON file.
func (p *Params) SaveJSON(path string) error {
	return saveJSONFile(path, p)
}

// ReadYAML loads parameters from a YAML file, replacing the receiver's
// fields only when the loaded document validates.
func (p *Params) ReadYAML(path string) error {
	var next Params
	if err := readYAMLFile(path, &next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// SaveYAML writes the parameters to a YAML file.
func (p *Params) SaveYAML(path string) error {
	return saveYAMLFile(path, p)
}

// RecurrentParams extends Params with the hyperparameters of a recurrent
// forecasting model. Only validation and serialization live here; building
// and training the network is the model implementer's concern.
type RecurrentParams struct {
	Params `yaml:",inline"`

	Units            []int   `json:"units" yaml:"units"`
	BlockType        string  `json:"block_type" yaml:"block_type"`
	Dropout          float64 `json:"dropout" yaml:"dropout"`
	HiddenActivation string  `json:"hidden_activation" yaml:"hidden_activation"`
	OutputActivation string  `json:"output_activation" yaml:"output_activation"`
	Loss             string  `json:"loss" yaml:"loss"`
}

// NewDefaultRecurrentParams returns a single LSTM layer of 512 units with
// tanh hidden and linear output activations minimizing mean squared error.
func NewDefaultRecurrentParams() *RecurrentParams {
	return &RecurrentParams{
		Params:           *NewDefaultParams(),
		Units:            []int{512},
		BlockType:        "LSTM",
		Dropout:          0.0,
		HiddenActivation: "tanh",
		OutputActivation: "linear",
		Loss:             "mse",
	}
}

func (p *RecurrentParams) Validate() error {
	if err := p.Params.Validate(); err != nil {
		return err
	}
	if len(p.Units) == 0 {
		return fmt.Errorf("units must list at least one layer, %w", ErrInvalidConfig)
	}
	for i, u := range p.Units {
		if u < 1 {
			return fmt.Errorf("units for layer %d must be at least 1, got %d, %w", i, u, ErrInvalidConfig)
		}
	}
	if _, exists := validBlockTypes[p.BlockType]; !exists {
		return fmt.Errorf("block_type must be SimpleRNN, LSTM, or GRU, got %q, %w", p.BlockType, ErrInvalidConfig)
	}
	if p.Dropout < 0.0 || p.Dropout >= 1.0 {
		return fmt.Errorf("dropout must be in [0, 1), got %f, %w", p.Dropout, ErrInvalidConfig)
	}
	if p.HiddenActivation == "" || p.OutputActivation == "" {
		return fmt.Errorf("activation functions must be set, %w", ErrInvalidConfig)
	}
	if p.Loss == "" {
		return fmt.Errorf("loss must be set, %w", ErrInvalidConfig)
	}
	return nil
}

func (p *RecurrentParams) ReadJSON(path string) error {
	var next RecurrentParams
	if err := readJSONFile(path, &next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

func (p *RecurrentParams) SaveJSON(path string) error {
	return saveJSONFile(path, p)
}

func (p *RecurrentParams) ReadYAML(path string) error {
	var next RecurrentParams
	if err := readYAMLFile(path, &next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

func (p *RecurrentParams) SaveYAML(path string) error {
	return saveYAMLFile(path, p)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func saveJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readYAMLFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func saveYAMLFile(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
