package forecastate

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// SavePredictions persists every registered prediction tensor as a flat
// little-endian float64 binary file, one file per model named
// <dataset>_<model>.bin under dir. The directory is created if needed.
func (e *Evaluator) SavePredictions(dir, datasetName string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range e.preds {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.bin", datasetName, p.name))
		if err := writeFloats(path, p.data.Values()); err != nil {
			return fmt.Errorf("unable to save predictions for %s, %w", p.name, err)
		}
	}
	return nil
}

func writeFloats(path string, vals []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
		return err
	}
	return w.Flush()
}
