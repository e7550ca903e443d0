package forecastate

import (
	"testing"

	"github.com/aouyang1/go-forecastate/models"
	"github.com/aouyang1/go-forecastate/tensor"
	"github.com/aouyang1/go-forecastate/window"
	"github.com/pkg/profile"
)

var benchForecastRes *tensor.Dense

func setupBenchForecaster(b *testing.B, lookBack, horizon int) (*Forecaster, *tensor.Dense) {
	b.Helper()

	g, err := window.New(generateExampleSequence(), lookBack, horizon)
	if err != nil {
		b.Fatal(err)
	}
	inputs, err := g.Inputs(nil)
	if err != nil {
		b.Fatal(err)
	}
	targets, err := g.Targets(nil)
	if err != nil {
		b.Fatal(err)
	}

	ar := models.NewLinearAR(nil)
	if err := ar.Fit(inputs, targets); err != nil {
		b.Fatal(err)
	}

	opt, err := NewParams(g.NumFeatures(), lookBack, horizon)
	if err != nil {
		b.Fatal(err)
	}
	f, err := New(ar, opt)
	if err != nil {
		b.Fatal(err)
	}

	lastID := -1
	last, err := g.Inputs(&window.Selection{Window: &lastID})
	if err != nil {
		b.Fatal(err)
	}
	return f, last
}

func BenchmarkWindowGeneration(b *testing.B) {
	seq := generateExampleSequence()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, err := window.New(seq, 24, 12)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := g.Inputs(nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkForecast(b *testing.B) {
	f, last := setupBenchForecaster(b, 24, 12)

	var err error
	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for i := 0; i < b.N; i++ {
		benchForecastRes, err = f.Forecast(last, 288)
		if err != nil {
			b.Fatal(err)
		}
	}
}
