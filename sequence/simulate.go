package sequence

import (
	"math"
	"math/rand"
	"time"

	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

// Series is a mutable value slice used to compose synthetic signals before
// wrapping them in a Sequence.
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

func (s Series) SetConst(val float64, start, end int) Series {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	for i := start; i < end; i++ {
		s[i] = val
	}
	return s
}

func (s Series) MaskWithWeekend(t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			s[i] = 0.0
		}
	}
	return s
}

// MaskWithHoliday zeroes every point that does not fall on the observed day
// of the given holiday.
func (s Series) MaskWithHoliday(hol *cal.Holiday, t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		_, observed := hol.Calc(t[i].Year())
		oy, om, od := observed.Date()
		ty, tm, td := t[i].Date()
		if oy != ty || om != tm || od != td {
			s[i] = 0.0
		}
	}
	return s
}

// Sequence wraps the series in a univariate Sequence.
func (s Series) Sequence() (*Sequence, error) {
	return NewUnivariate(s)
}

// GenerateT creates n time points at the given interval ending near the time
// returned by nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

func GenerateConst(n int, val float64) Series {
	y := make([]float64, n)
	floats.AddConst(val, y)
	return Series(y)
}

// GenerateRamp creates a linear series bias + slope*i.
func GenerateRamp(n int, bias, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, bias+slope*float64(i))
	}
	return Series(y)
}

func GenerateWave(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateSine creates amp*sin(2*pi*i/period + phase) over the index axis for
// series with no wall clock attached.
func GenerateSine(n int, amp, period, phase float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i)/period+phase))
	}
	return Series(y)
}

func GenerateNoise(n int, scale float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*scale)
	}
	return Series(y)
}
