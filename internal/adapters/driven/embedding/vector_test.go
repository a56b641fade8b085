package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float64{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-12)
	assert.InDelta(t, 0.8, v[1], 1e-12)

	zero := Normalize([]float64{0, 0})
	assert.Equal(t, []float64{0, 0}, zero)
}

func TestFit(t *testing.T) {
	long := Fit([]float64{1, 2, 3, 4}, 2)
	assert.Len(t, long, 2)
	assert.InDelta(t, 1, norm(long), 1e-12)

	short := Fit([]float64{2}, 3)
	assert.Equal(t, []float64{1, 0, 0}, short)

	same := Fit([]float64{0, 5}, 0)
	assert.Equal(t, []float64{0, 1}, same)
}
