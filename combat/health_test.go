package combat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDamage(t *testing.T) {
	cases := []struct {
		name      string
		max       float64
		damage    []float64
		want      float64
		wantDead  bool
		wantDeath int
	}{
		{"overkill_clamps_to_zero", 100, []float64{150}, 0, true, 1},
		{"partial", 100, []float64{30, 20}, 50, false, 0},
		{"exact_kill", 100, []float64{60, 40}, 0, true, 1},
		{"heal_clamps_to_max", 100, []float64{10, -50}, 100, false, 0},
		{"hits_after_death_ignored", 100, []float64{100, 10, 10, -30}, 0, true, 1},
		{"nan_ignored", 100, []float64{math.NaN(), 30}, 70, false, 0},
		{"nan_then_lethal", 100, []float64{math.NaN(), 1000}, 0, true, 1},
		{"infinite_kills", 100, []float64{math.Inf(1)}, 0, true, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHealth(c.max)
			deaths := 0
			for _, d := range c.damage {
				if _, died := h.ApplyDamage(d); died {
					deaths++
				}
			}
			assert.Equal(t, c.want, h.Current)
			assert.Equal(t, c.wantDead, h.Dead)
			assert.Equal(t, c.wantDeath, deaths)
		})
	}
}

func TestHealthStaysClampedUnderRandomDamage(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for run := 0; run < 200; run++ {
		h := NewHealth(1 + rng.Float64()*200)
		deaths := 0
		for i := 0; i < 50; i++ {
			amount := rng.Float64()*80 - 20
			_, died := h.ApplyDamage(amount)
			if died {
				deaths++
			}
			require.GreaterOrEqual(t, h.Current, 0.0)
			require.LessOrEqual(t, h.Current, h.Max)
		}
		require.LessOrEqual(t, deaths, 1)
	}
}

func TestDeadHealthIsIdempotent(t *testing.T) {
	h := NewHealth(100)
	_, died := h.ApplyDamage(150)
	require.True(t, died)

	for i := 0; i < 10; i++ {
		applied, died := h.ApplyDamage(25)
		assert.False(t, applied)
		assert.False(t, died)
	}
	assert.Equal(t, 0.0, h.Current)
	assert.True(t, h.Dead)
}

func TestHealthBand(t *testing.T) {
	h := NewHealth(100)
	assert.Equal(t, BandHealthy, h.Band())
	h.ApplyDamage(50)
	assert.Equal(t, BandWounded, h.Band())
	h.ApplyDamage(30)
	assert.Equal(t, BandCritical, h.Band())
	assert.InDelta(t, 0.2, h.Ratio(), 1e-9)
}

func TestNewHealthRaisesNonPositiveMax(t *testing.T) {
	h := NewHealth(0)
	assert.Equal(t, 1.0, h.Max)
	assert.Equal(t, 1.0, h.Current)
}
