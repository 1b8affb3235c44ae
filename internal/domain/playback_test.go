package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedSince(t *testing.T) {
	epoch := time.Unix(1000, 0)

	assert.InDelta(t, 2.5, ElapsedSince(epoch, epoch.Add(2500*time.Millisecond)), 1e-9)
	assert.Equal(t, 0.0, ElapsedSince(epoch, epoch), "zero interval")
	assert.Equal(t, 0.0, ElapsedSince(epoch, epoch.Add(-time.Second)), "negative interval must be clamped")
}

func TestEffectivePosition(t *testing.T) {
	t0 := time.Unix(1000, 0)

	t.Run("paused room keeps its position", func(t *testing.T) {
		r := NewRoom("r1", "a", t0)
		r.PositionSeconds = 7

		assert.Equal(t, 7.0, EffectivePosition(r, t0.Add(time.Hour)))
	})

	t.Run("playing room extrapolates", func(t *testing.T) {
		r := NewRoom("r1", "a", t0)
		r.PositionSeconds = 7
		r.Playing = true

		assert.InDelta(t, 10.0, EffectivePosition(r, t0.Add(3*time.Second)), 1e-9)
	})

	t.Run("monotonic while playing", func(t *testing.T) {
		r := NewRoom("r1", "a", t0)
		r.Play(t0)

		prev := EffectivePosition(r, t0)
		for i := 1; i <= 50; i++ {
			now := t0.Add(time.Duration(i) * 137 * time.Millisecond)
			// a redundant play must not move the position backwards
			if i%10 == 0 {
				r.Play(now)
			}
			pos := EffectivePosition(r, now)
			assert.GreaterOrEqual(t, pos, prev)
			prev = pos
		}
	})
}

func TestEpochSeconds(t *testing.T) {
	assert.InDelta(t, 1000.25, EpochSeconds(time.Unix(1000, 250*int64(time.Millisecond))), 1e-9)
}
