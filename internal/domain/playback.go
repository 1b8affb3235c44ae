package domain

import "time"

// ElapsedSince returns the seconds between epoch and now. Zero and negative
// intervals are clamped to zero.
func ElapsedSince(epoch, now time.Time) float64 {
	elapsed := now.Sub(epoch).Seconds()
	if elapsed <= 0 {
		return 0
	}

	return elapsed
}

// EffectivePosition extrapolates the playback position of r at now from its
// position basis.
func EffectivePosition(r *Room, now time.Time) float64 {
	if !r.Playing {
		return r.PositionSeconds
	}

	return r.PositionSeconds + ElapsedSince(r.LastUpdate, now)
}

// EpochSeconds converts t to fractional unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
