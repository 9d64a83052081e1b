package common

import "time"

// Logical screen size. The player draws in these units and ebiten scales.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Progress returns elapsed/total clamped to [0, 1]. A non-positive total is
// already complete.
func Progress(elapsed, total time.Duration) float32 {
	if total <= 0 {
		return 1
	}
	return Clamp01(float32(elapsed) / float32(total))
}

// TickDuration returns the time one update covers at tps ticks per second.
// A non-positive tps falls back to the measured rate, then to fallback.
func TickDuration(tps, measured float64, fallback int) time.Duration {
	if tps <= 0 {
		tps = measured
	}
	if tps <= 0 {
		tps = float64(fallback)
	}
	return time.Duration(float64(time.Second) / tps)
}
