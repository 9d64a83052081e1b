package common

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		total   time.Duration
		want    float32
	}{
		{"start", 0, time.Second, 0},
		{"half", 250 * time.Millisecond, 500 * time.Millisecond, 0.5},
		{"over", 2 * time.Second, time.Second, 1},
		{"instant", 0, 0, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Progress(c.elapsed, c.total); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(-200, 0, 0.25); got != -150 {
		t.Fatalf("expected -150, got %v", got)
	}
}

func TestTickDuration(t *testing.T) {
	cases := []struct {
		name     string
		tps      float64
		measured float64
		want     time.Duration
	}{
		{"fixed", 60, 58, time.Second / 60},
		{"sync_with_fps", -1, 120, time.Second / 120},
		{"not_measured_yet", -1, 0, time.Second / 60},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TickDuration(c.tps, c.measured, 60); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}
