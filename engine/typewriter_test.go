package engine

import (
	"testing"
	"time"
)

const speed = 50 * time.Millisecond

func newTestRevealer() (*Revealer, *Scheduler, *recorder, *int) {
	s := NewScheduler()
	r := &recorder{}
	rv := NewRevealer(s, r, speed)
	done := 0
	rv.OnComplete = func() { done++ }
	return rv, s, r, &done
}

func TestRevealerTiming(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single", "a"},
		{"ascii", "Hello"},
		{"multibyte", "こんにちは世界"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rv, s, r, done := newTestRevealer()
			rv.Reveal(c.text)
			n := len([]rune(c.text))

			if n == 0 {
				if rv.Typing() || *done != 1 {
					t.Fatalf("empty text should complete at once: typing=%v done=%d", rv.Typing(), *done)
				}
				return
			}

			// first rune is shown immediately
			if got := len([]rune(r.text)); got != 1 {
				t.Fatalf("expected 1 rune visible, got %d", got)
			}
			for i := 2; i <= n; i++ {
				s.Advance(speed)
				if got := len([]rune(r.text)); got != i {
					t.Fatalf("after %d ticks expected %d runes, got %d", i-1, i, got)
				}
			}
			if !rv.Typing() || *done != 0 {
				t.Fatalf("completion must wait one tick past the last rune")
			}
			s.Advance(speed)
			if rv.Typing() || *done != 1 {
				t.Fatalf("expected completion: typing=%v done=%d", rv.Typing(), *done)
			}
			if r.text != c.text || rv.Visible() != c.text {
				t.Fatalf("expected %q visible, got %q", c.text, r.text)
			}
		})
	}
}

func TestRevealerSkip(t *testing.T) {
	rv, s, r, done := newTestRevealer()
	rv.Reveal("abcdef")
	s.Advance(speed)

	if !rv.Skip() {
		t.Fatalf("Skip during a reveal should report true")
	}
	if r.text != "abcdef" || rv.Typing() || *done != 1 {
		t.Fatalf("skip should show all text and complete once: text=%q typing=%v done=%d", r.text, rv.Typing(), *done)
	}
	if rv.Skip() {
		t.Fatalf("Skip after completion should report false")
	}
	s.Advance(time.Second)
	if r.text != "abcdef" || *done != 1 {
		t.Fatalf("no tick may run after skip: text=%q done=%d", r.text, *done)
	}
}

func TestRevealerSupersede(t *testing.T) {
	rv, s, r, done := newTestRevealer()
	rv.Reveal("abcdef")
	s.Advance(speed)
	rv.Reveal("xy")
	s.Advance(time.Second)

	if r.text != "xy" {
		t.Fatalf("expected the newer text, got %q", r.text)
	}
	if *done != 1 {
		t.Fatalf("only the surviving reveal should complete, got %d", *done)
	}
}

func TestRevealerStop(t *testing.T) {
	rv, s, _, done := newTestRevealer()
	rv.Reveal("abcdef")
	rv.Stop()
	s.Advance(time.Second)

	if rv.Typing() || *done != 0 {
		t.Fatalf("Stop must not complete: typing=%v done=%d", rv.Typing(), *done)
	}
	if rv.Visible() != "a" {
		t.Fatalf("expected the buffer to stay at %q, got %q", "a", rv.Visible())
	}
}
