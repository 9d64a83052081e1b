package engine

import (
	"testing"
	"time"

	"github.com/commojun/adventure/story"
)

func TestBackdropChange(t *testing.T) {
	cases := []struct {
		name    string
		image   string
		changed bool
	}{
		{"new_image", "images/bg_rooftop.png", true},
		{"same_image", "images/bg_room.png", false},
		{"sentinel", story.NoChange, false},
		{"empty", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScheduler()
			r := &recorder{}
			b := NewBackdrop(s, r, 500*time.Millisecond)
			b.Change("images/bg_room.png")
			s.Advance(time.Second)
			r.calls = nil

			if got := b.Change(c.image); got != c.changed {
				t.Fatalf("expected changed=%v, got %v", c.changed, got)
			}
			if c.changed != (len(r.calls) == 1) {
				t.Fatalf("unexpected renderer calls: %v", r.calls)
			}
			if c.changed && b.Current() != c.image {
				t.Fatalf("expected current %q, got %q", c.image, b.Current())
			}
		})
	}
}

func TestBackdropFadeFlag(t *testing.T) {
	s := NewScheduler()
	b := NewBackdrop(s, &recorder{}, 500*time.Millisecond)
	b.Change("a.png")
	if !b.Fading() {
		t.Fatalf("expected fade in flight")
	}
	s.Advance(300 * time.Millisecond)
	b.Change("b.png")
	s.Advance(300 * time.Millisecond)
	if !b.Fading() {
		t.Fatalf("second change should restart the fade")
	}
	s.Advance(200 * time.Millisecond)
	if b.Fading() {
		t.Fatalf("fade should be over")
	}
}
