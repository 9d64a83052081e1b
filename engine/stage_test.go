package engine

import (
	"testing"
	"time"

	"github.com/commojun/adventure/story"
)

func TestStageShowCommit(t *testing.T) {
	cases := []struct {
		name   string
		effect story.Effect
		delay  time.Duration
	}{
		{"none", story.EffectNone, 0},
		{"fade", story.EffectFade, 250 * time.Millisecond},
		{"slide", story.EffectSlide, 250 * time.Millisecond},
		{"shake", story.EffectShake, 500 * time.Millisecond},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScheduler()
			r := &recorder{}
			st := NewStage(s, r)
			st.Show(story.Character{ID: "hana"}, story.PositionLeft, c.effect)

			slot := st.Slot(story.PositionLeft)
			if slot.Occupant == nil || slot.Occupant.ID != "hana" {
				t.Fatalf("occupant must be set at once")
			}
			if c.delay == 0 {
				if !slot.Shown || slot.Transitioning {
					t.Fatalf("no-effect show should commit at once")
				}
				return
			}
			if slot.Shown || !slot.Transitioning || !st.Transitioning() {
				t.Fatalf("expected transition in flight")
			}
			s.Advance(c.delay - time.Millisecond)
			if st.Slot(story.PositionLeft).Shown {
				t.Fatalf("committed too early")
			}
			s.Advance(time.Millisecond)
			if slot := st.Slot(story.PositionLeft); !slot.Shown || slot.Transitioning {
				t.Fatalf("expected commit after %s", c.delay)
			}
			if !r.has("show left hana " + c.effect.String()) {
				t.Fatalf("renderer not told: %v", r.calls)
			}
		})
	}
}

func TestStageHideCancelsPendingShow(t *testing.T) {
	s := NewScheduler()
	st := NewStage(s, &recorder{})
	st.Show(story.Character{ID: "ren"}, story.PositionRight, story.EffectFade)
	st.Hide(story.PositionRight, story.EffectNone)
	s.Advance(time.Second)

	slot := st.Slot(story.PositionRight)
	if slot.Occupant != nil || slot.Shown || slot.Transitioning {
		t.Fatalf("stale show commit ran: %+v", slot)
	}
}

func TestStageUnsetPositionIsCenter(t *testing.T) {
	st := NewStage(NewScheduler(), &recorder{})
	st.Show(story.Character{ID: "hana"}, story.PositionUnset, story.EffectNone)
	if st.Slot(story.PositionCenter).Occupant == nil {
		t.Fatalf("unset position should use the center slot")
	}
}

func TestStageClear(t *testing.T) {
	s := NewScheduler()
	r := &recorder{}
	st := NewStage(s, r)
	st.Show(story.Character{ID: "hana"}, story.PositionLeft, story.EffectNone)
	st.Show(story.Character{ID: "ren"}, story.PositionRight, story.EffectSlide)
	st.Clear()

	for _, pos := range []story.Position{story.PositionLeft, story.PositionCenter, story.PositionRight} {
		if slot := st.Slot(pos); slot.Occupant != nil || slot.Shown {
			t.Fatalf("slot %s not cleared: %+v", pos, slot)
		}
	}
	if r.has("hide center none") {
		t.Fatalf("empty slots should not be hidden")
	}
	if !r.has("hide left none") || !r.has("hide right none") {
		t.Fatalf("occupied slots should be hidden: %v", r.calls)
	}
}
