package engine

import (
	"time"

	"github.com/commojun/adventure/story"
)

// Transition is the nominal duration of a character enter/exit effect.
func Transition(e story.Effect) time.Duration {
	switch e {
	case story.EffectFade, story.EffectSlide:
		return 250 * time.Millisecond
	case story.EffectShake:
		return 500 * time.Millisecond
	default:
		return 0
	}
}

// Slot is the state of one display position.
type Slot struct {
	// Occupant is the character the last command put here, nil after a hide.
	Occupant *story.Character
	Effect   story.Effect
	// Shown is committed once the enter transition has finished and cleared
	// once the exit transition has finished.
	Shown         bool
	Transitioning bool

	commit TaskID
}

// Stage tracks which character occupies each slot.
type Stage struct {
	sched *Scheduler
	r     Renderer
	slots [story.SlotCount]Slot
}

func NewStage(sched *Scheduler, r Renderer) *Stage {
	if r == nil {
		r = NopRenderer{}
	}
	return &Stage{sched: sched, r: r}
}

// Show puts c at pos with an enter effect.
func (s *Stage) Show(c story.Character, pos story.Position, effect story.Effect) {
	pos = pos.Or(story.PositionCenter)
	slot := &s.slots[pos.Slot()]
	occupant := c
	slot.Occupant = &occupant
	slot.Effect = effect
	s.r.ShowCharacter(pos, c, effect)
	s.begin(slot, true)
}

// Hide clears pos with an exit effect.
func (s *Stage) Hide(pos story.Position, effect story.Effect) {
	pos = pos.Or(story.PositionCenter)
	slot := &s.slots[pos.Slot()]
	slot.Occupant = nil
	slot.Effect = effect
	s.r.HideCharacter(pos, effect)
	s.begin(slot, false)
}

// Clear hides every occupied slot without an effect.
func (s *Stage) Clear() {
	for i := range s.slots {
		slot := &s.slots[i]
		if slot.Occupant == nil && !slot.Shown {
			continue
		}
		s.Hide(story.PositionFromSlot(i), story.EffectNone)
	}
}

// Reset forgets all slot state without calling the renderer. Pending commits
// must already have been cancelled by the owner of the scheduler.
func (s *Stage) Reset() {
	s.slots = [story.SlotCount]Slot{}
}

// Slot returns a copy of the state at pos.
func (s *Stage) Slot(pos story.Position) Slot {
	return s.slots[pos.Or(story.PositionCenter).Slot()]
}

// Transitioning reports whether any slot has a transition in flight.
func (s *Stage) Transitioning() bool {
	for _, slot := range s.slots {
		if slot.Transitioning {
			return true
		}
	}
	return false
}

func (s *Stage) begin(slot *Slot, shown bool) {
	s.sched.Cancel(slot.commit)
	slot.commit = 0
	d := Transition(slot.Effect)
	if d <= 0 {
		slot.Shown = shown
		slot.Transitioning = false
		return
	}
	slot.Transitioning = true
	slot.commit = s.sched.After(d, func() {
		slot.Shown = shown
		slot.Transitioning = false
		slot.commit = 0
	})
}
