package engine

import (
	"time"

	"github.com/commojun/adventure/story"
)

// Backdrop tracks the current background. Changes are fire and forget: the
// cross-fade never blocks scene progression.
type Backdrop struct {
	sched   *Scheduler
	r       Renderer
	fade    time.Duration
	current string
	fading  bool
	task    TaskID
}

func NewBackdrop(sched *Scheduler, r Renderer, fade time.Duration) *Backdrop {
	if r == nil {
		r = NopRenderer{}
	}
	return &Backdrop{sched: sched, r: r, fade: fade}
}

// Change cross-fades to image. The no-change sentinel, an empty reference or
// the current image leave the backdrop alone. It reports whether a change
// started.
func (b *Backdrop) Change(image string) bool {
	if image == "" || image == story.NoChange || image == b.current {
		return false
	}
	b.current = image
	b.r.ChangeBackground(image, b.fade)

	b.sched.Cancel(b.task)
	b.task = 0
	if b.fade <= 0 {
		b.fading = false
		return true
	}
	b.fading = true
	b.task = b.sched.After(b.fade, func() {
		b.fading = false
		b.task = 0
	})
	return true
}

// Current returns the image last changed to.
func (b *Backdrop) Current() string {
	return b.current
}

// Fading reports whether a cross-fade is in flight.
func (b *Backdrop) Fading() bool {
	return b.fading
}

// Reset forgets the in-flight fade flag. The current image is kept so a
// reload does not flash the same background again.
func (b *Backdrop) Reset() {
	b.fading = false
	b.task = 0
}
