package engine

import "time"

// Revealer shows a line of text one rune per tick.
//
// Each reveal gets a generation number. A tick only runs if its generation is
// still current and its task was not cancelled, so a superseded or skipped
// reveal can never write to the buffer again.
type Revealer struct {
	sched    *Scheduler
	r        Renderer
	interval time.Duration

	full   []rune
	shown  int
	typing bool
	gen    uint64
	task   TaskID

	// OnComplete runs once per reveal, when the last rune is visible or the
	// reveal is skipped.
	OnComplete func()
}

func NewRevealer(sched *Scheduler, r Renderer, interval time.Duration) *Revealer {
	if r == nil {
		r = NopRenderer{}
	}
	if interval <= 0 {
		interval = DefaultConfig().TextSpeed
	}
	return &Revealer{sched: sched, r: r, interval: interval}
}

// Reveal starts revealing text, cancelling any reveal in progress.
func (rv *Revealer) Reveal(text string) {
	rv.cancel()
	rv.gen++
	rv.full = []rune(text)
	rv.shown = 0
	rv.typing = true
	rv.r.ShowText("")
	rv.tick(rv.gen)
}

// Skip finishes the current reveal at once. It reports false, and does
// nothing, when no reveal is in progress.
func (rv *Revealer) Skip() bool {
	if !rv.typing {
		return false
	}
	rv.cancel()
	rv.shown = len(rv.full)
	rv.r.ShowText(string(rv.full))
	rv.complete()
	return true
}

// Stop abandons the current reveal without raising completion.
func (rv *Revealer) Stop() {
	rv.cancel()
	rv.gen++
	rv.typing = false
}

// Typing reports whether a reveal is in progress.
func (rv *Revealer) Typing() bool {
	return rv.typing
}

// Visible returns the currently visible part of the text.
func (rv *Revealer) Visible() string {
	return string(rv.full[:rv.shown])
}

// Text returns the full text of the current or last reveal.
func (rv *Revealer) Text() string {
	return string(rv.full)
}

func (rv *Revealer) tick(gen uint64) {
	if gen != rv.gen || !rv.typing {
		return
	}
	rv.task = 0
	if rv.shown >= len(rv.full) {
		rv.complete()
		return
	}
	rv.shown++
	rv.r.ShowText(string(rv.full[:rv.shown]))
	rv.task = rv.sched.After(rv.interval, func() { rv.tick(gen) })
}

func (rv *Revealer) complete() {
	rv.typing = false
	if rv.OnComplete != nil {
		rv.OnComplete()
	}
}

func (rv *Revealer) cancel() {
	rv.sched.Cancel(rv.task)
	rv.task = 0
}
