package engine

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/commojun/adventure/story"
)

// recorder is a Renderer that keeps the last state of every surface.
type recorder struct {
	calls      []string
	text       string
	name       string
	indicator  bool
	choices    []story.Choice
	progress   float64
	notice     string
	background string
	onText     func(string)
}

func (r *recorder) ShowCharacter(pos story.Position, c story.Character, effect story.Effect) {
	r.calls = append(r.calls, fmt.Sprintf("show %s %s %s", pos, c.ID, effect))
}

func (r *recorder) HideCharacter(pos story.Position, effect story.Effect) {
	r.calls = append(r.calls, fmt.Sprintf("hide %s %s", pos, effect))
}

func (r *recorder) ChangeBackground(image string, fade time.Duration) {
	r.background = image
	r.calls = append(r.calls, fmt.Sprintf("background %s %s", image, fade))
}

func (r *recorder) ShowName(name string) { r.name = name }

func (r *recorder) ShowText(text string) {
	r.text = text
	if r.onText != nil {
		r.onText(text)
	}
}

func (r *recorder) ShowAdvanceIndicator(visible bool) { r.indicator = visible }

func (r *recorder) ShowChoices(choices []story.Choice) { r.choices = choices }

func (r *recorder) ShowProgress(fraction float64) { r.progress = fraction }

func (r *recorder) ShowNotice(msg string) { r.notice = msg }

func (r *recorder) has(call string) bool {
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

func quietLogger() (*logrus.Entry, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l), hook
}
