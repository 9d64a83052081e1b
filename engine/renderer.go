package engine

import (
	"time"

	"github.com/commojun/adventure/story"
)

// Renderer is the presentation boundary. The engine tells it what to show
// and never draws anything itself. All calls happen on the goroutine that
// drives the Machine.
type Renderer interface {
	ShowCharacter(pos story.Position, c story.Character, effect story.Effect)
	HideCharacter(pos story.Position, effect story.Effect)
	ChangeBackground(image string, fade time.Duration)
	// ShowName sets the name plate; an empty name hides it.
	ShowName(name string)
	// ShowText replaces the visible dialogue buffer.
	ShowText(text string)
	ShowAdvanceIndicator(visible bool)
	// ShowChoices renders one button per choice in order; nil hides them.
	ShowChoices(choices []story.Choice)
	ShowProgress(fraction float64)
	// ShowNotice displays a blocking user-visible message.
	ShowNotice(msg string)
}

// NopRenderer ignores every call. Embed it to implement part of Renderer.
type NopRenderer struct{}

func (NopRenderer) ShowCharacter(story.Position, story.Character, story.Effect) {}
func (NopRenderer) HideCharacter(story.Position, story.Effect)                  {}
func (NopRenderer) ChangeBackground(string, time.Duration)                      {}
func (NopRenderer) ShowName(string)                                             {}
func (NopRenderer) ShowText(string)                                             {}
func (NopRenderer) ShowAdvanceIndicator(bool)                                   {}
func (NopRenderer) ShowChoices([]story.Choice)                                  {}
func (NopRenderer) ShowProgress(float64)                                        {}
func (NopRenderer) ShowNotice(string)                                           {}
