package engine

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/commojun/adventure/story"
)

// EnvPrefix prefixes every engine environment variable.
const EnvPrefix = "ADVENTURE_"

// Config holds the engine timings. The wait table gates auto-advance and must
// outlast the transition of the same effect.
type Config struct {
	TextSpeed          time.Duration `env:"TEXT_SPEED"`
	WaitNone           time.Duration `env:"WAIT_NONE"`
	WaitFade           time.Duration `env:"WAIT_FADE"`
	WaitSlide          time.Duration `env:"WAIT_SLIDE"`
	WaitShake          time.Duration `env:"WAIT_SHAKE"`
	BackgroundFade     time.Duration `env:"BACKGROUND_FADE"`
	PreloadTimeout     time.Duration `env:"PRELOAD_TIMEOUT"`
	PreloadConcurrency int           `env:"PRELOAD_CONCURRENCY"`
}

func DefaultConfig() Config {
	return Config{
		TextSpeed:          50 * time.Millisecond,
		WaitNone:           100 * time.Millisecond,
		WaitFade:           300 * time.Millisecond,
		WaitSlide:          300 * time.Millisecond,
		WaitShake:          500 * time.Millisecond,
		BackgroundFade:     500 * time.Millisecond,
		PreloadTimeout:     10 * time.Second,
		PreloadConcurrency: 8,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by ADVENTURE_* variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Wait returns the auto-advance delay for an effect.
func (c Config) Wait(e story.Effect) time.Duration {
	switch e {
	case story.EffectFade:
		return c.WaitFade
	case story.EffectSlide:
		return c.WaitSlide
	case story.EffectShake:
		return c.WaitShake
	default:
		return c.WaitNone
	}
}

// Validate rejects timings the engine cannot run with.
func (c Config) Validate() error {
	if c.TextSpeed <= 0 {
		return fmt.Errorf("engine: text speed must be positive, got %s", c.TextSpeed)
	}
	for e := story.Effect(0); e < story.EffectCount; e++ {
		if c.Wait(e) < Transition(e) {
			return fmt.Errorf("engine: wait for %s (%s) is shorter than its transition (%s)", e, c.Wait(e), Transition(e))
		}
	}
	if c.WaitNone <= 0 {
		return fmt.Errorf("engine: wait for none must be positive, got %s", c.WaitNone)
	}
	if c.BackgroundFade < 0 {
		return fmt.Errorf("engine: background fade must not be negative")
	}
	if c.PreloadTimeout <= 0 {
		return fmt.Errorf("engine: preload timeout must be positive, got %s", c.PreloadTimeout)
	}
	if c.PreloadConcurrency <= 0 {
		return fmt.Errorf("engine: preload concurrency must be positive, got %d", c.PreloadConcurrency)
	}
	return nil
}
