package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commojun/adventure/logger"
	"github.com/commojun/adventure/story"
)

var (
	ErrNoSource = errors.New("engine: no data source configured")
	ErrNoData   = errors.New("engine: no data loaded")
)

// DataErrorNotice is shown when game data cannot be loaded.
const DataErrorNotice = "Failed to load game data."

// State is the machine's position in the game lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateWaitingForChoice
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateWaitingForChoice:
		return "waiting_for_choice"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// InputMode gates the generic advance signal.
type InputMode int

const (
	InputLocked InputMode = iota
	InputWaitingForAdvance
)

func (m InputMode) String() string {
	if m == InputWaitingForAdvance {
		return "waiting_for_advance"
	}
	return "locked"
}

type Option func(*Machine)

func WithConfig(cfg Config) Option {
	return func(m *Machine) { m.cfg = cfg }
}

func WithLogger(l *logrus.Entry) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSource sets where LoadFrom and OnDebugReload read data from.
func WithSource(src story.Source) Option {
	return func(m *Machine) { m.src = src }
}

// WithAssetLoader sets the loader the preloader fans out to.
func WithAssetLoader(l AssetLoader) Option {
	return func(m *Machine) { m.assets = l }
}

// Machine is the scenario state machine. One Machine is one game session.
// It is not safe for concurrent use: the host calls every method from its
// update loop.
type Machine struct {
	cfg    Config
	log    *logrus.Entry
	r      Renderer
	src    story.Source
	assets AssetLoader

	sched     *Scheduler
	events    EventQueue
	stage     *Stage
	backdrop  *Backdrop
	typer     *Revealer
	preloader *Preloader

	book     *story.Book
	state    State
	mode     InputMode
	index    int
	start    int
	progress float64
	// session changes on reload; timers of an older session are dropped
	session uint64
	busy    bool
	preload <-chan Report
}

func New(r Renderer, opts ...Option) *Machine {
	m := &Machine{
		cfg: DefaultConfig(),
		r:   r,
		log: logger.Component("engine"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.r == nil {
		m.r = NopRenderer{}
	}
	m.sched = NewScheduler()
	m.stage = NewStage(m.sched, m.r)
	m.backdrop = NewBackdrop(m.sched, m.r, m.cfg.BackgroundFade)
	m.typer = NewRevealer(m.sched, m.r, m.cfg.TextSpeed)
	m.typer.OnComplete = m.onRevealComplete
	m.preloader = NewPreloader(m.assets, m.cfg.PreloadTimeout, m.cfg.PreloadConcurrency, m.log.WithField("stage", "preload"))
	return m
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) Mode() InputMode     { return m.mode }
func (m *Machine) Index() int          { return m.index }
func (m *Machine) Progress() float64   { return m.progress }
func (m *Machine) Typing() bool        { return m.typer.Typing() }
func (m *Machine) VisibleText() string { return m.typer.Visible() }
func (m *Machine) Background() string  { return m.backdrop.Current() }
func (m *Machine) Events() *EventQueue { return &m.events }
func (m *Machine) Book() *story.Book   { return m.book }

// Slot returns the character state at pos.
func (m *Machine) Slot(pos story.Position) Slot {
	return m.stage.Slot(pos)
}

// Scene returns the current scene, if the position is inside the script.
func (m *Machine) Scene() (story.Scene, bool) {
	if m.book == nil {
		return story.Scene{}, false
	}
	return m.book.Scenario.At(m.index)
}

// Title returns the loaded title metadata, or the defaults.
func (m *Machine) Title() story.Title {
	if m.book == nil {
		return story.DefaultTitle()
	}
	return m.book.Title
}

// Load installs a data set. Only valid while idle.
func (m *Machine) Load(book *story.Book) error {
	if book == nil || book.Scenario == nil {
		return ErrNoData
	}
	if m.state != StateIdle {
		return fmt.Errorf("engine: load while %s", m.state)
	}
	m.book = book
	m.reportIssues(book)
	m.log.WithFields(logrus.Fields{
		"characters": len(book.Characters),
		"scenes":     book.Scenario.Len(),
	}).Info("game data loaded")
	return nil
}

// LoadFrom loads data from src, or the configured source when src is nil.
// A failure shows a blocking notice and leaves the machine idle.
func (m *Machine) LoadFrom(ctx context.Context, src story.Source) error {
	if src == nil {
		src = m.src
	}
	if src == nil {
		return ErrNoSource
	}
	book, err := src.Load(ctx)
	if err != nil {
		m.dataError(err)
		return err
	}
	return m.Load(book)
}

// SetStartPosition overrides the scene index play starts at. Only valid while
// idle. An index past the end starts in the ended state.
func (m *Machine) SetStartPosition(i int) error {
	if m.state != StateIdle {
		return fmt.Errorf("engine: set start position while %s", m.state)
	}
	if i < 0 {
		m.log.WithField("index", i).Warn("negative start position, starting at 0")
		i = 0
	}
	m.start = i
	return nil
}

// Start leaves the title screen: it begins preloading assets and play starts
// once every asset has settled.
func (m *Machine) Start(ctx context.Context) error {
	if m.state != StateIdle {
		return fmt.Errorf("engine: start while %s", m.state)
	}
	if m.book == nil {
		m.dataError(ErrNoData)
		return ErrNoData
	}
	m.state = StateLoading
	refs := CollectImages(m.book.Characters, m.book.Scenario)
	m.log.WithField("assets", len(refs)).Debug("preloading")
	m.preload = m.preloader.Start(ctx, refs)
	return nil
}

// AwaitPreload blocks until the preload started by Start settles, then begins
// play. Hosts with an update loop can rely on Update instead.
func (m *Machine) AwaitPreload(ctx context.Context) error {
	if m.state != StateLoading || m.preload == nil {
		return nil
	}
	select {
	case rep := <-m.preload:
		m.finishPreload(rep)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update is the host tick: it picks up preload completion and then runs every
// engine timer that comes due within dt.
func (m *Machine) Update(dt time.Duration) {
	if m.state == StateLoading && m.preload != nil {
		select {
		case rep := <-m.preload:
			m.finishPreload(rep)
		default:
		}
	}
	m.guard(func() {
		m.sched.Advance(dt)
	})
}

// OnAdvanceInput handles the generic "next" signal. During a reveal it only
// skips; otherwise it advances when the machine is waiting for it.
func (m *Machine) OnAdvanceInput() {
	m.guard(func() {
		if m.typer.Typing() {
			m.typer.Skip()
			return
		}
		if m.state != StatePlaying || m.mode != InputWaitingForAdvance {
			return
		}
		m.mode = InputLocked
		m.advanceFrom(m.index)
	})
}

// OnChoiceSelected resolves choice k of the current choice scene.
func (m *Machine) OnChoiceSelected(k int) {
	m.guard(func() {
		if m.state != StateWaitingForChoice {
			return
		}
		sc, ok := m.Scene()
		if !ok || k < 0 || k >= len(sc.Choices) {
			m.log.WithFields(logrus.Fields{"index": m.index, "choice": k}).Debug("ignoring out of range choice")
			return
		}
		choice := sc.Choices[k]
		m.r.ShowChoices(nil)
		m.events.Push(Event{Kind: EventChoiceSelected, Index: m.index, SceneID: sc.SceneID, Text: choice.Text})
		res := m.book.Scenario.Resolve(m.index, choice.NextScene)
		m.logResolution(sc, res)
		m.activate(res.Index)
	})
}

// OnDebugReload replaces the data set from the configured source and resumes
// at the current index. If the new script is shorter the machine ends. A
// failed reload keeps the current data.
func (m *Machine) OnDebugReload(ctx context.Context) error {
	if m.src == nil {
		return ErrNoSource
	}
	if m.busy {
		return nil
	}
	book, err := m.src.Load(ctx)
	if err != nil {
		m.log.WithError(err).Error("reload failed, keeping current data")
		m.events.Push(Event{Kind: EventDataError, Index: m.index, Text: err.Error()})
		return fmt.Errorf("engine: reload: %w", err)
	}

	switch m.state {
	case StateIdle:
		return m.Load(book)
	case StateLoading:
		m.book = book
		m.reportIssues(book)
		return nil
	}

	saved := m.index
	m.sched.CancelAll()
	m.session++
	m.typer.Stop()
	m.stage.Clear()
	m.stage.Reset()
	m.backdrop.Reset()
	m.r.ShowChoices(nil)

	m.book = book
	m.reportIssues(book)
	m.events.Push(Event{Kind: EventReloaded, Index: saved})
	m.log.WithFields(logrus.Fields{"index": saved, "scenes": book.Scenario.Len()}).Info("game data reloaded")

	// images new to this data set load in the background; play does not wait
	go m.preloader.Preload(ctx, CollectImages(book.Characters, book.Scenario))

	m.guard(func() {
		m.activate(saved)
	})
	return nil
}

func (m *Machine) finishPreload(rep Report) {
	m.preload = nil
	m.events.Push(Event{Kind: EventPreloadComplete, Index: -1})
	m.log.WithFields(logrus.Fields{
		"total":  rep.Total,
		"loaded": rep.Loaded,
		"failed": rep.Failed(),
	}).Info("preload complete")
	m.state = StatePlaying
	m.guard(func() {
		m.activate(m.start)
	})
}

func (m *Machine) activate(i int) {
	m.index = i
	sc, ok := m.book.Scenario.At(i)
	if !ok {
		m.end()
		return
	}

	m.state = StatePlaying
	m.mode = InputLocked
	m.setProgress(float64(i) / float64(m.book.Scenario.Len()))
	m.log.WithFields(logrus.Fields{"index": i, "scene": sc.Label(), "type": sc.Type}).Debug("scene activated")
	m.events.Push(Event{Kind: EventSceneActivated, Index: i, SceneID: sc.SceneID})

	if sc.ChangesBackground() {
		m.backdrop.Change(sc.Background)
	}

	switch sc.Type {
	case story.SceneDialogue:
		m.playDialogue(sc)
	case story.SceneChoice:
		if len(sc.Choices) == 0 {
			m.log.WithFields(logrus.Fields{"index": i, "scene": sc.Label()}).Warn("choice scene has no choices, continuing")
			m.autoAdvance(i, m.cfg.Wait(story.EffectNone))
			return
		}
		m.r.ShowAdvanceIndicator(false)
		m.state = StateWaitingForChoice
		m.r.ShowChoices(append([]story.Choice(nil), sc.Choices...))
		m.events.Push(Event{Kind: EventChoicesShown, Index: i, SceneID: sc.SceneID})
	case story.SceneShowCharacter:
		if c, ok := m.character(i, sc); ok {
			m.stage.Show(c, sc.Position.Or(c.DefaultPosition), sc.Effect)
		}
		m.autoAdvance(i, m.cfg.Wait(sc.Effect))
	case story.SceneHideCharacter:
		m.stage.Hide(m.hideSlot(sc), sc.Effect)
		m.autoAdvance(i, m.cfg.Wait(sc.Effect))
	default:
		m.autoAdvance(i, m.cfg.Wait(story.EffectNone))
	}
}

// hideSlot picks the slot a hide scene clears. Without a position it is the
// slot a show scene for the same character would have used.
func (m *Machine) hideSlot(sc story.Scene) story.Position {
	if sc.Position == story.PositionUnset && sc.HasCharacter() {
		if c, ok := m.book.Character(sc.CharacterID); ok {
			return c.DefaultPosition
		}
	}
	return sc.Position
}

func (m *Machine) playDialogue(sc story.Scene) {
	m.r.ShowAdvanceIndicator(false)
	name := ""
	if c, ok := m.character(m.index, sc); ok {
		m.stage.Show(c, sc.Position.Or(c.DefaultPosition), sc.Effect)
		name = c.Name
	}
	m.r.ShowName(name)
	m.typer.Reveal(sc.Text)
}

func (m *Machine) onRevealComplete() {
	m.events.Push(Event{Kind: EventRevealComplete, Index: m.index, Text: m.typer.Text()})
	if m.state != StatePlaying {
		return
	}
	m.mode = InputWaitingForAdvance
	m.r.ShowAdvanceIndicator(true)
}

// autoAdvance moves on from scene from after d, without user input.
func (m *Machine) autoAdvance(from int, d time.Duration) {
	session := m.session
	m.sched.After(d, func() {
		if session != m.session || m.index != from || m.state != StatePlaying {
			return
		}
		m.events.Push(Event{Kind: EventAutoAdvance, Index: from})
		m.advanceFrom(from)
	})
}

func (m *Machine) advanceFrom(from int) {
	sc, _ := m.book.Scenario.At(from)
	res := m.book.Scenario.Resolve(from, sc.NextScene)
	m.logResolution(sc, res)
	m.activate(res.Index)
}

func (m *Machine) end() {
	m.state = StateEnded
	m.mode = InputLocked
	m.r.ShowChoices(nil)
	m.r.ShowAdvanceIndicator(false)
	m.r.ShowName("")
	m.stage.Clear()
	m.setProgress(1)
	m.events.Push(Event{Kind: EventEnded, Index: m.index})
	m.log.WithField("index", m.index).Info("scenario ended")
	m.typer.Reveal(m.book.Title.EndText)
}

func (m *Machine) character(i int, sc story.Scene) (story.Character, bool) {
	if !sc.HasCharacter() {
		return story.Character{}, false
	}
	c, ok := m.book.Character(sc.CharacterID)
	if !ok {
		m.log.WithFields(logrus.Fields{"index": i, "scene": sc.Label(), "character": sc.CharacterID}).Warn("unknown character, display skipped")
	}
	return c, ok
}

func (m *Machine) logResolution(sc story.Scene, res story.Resolution) {
	fields := logrus.Fields{"from": m.index, "scene": sc.Label(), "target": res.Target, "to": res.Index, "kind": res.Kind}
	if res.Kind == story.ResolveFallback {
		m.log.WithFields(fields).Warn("branch target not found, falling through")
		return
	}
	m.log.WithFields(fields).Debug("branch resolved")
}

func (m *Machine) setProgress(f float64) {
	m.progress = f
	m.r.ShowProgress(f)
}

func (m *Machine) dataError(err error) {
	m.log.WithError(err).Error("game data failed to load")
	m.events.Push(Event{Kind: EventDataError, Index: -1, Text: err.Error()})
	m.r.ShowNotice(DataErrorNotice)
}

func (m *Machine) reportIssues(book *story.Book) {
	for _, issue := range story.Validate(book) {
		m.log.WithFields(logrus.Fields{"index": issue.Index, "scene": issue.SceneID}).Warn(issue.Message)
	}
}

// guard runs fn unless another dispatch is already running. Input that
// arrives re-entrantly is dropped, not queued.
func (m *Machine) guard(fn func()) {
	if m.busy {
		return
	}
	m.busy = true
	defer func() { m.busy = false }()
	fn()
}
