package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/commojun/adventure/common"
	"github.com/commojun/adventure/engine"
	"github.com/commojun/adventure/logger"
	"github.com/commojun/adventure/render"
	"github.com/commojun/adventure/story"
)

type fontSet struct {
	body, label, big ebtext.Face
}

func loadFonts() (fontSet, error) {
	s, err := ebtext.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fontSet{}, fmt.Errorf("load font: %w", err)
	}
	return fontSet{
		body:  &ebtext.GoTextFace{Source: s, Size: 26},
		label: &ebtext.GoTextFace{Source: s, Size: 24},
		big:   &ebtext.GoTextFace{Source: s, Size: 56},
	}, nil
}

type Game struct {
	ctx     context.Context
	log     *logrus.Entry
	machine *engine.Machine
	screen  *Screen
	menu    *choiceMenu
	watcher *story.Watcher
	loader  *render.Loader

	debug     bool
	title     bool
	clipboard bool
}

type gameOptions struct {
	source  story.Source
	dataDir string
	start   int
	debug   bool
	watch   bool
	config  engine.Config
}

func NewGame(ctx context.Context, opts gameOptions) (*Game, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	reg := render.NewRegistry()
	var dirs []string
	if opts.dataDir != "" {
		dirs = append(dirs, opts.dataDir)
	}
	loader := render.NewLoader(reg, dirs...)

	menu := newChoiceMenu(fonts.body)
	screen := NewScreen(newImageCache(reg), menu, fonts)
	log := logger.Component("player")

	m := engine.New(screen,
		engine.WithConfig(opts.config),
		engine.WithLogger(logger.Component("engine")),
		engine.WithSource(opts.source),
		engine.WithAssetLoader(loader),
	)

	g := &Game{
		ctx:     ctx,
		log:     log,
		machine: m,
		screen:  screen,
		menu:    menu,
		loader:  loader,
		debug:   opts.debug,
		title:   true,
	}

	// a data error leaves the machine idle behind a notice; the window
	// still opens so the notice is visible
	if err := m.LoadFrom(ctx, nil); err != nil {
		log.WithError(err).Error("starting without game data")
		return g, nil
	}
	if err := m.SetStartPosition(opts.start); err != nil {
		return nil, err
	}

	title := m.Title()
	if title.Background != "" {
		if err := loader.LoadImage(ctx, title.Background); err != nil {
			log.WithError(err).Warn("title background failed to load")
		}
		screen.SetBackground(title.Background)
	}
	menu.Set([]string{title.StartLabel})

	if opts.watch && opts.dataDir != "" {
		w, err := story.NewWatcher(opts.dataDir)
		if err != nil {
			log.WithError(err).Warn("watch disabled")
		} else {
			g.watcher = w
		}
	}
	if err := clipboard.Init(); err != nil {
		log.WithError(err).Debug("clipboard unavailable")
	} else {
		g.clipboard = true
	}
	return g, nil
}

func (g *Game) Update() error {
	dt := tickDuration()

	clicked := g.menu.Update()
	switch {
	case g.screen.Notice() != "":
	case g.title:
		if clicked == 0 || advancePressed() {
			g.start()
		}
	case clicked >= 0:
		g.machine.OnChoiceSelected(clicked)
	case !g.menu.Visible() && advancePressed():
		g.machine.OnAdvanceInput()
	}

	if g.debug && inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload("key")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.copyDeepLink()
	}
	g.pollWatcher()

	g.machine.Update(dt)
	g.screen.Tick(dt)

	for _, evt := range g.machine.Events().Drain() {
		g.log.WithFields(logrus.Fields{"event": evt.Kind, "index": evt.Index, "scene": evt.SceneID}).Debug(evt.Text)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.screen.Draw(screen)
	switch {
	case g.screen.Notice() != "":
	case g.title:
		g.screen.DrawTitle(screen, g.machine.Title().Text)
	case g.machine.State() == engine.StateLoading:
		g.screen.DrawStatus(screen, "Loading...")
	}
	g.menu.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// Close stops the data watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) start() {
	g.menu.Set(nil)
	if err := g.machine.Start(g.ctx); err != nil {
		g.log.WithError(err).Error("start failed")
		return
	}
	g.title = false
}

// tickDuration is the game time one Update covers. With SyncWithFPS the
// configured rate is negative and the measured rate is used.
func tickDuration() time.Duration {
	return common.TickDuration(float64(ebiten.TPS()), ebiten.ActualTPS(), ebiten.DefaultTPS)
}

func (g *Game) reload(trigger string) {
	// images decode again in the background preload the reload starts
	g.loader.Refresh()
	if err := g.machine.OnDebugReload(g.ctx); err != nil {
		g.log.WithError(err).WithField("trigger", trigger).Warn("reload failed")
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = name
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("watch error")
			continue
		default:
		}
		break
	}
	if changed != "" {
		g.log.WithField("file", changed).Info("data changed")
		g.reload("watch")
	}
}

// copyDeepLink puts a command line that starts at the current scene on the
// clipboard.
func (g *Game) copyDeepLink() {
	link := fmt.Sprintf("adventure play --start %d", g.machine.Index())
	if !g.clipboard {
		g.log.WithField("link", link).Info("deep link")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(link))
	g.log.WithField("link", link).Info("deep link copied")
}

func advancePressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}
