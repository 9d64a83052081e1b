package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/commojun/adventure/story"
)

// AssetLoader loads one referenced image. Implementations must be safe for
// concurrent use.
type AssetLoader interface {
	LoadImage(ctx context.Context, ref string) error
}

// AssetLoaderFunc adapts a function to AssetLoader.
type AssetLoaderFunc func(ctx context.Context, ref string) error

func (f AssetLoaderFunc) LoadImage(ctx context.Context, ref string) error {
	return f(ctx, ref)
}

// Report summarizes a finished preload.
type Report struct {
	Total    int
	Loaded   int
	Failures map[string]error
}

// Failed returns the number of assets that did not load.
func (r Report) Failed() int {
	return len(r.Failures)
}

// CollectImages returns every distinct image referenced by the characters and
// the scene backgrounds, sorted.
func CollectImages(chars map[string]story.Character, sc *story.Scenario) []string {
	seen := map[string]struct{}{}
	for _, c := range chars {
		if c.ImagePath != "" {
			seen[c.ImagePath] = struct{}{}
		}
	}
	for _, s := range sc.Scenes() {
		if s.ChangesBackground() {
			seen[s.Background] = struct{}{}
		}
	}
	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Preloader loads assets in parallel. A failed or timed out asset is logged
// and counted; it never aborts the wait for the others.
type Preloader struct {
	loader  AssetLoader
	timeout time.Duration
	limit   int
	log     *logrus.Entry
}

func NewPreloader(loader AssetLoader, timeout time.Duration, limit int, log *logrus.Entry) *Preloader {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Preloader{loader: loader, timeout: timeout, limit: limit, log: log}
}

// Preload blocks until every ref has settled.
func (p *Preloader) Preload(ctx context.Context, refs []string) Report {
	rep := Report{Total: len(refs), Failures: map[string]error{}}
	if p.loader == nil {
		for _, ref := range refs {
			rep.Failures[ref] = fmt.Errorf("no asset loader")
		}
		return rep
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for _, ref := range refs {
		g.Go(func() error {
			err := p.loadOne(ctx, ref)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failures[ref] = err
				p.log.WithFields(logrus.Fields{"ref": ref, "error": err}).Warn("asset failed to load")
				return nil
			}
			rep.Loaded++
			return nil
		})
	}
	_ = g.Wait()
	return rep
}

// Start runs Preload in the background. The channel yields exactly one
// Report and is then closed.
func (p *Preloader) Start(ctx context.Context, refs []string) <-chan Report {
	out := make(chan Report, 1)
	go func() {
		defer close(out)
		out <- p.Preload(ctx, refs)
	}()
	return out
}

func (p *Preloader) loadOne(ctx context.Context, ref string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- p.loader.LoadImage(ctx, ref)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("load %s: %w", ref, ctx.Err())
	}
}
