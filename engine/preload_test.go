package engine

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/commojun/adventure/story"
)

func TestCollectImages(t *testing.T) {
	chars := map[string]story.Character{
		"hana": {ID: "hana", ImagePath: "images/hana.png"},
		"ren":  {ID: "ren", ImagePath: "images/ren.png"},
		"anon": {ID: "anon"},
		"twin": {ID: "twin", ImagePath: "images/hana.png"},
	}
	sc, err := story.NewScenario([]story.Scene{
		{SceneID: "a", Type: story.SceneDialogue, Background: "images/bg_room.png"},
		{SceneID: "b", Type: story.SceneDialogue, Background: story.NoChange},
		{SceneID: "c", Type: story.SceneNone, Background: "images/bg_room.png"},
		{SceneID: "d", Type: story.SceneNone, Background: "images/bg_rooftop.png"},
	})
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}

	got := CollectImages(chars, sc)
	want := []string{"images/bg_rooftop.png", "images/bg_room.png", "images/hana.png", "images/ren.png"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPreloadSettlesAll(t *testing.T) {
	var calls atomic.Int32
	loader := AssetLoaderFunc(func(ctx context.Context, ref string) error {
		calls.Add(1)
		if ref == "missing.png" {
			return errors.New("not found")
		}
		return nil
	})
	log, hook := quietLogger()
	p := NewPreloader(loader, time.Second, 2, log)

	rep := p.Preload(context.Background(), []string{"a.png", "missing.png", "b.png"})
	if rep.Total != 3 || rep.Loaded != 2 || rep.Failed() != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if _, ok := rep.Failures["missing.png"]; !ok {
		t.Fatalf("expected missing.png in failures: %v", rep.Failures)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 loads, got %d", calls.Load())
	}
	if len(hook.AllEntries()) != 1 || hook.LastEntry().Data["ref"] != "missing.png" {
		t.Fatalf("expected one warning for missing.png, got %v", hook.AllEntries())
	}
}

func TestPreloadTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// hung ignores its context, like a loader stuck in a blocking read
	loader := AssetLoaderFunc(func(ctx context.Context, ref string) error {
		if ref == "hung.png" {
			<-release
		}
		return nil
	})
	log, _ := quietLogger()
	p := NewPreloader(loader, 20*time.Millisecond, 4, log)

	ch := p.Start(context.Background(), []string{"hung.png", "ok.png"})
	select {
	case rep := <-ch:
		if rep.Loaded != 1 || !errors.Is(rep.Failures["hung.png"], context.DeadlineExceeded) {
			t.Fatalf("unexpected report: %+v", rep)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("preload did not settle after the per-asset timeout")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after the single report")
	}
}

func TestPreloadWithoutLoader(t *testing.T) {
	p := NewPreloader(nil, time.Second, 1, nil)
	rep := p.Preload(context.Background(), []string{"a.png"})
	if rep.Failed() != 1 || rep.Loaded != 0 {
		t.Fatalf("expected every ref to fail, got %+v", rep)
	}

	rep = p.Preload(context.Background(), nil)
	if rep.Total != 0 || rep.Failed() != 0 {
		t.Fatalf("empty preload should be empty, got %+v", rep)
	}
}
