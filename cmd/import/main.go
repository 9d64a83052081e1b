// Command import pulls characters, scenes and choices from a Google
// spreadsheet and writes the story data files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/commojun/adventure/logger"
	"github.com/commojun/adventure/story"
)

type config struct {
	SpreadsheetID   string `env:"SPREADSHEET_ID,required"`
	CredentialsPath string `env:"GOOGLE_CREDENTIALS_PATH" envDefault:"credentials.json"`
}

func main() {
	out := flag.String("out", "story/data", "directory to write characters.json and scenario.json")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Init(*logLevel, "text")
	log := logger.Component("import")

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.WithError(err).Fatal("parse env")
	}

	ctx := context.Background()
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		log.WithError(err).Fatal("create sheets client")
	}

	book, err := importBook(ctx, sheetReader{srv: srv, id: cfg.SpreadsheetID})
	if err != nil {
		log.WithError(err).Fatal("import failed")
	}
	for _, issue := range story.Validate(book) {
		log.WithField("scene", issue.SceneID).Warn(issue.String())
	}

	if err := writeJSON(filepath.Join(*out, story.CharactersFile), book.Characters); err != nil {
		log.WithError(err).Fatal("write characters")
	}
	if err := writeJSON(filepath.Join(*out, story.ScenarioFile), book.Scenario.Scenes()); err != nil {
		log.WithError(err).Fatal("write scenario")
	}
	log.WithField("characters", len(book.Characters)).WithField("scenes", book.Scenario.Len()).Info("import complete")
}

// rangeReader returns the cell values of a sheet range.
type rangeReader interface {
	Read(ctx context.Context, rng string) ([][]interface{}, error)
}

type sheetReader struct {
	srv *sheets.Service
	id  string
}

func (r sheetReader) Read(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := r.srv.Spreadsheets.Values.Get(r.id, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func importBook(ctx context.Context, r rangeReader) (*story.Book, error) {
	rows, err := r.Read(ctx, charactersRange)
	if err != nil {
		return nil, err
	}
	chars, err := parseCharacters(rows)
	if err != nil {
		return nil, err
	}

	rows, err = r.Read(ctx, scenesRange)
	if err != nil {
		return nil, err
	}
	scenes, err := parseScenes(rows)
	if err != nil {
		return nil, err
	}

	rows, err = r.Read(ctx, choicesRange)
	if err != nil {
		return nil, err
	}
	choices, err := parseChoices(rows)
	if err != nil {
		return nil, err
	}
	for _, id := range mergeChoices(scenes, choices) {
		logger.Component("import").WithField("scene", id).Warn("choices for a scene that is not a choice scene")
	}

	return story.NewBook(chars, scenes, story.Title{})
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
