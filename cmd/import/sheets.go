package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/commojun/adventure/story"
)

// Sheet ranges, header row excluded.
const (
	charactersRange = "characters!A2:D"
	scenesRange     = "scenarios!A2:I"
	choicesRange    = "choices!A2:C"
)

// cell returns column i of row, trimmed. The Sheets API drops trailing empty
// cells, so a short row reads as empty columns instead of being skipped.
func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func blank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// parseCharacters reads id, name, image_path, default_position rows.
func parseCharacters(rows [][]interface{}) (map[string]story.Character, error) {
	chars := make(map[string]story.Character, len(rows))
	for n, row := range rows {
		if blank(row) {
			continue
		}
		id := cell(row, 0)
		if id == "" {
			return nil, fmt.Errorf("characters row %d: empty id", n+2)
		}
		pos, ok := story.ParsePosition(cell(row, 3))
		if !ok {
			return nil, fmt.Errorf("characters row %d: unknown position %q", n+2, cell(row, 3))
		}
		chars[id] = story.Character{
			ID:              id,
			Name:            cell(row, 1),
			ImagePath:       cell(row, 2),
			DefaultPosition: pos,
		}
	}
	return chars, nil
}

// parseScenes reads scene_id, order, type, character_id, text, position,
// effect, background, next_scene rows.
func parseScenes(rows [][]interface{}) ([]story.Scene, error) {
	scenes := make([]story.Scene, 0, len(rows))
	for n, row := range rows {
		if blank(row) {
			continue
		}
		line := n + 2

		var order int
		if s := cell(row, 1); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("scenarios row %d: order %q: %w", line, s, err)
			}
			order = v
		}
		var typ story.SceneType
		if err := typ.UnmarshalText([]byte(cell(row, 2))); err != nil {
			return nil, fmt.Errorf("scenarios row %d: %w", line, err)
		}
		pos, ok := story.ParsePosition(cell(row, 5))
		if !ok {
			return nil, fmt.Errorf("scenarios row %d: unknown position %q", line, cell(row, 5))
		}
		effect, ok := story.ParseEffect(cell(row, 6))
		if !ok {
			return nil, fmt.Errorf("scenarios row %d: unknown effect %q", line, cell(row, 6))
		}

		scenes = append(scenes, story.Scene{
			SceneID:     cell(row, 0),
			Order:       order,
			Type:        typ,
			CharacterID: cell(row, 3),
			// dialogue keeps its spacing; only the other cells are trimmed
			Text:       textCell(row, 4),
			Position:   pos,
			Effect:     effect,
			Background: cell(row, 7),
			NextScene:  cell(row, 8),
		})
	}
	return scenes, nil
}

func textCell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return fmt.Sprintf("%v", row[i])
}

// parseChoices reads scene_id, text, next_scene rows grouped by scene id in
// sheet order.
func parseChoices(rows [][]interface{}) (map[string][]story.Choice, error) {
	choices := make(map[string][]story.Choice)
	for n, row := range rows {
		if blank(row) {
			continue
		}
		id := cell(row, 0)
		if id == "" {
			return nil, fmt.Errorf("choices row %d: empty scene_id", n+2)
		}
		choices[id] = append(choices[id], story.Choice{Text: cell(row, 1), NextScene: cell(row, 2)})
	}
	return choices, nil
}

// mergeChoices attaches choices to choice scenes. It returns the scene ids of
// choice rows no choice scene claimed.
func mergeChoices(scenes []story.Scene, choices map[string][]story.Choice) []string {
	used := map[string]bool{}
	for i, sc := range scenes {
		if sc.Type != story.SceneChoice {
			continue
		}
		if ch, ok := choices[sc.SceneID]; ok {
			scenes[i].Choices = ch
			used[sc.SceneID] = true
		}
	}
	var orphans []string
	for id := range choices {
		if !used[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}
