// Package seed loads the base Trouble Brewing roster into an archive store
// so a fresh deployment has characters and a script to record games against.
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

// Config holds seed run configuration.
type Config struct {
	Verbose bool
}

type seedCharacter struct {
	name          string
	characterType roster.CharacterType
}

const scriptName = "Trouble Brewing"

var baseRoster = []seedCharacter{
	{"Washerwoman", roster.CharacterTypeTownsfolk},
	{"Librarian", roster.CharacterTypeTownsfolk},
	{"Investigator", roster.CharacterTypeTownsfolk},
	{"Chef", roster.CharacterTypeTownsfolk},
	{"Empath", roster.CharacterTypeTownsfolk},
	{"Fortune Teller", roster.CharacterTypeTownsfolk},
	{"Undertaker", roster.CharacterTypeTownsfolk},
	{"Monk", roster.CharacterTypeTownsfolk},
	{"Ravenkeeper", roster.CharacterTypeTownsfolk},
	{"Virgin", roster.CharacterTypeTownsfolk},
	{"Slayer", roster.CharacterTypeTownsfolk},
	{"Soldier", roster.CharacterTypeTownsfolk},
	{"Mayor", roster.CharacterTypeTownsfolk},
	{"Butler", roster.CharacterTypeOutsider},
	{"Drunk", roster.CharacterTypeOutsider},
	{"Recluse", roster.CharacterTypeOutsider},
	{"Saint", roster.CharacterTypeOutsider},
	{"Poisoner", roster.CharacterTypeMinion},
	{"Spy", roster.CharacterTypeMinion},
	{"Scarlet Woman", roster.CharacterTypeMinion},
	{"Baron", roster.CharacterTypeMinion},
	{"Imp", roster.CharacterTypeDemon},
}

// Run seeds the base roster and script, skipping entries that already exist.
// Existing records are matched by name so reruns are idempotent.
func Run(ctx context.Context, store storage.Store, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	existing, err := existingCharacterIDsByName(ctx, store)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	characterIDs := make([]string, 0, len(baseRoster))
	for _, entry := range baseRoster {
		if characterID, ok := existing[entry.name]; ok {
			characterIDs = append(characterIDs, characterID)
			if cfg.Verbose {
				fmt.Fprintf(out, "skip character %s\n", entry.name)
			}
			continue
		}
		character, err := roster.CreateCharacter(roster.CreateCharacterInput{
			Name: entry.name,
			Type: entry.characterType,
		}, nil)
		if err != nil {
			return fmt.Errorf("build character %s: %w", entry.name, err)
		}
		record := storage.CharacterRecord{
			ID:        character.ID,
			Name:      character.Name,
			Type:      character.Type.String(),
			Version:   character.Version,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateCharacter(ctx, record); err != nil {
			return fmt.Errorf("create character %s: %w", entry.name, err)
		}
		characterIDs = append(characterIDs, character.ID)
		fmt.Fprintf(out, "seeded character %s\n", entry.name)
	}

	seeded, err := seedScript(ctx, store, characterIDs, now)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Fprintf(out, "seeded script %s\n", scriptName)
	} else if cfg.Verbose {
		fmt.Fprintf(out, "skip script %s\n", scriptName)
	}
	return nil
}

func existingCharacterIDsByName(ctx context.Context, store storage.Store) (map[string]string, error) {
	byName := make(map[string]string)
	pageToken := ""
	for {
		page, err := store.ListCharacters(ctx, 200, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list characters: %w", err)
		}
		for _, record := range page.Characters {
			byName[record.Name] = record.ID
		}
		if page.NextPageToken == "" {
			return byName, nil
		}
		pageToken = page.NextPageToken
	}
}

func seedScript(ctx context.Context, store storage.Store, characterIDs []string, now time.Time) (bool, error) {
	pageToken := ""
	for {
		page, err := store.ListScripts(ctx, 200, pageToken)
		if err != nil {
			return false, fmt.Errorf("list scripts: %w", err)
		}
		for _, record := range page.Scripts {
			if record.Name == scriptName {
				return false, nil
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	script, err := roster.CreateScript(roster.CreateScriptInput{
		Name:         scriptName,
		Description:  "The base edition roster.",
		CharacterIDs: characterIDs,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("build script: %w", err)
	}
	record := storage.ScriptRecord{
		ID:           script.ID,
		Name:         script.Name,
		Description:  script.Description,
		CharacterIDs: script.CharacterIDs(),
		Version:      script.Version,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateScript(ctx, record); err != nil {
		return false, fmt.Errorf("create script: %w", err)
	}
	return true, nil
}
