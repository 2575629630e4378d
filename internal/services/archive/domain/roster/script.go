package roster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/grimoire.space/internal/platform/id"
)

// Script is a named set of characters legal for a game.
type Script struct {
	ID   string
	Name string
	// Description provides optional free-form script notes.
	Description string
	WikiURL     string
	// Version is the optimistic-lock counter maintained by storage.
	Version int64

	// characterIDs is the deduplicated set of character ids the script
	// permits, kept unexported so mutation goes through ReplaceCharacters.
	characterIDs []string
}

// CreateScriptInput describes the fields needed to create a script.
type CreateScriptInput struct {
	Name         string
	Description  string
	WikiURL      string
	CharacterIDs []string
}

// NormalizeCreateScriptInput trims and validates script input.
func NormalizeCreateScriptInput(input CreateScriptInput) (CreateScriptInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateScriptInput{}, ErrScriptNameEmpty
	}
	input.Description = strings.TrimSpace(input.Description)
	input.WikiURL = strings.TrimSpace(input.WikiURL)
	input.CharacterIDs = normalizeCharacterSet(input.CharacterIDs)
	if len(input.CharacterIDs) == 0 {
		return CreateScriptInput{}, ErrScriptEmptyCharacterSet
	}
	return input, nil
}

// CreateScript creates a script with a generated ID.
func CreateScript(input CreateScriptInput, idGenerator func() (string, error)) (Script, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateScriptInput(input)
	if err != nil {
		return Script{}, err
	}

	scriptID, err := idGenerator()
	if err != nil {
		return Script{}, fmt.Errorf("generate script id: %w", err)
	}

	return Script{
		ID:           scriptID,
		Name:         normalized.Name,
		Description:  normalized.Description,
		WikiURL:      normalized.WikiURL,
		Version:      1,
		characterIDs: normalized.CharacterIDs,
	}, nil
}

// RestoreScript rebuilds a script from persisted state without re-generating
// its identity. It applies the same character-set invariant as CreateScript.
func RestoreScript(scriptID string, version int64, input CreateScriptInput) (Script, error) {
	normalized, err := NormalizeCreateScriptInput(input)
	if err != nil {
		return Script{}, err
	}
	return Script{
		ID:           strings.TrimSpace(scriptID),
		Name:         normalized.Name,
		Description:  normalized.Description,
		WikiURL:      normalized.WikiURL,
		Version:      version,
		characterIDs: normalized.CharacterIDs,
	}, nil
}

// CharacterIDs returns a copy of the script's character id set.
func (s Script) CharacterIDs() []string {
	out := make([]string, len(s.characterIDs))
	copy(out, s.characterIDs)
	return out
}

// Permits reports whether the script includes the given character.
func (s Script) Permits(characterID string) bool {
	for _, existing := range s.characterIDs {
		if existing == characterID {
			return true
		}
	}
	return false
}

// ReplaceCharacters swaps the whole character set atomically. The new set must
// be non-empty; on failure the previous set is left untouched.
func (s *Script) ReplaceCharacters(characterIDs []string) error {
	replacement := normalizeCharacterSet(characterIDs)
	if len(replacement) == 0 {
		return ErrScriptEmptyCharacterSet
	}
	s.characterIDs = replacement
	return nil
}

// normalizeCharacterSet trims, deduplicates, and sorts character ids so the
// set has one canonical representation.
func normalizeCharacterSet(characterIDs []string) []string {
	seen := make(map[string]bool, len(characterIDs))
	var out []string
	for _, characterID := range characterIDs {
		characterID = strings.TrimSpace(characterID)
		if characterID == "" || seen[characterID] {
			continue
		}
		seen[characterID] = true
		out = append(out, characterID)
	}
	sort.Strings(out)
	return out
}
