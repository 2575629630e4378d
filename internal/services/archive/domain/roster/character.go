package roster

import (
	"fmt"
	"strings"

	"github.com/louisbranch/grimoire.space/internal/platform/id"
)

// CharacterType describes the class of a character on a script.
type CharacterType int

const (
	// CharacterTypeUnspecified represents an invalid character type value.
	CharacterTypeUnspecified CharacterType = iota
	// CharacterTypeTownsfolk indicates a townsfolk character.
	CharacterTypeTownsfolk
	// CharacterTypeOutsider indicates an outsider character.
	CharacterTypeOutsider
	// CharacterTypeMinion indicates a minion character.
	CharacterTypeMinion
	// CharacterTypeDemon indicates a demon character.
	CharacterTypeDemon
	// CharacterTypeTraveller indicates a traveller character.
	CharacterTypeTraveller
)

// DefaultAlignment returns the alignment a character of this type starts the
// game with. The mapping is fixed: townsfolk, outsiders, and travellers are
// good; minions and demons are evil.
func (t CharacterType) DefaultAlignment() Alignment {
	switch t {
	case CharacterTypeTownsfolk, CharacterTypeOutsider, CharacterTypeTraveller:
		return AlignmentGood
	case CharacterTypeMinion, CharacterTypeDemon:
		return AlignmentEvil
	default:
		return AlignmentUnspecified
	}
}

// String returns the storage label for the character type.
func (t CharacterType) String() string {
	switch t {
	case CharacterTypeTownsfolk:
		return "TOWNSFOLK"
	case CharacterTypeOutsider:
		return "OUTSIDER"
	case CharacterTypeMinion:
		return "MINION"
	case CharacterTypeDemon:
		return "DEMON"
	case CharacterTypeTraveller:
		return "TRAVELLER"
	default:
		return "UNSPECIFIED"
	}
}

// ParseCharacterType maps a storage label back to a CharacterType.
// Unknown labels map to CharacterTypeUnspecified.
func ParseCharacterType(value string) CharacterType {
	switch value {
	case "TOWNSFOLK":
		return CharacterTypeTownsfolk
	case "OUTSIDER":
		return CharacterTypeOutsider
	case "MINION":
		return CharacterTypeMinion
	case "DEMON":
		return CharacterTypeDemon
	case "TRAVELLER":
		return CharacterTypeTraveller
	default:
		return CharacterTypeUnspecified
	}
}

// Character is one entry in the character catalog.
type Character struct {
	ID   string
	Name string
	Type CharacterType
	// ExternalID is the optional identifier used by the official catalog.
	ExternalID string
	WikiURL    string
	ImageURL   string
	// Version is the optimistic-lock counter maintained by storage.
	Version int64
}

// CreateCharacterInput describes the fields needed to create a character.
type CreateCharacterInput struct {
	Name       string
	Type       CharacterType
	ExternalID string
	WikiURL    string
	ImageURL   string
}

// NormalizeCreateCharacterInput trims and validates character input.
func NormalizeCreateCharacterInput(input CreateCharacterInput) (CreateCharacterInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateCharacterInput{}, ErrCharacterNameEmpty
	}
	if input.Type.DefaultAlignment() == AlignmentUnspecified {
		return CreateCharacterInput{}, ErrCharacterInvalidType
	}
	input.ExternalID = strings.TrimSpace(input.ExternalID)
	input.WikiURL = strings.TrimSpace(input.WikiURL)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	return input, nil
}

// CreateCharacter creates a catalog character with a generated ID.
func CreateCharacter(input CreateCharacterInput, idGenerator func() (string, error)) (Character, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateCharacterInput(input)
	if err != nil {
		return Character{}, err
	}

	characterID, err := idGenerator()
	if err != nil {
		return Character{}, fmt.Errorf("generate character id: %w", err)
	}

	return Character{
		ID:         characterID,
		Name:       normalized.Name,
		Type:       normalized.Type,
		ExternalID: normalized.ExternalID,
		WikiURL:    normalized.WikiURL,
		ImageURL:   normalized.ImageURL,
		Version:    1,
	}, nil
}
