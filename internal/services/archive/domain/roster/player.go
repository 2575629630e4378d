package roster

import (
	"fmt"
	"strings"

	"github.com/louisbranch/grimoire.space/internal/platform/id"
)

// Player is a person who has appeared at the table, as a seat or a storyteller.
type Player struct {
	ID   string
	Name string
	// OwnerUserID links the player to an owning user account, when claimed.
	// The link is a weak back-reference; the player does not own the user.
	OwnerUserID string
	// OwnerName caches the owning user's display name as resolved by the
	// persistence collaborator at load time.
	OwnerName string
}

// CreatePlayerInput describes the fields needed to create a player.
type CreatePlayerInput struct {
	Name        string
	OwnerUserID string
	OwnerName   string
}

// NormalizeCreatePlayerInput trims and validates player input.
func NormalizeCreatePlayerInput(input CreatePlayerInput) (CreatePlayerInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.OwnerUserID = strings.TrimSpace(input.OwnerUserID)
	input.OwnerName = strings.TrimSpace(input.OwnerName)
	if input.Name == "" && input.OwnerName == "" {
		return CreatePlayerInput{}, ErrPlayerNameEmpty
	}
	return input, nil
}

// CreatePlayer creates a player with a generated ID.
func CreatePlayer(input CreatePlayerInput, idGenerator func() (string, error)) (Player, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreatePlayerInput(input)
	if err != nil {
		return Player{}, err
	}

	playerID, err := idGenerator()
	if err != nil {
		return Player{}, fmt.Errorf("generate player id: %w", err)
	}

	return Player{
		ID:          playerID,
		Name:        normalized.Name,
		OwnerUserID: normalized.OwnerUserID,
		OwnerName:   normalized.OwnerName,
	}, nil
}

// DisplayName returns the name shown for this player. When an owning user is
// linked, the owner's name overrides the locally stored one.
func (p Player) DisplayName() string {
	if p.OwnerUserID != "" && p.OwnerName != "" {
		return p.OwnerName
	}
	return p.Name
}
