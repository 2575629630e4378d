package rest

import (
	"context"
	"errors"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

// gameToRecord flattens a validated game into its storage shape.
func gameToRecord(g game.Game) storage.GameRecord {
	record := storage.GameRecord{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Version:     g.Version,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.Script != nil {
		record.ScriptID = g.Script.ID
	}

	for _, p := range g.Participations() {
		seat := storage.ParticipationRecord{
			PlayerID:         p.PlayerID(),
			InitialAlignment: p.InitialAlignment.String(),
			EndAlignment:     p.EndAlignment.String(),
			AliveAtEnd:       p.AliveAtEnd,
		}
		if p.InitialAlignment == roster.AlignmentUnspecified {
			seat.InitialAlignment = ""
		}
		if p.EndAlignment == roster.AlignmentUnspecified {
			seat.EndAlignment = ""
		}
		if p.InitialCharacter != nil {
			seat.InitialCharacterID = p.InitialCharacter.ID
		}
		if p.EndCharacter != nil {
			seat.EndCharacterID = p.EndCharacter.ID
		}
		record.Participations = append(record.Participations, seat)
	}

	winner := g.Winner()
	switch winner.Kind() {
	case game.WinnerKindAlignment:
		alignment, _ := winner.Alignment()
		record.WinnerAlignment = alignment.String()
	case game.WinnerKindPlayers:
		record.WinnerPlayerIDs, _ = winner.PlayerIDs()
	}

	for _, storyteller := range g.Storytellers() {
		record.StorytellerIDs = append(record.StorytellerIDs, storyteller.ID)
	}
	return record
}

// gameInputFromRecord rebuilds the domain input for a stored game. Character
// and player references are restored as id-bearing stubs fleshed out from the
// given lookup; characters missing from it keep only their id.
func gameInputFromRecord(record storage.GameRecord, characters map[string]*roster.Character) game.CreateGameInput {
	input := game.CreateGameInput{
		Name:        record.Name,
		Description: record.Description,
		Winner: game.WinnerFrom(
			roster.ParseAlignment(record.WinnerAlignment),
			record.WinnerPlayerIDs,
		),
	}
	if record.ScriptID != "" {
		input.Script = &roster.Script{ID: record.ScriptID}
	}
	for _, seat := range record.Participations {
		input.Participations = append(input.Participations, game.Participation{
			Player:           playerStub(seat.PlayerID),
			InitialCharacter: lookupCharacter(characters, seat.InitialCharacterID),
			InitialAlignment: roster.ParseAlignment(seat.InitialAlignment),
			EndCharacter:     lookupCharacter(characters, seat.EndCharacterID),
			EndAlignment:     roster.ParseAlignment(seat.EndAlignment),
			AliveAtEnd:       seat.AliveAtEnd,
		})
	}
	for _, playerID := range record.StorytellerIDs {
		input.Storytellers = append(input.Storytellers, &roster.Player{ID: playerID})
	}
	return input
}

// playerStub restores a stored player reference; an empty id stays a nil
// player so the seat remains anonymous.
func playerStub(playerID string) *roster.Player {
	if playerID == "" {
		return nil
	}
	return &roster.Player{ID: playerID}
}

func lookupCharacter(characters map[string]*roster.Character, characterID string) *roster.Character {
	if characterID == "" {
		return nil
	}
	if character, ok := characters[characterID]; ok {
		return character
	}
	return &roster.Character{ID: characterID}
}

// resolveGameCharacters loads every character referenced by the given game
// records into domain form. References that no longer resolve are kept as
// bare ids rather than failing the read.
func (s *Server) resolveGameCharacters(ctx context.Context, records []storage.GameRecord) (map[string]*roster.Character, error) {
	characters := make(map[string]*roster.Character)
	for _, record := range records {
		for _, seat := range record.Participations {
			for _, characterID := range []string{seat.InitialCharacterID, seat.EndCharacterID} {
				if characterID == "" {
					continue
				}
				if _, ok := characters[characterID]; ok {
					continue
				}
				stored, err := s.store.GetCharacter(ctx, characterID)
				if err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						characters[characterID] = &roster.Character{ID: characterID}
						continue
					}
					return nil, err
				}
				characters[characterID] = &roster.Character{
					ID:         stored.ID,
					Name:       stored.Name,
					Type:       roster.ParseCharacterType(stored.Type),
					ExternalID: stored.ExternalID,
					WikiURL:    stored.WikiURL,
					ImageURL:   stored.ImageURL,
					Version:    stored.Version,
				}
			}
		}
	}
	return characters, nil
}
