package game

import "github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"

// Participation records one seat in a game: who sat in it, the character and
// alignment the seat started and ended with, and whether it survived.
//
// Player is nil for an anonymous seat. Initial and end characters are nil
// when the seat's character was never recorded.
type Participation struct {
	Player           *roster.Player
	InitialCharacter *roster.Character
	InitialAlignment roster.Alignment
	EndCharacter     *roster.Character
	EndAlignment     roster.Alignment
	AliveAtEnd       bool
}

// NewParticipation builds the shorthand record for a seat whose character and
// alignment never changed across the game.
func NewParticipation(player *roster.Player, character *roster.Character, aliveAtEnd bool) Participation {
	return NormalizeParticipation(Participation{
		Player:           player,
		InitialCharacter: character,
		AliveAtEnd:       aliveAtEnd,
	})
}

// NormalizeParticipation applies the construction-time defaulting rules:
// a missing initial alignment defaults to the initial character's type
// alignment, a missing end character defaults to the initial character, and a
// missing end alignment defaults to the end character's type alignment.
// Defaulting happens once here and is never re-evaluated.
func NormalizeParticipation(p Participation) Participation {
	if p.InitialAlignment == roster.AlignmentUnspecified && p.InitialCharacter != nil {
		p.InitialAlignment = p.InitialCharacter.Type.DefaultAlignment()
	}
	if p.EndCharacter == nil {
		p.EndCharacter = p.InitialCharacter
	}
	if p.EndAlignment == roster.AlignmentUnspecified && p.EndCharacter != nil {
		p.EndAlignment = p.EndCharacter.Type.DefaultAlignment()
	}
	return p
}

// PlayerID returns the seat's player id, or "" for an anonymous seat.
func (p Participation) PlayerID() string {
	if p.Player == nil {
		return ""
	}
	return p.Player.ID
}
