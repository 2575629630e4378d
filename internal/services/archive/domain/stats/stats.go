// Package stats folds a player's game history into a summary record.
//
// The fold is associative and commutative: games contribute independent
// increments that are summed, so histories can be processed in any order and
// split across workers without changing the result. Statistics are derived
// views; nothing here is persisted.
package stats

import (
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

// PlayerStatistics is the per-player summary over the full game history.
type PlayerStatistics struct {
	PlayerID         string
	TotalGamesPlayed int
	TotalWins        int
	TimesStoryteller int
	TimesDeadAtEnd   int
	TimesGood        int
	TimesEvil        int
	// CharacterTypeCounts counts the initial character's type per game, and
	// the end character's type again when the seat switched characters.
	CharacterTypeCounts map[roster.CharacterType]int
	// CharacterCounts counts played characters by character id with the same
	// count-initial-and-changed-end rule.
	CharacterCounts map[string]int
}

// New returns an empty summary for the given player.
func New(playerID string) PlayerStatistics {
	return PlayerStatistics{
		PlayerID:            playerID,
		CharacterTypeCounts: make(map[roster.CharacterType]int),
		CharacterCounts:     make(map[string]int),
	}
}

// Merge combines two partial summaries for the same player. Merge is
// associative and commutative, which is what allows parallel aggregation.
func Merge(a, b PlayerStatistics) PlayerStatistics {
	merged := New(a.PlayerID)
	if merged.PlayerID == "" {
		merged.PlayerID = b.PlayerID
	}
	merged.TotalGamesPlayed = a.TotalGamesPlayed + b.TotalGamesPlayed
	merged.TotalWins = a.TotalWins + b.TotalWins
	merged.TimesStoryteller = a.TimesStoryteller + b.TimesStoryteller
	merged.TimesDeadAtEnd = a.TimesDeadAtEnd + b.TimesDeadAtEnd
	merged.TimesGood = a.TimesGood + b.TimesGood
	merged.TimesEvil = a.TimesEvil + b.TimesEvil
	for characterType, count := range a.CharacterTypeCounts {
		merged.CharacterTypeCounts[characterType] += count
	}
	for characterType, count := range b.CharacterTypeCounts {
		merged.CharacterTypeCounts[characterType] += count
	}
	for characterID, count := range a.CharacterCounts {
		merged.CharacterCounts[characterID] += count
	}
	for characterID, count := range b.CharacterCounts {
		merged.CharacterCounts[characterID] += count
	}
	return merged
}

// Compute folds the given games into a summary for one player. Games the
// player neither played nor storytold contribute nothing; games that cannot
// be interpreted are skipped rather than failing the summary.
func Compute(playerID string, games []game.Game) PlayerStatistics {
	summary := New(playerID)
	for _, g := range games {
		accumulate(&summary, g)
	}
	return summary
}

// accumulate folds one game into the summary.
//
// When the player storytold the game, only the storyteller counters move and
// the game is done: a storyteller who also held a seat gets no win, alignment,
// or character credit for it.
func accumulate(summary *PlayerStatistics, g game.Game) {
	if summary.PlayerID == "" {
		return
	}

	for _, storyteller := range g.Storytellers() {
		if storyteller != nil && storyteller.ID == summary.PlayerID {
			summary.TimesStoryteller++
			summary.TotalGamesPlayed++
			return
		}
	}

	seat, ok := findSeat(g, summary.PlayerID)
	if !ok {
		return
	}

	summary.TotalGamesPlayed++
	for _, winner := range g.WinningPlayers() {
		if winner.ID == summary.PlayerID {
			summary.TotalWins++
			break
		}
	}
	if !seat.AliveAtEnd {
		summary.TimesDeadAtEnd++
	}
	switch seat.EndAlignment {
	case roster.AlignmentGood:
		summary.TimesGood++
	case roster.AlignmentEvil:
		summary.TimesEvil++
	}

	if seat.InitialCharacter != nil {
		summary.CharacterTypeCounts[seat.InitialCharacter.Type]++
		summary.CharacterCounts[seat.InitialCharacter.ID]++
	}
	if seat.EndCharacter != nil {
		if seat.InitialCharacter == nil || seat.EndCharacter.ID != seat.InitialCharacter.ID {
			summary.CharacterTypeCounts[seat.EndCharacter.Type]++
			summary.CharacterCounts[seat.EndCharacter.ID]++
		}
	}
}

// findSeat returns the player's participation in the game, if any.
func findSeat(g game.Game, playerID string) (game.Participation, bool) {
	for _, p := range g.Participations() {
		if p.PlayerID() == playerID {
			return p, true
		}
	}
	return game.Participation{}, false
}
