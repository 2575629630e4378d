package game

import (
	"strings"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

// WinnerKind discriminates the winner union.
type WinnerKind int

const (
	// WinnerKindUnspecified marks an absent winner specification.
	WinnerKindUnspecified WinnerKind = iota
	// WinnerKindAlignment marks a winner derived from a winning alignment.
	WinnerKindAlignment
	// WinnerKindPlayers marks an explicit list of winning players.
	WinnerKindPlayers
)

// Winner is the tagged winner specification of a game: either a winning
// alignment or an explicit list of winning player ids, never both. The zero
// value is the absent specification and fails validation.
type Winner struct {
	kind      WinnerKind
	alignment roster.Alignment
	playerIDs []string
}

// WinnerAlignment specifies the winner by winning team.
func WinnerAlignment(alignment roster.Alignment) Winner {
	if alignment == roster.AlignmentUnspecified {
		return Winner{}
	}
	return Winner{kind: WinnerKindAlignment, alignment: alignment}
}

// WinnerPlayers specifies the winner by an explicit player list. The list is
// copied, trimmed, and deduplicated on entry.
func WinnerPlayers(playerIDs []string) Winner {
	seen := make(map[string]bool, len(playerIDs))
	var cloned []string
	for _, playerID := range playerIDs {
		playerID = strings.TrimSpace(playerID)
		if playerID == "" || seen[playerID] {
			continue
		}
		seen[playerID] = true
		cloned = append(cloned, playerID)
	}
	return Winner{kind: WinnerKindPlayers, playerIDs: cloned}
}

// WinnerFrom resolves the two inbound winner fields into the union. Supplying
// an alignment always takes precedence and clears any explicit list passed
// alongside it.
func WinnerFrom(alignment roster.Alignment, playerIDs []string) Winner {
	if alignment != roster.AlignmentUnspecified {
		return WinnerAlignment(alignment)
	}
	if playerIDs != nil {
		return WinnerPlayers(playerIDs)
	}
	return Winner{}
}

// Kind returns the winner discriminator.
func (w Winner) Kind() WinnerKind {
	return w.kind
}

// Alignment returns the winning alignment when the winner is alignment-derived.
func (w Winner) Alignment() (roster.Alignment, bool) {
	if w.kind != WinnerKindAlignment {
		return roster.AlignmentUnspecified, false
	}
	return w.alignment, true
}

// PlayerIDs returns a copy of the explicit winner list when present.
func (w Winner) PlayerIDs() ([]string, bool) {
	if w.kind != WinnerKindPlayers {
		return nil, false
	}
	out := make([]string, len(w.playerIDs))
	copy(out, w.playerIDs)
	return out, true
}
