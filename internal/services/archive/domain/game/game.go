package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/grimoire.space/internal/platform/id"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

// MaxDescriptionLength bounds the free-text description of a game.
const MaxDescriptionLength = 5000

// Game is one fully recorded game: the script it was played on, every seat's
// participation, the winner specification, and the storytellers who ran it.
//
// The participation, winner, and storyteller collections are held privately
// and copied on the way in and out, so a validated Game cannot be invalidated
// by callers mutating slices they still hold.
type Game struct {
	ID   string
	Name string
	// Description provides optional free-form game notes.
	Description string
	Script      *roster.Script
	// Version is the optimistic-lock counter maintained by storage.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	participations []Participation
	winner         Winner
	storytellers   []*roster.Player
}

// CreateGameInput describes the data needed to record a game.
type CreateGameInput struct {
	Name        string
	Description string
	Script      *roster.Script
	// Participations lists every seat in table order.
	Participations []Participation
	// Winner is the winner specification; build it with WinnerFrom to apply
	// the alignment-over-list precedence on raw input.
	Winner Winner
	// Storytellers lists the players who ran the game. Optional; defaults to
	// empty. Storytellers may also appear as participants.
	Storytellers []*roster.Player
}

// CreateGame validates the input and records a new game with a generated ID.
func CreateGame(input CreateGameInput, now func() time.Time, idGenerator func() (string, error)) (Game, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	g, err := build("", 1, input)
	if err != nil {
		return Game{}, err
	}

	gameID, err := idGenerator()
	if err != nil {
		return Game{}, fmt.Errorf("generate game id: %w", err)
	}
	g.ID = gameID

	createdAt := now().UTC()
	g.CreatedAt = createdAt
	g.UpdatedAt = createdAt
	return g, nil
}

// RestoreGame rebuilds a game from persisted state, re-running the full
// consistency ruleset so corrupt records surface instead of propagating.
func RestoreGame(gameID string, version int64, createdAt, updatedAt time.Time, input CreateGameInput) (Game, error) {
	g, err := build(strings.TrimSpace(gameID), version, input)
	if err != nil {
		return Game{}, err
	}
	g.CreatedAt = createdAt.UTC()
	g.UpdatedAt = updatedAt.UTC()
	return g, nil
}

// build runs the consistency rules and assembles the game value. Rules run in
// their documented order; the first violation is returned and nothing is
// partially constructed.
func build(gameID string, version int64, input CreateGameInput) (Game, error) {
	participations := normalizeParticipations(input.Participations)

	if err := checkDuplicateParticipants(participations); err != nil {
		return Game{}, err
	}
	if input.Winner.Kind() == WinnerKindUnspecified {
		return Game{}, ErrMissingWinner
	}
	if err := checkWinnersParticipated(input.Winner, participations); err != nil {
		return Game{}, err
	}
	storytellers, err := normalizeStorytellers(input.Storytellers)
	if err != nil {
		return Game{}, err
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > MaxDescriptionLength {
		return Game{}, fieldTooLong("description", strconv.Itoa(MaxDescriptionLength))
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Game{}, missingField("name")
	}
	if len(participations) == 0 {
		return Game{}, missingField("participations")
	}

	return Game{
		ID:             gameID,
		Name:           name,
		Description:    description,
		Script:         input.Script,
		Version:        version,
		participations: participations,
		winner:         input.Winner,
		storytellers:   storytellers,
	}, nil
}

// Participations returns a copy of the seat list in table order.
func (g Game) Participations() []Participation {
	out := make([]Participation, len(g.participations))
	copy(out, g.participations)
	return out
}

// Winner returns the game's winner specification.
func (g Game) Winner() Winner {
	return g.winner
}

// Storytellers returns a copy of the storyteller list.
func (g Game) Storytellers() []*roster.Player {
	out := make([]*roster.Player, len(g.storytellers))
	copy(out, g.storytellers)
	return out
}

// WinningPlayers derives the winning players view. For an alignment winner
// these are the participants whose end alignment equals the winning
// alignment; for an explicit winner list they are the listed participants.
// Anonymous seats never appear in the view.
func (g Game) WinningPlayers() []*roster.Player {
	var out []*roster.Player
	switch g.winner.Kind() {
	case WinnerKindAlignment:
		alignment, _ := g.winner.Alignment()
		for _, p := range g.participations {
			if p.Player != nil && p.EndAlignment == alignment {
				out = append(out, p.Player)
			}
		}
	case WinnerKindPlayers:
		winnerIDs, _ := g.winner.PlayerIDs()
		for _, winnerID := range winnerIDs {
			for _, p := range g.participations {
				if p.Player != nil && p.Player.ID == winnerID {
					out = append(out, p.Player)
					break
				}
			}
		}
	}
	return out
}

// SetParticipations replaces the seat list. The new set must keep every seat
// unique and must still contain every explicitly recorded winner; an
// alignment-derived winning-players view re-derives automatically.
func (g *Game) SetParticipations(participations []Participation) error {
	replacement := normalizeParticipations(participations)
	if err := checkDuplicateParticipants(replacement); err != nil {
		return err
	}
	if err := checkWinnersParticipated(g.winner, replacement); err != nil {
		return err
	}
	if len(replacement) == 0 {
		return missingField("participations")
	}
	g.participations = replacement
	return nil
}

// SetWinner replaces the winner specification, re-checking that it is present
// and that explicit winners participated.
func (g *Game) SetWinner(winner Winner) error {
	if winner.Kind() == WinnerKindUnspecified {
		return ErrMissingWinner
	}
	if err := checkWinnersParticipated(winner, g.participations); err != nil {
		return err
	}
	g.winner = winner
	return nil
}

// SetStorytellers replaces the storyteller list.
func (g *Game) SetStorytellers(storytellers []*roster.Player) error {
	replacement, err := normalizeStorytellers(storytellers)
	if err != nil {
		return err
	}
	g.storytellers = replacement
	return nil
}

// SetName replaces the game name.
func (g *Game) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return missingField("name")
	}
	g.Name = name
	return nil
}

// SetDescription replaces the free-text description.
func (g *Game) SetDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLength {
		return fieldTooLong("description", strconv.Itoa(MaxDescriptionLength))
	}
	g.Description = description
	return nil
}

// normalizeParticipations copies the caller's slice and applies the
// construction-time defaulting to every seat.
func normalizeParticipations(participations []Participation) []Participation {
	out := make([]Participation, len(participations))
	for i, p := range participations {
		out[i] = NormalizeParticipation(p)
	}
	return out
}

// checkDuplicateParticipants rejects a seat list where the same non-anonymous
// player holds more than one seat.
func checkDuplicateParticipants(participations []Participation) error {
	seen := make(map[string]bool, len(participations))
	for _, p := range participations {
		playerID := p.PlayerID()
		if playerID == "" {
			continue
		}
		if seen[playerID] {
			return duplicateParticipant(playerID)
		}
		seen[playerID] = true
	}
	return nil
}

// checkWinnersParticipated rejects an explicit winner list naming a player
// who holds no seat.
func checkWinnersParticipated(winner Winner, participations []Participation) error {
	winnerIDs, ok := winner.PlayerIDs()
	if !ok {
		return nil
	}
	participants := make(map[string]bool, len(participations))
	for _, p := range participations {
		if playerID := p.PlayerID(); playerID != "" {
			participants[playerID] = true
		}
	}
	for _, winnerID := range winnerIDs {
		if !participants[winnerID] {
			return unknownWinner(winnerID)
		}
	}
	return nil
}

// normalizeStorytellers copies the caller's slice, rejecting nil entries and
// repeated players. Storytellers may overlap with participants.
func normalizeStorytellers(storytellers []*roster.Player) ([]*roster.Player, error) {
	seen := make(map[string]bool, len(storytellers))
	out := make([]*roster.Player, 0, len(storytellers))
	for _, storyteller := range storytellers {
		if storyteller == nil {
			return nil, ErrStorytellerMissing
		}
		if seen[storyteller.ID] {
			return nil, duplicateStoryteller(storyteller.ID)
		}
		seen[storyteller.ID] = true
		out = append(out, storyteller)
	}
	return out, nil
}
