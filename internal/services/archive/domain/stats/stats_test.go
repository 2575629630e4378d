package stats

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

var (
	ada  = &roster.Player{ID: "p-ada", Name: "Ada"}
	finn = &roster.Player{ID: "p-finn", Name: "Finn"}
	rhea = &roster.Player{ID: "p-rhea", Name: "Rhea"}

	librarian = &roster.Character{ID: "librarian", Name: "Librarian", Type: roster.CharacterTypeTownsfolk}
	imp       = &roster.Character{ID: "imp", Name: "Imp", Type: roster.CharacterTypeDemon}
	baron     = &roster.Character{ID: "baron", Name: "Baron", Type: roster.CharacterTypeMinion}
	scapegoat = &roster.Character{ID: "scapegoat", Name: "Scapegoat", Type: roster.CharacterTypeTraveller}
)

func mustGame(t *testing.T, input game.CreateGameInput) game.Game {
	t.Helper()
	if input.Name == "" {
		input.Name = "game"
	}
	g, err := game.CreateGame(input, nil, nil)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func TestComputeSingleWin(t *testing.T) {
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			game.NewParticipation(ada, librarian, true),
			game.NewParticipation(finn, imp, false),
		},
		Winner: game.WinnerAlignment(roster.AlignmentGood),
	})

	summary := Compute(ada.ID, []game.Game{g})

	if summary.TotalGamesPlayed != 1 {
		t.Fatalf("expected 1 game played, got %d", summary.TotalGamesPlayed)
	}
	if summary.TotalWins != 1 {
		t.Fatalf("expected 1 win, got %d", summary.TotalWins)
	}
	if summary.TimesGood != 1 || summary.TimesEvil != 0 {
		t.Fatalf("expected good=1 evil=0, got good=%d evil=%d", summary.TimesGood, summary.TimesEvil)
	}
	if summary.TimesDeadAtEnd != 0 {
		t.Fatalf("expected 0 deaths, got %d", summary.TimesDeadAtEnd)
	}
	if summary.CharacterTypeCounts[roster.CharacterTypeTownsfolk] != 1 {
		t.Fatalf("expected townsfolk count 1, got %v", summary.CharacterTypeCounts)
	}
	if summary.CharacterCounts[librarian.ID] != 1 {
		t.Fatalf("expected librarian count 1, got %v", summary.CharacterCounts)
	}
}

func TestComputeSoleStoryteller(t *testing.T) {
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			game.NewParticipation(ada, librarian, true),
		},
		Winner:       game.WinnerAlignment(roster.AlignmentGood),
		Storytellers: []*roster.Player{rhea},
	})

	summary := Compute(rhea.ID, []game.Game{g})

	if summary.TotalGamesPlayed != 1 || summary.TimesStoryteller != 1 {
		t.Fatalf("expected played=1 storyteller=1, got %+v", summary)
	}
	if summary.TotalWins != 0 || summary.TimesGood != 0 || summary.TimesEvil != 0 || summary.TimesDeadAtEnd != 0 {
		t.Fatalf("expected all other counters zero, got %+v", summary)
	}
	if len(summary.CharacterTypeCounts) != 0 || len(summary.CharacterCounts) != 0 {
		t.Fatalf("expected empty character counts, got %+v", summary)
	}
}

func TestComputeStorytellerShortCircuitsOwnSeat(t *testing.T) {
	// Rhea storytold and also held a winning seat. The storyteller branch
	// wins: the game counts once as storytold and the seat contributes no
	// win, alignment, death, or character credit.
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			game.NewParticipation(rhea, librarian, false),
			game.NewParticipation(finn, imp, false),
		},
		Winner:       game.WinnerAlignment(roster.AlignmentGood),
		Storytellers: []*roster.Player{rhea},
	})

	summary := Compute(rhea.ID, []game.Game{g})

	if summary.TotalGamesPlayed != 1 || summary.TimesStoryteller != 1 {
		t.Fatalf("expected played=1 storyteller=1, got %+v", summary)
	}
	if summary.TotalWins != 0 {
		t.Fatalf("expected no win credit for storyteller seat, got %d", summary.TotalWins)
	}
	if summary.TimesDeadAtEnd != 0 || summary.TimesGood != 0 {
		t.Fatalf("expected seat counters untouched, got %+v", summary)
	}
	if len(summary.CharacterCounts) != 0 {
		t.Fatalf("expected no character credit, got %v", summary.CharacterCounts)
	}
}

func TestComputeCharacterSwitchCountsTwice(t *testing.T) {
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			{Player: ada, InitialCharacter: librarian, EndCharacter: imp, AliveAtEnd: true},
			game.NewParticipation(finn, baron, false),
		},
		Winner: game.WinnerAlignment(roster.AlignmentEvil),
	})

	summary := Compute(ada.ID, []game.Game{g})

	if summary.CharacterTypeCounts[roster.CharacterTypeTownsfolk] != 1 {
		t.Fatalf("expected initial type counted, got %v", summary.CharacterTypeCounts)
	}
	if summary.CharacterTypeCounts[roster.CharacterTypeDemon] != 1 {
		t.Fatalf("expected end type counted, got %v", summary.CharacterTypeCounts)
	}
	if summary.CharacterCounts[librarian.ID] != 1 || summary.CharacterCounts[imp.ID] != 1 {
		t.Fatalf("expected both characters counted, got %v", summary.CharacterCounts)
	}
	// Ada ended as the Imp, so her end alignment defaulted to evil and the
	// evil team's win is hers too.
	if summary.TimesEvil != 1 || summary.TotalWins != 1 {
		t.Fatalf("expected evil=1 wins=1, got %+v", summary)
	}
}

func TestComputeDeadAtEnd(t *testing.T) {
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			game.NewParticipation(ada, librarian, false),
			game.NewParticipation(finn, imp, true),
		},
		Winner: game.WinnerAlignment(roster.AlignmentEvil),
	})

	summary := Compute(ada.ID, []game.Game{g})
	if summary.TimesDeadAtEnd != 1 {
		t.Fatalf("expected 1 death, got %d", summary.TimesDeadAtEnd)
	}
	if summary.TotalWins != 0 {
		t.Fatalf("expected no win, got %d", summary.TotalWins)
	}
}

func TestComputeUnknownEndAlignmentCountsNeither(t *testing.T) {
	// A seat recorded with no character has no end alignment.
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			{Player: ada, AliveAtEnd: true},
			game.NewParticipation(finn, imp, true),
		},
		Winner: game.WinnerAlignment(roster.AlignmentEvil),
	})

	summary := Compute(ada.ID, []game.Game{g})
	if summary.TotalGamesPlayed != 1 {
		t.Fatalf("expected 1 game played, got %d", summary.TotalGamesPlayed)
	}
	if summary.TimesGood != 0 || summary.TimesEvil != 0 {
		t.Fatalf("expected neither alignment counted, got %+v", summary)
	}
}

func TestComputeIgnoresUnrelatedGames(t *testing.T) {
	g := mustGame(t, game.CreateGameInput{
		Participations: []game.Participation{
			game.NewParticipation(finn, imp, true),
		},
		Winner: game.WinnerAlignment(roster.AlignmentEvil),
	})

	summary := Compute(ada.ID, []game.Game{g})
	if summary.TotalGamesPlayed != 0 || summary.TimesStoryteller != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func historyFixture(t *testing.T) []game.Game {
	t.Helper()
	return []game.Game{
		mustGame(t, game.CreateGameInput{
			Participations: []game.Participation{
				game.NewParticipation(ada, librarian, true),
				game.NewParticipation(finn, imp, false),
			},
			Winner: game.WinnerAlignment(roster.AlignmentGood),
		}),
		mustGame(t, game.CreateGameInput{
			Participations: []game.Participation{
				game.NewParticipation(ada, baron, false),
				game.NewParticipation(finn, librarian, true),
			},
			Winner: game.WinnerAlignment(roster.AlignmentGood),
		}),
		mustGame(t, game.CreateGameInput{
			Participations: []game.Participation{
				game.NewParticipation(finn, imp, true),
				{Player: rhea, InitialCharacter: scapegoat, EndCharacter: imp, AliveAtEnd: false},
			},
			Winner:       game.WinnerPlayers([]string{finn.ID}),
			Storytellers: []*roster.Player{ada},
		}),
		mustGame(t, game.CreateGameInput{
			Participations: []game.Participation{
				game.NewParticipation(rhea, librarian, true),
				game.NewParticipation(finn, baron, false),
			},
			Winner:       game.WinnerAlignment(roster.AlignmentEvil),
			Storytellers: []*roster.Player{ada},
		}),
	}
}

func TestComputeCommutative(t *testing.T) {
	games := historyFixture(t)
	want := Compute(ada.ID, games)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]game.Game, len(games))
		copy(shuffled, games)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Compute(ada.ID, shuffled)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("permutation %d changed the summary: want %+v, got %+v", i, want, got)
		}
	}
}

func TestMergeMatchesSequentialFold(t *testing.T) {
	games := historyFixture(t)
	want := Compute(finn.ID, games)

	left := Compute(finn.ID, games[:2])
	right := Compute(finn.ID, games[2:])
	if got := Merge(left, right); !reflect.DeepEqual(want, got) {
		t.Fatalf("expected merged halves to equal full fold: want %+v, got %+v", want, got)
	}
	if got := Merge(right, left); !reflect.DeepEqual(want, got) {
		t.Fatalf("expected merge to be commutative: want %+v, got %+v", want, got)
	}
}
