package stats

import (
	"context"
	"reflect"
	"testing"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

func TestComputeParallelMatchesSequential(t *testing.T) {
	games := historyFixture(t)
	// Repeat the fixture so every worker gets more than one chunk.
	for len(games) < 64 {
		games = append(games, games...)
	}

	for _, playerID := range []string{ada.ID, finn.ID, rhea.ID} {
		want := Compute(playerID, games)
		for _, workers := range []int{0, 1, 2, 8} {
			got, err := ComputeParallel(context.Background(), playerID, games, workers)
			if err != nil {
				t.Fatalf("player %s workers %d: %v", playerID, workers, err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("player %s workers %d: want %+v, got %+v", playerID, workers, want, got)
			}
		}
	}
}

func TestComputeParallelEmptyHistory(t *testing.T) {
	got, err := ComputeParallel(context.Background(), ada.ID, nil, 4)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !reflect.DeepEqual(got, New(ada.ID)) {
		t.Fatalf("expected empty summary, got %+v", got)
	}
}

func TestComputeParallelCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	games := historyFixture(t)
	for len(games) < 1024 {
		games = append(games, games...)
	}

	if _, err := ComputeParallel(ctx, ada.ID, games, 4); err == nil {
		t.Fatal("expected context error")
	}
}

func TestComputeParallelStrangeFixtureStaysConsistent(t *testing.T) {
	g, err := game.CreateGame(game.CreateGameInput{
		Name: "finale",
		Participations: []game.Participation{
			game.NewParticipation(ada, librarian, false),
			game.NewParticipation(finn, imp, false),
		},
		Winner:       game.WinnerPlayers([]string{ada.ID, finn.ID}),
		Storytellers: []*roster.Player{rhea},
	}, nil, nil)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	games := make([]game.Game, 100)
	for i := range games {
		games[i] = g
	}

	want := Compute(ada.ID, games)
	got, err := ComputeParallel(context.Background(), ada.ID, games, 8)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
	if got.TotalWins != 100 || got.TimesDeadAtEnd != 100 {
		t.Fatalf("expected 100 wins and deaths, got %+v", got)
	}
}
