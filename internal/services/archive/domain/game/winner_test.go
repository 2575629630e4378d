package game

import (
	"testing"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
)

func TestWinnerFromPrecedence(t *testing.T) {
	// An alignment always wins over an explicit list supplied alongside it.
	w := WinnerFrom(roster.AlignmentGood, []string{"p1", "p2"})
	if w.Kind() != WinnerKindAlignment {
		t.Fatalf("expected alignment winner, got %v", w.Kind())
	}
	alignment, ok := w.Alignment()
	if !ok || alignment != roster.AlignmentGood {
		t.Fatalf("expected good alignment, got %v (ok=%v)", alignment, ok)
	}
	if _, ok := w.PlayerIDs(); ok {
		t.Fatal("expected no explicit list on an alignment winner")
	}
}

func TestWinnerFromExplicitList(t *testing.T) {
	w := WinnerFrom(roster.AlignmentUnspecified, []string{" p1 ", "p2", "p1"})
	if w.Kind() != WinnerKindPlayers {
		t.Fatalf("expected explicit winner, got %v", w.Kind())
	}
	ids, ok := w.PlayerIDs()
	if !ok {
		t.Fatal("expected explicit list")
	}
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Fatalf("expected trimmed deduplicated list, got %v", ids)
	}
}

func TestWinnerFromNeither(t *testing.T) {
	w := WinnerFrom(roster.AlignmentUnspecified, nil)
	if w.Kind() != WinnerKindUnspecified {
		t.Fatalf("expected unspecified winner, got %v", w.Kind())
	}
}

func TestWinnerPlayerIDsReturnsCopy(t *testing.T) {
	w := WinnerPlayers([]string{"p1"})
	ids, _ := w.PlayerIDs()
	ids[0] = "mutated"

	fresh, _ := w.PlayerIDs()
	if fresh[0] != "p1" {
		t.Fatal("expected caller mutation to not affect the winner")
	}
}
