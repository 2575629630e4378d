package rest

import (
	"net/http"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/stats"
)

// getPlayerStatistics folds the player's full game history into a summary.
// Stored games that no longer pass the consistency rules are skipped rather
// than failing the whole summary.
func (s *Server) getPlayerStatistics(w http.ResponseWriter, r *http.Request, playerID string) {
	if _, err := s.store.GetPlayer(r.Context(), playerID); err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.store.ListGamesForPlayer(r.Context(), playerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	characters, err := s.resolveGameCharacters(r.Context(), records)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	games := make([]game.Game, 0, len(records))
	for _, record := range records {
		restored, err := game.RestoreGame(
			record.ID,
			record.Version,
			record.CreatedAt,
			record.UpdatedAt,
			gameInputFromRecord(record, characters),
		)
		if err != nil {
			s.logger.Printf("archive api: skipping malformed game %s: %v", record.ID, err)
			continue
		}
		games = append(games, restored)
	}

	summary, err := stats.ComputeParallel(r.Context(), playerID, games, s.statsWorkers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statisticsToPayload(summary))
}
