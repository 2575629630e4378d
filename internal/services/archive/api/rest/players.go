package rest

import (
	"net/http"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPlayers(w, r)
	case http.MethodPost:
		s.createPlayer(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

// handlePlayerRoutes dispatches /v1/players/{id} and
// /v1/players/{id}/statistics.
func (s *Server) handlePlayerRoutes(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/v1/players/")
	switch {
	case len(segments) == 1:
		playerID := segments[0]
		switch r.Method {
		case http.MethodGet:
			s.getPlayer(w, r, playerID)
		case http.MethodPut:
			s.updatePlayer(w, r, playerID)
		case http.MethodDelete:
			s.deletePlayer(w, r, playerID)
		default:
			s.methodNotAllowed(w)
		}
	case len(segments) == 2 && segments[1] == "statistics":
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w)
			return
		}
		s.getPlayerStatistics(w, r, segments[0])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) createPlayer(w http.ResponseWriter, r *http.Request) {
	var request playerRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	player, err := roster.CreatePlayer(roster.CreatePlayerInput{
		Name:        request.Name,
		OwnerUserID: request.OwnerUserID,
		OwnerName:   request.OwnerName,
	}, s.newID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.clock().UTC()
	record := storage.PlayerRecord{
		ID:          player.ID,
		Name:        player.Name,
		OwnerUserID: player.OwnerUserID,
		OwnerName:   player.OwnerName,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreatePlayer(r.Context(), record); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playerToPayload(record))
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request, playerID string) {
	record, err := s.store.GetPlayer(r.Context(), playerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playerToPayload(record))
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	pageSize, pageToken, err := pageQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.store.ListPlayers(r.Context(), pageSize, pageToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := playerListPayload{
		Players:       make([]playerPayload, 0, len(page.Players)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Players {
		payload.Players = append(payload.Players, playerToPayload(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) updatePlayer(w http.ResponseWriter, r *http.Request, playerID string) {
	var request playerRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	normalized, err := roster.NormalizeCreatePlayerInput(roster.CreatePlayerInput{
		Name:        request.Name,
		OwnerUserID: request.OwnerUserID,
		OwnerName:   request.OwnerName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdatePlayer(r.Context(), storage.PlayerRecord{
		ID:          playerID,
		Name:        normalized.Name,
		OwnerUserID: normalized.OwnerUserID,
		OwnerName:   normalized.OwnerName,
		Version:     request.Version,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playerToPayload(updated))
}

func (s *Server) deletePlayer(w http.ResponseWriter, r *http.Request, playerID string) {
	if err := s.store.DeletePlayer(r.Context(), playerID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
