package rest

import (
	"net/http"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCharacters(w, r)
	case http.MethodPost:
		s.createCharacter(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleCharacterByID(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/v1/characters/")
	if len(segments) != 1 {
		http.NotFound(w, r)
		return
	}
	characterID := segments[0]

	switch r.Method {
	case http.MethodGet:
		s.getCharacter(w, r, characterID)
	case http.MethodPut:
		s.updateCharacter(w, r, characterID)
	case http.MethodDelete:
		s.deleteCharacter(w, r, characterID)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) createCharacter(w http.ResponseWriter, r *http.Request) {
	var request characterRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	character, err := roster.CreateCharacter(roster.CreateCharacterInput{
		Name:       request.Name,
		Type:       roster.ParseCharacterType(request.Type),
		ExternalID: request.ExternalID,
		WikiURL:    request.WikiURL,
		ImageURL:   request.ImageURL,
	}, s.newID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.clock().UTC()
	record := storage.CharacterRecord{
		ID:         character.ID,
		Name:       character.Name,
		Type:       character.Type.String(),
		ExternalID: character.ExternalID,
		WikiURL:    character.WikiURL,
		ImageURL:   character.ImageURL,
		Version:    character.Version,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateCharacter(r.Context(), record); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, characterToPayload(record))
}

func (s *Server) getCharacter(w http.ResponseWriter, r *http.Request, characterID string) {
	record, err := s.store.GetCharacter(r.Context(), characterID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, characterToPayload(record))
}

func (s *Server) listCharacters(w http.ResponseWriter, r *http.Request) {
	pageSize, pageToken, err := pageQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.store.ListCharacters(r.Context(), pageSize, pageToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := characterListPayload{
		Characters:    make([]characterPayload, 0, len(page.Characters)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Characters {
		payload.Characters = append(payload.Characters, characterToPayload(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) updateCharacter(w http.ResponseWriter, r *http.Request, characterID string) {
	var request characterRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	normalized, err := roster.NormalizeCreateCharacterInput(roster.CreateCharacterInput{
		Name:       request.Name,
		Type:       roster.ParseCharacterType(request.Type),
		ExternalID: request.ExternalID,
		WikiURL:    request.WikiURL,
		ImageURL:   request.ImageURL,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateCharacter(r.Context(), storage.CharacterRecord{
		ID:         characterID,
		Name:       normalized.Name,
		Type:       normalized.Type.String(),
		ExternalID: normalized.ExternalID,
		WikiURL:    normalized.WikiURL,
		ImageURL:   normalized.ImageURL,
		Version:    request.Version,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, characterToPayload(updated))
}

func (s *Server) deleteCharacter(w http.ResponseWriter, r *http.Request, characterID string) {
	if err := s.store.DeleteCharacter(r.Context(), characterID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
