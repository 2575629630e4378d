package rest

import (
	"net/http"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listScripts(w, r)
	case http.MethodPost:
		s.createScript(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleScriptByID(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/v1/scripts/")
	if len(segments) != 1 {
		http.NotFound(w, r)
		return
	}
	scriptID := segments[0]

	switch r.Method {
	case http.MethodGet:
		s.getScript(w, r, scriptID)
	case http.MethodPut:
		s.updateScript(w, r, scriptID)
	case http.MethodDelete:
		s.deleteScript(w, r, scriptID)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) createScript(w http.ResponseWriter, r *http.Request) {
	var request scriptRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	script, err := roster.CreateScript(roster.CreateScriptInput{
		Name:         request.Name,
		Description:  request.Description,
		WikiURL:      request.WikiURL,
		CharacterIDs: request.CharacterIDs,
	}, s.newID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.clock().UTC()
	record := storage.ScriptRecord{
		ID:           script.ID,
		Name:         script.Name,
		Description:  script.Description,
		WikiURL:      script.WikiURL,
		CharacterIDs: script.CharacterIDs(),
		Version:      script.Version,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateScript(r.Context(), record); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, scriptToPayload(record))
}

func (s *Server) getScript(w http.ResponseWriter, r *http.Request, scriptID string) {
	record, err := s.store.GetScript(r.Context(), scriptID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scriptToPayload(record))
}

func (s *Server) listScripts(w http.ResponseWriter, r *http.Request) {
	pageSize, pageToken, err := pageQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.store.ListScripts(r.Context(), pageSize, pageToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := scriptListPayload{
		Scripts:       make([]scriptPayload, 0, len(page.Scripts)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Scripts {
		payload.Scripts = append(payload.Scripts, scriptToPayload(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) updateScript(w http.ResponseWriter, r *http.Request, scriptID string) {
	var request scriptRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	// Run the same consistency rules a new script gets, then persist against
	// the caller's version.
	script, err := roster.RestoreScript(scriptID, request.Version, roster.CreateScriptInput{
		Name:         request.Name,
		Description:  request.Description,
		WikiURL:      request.WikiURL,
		CharacterIDs: request.CharacterIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateScript(r.Context(), storage.ScriptRecord{
		ID:           script.ID,
		Name:         script.Name,
		Description:  script.Description,
		WikiURL:      script.WikiURL,
		CharacterIDs: script.CharacterIDs(),
		Version:      script.Version,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scriptToPayload(updated))
}

func (s *Server) deleteScript(w http.ResponseWriter, r *http.Request, scriptID string) {
	if err := s.store.DeleteScript(r.Context(), scriptID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
