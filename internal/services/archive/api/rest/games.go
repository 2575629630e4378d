package rest

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/roster"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGames(w, r)
	case http.MethodPost:
		s.createGame(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) handleGameByID(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/v1/games/")
	if len(segments) != 1 {
		http.NotFound(w, r)
		return
	}
	gameID := segments[0]

	switch r.Method {
	case http.MethodGet:
		s.getGame(w, r, gameID)
	case http.MethodPut:
		s.updateGame(w, r, gameID)
	case http.MethodDelete:
		s.deleteGame(w, r, gameID)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var request gameRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	input, err := s.resolveGameInput(r.Context(), request)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := game.CreateGame(input, s.clock, s.newID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	record := gameToRecord(created)
	if err := s.store.CreateGame(r.Context(), record); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameToPayload(record))
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request, gameID string) {
	record, err := s.store.GetGame(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToPayload(record))
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	pageSize, pageToken, err := pageQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.store.ListGames(r.Context(), storage.GameListQuery{
		PageSize:  pageSize,
		PageToken: pageToken,
		Filter:    r.URL.Query().Get("filter"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := gameListPayload{
		Games:         make([]gamePayload, 0, len(page.Games)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Games {
		payload.Games = append(payload.Games, gameToPayload(record))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) updateGame(w http.ResponseWriter, r *http.Request, gameID string) {
	var request gameRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.CodeMissingRequiredField, "invalid request body", err))
		return
	}

	input, err := s.resolveGameInput(r.Context(), request)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Re-run the full consistency rules against the replacement state before
	// touching storage; the caller's version carries into the CAS update.
	restored, err := game.RestoreGame(gameID, request.Version, s.clock().UTC(), s.clock().UTC(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateGame(r.Context(), gameToRecord(restored))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameToPayload(updated))
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request, gameID string) {
	if err := s.store.DeleteGame(r.Context(), gameID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveGameInput turns the request's id references into domain objects. A
// reference that resolves to nothing fails with the dangling resource named;
// the storage transaction re-checks the same references on write.
func (s *Server) resolveGameInput(ctx context.Context, request gameRequest) (game.CreateGameInput, error) {
	input := game.CreateGameInput{
		Name:        request.Name,
		Description: request.Description,
		Winner: game.WinnerFrom(
			roster.ParseAlignment(request.Winner.Alignment),
			request.Winner.PlayerIDs,
		),
	}

	if request.ScriptID != "" {
		stored, err := s.store.GetScript(ctx, request.ScriptID)
		if err != nil {
			return game.CreateGameInput{}, relatedOr(err, "script", request.ScriptID)
		}
		script, err := roster.RestoreScript(stored.ID, stored.Version, roster.CreateScriptInput{
			Name:         stored.Name,
			Description:  stored.Description,
			WikiURL:      stored.WikiURL,
			CharacterIDs: stored.CharacterIDs,
		})
		if err != nil {
			return game.CreateGameInput{}, err
		}
		input.Script = &script
	}

	players := make(map[string]*roster.Player)
	characters := make(map[string]*roster.Character)
	for _, seat := range request.Participations {
		player, err := s.resolvePlayer(ctx, players, seat.PlayerID)
		if err != nil {
			return game.CreateGameInput{}, err
		}
		initialCharacter, err := s.resolveCharacter(ctx, characters, seat.InitialCharacterID)
		if err != nil {
			return game.CreateGameInput{}, err
		}
		endCharacter, err := s.resolveCharacter(ctx, characters, seat.EndCharacterID)
		if err != nil {
			return game.CreateGameInput{}, err
		}
		input.Participations = append(input.Participations, game.Participation{
			Player:           player,
			InitialCharacter: initialCharacter,
			InitialAlignment: roster.ParseAlignment(seat.InitialAlignment),
			EndCharacter:     endCharacter,
			EndAlignment:     roster.ParseAlignment(seat.EndAlignment),
			AliveAtEnd:       seat.AliveAtEnd,
		})
	}

	for _, playerID := range request.StorytellerIDs {
		storyteller, err := s.resolvePlayer(ctx, players, playerID)
		if err != nil {
			return game.CreateGameInput{}, err
		}
		input.Storytellers = append(input.Storytellers, storyteller)
	}
	return input, nil
}

func (s *Server) resolvePlayer(ctx context.Context, cache map[string]*roster.Player, playerID string) (*roster.Player, error) {
	if playerID == "" {
		return nil, nil
	}
	if player, ok := cache[playerID]; ok {
		return player, nil
	}
	stored, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, relatedOr(err, "player", playerID)
	}
	player := &roster.Player{
		ID:          stored.ID,
		Name:        stored.Name,
		OwnerUserID: stored.OwnerUserID,
		OwnerName:   stored.OwnerName,
	}
	cache[playerID] = player
	return player, nil
}

func (s *Server) resolveCharacter(ctx context.Context, cache map[string]*roster.Character, characterID string) (*roster.Character, error) {
	if characterID == "" {
		return nil, nil
	}
	if character, ok := cache[characterID]; ok {
		return character, nil
	}
	stored, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, relatedOr(err, "character", characterID)
	}
	character := &roster.Character{
		ID:         stored.ID,
		Name:       stored.Name,
		Type:       roster.ParseCharacterType(stored.Type),
		ExternalID: stored.ExternalID,
		WikiURL:    stored.WikiURL,
		ImageURL:   stored.ImageURL,
		Version:    stored.Version,
	}
	cache[characterID] = character
	return character, nil
}

// relatedOr converts a missing reference into the dangling-resource error,
// passing other failures through.
func relatedOr(err error, resource, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &storage.RelatedResourceError{Resource: resource, ID: id}
	}
	return err
}
