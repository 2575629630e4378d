package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/louisbranch/grimoire.space/internal/services/archive/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return NewServer(store, log.New(io.Discard, "", 0))
}

func doRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(recorder.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func createCharacter(t *testing.T, server *Server, name, characterType string) characterPayload {
	t.Helper()

	recorder := doRequest(t, server, http.MethodPost, "/v1/characters", characterRequest{
		Name: name,
		Type: characterType,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create character %s: status %d: %s", name, recorder.Code, recorder.Body)
	}
	return decodeBody[characterPayload](t, recorder)
}

func createPlayer(t *testing.T, server *Server, name string) playerPayload {
	t.Helper()

	recorder := doRequest(t, server, http.MethodPost, "/v1/players", playerRequest{Name: name})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create player %s: status %d: %s", name, recorder.Code, recorder.Body)
	}
	return decodeBody[playerPayload](t, recorder)
}

func TestCreateCharacterEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createCharacter(t, server, "Imp", "DEMON")
	if created.ID == "" || created.Version != 1 {
		t.Fatalf("created = %+v", created)
	}

	recorder := doRequest(t, server, http.MethodGet, "/v1/characters/"+created.ID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get character: status %d", recorder.Code)
	}
	got := decodeBody[characterPayload](t, recorder)
	if got.Name != "Imp" || got.Type != "DEMON" {
		t.Fatalf("character = %+v", got)
	}
}

func TestCreateCharacterRejectsInvalidType(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodPost, "/v1/characters", characterRequest{
		Name: "Imp",
		Type: "DRAGON",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "CHARACTER_INVALID_TYPE" {
		t.Fatalf("code = %q", failure.Code)
	}
	if failure.Message == "" {
		t.Fatal("expected a localized message")
	}
}

func TestUpdateCharacterConflict(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createCharacter(t, server, "Baron", "MINION")

	update := characterRequest{Name: "The Baron", Type: "MINION", Version: created.Version}
	recorder := doRequest(t, server, http.MethodPut, "/v1/characters/"+created.ID, update)
	if recorder.Code != http.StatusOK {
		t.Fatalf("first update: status %d: %s", recorder.Code, recorder.Body)
	}
	updated := decodeBody[characterPayload](t, recorder)
	if updated.Version != created.Version+1 {
		t.Fatalf("version = %d, want %d", updated.Version, created.Version+1)
	}

	// Replaying the original version must conflict.
	recorder = doRequest(t, server, http.MethodPut, "/v1/characters/"+created.ID, update)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("stale update: status %d, want 409", recorder.Code)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "STALE_DATA" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestGetCharacterNotFound(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodGet, "/v1/characters/missing", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestCreateScriptEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	imp := createCharacter(t, server, "Imp", "DEMON")
	baron := createCharacter(t, server, "Baron", "MINION")

	recorder := doRequest(t, server, http.MethodPost, "/v1/scripts", scriptRequest{
		Name:         "Trouble Brewing",
		CharacterIDs: []string{imp.ID, baron.ID, imp.ID},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create script: status %d: %s", recorder.Code, recorder.Body)
	}
	created := decodeBody[scriptPayload](t, recorder)
	if len(created.CharacterIDs) != 2 {
		t.Fatalf("expected duplicate character ids collapsed, got %v", created.CharacterIDs)
	}
}

func TestCreateScriptRequiresCharacters(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodPost, "/v1/scripts", scriptRequest{
		Name: "Empty",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "SCRIPT_EMPTY_CHARACTER_SET" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func gameRequestFixture(server *Server, t *testing.T) (gameRequest, playerPayload, playerPayload) {
	t.Helper()

	ada := createPlayer(t, server, "Ada")
	finn := createPlayer(t, server, "Finn")
	librarian := createCharacter(t, server, "Librarian", "TOWNSFOLK")
	imp := createCharacter(t, server, "Imp", "DEMON")

	return gameRequest{
		Name: "Friday night",
		Participations: []participationPayload{
			{PlayerID: ada.ID, InitialCharacterID: librarian.ID, AliveAtEnd: true},
			{PlayerID: finn.ID, InitialCharacterID: imp.ID, AliveAtEnd: false},
		},
		Winner: winnerPayload{Alignment: "GOOD"},
	}, ada, finn
}

func TestCreateGameEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create game: status %d: %s", recorder.Code, recorder.Body)
	}
	created := decodeBody[gamePayload](t, recorder)
	if created.ID == "" || created.Version != 1 {
		t.Fatalf("created = %+v", created)
	}
	// Participation defaults are applied before persisting.
	if created.Participations[0].InitialAlignment != "GOOD" {
		t.Fatalf("initial alignment = %q", created.Participations[0].InitialAlignment)
	}
	if created.Participations[0].EndCharacterID != request.Participations[0].InitialCharacterID {
		t.Fatalf("end character = %q", created.Participations[0].EndCharacterID)
	}
	if created.Participations[1].EndAlignment != "EVIL" {
		t.Fatalf("end alignment = %q", created.Participations[1].EndAlignment)
	}
}

func TestCreateGameAnonymousSeats(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)
	request.Participations = append(request.Participations,
		participationPayload{InitialCharacterID: request.Participations[0].InitialCharacterID, AliveAtEnd: true},
		participationPayload{AliveAtEnd: false},
	)

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create game: status %d: %s", recorder.Code, recorder.Body)
	}
	created := decodeBody[gamePayload](t, recorder)
	if len(created.Participations) != 4 {
		t.Fatalf("participations = %d, want 4", len(created.Participations))
	}
	if created.Participations[2].PlayerID != "" || created.Participations[3].PlayerID != "" {
		t.Fatalf("expected anonymous seats, got %+v", created.Participations[2:])
	}
	if created.Participations[2].InitialAlignment != "GOOD" {
		t.Fatalf("anonymous seat alignment = %q", created.Participations[2].InitialAlignment)
	}

	recorder = doRequest(t, server, http.MethodGet, "/v1/games/"+created.ID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get game: status %d: %s", recorder.Code, recorder.Body)
	}
	fetched := decodeBody[gamePayload](t, recorder)
	if len(fetched.Participations) != 4 {
		t.Fatalf("fetched participations = %d, want 4", len(fetched.Participations))
	}
	if fetched.Participations[2].PlayerID != "" || fetched.Participations[3].PlayerID != "" {
		t.Fatalf("expected anonymous seats after round trip, got %+v", fetched.Participations[2:])
	}
}

func TestCreateGameRejectsDuplicateParticipant(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, ada, _ := gameRequestFixture(server, t)
	request.Participations[1].PlayerID = ada.ID

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", recorder.Code, recorder.Body)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "GAME_DUPLICATE_PARTICIPANT" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestCreateGameRejectsMissingWinner(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)
	request.Winner = winnerPayload{}

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", recorder.Code, recorder.Body)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "GAME_MISSING_WINNER_SPECIFICATION" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestCreateGameRejectsUnknownWinner(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)
	outsider := createPlayer(t, server, "Rhea")
	request.Winner = winnerPayload{PlayerIDs: []string{outsider.ID}}

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", recorder.Code, recorder.Body)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "GAME_UNKNOWN_WINNER" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestCreateGameRejectsUnknownPlayer(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)
	request.Participations[0].PlayerID = "player-missing"

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", recorder.Code, recorder.Body)
	}
	failure := decodeBody[errorPayload](t, recorder)
	if failure.Code != "RELATED_RESOURCE_NOT_FOUND" {
		t.Fatalf("code = %q", failure.Code)
	}
}

func TestUpdateGameConflict(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create game: status %d: %s", recorder.Code, recorder.Body)
	}
	created := decodeBody[gamePayload](t, recorder)

	update := request
	update.Name = "Renamed"
	update.Version = created.Version
	recorder = doRequest(t, server, http.MethodPut, "/v1/games/"+created.ID, update)
	if recorder.Code != http.StatusOK {
		t.Fatalf("first update: status %d: %s", recorder.Code, recorder.Body)
	}

	recorder = doRequest(t, server, http.MethodPut, "/v1/games/"+created.ID, update)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("stale update: status %d, want 409", recorder.Code)
	}
}

func TestDeleteGameIsIdempotent(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)

	recorder := doRequest(t, server, http.MethodPost, "/v1/games", request)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create game: status %d", recorder.Code)
	}
	created := decodeBody[gamePayload](t, recorder)

	for i := 0; i < 2; i++ {
		recorder = doRequest(t, server, http.MethodDelete, "/v1/games/"+created.ID, nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("delete %d: status %d, want 204", i, recorder.Code)
		}
	}
	recorder = doRequest(t, server, http.MethodGet, "/v1/games/"+created.ID, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", recorder.Code)
	}
}

func TestListGamesWithFilter(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, _, _ := gameRequestFixture(server, t)

	if code := doRequest(t, server, http.MethodPost, "/v1/games", request).Code; code != http.StatusCreated {
		t.Fatalf("create good game: status %d", code)
	}
	evil := request
	evil.Winner = winnerPayload{Alignment: "EVIL"}
	if code := doRequest(t, server, http.MethodPost, "/v1/games", evil).Code; code != http.StatusCreated {
		t.Fatalf("create evil game: status %d", code)
	}

	recorder := doRequest(t, server, http.MethodGet, `/v1/games?filter=winner_alignment%20%3D%20%22EVIL%22`, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list games: status %d: %s", recorder.Code, recorder.Body)
	}
	page := decodeBody[gameListPayload](t, recorder)
	if len(page.Games) != 1 || page.Games[0].Winner.Alignment != "EVIL" {
		t.Fatalf("page = %+v", page)
	}
}

func TestPlayerStatisticsEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	request, ada, finn := gameRequestFixture(server, t)

	if code := doRequest(t, server, http.MethodPost, "/v1/games", request).Code; code != http.StatusCreated {
		t.Fatalf("create game: status %d", code)
	}
	// A second game storytold by ada.
	told := gameRequest{
		Name: "Saturday night",
		Participations: []participationPayload{
			{PlayerID: finn.ID, InitialCharacterID: request.Participations[1].InitialCharacterID, AliveAtEnd: true},
		},
		Winner:         winnerPayload{Alignment: "EVIL"},
		StorytellerIDs: []string{ada.ID},
	}
	if code := doRequest(t, server, http.MethodPost, "/v1/games", told).Code; code != http.StatusCreated {
		t.Fatalf("create storytold game: status %d", code)
	}

	recorder := doRequest(t, server, http.MethodGet, "/v1/players/"+ada.ID+"/statistics", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("statistics: status %d: %s", recorder.Code, recorder.Body)
	}
	summary := decodeBody[statisticsPayload](t, recorder)
	if summary.TotalGamesPlayed != 2 {
		t.Fatalf("total games = %d, want 2", summary.TotalGamesPlayed)
	}
	if summary.TotalWins != 1 || summary.TimesStoryteller != 1 || summary.TimesGood != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.CharacterTypeCounts["TOWNSFOLK"] != 1 {
		t.Fatalf("type counts = %v", summary.CharacterTypeCounts)
	}
}

func TestPlayerStatisticsUnknownPlayer(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodGet, "/v1/players/missing/statistics", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodPatch, "/v1/characters", nil)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", recorder.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	recorder := doRequest(t, server, http.MethodGet, "/up", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}
