// Package rest exposes the archive service over a JSON HTTP API.
package rest

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/grimoire.space/internal/platform/id"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Server handles archive HTTP requests.
type Server struct {
	store  storage.Store
	logger *log.Logger
	clock  func() time.Time
	newID  func() (string, error)
	// statsWorkers bounds the statistics fan-out; zero picks one per CPU.
	statsWorkers int
}

// NewServer builds an archive API server bound to a backing store.
func NewServer(store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:  store,
		logger: logger,
		clock:  time.Now,
		newID:  id.NewID,
	}
}

// Handler returns the HTTP handler for all archive routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/characters", s.handleCharacters)
	mux.HandleFunc("/v1/characters/", s.handleCharacterByID)
	mux.HandleFunc("/v1/scripts", s.handleScripts)
	mux.HandleFunc("/v1/scripts/", s.handleScriptByID)
	mux.HandleFunc("/v1/players", s.handlePlayers)
	mux.HandleFunc("/v1/players/", s.handlePlayerRoutes)
	mux.HandleFunc("/v1/games", s.handleGames)
	mux.HandleFunc("/v1/games/", s.handleGameByID)
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// pathSegments splits the request path after the given prefix, dropping a
// trailing slash. An empty result means the prefix itself was requested.
func pathSegments(r *http.Request, prefix string) []string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// pageQuery extracts the page size and token query parameters.
func pageQuery(r *http.Request) (int, string, error) {
	pageSize := defaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, "", errInvalidPageSize
		}
		pageSize = parsed
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, strings.TrimSpace(r.URL.Query().Get("page_token")), nil
}

func decodeJSON(r *http.Request, payload any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorPayload{
		Code:    "METHOD_NOT_ALLOWED",
		Message: "method not allowed",
	})
}
