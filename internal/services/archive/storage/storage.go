// Package storage defines persistence contracts for archive service state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates a requested archive record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrStaleData indicates an update lost the optimistic-concurrency race:
	// the stored version no longer matches the version the caller read.
	ErrStaleData = errors.New("record version is stale")
	// ErrRelatedResourceNotFound indicates a write referenced a record that
	// does not exist. Use errors.As with *RelatedResourceError to recover
	// which reference was dangling.
	ErrRelatedResourceNotFound = errors.New("related record not found")
)

// RelatedResourceError reports the dangling reference behind a failed write.
// It matches ErrRelatedResourceNotFound under errors.Is.
type RelatedResourceError struct {
	// Resource names the referenced record kind, e.g. "player" or "script".
	Resource string
	// ID is the identifier that resolved to nothing.
	ID string
}

func (e *RelatedResourceError) Error() string {
	return fmt.Sprintf("related %s %q not found", e.Resource, e.ID)
}

// Is reports whether the target is the related-resource sentinel.
func (e *RelatedResourceError) Is(target error) bool {
	return target == ErrRelatedResourceNotFound
}

// CharacterRecord stores one character catalog entry.
type CharacterRecord struct {
	ID         string
	Name       string
	Type       string
	ExternalID string
	WikiURL    string
	ImageURL   string
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CharacterPage stores one page of character records.
type CharacterPage struct {
	Characters    []CharacterRecord
	NextPageToken string
}

// ScriptRecord stores one script and the character set it permits.
type ScriptRecord struct {
	ID          string
	Name        string
	Description string
	WikiURL     string
	// CharacterIDs is the deduplicated, sorted character set.
	CharacterIDs []string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScriptPage stores one page of script records.
type ScriptPage struct {
	Scripts       []ScriptRecord
	NextPageToken string
}

// PlayerRecord stores one player roster entry.
type PlayerRecord struct {
	ID          string
	Name        string
	OwnerUserID string
	OwnerName   string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlayerPage stores one page of player records.
type PlayerPage struct {
	Players       []PlayerRecord
	NextPageToken string
}

// ParticipationRecord stores one seat of a recorded game. Seat order is the
// slice order on GameRecord.
type ParticipationRecord struct {
	// PlayerID is empty for an anonymous seat.
	PlayerID           string
	InitialCharacterID string
	InitialAlignment   string
	EndCharacterID     string
	EndAlignment       string
	AliveAtEnd         bool
}

// GameRecord stores one recorded game with its seats, winner specification,
// and storytellers.
type GameRecord struct {
	ID          string
	Name        string
	Description string
	// ScriptID is empty when the game was recorded without a script.
	ScriptID       string
	Participations []ParticipationRecord
	// WinnerAlignment holds the winning team label when the winner is an
	// alignment; empty for an explicit player-list winner.
	WinnerAlignment string
	// WinnerPlayerIDs holds the explicit winning players; empty for an
	// alignment winner.
	WinnerPlayerIDs []string
	StorytellerIDs  []string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GamePage stores one page of game records.
type GamePage struct {
	Games         []GameRecord
	NextPageToken string
}

// GameListQuery bounds one game list request.
type GameListQuery struct {
	PageSize  int
	PageToken string
	// Filter is an AIP-160 filter expression over game fields; empty selects
	// everything.
	Filter string
}

// CharacterStore persists character catalog records.
type CharacterStore interface {
	CreateCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	ListCharacters(ctx context.Context, pageSize int, pageToken string) (CharacterPage, error)
	// UpdateCharacter applies the record only when the stored version equals
	// record.Version; a lost race returns ErrStaleData.
	UpdateCharacter(ctx context.Context, record CharacterRecord) (CharacterRecord, error)
	DeleteCharacter(ctx context.Context, id string) error
}

// ScriptStore persists script records.
type ScriptStore interface {
	CreateScript(ctx context.Context, record ScriptRecord) error
	GetScript(ctx context.Context, id string) (ScriptRecord, error)
	ListScripts(ctx context.Context, pageSize int, pageToken string) (ScriptPage, error)
	UpdateScript(ctx context.Context, record ScriptRecord) (ScriptRecord, error)
	DeleteScript(ctx context.Context, id string) error
}

// PlayerStore persists player roster records.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, record PlayerRecord) error
	GetPlayer(ctx context.Context, id string) (PlayerRecord, error)
	ListPlayers(ctx context.Context, pageSize int, pageToken string) (PlayerPage, error)
	UpdatePlayer(ctx context.Context, record PlayerRecord) (PlayerRecord, error)
	DeletePlayer(ctx context.Context, id string) error
}

// GameStore persists recorded games.
type GameStore interface {
	// CreateGame inserts the game and its child rows atomically. References
	// to players, characters, and the script are resolved inside the same
	// transaction; a dangling one fails the write with a
	// RelatedResourceError.
	CreateGame(ctx context.Context, record GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)
	ListGames(ctx context.Context, query GameListQuery) (GamePage, error)
	// UpdateGame replaces the game and its child rows only when the stored
	// version equals record.Version; a lost race returns ErrStaleData.
	UpdateGame(ctx context.Context, record GameRecord) (GameRecord, error)
	// DeleteGame removes the game and its child rows. Deleting an absent
	// game is not an error.
	DeleteGame(ctx context.Context, id string) error
	// ListGamesForPlayer returns every game the player sat in or storytold,
	// for statistics aggregation.
	ListGamesForPlayer(ctx context.Context, playerID string) ([]GameRecord, error)
}

// Store is the full archive persistence surface.
type Store interface {
	CharacterStore
	ScriptStore
	PlayerStore
	GameStore
	Close() error
}
