package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/grimoire.space/internal/services/archive/core/filter"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

const gameColumns = `id, name, description, script_id, winner_alignment, version, created_at, updated_at`

// CreateGame inserts one game and its seat, winner, and storyteller rows
// atomically. Every referenced script, player, and character is resolved
// inside the transaction; a dangling reference fails the write.
func (s *Store) CreateGame(ctx context.Context, record storage.GameRecord) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	gameID := strings.TrimSpace(record.ID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("game name is required")
	}
	version := record.Version
	if version <= 0 {
		version = 1
	}
	createdAt, updatedAt := writeTimestamps(record.CreatedAt, record.UpdatedAt)

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	scriptID := strings.TrimSpace(record.ScriptID)
	if scriptID != "" {
		if err := requireRelated(ctx, tx, "script", "scripts", scriptID); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Description),
		nullableString(scriptID),
		record.WinnerAlignment,
		version,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create game: %w", err)
	}

	if err := insertGameChildren(ctx, tx, gameID, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// GetGame returns one game with its seats, winners, and storytellers.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.GameRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}

	row := sqlDB.QueryRowContext(
		ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`,
		id,
	)
	record, err := scanGame(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameRecord{}, storage.ErrNotFound
		}
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}

	if err := loadGameChildren(ctx, sqlDB, &record); err != nil {
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	return record, nil
}

// ListGames returns one page of games ordered by ID, optionally narrowed by
// an AIP-160 filter expression over game fields.
func (s *Store) ListGames(ctx context.Context, query storage.GameListQuery) (storage.GamePage, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.GamePage{}, err
	}
	if query.PageSize <= 0 {
		return storage.GamePage{}, fmt.Errorf("page size must be greater than zero")
	}

	condition, err := filter.ParseGameFilter(query.Filter)
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}

	clauses := make([]string, 0, 2)
	params := make([]any, 0, len(condition.Params)+2)
	if condition.Clause != "" {
		clauses = append(clauses, condition.Clause)
		params = append(params, condition.Params...)
	}
	if pageToken := strings.TrimSpace(query.PageToken); pageToken != "" {
		clauses = append(clauses, "id > ?")
		params = append(params, pageToken)
	}

	stmt := `SELECT ` + gameColumns + ` FROM games`
	if len(clauses) > 0 {
		stmt += " WHERE " + strings.Join(clauses, " AND ")
	}
	stmt += " ORDER BY id ASC LIMIT ?"
	params = append(params, query.PageSize+1)

	rows, err := sqlDB.QueryContext(ctx, stmt, params...)
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	page := storage.GamePage{
		Games: make([]storage.GameRecord, 0, query.PageSize),
	}
	for rows.Next() {
		record, err := scanGame(rows.Scan)
		if err != nil {
			return storage.GamePage{}, fmt.Errorf("list games: %w", err)
		}
		page.Games = append(page.Games, record)
	}
	if err := rows.Err(); err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	if len(page.Games) > query.PageSize {
		page.NextPageToken = page.Games[query.PageSize-1].ID
		page.Games = page.Games[:query.PageSize]
	}

	for i := range page.Games {
		if err := loadGameChildren(ctx, sqlDB, &page.Games[i]); err != nil {
			return storage.GamePage{}, fmt.Errorf("list games: %w", err)
		}
	}
	return page, nil
}

// UpdateGame replaces the game and its child rows when the stored version
// still matches record.Version. A lost race returns ErrStaleData.
func (s *Store) UpdateGame(ctx context.Context, record storage.GameRecord) (storage.GameRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.GameRecord{}, err
	}
	gameID := strings.TrimSpace(record.ID)
	if gameID == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return storage.GameRecord{}, fmt.Errorf("game name is required")
	}
	updatedAt := time.Now().UTC()

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	scriptID := strings.TrimSpace(record.ScriptID)
	if scriptID != "" {
		if err := requireRelated(ctx, tx, "script", "scripts", scriptID); err != nil {
			return storage.GameRecord{}, err
		}
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE games
		    SET name = ?, description = ?, script_id = ?, winner_alignment = ?,
		        version = version + 1, updated_at = ?
		  WHERE id = ? AND version = ?`,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Description),
		nullableString(scriptID),
		record.WinnerAlignment,
		toMillis(updatedAt),
		gameID,
		record.Version,
	)
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	if affected == 0 {
		return storage.GameRecord{}, resolveWriteConflict(ctx, tx, "games", gameID)
	}

	for _, table := range []string{"game_participations", "game_winner_players", "game_storytellers"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE game_id = ?`, gameID); err != nil {
			return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
		}
	}
	if err := insertGameChildren(ctx, tx, gameID, record); err != nil {
		return storage.GameRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return storage.GameRecord{}, fmt.Errorf("update game: %w", err)
	}
	return s.GetGame(ctx, gameID)
}

// DeleteGame removes one game and its child rows. Deleting an absent game is
// not an error.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("game id is required")
	}
	if _, err := sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// ListGamesForPlayer returns every game the player sat in or storytold,
// ordered by game ID.
func (s *Store) ListGamesForPlayer(ctx context.Context, playerID string) ([]storage.GameRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return nil, err
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}

	rows, err := sqlDB.QueryContext(
		ctx,
		`SELECT `+gameColumns+` FROM games
		  WHERE id IN (
		        SELECT game_id FROM game_participations WHERE player_id = ?
		        UNION
		        SELECT game_id FROM game_storytellers WHERE player_id = ?
		  )
		  ORDER BY id ASC`,
		playerID,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list games for player: %w", err)
	}
	defer rows.Close()

	var games []storage.GameRecord
	for rows.Next() {
		record, err := scanGame(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list games for player: %w", err)
		}
		games = append(games, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games for player: %w", err)
	}

	for i := range games {
		if err := loadGameChildren(ctx, sqlDB, &games[i]); err != nil {
			return nil, fmt.Errorf("list games for player: %w", err)
		}
	}
	return games, nil
}

// insertGameChildren writes the seat, winner, and storyteller rows for one
// game, resolving every player and character reference first.
func insertGameChildren(ctx context.Context, tx *sql.Tx, gameID string, record storage.GameRecord) error {
	for seat, participation := range record.Participations {
		// An empty player id records an anonymous seat.
		if strings.TrimSpace(participation.PlayerID) != "" {
			if err := requireRelated(ctx, tx, "player", "players", participation.PlayerID); err != nil {
				return err
			}
		}
		for _, characterID := range []string{participation.InitialCharacterID, participation.EndCharacterID} {
			if characterID == "" {
				continue
			}
			if err := requireRelated(ctx, tx, "character", "characters", characterID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO game_participations (
			   game_id, seat, player_id,
			   initial_character_id, initial_alignment,
			   end_character_id, end_alignment, alive_at_end
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID,
			seat,
			nullableString(participation.PlayerID),
			nullableString(participation.InitialCharacterID),
			participation.InitialAlignment,
			nullableString(participation.EndCharacterID),
			participation.EndAlignment,
			participation.AliveAtEnd,
		); err != nil {
			return fmt.Errorf("insert game participation: %w", err)
		}
	}

	for _, playerID := range record.WinnerPlayerIDs {
		if err := requireRelated(ctx, tx, "player", "players", playerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO game_winner_players (game_id, player_id) VALUES (?, ?)`,
			gameID,
			playerID,
		); err != nil {
			return fmt.Errorf("insert game winner: %w", err)
		}
	}

	for position, playerID := range record.StorytellerIDs {
		if err := requireRelated(ctx, tx, "player", "players", playerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO game_storytellers (game_id, position, player_id) VALUES (?, ?, ?)`,
			gameID,
			position,
			playerID,
		); err != nil {
			return fmt.Errorf("insert game storyteller: %w", err)
		}
	}
	return nil
}

// loadGameChildren fills the seat, winner, and storyteller slices of one
// scanned game row.
func loadGameChildren(ctx context.Context, q querier, record *storage.GameRecord) error {
	rows, err := q.QueryContext(
		ctx,
		`SELECT player_id, initial_character_id, initial_alignment,
		        end_character_id, end_alignment, alive_at_end
		   FROM game_participations
		  WHERE game_id = ?
		  ORDER BY seat ASC`,
		record.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var participation storage.ParticipationRecord
		var playerID sql.NullString
		var initialCharacterID sql.NullString
		var endCharacterID sql.NullString
		if err := rows.Scan(
			&playerID,
			&initialCharacterID,
			&participation.InitialAlignment,
			&endCharacterID,
			&participation.EndAlignment,
			&participation.AliveAtEnd,
		); err != nil {
			return err
		}
		participation.PlayerID = stringOrEmpty(playerID)
		participation.InitialCharacterID = stringOrEmpty(initialCharacterID)
		participation.EndCharacterID = stringOrEmpty(endCharacterID)
		record.Participations = append(record.Participations, participation)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	record.WinnerPlayerIDs, err = gamePlayerIDs(
		ctx, q,
		`SELECT player_id FROM game_winner_players WHERE game_id = ? ORDER BY player_id ASC`,
		record.ID,
	)
	if err != nil {
		return err
	}
	record.StorytellerIDs, err = gamePlayerIDs(
		ctx, q,
		`SELECT player_id FROM game_storytellers WHERE game_id = ? ORDER BY position ASC`,
		record.ID,
	)
	return err
}

func gamePlayerIDs(ctx context.Context, q querier, stmt, gameID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, stmt, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playerIDs []string
	for rows.Next() {
		var playerID string
		if err := rows.Scan(&playerID); err != nil {
			return nil, err
		}
		playerIDs = append(playerIDs, playerID)
	}
	return playerIDs, rows.Err()
}

func scanGame(scan func(dest ...any) error) (storage.GameRecord, error) {
	var record storage.GameRecord
	var scriptID sql.NullString
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Description,
		&scriptID,
		&record.WinnerAlignment,
		&record.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.GameRecord{}, err
	}
	record.ScriptID = stringOrEmpty(scriptID)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
