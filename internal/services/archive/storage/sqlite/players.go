package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

const playerColumns = `id, name, owner_user_id, owner_name, version, created_at, updated_at`

// CreatePlayer inserts one player record.
func (s *Store) CreatePlayer(ctx context.Context, record storage.PlayerRecord) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	playerID := strings.TrimSpace(record.ID)
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(record.Name) == "" && strings.TrimSpace(record.OwnerName) == "" {
		return fmt.Errorf("player name is required")
	}
	version := record.Version
	if version <= 0 {
		version = 1
	}
	createdAt, updatedAt := writeTimestamps(record.CreatedAt, record.UpdatedAt)

	_, err = sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		playerID,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.OwnerUserID),
		strings.TrimSpace(record.OwnerName),
		version,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

// GetPlayer returns one player by ID.
func (s *Store) GetPlayer(ctx context.Context, id string) (storage.PlayerRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.PlayerRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.PlayerRecord{}, fmt.Errorf("player id is required")
	}

	row := sqlDB.QueryRowContext(
		ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`,
		id,
	)
	record, err := scanPlayer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PlayerRecord{}, storage.ErrNotFound
		}
		return storage.PlayerRecord{}, fmt.Errorf("get player: %w", err)
	}
	return record, nil
}

// ListPlayers returns one page of player records ordered by ID.
func (s *Store) ListPlayers(ctx context.Context, pageSize int, pageToken string) (storage.PlayerPage, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.PlayerPage{}, err
	}
	if pageSize <= 0 {
		return storage.PlayerPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.PlayerPage{
		Players: make([]storage.PlayerRecord, 0, pageSize),
	}

	var rows *sql.Rows
	if pageToken == "" {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+playerColumns+` FROM players ORDER BY id ASC LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+playerColumns+` FROM players WHERE id > ? ORDER BY id ASC LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.PlayerPage{}, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanPlayer(rows.Scan)
		if err != nil {
			return storage.PlayerPage{}, fmt.Errorf("list players: %w", err)
		}
		page.Players = append(page.Players, record)
	}
	if err := rows.Err(); err != nil {
		return storage.PlayerPage{}, fmt.Errorf("list players: %w", err)
	}
	if len(page.Players) > pageSize {
		page.NextPageToken = page.Players[pageSize-1].ID
		page.Players = page.Players[:pageSize]
	}
	return page, nil
}

// UpdatePlayer applies the record when the stored version still matches.
func (s *Store) UpdatePlayer(ctx context.Context, record storage.PlayerRecord) (storage.PlayerRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.PlayerRecord{}, err
	}
	playerID := strings.TrimSpace(record.ID)
	if playerID == "" {
		return storage.PlayerRecord{}, fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(record.Name) == "" && strings.TrimSpace(record.OwnerName) == "" {
		return storage.PlayerRecord{}, fmt.Errorf("player name is required")
	}
	updatedAt := time.Now().UTC()

	result, err := sqlDB.ExecContext(
		ctx,
		`UPDATE players
		    SET name = ?, owner_user_id = ?, owner_name = ?,
		        version = version + 1, updated_at = ?
		  WHERE id = ? AND version = ?`,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.OwnerUserID),
		strings.TrimSpace(record.OwnerName),
		toMillis(updatedAt),
		playerID,
		record.Version,
	)
	if err != nil {
		return storage.PlayerRecord{}, fmt.Errorf("update player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.PlayerRecord{}, fmt.Errorf("update player: %w", err)
	}
	if affected == 0 {
		return storage.PlayerRecord{}, resolveWriteConflict(ctx, sqlDB, "players", playerID)
	}
	return s.GetPlayer(ctx, playerID)
}

// DeletePlayer removes one player. Deleting an absent player is not an
// error; deleting a player still referenced by a game fails.
func (s *Store) DeletePlayer(ctx context.Context, id string) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("player id is required")
	}
	if _, err := sqlDB.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

func scanPlayer(scan func(dest ...any) error) (storage.PlayerRecord, error) {
	var record storage.PlayerRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.OwnerUserID,
		&record.OwnerName,
		&record.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.PlayerRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
