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

const characterColumns = `id, name, type, external_id, wiki_url, image_url, version, created_at, updated_at`

// CreateCharacter inserts one character record.
func (s *Store) CreateCharacter(ctx context.Context, record storage.CharacterRecord) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	characterID := strings.TrimSpace(record.ID)
	if characterID == "" {
		return fmt.Errorf("character id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("character name is required")
	}
	version := record.Version
	if version <= 0 {
		version = 1
	}
	createdAt, updatedAt := writeTimestamps(record.CreatedAt, record.UpdatedAt)

	_, err = sqlDB.ExecContext(
		ctx,
		`INSERT INTO characters (`+characterColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		characterID,
		strings.TrimSpace(record.Name),
		record.Type,
		strings.TrimSpace(record.ExternalID),
		strings.TrimSpace(record.WikiURL),
		strings.TrimSpace(record.ImageURL),
		version,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create character: %w", err)
	}
	return nil
}

// GetCharacter returns one character by ID.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.CharacterRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CharacterRecord{}, fmt.Errorf("character id is required")
	}

	row := sqlDB.QueryRowContext(
		ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = ?`,
		id,
	)
	record, err := scanCharacter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	return record, nil
}

// ListCharacters returns one page of character records ordered by ID.
func (s *Store) ListCharacters(ctx context.Context, pageSize int, pageToken string) (storage.CharacterPage, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.CharacterPage{}, err
	}
	if pageSize <= 0 {
		return storage.CharacterPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.CharacterPage{
		Characters: make([]storage.CharacterRecord, 0, pageSize),
	}

	var rows *sql.Rows
	if pageToken == "" {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+characterColumns+` FROM characters ORDER BY id ASC LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+characterColumns+` FROM characters WHERE id > ? ORDER BY id ASC LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanCharacter(rows.Scan)
		if err != nil {
			return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
		}
		page.Characters = append(page.Characters, record)
	}
	if err := rows.Err(); err != nil {
		return storage.CharacterPage{}, fmt.Errorf("list characters: %w", err)
	}
	if len(page.Characters) > pageSize {
		page.NextPageToken = page.Characters[pageSize-1].ID
		page.Characters = page.Characters[:pageSize]
	}
	return page, nil
}

// UpdateCharacter applies the record when the stored version still matches.
func (s *Store) UpdateCharacter(ctx context.Context, record storage.CharacterRecord) (storage.CharacterRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.CharacterRecord{}, err
	}
	characterID := strings.TrimSpace(record.ID)
	if characterID == "" {
		return storage.CharacterRecord{}, fmt.Errorf("character id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return storage.CharacterRecord{}, fmt.Errorf("character name is required")
	}
	updatedAt := time.Now().UTC()

	result, err := sqlDB.ExecContext(
		ctx,
		`UPDATE characters
		    SET name = ?, type = ?, external_id = ?, wiki_url = ?, image_url = ?,
		        version = version + 1, updated_at = ?
		  WHERE id = ? AND version = ?`,
		strings.TrimSpace(record.Name),
		record.Type,
		strings.TrimSpace(record.ExternalID),
		strings.TrimSpace(record.WikiURL),
		strings.TrimSpace(record.ImageURL),
		toMillis(updatedAt),
		characterID,
		record.Version,
	)
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("update character: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("update character: %w", err)
	}
	if affected == 0 {
		return storage.CharacterRecord{}, resolveWriteConflict(ctx, sqlDB, "characters", characterID)
	}
	return s.GetCharacter(ctx, characterID)
}

// DeleteCharacter removes one character. Deleting an absent character is not
// an error; deleting a character still referenced by a script or game fails.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("character id is required")
	}
	if _, err := sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return nil
}

// writeTimestamps fills missing create/update timestamps the way records are
// first persisted: both default to now, and either backfills the other.
func writeTimestamps(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	createdAt = createdAt.UTC()
	updatedAt = updatedAt.UTC()
	switch {
	case createdAt.IsZero() && updatedAt.IsZero():
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	case createdAt.IsZero():
		createdAt = updatedAt
	case updatedAt.IsZero():
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}

func scanCharacter(scan func(dest ...any) error) (storage.CharacterRecord, error) {
	var record storage.CharacterRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Type,
		&record.ExternalID,
		&record.WikiURL,
		&record.ImageURL,
		&record.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.CharacterRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
