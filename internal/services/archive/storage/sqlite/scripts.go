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

const scriptColumns = `id, name, description, wiki_url, version, created_at, updated_at`

// CreateScript inserts one script and its character set atomically. Every
// referenced character must exist.
func (s *Store) CreateScript(ctx context.Context, record storage.ScriptRecord) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	scriptID := strings.TrimSpace(record.ID)
	if scriptID == "" {
		return fmt.Errorf("script id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("script name is required")
	}
	version := record.Version
	if version <= 0 {
		version = 1
	}
	createdAt, updatedAt := writeTimestamps(record.CreatedAt, record.UpdatedAt)

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO scripts (`+scriptColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scriptID,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Description),
		strings.TrimSpace(record.WikiURL),
		version,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create script: %w", err)
	}

	if err := insertScriptCharacters(ctx, tx, scriptID, record.CharacterIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	return nil
}

// GetScript returns one script and its character set by ID.
func (s *Store) GetScript(ctx context.Context, id string) (storage.ScriptRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.ScriptRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.ScriptRecord{}, fmt.Errorf("script id is required")
	}

	row := sqlDB.QueryRowContext(
		ctx,
		`SELECT `+scriptColumns+` FROM scripts WHERE id = ?`,
		id,
	)
	record, err := scanScript(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ScriptRecord{}, storage.ErrNotFound
		}
		return storage.ScriptRecord{}, fmt.Errorf("get script: %w", err)
	}

	record.CharacterIDs, err = scriptCharacterIDs(ctx, sqlDB, id)
	if err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("get script: %w", err)
	}
	return record, nil
}

// ListScripts returns one page of script records ordered by ID.
func (s *Store) ListScripts(ctx context.Context, pageSize int, pageToken string) (storage.ScriptPage, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.ScriptPage{}, err
	}
	if pageSize <= 0 {
		return storage.ScriptPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.ScriptPage{
		Scripts: make([]storage.ScriptRecord, 0, pageSize),
	}

	var rows *sql.Rows
	if pageToken == "" {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+scriptColumns+` FROM scripts ORDER BY id ASC LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = sqlDB.QueryContext(
			ctx,
			`SELECT `+scriptColumns+` FROM scripts WHERE id > ? ORDER BY id ASC LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.ScriptPage{}, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := scanScript(rows.Scan)
		if err != nil {
			return storage.ScriptPage{}, fmt.Errorf("list scripts: %w", err)
		}
		page.Scripts = append(page.Scripts, record)
	}
	if err := rows.Err(); err != nil {
		return storage.ScriptPage{}, fmt.Errorf("list scripts: %w", err)
	}
	if len(page.Scripts) > pageSize {
		page.NextPageToken = page.Scripts[pageSize-1].ID
		page.Scripts = page.Scripts[:pageSize]
	}

	for i := range page.Scripts {
		page.Scripts[i].CharacterIDs, err = scriptCharacterIDs(ctx, sqlDB, page.Scripts[i].ID)
		if err != nil {
			return storage.ScriptPage{}, fmt.Errorf("list scripts: %w", err)
		}
	}
	return page, nil
}

// UpdateScript replaces the script row and its character set when the stored
// version still matches.
func (s *Store) UpdateScript(ctx context.Context, record storage.ScriptRecord) (storage.ScriptRecord, error) {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return storage.ScriptRecord{}, err
	}
	scriptID := strings.TrimSpace(record.ID)
	if scriptID == "" {
		return storage.ScriptRecord{}, fmt.Errorf("script id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return storage.ScriptRecord{}, fmt.Errorf("script name is required")
	}
	updatedAt := time.Now().UTC()

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("update script: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE scripts
		    SET name = ?, description = ?, wiki_url = ?,
		        version = version + 1, updated_at = ?
		  WHERE id = ? AND version = ?`,
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Description),
		strings.TrimSpace(record.WikiURL),
		toMillis(updatedAt),
		scriptID,
		record.Version,
	)
	if err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("update script: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("update script: %w", err)
	}
	if affected == 0 {
		return storage.ScriptRecord{}, resolveWriteConflict(ctx, tx, "scripts", scriptID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM script_characters WHERE script_id = ?`, scriptID); err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("update script: %w", err)
	}
	if err := insertScriptCharacters(ctx, tx, scriptID, record.CharacterIDs); err != nil {
		return storage.ScriptRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return storage.ScriptRecord{}, fmt.Errorf("update script: %w", err)
	}
	return s.GetScript(ctx, scriptID)
}

// DeleteScript removes one script and its character set. Deleting an absent
// script is not an error; deleting a script still referenced by a game fails.
func (s *Store) DeleteScript(ctx context.Context, id string) error {
	sqlDB, err := s.ready(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("script id is required")
	}
	if _, err := sqlDB.ExecContext(ctx, `DELETE FROM scripts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	return nil
}

func insertScriptCharacters(ctx context.Context, tx *sql.Tx, scriptID string, characterIDs []string) error {
	for _, characterID := range characterIDs {
		characterID = strings.TrimSpace(characterID)
		if characterID == "" {
			continue
		}
		if err := requireRelated(ctx, tx, "character", "characters", characterID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO script_characters (script_id, character_id) VALUES (?, ?)`,
			scriptID,
			characterID,
		); err != nil {
			return fmt.Errorf("insert script character: %w", err)
		}
	}
	return nil
}

func scriptCharacterIDs(ctx context.Context, q querier, scriptID string) ([]string, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT character_id FROM script_characters WHERE script_id = ? ORDER BY character_id ASC`,
		scriptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characterIDs []string
	for rows.Next() {
		var characterID string
		if err := rows.Scan(&characterID); err != nil {
			return nil, err
		}
		characterIDs = append(characterIDs, characterID)
	}
	return characterIDs, rows.Err()
}

func scanScript(scan func(dest ...any) error) (storage.ScriptRecord, error) {
	var record storage.ScriptRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Description,
		&record.WikiURL,
		&record.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.ScriptRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
