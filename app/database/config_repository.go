package database

import (
	"database/sql"
	"fmt"
)

type ConfigRepo struct {
	db *DB
}

var _ ConfigRepository = (*ConfigRepo)(nil)

func NewConfigRepository(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

func (r *ConfigRepo) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get config key %s: %w", key, err)
	}

	return value, true, nil
}

// Set writes a key; last write wins, no versioning.
func (r *ConfigRepo) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO config (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config key %s: %w", key, err)
	}

	return nil
}

func (r *ConfigRepo) GetAll() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config rows: %w", err)
	}

	return values, nil
}
