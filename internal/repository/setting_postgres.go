package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
)

// SettingRepository implements the domain.SettingRepository interface using PostgreSQL
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository instance
func NewSettingRepository(db *sql.DB) domain.SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves a setting by key
func (r *SettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`

	var setting domain.Setting
	err := r.db.QueryRowContext(ctx, query, key).Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "setting", ID: key}
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

// Set upserts a setting value
func (r *SettingRepository) Set(ctx context.Context, key string, value domain.JSONMap) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// GetBool reads a {"enabled": bool} setting, returning fallback when the
// key is absent.
func (r *SettingRepository) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return fallback, nil
		}
		return fallback, err
	}

	if enabled, ok := setting.Value["enabled"].(bool); ok {
		return enabled, nil
	}
	return fallback, nil
}

// SetBool writes a {"enabled": bool} setting
func (r *SettingRepository) SetBool(ctx context.Context, key string, enabled bool) error {
	return r.Set(ctx, key, domain.JSONMap{"enabled": enabled})
}

// GetStrings reads a {"values": [...]} setting, empty when absent
func (r *SettingRepository) GetStrings(ctx context.Context, key string) ([]string, error) {
	setting, err := r.Get(ctx, key)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	raw, ok := setting.Value["values"].([]interface{})
	if !ok {
		return nil, nil
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	return values, nil
}
