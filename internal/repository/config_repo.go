package repository

import (
	"context"
	"encoding/json"
	"errors"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfigRepository stores the app's rule parameters as a jsonb singleton row.
type ConfigRepository struct {
	db *pgxpool.Pool
}

func NewConfigRepository(db *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get loads the stored config. A missing row falls back to defaults.
func (r *ConfigRepository) Get(ctx context.Context) (domain.AppConfig, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT config FROM app_config WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultAppConfig(), nil
		}
		return domain.AppConfig{}, err
	}

	var cfg domain.AppConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.AppConfig{}, err
	}
	return cfg, nil
}

// Replace overwrites the stored config wholesale.
func (r *ConfigRepository) Replace(ctx context.Context, cfg domain.AppConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO app_config (id, config, updated_at)
		 VALUES (1, $1, NOW())
		 ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = NOW()`,
		raw)
	return err
}
