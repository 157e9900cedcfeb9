package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
)

type userConfigRepository struct {
	db *sql.DB
}

func NewUserConfigRepository(db *sql.DB) *userConfigRepository {
	return &userConfigRepository{db: db}
}

func (r *userConfigRepository) GetByUserID(ctx context.Context, userID int64) (*domain.StrategyConfig, error) {
	const query = `
		SELECT strategy, model, custom_prompt
		FROM user_configs
		WHERE user_id = $1
	`

	var cfg domain.StrategyConfig
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&cfg.Strategy, &cfg.Model, &cfg.CustomPrompt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching user config: %w", err)
	}

	return &cfg, nil
}

func (r *userConfigRepository) Save(ctx context.Context, userID int64, cfg domain.StrategyConfig) error {
	const query = `
		INSERT INTO user_configs (user_id, strategy, model, custom_prompt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			strategy = EXCLUDED.strategy,
			model = EXCLUDED.model,
			custom_prompt = EXCLUDED.custom_prompt
	`

	if _, err := r.db.ExecContext(ctx, query, userID, cfg.Strategy, cfg.Model, cfg.CustomPrompt); err != nil {
		return fmt.Errorf("saving user config: %w", err)
	}

	return nil
}

func (r *userConfigRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_configs WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deleting user config: %w", err)
	}
	return nil
}
