package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
)

type groupConfigRepository struct {
	db *sql.DB
}

func NewGroupConfigRepository(db *sql.DB) *groupConfigRepository {
	return &groupConfigRepository{db: db}
}

func (r *groupConfigRepository) GetByGroupID(ctx context.Context, groupID int64) (*domain.StrategyConfig, error) {
	const query = `
		SELECT strategy, model, custom_prompt
		FROM group_configs
		WHERE group_id = $1
	`

	var cfg domain.StrategyConfig
	err := r.db.QueryRowContext(ctx, query, groupID).
		Scan(&cfg.Strategy, &cfg.Model, &cfg.CustomPrompt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching group config: %w", err)
	}

	return &cfg, nil
}

func (r *groupConfigRepository) Save(ctx context.Context, groupID int64, cfg domain.StrategyConfig) error {
	const query = `
		INSERT INTO group_configs (group_id, strategy, model, custom_prompt)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id)
		DO UPDATE SET
			strategy = EXCLUDED.strategy,
			model = EXCLUDED.model,
			custom_prompt = EXCLUDED.custom_prompt
	`

	if _, err := r.db.ExecContext(ctx, query, groupID, cfg.Strategy, cfg.Model, cfg.CustomPrompt); err != nil {
		return fmt.Errorf("saving group config: %w", err)
	}

	return nil
}

func (r *groupConfigRepository) Delete(ctx context.Context, groupID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM group_configs WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("deleting group config: %w", err)
	}
	return nil
}
