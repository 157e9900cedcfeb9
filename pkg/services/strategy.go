package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jwen23/campusbot/pkg/cache"
	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/logger"
)

type UserConfigRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.StrategyConfig, error)
	Save(ctx context.Context, userID int64, cfg domain.StrategyConfig) error
	Delete(ctx context.Context, userID int64) error
}

type GroupConfigRepository interface {
	GetByGroupID(ctx context.Context, groupID int64) (*domain.StrategyConfig, error)
	Save(ctx context.Context, groupID int64, cfg domain.StrategyConfig) error
	Delete(ctx context.Context, groupID int64) error
}

// StrategyUpdate is a partial mutation of a stored configuration. Nil fields
// leave the stored value untouched; ResetPrompt clears the custom prompt.
type StrategyUpdate struct {
	Strategy    *domain.Strategy
	Model       *string
	Prompt      *string
	ResetPrompt bool
}

// strategyService resolves the effective per-message configuration by merging
// group config, user config and process defaults, and applies mutations
// write-through so the very next read in-process sees them.
type strategyService struct {
	users      UserConfigRepository
	groups     GroupConfigRepository
	userCache  *cache.Store[int64, domain.StrategyConfig]
	groupCache *cache.Store[int64, domain.StrategyConfig]
	defaults   domain.EffectiveConfig
}

func NewStrategyService(
	users UserConfigRepository,
	groups GroupConfigRepository,
	cacheCapacity int,
	cacheTTL time.Duration,
	defaults domain.EffectiveConfig,
) *strategyService {
	return &strategyService{
		users:      users,
		groups:     groups,
		userCache:  cache.New[int64, domain.StrategyConfig](cacheCapacity, cacheTTL),
		groupCache: cache.New[int64, domain.StrategyConfig](cacheCapacity, cacheTTL),
		defaults:   defaults,
	}
}

// EffectiveConfig never fails: a group record wins over the sender's user
// record, which wins over process defaults, and store errors on the read path
// degrade to the next level down.
func (s *strategyService) EffectiveConfig(ctx context.Context, scope domain.Scope, groupID, senderID int64) domain.EffectiveConfig {
	if scope == domain.ScopeGroup {
		if cfg, ok := s.groupConfig(ctx, groupID); ok {
			return s.effective(cfg)
		}
	}
	if cfg, ok := s.userConfig(ctx, senderID); ok {
		return s.effective(cfg)
	}
	return s.defaults
}

func (s *strategyService) effective(cfg domain.StrategyConfig) domain.EffectiveConfig {
	model, _ := lo.Coalesce(cfg.Model, s.defaults.Model)
	return domain.EffectiveConfig{
		Strategy:     cfg.Strategy,
		Model:        model,
		CustomPrompt: cfg.CustomPrompt,
	}
}

func (s *strategyService) groupConfig(ctx context.Context, groupID int64) (domain.StrategyConfig, bool) {
	if cfg, ok := s.groupCache.Get(groupID); ok {
		return cfg, true
	}

	cfg, err := s.groups.GetByGroupID(ctx, groupID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "fetching group config", "groupID", groupID, logger.Err(err))
		}
		return domain.StrategyConfig{}, false
	}

	s.groupCache.Set(groupID, *cfg)
	return *cfg, true
}

func (s *strategyService) userConfig(ctx context.Context, userID int64) (domain.StrategyConfig, bool) {
	if cfg, ok := s.userCache.Get(userID); ok {
		return cfg, true
	}

	cfg, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "fetching user config", "userID", userID, logger.Err(err))
		}
		return domain.StrategyConfig{}, false
	}

	s.userCache.Set(userID, *cfg)
	return *cfg, true
}

// SetUserStrategy merges update into the sender's stored config and writes it
// through to storage and cache.
func (s *strategyService) SetUserStrategy(ctx context.Context, userID int64, update StrategyUpdate) error {
	cfg, ok := s.userConfig(ctx, userID)
	if !ok {
		cfg = s.defaultStored()
	}

	if err := applyUpdate(&cfg, update); err != nil {
		return err
	}

	if err := s.users.Save(ctx, userID, cfg); err != nil {
		return fmt.Errorf("saving user config: %w", err)
	}
	s.userCache.Set(userID, cfg)
	return nil
}

// SetGroupStrategy is the group-scope counterpart. The admin permission check
// belongs to the caller.
func (s *strategyService) SetGroupStrategy(ctx context.Context, groupID int64, update StrategyUpdate) error {
	cfg, ok := s.groupConfig(ctx, groupID)
	if !ok {
		cfg = s.defaultStored()
	}

	if err := applyUpdate(&cfg, update); err != nil {
		return err
	}

	if err := s.groups.Save(ctx, groupID, cfg); err != nil {
		return fmt.Errorf("saving group config: %w", err)
	}
	s.groupCache.Set(groupID, cfg)
	return nil
}

func (s *strategyService) defaultStored() domain.StrategyConfig {
	return domain.StrategyConfig{
		Strategy: s.defaults.Strategy,
		Model:    s.defaults.Model,
	}
}

func applyUpdate(cfg *domain.StrategyConfig, update StrategyUpdate) error {
	if update.Strategy != nil {
		cfg.Strategy = *update.Strategy
	}
	if update.Model != nil {
		cfg.Model = *update.Model
	}
	if update.ResetPrompt {
		cfg.CustomPrompt = ""
	} else if update.Prompt != nil {
		prompt := *update.Prompt
		if strings.TrimSpace(prompt) == "" {
			return domain.Validationf("custom prompt must not be empty")
		}
		if len(prompt) > domain.MaxCustomPromptLength {
			return domain.Validationf("custom prompt must not exceed %d characters", domain.MaxCustomPromptLength)
		}
		cfg.CustomPrompt = prompt
	}
	return nil
}
