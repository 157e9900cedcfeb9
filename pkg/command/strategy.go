package command

import (
	"context"
	"fmt"

	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/services"
)

type StrategyService interface {
	EffectiveConfig(ctx context.Context, scope domain.Scope, groupID, senderID int64) domain.EffectiveConfig
	SetUserStrategy(ctx context.Context, userID int64, update services.StrategyUpdate) error
	SetGroupStrategy(ctx context.Context, groupID int64, update services.StrategyUpdate) error
}

// strategyHandler switches the reply strategy and tunes model/prompt. In a
// group it mutates the group configuration and requires admin; in a private
// chat it mutates the sender's own. Without a positional argument it reports
// the currently effective configuration.
type strategyHandler struct {
	strategies StrategyService
}

func NewStrategyHandler(strategies StrategyService) *strategyHandler {
	return &strategyHandler{strategies: strategies}
}

func (s *strategyHandler) Handle(ctx context.Context, args []string) (Result, error) {
	var common CommonArgs
	fs := newFlagSet("strategy", &common)
	model := fs.String("model", "", "model name")
	prompt := fs.String("prompt", "", "custom system prompt")
	resetPrompt := fs.Bool("reset-prompt", false, "reset to the default system prompt")

	if err := parseArgs(fs, args); err != nil {
		return Result{}, err
	}

	scope := domain.ScopePrivate
	if !common.IsPrivate() {
		scope = domain.ScopeGroup
	}

	if fs.NArg() == 0 && *model == "" && *prompt == "" && !*resetPrompt {
		cfg := s.strategies.EffectiveConfig(ctx, scope, common.GroupID, common.Sender)
		out := fmt.Sprintf("strategy: %s\nmodel: %s", cfg.Strategy, cfg.Model)
		if cfg.CustomPrompt != "" {
			out += "\ncustom prompt: " + cfg.CustomPrompt
		}
		return Result{Output: out}, nil
	}

	var update services.StrategyUpdate
	if fs.NArg() > 0 {
		strategy, ok := domain.ParseStrategy(fs.Arg(0))
		if !ok {
			return Result{}, domain.Validationf("unknown strategy %q, expected command or generative", fs.Arg(0))
		}
		update.Strategy = &strategy
	}
	if *model != "" {
		update.Model = model
	}
	if *resetPrompt {
		update.ResetPrompt = true
	} else if fs.Changed("prompt") {
		update.Prompt = prompt
	}

	if scope == domain.ScopeGroup {
		if !common.GroupAdmin {
			return Result{}, domain.Permissionf("only group admins may change the group strategy")
		}
		if err := s.strategies.SetGroupStrategy(ctx, common.GroupID, update); err != nil {
			return Result{}, err
		}
	} else {
		if err := s.strategies.SetUserStrategy(ctx, common.Sender, update); err != nil {
			return Result{}, err
		}
	}

	cfg := s.strategies.EffectiveConfig(ctx, scope, common.GroupID, common.Sender)
	return Result{Output: fmt.Sprintf("switched to %s strategy (model %s)", cfg.Strategy, cfg.Model)}, nil
}
