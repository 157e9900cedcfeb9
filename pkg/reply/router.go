package reply

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/jwen23/campusbot/pkg/content"
	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/logger"
)

type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// Router ties the strategy resolver, the command dispatcher and the
// generative pipeline together for each inbound message.
type Router struct {
	strategies    StrategyResolver
	conversations ConversationService
	command       Strategy
	generative    Strategy
	admins        AdminChecker
	prefix        string
	autoCapture   bool
	responseCh    chan<- domain.OutboundMessage
}

func NewRouter(
	strategies StrategyResolver,
	conversations ConversationService,
	commandStrategy Strategy,
	generativeStrategy Strategy,
	admins AdminChecker,
	prefix string,
	autoCapture bool,
	responseCh chan<- domain.OutboundMessage,
) *Router {
	return &Router{
		strategies:    strategies,
		conversations: conversations,
		command:       commandStrategy,
		generative:    generativeStrategy,
		admins:        admins,
		prefix:        prefix,
		autoCapture:   autoCapture,
		responseCh:    responseCh,
	}
}

// HandleEvent processes one inbound message end to end: normalize, resolve
// the effective strategy, decide whether to respond or merely capture, then
// dispatch and send the textual result back.
func (r *Router) HandleEvent(ctx context.Context, ev domain.InboundEvent) {
	msg := content.Normalize(ev.Segments)
	// A mention segment ahead of the text leaves leading whitespace behind,
	// so trim before the prefix check.
	text := strings.TrimSpace(content.ExtractText(msg))
	isCommand := strings.HasPrefix(text, r.prefix)
	mentioned := ev.Scope == domain.ScopeGroup && lo.Contains(ev.Mentions, ev.SelfID)

	cfg := r.strategies.EffectiveConfig(ctx, ev.Scope, ev.GroupID, ev.SenderID)

	respond := r.shouldRespond(ev.Scope, cfg.Strategy, isCommand, mentioned)
	capture := r.shouldCapture(ev.Scope, cfg.Strategy)

	// Unaddressed chatter still becomes context for a later mention; only
	// captured here when not responding, since the generative path records
	// the turn itself.
	if capture && !respond {
		displayName := ""
		if ev.Scope == domain.ScopeGroup {
			displayName = ev.SenderName
		}
		r.conversations.AppendUserTurn(ev.SessionKey(), content.Describe(msg), ev.SenderID, displayName)
		return
	}
	if !respond {
		return
	}

	rctx := Context{
		Scope:      ev.Scope,
		SenderID:   ev.SenderID,
		SenderName: ev.SenderName,
		SelfID:     ev.SelfID,
		GroupID:    ev.GroupID,
		GroupAdmin: ev.GroupAdmin || r.admins.IsAdmin(ev.SenderID),
		Message:    msg,
	}

	strategy := r.selectStrategy(ev.Scope, cfg.Strategy, isCommand)

	result, err := strategy.Reply(ctx, rctx)
	answer := content.ExtractText(result)
	if err != nil {
		slog.ErrorContext(ctx, "reply failed", "scope", ev.Scope, "senderID", ev.SenderID, logger.Err(err))
		answer = userFacingText(err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return
	}

	out := domain.OutboundMessage{Scope: ev.Scope, TargetID: ev.SenderID, Text: answer}
	if ev.Scope == domain.ScopeGroup {
		out.TargetID = ev.GroupID
	}
	select {
	case r.responseCh <- out:
	case <-ctx.Done():
		slog.WarnContext(ctx, "dropping reply, shutting down", "targetID", out.TargetID)
	}
}

func (r *Router) shouldRespond(scope domain.Scope, strategy domain.Strategy, isCommand, mentioned bool) bool {
	if scope == domain.ScopePrivate {
		if strategy == domain.StrategyCommand {
			return isCommand
		}
		return true
	}
	// Group messages are only answered when the bot is mentioned.
	return mentioned
}

func (r *Router) shouldCapture(scope domain.Scope, strategy domain.Strategy) bool {
	if strategy != domain.StrategyGenerative {
		return false
	}
	if scope == domain.ScopeGroup {
		return r.autoCapture
	}
	return true
}

// selectStrategy: a leading command prefix always forces scripted dispatch;
// a mentioned non-command group message forces the generative path.
func (r *Router) selectStrategy(scope domain.Scope, strategy domain.Strategy, isCommand bool) Strategy {
	if isCommand {
		return r.command
	}
	if scope == domain.ScopeGroup {
		return r.generative
	}
	if strategy == domain.StrategyCommand {
		return r.command
	}
	return r.generative
}

// userFacingText maps internal failures onto messages safe to show end users.
// Upstream detail stays in the logs.
func userFacingText(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var permissionErr *domain.PermissionError
	if errors.As(err, &permissionErr) {
		return permissionErr.Message
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return "the assistant is temporarily unavailable, please try again later"
	}

	if errors.Is(err, domain.ErrNotFound) {
		return "unknown command, see the documentation for the available commands"
	}

	return "something went wrong, please try again"
}
