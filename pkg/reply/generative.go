package reply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwen23/campusbot/pkg/content"
	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/llm"
	"github.com/jwen23/campusbot/pkg/logger"
)

type ConversationService interface {
	AppendUserTurn(key domain.SessionKey, text string, userID int64, displayName string)
	AppendAssistantTurn(key domain.SessionKey, text string)
	RecentHistory(key domain.SessionKey, limit int) []domain.ConversationTurn
}

type StrategyResolver interface {
	EffectiveConfig(ctx context.Context, scope domain.Scope, groupID, senderID int64) domain.EffectiveConfig
}

type GenerativeClient interface {
	CreateChatCompletion(ctx context.Context, model string, messages []llm.ChatMessage) (string, error)
	FetchImageAsDataURI(ctx context.Context, url string) (string, error)
}

// generativeStrategy assembles a role-ordered request from the resolved system
// prompt, the recent session history and the current turn, calls the
// generative API and records the round trip.
type generativeStrategy struct {
	client        GenerativeClient
	conversations ConversationService
	strategies    StrategyResolver
	defaultPrompt string
	historyLimit  int
}

func NewGenerativeStrategy(
	client GenerativeClient,
	conversations ConversationService,
	strategies StrategyResolver,
	defaultPrompt string,
	historyLimit int,
) *generativeStrategy {
	return &generativeStrategy{
		client:        client,
		conversations: conversations,
		strategies:    strategies,
		defaultPrompt: defaultPrompt,
		historyLimit:  historyLimit,
	}
}

func (s *generativeStrategy) Reply(ctx context.Context, rctx Context) (domain.CanonicalMessage, error) {
	cfg := s.strategies.EffectiveConfig(ctx, rctx.Scope, rctx.GroupID, rctx.SenderID)

	text := content.ExtractText(rctx.Message)
	image := content.FirstImage(rctx.Message)
	if strings.TrimSpace(text) == "" && image == nil {
		return domain.CanonicalMessage{}, domain.Validationf("nothing to reply to")
	}

	key := rctx.SessionKey()

	// The user turn goes into the session before the history snapshot is
	// taken, so the request always contains the message being answered.
	displayName := ""
	if rctx.Scope == domain.ScopeGroup {
		displayName = senderLabel(rctx)
	}
	s.conversations.AppendUserTurn(key, content.Describe(rctx.Message), rctx.SenderID, displayName)

	messages := s.buildMessages(ctx, rctx, cfg, image)

	answer, err := s.client.CreateChatCompletion(ctx, cfg.Model, messages)
	if err != nil {
		return domain.CanonicalMessage{}, fmt.Errorf("generating reply: %w", err)
	}

	s.conversations.AppendAssistantTurn(key, answer)
	return domain.TextMessage(answer), nil
}

func (s *generativeStrategy) buildMessages(ctx context.Context, rctx Context, cfg domain.EffectiveConfig, image *domain.ImageInfo) []llm.ChatMessage {
	systemPrompt := cfg.CustomPrompt
	if systemPrompt == "" {
		systemPrompt = s.defaultPrompt
	}

	messages := []llm.ChatMessage{
		{Role: domain.RoleSystem, Content: llm.TextContent(systemPrompt)},
	}

	history := s.conversations.RecentHistory(rctx.SessionKey(), s.historyLimit)
	for _, turn := range history {
		text := turn.Text
		// Tag group user turns with the speaker so the model can tell
		// participants apart in a shared thread.
		if rctx.Scope == domain.ScopeGroup && turn.Role == domain.RoleUser {
			name := turn.DisplayName
			if name == "" {
				name = fmt.Sprintf("user%d", turn.UserID)
			}
			text = fmt.Sprintf("[%s]: %s", name, text)
		}
		messages = append(messages, llm.ChatMessage{Role: turn.Role, Content: llm.TextContent(text)})
	}

	if image != nil && len(messages) > 1 {
		last := &messages[len(messages)-1]
		if last.Role == domain.RoleUser {
			last.Content = s.imageContent(ctx, last.Content.Text, image)
		}
	}

	return messages
}

// imageContent attaches the image to the current turn. Directly reachable
// URLs are passed through; anything else is fetched and inlined as a data
// URI, degrading to an annotated text-only turn when the fetch fails.
func (s *generativeStrategy) imageContent(ctx context.Context, text string, image *domain.ImageInfo) llm.MessageContent {
	if image.Caption != "" {
		text = fmt.Sprintf("%s (caption: %s)", text, image.Caption)
	}

	if image.URL == "" {
		return llm.TextContent(fmt.Sprintf("%s [image file: %s]", text, image.File))
	}

	url := image.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		dataURI, err := s.client.FetchImageAsDataURI(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "image fetch failed, degrading to text", "file", image.File, logger.Err(err))
			return llm.TextContent(fmt.Sprintf("%s [image: %s, unavailable]", text, image.File))
		}
		url = dataURI
	}

	return llm.MessageContent{Parts: []llm.ContentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &llm.ImageURL{URL: url, Detail: "high"}},
	}}
}

func senderLabel(rctx Context) string {
	if rctx.SenderName != "" {
		return rctx.SenderName
	}
	return fmt.Sprintf("user%d", rctx.SenderID)
}
