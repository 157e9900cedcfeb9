package services

import (
	"time"

	"github.com/jwen23/campusbot/pkg/domain"
)

type SessionRepository interface {
	Get(key domain.SessionKey) (domain.ConversationSession, bool)
	Save(key domain.SessionKey, session domain.ConversationSession)
	Remove(key domain.SessionKey)
	Len() int
}

// conversationService maintains the short-lived multi-turn history of each
// session. Sessions are read as snapshots and written back whole, so two
// concurrent appends to the same key are last-writer-wins; appends themselves
// never fail.
type conversationService struct {
	sessions    SessionRepository
	maxHistory  int
	idleTimeout time.Duration
}

func NewConversationService(sessions SessionRepository, maxHistory int, idleTimeout time.Duration) *conversationService {
	return &conversationService{
		sessions:    sessions,
		maxHistory:  maxHistory,
		idleTimeout: idleTimeout,
	}
}

// GetOrCreate returns the existing non-expired session for key, or starts a
// fresh one. This is the only creation path.
func (c *conversationService) GetOrCreate(key domain.SessionKey) domain.ConversationSession {
	if session, ok := c.sessions.Get(key); ok && !session.IsExpired(c.idleTimeout) {
		return session
	}

	session := domain.NewConversationSession(c.maxHistory)
	c.sessions.Save(key, session)
	return session
}

func (c *conversationService) AppendUserTurn(key domain.SessionKey, text string, userID int64, displayName string) {
	c.append(key, domain.ConversationTurn{
		Role:        domain.RoleUser,
		Text:        text,
		Timestamp:   time.Now(),
		UserID:      userID,
		DisplayName: displayName,
	})
}

func (c *conversationService) AppendAssistantTurn(key domain.SessionKey, text string) {
	c.append(key, domain.ConversationTurn{
		Role:      domain.RoleAssistant,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (c *conversationService) append(key domain.SessionKey, turn domain.ConversationTurn) {
	session := c.GetOrCreate(key)
	session.Append(turn)
	c.sessions.Save(key, session)
}

// RecentHistory returns the last limit turns oldest-first, or nothing when the
// session is absent or expired.
func (c *conversationService) RecentHistory(key domain.SessionKey, limit int) []domain.ConversationTurn {
	session, ok := c.sessions.Get(key)
	if !ok || session.IsExpired(c.idleTimeout) {
		return nil
	}
	return session.Recent(limit)
}

// HistoryForUser returns the last limit turns authored by userID plus all
// assistant turns, giving one group participant a coherent thread. The reply
// pipeline shares the whole thread via RecentHistory instead; this view is
// for per-user surfaces such as a history recap command.
func (c *conversationService) HistoryForUser(key domain.SessionKey, userID int64, limit int) []domain.ConversationTurn {
	session, ok := c.sessions.Get(key)
	if !ok || session.IsExpired(c.idleTimeout) {
		return nil
	}

	var turns []domain.ConversationTurn
	for _, turn := range session.Turns {
		if turn.Role == domain.RoleAssistant || turn.UserID == userID {
			turns = append(turns, turn)
		}
	}
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}

func (c *conversationService) Clear(key domain.SessionKey) {
	c.sessions.Remove(key)
}

func (c *conversationService) ActiveSessionCount() int {
	return c.sessions.Len()
}

func (c *conversationService) LastActivity(key domain.SessionKey) (time.Time, bool) {
	session, ok := c.sessions.Get(key)
	if !ok {
		return time.Time{}, false
	}
	return session.LastActivity, true
}
