package domain

import "time"

type Scope string

const (
	ScopePrivate Scope = "private"
	ScopeGroup   Scope = "group"
)

// SessionKey identifies one conversation scope. Private sessions are per-user,
// group sessions are shared by every participant in the group.
type SessionKey struct {
	Scope Scope
	ID    int64
}

func PrivateKey(userID int64) SessionKey {
	return SessionKey{Scope: ScopePrivate, ID: userID}
}

func GroupKey(groupID int64) SessionKey {
	return SessionKey{Scope: ScopeGroup, ID: groupID}
}

func (k SessionKey) IsGroup() bool { return k.Scope == ScopeGroup }

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is a single utterance. UserID and DisplayName are only set
// for user turns captured in group scope.
type ConversationTurn struct {
	Role        string
	Text        string
	Timestamp   time.Time
	UserID      int64
	DisplayName string
}

// ConversationSession holds the bounded, oldest-first history of one session.
type ConversationSession struct {
	Turns        []ConversationTurn
	LastActivity time.Time
	MaxHistory   int
}

func NewConversationSession(maxHistory int) ConversationSession {
	return ConversationSession{
		LastActivity: time.Now(),
		MaxHistory:   maxHistory,
	}
}

// Append adds a turn, refreshes activity and drops the oldest turns beyond
// MaxHistory.
func (s *ConversationSession) Append(turn ConversationTurn) {
	s.Turns = append(s.Turns, turn)
	s.LastActivity = time.Now()

	if s.MaxHistory > 0 && len(s.Turns) > s.MaxHistory {
		s.Turns = s.Turns[len(s.Turns)-s.MaxHistory:]
	}
}

// Recent returns up to limit most recent turns, oldest first.
func (s *ConversationSession) Recent(limit int) []ConversationTurn {
	if limit <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) > limit {
		return s.Turns[len(s.Turns)-limit:]
	}
	return s.Turns
}

// IsExpired reports whether the session has been idle longer than timeout.
func (s *ConversationSession) IsExpired(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return time.Since(s.LastActivity) >= timeout
}
