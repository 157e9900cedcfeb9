package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/repository"
)

func newConversationService(maxHistory int, idleTimeout time.Duration) *conversationService {
	return NewConversationService(repository.NewSessionRepository(0, idleTimeout), maxHistory, idleTimeout)
}

func TestConversationAppendAndHistory(t *testing.T) {
	svc := newConversationService(20, time.Minute)
	key := domain.PrivateKey(100)

	svc.AppendUserTurn(key, "hello", 100, "")
	svc.AppendAssistantTurn(key, "hi there")

	history := svc.RecentHistory(key, 10)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "hi there", history[1].Text)
}

func TestConversationTrimsOldestBeyondMaxHistory(t *testing.T) {
	svc := newConversationService(3, time.Minute)
	key := domain.PrivateKey(100)

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		svc.AppendUserTurn(key, text, 100, "")
	}

	history := svc.RecentHistory(key, 10)
	require.Len(t, history, 3)
	assert.Equal(t, "three", history[0].Text)
	assert.Equal(t, "five", history[2].Text)
}

func TestConversationRecentHistoryLimit(t *testing.T) {
	svc := newConversationService(20, time.Minute)
	key := domain.GroupKey(500)

	for _, text := range []string{"a", "b", "c", "d"} {
		svc.AppendUserTurn(key, text, 1, "alice")
	}

	history := svc.RecentHistory(key, 2)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Text)
	assert.Equal(t, "d", history[1].Text)
}

func TestConversationExpiredSessionTreatedAsAbsent(t *testing.T) {
	svc := newConversationService(20, 30*time.Millisecond)
	key := domain.PrivateKey(100)

	svc.AppendUserTurn(key, "hello", 100, "")
	time.Sleep(40 * time.Millisecond)

	assert.Nil(t, svc.RecentHistory(key, 10))

	// The next append starts a fresh session instead of resurrecting the
	// stale one.
	svc.AppendUserTurn(key, "anyone there?", 100, "")
	history := svc.RecentHistory(key, 10)
	require.Len(t, history, 1)
	assert.Equal(t, "anyone there?", history[0].Text)
}

func TestConversationHistoryForUser(t *testing.T) {
	svc := newConversationService(20, time.Minute)
	key := domain.GroupKey(500)

	svc.AppendUserTurn(key, "from alice", 1, "alice")
	svc.AppendUserTurn(key, "from bob", 2, "bob")
	svc.AppendAssistantTurn(key, "answer for bob")
	svc.AppendUserTurn(key, "alice again", 1, "alice")

	history := svc.HistoryForUser(key, 1, 10)
	require.Len(t, history, 3)
	assert.Equal(t, "from alice", history[0].Text)
	assert.Equal(t, "answer for bob", history[1].Text)
	assert.Equal(t, "alice again", history[2].Text)
}

func TestConversationClear(t *testing.T) {
	svc := newConversationService(20, time.Minute)
	key := domain.PrivateKey(100)

	svc.AppendUserTurn(key, "hello", 100, "")
	assert.Equal(t, 1, svc.ActiveSessionCount())

	svc.Clear(key)
	assert.Nil(t, svc.RecentHistory(key, 10))
	assert.Equal(t, 0, svc.ActiveSessionCount())
}

func TestConversationSessionsAreIndependent(t *testing.T) {
	svc := newConversationService(20, time.Minute)

	svc.AppendUserTurn(domain.PrivateKey(1), "private", 1, "")
	svc.AppendUserTurn(domain.GroupKey(1), "group", 1, "alice")

	private := svc.RecentHistory(domain.PrivateKey(1), 10)
	group := svc.RecentHistory(domain.GroupKey(1), 10)
	require.Len(t, private, 1)
	require.Len(t, group, 1)
	assert.Equal(t, "private", private[0].Text)
	assert.Equal(t, "group", group[0].Text)
}
