package repository

import (
	"time"

	"github.com/jwen23/campusbot/pkg/cache"
	"github.com/jwen23/campusbot/pkg/domain"
)

// sessionRepository keeps conversation sessions in a bounded in-process cache.
// Sessions are stored by value: callers read a snapshot, mutate it and save it
// back, so concurrent writers to the same key are last-writer-wins.
type sessionRepository struct {
	store *cache.Store[domain.SessionKey, domain.ConversationSession]
}

func NewSessionRepository(capacity int, idleTTL time.Duration) *sessionRepository {
	return &sessionRepository{
		store: cache.New[domain.SessionKey, domain.ConversationSession](capacity, idleTTL),
	}
}

func (r *sessionRepository) Get(key domain.SessionKey) (domain.ConversationSession, bool) {
	return r.store.Get(key)
}

func (r *sessionRepository) Save(key domain.SessionKey, session domain.ConversationSession) {
	r.store.Set(key, session)
}

func (r *sessionRepository) Remove(key domain.SessionKey) {
	r.store.Remove(key)
}

func (r *sessionRepository) Len() int {
	return r.store.Len()
}
