// Package reply decides how each inbound message is answered: scripted
// command dispatch or a generative completion, selected per message by the
// router from the effective configuration.
package reply

import (
	"context"

	"github.com/jwen23/campusbot/pkg/domain"
)

// Context carries everything a strategy needs to answer one message.
type Context struct {
	Scope      domain.Scope
	SenderID   int64
	SenderName string
	SelfID     int64
	GroupID    int64
	GroupAdmin bool
	Message    domain.CanonicalMessage
}

func (c Context) SessionKey() domain.SessionKey {
	if c.Scope == domain.ScopeGroup {
		return domain.GroupKey(c.GroupID)
	}
	return domain.PrivateKey(c.SenderID)
}

type Strategy interface {
	Reply(ctx context.Context, rctx Context) (domain.CanonicalMessage, error)
}
