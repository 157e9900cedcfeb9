package domain

// InboundEvent is one message received from the platform transport.
type InboundEvent struct {
	Scope      Scope
	SenderID   int64
	SenderName string
	SelfID     int64
	GroupID    int64
	GroupAdmin bool
	Segments   []Segment
	Mentions   []int64
}

func (e InboundEvent) SessionKey() SessionKey {
	if e.Scope == ScopeGroup {
		return GroupKey(e.GroupID)
	}
	return PrivateKey(e.SenderID)
}

// OutboundMessage is a best-effort reply routed back through the transport.
type OutboundMessage struct {
	Scope    Scope
	TargetID int64
	Text     string
}
