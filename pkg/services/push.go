package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/logger"
)

type PushTransport interface {
	SendPrivate(ctx context.Context, userID int64, text string) error
}

type PushRequest struct {
	SenderID int64
	GroupID  int64
	Message  string
	Members  []int64
}

type PushResult struct {
	Sent      int
	Failed    int
	FailedIDs []int64
}

func (r PushResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "push finished: %d sent, %d failed of %d", r.Sent, r.Failed, r.Sent+r.Failed)
	if len(r.FailedIDs) > 0 {
		ids := make([]string, 0, len(r.FailedIDs))
		for _, id := range r.FailedIDs {
			ids = append(ids, fmt.Sprint(id))
		}
		fmt.Fprintf(&b, "\nfailed recipients: %s", strings.Join(ids, ", "))
	}
	return b.String()
}

// pushService fans one message out to a list of recipients. Per-recipient
// delivery failures are collected into the result tally, never aborting the
// batch.
type pushService struct {
	transport PushTransport
}

func NewPushService(transport PushTransport) *pushService {
	return &pushService{transport: transport}
}

func (p *pushService) Push(ctx context.Context, req PushRequest) (PushResult, error) {
	if req.GroupID <= 0 {
		return PushResult{}, domain.Validationf("a valid group id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return PushResult{}, domain.Validationf("message must not be empty")
	}
	if len(req.Members) == 0 {
		return PushResult{}, domain.Validationf("at least one recipient is required")
	}

	var result PushResult
	var sendErrs error
	for _, member := range req.Members {
		if err := p.transport.SendPrivate(ctx, member, req.Message); err != nil {
			sendErrs = multierror.Append(sendErrs, fmt.Errorf("recipient %d: %w", member, err))
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, member)
			continue
		}
		result.Sent++
	}

	if sendErrs != nil {
		slog.WarnContext(ctx, "push delivery incomplete",
			"groupID", req.GroupID, "failed", result.Failed, logger.Err(sendErrs))
	}

	return result, nil
}
