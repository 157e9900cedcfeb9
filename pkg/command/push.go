package command

import (
	"context"

	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/services"
)

type PushService interface {
	Push(ctx context.Context, req services.PushRequest) (services.PushResult, error)
}

// pushHandler fans a message out to group members. Private-only.
type pushHandler struct {
	push PushService
}

func NewPushHandler(push PushService) *pushHandler {
	return &pushHandler{push: push}
}

func (p *pushHandler) Handle(ctx context.Context, args []string) (Result, error) {
	var common CommonArgs
	fs := newFlagSet("push", &common)
	group := fs.Int64P("group", "g", 0, "target group id")
	message := fs.StringP("message", "m", "", "message text")
	members := fs.Int64SliceP("members", "l", nil, "recipient ids")

	if err := parseArgs(fs, args); err != nil {
		return Result{}, err
	}
	if !common.IsPrivate() {
		return Result{}, domain.Validationf("push can only be used in a private chat")
	}

	result, err := p.push.Push(ctx, services.PushRequest{
		SenderID: common.Sender,
		GroupID:  *group,
		Message:  *message,
		Members:  *members,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Output: result.Summary()}, nil
}
