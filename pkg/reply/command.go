package reply

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwen23/campusbot/pkg/command"
	"github.com/jwen23/campusbot/pkg/content"
	"github.com/jwen23/campusbot/pkg/domain"
)

// commandStrategy parses a prefixed text message into a command invocation and
// dispatches it through the registry. The routing trailer is always appended,
// regardless of what the original text contained.
type commandStrategy struct {
	registry *command.Registry
	prefix   string
}

func NewCommandStrategy(registry *command.Registry, prefix string) *commandStrategy {
	return &commandStrategy{registry: registry, prefix: prefix}
}

func (s *commandStrategy) Reply(ctx context.Context, rctx Context) (domain.CanonicalMessage, error) {
	text := content.ExtractText(rctx.Message)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return domain.CanonicalMessage{}, domain.Validationf("expected a command starting with %q", s.prefix)
	}

	name, ok := strings.CutPrefix(fields[0], s.prefix)
	if !ok {
		return domain.CanonicalMessage{}, domain.Validationf("expected a command starting with %q", s.prefix)
	}

	args := append([]string{}, fields[1:]...)
	args = append(args,
		"--sender", strconv.FormatInt(rctx.SenderID, 10),
		"--myself", strconv.FormatInt(rctx.SelfID, 10),
		"--env", string(rctx.Scope),
	)
	if rctx.Scope == domain.ScopeGroup {
		args = append(args, "--group-id", strconv.FormatInt(rctx.GroupID, 10))
	}
	if rctx.GroupAdmin {
		args = append(args, "--group-admin")
	}

	result, err := s.registry.Execute(ctx, name, args)
	if err != nil {
		return domain.CanonicalMessage{}, fmt.Errorf("executing %q: %w", name, err)
	}

	return domain.TextMessage(result.Output), nil
}
