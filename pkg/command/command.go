// Package command parses and dispatches scripted commands. Handlers receive
// the raw argument vector prefixed with the command name plus a trailer of
// routing flags (--sender, --myself, --env, --group-id, --group-admin)
// appended by the router, and define their own sub-grammar on top.
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/jwen23/campusbot/pkg/domain"
)

type Result struct {
	Output string
}

type Handler interface {
	Handle(ctx context.Context, args []string) (Result, error)
}

// Registry maps command names to handlers. It is built once at start-up and
// never mutated afterwards.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers map[string]Handler) *Registry {
	m := make(map[string]Handler, len(handlers))
	for name, h := range handlers {
		m[name] = h
	}
	return &Registry{handlers: m}
}

func (r *Registry) Execute(ctx context.Context, name string, args []string) (Result, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return Result{}, fmt.Errorf("command %q: %w", name, domain.ErrNotFound)
	}

	full := make([]string, 0, len(args)+1)
	full = append(full, name)
	full = append(full, args...)

	return handler.Handle(ctx, full)
}

// CommonArgs are injected by the router on every invocation, regardless of
// what the original text contained.
type CommonArgs struct {
	Sender     int64
	Myself     int64
	Env        string
	GroupID    int64
	GroupAdmin bool
}

func (c *CommonArgs) IsPrivate() bool { return c.Env == string(domain.ScopePrivate) }

func newFlagSet(name string, common *CommonArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Int64Var(&common.Sender, "sender", 0, "sender id (injected)")
	fs.Int64Var(&common.Myself, "myself", 0, "bot id (injected)")
	fs.StringVar(&common.Env, "env", string(domain.ScopePrivate), "private or group (injected)")
	fs.Int64Var(&common.GroupID, "group-id", 0, "group id (injected)")
	fs.BoolVar(&common.GroupAdmin, "group-admin", false, "sender is a group admin (injected)")
	return fs
}

// parseArgs runs the flag set over everything after the command name. Parse
// failures surface as validation errors, never panics.
func parseArgs(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args[1:]); err != nil {
		return domain.Validationf("invalid arguments: %v", err)
	}
	return nil
}
