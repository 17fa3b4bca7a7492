// Package bot holds the command framework: the registry dispatching chat
// updates to commands, the per-invocation context, argument resolution and
// prompt validation.
package bot

import (
	"context"
	"errors"
)

// Command is one chat command. Names lists the primary name first,
// aliases after.
type Command interface {
	Names() []string
	Description() string
	Execute(ctx context.Context, inv *Invocation, args string) error
}

// UserError carries a message that is safe and useful to show in chat.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// MissingArgument builds the canonical error for a command invoked
// without a required argument.
func MissingArgument(what string) error {
	return &UserError{Message: "missing argument: " + what + "."}
}

// ErrRateLimited denies a command invocation before it does any work.
var ErrRateLimited = errors.New("bot: rate limited")
