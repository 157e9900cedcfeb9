package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jwen23/campusbot/pkg/domain"
)

type StudentService interface {
	Bind(ctx context.Context, platformID, studentID int64) error
	Unbind(ctx context.Context, platformID int64) error
}

// bindHandler associates the sender's platform account with a student record.
// Private-only; --clear removes an existing binding.
type bindHandler struct {
	students StudentService
}

func NewBindHandler(students StudentService) *bindHandler {
	return &bindHandler{students: students}
}

func (b *bindHandler) Handle(ctx context.Context, args []string) (Result, error) {
	var common CommonArgs
	fs := newFlagSet("bind", &common)
	clear := fs.Bool("clear", false, "clear the current binding")

	if err := parseArgs(fs, args); err != nil {
		return Result{}, err
	}
	if !common.IsPrivate() {
		return Result{}, domain.Validationf("bind can only be used in a private chat")
	}

	if *clear {
		if err := b.students.Unbind(ctx, common.Sender); err != nil {
			return Result{}, err
		}
		return Result{Output: "binding cleared"}, nil
	}

	if fs.NArg() == 0 {
		return Result{}, domain.Validationf("usage: bind <student id> or bind --clear")
	}
	studentID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || studentID <= 0 {
		return Result{}, domain.Validationf("invalid student id %q", fs.Arg(0))
	}

	if err := b.students.Bind(ctx, common.Sender, studentID); err != nil {
		return Result{}, err
	}
	return Result{Output: fmt.Sprintf("bound to student %d", studentID)}, nil
}
