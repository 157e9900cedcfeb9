package command

import (
	"context"

	"github.com/jwen23/campusbot/pkg/domain"
)

type GradeService interface {
	ReportForPlatformID(ctx context.Context, platformID int64) (string, error)
}

// queryHandler looks up and formats records of the caller. A different target
// account may only be queried with elevated permission.
type queryHandler struct {
	grades GradeService
}

func NewQueryHandler(grades GradeService) *queryHandler {
	return &queryHandler{grades: grades}
}

func (q *queryHandler) Handle(ctx context.Context, args []string) (Result, error) {
	var common CommonArgs
	fs := newFlagSet("query", &common)
	mode := fs.String("mode", "summary", "report mode")
	target := fs.Int64("target", 0, "query another account (admin only)")

	if err := parseArgs(fs, args); err != nil {
		return Result{}, err
	}

	if fs.NArg() == 0 || fs.Arg(0) != "grade" {
		return Result{}, domain.Validationf("usage: query grade [--mode summary]")
	}
	if *mode != "summary" {
		return Result{}, domain.Validationf("query mode %q is not supported yet", *mode)
	}

	platformID := common.Sender
	if *target != 0 && *target != common.Sender {
		if !common.GroupAdmin {
			return Result{}, domain.Permissionf("only admins may query other accounts")
		}
		platformID = *target
	}

	report, err := q.grades.ReportForPlatformID(ctx, platformID)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: report}, nil
}
