package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwen23/campusbot/pkg/domain"
)

type fakeGradeService struct {
	reports map[int64]string
}

func (f *fakeGradeService) ReportForPlatformID(_ context.Context, platformID int64) (string, error) {
	report, ok := f.reports[platformID]
	if !ok {
		return "", domain.Validationf("no student bound to this account, bind with /bind <student id> first")
	}
	return report, nil
}

func TestQueryHandler(t *testing.T) {
	handler := NewQueryHandler(&fakeGradeService{reports: map[int64]string{
		900: "Li Lei scored 85 in Calculus Midterm\n",
	}})

	result, err := handler.Handle(context.Background(), []string{
		"query", "grade", "--sender", "900", "--env", "private",
	})
	require.NoError(t, err)

	assert.Contains(t, result.Output, "Li Lei scored 85")
}

func TestQueryHandlerUsage(t *testing.T) {
	handler := NewQueryHandler(&fakeGradeService{})

	tests := []struct {
		name string
		args []string
	}{
		{"missing subcommand", []string{"query", "--sender", "900", "--env", "private"}},
		{"wrong subcommand", []string{"query", "points", "--sender", "900", "--env", "private"}},
		{"unsupported mode", []string{"query", "grade", "--mode", "detailed", "--sender", "900", "--env", "private"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.args)
			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestQueryHandlerTargetRequiresAdmin(t *testing.T) {
	grades := &fakeGradeService{reports: map[int64]string{
		901: "Han Meimei scored 91 in Calculus Midterm\n",
	}}
	handler := NewQueryHandler(grades)

	_, err := handler.Handle(context.Background(), []string{
		"query", "grade", "--target", "901",
		"--sender", "900", "--env", "group", "--group-id", "500",
	})
	var permissionErr *domain.PermissionError
	require.ErrorAs(t, err, &permissionErr)

	result, err := handler.Handle(context.Background(), []string{
		"query", "grade", "--target", "901",
		"--sender", "900", "--env", "group", "--group-id", "500", "--group-admin",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Output, "Han Meimei")
}
