package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwen23/campusbot/pkg/domain"
)

type fakePushTransport struct {
	sent    []int64
	failFor map[int64]bool
}

func (f *fakePushTransport) SendPrivate(_ context.Context, userID int64, _ string) error {
	if f.failFor[userID] {
		return errors.New("recipient unreachable")
	}
	f.sent = append(f.sent, userID)
	return nil
}

func TestPushValidation(t *testing.T) {
	svc := NewPushService(&fakePushTransport{})

	tests := []struct {
		name string
		req  PushRequest
	}{
		{"missing group", PushRequest{Message: "hi", Members: []int64{1}}},
		{"blank message", PushRequest{GroupID: 500, Message: "  ", Members: []int64{1}}},
		{"no recipients", PushRequest{GroupID: 500, Message: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Push(context.Background(), tt.req)
			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestPushDeliversToAllMembers(t *testing.T) {
	transport := &fakePushTransport{}
	svc := NewPushService(transport)

	result, err := svc.Push(context.Background(), PushRequest{
		GroupID: 500,
		Message: "exam tomorrow",
		Members: []int64{1, 2, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []int64{1, 2, 3}, transport.sent)
}

func TestPushTalliesFailuresWithoutAborting(t *testing.T) {
	transport := &fakePushTransport{failFor: map[int64]bool{2: true, 4: true}}
	svc := NewPushService(transport)

	result, err := svc.Push(context.Background(), PushRequest{
		GroupID: 500,
		Message: "exam tomorrow",
		Members: []int64{1, 2, 3, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []int64{2, 4}, result.FailedIDs)
	assert.Equal(t, []int64{1, 3}, transport.sent)
	assert.Contains(t, result.Summary(), "2 sent, 2 failed of 4")
	assert.Contains(t, result.Summary(), "2, 4")
}
