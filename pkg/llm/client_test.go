package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwen23/campusbot/pkg/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		Token:       "test-token",
		BaseURL:     srv.URL,
		Temperature: 0.7,
		MaxTokens:   100,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://x"})
	assert.Error(t, err)

	_, err = NewClient(Config{Token: "t"})
	assert.Error(t, err)
}

func TestCreateChatCompletion(t *testing.T) {
	var gotReq chatCompletionsRequest
	var gotAuth string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	})

	answer, err := c.CreateChatCompletion(context.Background(), "test-model", []ChatMessage{
		{Role: "system", Content: TextContent("be brief")},
		{Role: "user", Content: TextContent("hi")},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello there", answer)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "be brief", gotReq.Messages[0].Content.Text)
}

func TestCreateChatCompletionErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `{"error":"down"}`},
		{"malformed body", http.StatusOK, `{{{`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.CreateChatCompletion(context.Background(), "m", []ChatMessage{
				{Role: "user", Content: TextContent("hi")},
			})

			var upstreamErr *domain.UpstreamError
			assert.ErrorAs(t, err, &upstreamErr)
		})
	}
}

func TestFetchImageAsDataURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("img-bytes"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, nil)

	uri, err := c.FetchImageAsDataURI(context.Background(), srv.URL+"/pic.png")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aW1nLWJ5dGVz", uri)

	uri, err = c.FetchImageAsDataURI(context.Background(), srv.URL+"/pic")
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/jpeg;base64,")
}

func TestFetchImageAsDataURIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, nil)

	_, err := c.FetchImageAsDataURI(context.Background(), srv.URL+"/gone.png")
	assert.Error(t, err)
}
