package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentJSON(t *testing.T) {
	plain := ChatMessage{Role: "user", Content: TextContent("hi")}
	data, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hi"}`, string(data))

	multimodal := ChatMessage{Role: "user", Content: MessageContent{Parts: []ContentPart{
		{Type: "text", Text: "what is this?"},
		{Type: "image_url", ImageURL: &ImageURL{URL: "https://x/cat.png", Detail: "high"}},
	}}}
	data, err = json.Marshal(multimodal)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":[
		{"type":"text","text":"what is this?"},
		{"type":"image_url","image_url":{"url":"https://x/cat.png","detail":"high"}}
	]}`, string(data))

	// Responses come back with string content.
	var decoded ChatMessage
	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":"sure"}`), &decoded))
	assert.Equal(t, "sure", decoded.Content.Text)
	assert.Equal(t, "sure", decoded.Content.Flatten())
}

func TestMessageContentFlattenParts(t *testing.T) {
	content := MessageContent{Parts: []ContentPart{
		{Type: "text", Text: "a"},
		{Type: "image_url", ImageURL: &ImageURL{URL: "u"}},
		{Type: "text", Text: "b"},
	}}
	assert.Equal(t, "a b", content.Flatten())
}
