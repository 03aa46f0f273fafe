package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "python fence",
			in:   "```python\ndef main(context):\n    return {}\n```",
			want: "def main(context):\n    return {}",
		},
		{
			name: "json fence",
			in:   "```json\n{\"summary\": \"x\"}\n```",
			want: `{"summary": "x"}`,
		},
		{
			name: "bare fence",
			in:   "```\ncontent\n```",
			want: "content",
		},
		{
			name: "no fence",
			in:   "  plain text  ",
			want: "plain text",
		},
		{
			name: "fence after preamble",
			in:   "Here is the code:\n```python\nx = 1\n```\nenjoy",
			want: "x = 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestHTTPClientGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret-key", "flash-2")

	out, err := client.Generate(context.Background(), "write code", Params{Temperature: 0.1, MaxTokens: 4096})
	require.NoError(t, err)
	assert.Equal(t, "generated text", out)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "flash-2", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "write code", gotReq.Messages[0].Content)
}

func TestHTTPClientGenerateErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "", "flash-2")

		_, err := client.Generate(context.Background(), "p", Params{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		client := NewHTTPClient(server.URL, "", "flash-2")

		_, err := client.Generate(context.Background(), "p", Params{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}
