package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameMaxTokens(t *testing.T) {
	t.Run("renames completion budget", func(t *testing.T) {
		out, err := renameMaxTokens([]byte(`{"model":"mistral","max_completion_tokens":1000}`))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(out, &got))
		assert.EqualValues(t, 1000, got["max_tokens"])
		assert.NotContains(t, got, "max_completion_tokens")
		assert.Equal(t, "mistral", got["model"])
	})

	t.Run("keeps explicit max_tokens", func(t *testing.T) {
		out, err := renameMaxTokens([]byte(`{"max_tokens":50,"max_completion_tokens":1000}`))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(out, &got))
		assert.EqualValues(t, 50, got["max_tokens"])
		assert.NotContains(t, got, "max_completion_tokens")
	})

	t.Run("no budget leaves body unchanged", func(t *testing.T) {
		in := []byte(`{"model":"mistral"}`)
		out, err := renameMaxTokens(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := renameMaxTokens([]byte(`[1,2]`))
		assert.Error(t, err)
	})
}

func TestMaxTokensTransport(t *testing.T) {
	var gotBody string
	var gotLength int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotLength = r.ContentLength
	}))
	defer srv.Close()

	client := &http.Client{Transport: newMaxTokensTransport(nil)}

	t.Run("chat completions body is rewritten", func(t *testing.T) {
		resp, err := client.Post(srv.URL+"/v1/chat/completions", "application/json",
			strings.NewReader(`{"model":"mistral","max_completion_tokens":1000}`))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Contains(t, gotBody, `"max_tokens":1000`)
		assert.NotContains(t, gotBody, "max_completion_tokens")
		assert.Equal(t, int64(len(gotBody)), gotLength)
	})

	t.Run("other paths pass through", func(t *testing.T) {
		body := `{"max_completion_tokens":1000}`
		resp, err := client.Post(srv.URL+"/v1/embeddings", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, body, gotBody)
	})

	t.Run("non-json body passes through", func(t *testing.T) {
		resp, err := client.Post(srv.URL+"/v1/chat/completions", "text/plain", strings.NewReader("hello"))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "hello", gotBody)
	})
}
