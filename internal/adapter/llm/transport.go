package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxTokensTransport rewrites the token budget of chat-completion bodies from
// "max_completion_tokens" to the "max_tokens" field that OpenAI-compatible
// local servers read. Other requests pass through untouched.
type maxTokensTransport struct {
	base http.RoundTripper
}

func newMaxTokensTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &maxTokensTransport{base: base}
}

func (t *maxTokensTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPost || req.Body == nil || !strings.HasSuffix(req.URL.Path, "/chat/completions") {
		return t.base.RoundTrip(req)
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat request body: %w", err)
	}

	body, err := renameMaxTokens(raw)
	if err != nil {
		// not a JSON object, send it as is
		body = raw
	}

	// RoundTrip must not modify the caller's request.
	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.ContentLength = int64(len(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	if out.Header.Get("Content-Length") != "" {
		out.Header.Set("Content-Length", fmt.Sprint(len(body)))
	}
	return t.base.RoundTrip(out)
}

func renameMaxTokens(raw []byte) ([]byte, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	budget, ok := payload["max_completion_tokens"]
	if !ok {
		return raw, nil
	}
	delete(payload, "max_completion_tokens")
	if _, set := payload["max_tokens"]; !set {
		payload["max_tokens"] = budget
	}
	return json.Marshal(payload)
}
