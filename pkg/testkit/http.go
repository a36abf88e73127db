package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Call describes one request sent through Request.
type Call struct {
	Method string
	Path   string
	// Body is JSON-encoded unless it is already a []byte or io.Reader.
	Body    interface{}
	Token   string
	Headers map[string]string
}

// Request drives h with c and returns the recorded response.
//
//	rec := testkit.Request(t, handler, testkit.Call{
//	    Method: http.MethodPost,
//	    Path:   "/api/admin/categories",
//	    Body:   map[string]any{"name": "POS Systems"},
//	    Token:  token,
//	})
func Request(t testing.TB, h http.Handler, c Call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := c.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	case io.Reader:
		body = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "encode request body")
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(c.Method, c.Path, body)
	if body != nil && c.Headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Get is Request with GET and no body.
func Get(t testing.TB, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	return Request(t, h, Call{Method: http.MethodGet, Path: path, Token: token})
}
