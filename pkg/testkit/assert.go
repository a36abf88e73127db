package testkit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// AssertStatus checks the response code and prints the body on mismatch.
func AssertStatus(t testing.TB, want int, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	return assert.Equal(t, want, rec.Code, "status mismatch\nbody: %s", rec.Body.String())
}

// Envelope decodes the response envelope.
func Envelope(t testing.TB, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body is not an envelope: %s", rec.Body.String())
	return env
}

// Data decodes the envelope's data member into T.
func Data[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := Envelope(t, rec)
	require.NotEmpty(t, env.Data, "envelope has no data: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &out), "decode data")
	return out
}
