// ABOUTME: Tests for the authenticated transport including error classification.
// ABOUTME: Uses httptest backends to verify headers, bodies, and the taxonomy split.

package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAttachesAuthHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", nil)
	_, err := client.RequestText(context.Background(), http.MethodGet, "/mcp/getMcpData/param", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestRequestTextReturnsBodyVerbatim(t *testing.T) {
	// Deliberately not JSON: the text path applies no parsing at all.
	const body = "plain text, not json  \n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	got, err := client.RequestText(context.Background(), http.MethodGet, "/anything", nil)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestRequestSerializesBodyAsJSON(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	payload := map[string]any{"device_id": "d1", "value": true}
	_, err := client.RequestJSON(context.Background(), http.MethodPost, "/mcp/sendOperate", payload)
	require.NoError(t, err)

	assert.JSONEq(t, `{"device_id":"d1","value":true}`, string(gotBody))
}

func TestNonSuccessStatusYieldsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	_, err := client.RequestJSON(context.Background(), http.MethodGet, "/x", nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusBadGateway, transportErr.Status)
	assert.Equal(t, "upstream exploded", transportErr.Body)
}

func TestMalformedJSONBodyYieldsMalformedResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>definitely not json</html>")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	_, err := client.RequestJSON(context.Background(), http.MethodGet, "/x", nil)
	require.Error(t, err)

	var malformedErr *MalformedResponseError
	assert.True(t, errors.As(err, &malformedErr), "want MalformedResponseError, got %T: %v", err, err)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr), "must not be classified as TransportError")
}

func TestRequestJSONPreservesBodyBytes(t *testing.T) {
	// Key order and whitespace must survive: the gateway returns backend
	// responses unmodified.
	const body = `{"zeta": 1, "alpha": [true , null]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	got, err := client.RequestJSON(context.Background(), http.MethodGet, "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestRequestFailsWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately: connection refused

	client := NewClient(srv.URL, "tok", nil)
	_, err := client.RequestText(context.Background(), http.MethodGet, "/x", nil)
	require.Error(t, err)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr), "network failure is not a TransportError")
}
