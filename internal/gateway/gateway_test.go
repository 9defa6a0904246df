// ABOUTME: End-to-end tests for the gateway facade against an httptest backend.
// ABOUTME: Covers the read path, the write path, and fail-fast validation.

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthlabs/hearth-gateway/internal/backend"
	"github.com/hearthlabs/hearth-gateway/internal/command"
)

// fakeBackend simulates the three Hearth cloud endpoints and records traffic.
type fakeBackend struct {
	paramCalls   atomic.Int32
	listCalls    atomic.Int32
	operateCalls atomic.Int32

	listBody    string
	operateBody string
	lastOperate []byte
	lastQuery   string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		listBody:    `{"code":200,"data":{"devices":[],"groups":[],"scenes":[]}}`,
		operateBody: `{"code":200,"data":[{"result":"ok"}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(backend.ParamPath, func(w http.ResponseWriter, r *http.Request) {
		fb.paramCalls.Add(1)
		io.WriteString(w, `{"code":200,"data":{"userId":"u1","homeId":"h1"}}`)
	})
	mux.HandleFunc(backend.ListPath, func(w http.ResponseWriter, r *http.Request) {
		fb.listCalls.Add(1)
		fb.lastQuery = r.URL.RawQuery
		io.WriteString(w, fb.listBody)
	})
	mux.HandleFunc(backend.OperatePath, func(w http.ResponseWriter, r *http.Request) {
		fb.operateCalls.Add(1)
		fb.lastOperate, _ = io.ReadAll(r.Body)
		io.WriteString(w, fb.operateBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func newTestGateway(t *testing.T, srv *httptest.Server, validator command.Validator) *Gateway {
	t.Helper()
	client := backend.NewClient(srv.URL, "tok", nil)
	gw, err := New(Config{
		Client:    client,
		Sessions:  backend.NewSessionResolver(client, nil),
		Validator: validator,
	})
	require.NoError(t, err)
	return gw
}

func TestListControllable(t *testing.T) {
	fb, srv := newFakeBackend(t)
	gw := newTestGateway(t, srv, command.Validator{})

	body, err := gw.ListControllable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fb.listBody, body, "backend response must come back verbatim")
	assert.Equal(t, "homeId=h1&userId=u1", fb.lastQuery)
	assert.Equal(t, int32(1), fb.paramCalls.Load())
}

func TestListControllableResolvesSessionOnce(t *testing.T) {
	fb, srv := newFakeBackend(t)
	gw := newTestGateway(t, srv, command.Validator{})

	for i := 0; i < 3; i++ {
		_, err := gw.ListControllable(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), fb.paramCalls.Load(), "session descriptor is memoized")
	assert.Equal(t, int32(3), fb.listCalls.Load())
}

func TestSubmitControlPostsExactBatch(t *testing.T) {
	fb, srv := newFakeBackend(t)
	gw := newTestGateway(t, srv, command.Validator{})

	payload := `[{"device_id":"d1","property":"switch","value":true,"ext_data":{}}]`
	resp, err := gw.SubmitControl(context.Background(), json.RawMessage(payload))
	require.NoError(t, err)

	assert.Equal(t, payload, string(fb.lastOperate), "POST body must be the exact validated array")
	assert.Equal(t, fb.operateBody, resp, "backend response returned unmodified")
}

func TestSubmitControlInvalidBatchNeverReachesBackend(t *testing.T) {
	fb, srv := newFakeBackend(t)
	gw := newTestGateway(t, srv, command.Validator{})

	payload := `[{"device_id":"d1","scene_id":"s1","ext_data":{}}]`
	_, err := gw.SubmitControl(context.Background(), json.RawMessage(payload))
	require.Error(t, err)

	var violation *command.SchemaViolation
	assert.True(t, errors.As(err, &violation))
	assert.Equal(t, int32(0), fb.operateCalls.Load(), "invalid batch must fail before any network call")
	assert.Equal(t, int32(0), fb.paramCalls.Load())
}

func TestSubmitControlStrictDelayMode(t *testing.T) {
	fb, srv := newFakeBackend(t)
	gw := newTestGateway(t, srv, command.Validator{StrictDelay: true})

	payload := `[{"device_id":"d1","property":"switch","value":true,"ext_data":{"delayEnabled":true}}]`
	_, err := gw.SubmitControl(context.Background(), json.RawMessage(payload))
	require.Error(t, err)
	assert.Equal(t, int32(0), fb.operateCalls.Load())
}

func TestSubmitControlMalformedBackendResponse(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.operateBody = "oops not json"
	gw := newTestGateway(t, srv, command.Validator{})

	payload := `[{"scene_id":"s1","ext_data":{}}]`
	_, err := gw.SubmitControl(context.Background(), json.RawMessage(payload))
	require.Error(t, err)

	var malformed *backend.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestListControllablePropagatesSessionFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(backend.ParamPath, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":500,"data":{}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := newTestGateway(t, srv, command.Validator{})
	_, err := gw.ListControllable(context.Background())
	require.Error(t, err)

	var logicErr *backend.ConfigLogicError
	assert.True(t, errors.As(err, &logicErr))
}
