package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"photo-share-api/internal/application"
	"photo-share-api/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContexts struct {
	fail bool
}

func (f fakeContexts) Build(ctx context.Context, authorization string) (*application.ExecContext, error) {
	if f.fail {
		return nil, domain.ErrStoreUnavailable
	}
	ec := &application.ExecContext{}
	if token := application.BearerToken(authorization); token != "" {
		ec.CurrentUser = &domain.User{GithubLogin: "user-" + token, GithubToken: token}
	}
	return ec, nil
}

// fakeSchema hands every subscription a channel the test can push into
type fakeSchema struct {
	mu      sync.Mutex
	streams []chan interface{}
	users   []*domain.User
	ctxs    []context.Context
}

func (s *fakeSchema) Subscribe(ctx context.Context, query, operationName string, variables map[string]interface{}) (<-chan interface{}, error) {
	if strings.Contains(query, "broken") {
		return nil, errors.New("syntax error")
	}

	ch := make(chan interface{})
	s.mu.Lock()
	s.streams = append(s.streams, ch)
	s.ctxs = append(s.ctxs, ctx)
	var user *domain.User
	if ec := application.ExecContextFrom(ctx); ec != nil {
		user = ec.CurrentUser
	}
	s.users = append(s.users, user)
	s.mu.Unlock()
	return ch, nil
}

func (s *fakeSchema) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}

func (s *fakeSchema) stream(i int) (chan interface{}, context.Context, *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams[i], s.ctxs[i], s.users[i]
}

func newServer(t *testing.T, schema Subscriber, contexts ContextBuilder) *httptest.Server {
	t.Helper()
	h := NewHandlerWithOptions(schema, contexts, time.Hour, time.Hour, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, protocol string) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{Subprotocols: []string{protocol}}
	conn, res, err := dialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Equal(t, protocol, res.Header.Get("Sec-Websocket-Protocol"))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

type received struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func expectClose(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, code, closeErr.Code)
}

func TestGraphQLTransportWS(t *testing.T) {
	schema := &fakeSchema{}
	srv := newServer(t, schema, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLTransportWS)

	send(t, conn, map[string]interface{}{"type": "connection_init", "payload": map[string]interface{}{"Authorization": "Bearer abc"}})
	assert.Equal(t, "connection_ack", receive(t, conn).Type)

	send(t, conn, map[string]interface{}{"type": "ping"})
	assert.Equal(t, "pong", receive(t, conn).Type)

	send(t, conn, map[string]interface{}{
		"id":      "1",
		"type":    "subscribe",
		"payload": map[string]interface{}{"query": "subscription { newPhoto { name } }"},
	})
	require.Eventually(t, func() bool { return schema.count() == 1 }, time.Second, 10*time.Millisecond)

	stream, opCtx, user := schema.stream(0)
	require.NotNil(t, user)
	assert.Equal(t, "user-abc", user.GithubLogin)

	stream <- map[string]interface{}{"data": map[string]interface{}{"newPhoto": map[string]interface{}{"name": "Sunset"}}}
	msg := receive(t, conn)
	assert.Equal(t, "next", msg.Type)
	assert.Equal(t, "1", msg.ID)
	assert.JSONEq(t, `{"data": {"newPhoto": {"name": "Sunset"}}}`, string(msg.Payload))

	send(t, conn, map[string]interface{}{"id": "1", "type": "complete"})
	select {
	case <-opCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("operation was not cancelled")
	}
}

func TestGraphQLTransportWSRejectsSubscribeBeforeInit(t *testing.T) {
	srv := newServer(t, &fakeSchema{}, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLTransportWS)

	send(t, conn, map[string]interface{}{
		"id":      "1",
		"type":    "subscribe",
		"payload": map[string]interface{}{"query": "subscription { newUser { name } }"},
	})
	expectClose(t, conn, closeUnauthorized)
}

func TestGraphQLTransportWSDuplicateInit(t *testing.T) {
	srv := newServer(t, &fakeSchema{}, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLTransportWS)

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	assert.Equal(t, "connection_ack", receive(t, conn).Type)

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	expectClose(t, conn, closeTooManyInitRequests)
}

func TestGraphQLTransportWSDuplicateOperation(t *testing.T) {
	schema := &fakeSchema{}
	srv := newServer(t, schema, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLTransportWS)

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	assert.Equal(t, "connection_ack", receive(t, conn).Type)

	subscribe := map[string]interface{}{
		"id":      "dup",
		"type":    "subscribe",
		"payload": map[string]interface{}{"query": "subscription { newUser { name } }"},
	}
	send(t, conn, subscribe)
	require.Eventually(t, func() bool { return schema.count() == 1 }, time.Second, 10*time.Millisecond)

	send(t, conn, subscribe)
	expectClose(t, conn, closeSubscriberExists)
}

func TestGraphQLTransportWSContextFailure(t *testing.T) {
	srv := newServer(t, &fakeSchema{}, fakeContexts{fail: true})
	conn := dial(t, srv, ProtocolGraphQLTransportWS)

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	expectClose(t, conn, closeUnauthorized)
}

func TestGraphQLWS(t *testing.T) {
	schema := &fakeSchema{}
	srv := newServer(t, schema, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLWS)

	send(t, conn, map[string]interface{}{"type": "connection_init", "payload": map[string]interface{}{"authToken": "xyz"}})
	assert.Equal(t, "connection_ack", receive(t, conn).Type)
	assert.Equal(t, "ka", receive(t, conn).Type)

	send(t, conn, map[string]interface{}{
		"id":      "7",
		"type":    "start",
		"payload": map[string]interface{}{"query": "subscription { newUser { githubLogin } }"},
	})
	require.Eventually(t, func() bool { return schema.count() == 1 }, time.Second, 10*time.Millisecond)

	stream, _, user := schema.stream(0)
	require.NotNil(t, user)
	assert.Equal(t, "user-xyz", user.GithubLogin)

	stream <- map[string]interface{}{"data": map[string]interface{}{"newUser": map[string]interface{}{"githubLogin": "octocat"}}}
	msg := receive(t, conn)
	assert.Equal(t, "data", msg.Type)
	assert.Equal(t, "7", msg.ID)

	// the stream ending on its own completes the operation
	close(stream)
	msg = receive(t, conn)
	assert.Equal(t, "complete", msg.Type)
	assert.Equal(t, "7", msg.ID)
}

func TestGraphQLWSErrors(t *testing.T) {
	srv := newServer(t, &fakeSchema{}, fakeContexts{})
	conn := dial(t, srv, ProtocolGraphQLWS)

	send(t, conn, map[string]interface{}{"id": "1", "type": "start", "payload": map[string]interface{}{"query": "subscription { newUser { name } }"}})
	msg := receive(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, string(msg.Payload), "connection not initialised")

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	assert.Equal(t, "connection_ack", receive(t, conn).Type)
	assert.Equal(t, "ka", receive(t, conn).Type)

	send(t, conn, map[string]interface{}{"id": "2", "type": "start", "payload": map[string]interface{}{"query": "broken"}})
	msg = receive(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "2", msg.ID)
	assert.Contains(t, string(msg.Payload), "syntax error")

	send(t, conn, map[string]interface{}{"id": "3", "type": "bogus"})
	msg = receive(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, string(msg.Payload), "unknown message type bogus")
}

func TestGraphQLWSContextFailure(t *testing.T) {
	srv := newServer(t, &fakeSchema{}, fakeContexts{fail: true})
	conn := dial(t, srv, ProtocolGraphQLWS)

	send(t, conn, map[string]interface{}{"type": "connection_init"})
	msg := receive(t, conn)
	assert.Equal(t, "connection_error", msg.Type)
	assert.NotEmpty(t, msg.Payload)
	expectClose(t, conn, closeUnauthorized)
}

func TestAuthorizationFromInitPayload(t *testing.T) {
	tests := []struct {
		payload string
		want    string
	}{
		{payload: ``, want: ""},
		{payload: `not json`, want: ""},
		{payload: `{"Authorization": "Bearer a"}`, want: "Bearer a"},
		{payload: `{"authorization": "b"}`, want: "b"},
		{payload: `{"authToken": "c"}`, want: "c"},
		{payload: `{"token": "d"}`, want: "d"},
		{payload: `{"headers": {"Authorization": "Bearer e"}}`, want: "Bearer e"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, authorization(json.RawMessage(tt.payload)), "payload %q", tt.payload)
	}
}

func TestIsUpgrade(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	assert.False(t, IsUpgrade(r))

	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	assert.True(t, IsUpgrade(r))
}
