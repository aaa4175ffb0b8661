// Package transport serves GraphQL subscriptions over websockets, speaking
// both the legacy graphql-ws protocol and graphql-transport-ws.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"photo-share-api/internal/application"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Websocket subprotocols
const (
	ProtocolGraphQLWS          = "graphql-ws"
	ProtocolGraphQLTransportWS = "graphql-transport-ws"
)

// Message types shared by both protocols, or specific to one of them
const (
	msgConnectionInit      = "connection_init"
	msgConnectionAck       = "connection_ack"
	msgConnectionError     = "connection_error"
	msgConnectionTerminate = "connection_terminate"
	msgKeepAlive           = "ka"
	msgStart               = "start"
	msgStop                = "stop"
	msgData                = "data"
	msgSubscribe           = "subscribe"
	msgNext                = "next"
	msgError               = "error"
	msgComplete            = "complete"
	msgPing                = "ping"
	msgPong                = "pong"
)

// graphql-transport-ws close codes
const (
	closeBadRequest          = 4400
	closeUnauthorized        = 4401
	closeInitTimeout         = 4408
	closeSubscriberExists    = 4409
	closeTooManyInitRequests = 4429
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 32
)

// Subscriber runs a GraphQL operation and streams its responses;
// *graphql.Schema satisfies it
type Subscriber interface {
	Subscribe(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (<-chan interface{}, error)
}

// ContextBuilder resolves the connection's ExecContext from its credential
type ContextBuilder interface {
	Build(ctx context.Context, authorization string) (*application.ExecContext, error)
}

// Handler upgrades requests and serves GraphQL operations on the connection
type Handler struct {
	schema      Subscriber
	contexts    ContextBuilder
	upgrader    websocket.Upgrader
	keepAlive   time.Duration
	initTimeout time.Duration
	logger      zerolog.Logger
}

// NewHandler creates a websocket handler with default timings
func NewHandler(schema Subscriber, contexts ContextBuilder, logger zerolog.Logger) *Handler {
	return NewHandlerWithOptions(schema, contexts, 15*time.Second, 10*time.Second, logger)
}

// NewHandlerWithOptions creates a websocket handler sending graphql-ws keep-alives
// every keepAlive and dropping connections not initialised within initTimeout
func NewHandlerWithOptions(
	schema Subscriber,
	contexts ContextBuilder,
	keepAlive, initTimeout time.Duration,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		schema:   schema,
		contexts: contexts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{ProtocolGraphQLTransportWS, ProtocolGraphQLWS},
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		keepAlive:   keepAlive,
		initTimeout: initTimeout,
		logger:      logger,
	}
}

// IsUpgrade reports whether r asks for a websocket connection
func IsUpgrade(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}

type inboundMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outboundMessage struct {
	ID      string      `json:"id,omitempty"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`

	// closeCode, when set, makes the writer close the connection once the
	// message itself has been written
	closeCode   int
	closeReason string
}

type operationPayload struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	protocol := conn.Subprotocol()
	if protocol == "" {
		protocol = ProtocolGraphQLWS
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	c := &connection{
		id:       uuid.NewString(),
		handler:  h,
		conn:     conn,
		protocol: protocol,
		ctx:      ctx,
		cancel:   cancel,
		send:     make(chan outboundMessage, sendBuffer),
		ops:      make(map[string]context.CancelFunc),
	}
	c.logger = h.logger.With().Str("connectionID", c.id).Str("protocol", protocol).Logger()
	c.logger.Debug().Msg("Websocket connection opened")

	go c.writePump()
	c.readPump()
}

type connection struct {
	id       string
	handler  *Handler
	conn     *websocket.Conn
	protocol string
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	send   chan outboundMessage

	mu          sync.Mutex
	ops         map[string]context.CancelFunc
	ec          *application.ExecContext
	initialised bool
}

func (c *connection) readPump() {
	defer func() {
		c.cancel()
		c.conn.Close()
		c.logger.Debug().Msg("Websocket connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if c.handler.initTimeout > 0 {
		timer := time.AfterFunc(c.handler.initTimeout, func() {
			if !c.isInitialised() {
				c.closeWith(closeInitTimeout, "Connection initialisation timeout")
			}
		})
		defer timer.Stop()
	}

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug().Err(err).Msg("Websocket read failed")
			}
			if _, ok := err.(*json.SyntaxError); ok {
				c.closeWith(closeBadRequest, "Invalid message received")
			}
			return
		}

		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if !c.handle(msg) {
			return
		}
	}
}

// handle processes one inbound message and reports whether to keep reading
func (c *connection) handle(msg inboundMessage) bool {
	switch msg.Type {
	case msgConnectionInit:
		return c.init(msg.Payload)

	case msgStart, msgSubscribe:
		return c.start(msg)

	case msgStop, msgComplete:
		c.stop(msg.ID)
		return true

	case msgPing:
		c.write(outboundMessage{Type: msgPong, Payload: rawOrNil(msg.Payload)})
		return true

	case msgPong:
		return true

	case msgConnectionTerminate:
		return false

	default:
		if c.protocol == ProtocolGraphQLTransportWS {
			c.closeWith(closeBadRequest, "Invalid message type "+msg.Type)
			return false
		}
		c.write(outboundMessage{ID: msg.ID, Type: msgError, Payload: errorPayload{Message: "unknown message type " + msg.Type}})
		return true
	}
}

func (c *connection) init(payload json.RawMessage) bool {
	if c.isInitialised() {
		if c.protocol == ProtocolGraphQLTransportWS {
			c.closeWith(closeTooManyInitRequests, "Too many initialisation requests")
			return false
		}
		c.write(outboundMessage{Type: msgConnectionAck})
		return true
	}

	ec, err := c.handler.contexts.Build(c.ctx, authorization(payload))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build connection context")
		if c.protocol == ProtocolGraphQLTransportWS {
			c.closeWith(closeUnauthorized, "Unable to resolve credentials")
			return false
		}
		c.write(outboundMessage{
			Type:        msgConnectionError,
			Payload:     errorPayload{Message: err.Error()},
			closeCode:   closeUnauthorized,
			closeReason: "Unable to resolve credentials",
		})
		return true
	}

	c.mu.Lock()
	c.ec = ec
	c.initialised = true
	c.mu.Unlock()

	c.write(outboundMessage{Type: msgConnectionAck})
	if c.protocol == ProtocolGraphQLWS {
		c.write(outboundMessage{Type: msgKeepAlive})
	}
	return true
}

func (c *connection) start(msg inboundMessage) bool {
	c.mu.Lock()
	initialised, ec := c.initialised, c.ec
	_, exists := c.ops[msg.ID]
	c.mu.Unlock()

	transportWS := c.protocol == ProtocolGraphQLTransportWS

	if !initialised {
		if transportWS {
			c.closeWith(closeUnauthorized, "Unauthorized")
			return false
		}
		c.write(outboundMessage{ID: msg.ID, Type: msgError, Payload: errorPayload{Message: "connection not initialised"}})
		return true
	}
	if msg.ID == "" {
		if transportWS {
			c.closeWith(closeBadRequest, "Operation id is required")
			return false
		}
		c.write(outboundMessage{Type: msgError, Payload: errorPayload{Message: "operation id is required"}})
		return true
	}
	if exists {
		if transportWS {
			c.closeWith(closeSubscriberExists, "Subscriber for "+msg.ID+" already exists")
			return false
		}
		c.stop(msg.ID)
	}

	var op operationPayload
	if err := json.Unmarshal(msg.Payload, &op); err != nil || op.Query == "" {
		if transportWS {
			c.closeWith(closeBadRequest, "Invalid subscribe payload")
			return false
		}
		c.write(outboundMessage{ID: msg.ID, Type: msgError, Payload: errorPayload{Message: "invalid operation payload"}})
		return true
	}

	opCtx, opCancel := context.WithCancel(application.WithExecContext(c.ctx, ec))
	responses, err := c.handler.schema.Subscribe(opCtx, op.Query, op.OperationName, op.Variables)
	if err != nil {
		opCancel()
		c.write(outboundMessage{ID: msg.ID, Type: msgError, Payload: []errorPayload{{Message: err.Error()}}})
		return true
	}

	c.mu.Lock()
	c.ops[msg.ID] = opCancel
	c.mu.Unlock()

	dataType := msgData
	if transportWS {
		dataType = msgNext
	}

	go func() {
		defer c.finish(msg.ID, opCancel)
		for resp := range responses {
			c.write(outboundMessage{ID: msg.ID, Type: dataType, Payload: resp})
		}
		if opCtx.Err() == nil {
			c.write(outboundMessage{ID: msg.ID, Type: msgComplete})
		}
	}()

	return true
}

func (c *connection) stop(id string) {
	c.mu.Lock()
	cancel, ok := c.ops[id]
	delete(c.ops, id)
	c.mu.Unlock()

	if ok {
		cancel()
	}
}

func (c *connection) finish(id string, cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ops, id)
}

func (c *connection) isInitialised() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialised
}

// write queues msg for the writer unless the connection is closing
func (c *connection) write(msg outboundMessage) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *connection) closeWith(code int, reason string) {
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.cancel()
	c.conn.Close()
}

func (c *connection) writePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	var keepAlive <-chan time.Time
	if c.protocol == ProtocolGraphQLWS && c.handler.keepAlive > 0 {
		ticker := time.NewTicker(c.handler.keepAlive)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug().Err(err).Str("type", msg.Type).Msg("Websocket write failed")
				c.cancel()
				return
			}
			if msg.closeCode != 0 {
				c.closeWith(msg.closeCode, msg.closeReason)
				return
			}

		case <-keepAlive:
			if !c.isInitialised() {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(outboundMessage{Type: msgKeepAlive}); err != nil {
				c.cancel()
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// authorization reads the credential from a connection_init payload
func authorization(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"Authorization", "authorization", "authToken", "token"} {
		if v, ok := fields[key].(string); ok && v != "" {
			return v
		}
	}
	if headers, ok := fields["headers"].(map[string]interface{}); ok {
		if v, ok := headers["Authorization"].(string); ok {
			return v
		}
	}
	return ""
}

func rawOrNil(payload json.RawMessage) interface{} {
	if len(payload) == 0 {
		return nil
	}
	return payload
}
