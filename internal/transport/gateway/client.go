package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"tradewright/internal/protocol"
)

// Handler receives every delivered chat message, in arrival order.
type Handler func(protocol.Message)

// Client is the connection to the chat gateway: it dials, handshakes, decodes
// inbound MESSAGE frames and fans them out to handlers, and serializes
// outbound SEND frames through a writer goroutine.
type Client struct {
	url        string
	clientName string
	token      string
	log        *log.Logger

	conn     *websocket.Conn
	out      chan protocol.SendFrame
	handlers []Handler

	// Optional strict mode: inbound MESSAGE frames failing the schema are
	// dropped instead of parsed best-effort.
	schema *jsonschema.Schema

	selfID   int64
	selfName string
}

func New(url, clientName, token string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		url:        url,
		clientName: clientName,
		token:      token,
		log:        logger,
		out:        make(chan protocol.SendFrame, 64),
	}
}

// OnMessage registers a handler. Register everything before Run.
func (c *Client) OnMessage(h Handler) { c.handlers = append(c.handlers, h) }

// SetFrameSchema enables schema validation of inbound MESSAGE frames.
func (c *Client) SetFrameSchema(s *jsonschema.Schema) { c.schema = s }

func (c *Client) SelfID() int64    { return c.selfID }
func (c *Client) SelfName() string { return c.selfName }

// Dial connects and completes the HELLO/WELCOME handshake.
func (c *Client) Dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	hello := protocol.HelloFrame{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      c.clientName,
	}
	if c.token != "" {
		hello.Auth = &protocol.Auth{Token: c.token}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("send HELLO: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("read WELCOME: %w", err)
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeWelcome {
		_ = conn.Close()
		return fmt.Errorf("expected WELCOME, got %q", base.Type)
	}
	var welcome protocol.WelcomeFrame
	if err := json.Unmarshal(msg, &welcome); err != nil {
		_ = conn.Close()
		return fmt.Errorf("decode WELCOME: %w", err)
	}

	c.conn = conn
	c.selfID = welcome.SelfID
	c.selfName = welcome.SelfName
	c.log.Printf("connected self_id=%d session=%s", welcome.SelfID, welcome.SessionID)
	return nil
}

// Run pumps the connection until ctx is cancelled or the socket drops.
func (c *Client) Run(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	defer c.conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Writer goroutine owns all writes after the handshake.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case f := <-c.out:
				_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := c.conn.WriteJSON(f); err != nil {
					c.log.Printf("write: %v", err)
					cancel()
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeMessage {
			continue
		}
		if c.schema != nil {
			var v any
			if err := json.Unmarshal(msg, &v); err != nil {
				continue
			}
			if err := c.schema.Validate(v); err != nil {
				c.log.Printf("frame rejected by schema: %v", err)
				continue
			}
		}
		var frame protocol.MessageFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		for _, h := range c.handlers {
			h(frame.Message)
		}
	}
}

// Send queues plain text for one channel. Fails rather than blocks when the
// writer is saturated; dropped notifications are recoverable (the engine's
// protocol is confirmation-driven, not send-driven).
func (c *Client) Send(channelID int64, text string) error {
	f := protocol.SendFrame{
		Type:            protocol.TypeSend,
		ProtocolVersion: protocol.Version,
		ChannelID:       channelID,
		Text:            text,
	}
	select {
	case c.out <- f:
		return nil
	default:
		return fmt.Errorf("send queue full (channel=%d)", channelID)
	}
}
