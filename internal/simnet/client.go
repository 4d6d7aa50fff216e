package simnet

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openrange/backend/internal/physics"
)

// Client forwards shots to external simulator software over a WebSocket.
// Forwarding is fire-and-forget: a dead simulator connection never fails a
// shot request, messages are dropped with a log line instead.
type Client struct {
	url  string
	send chan []byte
}

// NewClient returns a forwarding client, or nil when no simulator URL is
// configured. All methods are safe on a nil receiver.
func NewClient(url string) *Client {
	if url == "" {
		return nil
	}
	return &Client{
		url:  url,
		send: make(chan []byte, 64),
	}
}

// Start runs the dial/write loop until the context is cancelled, redialing
// with backoff after failures.
func (c *Client) Start(ctx context.Context) {
	if c == nil {
		return
	}
	go c.run(ctx)
}

func (c *Client) run(ctx context.Context) {
	backoff := time.Second
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			log.Printf("[SIMNET] Dial %s failed: %v (retrying in %s)", c.url, err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		log.Printf("[SIMNET] Connected to simulator at %s", c.url)
		backoff = time.Second

		if err := c.writeLoop(ctx, conn); err != nil {
			log.Printf("[SIMNET] Connection lost: %v", err)
		}
		conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, []byte{})
			return nil
		case message := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (c *Client) enqueue(msgType string, payload interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"type": msgType,
		"data": payload,
	})
	if err != nil {
		log.Printf("[SIMNET] Marshal error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[SIMNET] Send buffer full, dropping %s message", msgType)
	}
}

// ForwardResult sends a simulated shot result to the simulator.
func (c *Client) ForwardResult(bay string, launch physics.LaunchData, result *physics.ShotResult) {
	c.enqueue("shot_result", map[string]interface{}{
		"bay":     bay,
		"launch":  launch,
		"summary": result.Summary,
	})
}

// ForwardMeasurement sends the raw flight measurement without invoking the
// physics engine, for simulators that run their own flight model.
func (c *Client) ForwardMeasurement(bay string, fields map[string]string) {
	c.enqueue("flight_measurement", map[string]interface{}{
		"bay":    bay,
		"fields": fields,
	})
}
