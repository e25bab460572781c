package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/plazahq/plaza/internal/room"
)

const writeTimeout = 10 * time.Second

// client couples one websocket connection with its session and outbound
// event queue. It satisfies room.Channel so the controller can force the
// connection closed during room teardown.
type client struct {
	conn   *websocket.Conn
	sess   *room.Session
	ctrl   *room.Controller
	queue  *queue
	logger *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, sess *room.Session, ctrl *room.Controller, bufferSize int, logger *zap.Logger) *client {
	return &client{
		conn: conn,
		sess: sess,
		ctrl: ctrl,
		queue: newQueue(bufferSize),
		logger: logger.With(
			zap.String("participant", sess.Participant.ID),
		),
		done: make(chan struct{}),
	}
}

// Close stops outbound delivery. Buffered events — including a pending
// roomClosing — drain to the socket before the connection closes.
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.queue.close()
	})
	return nil
}

// send pushes a framed event onto this client's queue only.
func (c *client) send(eventType string, payload any) {
	data, err := encode(eventType, payload)
	if err != nil {
		c.logger.Warn("encoding event", zap.String("event", eventType), zap.Error(err))
		return
	}
	if err := c.queue.push(data); err != nil {
		c.logger.Warn("dropping event", zap.String("event", eventType), zap.Error(err))
	}
}

// writePump drains the queue to the socket until the queue closes, then
// sends a close frame and closes the connection.
func (c *client) writePump() {
	defer func() {
		deadline := time.Now().Add(writeTimeout)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.conn.Close()
		close(c.done)
	}()

	for data := range c.queue.channel() {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.Debug("writing to socket", zap.Error(err))
			return
		}
	}
}

// readPump dispatches inbound events into controller operations until the
// client disconnects or the connection fails.
func (c *client) readPump() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("reading from socket", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("discarding malformed event", zap.Error(err))
			continue
		}

		switch env.Type {
		case EventMove:
			var p MovePayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				c.logger.Warn("discarding malformed move", zap.Error(err))
				continue
			}
			c.ctrl.UpdatePosition(c.sess.Participant, p.Location)
		case EventDisconnect:
			return
		default:
			c.logger.Warn("discarding unknown event", zap.String("event", env.Type))
		}
	}
}
