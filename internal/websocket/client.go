package websocket

import (
	"time"

	"trainvoc-updates/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	maxInboundMessageSize = 4096
	sendBufferSize        = 64
)

// Client is one device socket. Send is owned by the Manager: it is closed
// when the client is unregistered, so other code queues frames through
// Reply or SendUpdateNotes instead of writing to it directly.
type Client struct {
	ID       string
	DeviceID string
	Conn     *websocket.Conn
	Manager  *Manager
	Send     chan []byte
}

func NewClient(id, deviceID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:       id,
		DeviceID: deviceID,
		Conn:     conn,
		Manager:  manager,
		Send:     make(chan []byte, sendBufferSize),
	}
}

// Reply queues a message of msgType for this device only.
func (c *Client) Reply(msgType MessageType, payload interface{}) error {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	return c.Manager.SendToClient(c.ID, msg)
}

// SendUpdateNotes pushes notes to this device, in the same frame shape the
// Manager broadcasts when a new version is published.
func (c *Client) SendUpdateNotes(notes *domain.UpdateNotes) error {
	return c.Reply(TypeUpdateNotes, &UpdateNotesPayload{Notes: notes})
}

// ReadPump forwards inbound frames to the Manager until the socket fails or
// the Manager stops.
func (c *Client) ReadPump() {
	defer func() {
		c.Manager.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundMessageSize)
	c.extendReadDeadline()
	c.Conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.log.Warn("read from %s (device %s): %v", c.ID, c.DeviceID, err)
			}
			return
		}

		if !c.forward(message) {
			return
		}
	}
}

func (c *Client) forward(message []byte) bool {
	select {
	case c.Manager.HandleMessage <- &ClientMessage{Client: c, Message: message}:
		return true
	case <-c.Manager.done:
		return false
	}
}

func (c *Client) extendReadDeadline() {
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.pongWait))
}

// WritePump drains Send onto the socket and keeps it alive with pings. A
// closed Send ends the connection with a close frame.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Manager.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeQueued(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeQueued writes first plus whatever is already buffered as one
// newline-separated text frame.
func (c *Client) writeQueued(first []byte) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)

	for n := len(c.Send); n > 0; n-- {
		w.Write([]byte{'\n'})
		w.Write(<-c.Send)
	}

	return w.Close()
}
