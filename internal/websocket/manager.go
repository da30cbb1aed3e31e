package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"trainvoc-updates/internal/logging"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

type Manager struct {
	clients        map[string]*Client
	deviceIndex    map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnPerUser int
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	messageHandler MessageHandler
	log            *logging.Logger
	done           chan struct{}
}

type MessageHandler interface {
	HandleWebSocketMessage(client *Client, msg *Message) error
}

func NewManager(maxConnPerUser int, writeWait, pongWait, pingPeriod time.Duration, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		clients:        make(map[string]*Client),
		deviceIndex:    make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnPerUser: maxConnPerUser,
		writeWait:      writeWait,
		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
		log:            log.With("websocket"),
		done:           make(chan struct{}),
	}
}

func (m *Manager) SetMessageHandler(handler MessageHandler) {
	m.messageHandler = handler
}

// Run serves registrations and inbound messages until ctx is done, then
// disconnects every client.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(clientMsg)

		case <-ctx.Done():
			m.closeAll()
			return nil
		}
	}
}

// Connect hands client to Run. It reports false once Run has returned, in
// which case the caller still owns the connection.
func (m *Manager) Connect(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.deviceIndex[client.DeviceID] == nil {
		m.deviceIndex[client.DeviceID] = make(map[string]bool)
	}

	if len(m.deviceIndex[client.DeviceID]) >= m.maxConnPerUser {
		m.log.Warn("max connections reached for device %s", client.DeviceID)
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.deviceIndex[client.DeviceID][client.ID] = true

	m.log.Info("client registered: %s (device: %s)", client.ID, client.DeviceID)
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		delete(m.deviceIndex[client.DeviceID], client.ID)

		if len(m.deviceIndex[client.DeviceID]) == 0 {
			delete(m.deviceIndex, client.DeviceID)
		}

		close(client.Send)
		m.log.Info("client unregistered: %s", client.ID)
	}
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		close(client.Send)
		delete(m.clients, id)
	}
	m.deviceIndex = make(map[string]map[string]bool)
}

// processMessage decodes on the Run loop and hands the message to the
// handler on its own goroutine, so a slow handler never stalls registration
// or other devices. Handlers reply through SendToClient.
func (m *Manager) processMessage(clientMsg *ClientMessage) {
	m.clientsMutex.RLock()
	_, registered := m.clients[clientMsg.Client.ID]
	m.clientsMutex.RUnlock()
	if !registered || m.messageHandler == nil {
		return
	}

	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		m.log.Warn("error unmarshaling message: %v", err)
		return
	}

	go m.dispatch(clientMsg.Client, &msg)
}

func (m *Manager) dispatch(client *Client, msg *Message) {
	if err := m.messageHandler.HandleWebSocketMessage(client, msg); err != nil {
		m.log.Error("error handling %s from %s: %v", msg.Type, client.ID, err)
	}
}

// Broadcast sends message to every connected client. Clients whose send
// buffer is full are disconnected.
func (m *Manager) Broadcast(message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var slow []*Client

	m.clientsMutex.RLock()
	for clientID, client := range m.clients {
		select {
		case client.Send <- messageBytes:
		default:
			m.log.Warn("client %s send buffer full, closing connection", clientID)
			slow = append(slow, client)
		}
	}
	m.clientsMutex.RUnlock()

	for _, client := range slow {
		go m.unregister(client)
	}

	return nil
}

// unregister hands client to Run, giving up once Run has returned.
func (m *Manager) unregister(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

// SendToClient queues message for one client without blocking. Messages for
// clients that are no longer registered are dropped.
func (m *Manager) SendToClient(clientID string, message *Message) error {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		m.log.Debug("dropping %s for disconnected client %s", message.Type, clientID)
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.Send <- messageBytes:
	default:
		m.log.Warn("client %s send buffer full", clientID)
	}

	return nil
}

func (m *Manager) DeviceConnections(deviceID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	if clients, exists := m.deviceIndex[deviceID]; exists {
		return len(clients)
	}
	return 0
}

func (m *Manager) ConnectionCount() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.clients)
}
