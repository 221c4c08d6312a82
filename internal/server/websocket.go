package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/landsraad/dune-server-go/internal/game"
	"go.uber.org/zap"
)

const (
	// sendBuffer is the per-client outbound queue; a client that falls
	// this far behind is dropped.
	sendBuffer = 256
	// queueBuffer sizes the hub-to-orchestrator channels drained each
	// tick.
	queueBuffer = 256
)

// wsClient is one connected websocket with its outbound queue.
type wsClient struct {
	id   game.PlayerID
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the websocket connections for one session and exposes them
// to the orchestrator as a Transport. Connection goroutines feed the
// queue channels; the orchestrator drains them on its own tick, so the
// game loop never blocks on the network.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[game.PlayerID]*wsClient

	joins   chan game.PlayerID
	leaves  chan game.PlayerID
	inbound chan InboundMessage
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[game.PlayerID]*wsClient),
		joins:   make(chan game.PlayerID, queueBuffer),
		leaves:  make(chan game.PlayerID, queueBuffer),
		inbound: make(chan InboundMessage, queueBuffer),
	}
}

// ServeWS upgrades an HTTP request to a session websocket. Each
// connection gets a fresh player id; identity is the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		id:   game.PlayerID(uuid.New().String()),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	h.joins <- client.id

	h.logger.Info("connection opened", zap.String("player", string(client.id)))

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) readPump(c *wsClient) {
	defer h.drop(c)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.inbound <- InboundMessage{Player: c.id, Data: message}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// drop removes a client and reports the departure to the orchestrator.
func (h *Hub) drop(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.mu.Unlock()

	c.conn.Close()
	h.leaves <- c.id
	h.logger.Info("connection closed", zap.String("player", string(c.id)))
}

// PollJoin implements Transport.
func (h *Hub) PollJoin() (game.PlayerID, bool) {
	select {
	case pid := <-h.joins:
		return pid, true
	default:
		return "", false
	}
}

// PollLeave implements Transport.
func (h *Hub) PollLeave() (game.PlayerID, bool) {
	select {
	case pid := <-h.leaves:
		return pid, true
	default:
		return "", false
	}
}

// PollInbound implements Transport.
func (h *Hub) PollInbound() (InboundMessage, bool) {
	select {
	case msg := <-h.inbound:
		return msg, true
	default:
		return InboundMessage{}, false
	}
}

// Broadcast implements Transport. A client whose queue is full is
// dropped rather than allowed to stall the stream; a gapped stream
// would diverge anyway.
func (h *Hub) Broadcast(raw []byte) {
	h.mu.Lock()
	var stalled []*wsClient
	for _, c := range h.clients {
		select {
		case c.send <- raw:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stalled {
		h.logger.Warn("dropping stalled client", zap.String("player", string(c.id)))
		h.drop(c)
	}
}
