package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"

	"github.com/openalpha/supercluster/app"
)

// Channels a client may subscribe to
const (
	ChannelVault       = "vault"
	ChannelWithdrawals = "withdrawals"
	ChannelAll         = "events"

	// AccountChannelPrefix is followed by an address
	AccountChannelPrefix = "account:"
)

// attribute keys whose values name an account
var accountKeys = []string{"depositor", "owner", "requester", "from", "to", "spender", "recipient", "caller"}

// event type prefixes routed to the vault channel
var vaultPrefixes = []string{"supercluster_", "stoken_rebase", "stoken_mint", "stoken_burn", "pilot_", "yieldsource_"}

// Observer receives hub activity, typically the metrics collector
type Observer interface {
	RecordWSConnection(delta int)
	RecordWSMessage(channel string)
}

// Hub maintains the set of active clients and fans committed events out to
// the channels they subscribed to
type Hub struct {
	// Registered clients
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients
	perIP    map[string]int

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	config   *HubConfig
	observer Observer
	logger   log.Logger
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int

	// AllowedOrigins for the upgrade; empty or "*" allows any
	AllowedOrigins []string
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
}

// NewHub creates a new Hub. observer may be nil.
func NewHub(config *HubConfig, observer Observer, logger log.Logger) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		perIP:       make(map[string]int),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		done:        make(chan struct{}),
		config:      config,
		observer:    observer,
		logger:      logger.With("module", "websocket"),
	}
}

// Run serves registrations and subscriptions until ctx is done, then
// disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.perIP[client.ip]++
	if h.observer != nil {
		h.observer.RecordWSConnection(1)
	}
	h.logger.Debug("client connected", "client_id", client.id, "ip", client.ip)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	h.removeFromChannels(client)
	if h.perIP[client.ip]--; h.perIP[client.ip] <= 0 {
		delete(h.perIP, client.ip)
	}
	client.close()
	if h.observer != nil {
		h.observer.RecordWSConnection(-1)
	}
	h.logger.Debug("client disconnected", "client_id", client.id)
}

func (h *Hub) removeFromChannels(client *Client) {
	for channel, clients := range h.channels {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		client.close()
		if h.observer != nil {
			h.observer.RecordWSConnection(-1)
		}
	}
	h.channels = make(map[string]map[*Client]bool)
	h.perIP = make(map[string]int)
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[req.Client] {
		return
	}
	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true
	req.Client.Send(encode(&WSMessage{Type: "subscribed", Channel: req.Channel}))
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[req.Client] {
		return
	}
	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}
	req.Client.Send(encode(&WSMessage{Type: "unsubscribed", Channel: req.Channel}))
}

// OnEvents broadcasts each committed event to every channel it belongs to
func (h *Hub) OnEvents(events []app.Event) {
	for _, ev := range events {
		for _, channel := range ChannelsFor(ev) {
			h.BroadcastToChannel(channel, &EventMessage{
				Channel:    channel,
				Type:       ev.Type,
				Attributes: ev.Attributes,
				Height:     ev.Height,
				Time:       ev.Time,
			})
		}
	}
}

// ChannelsFor returns the channels an event is delivered on
func ChannelsFor(ev app.Event) []string {
	channels := []string{ChannelAll}
	if strings.HasPrefix(ev.Type, "withdraw_") || ev.Type == "supercluster_withdraw" {
		channels = append(channels, ChannelWithdrawals)
	}
	for _, prefix := range vaultPrefixes {
		if strings.HasPrefix(ev.Type, prefix) {
			channels = append(channels, ChannelVault)
			break
		}
	}
	seen := make(map[string]bool)
	for _, key := range accountKeys {
		addr := ev.Attributes[key]
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		channels = append(channels, AccountChannelPrefix+addr)
	}
	return channels
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the subscribers so sends happen without the lock
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		client.Send(data)
	}
	if h.observer != nil {
		h.observer.RecordWSMessage(channel)
	}
}

// ============ Message Types ============

// WSMessage is a control message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// EventMessage carries one committed event
type EventMessage struct {
	Channel    string            `json:"channel"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	Height     int64             `json:"height"`
	Time       time.Time         `json:"time"`
}

func encode(msg interface{}) []byte {
	data, _ := json.Marshal(msg)
	return data
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	h.mu.RLock()
	full := h.config.MaxClientsPerIP > 0 && h.perIP[ip] >= h.config.MaxClientsPerIP
	h.mu.RUnlock()
	if full {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}
	client := NewClient(h, conn, clientID, ip)

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return xff[:i]
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
