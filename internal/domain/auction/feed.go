package auction

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const feedChannel = "auction:bids"

// FeedEvent is pushed to every live-feed subscriber when a bid is admitted.
// It deliberately carries no price or bidder: competitors' amounts stay hidden
// until the auction closes, so clients just refetch the auction they watch.
type FeedEvent struct {
	Type      string    `json:"type"`
	AuctionID uuid.UUID `json:"auctionId"`
	Serial    int       `json:"auctionSerial"`
	At        time.Time `json:"at"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed is a WebSocket hub fanning out admitted-bid events. Redis Pub/Sub
// bridges instances; without Redis the feed degrades to single-instance.
type Feed struct {
	redis   *redis.Client
	clients map[*feedClient]bool
	mu      sync.RWMutex

	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	upgrader websocket.Upgrader
}

func NewFeed(redisClient *redis.Client, allowedOrigins []string) *Feed {
	ctx, cancel := context.WithCancel(context.Background())

	originOK := func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	}

	return &Feed{
		redis:      redisClient,
		clients:    make(map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan []byte, 64),
		ctx:        ctx,
		cancel:     cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originOK,
		},
	}
}

// Run processes registrations and fan-out until Stop is called.
func (f *Feed) Run() {
	var pubsubCh <-chan *redis.Message
	if f.redis != nil {
		pubsub := f.redis.Subscribe(f.ctx, feedChannel)
		defer pubsub.Close()
		pubsubCh = pubsub.Channel()
	}

	for {
		select {
		case <-f.ctx.Done():
			return

		case client := <-f.register:
			f.mu.Lock()
			f.clients[client] = true
			f.mu.Unlock()

		case client := <-f.unregister:
			f.mu.Lock()
			if f.clients[client] {
				delete(f.clients, client)
				close(client.send)
			}
			f.mu.Unlock()

		case payload := <-f.broadcast:
			f.fanOut(payload)

		case msg, ok := <-pubsubCh:
			if !ok {
				pubsubCh = nil
				continue
			}
			f.fanOut([]byte(msg.Payload))
		}
	}
}

func (f *Feed) Stop() {
	f.cancel()
}

func (f *Feed) fanOut(payload []byte) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for client := range f.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the event rather than block the hub.
		}
	}
}

// BidPlaced implements Broadcaster.
func (f *Feed) BidPlaced(auctionID uuid.UUID, serial int) {
	event := FeedEvent{
		Type:      "bid_placed",
		AuctionID: auctionID,
		Serial:    serial,
		At:        time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	if f.redis != nil {
		if err := f.redis.Publish(f.ctx, feedChannel, payload).Err(); err != nil {
			log.Warn().Err(err).Msg("feed publish failed, falling back to local fan-out")
			f.broadcast <- payload
		}
		return
	}

	f.broadcast <- payload
}

// ServeWS upgrades the connection and streams feed events until the client
// disconnects.
func (f *Feed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("feed upgrade failed")
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, 16)}
	f.register <- client

	go f.writePump(client)
	f.readPump(client)
}

func (f *Feed) readPump(client *feedClient) {
	defer func() {
		f.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	for {
		// Subscribers don't send messages; reads only surface disconnects.
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(client *feedClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
