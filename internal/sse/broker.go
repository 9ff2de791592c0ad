package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	redisclient "github.com/eventgate/checkin-server-go/internal/redis"
)

const (
	HeartbeatInterval = 30 * time.Second
)

// Notification is one live-feed message, e.g. a successful check-in.
type Notification struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client is one SSE subscriber watching a single event's feed.
type Client struct {
	EventID       string
	Notifications chan Notification
	Done          chan struct{}
}

// Broker fans redis pub/sub check-in notifications out to SSE clients.
// Going through redis keeps the feed correct when several server
// instances record check-ins for the same event.
type Broker struct {
	redis   *redisclient.Client
	clients map[string]map[*Client]bool // eventID -> set of clients
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewBroker(redisClient *redisclient.Client) *Broker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Broker{
		redis:   redisClient,
		clients: make(map[string]map[*Client]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (b *Broker) Subscribe(eventID string) *Client {
	client := &Client{
		EventID:       eventID,
		Notifications: make(chan Notification, 100),
		Done:          make(chan struct{}),
	}

	b.mu.Lock()
	if b.clients[eventID] == nil {
		b.clients[eventID] = make(map[*Client]bool)
		go b.subscribeToRedis(eventID)
	}
	b.clients[eventID][client] = true
	clientCount := len(b.clients[eventID])
	b.mu.Unlock()

	log.Info().
		Str("eventId", eventID).
		Int("clientCount", clientCount).
		Msg("sse client subscribed")

	return client
}

func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if clients, ok := b.clients[client.EventID]; ok {
		delete(clients, client)
		close(client.Done)

		if len(clients) == 0 {
			delete(b.clients, client.EventID)
		}

		log.Info().
			Str("eventId", client.EventID).
			Int("clientCount", len(clients)).
			Msg("sse client unsubscribed")
	}
}

func (b *Broker) Publish(ctx context.Context, eventID string, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	channel := redisclient.CheckInChannel(eventID)
	return b.redis.Publish(ctx, channel, data).Err()
}

func (b *Broker) subscribeToRedis(eventID string) {
	channel := redisclient.CheckInChannel(eventID)
	pubsub := b.redis.Subscribe(b.ctx, channel)
	defer pubsub.Close()

	log.Debug().
		Str("eventId", eventID).
		Str("channel", channel).
		Msg("redis pubsub subscribed")

	ch := pubsub.Channel()

	for {
		select {
		case <-b.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var n Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal notification")
				continue
			}

			b.broadcast(eventID, n)
		}
	}
}

func (b *Broker) broadcast(eventID string, n Notification) {
	b.mu.RLock()
	clients := b.clients[eventID]
	b.mu.RUnlock()

	for client := range clients {
		select {
		case client.Notifications <- n:
		default:
			log.Warn().
				Str("eventId", eventID).
				Msg("client buffer full, dropping notification")
		}
	}
}

func (b *Broker) Close() {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, clients := range b.clients {
		for client := range clients {
			close(client.Done)
		}
	}
	b.clients = make(map[string]map[*Client]bool)
}

func (b *Broker) ClientCount(eventID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[eventID])
}
