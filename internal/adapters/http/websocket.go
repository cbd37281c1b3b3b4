package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	natsadapter "github.com/samirrijal/nearmeconnect/internal/adapters/nats"
	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

const (
	wsProviderKey = "ws_provider_id"
	wsPingEvery   = 30 * time.Second

	channelRequests = "requests"
	channelReviews  = "reviews"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "requests" | "reviews" (default: requests)
}

// WebSocketAuth authenticates the upgrade via ?token=<access> (browsers cannot
// set headers on WebSocket requests) and admits providers only.
func WebSocketAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			return errUnauthorized(c, "Authentication credentials were not provided.")
		}
		claims, err := deps.Tokens.ParseAccess(token)
		if err != nil {
			return errUnauthorized(c, "Given token not valid for any token type")
		}

		provider, err := deps.Providers.ForUser(c.UserContext(), claims.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return errForbidden(c, "Only service providers can subscribe to live updates")
		}
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(wsProviderKey, provider.ID)
		c.Locals(principalKey, *claims.Principal())
		return c.Next()
	}
}

// WebSocketHandler relays the connected provider's request (and, on demand,
// review) events from the event feed.
// Clients send JSON: {"action":"subscribe","channel":"reviews"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		providerID, _ := c.Locals(wsProviderKey).(int64)
		log := slog.Default().With("remote", c.RemoteAddr().String(), "provider_id", providerID)
		ctx := logging.WithLogger(context.Background(), "", log)

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		log.Info("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subjects := map[string]string{
			channelRequests: natsadapter.RequestSubject(providerID),
			channelReviews:  natsadapter.ReviewSubject(providerID),
		}
		cancels := make(map[string]func())
		subscribe := func(channel string) error {
			if _, exists := cancels[channel]; exists {
				return nil
			}
			cancel, err := deps.Feed.Subscribe(subjects[channel], func(data []byte) {
				_ = writeJSON(json.RawMessage(data))
			})
			if err != nil {
				return err
			}
			cancels[channel] = cancel
			return nil
		}

		if deps.Feed == nil {
			_ = writeJSON(map[string]string{"error": "live updates unavailable"})
			return
		}
		if err := subscribe(channelRequests); err != nil {
			logging.FromContext(ctx).Error("ws default subscribe", "error", err)
			return
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			channel := m.Channel
			if channel == "" {
				channel = channelRequests
			}
			if _, known := subjects[channel]; !known {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if err := subscribe(channel); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed"})
					logging.FromContext(ctx).Warn("ws subscribe", "channel", channel, "error", err)
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": channel})

			case "unsubscribe":
				cancel, exists := cancels[channel]
				if !exists {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + channel})
					continue
				}
				cancel()
				delete(cancels, channel)
				_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": channel})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, cancel := range cancels {
			cancel()
		}
		log.Info("ws client disconnected")
	}
}
