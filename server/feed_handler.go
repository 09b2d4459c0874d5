package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/events"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/feed"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	FeedTypeConnected = "connected"
	FeedTypeEvent     = "event"
	FeedTypeHeartbeat = "heartbeat"
)

// FeedMessage is one frame of the live game feed.
type FeedMessage struct {
	Type      string        `json:"type"`
	Timestamp int64         `json:"timestamp"`
	Event     *events.Event `json:"event,omitempty"`
}

// FeedHandler streams game lifecycle events over SSE and WebSocket.
type FeedHandler struct {
	hub             *feed.Hub
	logger          zerolog.Logger
	heartbeatPeriod time.Duration
	upgrader        websocket.Upgrader
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(app *App, hub *feed.Hub) *FeedHandler {
	return &FeedHandler{
		hub:             hub,
		logger:          app.logger.With().Str("handler", "feed").Logger(),
		heartbeatPeriod: 30 * time.Second,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Stream godoc
// @Summary      Live game feed (SSE)
// @Description  Server-sent events for game.created, game.iterated and game.deleted.
// @Tags         feed
// @Produce      text/event-stream
// @Success      200  {object}  FeedMessage
// @Router       /api/games/feed [get]
func (h *FeedHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	// server.write_timeout would otherwise cut the stream.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug().Err(err).Msg("Cannot clear write deadline for feed")
	}

	h.stream(c.Request.Context(), &sseSender{writer: c.Writer}, nil)
}

// StreamWebSocket godoc
// @Summary      Live game feed (WebSocket)
// @Tags         feed
// @Success      101  {object}  FeedMessage
// @Router       /api/games/feed/ws [get]
func (h *FeedHandler) StreamWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close() //nolint:errcheck

	writeDeadline := 10 * time.Second
	done := make(chan struct{})

	// The feed is one-way; reading only detects the client going away.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.Warn().Err(err).Msg("WebSocket connection closed unexpectedly")
				} else {
					h.logger.Debug().Err(err).Msg("WebSocket closed")
				}
				return
			}
		}
	}()

	pingTicker := time.NewTicker(h.heartbeatPeriod)
	go func() {
		defer pingTicker.Stop()
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
					h.logger.Debug().Err(err).Msg("Failed to send ping")
					return
				}
			}
		}
	}()

	sender := &wsSender{conn: conn, done: done, writeDeadline: writeDeadline}
	h.stream(c.Request.Context(), sender, done)
}

// stream forwards hub events to sender until the request ends, the peer
// goes away or a write fails.
func (h *FeedHandler) stream(ctx context.Context, sender messageSender, peerGone <-chan struct{}) {
	updates, cancel := h.hub.Listen(ctx)
	defer cancel()

	if err := sender.Send(&FeedMessage{Type: FeedTypeConnected, Timestamp: time.Now().Unix()}); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send connected message, stopping stream")
		return
	}

	heartbeat := time.NewTicker(h.heartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-peerGone:
			return
		case <-heartbeat.C:
			if err := sender.Send(&FeedMessage{Type: FeedTypeHeartbeat, Timestamp: time.Now().Unix()}); err != nil {
				h.logger.Debug().Err(err).Msg("Failed to send heartbeat, stopping stream")
				return
			}
		case event, ok := <-updates:
			if !ok {
				return
			}
			if err := sender.Send(&FeedMessage{Type: FeedTypeEvent, Timestamp: event.At.Unix(), Event: &event}); err != nil {
				h.logger.Debug().Err(err).Str("event", string(event.Type)).Msg("Failed to send event, stopping stream")
				return
			}
		}
	}
}

// messageSender writes feed frames (SSE or WebSocket).
type messageSender interface {
	Send(*FeedMessage) error
}

// sseSender sends messages via SSE.
type sseSender struct {
	writer gin.ResponseWriter
}

func (s *sseSender) Send(msg *FeedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := s.writer.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}
	s.writer.Flush()
	return nil
}

// wsSender sends messages via WebSocket.
type wsSender struct {
	conn          *websocket.Conn
	done          <-chan struct{}
	writeDeadline time.Duration
}

func (s *wsSender) Send(msg *FeedMessage) error {
	select {
	case <-s.done:
		return io.EOF
	default:
	}

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeDeadline)); err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return io.EOF
		}
		return err
	}
	return nil
}
