package service

import (
	"context"
	"sync"
	"time"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/service-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RelayService streams a user's library events to their websocket connections
type RelayService interface {
	HandleConnection(ctx context.Context, userID uuid.UUID, conn *websocket.Conn) error
	ConnectionCount(userID uuid.UUID) int
}

type relayService struct {
	events repository.EventRepository

	mu          sync.Mutex
	connections map[uuid.UUID]int
}

// NewRelayService creates a new relay service instance
func NewRelayService(events repository.EventRepository) RelayService {
	return &relayService{
		events:      events,
		connections: make(map[uuid.UUID]int),
	}
}

// HandleConnection relays events until the client goes away or ctx ends
func (s *relayService) HandleConnection(ctx context.Context, userID uuid.UUID, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub, err := s.events.SubscribeLibraryEvents(ctx, userID)
	if err != nil {
		return err
	}
	defer sub.Close()

	s.track(userID, 1)
	defer s.track(userID, -1)

	logger.Infof("library event stream opened for %s", userID)

	err = s.send(conn, &model.WebSocketMessage{
		Type:    model.MessageTypeSubscribed,
		Payload: map[string]interface{}{"user_id": userID},
	})
	if err != nil {
		return err
	}

	// the read loop only watches for close frames and pongs
	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warnf("library event stream for %s closed: %v", userID, err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Infof("library event stream closed for %s", userID)
			return nil
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debugf("ping to %s failed: %v", userID, err)
				return nil
			}
		case msg, ok := <-sub.Messages():
			if !ok {
				return nil
			}
			event, err := repository.DecodeLibraryEvent(msg)
			if err != nil {
				logger.Error(err, "dropping malformed library event")
				continue
			}
			err = s.send(conn, &model.WebSocketMessage{
				Type:    model.MessageTypeLibrary,
				Payload: event,
			})
			if err != nil {
				logger.Debugf("write to %s failed: %v", userID, err)
				return nil
			}
		}
	}
}

// ConnectionCount returns the open streams for a user
func (s *relayService) ConnectionCount(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections[userID]
}

func (s *relayService) track(userID uuid.UUID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[userID] += delta
	if s.connections[userID] <= 0 {
		delete(s.connections, userID)
	}
}

func (s *relayService) send(conn *websocket.Conn, message *model.WebSocketMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}
