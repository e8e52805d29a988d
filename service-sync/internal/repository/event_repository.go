package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"moviehub/pkg/model"
	"moviehub/pkg/redis"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// EventRepository reads library sync events from Redis pub/sub
type EventRepository interface {
	// SubscribeLibraryEvents returns once the subscription is active
	SubscribeLibraryEvents(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

type eventRepository struct {
	redis *redis.Client
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(redisClient *redis.Client) EventRepository {
	return &eventRepository{
		redis: redisClient,
	}
}

func (r *eventRepository) SubscribeLibraryEvents(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	pubsub := r.redis.Subscribe(ctx, model.LibraryEventsChannel(userID))

	// wait for the subscription confirmation so no event published after
	// this call returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe library events: %w", err)
	}

	return &Subscription{pubsub: pubsub, messages: pubsub.Channel()}, nil
}

// Subscription is an active library event subscription
type Subscription struct {
	pubsub   *redislib.PubSub
	messages <-chan *redislib.Message
}

// Messages returns the raw pub/sub messages
func (s *Subscription) Messages() <-chan *redislib.Message {
	return s.messages
}

// Close ends the subscription
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// DecodeLibraryEvent parses a published library event
func DecodeLibraryEvent(msg *redislib.Message) (*model.LibraryEvent, error) {
	var event model.LibraryEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		return nil, fmt.Errorf("decode library event: %w", err)
	}
	return &event, nil
}
