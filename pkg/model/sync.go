package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LibraryEventType represents the lifecycle of a queued library write
type LibraryEventType string

const (
	LibraryEventQueued LibraryEventType = "queued"
	LibraryEventSynced LibraryEventType = "synced"
	LibraryEventFailed LibraryEventType = "failed"
)

// LibraryList names which membership set a toggle touched
type LibraryList string

const (
	ListFavorites LibraryList = "favorites"
	ListWatchlist LibraryList = "watchlist"
)

// LibraryEvent is published for every queued, completed or failed library write
type LibraryEvent struct {
	Type      LibraryEventType `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	Seq       uint64           `json:"seq"`
	List      LibraryList      `json:"list,omitempty"`
	MovieID   int64            `json:"movie_id,omitempty"`
	Member    bool             `json:"member"`
	Pending   int              `json:"pending"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// SyncStatus is the non-blocking indicator of the cloud write queue
type SyncStatus struct {
	Pending     int        `json:"pending"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
}

// WebSocketMessage is the frame sent to library event subscribers
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	MessageTypeSubscribed = "subscribed"
	MessageTypeLibrary    = "library"
	MessageTypeError      = "error"
)

// ErrorMessage is the payload of an error frame
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LibraryEventsChannel is the pub/sub channel carrying a user's library events
func LibraryEventsChannel(userID uuid.UUID) string {
	return fmt.Sprintf("moviehub:library:events:%s", userID.String())
}
