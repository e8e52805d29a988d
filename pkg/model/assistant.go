package model

import "time"

// Who wrote a chat message.
const (
	ChatFromUser = "user"
	ChatFromAI   = "ai"
)

// ChatMessage is one turn of a user's conversation with the movie assistant.
type ChatMessage struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"timestamp"`
}

// ChatRequest is the HTTP payload for a new assistant prompt.
type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
