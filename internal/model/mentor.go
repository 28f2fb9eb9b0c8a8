package model

import "time"

// ChatMessage is one message in a mentor conversation
type ChatMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest represents the payload to send a mentor message
type ChatRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Message   string `json:"message" binding:"required,min=1,max=4000"`
}

// ChatResponse carries the assistant reply
type ChatResponse struct {
	Reply string `json:"reply"`
}
