package chat

import (
	"time"

	"github.com/google/uuid"
)

// StartConversationRequest opens (or reuses) a thread about a listing
type StartConversationRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// SendMessageRequest posts a message into a conversation
type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	Body           string    `json:"body" binding:"required"`
}

// ConversationDTO represents a chat thread
type ConversationDTO struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// MessageDTO represents a single chat message
type MessageDTO struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"is_read"`
	SentAt         time.Time `json:"sent_at"`
}

// ConversationListResult represents a paginated thread list
type ConversationListResult struct {
	Conversations []ConversationDTO `json:"conversations"`
	Total         int64             `json:"total"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
}

// MessageListResult represents a paginated message list
type MessageListResult struct {
	Messages []MessageDTO `json:"messages"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
