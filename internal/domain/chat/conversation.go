package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// Conversation is the aggregate root for a buyer/seller chat thread attached
// to a marketplace listing. One conversation exists per (product, buyer) pair.
type Conversation struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_thread,priority:1"`
	BuyerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_thread,priority:2"`
	SellerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LastMessageAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "conversations"
}

// Message is a single chat message inside a conversation
type Message struct {
	shared.BaseEntity
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	Body           string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewConversation creates a chat thread between a buyer and the seller of a listing
func NewConversation(productID, buyerID, sellerID uuid.UUID) (*Conversation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if buyerID == uuid.Nil || sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Buyer and seller IDs are required")
	}
	if buyerID == sellerID {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Cannot start a conversation with yourself")
	}

	return &Conversation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		LastMessageAt:     time.Now(),
	}, nil
}

// NewMessage creates a message from one of the conversation participants
func (c *Conversation) NewMessage(senderID uuid.UUID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}
	if senderID != c.BuyerID && senderID != c.SellerID {
		return nil, shared.NewDomainError("NOT_PARTICIPANT", "Sender is not part of this conversation")
	}

	c.LastMessageAt = time.Now()
	c.UpdatedAt = c.LastMessageAt
	c.IncrementVersion()

	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		ConversationID: c.GetID(),
		SenderID:       senderID,
		Body:           body,
	}, nil
}

// OtherParticipant returns the counterparty for the given participant
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if userID == c.BuyerID {
		return c.SellerID
	}
	return c.BuyerID
}

// HasParticipant reports whether the user belongs to the conversation
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return userID == c.BuyerID || userID == c.SellerID
}
