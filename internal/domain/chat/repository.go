package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// ConversationRepository defines the chat thread data access interface
type ConversationRepository interface {
	// Save persists a conversation (create or update)
	Save(ctx context.Context, conversation *Conversation) error

	// FindByID retrieves a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)

	// FindByThread retrieves the conversation for a (product, buyer) pair
	FindByThread(ctx context.Context, productID, buyerID uuid.UUID) (*Conversation, error)

	// FindByParticipant retrieves conversations the user takes part in,
	// most recently active first
	FindByParticipant(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Conversation], error)
}

// MessageRepository defines the chat message data access interface
type MessageRepository interface {
	// Create persists a new message
	Create(ctx context.Context, message *Message) error

	// FindByConversation retrieves messages in a conversation, oldest first
	FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Message], error)

	// MarkRead marks all messages in the conversation not sent by the reader as read
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error

	// CountUnread counts unread messages addressed to the user across all conversations
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
