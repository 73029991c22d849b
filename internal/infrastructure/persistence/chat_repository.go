package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicconnect/backend/internal/domain/chat"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Save creates or updates a conversation
func (r *GormConversationRepository) Save(ctx context.Context, conversation *chat.Conversation) error {
	return r.db.WithContext(ctx).Save(conversation).Error
}

// FindByID retrieves a conversation by ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindByThread retrieves the conversation for a (product, buyer) pair
func (r *GormConversationRepository) FindByThread(ctx context.Context, productID, buyerID uuid.UUID) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_id = ?", productID, buyerID).
		First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindByParticipant retrieves conversations the user takes part in
func (r *GormConversationRepository) FindByParticipant(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*chat.Conversation], error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var convs []*chat.Conversation
	if err := query.
		Order("last_message_at desc").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&convs).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(convs, total, filter.Page, filter.Limit())
	return &result, nil
}

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create persists a new message
func (r *GormMessageRepository) Create(ctx context.Context, message *chat.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindByConversation retrieves messages in a conversation, oldest first
func (r *GormMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) (*shared.Paginated[*chat.Message], error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var messages []*chat.Message
	if err := query.
		Order("created_at asc").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(messages, total, filter.Page, filter.Limit())
	return &result, nil
}

// MarkRead marks all messages in the conversation not sent by the reader as read
func (r *GormMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}

// CountUnread counts unread messages addressed to the user across all conversations
func (r *GormMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.buyer_id = ? OR conversations.seller_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
