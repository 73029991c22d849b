package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/catalog"
	"github.com/civicconnect/backend/internal/domain/chat"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// ChatService handles buyer-seller conversations around marketplace listings
type ChatService struct {
	conversations chat.ConversationRepository
	messages      chat.MessageRepository
	products      catalog.ProductRepository
	logger        *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	conversations chat.ConversationRepository,
	messages chat.MessageRepository,
	products catalog.ProductRepository,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		products:      products,
		logger:        logger,
	}
}

// StartConversation opens a thread between the buyer and the listing's seller.
// Starting a second conversation about the same listing returns the existing
// thread instead of creating a duplicate.
func (s *ChatService) StartConversation(ctx context.Context, buyerID uuid.UUID, req StartConversationRequest) (*ConversationDTO, error) {
	existing, err := s.conversations.FindByThread(ctx, req.ProductID, buyerID)
	if err == nil {
		return toConversationDTO(existing), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	conv, err := chat.NewConversation(product.GetID(), buyerID, product.SellerID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Save(ctx, conv); err != nil {
		return nil, err
	}

	s.logger.Info("conversation started",
		zap.String("conversation_id", conv.GetID().String()),
		zap.String("product_id", product.GetID().String()))

	return toConversationDTO(conv), nil
}

// SendMessage posts a message; only participants may send
func (s *ChatService) SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	conv, err := s.conversations.FindByID(ctx, req.ConversationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
		}
		return nil, err
	}

	msg, err := conv.NewMessage(senderID, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversations.Save(ctx, conv); err != nil {
		s.logger.Warn("failed to bump conversation activity",
			zap.String("conversation_id", conv.GetID().String()),
			zap.Error(err))
	}

	return toMessageDTO(msg), nil
}

// ListConversations returns the user's threads, most recently active first
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, page, pageSize int) (*ConversationListResult, error) {
	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "last_message_at", OrderDir: "desc"}
	result, err := s.conversations.FindByParticipant(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ConversationDTO, 0, len(result.Items))
	for _, c := range result.Items {
		dtos = append(dtos, *toConversationDTO(c))
	}
	return &ConversationListResult{
		Conversations: dtos,
		Total:         result.Total,
		Page:          result.Page,
		PageSize:      result.PageSize,
	}, nil
}

// ListMessages returns a conversation's messages oldest first and marks the
// counterparty's messages as read. Only participants may read.
func (s *ChatService) ListMessages(ctx context.Context, readerID, conversationID uuid.UUID, page, pageSize int) (*MessageListResult, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CONVERSATION_NOT_FOUND", "Conversation not found")
		}
		return nil, err
	}
	if !conv.HasParticipant(readerID) {
		return nil, shared.ErrForbidden
	}

	filter := shared.Filter{Page: page, PageSize: pageSize, OrderBy: "created_at", OrderDir: "asc"}
	result, err := s.messages.FindByConversation(ctx, conversationID, filter)
	if err != nil {
		return nil, err
	}

	if err := s.messages.MarkRead(ctx, conversationID, readerID); err != nil {
		s.logger.Warn("failed to mark messages read",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
	}

	dtos := make([]MessageDTO, 0, len(result.Items))
	for _, m := range result.Items {
		dtos = append(dtos, *toMessageDTO(m))
	}
	return &MessageListResult{
		Messages: dtos,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}, nil
}

// CountUnread counts unread messages addressed to the user
func (s *ChatService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messages.CountUnread(ctx, userID)
}

func toConversationDTO(conv *chat.Conversation) *ConversationDTO {
	return &ConversationDTO{
		ID:            conv.GetID(),
		ProductID:     conv.ProductID,
		BuyerID:       conv.BuyerID,
		SellerID:      conv.SellerID,
		LastMessageAt: conv.LastMessageAt,
	}
}

func toMessageDTO(msg *chat.Message) *MessageDTO {
	return &MessageDTO{
		ID:             msg.GetID(),
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		IsRead:         msg.IsRead,
		SentAt:         msg.GetCreatedAt(),
	}
}
