package handler

import (
	chatapp "github.com/civicconnect/backend/internal/application/chat"
	"github.com/civicconnect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles buyer-seller conversations about listings
type ChatHandler struct {
	BaseHandler
	chat *chatapp.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat *chatapp.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// StartConversation opens (or reuses) a thread about a listing
func (h *ChatHandler) StartConversation(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req chatapp.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	conversation, err := h.chat.StartConversation(c.Request.Context(), buyerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, conversation)
}

// SendMessage posts a message into a conversation the user participates in
func (h *ChatHandler) SendMessage(c *gin.Context) {
	senderID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req chatapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), senderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, message)
}

// ListConversations returns the authenticated user's threads, most recent first
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var page dto.ListRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	page.Normalize()

	result, err := h.chat.ListConversations(c.Request.Context(), userID, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Conversations, result.Total, result.Page, result.PageSize)
}

// ListMessages returns the messages of one conversation and marks the
// other side's messages as read
func (h *ChatHandler) ListMessages(c *gin.Context) {
	readerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation id")
		return
	}

	var page dto.ListRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	page.Normalize()

	result, err := h.chat.ListMessages(c.Request.Context(), readerID, conversationID, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Messages, result.Total, result.Page, result.PageSize)
}

// UnreadCountResponse carries the number of unread messages across all threads
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// CountUnread returns the authenticated user's unread message count
func (h *ChatHandler) CountUnread(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.chat.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UnreadCountResponse{Count: count})
}
