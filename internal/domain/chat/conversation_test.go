package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	productID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("valid conversation", func(t *testing.T) {
		conv, err := NewConversation(productID, buyerID, sellerID)

		require.NoError(t, err)
		assert.Equal(t, productID, conv.ProductID)
		assert.True(t, conv.HasParticipant(buyerID))
		assert.True(t, conv.HasParticipant(sellerID))
		assert.False(t, conv.HasParticipant(uuid.New()))
	})

	t.Run("self conversation rejected", func(t *testing.T) {
		_, err := NewConversation(productID, buyerID, buyerID)
		assert.Error(t, err)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := NewConversation(uuid.Nil, buyerID, sellerID)
		assert.Error(t, err)
	})
}

func TestConversationNewMessage(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	conv, err := NewConversation(uuid.New(), buyerID, sellerID)
	require.NoError(t, err)

	t.Run("participant can send", func(t *testing.T) {
		before := conv.LastMessageAt
		msg, err := conv.NewMessage(buyerID, "Is the buffalo still available?")

		require.NoError(t, err)
		assert.Equal(t, conv.GetID(), msg.ConversationID)
		assert.Equal(t, buyerID, msg.SenderID)
		assert.False(t, msg.IsRead)
		assert.False(t, conv.LastMessageAt.Before(before))
	})

	t.Run("outsider cannot send", func(t *testing.T) {
		_, err := conv.NewMessage(uuid.New(), "hello")
		assert.Error(t, err)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := conv.NewMessage(sellerID, "   ")
		assert.Error(t, err)
	})
}

func TestConversationOtherParticipant(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	conv, err := NewConversation(uuid.New(), buyerID, sellerID)
	require.NoError(t, err)

	assert.Equal(t, sellerID, conv.OtherParticipant(buyerID))
	assert.Equal(t, buyerID, conv.OtherParticipant(sellerID))
}
