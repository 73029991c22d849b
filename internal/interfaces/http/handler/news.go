package handler

import (
	newsapp "github.com/civicconnect/backend/internal/application/news"
	"github.com/gin-gonic/gin"
)

// NewsHandler handles news search requests
type NewsHandler struct {
	BaseHandler
	news *newsapp.Service
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(news *newsapp.Service) *NewsHandler {
	return &NewsHandler{news: news}
}

// Search returns news hits for a query, served from cache when possible
func (h *NewsHandler) Search(c *gin.Context) {
	req := newsapp.SearchRequest{
		Query:    c.Query("q"),
		Language: c.Query("language"),
	}
	if req.Query == "" {
		h.BadRequest(c, "q query parameter is required")
		return
	}

	result, err := h.news.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
