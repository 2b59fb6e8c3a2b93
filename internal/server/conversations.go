package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rgonzalez/agentd/internal/agent"
	"github.com/rgonzalez/agentd/internal/conversation"
)

type ConversationsHandler struct {
	Service *agent.Service
}

func (h *ConversationsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.POST("/:id/messages", h.sendMessage)
	g.GET("/:id/history", h.history)
}

type conversationResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type messageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	ToolsUsed      []string  `json:"toolsUsed,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func toMessageResponse(m conversation.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		ToolsUsed:      m.ToolsUsed,
		Timestamp:      m.CreatedAt,
	}
}

func (h *ConversationsHandler) create(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		var req struct {
			UserID string `json:"userId"`
		}
		_ = c.Bind(&req)
		userID = req.UserID
	}
	if userID == "" {
		userID = "user123"
	}

	conv, err := h.Service.CreateConversation(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, conversationResponse{ID: conv.ID, Status: string(conv.Status), CreatedAt: conv.CreatedAt})
}

func (h *ConversationsHandler) get(c echo.Context) error {
	conv, err := h.Service.GetConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, conversationResponse{ID: conv.ID, Status: string(conv.Status), CreatedAt: conv.CreatedAt})
}

func (h *ConversationsHandler) sendMessage(c echo.Context) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content required")
	}

	msg, err := h.Service.SendMessage(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toMessageResponse(msg))
}

func (h *ConversationsHandler) history(c echo.Context) error {
	msgs, err := h.Service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}
