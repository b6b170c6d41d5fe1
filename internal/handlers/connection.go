package handlers

import (
	"errors"
	"net/http"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// McpConnectionHandler handles external MCP connection requests
type McpConnectionHandler struct {
	repo repository.McpConnectionRepository
}

// NewMcpConnectionHandler creates a new connection handler
func NewMcpConnectionHandler(repo repository.McpConnectionRepository) *McpConnectionHandler {
	return &McpConnectionHandler{
		repo: repo,
	}
}

// Create handles registering an external MCP server connection
func (h *McpConnectionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateMcpConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	conn := req.ToDomain()
	conn.Id = uuid.New().String()
	conn.Owner = userID
	if req.Public {
		conn.Owner = models.PublicOwner
	}

	if err := h.repo.Create(c.Request.Context(), conn); err != nil {
		logger.WithError(err).Error("Failed to create MCP connection")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create MCP connection",
		})
		return
	}

	c.JSON(http.StatusCreated, conn.ToResponse())
}

// List handles listing the connections visible to the caller
func (h *McpConnectionHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	conns, err := h.repo.GetVisibleTo(c.Request.Context(), userID)
	if err != nil {
		logger.WithError(err).Error("Failed to list MCP connections")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve MCP connections",
		})
		return
	}

	responses := make([]models.McpConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		responses = append(responses, conn.ToResponse())
	}

	c.JSON(http.StatusOK, models.McpConnectionListResponse{
		Connections: responses,
		Total:       len(responses),
	})
}

// Get handles retrieving a single connection
func (h *McpConnectionHandler) Get(c *gin.Context) {
	conn, ok := h.loadVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, conn.ToResponse())
}

// Update handles changing a connection the caller owns
func (h *McpConnectionHandler) Update(c *gin.Context) {
	conn, ok := h.loadVisible(c)
	if !ok {
		return
	}

	var req models.UpdateMcpConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	if req.Name != nil {
		conn.Name = *req.Name
	}
	if req.Description != nil {
		conn.Description = *req.Description
	}
	if req.URL != nil {
		conn.URL = *req.URL
	}
	if req.ClientConfig != nil {
		conn.ClientConfig = req.ClientConfig
	}
	if req.Active != nil {
		conn.Active = *req.Active
	}

	if err := h.repo.Update(c.Request.Context(), conn); err != nil {
		logger.WithError(err).Error("Failed to update MCP connection")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update MCP connection",
		})
		return
	}

	c.JSON(http.StatusOK, conn.ToResponse())
}

// Delete handles removing a connection the caller owns
func (h *McpConnectionHandler) Delete(c *gin.Context) {
	if _, ok := h.loadVisible(c); !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		logger.WithError(err).Error("Failed to delete MCP connection")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to delete MCP connection",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// loadVisible fetches the connection and enforces visibility: callers see
// their own connections and public ones
func (h *McpConnectionHandler) loadVisible(c *gin.Context) (*models.McpConnection, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	conn, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "MCP connection not found",
			})
			return nil, false
		}
		logger.WithError(err).Error("Failed to get MCP connection")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve MCP connection",
		})
		return nil, false
	}

	if conn.Owner != userID && conn.Owner != models.PublicOwner {
		// Hide other users' connections rather than confirming they exist
		c.JSON(http.StatusNotFound, gin.H{
			"message": "MCP connection not found",
		})
		return nil, false
	}

	return conn, true
}

// requireUser extracts the authenticated user id placed in the context by
// the auth middleware
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "User ID not found in context",
		})
		return "", false
	}
	return userID, true
}
