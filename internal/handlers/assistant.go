package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssistantStackHandler handles chat-assistant stack requests
type AssistantStackHandler struct {
	repo       repository.AssistantStackRepository
	modelRepo  repository.ModelRepository
	ragRepo    repository.RagRepositoryRepository
	connRepo   repository.McpConnectionRepository
	hostedRepo repository.HostedMcpServerRepository
}

// NewAssistantStackHandler creates a new assistant stack handler
func NewAssistantStackHandler(
	repo repository.AssistantStackRepository,
	modelRepo repository.ModelRepository,
	ragRepo repository.RagRepositoryRepository,
	connRepo repository.McpConnectionRepository,
	hostedRepo repository.HostedMcpServerRepository,
) *AssistantStackHandler {
	return &AssistantStackHandler{
		repo:       repo,
		modelRepo:  modelRepo,
		ragRepo:    ragRepo,
		connRepo:   connRepo,
		hostedRepo: hostedRepo,
	}
}

// Create handles bundling a new assistant stack
func (h *AssistantStackHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateAssistantStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	stack := req.ToDomain()
	stack.Id = uuid.New().String()
	stack.Owner = userID

	if msg := h.validateReferences(c, stack); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": msg,
		})
		return
	}

	if err := h.repo.Create(c.Request.Context(), stack); err != nil {
		logger.WithError(err).Error("Failed to create assistant stack")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create assistant stack",
		})
		return
	}

	c.JSON(http.StatusCreated, stack.ToResponse())
}

// List handles listing all assistant stacks
func (h *AssistantStackHandler) List(c *gin.Context) {
	stacks, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to list assistant stacks")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve assistant stacks",
		})
		return
	}

	responses := make([]models.AssistantStackResponse, 0, len(stacks))
	for _, stack := range stacks {
		responses = append(responses, stack.ToResponse())
	}

	c.JSON(http.StatusOK, models.AssistantStackListResponse{
		Stacks: responses,
		Total:  len(responses),
	})
}

// Get handles retrieving a single assistant stack
func (h *AssistantStackHandler) Get(c *gin.Context) {
	stack, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stack.ToResponse())
}

// Update handles replacing the contents of an assistant stack
func (h *AssistantStackHandler) Update(c *gin.Context) {
	stack, ok := h.load(c)
	if !ok {
		return
	}

	var req models.CreateAssistantStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	updated := req.ToDomain()
	updated.Id = stack.Id
	updated.Owner = stack.Owner
	updated.CreatedAt = stack.CreatedAt

	if msg := h.validateReferences(c, updated); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": msg,
		})
		return
	}

	if err := h.repo.Update(c.Request.Context(), updated); err != nil {
		logger.WithError(err).Error("Failed to update assistant stack")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update assistant stack",
		})
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// Delete handles removing an assistant stack
func (h *AssistantStackHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Assistant stack not found",
			})
			return
		}
		logger.WithError(err).Error("Failed to delete assistant stack")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to delete assistant stack",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// validateReferences checks that every id bundled into a stack points at an
// existing record. A stack referencing missing entities would break every
// chat session that selects it.
func (h *AssistantStackHandler) validateReferences(c *gin.Context, stack *models.AssistantStack) string {
	ctx := c.Request.Context()

	knownModels := make(map[string]bool)
	if items, err := h.modelRepo.GetAll(ctx); err == nil {
		for _, m := range items {
			knownModels[m.ModelID] = true
		}
	} else {
		logger.WithError(err).Error("Failed to load models for reference validation")
		return "Could not validate model references"
	}
	for _, id := range stack.ModelIDs {
		if !knownModels[id] {
			return fmt.Sprintf("Unknown model id: %s", id)
		}
	}

	for _, id := range stack.RepositoryIDs {
		if _, err := h.ragRepo.Get(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Sprintf("Unknown RAG repository id: %s", id)
			}
			logger.WithError(err).Error("Failed to load RAG repository for reference validation")
			return "Could not validate RAG repository references"
		}
	}

	// MCP server ids may point at either an external connection or a
	// platform-hosted server
	for _, id := range stack.McpServerIDs {
		if _, err := h.connRepo.Get(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, database.ErrNotFound) {
			logger.WithError(err).Error("Failed to load MCP connection for reference validation")
			return "Could not validate MCP server references"
		}
		if _, err := h.hostedRepo.Get(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Sprintf("Unknown MCP server id: %s", id)
			}
			logger.WithError(err).Error("Failed to load hosted MCP server for reference validation")
			return "Could not validate MCP server references"
		}
	}

	return ""
}

func (h *AssistantStackHandler) load(c *gin.Context) (*models.AssistantStack, bool) {
	stack, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Assistant stack not found",
			})
			return nil, false
		}
		logger.WithError(err).Error("Failed to get assistant stack")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve assistant stack",
		})
		return nil, false
	}
	return stack, true
}
