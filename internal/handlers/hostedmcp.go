package handlers

import (
	"errors"
	"net/http"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/queue"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/awslabs/lisa-admin/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HostedMcpServerHandler handles hosted MCP server requests. Creation and
// deletion are asynchronous: the handler records intent and enqueues a
// provision job; the engine drives the record to its terminal state.
type HostedMcpServerHandler struct {
	repo     repository.HostedMcpServerRepository
	registry *services.ImageRegistryService
	jobs     *queue.JobQueue
}

// NewHostedMcpServerHandler creates a new hosted server handler
func NewHostedMcpServerHandler(repo repository.HostedMcpServerRepository, registry *services.ImageRegistryService, jobs *queue.JobQueue) *HostedMcpServerHandler {
	return &HostedMcpServerHandler{
		repo:     repo,
		registry: registry,
		jobs:     jobs,
	}
}

// Create handles provisioning a new hosted MCP server
func (h *HostedMcpServerHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateHostedMcpServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	server := req.ToDomain()
	server.Id = uuid.New().String()
	server.Owner = userID
	if server.EnvironmentVariables == nil {
		server.EnvironmentVariables = []models.EnvironmentVariable{}
	}

	repoName, repoURI, err := h.registry.EnsureRepository(c.Request.Context(), server.Id)
	if err != nil {
		logger.WithError(err).Error("Failed to ensure image repository")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to prepare image repository",
		})
		return
	}
	server.ImageRepositoryName = repoName
	server.ImageRepositoryURI = repoURI

	if err := h.repo.Create(c.Request.Context(), server); err != nil {
		logger.WithError(err).Error("Failed to create hosted MCP server record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create hosted MCP server",
		})
		return
	}

	if err := h.jobs.Enqueue(&queue.ProvisionJob{
		ServerID: server.Id,
		UserID:   userID,
		Action:   queue.ActionCreate,
	}); err != nil {
		logger.WithFields(logrus.Fields{
			"server_id": server.Id,
			"error":     err.Error(),
		}).Error("Failed to enqueue provision job")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Provisioning queue is unavailable",
		})
		return
	}

	c.JSON(http.StatusAccepted, server.ToResponse())
}

// List handles listing the caller's hosted servers
func (h *HostedMcpServerHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	servers, err := h.repo.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		logger.WithError(err).Error("Failed to list hosted MCP servers")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve hosted MCP servers",
		})
		return
	}

	responses := make([]models.HostedMcpServerResponse, 0, len(servers))
	for _, server := range servers {
		responses = append(responses, server.ToResponse())
	}

	c.JSON(http.StatusOK, models.HostedMcpServerListResponse{
		Servers: responses,
		Total:   len(responses),
	})
}

// Get handles retrieving a single hosted server
func (h *HostedMcpServerHandler) Get(c *gin.Context) {
	server, ok := h.loadOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, server.ToResponse())
}

// Delete handles tearing down a hosted server. The record survives until
// the engine confirms the backing stack is gone.
func (h *HostedMcpServerHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	server, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if server.Status == models.StatusDeleting {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Server is already being deleted",
		})
		return
	}

	if server.ImageRepositoryName != "" {
		if err := h.registry.DeleteRepository(c.Request.Context(), server.ImageRepositoryName); err != nil {
			// Teardown proceeds; an orphaned repository is recoverable
			logger.WithFields(logrus.Fields{
				"server_id":  server.Id,
				"repository": server.ImageRepositoryName,
				"error":      err.Error(),
			}).Warn("Failed to delete image repository")
		}
	}

	if err := h.jobs.Enqueue(&queue.ProvisionJob{
		ServerID: server.Id,
		UserID:   userID,
		Action:   queue.ActionDelete,
	}); err != nil {
		logger.WithFields(logrus.Fields{
			"server_id": server.Id,
			"error":     err.Error(),
		}).Error("Failed to enqueue teardown job")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Provisioning queue is unavailable",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":     server.Id,
		"status": models.StatusDeleting,
	})
}

// loadOwned fetches the hosted server and enforces ownership
func (h *HostedMcpServerHandler) loadOwned(c *gin.Context) (*models.HostedMcpServer, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	server, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Hosted MCP server not found",
			})
			return nil, false
		}
		logger.WithError(err).Error("Failed to get hosted MCP server")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve hosted MCP server",
		})
		return nil, false
	}

	if server.Owner != userID {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Hosted MCP server not found",
		})
		return nil, false
	}

	return server, true
}
