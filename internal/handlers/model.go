package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ModelHandler handles model library requests
type ModelHandler struct {
	repo repository.ModelRepository
}

// NewModelHandler creates a new model handler
func NewModelHandler(repo repository.ModelRepository) *ModelHandler {
	return &ModelHandler{
		repo: repo,
	}
}

// Create handles adding a model to the library
func (h *ModelHandler) Create(c *gin.Context) {
	var req models.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	// External models need an endpoint; hosted ones need an image to run
	if req.ModelURL == "" && req.ContainerImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Either model_url or container_image must be set",
		})
		return
	}

	model := req.ToDomain()
	model.UniqueID = uuid.New().String()

	// External models have no deployment to wait for
	if !model.Hosted() {
		model.Status = models.StatusInService
	}

	if err := h.repo.Create(c.Request.Context(), model); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"message": "Model already exists",
			})
			return
		}
		logger.WithError(err).Error("Failed to create model")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create model",
		})
		return
	}

	c.JSON(http.StatusCreated, model.ToResponse())
}

// List handles listing all models with optional search
func (h *ModelHandler) List(c *gin.Context) {
	searchTerm := c.Query("search")

	items, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to list models")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve models",
		})
		return
	}

	responses := make([]models.ModelResponse, 0)
	for _, model := range items {
		if searchTerm != "" {
			searchLower := strings.ToLower(searchTerm)
			if !strings.Contains(strings.ToLower(model.ModelID), searchLower) &&
				!strings.Contains(strings.ToLower(model.ModelName), searchLower) &&
				!strings.Contains(strings.ToLower(model.Description), searchLower) {
				continue
			}
		}
		responses = append(responses, model.ToResponse())
	}

	c.JSON(http.StatusOK, models.ModelListResponse{
		Models: responses,
		Total:  len(responses),
	})
}

// Get handles retrieving a single model
func (h *ModelHandler) Get(c *gin.Context) {
	model, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.ToResponse())
}

// Update handles changing the mutable fields of a model
func (h *ModelHandler) Update(c *gin.Context) {
	model, ok := h.load(c)
	if !ok {
		return
	}

	var req models.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	if req.ModelName != nil {
		model.ModelName = *req.ModelName
	}
	if req.Description != nil {
		model.Description = *req.Description
	}
	if req.Streaming != nil {
		model.Streaming = *req.Streaming
	}
	if req.AutoScaling != nil {
		model.AutoScaling = *req.AutoScaling
	}

	if err := h.repo.Update(c.Request.Context(), model); err != nil {
		logger.WithError(err).Error("Failed to update model")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update model",
		})
		return
	}

	c.JSON(http.StatusOK, model.ToResponse())
}

// Start handles bringing a stopped hosted model back into service
func (h *ModelHandler) Start(c *gin.Context) {
	h.transition(c, models.StatusStopped, models.StatusUpdating)
}

// Stop handles taking a hosted model out of service
func (h *ModelHandler) Stop(c *gin.Context) {
	h.transition(c, models.StatusInService, models.StatusStopping)
}

// transition moves a hosted model between lifecycle states, rejecting
// transitions from any state other than the expected one
func (h *ModelHandler) transition(c *gin.Context, from, to string) {
	model, ok := h.load(c)
	if !ok {
		return
	}

	if !model.Hosted() {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "External models cannot be started or stopped",
		})
		return
	}

	if model.Status != from {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Model is not in a state that allows this transition",
			"status":  model.Status,
		})
		return
	}

	if err := h.repo.UpdateStatus(c.Request.Context(), model.UniqueID, to); err != nil {
		logger.WithError(err).Error("Failed to update model status")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update model status",
		})
		return
	}

	model.Status = to
	c.JSON(http.StatusOK, model.ToResponse())
}

// Delete handles removing a model from the library
func (h *ModelHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Model not found",
			})
			return
		}
		logger.WithError(err).Error("Failed to delete model")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to delete model",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ModelHandler) load(c *gin.Context) (*models.Model, bool) {
	model, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Model not found",
			})
			return nil, false
		}
		logger.WithError(err).Error("Failed to get model")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve model",
		})
		return nil, false
	}
	return model, true
}
