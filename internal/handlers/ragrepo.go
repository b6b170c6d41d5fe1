package handlers

import (
	"errors"
	"net/http"

	"github.com/awslabs/lisa-admin/internal/database"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/gin-gonic/gin"
)

// RagRepositoryHandler handles RAG repository requests
type RagRepositoryHandler struct {
	repo      repository.RagRepositoryRepository
	modelRepo repository.ModelRepository
}

// NewRagRepositoryHandler creates a new RAG repository handler
func NewRagRepositoryHandler(repo repository.RagRepositoryRepository, modelRepo repository.ModelRepository) *RagRepositoryHandler {
	return &RagRepositoryHandler{
		repo:      repo,
		modelRepo: modelRepo,
	}
}

// Create handles registering a new RAG repository
func (h *RagRepositoryHandler) Create(c *gin.Context) {
	var req models.CreateRagRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	// The embedding model must exist in the library before documents can
	// be ingested against it
	if !h.embeddingModelExists(c, req.EmbeddingModel) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Embedding model is not registered in the model library",
		})
		return
	}

	repo := req.ToDomain()

	if err := h.repo.Create(c.Request.Context(), repo); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"message": "RAG repository already exists",
			})
			return
		}
		logger.WithError(err).Error("Failed to create RAG repository")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create RAG repository",
		})
		return
	}

	c.JSON(http.StatusCreated, repo.ToResponse())
}

// List handles listing all RAG repositories
func (h *RagRepositoryHandler) List(c *gin.Context) {
	repos, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to list RAG repositories")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve RAG repositories",
		})
		return
	}

	responses := make([]models.RagRepositoryResponse, 0, len(repos))
	for _, repo := range repos {
		responses = append(responses, repo.ToResponse())
	}

	c.JSON(http.StatusOK, models.RagRepositoryListResponse{
		Repositories: responses,
		Total:        len(responses),
	})
}

// Get handles retrieving a single RAG repository
func (h *RagRepositoryHandler) Get(c *gin.Context) {
	repo, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "RAG repository not found",
			})
			return
		}
		logger.WithError(err).Error("Failed to get RAG repository")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve RAG repository",
		})
		return
	}

	c.JSON(http.StatusOK, repo.ToResponse())
}

// Delete handles removing a RAG repository
func (h *RagRepositoryHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "RAG repository not found",
			})
			return
		}
		logger.WithError(err).Error("Failed to delete RAG repository")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to delete RAG repository",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// embeddingModelExists checks whether the given model id is registered as
// an embedding model
func (h *RagRepositoryHandler) embeddingModelExists(c *gin.Context, modelID string) bool {
	items, err := h.modelRepo.GetAll(c.Request.Context())
	if err != nil {
		logger.WithError(err).Warn("Could not verify embedding model, allowing request")
		return true
	}
	for _, m := range items {
		if m.ModelID == modelID && m.ModelType == "embedding" {
			return true
		}
	}
	return false
}
