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

// BannerHandler handles system banner requests
type BannerHandler struct {
	repo repository.BannerRepository
}

// NewBannerHandler creates a new banner handler
func NewBannerHandler(repo repository.BannerRepository) *BannerHandler {
	return &BannerHandler{
		repo: repo,
	}
}

// Get handles retrieving the current banner. A missing record means no
// banner is configured, which is not an error for the UI.
func (h *BannerHandler) Get(c *gin.Context) {
	banner, err := h.repo.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusOK, models.Banner{Active: false})
			return
		}
		logger.WithError(err).Error("Failed to get banner")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve banner",
		})
		return
	}

	c.JSON(http.StatusOK, banner)
}

// Put handles replacing the system banner
func (h *BannerHandler) Put(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.PutBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	banner := req.ToDomain(userID)
	if err := h.repo.Put(c.Request.Context(), banner); err != nil {
		logger.WithError(err).Error("Failed to put banner")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update banner",
		})
		return
	}

	c.JSON(http.StatusOK, banner)
}

// Delete handles clearing the system banner
func (h *BannerHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context()); err != nil {
		logger.WithError(err).Error("Failed to delete banner")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to clear banner",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// UserPreferencesHandler handles per-user settings requests
type UserPreferencesHandler struct {
	repo repository.UserPreferencesRepository
}

// NewUserPreferencesHandler creates a new preferences handler
func NewUserPreferencesHandler(repo repository.UserPreferencesRepository) *UserPreferencesHandler {
	return &UserPreferencesHandler{
		repo: repo,
	}
}

// Get handles retrieving the caller's preferences. A user with no stored
// record gets the defaults.
func (h *UserPreferencesHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	prefs, err := h.repo.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusOK, models.UserPreferences{
				UserID:           userID,
				StreamingEnabled: true,
			})
			return
		}
		logger.WithError(err).Error("Failed to get user preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to retrieve preferences",
		})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Put handles replacing the caller's preferences
func (h *UserPreferencesHandler) Put(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.PutUserPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	prefs := req.ToDomain(userID)
	if err := h.repo.Put(c.Request.Context(), prefs); err != nil {
		logger.WithError(err).Error("Failed to put user preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to update preferences",
		})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
