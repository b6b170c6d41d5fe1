package handlers

import (
	"io"
	"net/http"

	"github.com/awslabs/lisa-admin/internal/schema"
	"github.com/gin-gonic/gin"
)

// ConfigHandler validates deployment configurations against the schema
// without touching any infrastructure
type ConfigHandler struct{}

// NewConfigHandler creates a new config handler
func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// Validate handles checking a posted deployment configuration. JSON and
// YAML bodies are both accepted; the response carries either the normalized
// configuration or the collected issue list.
func (h *ConfigHandler) Validate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Failed to read request body",
		})
		return
	}

	format := ".yaml"
	if c.ContentType() == "application/json" {
		format = ".json"
	}

	cfg, err := schema.Parse(body, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	cfg.ApplyDefaults()

	if issues := cfg.Validate(); len(issues) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"valid":  false,
			"issues": issues,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"config": cfg,
	})
}
