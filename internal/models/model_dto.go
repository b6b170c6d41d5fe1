package models

import "time"

// CreateModelRequest represents the request body for adding a model to the
// library
type CreateModelRequest struct {
	ModelID        string           `json:"model_id" binding:"required"`
	ModelName      string           `json:"model_name" binding:"required"`
	ModelType      string           `json:"model_type" binding:"required,oneof=textgen embedding"`
	Description    string           `json:"description"`
	Streaming      bool             `json:"streaming"`
	ModelURL       string           `json:"model_url"`
	InstanceType   string           `json:"instance_type"`
	ContainerImage string           `json:"container_image"`
	AutoScaling    ModelAutoScaling `json:"auto_scaling"`
	Features       []string         `json:"features"`
}

// ToDomain converts CreateModelRequest to the domain Model
func (req *CreateModelRequest) ToDomain() *Model {
	now := time.Now()
	return &Model{
		ModelID:        req.ModelID,
		ModelName:      req.ModelName,
		ModelType:      req.ModelType,
		Description:    req.Description,
		Streaming:      req.Streaming,
		ModelURL:       req.ModelURL,
		InstanceType:   req.InstanceType,
		ContainerImage: req.ContainerImage,
		AutoScaling:    req.AutoScaling,
		Features:       req.Features,
		Status:         StatusCreating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdateModelRequest represents the mutable fields of a model
type UpdateModelRequest struct {
	ModelName   *string           `json:"model_name"`
	Description *string           `json:"description"`
	Streaming   *bool             `json:"streaming"`
	AutoScaling *ModelAutoScaling `json:"auto_scaling"`
}

// ModelResponse represents the response structure for a single model
type ModelResponse struct {
	UniqueID       string           `json:"unique_id"`
	ModelID        string           `json:"model_id"`
	ModelName      string           `json:"model_name"`
	ModelType      string           `json:"model_type"`
	Description    string           `json:"description"`
	Streaming      bool             `json:"streaming"`
	ModelURL       string           `json:"model_url,omitempty"`
	InstanceType   string           `json:"instance_type,omitempty"`
	ContainerImage string           `json:"container_image,omitempty"`
	AutoScaling    ModelAutoScaling `json:"auto_scaling"`
	Features       []string         `json:"features"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ModelListResponse represents the response structure for listing models
type ModelListResponse struct {
	Models []ModelResponse `json:"models"`
	Total  int             `json:"total"`
}

// ToResponse converts a domain Model to a ModelResponse DTO
func (m *Model) ToResponse() ModelResponse {
	return ModelResponse{
		UniqueID:       m.UniqueID,
		ModelID:        m.ModelID,
		ModelName:      m.ModelName,
		ModelType:      m.ModelType,
		Description:    m.Description,
		Streaming:      m.Streaming,
		ModelURL:       m.ModelURL,
		InstanceType:   m.InstanceType,
		ContainerImage: m.ContainerImage,
		AutoScaling:    m.AutoScaling,
		Features:       m.Features,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
