package models

import "time"

// RAG repository engines
const (
	RagEngineOpenSearch = "opensearch"
	RagEnginePgVector   = "pgvector"
)

// RagRepository represents a vector-store-backed document collection used
// for retrieval-augmented generation.
type RagRepository struct {
	RepositoryID   string
	RepositoryName string
	Type           string // opensearch or pgvector
	EmbeddingModel string // model id from the model library
	AllowedGroups  []string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateRagRepositoryRequest represents the request body for creating a RAG
// repository
type CreateRagRepositoryRequest struct {
	RepositoryID   string   `json:"repository_id" binding:"required"`
	RepositoryName string   `json:"repository_name"`
	Type           string   `json:"type" binding:"required,oneof=opensearch pgvector"`
	EmbeddingModel string   `json:"embedding_model" binding:"required"`
	AllowedGroups  []string `json:"allowed_groups"`
}

// ToDomain converts the request DTO to the domain RagRepository
func (req *CreateRagRepositoryRequest) ToDomain() *RagRepository {
	now := time.Now()
	name := req.RepositoryName
	if name == "" {
		name = req.RepositoryID
	}
	return &RagRepository{
		RepositoryID:   req.RepositoryID,
		RepositoryName: name,
		Type:           req.Type,
		EmbeddingModel: req.EmbeddingModel,
		AllowedGroups:  req.AllowedGroups,
		Status:         StatusCreating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// RagRepositoryResponse represents the response structure for a repository
type RagRepositoryResponse struct {
	RepositoryID   string    `json:"repository_id"`
	RepositoryName string    `json:"repository_name"`
	Type           string    `json:"type"`
	EmbeddingModel string    `json:"embedding_model"`
	AllowedGroups  []string  `json:"allowed_groups"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RagRepositoryListResponse represents the response for listing repositories
type RagRepositoryListResponse struct {
	Repositories []RagRepositoryResponse `json:"repositories"`
	Total        int                     `json:"total"`
}

// ToResponse converts a domain RagRepository to its response DTO
func (r *RagRepository) ToResponse() RagRepositoryResponse {
	return RagRepositoryResponse{
		RepositoryID:   r.RepositoryID,
		RepositoryName: r.RepositoryName,
		Type:           r.Type,
		EmbeddingModel: r.EmbeddingModel,
		AllowedGroups:  r.AllowedGroups,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
