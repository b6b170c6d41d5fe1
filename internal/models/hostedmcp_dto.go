package models

import "time"

// CreateHostedMcpServerRequest represents the request body for provisioning
// a hosted MCP server
type CreateHostedMcpServerRequest struct {
	Name                 string                `json:"name" binding:"required"`
	Description          string                `json:"description"`
	ContainerImage       string                `json:"container_image" binding:"required"`
	EnvironmentVariables []EnvironmentVariable `json:"envs"`
}

// ToDomain converts the request DTO to the domain HostedMcpServer
func (req *CreateHostedMcpServerRequest) ToDomain() *HostedMcpServer {
	now := time.Now()
	return &HostedMcpServer{
		Name:                 req.Name,
		Description:          req.Description,
		ContainerImage:       req.ContainerImage,
		EnvironmentVariables: req.EnvironmentVariables,
		Status:               StatusCreating,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// HostedMcpServerResponse represents the response structure for a hosted
// server
type HostedMcpServerResponse struct {
	Id                   string                `json:"id"`
	Owner                string                `json:"owner"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	ContainerImage       string                `json:"container_image"`
	ImageRepositoryURI   string                `json:"image_repository_uri,omitempty"`
	EnvironmentVariables []EnvironmentVariable `json:"envs"`
	Status               string                `json:"status"`
	StatusReason         string                `json:"status_reason,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// HostedMcpServerListResponse represents the response for listing hosted
// servers
type HostedMcpServerListResponse struct {
	Servers []HostedMcpServerResponse `json:"servers"`
	Total   int                       `json:"total"`
}

// ToResponse converts a domain HostedMcpServer to its response DTO. The
// stack ARN is internal and deliberately left out.
func (s *HostedMcpServer) ToResponse() HostedMcpServerResponse {
	return HostedMcpServerResponse{
		Id:                   s.Id,
		Owner:                s.Owner,
		Name:                 s.Name,
		Description:          s.Description,
		ContainerImage:       s.ContainerImage,
		ImageRepositoryURI:   s.ImageRepositoryURI,
		EnvironmentVariables: s.EnvironmentVariables,
		Status:               s.Status,
		StatusReason:         s.StatusReason,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
