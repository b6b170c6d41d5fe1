package models

import "time"

// McpConnection represents a connection to an externally hosted MCP server.
// The platform does not manage the server's lifecycle, only the connection
// record exposed to assistants.
type McpConnection struct {
	Id           string
	Owner        string // user id, or "lisa:public" for shared connections
	Name         string
	Description  string
	URL          string
	ClientConfig map[string]string // transport headers, e.g. auth
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicOwner marks connections visible to every user.
const PublicOwner = "lisa:public"

// CreateMcpConnectionRequest represents the request body for registering an
// external MCP server
type CreateMcpConnectionRequest struct {
	Name         string            `json:"name" binding:"required"`
	Description  string            `json:"description"`
	URL          string            `json:"url" binding:"required,url"`
	ClientConfig map[string]string `json:"client_config"`
	Public       bool              `json:"public"`
}

// ToDomain converts the request DTO to the domain McpConnection
func (req *CreateMcpConnectionRequest) ToDomain() *McpConnection {
	now := time.Now()
	return &McpConnection{
		Name:         req.Name,
		Description:  req.Description,
		URL:          req.URL,
		ClientConfig: req.ClientConfig,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UpdateMcpConnectionRequest represents the mutable fields of a connection
type UpdateMcpConnectionRequest struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	URL          *string           `json:"url"`
	ClientConfig map[string]string `json:"client_config"`
	Active       *bool             `json:"active"`
}

// McpConnectionResponse represents the response structure for a connection
type McpConnectionResponse struct {
	Id           string            `json:"id"`
	Owner        string            `json:"owner"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	URL          string            `json:"url"`
	ClientConfig map[string]string `json:"client_config,omitempty"`
	Active       bool              `json:"active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// McpConnectionListResponse represents the response for listing connections
type McpConnectionListResponse struct {
	Connections []McpConnectionResponse `json:"connections"`
	Total       int                     `json:"total"`
}

// ToResponse converts a domain McpConnection to its response DTO
func (c *McpConnection) ToResponse() McpConnectionResponse {
	return McpConnectionResponse{
		Id:           c.Id,
		Owner:        c.Owner,
		Name:         c.Name,
		Description:  c.Description,
		URL:          c.URL,
		ClientConfig: c.ClientConfig,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
