package models

import "time"

// AssistantStack represents a chat-assistant configuration exposed to end
// users: a bundle of models, RAG repositories, MCP servers and a system
// prompt.
type AssistantStack struct {
	Id            string
	Owner         string
	Name          string
	Description   string
	SystemPrompt  string
	ModelIDs      []string
	RepositoryIDs []string
	McpServerIDs  []string
	AllowedGroups []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateAssistantStackRequest represents the request body for bundling an
// assistant stack
type CreateAssistantStackRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	SystemPrompt  string   `json:"system_prompt"`
	ModelIDs      []string `json:"model_ids" binding:"required,min=1"`
	RepositoryIDs []string `json:"repository_ids"`
	McpServerIDs  []string `json:"mcp_server_ids"`
	AllowedGroups []string `json:"allowed_groups"`
}

// ToDomain converts the request DTO to the domain AssistantStack
func (req *CreateAssistantStackRequest) ToDomain() *AssistantStack {
	now := time.Now()
	return &AssistantStack{
		Name:          req.Name,
		Description:   req.Description,
		SystemPrompt:  req.SystemPrompt,
		ModelIDs:      req.ModelIDs,
		RepositoryIDs: req.RepositoryIDs,
		McpServerIDs:  req.McpServerIDs,
		AllowedGroups: req.AllowedGroups,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AssistantStackResponse represents the response structure for an assistant
// stack
type AssistantStackResponse struct {
	Id            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	SystemPrompt  string    `json:"system_prompt"`
	ModelIDs      []string  `json:"model_ids"`
	RepositoryIDs []string  `json:"repository_ids"`
	McpServerIDs  []string  `json:"mcp_server_ids"`
	AllowedGroups []string  `json:"allowed_groups"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AssistantStackListResponse represents the response for listing stacks
type AssistantStackListResponse struct {
	Stacks []AssistantStackResponse `json:"stacks"`
	Total  int                      `json:"total"`
}

// ToResponse converts a domain AssistantStack to its response DTO
func (a *AssistantStack) ToResponse() AssistantStackResponse {
	return AssistantStackResponse{
		Id:            a.Id,
		Owner:         a.Owner,
		Name:          a.Name,
		Description:   a.Description,
		SystemPrompt:  a.SystemPrompt,
		ModelIDs:      a.ModelIDs,
		RepositoryIDs: a.RepositoryIDs,
		McpServerIDs:  a.McpServerIDs,
		AllowedGroups: a.AllowedGroups,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
