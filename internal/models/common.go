package models

// EnvironmentVariable is a name/value pair passed to a hosted container
type EnvironmentVariable struct {
	Name     string `json:"name" dynamodbav:"Name" binding:"required"`
	Value    string `json:"value" dynamodbav:"Value" binding:"required"`
	IsSecret bool   `json:"is_secret" dynamodbav:"IsSecret"`
}

// Lifecycle statuses shared by models and hosted MCP servers. The
// provisioning engine moves records through these in order; Failed is
// terminal until the operator retries.
const (
	StatusCreating  = "creating"
	StatusInService = "in_service"
	StatusActive    = "active"
	StatusStopping  = "stopping"
	StatusStopped   = "stopped"
	StatusUpdating  = "updating"
	StatusDeleting  = "deleting"
	StatusFailed    = "failed"
)
