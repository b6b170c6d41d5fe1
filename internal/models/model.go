package models

import "time"

// Model represents an entry in the model library: an LLM served by the
// platform, either hosted on ECS or proxied from an external endpoint.
// This is a database-agnostic business entity.
type Model struct {
	UniqueID       string // internal record id
	ModelID        string // routing id, e.g. "mistral-7b-instruct"
	ModelName      string
	ModelType      string // "textgen" or "embedding"
	Description    string
	Streaming      bool
	ModelURL       string // set for external models; empty for ECS-hosted ones
	InstanceType   string
	ContainerImage string
	AutoScaling    ModelAutoScaling
	Features       []string
	Status         string // creating, in_service, stopping, stopped, updating, deleting, failed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ModelAutoScaling bounds the capacity of an ECS-hosted model.
type ModelAutoScaling struct {
	MinCapacity     int `json:"min_capacity" dynamodbav:"MinCapacity"`
	MaxCapacity     int `json:"max_capacity" dynamodbav:"MaxCapacity"`
	DesiredCapacity int `json:"desired_capacity" dynamodbav:"DesiredCapacity"`
}

// Hosted reports whether the model runs on platform-managed ECS capacity.
func (m *Model) Hosted() bool {
	return m.ModelURL == ""
}
