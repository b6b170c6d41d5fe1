package models

import "time"

// HostedMcpServer represents an MCP server provisioned and run by the
// platform as a managed container. Its lifecycle is driven by the
// provisioning engine; Status and StackArn reflect engine progress.
type HostedMcpServer struct {
	Id                   string
	Owner                string
	Name                 string
	Description          string
	ContainerImage       string
	ImageRepositoryName  string // platform-managed image repository
	ImageRepositoryURI   string
	EnvironmentVariables []EnvironmentVariable
	Status               string // creating, active, deleting, failed
	StatusReason         string // populated when Status is failed
	StackArn             string // CloudFormation stack backing the server
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
