package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the administration API
type Config struct {
	// Server configuration
	Port     string
	LogLevel string

	// AWS configuration
	AWSRegion    string
	AWSAccountID string

	// Deployment identity; prefixes every managed resource name
	DeploymentPrefix string

	// DynamoDB table names
	ModelsTableName           string
	RagRepositoriesTableName  string
	McpConnectionsTableName   string
	HostedMcpServersTableName string
	AssistantStacksTableName  string
	UserPreferencesTableName  string
	BannersTableName          string

	// Provisioning Lambda handlers, referenced by ARN. The handler bodies
	// live outside this repository.
	DeployServerFunctionArn   string
	PollDeploymentFunctionArn string
	DeleteStackFunctionArn    string
	MonitorDeleteFunctionArn  string

	// Seconds between deployment polls
	PollIntervalSeconds int

	// OIDC auth configuration
	AuthAuthority  string
	AuthAudience   string
	AuthAdminGroup string
}

// New creates a new Config instance by loading environment variables from a
// .env file (if present) and the OS environment. OS environment variables
// take precedence over .env values. Panics if required configuration values
// are missing or invalid.
func New() *Config {
	// Load .env from the directory the binary runs from; ignore if absent
	envPath := filepath.Join(".", ".env")
	_ = godotenv.Load(envPath)

	cfg := &Config{
		// Server configuration
		Port:     getEnvOrDefault("PORT", "8080"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),

		// AWS configuration
		AWSRegion:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSAccountID: os.Getenv("AWS_ACCOUNT_ID"),

		DeploymentPrefix: getEnvOrDefault("DEPLOYMENT_PREFIX", "lisa"),

		// DynamoDB table names
		ModelsTableName:           getEnvOrDefault("MODELS_TABLE_NAME", "Models"),
		RagRepositoriesTableName:  getEnvOrDefault("RAG_REPOSITORIES_TABLE_NAME", "RagRepositories"),
		McpConnectionsTableName:   getEnvOrDefault("MCP_CONNECTIONS_TABLE_NAME", "McpConnections"),
		HostedMcpServersTableName: getEnvOrDefault("HOSTED_MCP_SERVERS_TABLE_NAME", "HostedMcpServers"),
		AssistantStacksTableName:  getEnvOrDefault("ASSISTANT_STACKS_TABLE_NAME", "AssistantStacks"),
		UserPreferencesTableName:  getEnvOrDefault("USER_PREFERENCES_TABLE_NAME", "UserPreferences"),
		BannersTableName:          getEnvOrDefault("BANNERS_TABLE_NAME", "Banners"),

		// Provisioning handlers
		DeployServerFunctionArn:   os.Getenv("DEPLOY_SERVER_FUNCTION_ARN"),
		PollDeploymentFunctionArn: os.Getenv("POLL_DEPLOYMENT_FUNCTION_ARN"),
		DeleteStackFunctionArn:    os.Getenv("DELETE_STACK_FUNCTION_ARN"),
		MonitorDeleteFunctionArn:  os.Getenv("MONITOR_DELETE_FUNCTION_ARN"),

		PollIntervalSeconds: getEnvIntOrDefault("POLL_INTERVAL_SECONDS", 30),

		// OIDC auth configuration (optional; token claims are still parsed
		// without it)
		AuthAuthority:  os.Getenv("AUTH_AUTHORITY"),
		AuthAudience:   os.Getenv("AUTH_AUDIENCE"),
		AuthAdminGroup: getEnvOrDefault("AUTH_ADMIN_GROUP", "admin"),
	}

	cfg.validate()

	return cfg
}

// validate checks that all required configuration values are present and valid
func (c *Config) validate() {
	var missing []string

	if c.AWSAccountID == "" {
		missing = append(missing, "AWS_ACCOUNT_ID")
	}
	if c.DeployServerFunctionArn == "" {
		missing = append(missing, "DEPLOY_SERVER_FUNCTION_ARN")
	}
	if c.PollDeploymentFunctionArn == "" {
		missing = append(missing, "POLL_DEPLOYMENT_FUNCTION_ARN")
	}
	if c.DeleteStackFunctionArn == "" {
		missing = append(missing, "DELETE_STACK_FUNCTION_ARN")
	}
	if c.MonitorDeleteFunctionArn == "" {
		missing = append(missing, "MONITOR_DELETE_FUNCTION_ARN")
	}

	if len(missing) > 0 {
		panic(fmt.Sprintf("Missing required configuration values: %v", missing))
	}

	// AWS account IDs are always 12 digits
	if len(c.AWSAccountID) != 12 || !isNumeric(c.AWSAccountID) {
		panic(fmt.Sprintf("AWS_ACCOUNT_ID must be exactly 12 digits (got '%s')", c.AWSAccountID))
	}

	if c.PollIntervalSeconds < 1 {
		panic(fmt.Sprintf("POLL_INTERVAL_SECONDS must be positive (got %d)", c.PollIntervalSeconds))
	}
}

// isNumeric checks if a string contains only numeric characters
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns an integer environment variable or a default value
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
