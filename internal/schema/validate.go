package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Issue is a single validation finding, annotated with the dot/bracket path
// of the offending field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError aggregates every issue found in one pass. Validation never
// fails fast; callers get the complete list.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("invalid deployment configuration: %s", strings.Join(msgs, "; "))
}

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validate checks the normalized configuration against the cross-field rules
// and returns every issue found. An empty result means the configuration is
// deployable.
func (c *DeploymentConfig) Validate() []Issue {
	var issues []Issue

	add := func(path, format string, args ...interface{}) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.Region == "" {
		add("region", "region is required")
	}

	if len(c.AccountNumber) != 12 || !allDigits(c.AccountNumber) {
		add("accountNumber", "account number must be exactly 12 digits")
	}

	// Restricted partitions cannot reach the public package index
	if strings.Contains(c.Region, "iso") && c.PypiConfig.IndexURL == "" {
		add("pypiConfig.indexUrl", "a private PyPI index URL is required in iso regions")
	}

	// Dependent stacks: the UI serves the chat API, and RAG is only
	// reachable through the UI
	if c.UiDeployed() && !c.ChatDeployed() {
		add("deployChat", "the chat stack must be deployed when the UI is deployed")
	}
	if c.RagDeployed() && !c.UiDeployed() {
		add("deployUi", "the UI stack must be deployed when RAG is deployed")
	}
	if (c.ChatDeployed() || c.RagDeployed() || c.UiDeployed()) && c.AuthConfig == nil {
		add("authConfig", "an auth config must be provided when chat, RAG, or UI is deployed")
	}
	if c.AuthConfig != nil {
		if c.AuthConfig.Authority == "" {
			add("authConfig.authority", "authority is required")
		}
		if c.AuthConfig.ClientID == "" {
			add("authConfig.clientId", "client id is required")
		}
	}

	// LiteLLM owns its database; pointing it at an existing endpoint would
	// bypass the managed schema
	if c.LiteLLMConfig.DBConfig.DbHost != "" {
		add("litellmConfig.dbConfig.dbHost", "the LiteLLM database cannot be an externally managed database")
	}

	issues = append(issues, c.validateModels()...)
	issues = append(issues, c.validateRagRepositories()...)

	return issues
}

func (c *DeploymentConfig) validateModels() []Issue {
	var issues []Issue
	seen := make(map[string]bool)

	for i, m := range c.EcsModels {
		path := fmt.Sprintf("ecsModels[%d]", i)

		if m.ModelID == "" {
			issues = append(issues, Issue{Path: path + ".modelId", Message: "model id is required"})
			continue
		}
		if !idPattern.MatchString(m.ModelID) {
			issues = append(issues, Issue{
				Path:    path + ".modelId",
				Message: fmt.Sprintf("model id %q may only contain letters, digits, '.', '_' and '-'", m.ModelID),
			})
		}
		if seen[m.ModelID] {
			issues = append(issues, Issue{
				Path:    path + ".modelId",
				Message: fmt.Sprintf("duplicate model id %q", m.ModelID),
			})
		}
		seen[m.ModelID] = true

		if m.ContainerConfig.Image == "" {
			issues = append(issues, Issue{Path: path + ".containerConfig.image", Message: "container image is required"})
		}

		as := m.AutoScaling
		if as.MinCapacity < 0 {
			issues = append(issues, Issue{Path: path + ".autoScalingConfig.minCapacity", Message: "minimum capacity cannot be negative"})
		}
		if as.MaxCapacity < as.MinCapacity {
			issues = append(issues, Issue{
				Path:    path + ".autoScalingConfig.maxCapacity",
				Message: fmt.Sprintf("maximum capacity (%d) cannot be below minimum capacity (%d)", as.MaxCapacity, as.MinCapacity),
			})
		}

		hc := m.LoadBalancer
		if !strings.HasPrefix(hc.Path, "/") {
			issues = append(issues, Issue{Path: path + ".loadBalancerHealthCheck.path", Message: "health check path must start with '/'"})
		}
		if hc.TimeoutSeconds >= hc.IntervalSeconds {
			issues = append(issues, Issue{
				Path:    path + ".loadBalancerHealthCheck.timeoutSeconds",
				Message: "health check timeout must be shorter than its interval",
			})
		}
	}

	return issues
}

func (c *DeploymentConfig) validateRagRepositories() []Issue {
	var issues []Issue
	seen := make(map[string]bool)

	for i, r := range c.RagRepositories {
		path := fmt.Sprintf("ragRepositories[%d]", i)

		if r.RepositoryID == "" {
			issues = append(issues, Issue{Path: path + ".repositoryId", Message: "repository id is required"})
		} else {
			if !idPattern.MatchString(r.RepositoryID) {
				issues = append(issues, Issue{
					Path:    path + ".repositoryId",
					Message: fmt.Sprintf("repository id %q may only contain letters, digits, '.', '_' and '-'", r.RepositoryID),
				})
			}
			if seen[r.RepositoryID] {
				issues = append(issues, Issue{
					Path:    path + ".repositoryId",
					Message: fmt.Sprintf("duplicate repository id %q", r.RepositoryID),
				})
			}
			seen[r.RepositoryID] = true
		}

		switch r.Type {
		case RagEngineOpenSearch:
			if r.RdsConfig != nil {
				issues = append(issues, Issue{Path: path + ".rdsConfig", Message: "rdsConfig is not valid for an opensearch repository"})
			}
		case RagEnginePgVector:
			if r.OpenSearchConfig != nil {
				issues = append(issues, Issue{Path: path + ".opensearchConfig", Message: "opensearchConfig is not valid for a pgvector repository"})
			}
			// PGVector repositories always get their own database
			if r.RdsConfig != nil && r.RdsConfig.DbHost != "" {
				issues = append(issues, Issue{
					Path:    path + ".rdsConfig.dbHost",
					Message: "a pgvector repository cannot reuse an externally managed database",
				})
			}
		default:
			issues = append(issues, Issue{
				Path:    path + ".type",
				Message: fmt.Sprintf("unknown repository type %q (expected %q or %q)", r.Type, RagEngineOpenSearch, RagEnginePgVector),
			})
		}
	}

	return issues
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
