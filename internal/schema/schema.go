// Package schema defines the deployment configuration for the platform and
// validates it before any infrastructure is synthesized. A configuration is
// loaded once from a JSON or YAML file, normalized with defaults, checked
// against the cross-field rules, and then treated as immutable.
package schema

// DeploymentConfig is the root of the deployment configuration file.
type DeploymentConfig struct {
	AppName         string `json:"appName" yaml:"appName"`
	DeploymentName  string `json:"deploymentName" yaml:"deploymentName"`
	DeploymentStage string `json:"deploymentStage" yaml:"deploymentStage"`
	// DeploymentPrefix is derived from the three fields above when empty
	DeploymentPrefix string `json:"deploymentPrefix" yaml:"deploymentPrefix"`

	Region        string `json:"region" yaml:"region"`
	AccountNumber string `json:"accountNumber" yaml:"accountNumber"`
	Profile       string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// Feature toggles. Unset values default to true.
	DeployChat    *bool `json:"deployChat,omitempty" yaml:"deployChat,omitempty"`
	DeployRag     *bool `json:"deployRag,omitempty" yaml:"deployRag,omitempty"`
	DeployUi      *bool `json:"deployUi,omitempty" yaml:"deployUi,omitempty"`
	DeployMetrics *bool `json:"deployMetrics,omitempty" yaml:"deployMetrics,omitempty"`

	AuthConfig *AuthConfig `json:"authConfig,omitempty" yaml:"authConfig,omitempty"`
	PypiConfig PypiConfig  `json:"pypiConfig,omitempty" yaml:"pypiConfig,omitempty"`

	Networking NetworkingConfig `json:"networking,omitempty" yaml:"networking,omitempty"`

	EcsModels       []ModelConfig         `json:"ecsModels,omitempty" yaml:"ecsModels,omitempty"`
	RagRepositories []RagRepositoryConfig `json:"ragRepositories,omitempty" yaml:"ragRepositories,omitempty"`

	LiteLLMConfig LiteLLMConfig `json:"litellmConfig,omitempty" yaml:"litellmConfig,omitempty"`

	// Provisioning Lambda handlers for hosted MCP servers, by ARN
	McpWorkflow McpWorkflowConfig `json:"mcpWorkflow,omitempty" yaml:"mcpWorkflow,omitempty"`

	// Optional overrides for IAM role names, keyed by logical role
	RoleOverrides map[string]string `json:"roleOverrides,omitempty" yaml:"roleOverrides,omitempty"`

	SystemBanner *BannerConfig `json:"systemBanner,omitempty" yaml:"systemBanner,omitempty"`
}

// AuthConfig describes the OIDC identity provider used by the chat, RAG and
// UI stacks.
type AuthConfig struct {
	Authority         string `json:"authority" yaml:"authority"`
	ClientID          string `json:"clientId" yaml:"clientId"`
	AdminGroup        string `json:"adminGroup,omitempty" yaml:"adminGroup,omitempty"`
	JwtGroupsProperty string `json:"jwtGroupsProperty,omitempty" yaml:"jwtGroupsProperty,omitempty"`
}

// PypiConfig points package installs at a private index. Required in
// restricted (iso) partitions where the public index is unreachable.
type PypiConfig struct {
	IndexURL    string `json:"indexUrl,omitempty" yaml:"indexUrl,omitempty"`
	TrustedHost string `json:"trustedHost,omitempty" yaml:"trustedHost,omitempty"`
}

// NetworkingConfig selects an existing VPC and optional security-group
// overrides. When VpcID is empty a new VPC is created at synthesis.
type NetworkingConfig struct {
	VpcID                  string                  `json:"vpcId,omitempty" yaml:"vpcId,omitempty"`
	SubnetIDs              []string                `json:"subnetIds,omitempty" yaml:"subnetIds,omitempty"`
	SecurityGroupOverrides *SecurityGroupOverrides `json:"securityGroupOverrides,omitempty" yaml:"securityGroupOverrides,omitempty"`
}

// SecurityGroupOverrides carries pre-existing security-group ids, one per
// managed surface.
type SecurityGroupOverrides struct {
	ModelSecurityGroupID   string `json:"modelSecurityGroupId,omitempty" yaml:"modelSecurityGroupId,omitempty"`
	RestAPISecurityGroupID string `json:"restApiSecurityGroupId,omitempty" yaml:"restApiSecurityGroupId,omitempty"`
	LiteLLMSecurityGroupID string `json:"litellmSecurityGroupId,omitempty" yaml:"litellmSecurityGroupId,omitempty"`
}

// ModelConfig describes one ECS-hosted model.
type ModelConfig struct {
	ModelID      string `json:"modelId" yaml:"modelId"`
	ModelName    string `json:"modelName,omitempty" yaml:"modelName,omitempty"`
	InstanceType string `json:"instanceType,omitempty" yaml:"instanceType,omitempty"`
	Streaming    *bool  `json:"streaming,omitempty" yaml:"streaming,omitempty"`

	ContainerConfig ContainerConfig   `json:"containerConfig,omitempty" yaml:"containerConfig,omitempty"`
	AutoScaling     AutoScalingConfig `json:"autoScalingConfig,omitempty" yaml:"autoScalingConfig,omitempty"`
	LoadBalancer    HealthCheckConfig `json:"loadBalancerHealthCheck,omitempty" yaml:"loadBalancerHealthCheck,omitempty"`

	Environment map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// ContainerConfig identifies the serving container image.
type ContainerConfig struct {
	Image        string `json:"image,omitempty" yaml:"image,omitempty"`
	Tag          string `json:"tag,omitempty" yaml:"tag,omitempty"`
	SharedMemGiB int    `json:"sharedMemoryGib,omitempty" yaml:"sharedMemoryGib,omitempty"`
}

// AutoScalingConfig bounds the ECS service capacity.
type AutoScalingConfig struct {
	MinCapacity     int `json:"minCapacity,omitempty" yaml:"minCapacity,omitempty"`
	MaxCapacity     int `json:"maxCapacity,omitempty" yaml:"maxCapacity,omitempty"`
	CooldownSeconds int `json:"cooldownSeconds,omitempty" yaml:"cooldownSeconds,omitempty"`
	// TargetValue is the target request count per instance for scaling
	TargetValue int `json:"targetValue,omitempty" yaml:"targetValue,omitempty"`
}

// HealthCheckConfig configures the load-balancer target-group health check.
type HealthCheckConfig struct {
	Path                    string `json:"path,omitempty" yaml:"path,omitempty"`
	Port                    int    `json:"port,omitempty" yaml:"port,omitempty"`
	HealthyThresholdCount   int    `json:"healthyThresholdCount,omitempty" yaml:"healthyThresholdCount,omitempty"`
	UnhealthyThresholdCount int    `json:"unhealthyThresholdCount,omitempty" yaml:"unhealthyThresholdCount,omitempty"`
	TimeoutSeconds          int    `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	IntervalSeconds         int    `json:"intervalSeconds,omitempty" yaml:"intervalSeconds,omitempty"`
}

// Vector store engines for RAG repositories.
const (
	RagEngineOpenSearch = "opensearch"
	RagEnginePgVector   = "pgvector"
)

// RagRepositoryConfig describes one vector-store-backed document collection.
// Exactly one engine block must be present, matching Type.
type RagRepositoryConfig struct {
	RepositoryID     string            `json:"repositoryId" yaml:"repositoryId"`
	Type             string            `json:"type" yaml:"type"`
	OpenSearchConfig *OpenSearchConfig `json:"opensearchConfig,omitempty" yaml:"opensearchConfig,omitempty"`
	RdsConfig        *RdsConfig        `json:"rdsConfig,omitempty" yaml:"rdsConfig,omitempty"`
}

// OpenSearchConfig sizes the OpenSearch domain backing a repository.
type OpenSearchConfig struct {
	DataNodes            int    `json:"dataNodes,omitempty" yaml:"dataNodes,omitempty"`
	DataNodeInstanceType string `json:"dataNodeInstanceType,omitempty" yaml:"dataNodeInstanceType,omitempty"`
	VolumeSizeGiB        int    `json:"volumeSize,omitempty" yaml:"volumeSize,omitempty"`
	MultiAzWithStandby   *bool  `json:"multiAzWithStandby,omitempty" yaml:"multiAzWithStandby,omitempty"`
}

// RdsConfig describes a Postgres database. A non-empty DbHost marks an
// externally managed database that the deployment will connect to instead of
// creating.
type RdsConfig struct {
	Username         string `json:"username,omitempty" yaml:"username,omitempty"`
	DbHost           string `json:"dbHost,omitempty" yaml:"dbHost,omitempty"`
	DbName           string `json:"dbName,omitempty" yaml:"dbName,omitempty"`
	DbPort           int    `json:"dbPort,omitempty" yaml:"dbPort,omitempty"`
	PasswordSecretID string `json:"passwordSecretId,omitempty" yaml:"passwordSecretId,omitempty"`
}

// LiteLLMConfig configures the model routing proxy and its backing database.
type LiteLLMConfig struct {
	DBConfig RdsConfig `json:"dbConfig,omitempty" yaml:"dbConfig,omitempty"`
}

// McpWorkflowConfig carries the Lambda handler ARNs sequenced by the hosted
// MCP server state machines.
type McpWorkflowConfig struct {
	DeployServerFunctionArn   string `json:"deployServerFunctionArn,omitempty" yaml:"deployServerFunctionArn,omitempty"`
	PollDeploymentFunctionArn string `json:"pollDeploymentFunctionArn,omitempty" yaml:"pollDeploymentFunctionArn,omitempty"`
	SetStatusFunctionArn      string `json:"setStatusFunctionArn,omitempty" yaml:"setStatusFunctionArn,omitempty"`
	DeleteStackFunctionArn    string `json:"deleteStackFunctionArn,omitempty" yaml:"deleteStackFunctionArn,omitempty"`
	MonitorDeleteFunctionArn  string `json:"monitorDeleteFunctionArn,omitempty" yaml:"monitorDeleteFunctionArn,omitempty"`
	HandleFailureFunctionArn  string `json:"handleFailureFunctionArn,omitempty" yaml:"handleFailureFunctionArn,omitempty"`
	PollIntervalSeconds       int    `json:"pollIntervalSeconds,omitempty" yaml:"pollIntervalSeconds,omitempty"`
}

// BannerConfig is the default system banner shown by the UI.
type BannerConfig struct {
	Text            string `json:"text,omitempty" yaml:"text,omitempty"`
	TextColor       string `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
}

// ChatDeployed reports whether the chat API stack is enabled.
func (c *DeploymentConfig) ChatDeployed() bool { return boolValue(c.DeployChat, true) }

// RagDeployed reports whether the RAG stack is enabled.
func (c *DeploymentConfig) RagDeployed() bool { return boolValue(c.DeployRag, true) }

// UiDeployed reports whether the UI stack is enabled.
func (c *DeploymentConfig) UiDeployed() bool { return boolValue(c.DeployUi, true) }

// MetricsDeployed reports whether the metrics stack is enabled.
func (c *DeploymentConfig) MetricsDeployed() bool { return boolValue(c.DeployMetrics, true) }

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
