package schema

import "fmt"

// Default values applied during normalization. Health-check defaults match
// the target-group settings used by the serving stack.
const (
	defaultAppName         = "lisa"
	defaultDeploymentStage = "prod"

	defaultHealthCheckPath      = "/health"
	defaultHealthyThreshold     = 2
	defaultUnhealthyThreshold   = 3
	defaultHealthCheckTimeout   = 5
	defaultHealthCheckInterval  = 30
	defaultAutoScalingCooldown  = 420
	defaultAutoScalingTarget    = 60
	defaultOpenSearchDataNodes  = 2
	defaultOpenSearchVolumeGiB  = 20
	defaultOpenSearchNodeType   = "r7g.large.search"
	defaultRdsUsername          = "postgres"
	defaultRdsDbName            = "postgres"
	defaultRdsDbPort            = 5432
	defaultWorkflowPollInterval = 30
	defaultAdminGroup           = "admin"
	defaultJwtGroupsProperty    = "groups"
	defaultBannerTextColor      = "#ffffff"
	defaultBannerBackground     = "#0073bb"
)

// ApplyDefaults fills every unset field with its default value and derives
// the deployment prefix. Normalization is idempotent: applying it to an
// already-normalized configuration changes nothing.
func (c *DeploymentConfig) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = defaultAppName
	}
	if c.DeploymentStage == "" {
		c.DeploymentStage = defaultDeploymentStage
	}
	if c.DeploymentName == "" {
		c.DeploymentName = c.DeploymentStage
	}
	if c.DeploymentPrefix == "" {
		c.DeploymentPrefix = fmt.Sprintf("/%s/%s/%s", c.AppName, c.DeploymentStage, c.DeploymentName)
	}

	if c.AuthConfig != nil {
		if c.AuthConfig.AdminGroup == "" {
			c.AuthConfig.AdminGroup = defaultAdminGroup
		}
		if c.AuthConfig.JwtGroupsProperty == "" {
			c.AuthConfig.JwtGroupsProperty = defaultJwtGroupsProperty
		}
	}

	for i := range c.EcsModels {
		applyModelDefaults(&c.EcsModels[i])
	}
	for i := range c.RagRepositories {
		applyRagDefaults(&c.RagRepositories[i])
	}

	applyRdsDefaults(&c.LiteLLMConfig.DBConfig)

	if c.McpWorkflow.PollIntervalSeconds == 0 {
		c.McpWorkflow.PollIntervalSeconds = defaultWorkflowPollInterval
	}

	if c.SystemBanner != nil {
		if c.SystemBanner.TextColor == "" {
			c.SystemBanner.TextColor = defaultBannerTextColor
		}
		if c.SystemBanner.BackgroundColor == "" {
			c.SystemBanner.BackgroundColor = defaultBannerBackground
		}
	}
}

func applyModelDefaults(m *ModelConfig) {
	if m.ModelName == "" {
		m.ModelName = m.ModelID
	}
	if m.ContainerConfig.Tag == "" {
		m.ContainerConfig.Tag = "latest"
	}

	if m.AutoScaling.MinCapacity == 0 {
		m.AutoScaling.MinCapacity = 1
	}
	if m.AutoScaling.MaxCapacity == 0 {
		m.AutoScaling.MaxCapacity = m.AutoScaling.MinCapacity
	}
	if m.AutoScaling.CooldownSeconds == 0 {
		m.AutoScaling.CooldownSeconds = defaultAutoScalingCooldown
	}
	if m.AutoScaling.TargetValue == 0 {
		m.AutoScaling.TargetValue = defaultAutoScalingTarget
	}

	if m.LoadBalancer.Path == "" {
		m.LoadBalancer.Path = defaultHealthCheckPath
	}
	if m.LoadBalancer.HealthyThresholdCount == 0 {
		m.LoadBalancer.HealthyThresholdCount = defaultHealthyThreshold
	}
	if m.LoadBalancer.UnhealthyThresholdCount == 0 {
		m.LoadBalancer.UnhealthyThresholdCount = defaultUnhealthyThreshold
	}
	if m.LoadBalancer.TimeoutSeconds == 0 {
		m.LoadBalancer.TimeoutSeconds = defaultHealthCheckTimeout
	}
	if m.LoadBalancer.IntervalSeconds == 0 {
		m.LoadBalancer.IntervalSeconds = defaultHealthCheckInterval
	}
}

func applyRagDefaults(r *RagRepositoryConfig) {
	switch r.Type {
	case RagEngineOpenSearch:
		if r.OpenSearchConfig == nil {
			r.OpenSearchConfig = &OpenSearchConfig{}
		}
		if r.OpenSearchConfig.DataNodes == 0 {
			r.OpenSearchConfig.DataNodes = defaultOpenSearchDataNodes
		}
		if r.OpenSearchConfig.DataNodeInstanceType == "" {
			r.OpenSearchConfig.DataNodeInstanceType = defaultOpenSearchNodeType
		}
		if r.OpenSearchConfig.VolumeSizeGiB == 0 {
			r.OpenSearchConfig.VolumeSizeGiB = defaultOpenSearchVolumeGiB
		}
	case RagEnginePgVector:
		if r.RdsConfig == nil {
			r.RdsConfig = &RdsConfig{}
		}
		applyRdsDefaults(r.RdsConfig)
	}
}

func applyRdsDefaults(r *RdsConfig) {
	if r.Username == "" {
		r.Username = defaultRdsUsername
	}
	if r.DbName == "" {
		r.DbName = defaultRdsDbName
	}
	if r.DbPort == 0 {
		r.DbPort = defaultRdsDbPort
	}
}
