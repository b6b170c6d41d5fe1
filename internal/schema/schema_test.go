package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

// validConfig returns a configuration that passes every cross-field rule.
func validConfig() *DeploymentConfig {
	return &DeploymentConfig{
		AppName:        "lisa",
		DeploymentName: "dev",
		Region:         "us-east-1",
		AccountNumber:  "123456789012",
		AuthConfig: &AuthConfig{
			Authority: "https://auth.example.com",
			ClientID:  "web-client",
		},
		EcsModels: []ModelConfig{
			{
				ModelID:         "mistral-7b",
				ContainerConfig: ContainerConfig{Image: "vllm/vllm-openai"},
			},
		},
		RagRepositories: []RagRepositoryConfig{
			{RepositoryID: "docs", Type: RagEngineOpenSearch},
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if issues := cfg.Validate(); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	first, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	cfg.ApplyDefaults()

	second, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("second normalization changed the config:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestApplyDefaults_FillsExpectedValues(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.DeploymentPrefix != "/lisa/prod/dev" {
		t.Errorf("deployment prefix = %q, want %q", cfg.DeploymentPrefix, "/lisa/prod/dev")
	}

	m := cfg.EcsModels[0]
	if m.ModelName != "mistral-7b" {
		t.Errorf("model name = %q, want model id", m.ModelName)
	}
	if m.LoadBalancer.Path != "/health" {
		t.Errorf("health check path = %q, want /health", m.LoadBalancer.Path)
	}
	if m.AutoScaling.MinCapacity != 1 || m.AutoScaling.MaxCapacity != 1 {
		t.Errorf("autoscaling capacity = %d..%d, want 1..1", m.AutoScaling.MinCapacity, m.AutoScaling.MaxCapacity)
	}

	r := cfg.RagRepositories[0]
	if r.OpenSearchConfig == nil || r.OpenSearchConfig.DataNodes != 2 {
		t.Errorf("opensearch defaults not applied: %+v", r.OpenSearchConfig)
	}
}

func findIssue(issues []Issue, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_UiRequiresChat(t *testing.T) {
	cfg := validConfig()
	cfg.DeployUi = boolPtr(true)
	cfg.DeployChat = boolPtr(false)
	cfg.DeployRag = boolPtr(false)
	cfg.ApplyDefaults()

	issue := findIssue(cfg.Validate(), "deployChat")
	if issue == nil {
		t.Fatal("expected an issue at deployChat")
	}
	if !strings.Contains(issue.Message, "chat stack must be deployed") {
		t.Errorf("unexpected message: %q", issue.Message)
	}
}

func TestValidate_RagRequiresUi(t *testing.T) {
	cfg := validConfig()
	cfg.DeployRag = boolPtr(true)
	cfg.DeployUi = boolPtr(false)
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "deployUi") == nil {
		t.Fatal("expected an issue at deployUi")
	}
}

func TestValidate_AuthRequiredWhenStacksEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.AuthConfig = nil
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "authConfig") == nil {
		t.Fatal("expected an issue at authConfig")
	}

	// With every dependent stack disabled the auth config is optional
	cfg = validConfig()
	cfg.AuthConfig = nil
	cfg.DeployChat = boolPtr(false)
	cfg.DeployRag = boolPtr(false)
	cfg.DeployUi = boolPtr(false)
	cfg.ApplyDefaults()

	if issue := findIssue(cfg.Validate(), "authConfig"); issue != nil {
		t.Fatalf("unexpected issue: %v", issue)
	}
}

func TestValidate_IsoRegionRequiresPypiIndex(t *testing.T) {
	cfg := validConfig()
	cfg.Region = "us-iso-east-1"
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "pypiConfig.indexUrl") == nil {
		t.Fatal("expected an issue at pypiConfig.indexUrl")
	}

	cfg.PypiConfig.IndexURL = "https://pypi.internal.example.com/simple"
	if issue := findIssue(cfg.Validate(), "pypiConfig.indexUrl"); issue != nil {
		t.Fatalf("unexpected issue: %v", issue)
	}
}

func TestValidate_AccountNumber(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"valid", "123456789012", false},
		{"too short", "12345", true},
		{"too long", "1234567890123", true},
		{"non numeric", "12345678901a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.AccountNumber = tt.account
			cfg.ApplyDefaults()

			issue := findIssue(cfg.Validate(), "accountNumber")
			if tt.wantErr && issue == nil {
				t.Error("expected an issue at accountNumber")
			}
			if !tt.wantErr && issue != nil {
				t.Errorf("unexpected issue: %v", issue)
			}
		})
	}
}

func TestValidate_LiteLLMExternalDatabaseRejected(t *testing.T) {
	cfg := validConfig()
	cfg.LiteLLMConfig.DBConfig.DbHost = "db.example.com"
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "litellmConfig.dbConfig.dbHost") == nil {
		t.Fatal("expected an issue at litellmConfig.dbConfig.dbHost")
	}
}

func TestValidate_PgVectorExternalDatabaseRejected(t *testing.T) {
	cfg := validConfig()
	cfg.RagRepositories = append(cfg.RagRepositories, RagRepositoryConfig{
		RepositoryID: "archive",
		Type:         RagEnginePgVector,
		RdsConfig:    &RdsConfig{DbHost: "pg.example.com"},
	})
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "ragRepositories[1].rdsConfig.dbHost") == nil {
		t.Fatal("expected an issue at ragRepositories[1].rdsConfig.dbHost")
	}
}

func TestValidate_CollectsAllIssues(t *testing.T) {
	cfg := &DeploymentConfig{
		Region:        "us-iso-west-1",
		AccountNumber: "bad",
		DeployUi:      boolPtr(true),
		DeployChat:    boolPtr(false),
		DeployRag:     boolPtr(false),
	}
	cfg.ApplyDefaults()

	issues := cfg.Validate()
	for _, path := range []string{"accountNumber", "pypiConfig.indexUrl", "deployChat", "authConfig"} {
		if findIssue(issues, path) == nil {
			t.Errorf("expected an issue at %s, got %v", path, issues)
		}
	}
}

func TestValidate_DuplicateModelIds(t *testing.T) {
	cfg := validConfig()
	cfg.EcsModels = append(cfg.EcsModels, cfg.EcsModels[0])
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "ecsModels[1].modelId") == nil {
		t.Fatal("expected a duplicate-id issue at ecsModels[1].modelId")
	}
}

func TestValidate_UnknownRagEngine(t *testing.T) {
	cfg := validConfig()
	cfg.RagRepositories[0].Type = "chroma"
	cfg.ApplyDefaults()

	if findIssue(cfg.Validate(), "ragRepositories[0].type") == nil {
		t.Fatal("expected an issue at ragRepositories[0].type")
	}
}

func TestParse_JSONAndYAML(t *testing.T) {
	jsonSrc := `{"region":"us-west-2","accountNumber":"123456789012","deployChat":false,"deployRag":false,"deployUi":false}`
	yamlSrc := "region: us-west-2\naccountNumber: \"123456789012\"\ndeployChat: false\ndeployRag: false\ndeployUi: false\n"

	fromJSON, err := Parse([]byte(jsonSrc), ".json")
	if err != nil {
		t.Fatalf("json parse: %v", err)
	}
	fromYAML, err := Parse([]byte(yamlSrc), ".yaml")
	if err != nil {
		t.Fatalf("yaml parse: %v", err)
	}

	if fromJSON.Region != "us-west-2" || fromYAML.Region != "us-west-2" {
		t.Errorf("region not decoded: json=%q yaml=%q", fromJSON.Region, fromYAML.Region)
	}
	if fromJSON.ChatDeployed() || fromYAML.ChatDeployed() {
		t.Error("deployChat=false not decoded")
	}
}
