package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/awslabs/lisa-admin/internal/schema"
	"github.com/awslabs/lisa-admin/stack"
)

func main() {
	defer jsii.Close()

	configPath := os.Getenv("LISA_CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load refuses to return a configuration that fails validation, so
	// nothing below can synthesize from a bad config
	cfg, err := schema.Load(configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	app := awscdk.NewApp(nil)

	stackName := fmt.Sprintf("%s-%s-%s-admin", cfg.AppName, cfg.DeploymentStage, cfg.DeploymentName)
	stack.NewAdminStack(app, stackName, &stack.AdminStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(cfg.AccountNumber),
				Region:  jsii.String(cfg.Region),
			},
			Description: jsii.String("Administration layer: admin API tables and hosted MCP server lifecycle state machines"),
		},
		Config: cfg,
	})

	app.Synth(nil)
}
