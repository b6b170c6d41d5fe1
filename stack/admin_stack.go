// Package stack provides the CDK stack for the administration layer:
// the entity tables backing the admin API and the hosted MCP server
// lifecycle state machines.
package stack

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/awslabs/lisa-admin/internal/schema"
)

// AdminStackProps defines the properties for the admin stack
type AdminStackProps struct {
	awscdk.StackProps
	Config *schema.DeploymentConfig
}

// AdminStack is the CDK stack for the administration layer
type AdminStack struct {
	awscdk.Stack
	CreateMachineArn string
	DeleteMachineArn string
}

// Resources holds the common context shared across components
type Resources struct {
	Stack  awscdk.Stack
	Config *schema.DeploymentConfig
}

// Prefixed returns a resource name under the deployment prefix.
// The prefix is path-shaped ("/app/stage/name"); physical names flatten it.
func (r *Resources) Prefixed(name string) string {
	return fmt.Sprintf("%s-%s-%s-%s", r.Config.AppName, r.Config.DeploymentStage, r.Config.DeploymentName, name)
}

// TableResources holds the DynamoDB tables backing the admin API
type TableResources struct {
	Models          awsdynamodb.Table
	RagRepositories awsdynamodb.Table
	McpConnections  awsdynamodb.Table
	HostedServers   awsdynamodb.Table
	AssistantStacks awsdynamodb.Table
	UserPreferences awsdynamodb.Table
	Banners         awsdynamodb.Table
}

// NewAdminStack creates the administration stack from a validated
// deployment configuration
func NewAdminStack(scope constructs.Construct, id string, props *AdminStackProps) *AdminStack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	resources := &Resources{
		Stack:  stack,
		Config: props.Config,
	}

	tables := createTableResources(resources)
	machines := createStateMachineResources(resources, props.Config.McpWorkflow)

	createStackOutputs(resources, tables, machines)

	return &AdminStack{
		Stack:            stack,
		CreateMachineArn: *machines.CreateMachine.StateMachineArn(),
		DeleteMachineArn: *machines.DeleteMachine.StateMachineArn(),
	}
}

// createTableResources creates one table per admin entity. Production
// deployments retain tables on stack deletion; everything else is
// disposable.
func createTableResources(resources *Resources) *TableResources {
	removal := awscdk.RemovalPolicy_DESTROY
	if resources.Config.DeploymentStage == "prod" {
		removal = awscdk.RemovalPolicy_RETAIN
	}

	table := func(constructID, name, partitionKey string) awsdynamodb.Table {
		return awsdynamodb.NewTable(resources.Stack, jsii.String(constructID), &awsdynamodb.TableProps{
			TableName: jsii.String(resources.Prefixed(name)),
			PartitionKey: &awsdynamodb.Attribute{
				Name: jsii.String(partitionKey),
				Type: awsdynamodb.AttributeType_STRING,
			},
			BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
			RemovalPolicy: removal,
		})
	}

	return &TableResources{
		Models:          table("ModelsTable", "models", "UniqueId"),
		RagRepositories: table("RagRepositoriesTable", "rag-repositories", "RepositoryId"),
		McpConnections:  table("McpConnectionsTable", "mcp-connections", "Id"),
		HostedServers:   table("HostedMcpServersTable", "hosted-mcp-servers", "Id"),
		AssistantStacks: table("AssistantStacksTable", "assistant-stacks", "Id"),
		UserPreferences: table("UserPreferencesTable", "user-preferences", "UserId"),
		Banners:         table("BannersTable", "banners", "Id"),
	}
}

// createStackOutputs exports the names and ARNs the admin server and the
// workflow handlers need at runtime
func createStackOutputs(resources *Resources, tables *TableResources, machines *StateMachineResources) {
	stack := resources.Stack

	output := func(id string, value *string) {
		awscdk.NewCfnOutput(stack, jsii.String(id), &awscdk.CfnOutputProps{
			Value: value,
		})
	}

	output("ModelsTableName", tables.Models.TableName())
	output("RagRepositoriesTableName", tables.RagRepositories.TableName())
	output("McpConnectionsTableName", tables.McpConnections.TableName())
	output("HostedMcpServersTableName", tables.HostedServers.TableName())
	output("AssistantStacksTableName", tables.AssistantStacks.TableName())
	output("UserPreferencesTableName", tables.UserPreferences.TableName())
	output("BannersTableName", tables.Banners.TableName())
	output("CreateMcpServerStateMachineArn", machines.CreateMachine.StateMachineArn())
	output("DeleteMcpServerStateMachineArn", machines.DeleteMachine.StateMachineArn())
	output("DeploymentPrefix", jsii.String(resources.Config.DeploymentPrefix))
}
