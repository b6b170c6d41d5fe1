package stack

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsstepfunctions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsstepfunctionstasks"
	"github.com/aws/jsii-runtime-go"
	"github.com/awslabs/lisa-admin/internal/schema"
)

// StateMachineResources holds the hosted MCP server lifecycle machines
type StateMachineResources struct {
	CreateMachine awsstepfunctions.StateMachine
	DeleteMachine awsstepfunctions.StateMachine
}

// createStateMachineResources builds both lifecycle machines from the
// workflow handler ARNs in the validated configuration
func createStateMachineResources(resources *Resources, workflow schema.McpWorkflowConfig) *StateMachineResources {
	return &StateMachineResources{
		CreateMachine: createMcpServerStateMachine(resources, workflow),
		DeleteMachine: deleteMcpServerStateMachine(resources, workflow),
	}
}

// createMcpServerStateMachine sequences hosted server creation: mark the
// record creating, deploy, poll with a wait loop while the deployment is in
// progress, then mark the record active. Task failures route through the
// failure handler to a terminal failed state.
func createMcpServerStateMachine(resources *Resources, workflow schema.McpWorkflowConfig) awsstepfunctions.StateMachine {
	stack := resources.Stack

	setCreating := statusTask(stack, "SetCreating", workflow.SetStatusFunctionArn, "creating")
	deployServer := workflowTask(stack, "DeployServer", workflow.DeployServerFunctionArn)
	pollDeployment := workflowTask(stack, "PollDeployment", workflow.PollDeploymentFunctionArn)
	addServerToActive := statusTask(stack, "AddServerToActive", workflow.SetStatusFunctionArn, "active")

	handleFailure := workflowTask(stack, "HandleCreateFailure", workflow.HandleFailureFunctionArn)
	failed := awsstepfunctions.NewFail(stack, jsii.String("CreateFailed"), &awsstepfunctions.FailProps{
		Cause: jsii.String("Hosted MCP server deployment failed"),
		Error: jsii.String("DeploymentFailed"),
	})
	handleFailure.Next(failed)

	for _, task := range []awsstepfunctionstasks.LambdaInvoke{setCreating, deployServer, pollDeployment, addServerToActive} {
		task.AddCatch(handleFailure, &awsstepfunctions.CatchProps{
			Errors:     jsii.Strings("States.TaskFailed"),
			ResultPath: jsii.String("$.error"),
		})
	}

	wait := awsstepfunctions.NewWait(stack, jsii.String("WaitForDeployment"), &awsstepfunctions.WaitProps{
		Time: awsstepfunctions.WaitTime_Duration(awscdk.Duration_Seconds(jsii.Number(float64(workflow.PollIntervalSeconds)))),
	})

	deploymentSettled := awsstepfunctions.NewChoice(stack, jsii.String("DeploymentSettled"), &awsstepfunctions.ChoiceProps{})
	deploymentSettled.When(
		awsstepfunctions.Condition_BooleanEquals(jsii.String("$.continue_polling"), jsii.Bool(true)),
		wait.Next(pollDeployment),
		nil,
	)
	deploymentSettled.Otherwise(
		addServerToActive.Next(awsstepfunctions.NewSucceed(stack, jsii.String("CreateSucceeded"), &awsstepfunctions.SucceedProps{})),
	)

	definition := setCreating.
		Next(deployServer).
		Next(pollDeployment).
		Next(deploymentSettled)

	return awsstepfunctions.NewStateMachine(stack, jsii.String("CreateMcpServerStateMachine"), &awsstepfunctions.StateMachineProps{
		StateMachineName: jsii.String(resources.Prefixed("create-mcp-server")),
		DefinitionBody:   awsstepfunctions.DefinitionBody_FromChainable(definition),
		Timeout:          awscdk.Duration_Hours(jsii.Number(1)),
	})
}

// deleteMcpServerStateMachine sequences hosted server teardown: mark the
// record deleting, then either tear down the backing stack and monitor it,
// or go straight to record removal when no stack was ever created.
func deleteMcpServerStateMachine(resources *Resources, workflow schema.McpWorkflowConfig) awsstepfunctions.StateMachine {
	stack := resources.Stack

	setDeleting := statusTask(stack, "SetDeleting", workflow.SetStatusFunctionArn, "deleting")
	deleteStack := workflowTask(stack, "DeleteStack", workflow.DeleteStackFunctionArn)
	monitorDelete := workflowTask(stack, "MonitorDeleteStack", workflow.MonitorDeleteFunctionArn)

	fn := awslambda.Function_FromFunctionArn(stack, jsii.String("DeleteFromDdbFunction"), jsii.String(workflow.SetStatusFunctionArn))
	deleteFromDdb := awsstepfunctionstasks.NewLambdaInvoke(stack, jsii.String("DeleteFromDdb"), &awsstepfunctionstasks.LambdaInvokeProps{
		LambdaFunction:      fn,
		PayloadResponseOnly: jsii.Bool(true),
		Payload: awsstepfunctions.TaskInput_FromObject(&map[string]interface{}{
			"action":      "delete_record",
			"server_id.$": "$.server_id",
		}),
		TaskTimeout: awsstepfunctions.Timeout_Duration(awscdk.Duration_Minutes(jsii.Number(2))),
	})

	handleFailure := workflowTask(stack, "HandleDeleteFailure", workflow.HandleFailureFunctionArn)
	failed := awsstepfunctions.NewFail(stack, jsii.String("DeleteFailed"), &awsstepfunctions.FailProps{
		Cause: jsii.String("Hosted MCP server teardown failed"),
		Error: jsii.String("TeardownFailed"),
	})
	handleFailure.Next(failed)

	for _, task := range []awsstepfunctionstasks.LambdaInvoke{setDeleting, deleteStack, monitorDelete, deleteFromDdb} {
		task.AddCatch(handleFailure, &awsstepfunctions.CatchProps{
			Errors:     jsii.Strings("States.TaskFailed"),
			ResultPath: jsii.String("$.error"),
		})
	}

	wait := awsstepfunctions.NewWait(stack, jsii.String("WaitForStackDeletion"), &awsstepfunctions.WaitProps{
		Time: awsstepfunctions.WaitTime_Duration(awscdk.Duration_Seconds(jsii.Number(float64(workflow.PollIntervalSeconds)))),
	})

	succeeded := awsstepfunctions.NewSucceed(stack, jsii.String("DeleteSucceeded"), &awsstepfunctions.SucceedProps{})

	deletionSettled := awsstepfunctions.NewChoice(stack, jsii.String("StackDeletionSettled"), &awsstepfunctions.ChoiceProps{})
	deletionSettled.When(
		awsstepfunctions.Condition_BooleanEquals(jsii.String("$.continue_polling"), jsii.Bool(true)),
		wait.Next(monitorDelete),
		nil,
	)
	deletionSettled.Otherwise(deleteFromDdb.Next(succeeded))

	// A record without a stack skips the teardown steps entirely
	hasStack := awsstepfunctions.NewChoice(stack, jsii.String("HasStackToDelete"), &awsstepfunctions.ChoiceProps{})
	hasStack.When(
		awsstepfunctions.Condition_IsNotPresent(jsii.String("$.cloudformation_stack_arn")),
		deleteFromDdb,
		nil,
	)
	hasStack.Otherwise(deleteStack.Next(monitorDelete).Next(deletionSettled))

	definition := setDeleting.Next(hasStack)

	return awsstepfunctions.NewStateMachine(stack, jsii.String("DeleteMcpServerStateMachine"), &awsstepfunctions.StateMachineProps{
		StateMachineName: jsii.String(resources.Prefixed("delete-mcp-server")),
		DefinitionBody:   awsstepfunctions.DefinitionBody_FromChainable(definition),
		Timeout:          awscdk.Duration_Hours(jsii.Number(1)),
	})
}

// workflowTask wraps an external Lambda handler as a state machine task.
// PayloadResponseOnly keeps the handler's JSON output as the state payload
// so continue_polling and cloudformation_stack_arn flow between steps.
func workflowTask(stack awscdk.Stack, id, functionARN string) awsstepfunctionstasks.LambdaInvoke {
	fn := awslambda.Function_FromFunctionArn(stack, jsii.String(id+"Function"), jsii.String(functionARN))
	return awsstepfunctionstasks.NewLambdaInvoke(stack, jsii.String(id), &awsstepfunctionstasks.LambdaInvokeProps{
		LambdaFunction:      fn,
		PayloadResponseOnly: jsii.Bool(true),
		TaskTimeout:         awsstepfunctions.Timeout_Duration(awscdk.Duration_Minutes(jsii.Number(5))),
	})
}

// statusTask wraps the set-status handler with a fixed status value merged
// into the payload
func statusTask(stack awscdk.Stack, id, functionARN, status string) awsstepfunctionstasks.LambdaInvoke {
	fn := awslambda.Function_FromFunctionArn(stack, jsii.String(id+"Function"), jsii.String(functionARN))
	return awsstepfunctionstasks.NewLambdaInvoke(stack, jsii.String(id), &awsstepfunctionstasks.LambdaInvokeProps{
		LambdaFunction:      fn,
		PayloadResponseOnly: jsii.Bool(true),
		Payload: awsstepfunctions.TaskInput_FromObject(&map[string]interface{}{
			"status":   status,
			"server.$": "$",
		}),
		TaskTimeout: awsstepfunctions.Timeout_Duration(awscdk.Duration_Minutes(jsii.Number(2))),
	})
}
