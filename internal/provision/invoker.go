package provision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// TaskInvoker invokes a workflow task handler by function ARN with a JSON
// payload and returns the handler's JSON response
type TaskInvoker interface {
	Invoke(ctx context.Context, functionARN string, payload interface{}) ([]byte, error)
}

// lambdaInvoker implements TaskInvoker using the AWS Lambda API with
// synchronous request/response invocation
type lambdaInvoker struct {
	client *lambda.Client
}

// NewLambdaInvoker creates a TaskInvoker backed by AWS Lambda
func NewLambdaInvoker(ctx context.Context, region string) (TaskInvoker, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &lambdaInvoker{
		client: lambda.NewFromConfig(awsCfg),
	}, nil
}

func (li *lambdaInvoker) Invoke(ctx context.Context, functionARN string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	result, err := li.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(functionARN),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", functionARN, err)
	}

	// A FunctionError means the handler itself raised; treat it the same as
	// a task failure so the caller transitions to the failed state.
	if result.FunctionError != nil {
		return nil, fmt.Errorf("task %s failed: %s", functionARN, string(result.Payload))
	}

	return result.Payload, nil
}
