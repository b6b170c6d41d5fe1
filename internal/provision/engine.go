package provision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/awslabs/lisa-admin/internal/models"
	"github.com/awslabs/lisa-admin/internal/queue"
	"github.com/awslabs/lisa-admin/internal/repository"
	"github.com/sirupsen/logrus"
)

// Config holds the workflow task handler ARNs and the poll interval
type Config struct {
	DeployServerARN   string
	PollDeploymentARN string
	DeleteStackARN    string
	MonitorDeleteARN  string
	PollInterval      time.Duration
}

// Engine sequences the asynchronous steps of hosted MCP server creation and
// teardown: mark status, invoke the deploy or delete handler, poll with a
// wait interval until the handler reports completion, then mark the final
// status. Any task failure transitions the record to the terminal failed
// state with a reason.
type Engine struct {
	invoker TaskInvoker
	servers repository.HostedMcpServerRepository
	cfg     Config

	// sleep is replaceable so tests can count waits without real delays
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates a provisioning engine
func NewEngine(invoker TaskInvoker, servers repository.HostedMcpServerRepository, cfg Config) *Engine {
	return &Engine{
		invoker: invoker,
		servers: servers,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// deployRequest is the payload sent to the deploy and delete handlers
type deployRequest struct {
	ServerID             string                       `json:"server_id"`
	Owner                string                       `json:"owner"`
	Name                 string                       `json:"name"`
	ContainerImage       string                       `json:"container_image"`
	ImageRepositoryURI   string                       `json:"image_repository_uri,omitempty"`
	EnvironmentVariables []models.EnvironmentVariable `json:"environment,omitempty"`
	StackArn             string                       `json:"cloudformation_stack_arn,omitempty"`
}

// deployResponse carries the stack created by the deploy handler
type deployResponse struct {
	StackArn string `json:"cloudformation_stack_arn"`
}

// pollRequest is the payload sent to the poll and monitor handlers
type pollRequest struct {
	ServerID string `json:"server_id"`
	StackArn string `json:"cloudformation_stack_arn"`
}

// pollResponse carries the loop-control flag returned by the poll and
// monitor handlers
type pollResponse struct {
	ContinuePolling bool   `json:"continue_polling"`
	Reason          string `json:"reason,omitempty"`
}

// Handle dispatches a queued provision job. It is the worker pool's handler
// function.
func (e *Engine) Handle(job *queue.ProvisionJob) error {
	ctx := context.Background()

	switch job.Action {
	case queue.ActionCreate:
		return e.CreateServer(ctx, job.ServerID)
	case queue.ActionDelete:
		return e.DeleteServer(ctx, job.ServerID)
	default:
		return fmt.Errorf("unknown provision action: %s", job.Action)
	}
}

// CreateServer runs the create sequence for a hosted MCP server: mark the
// record creating, invoke the deploy handler, poll until the deployment
// settles, then mark the record active
func (e *Engine) CreateServer(ctx context.Context, serverID string) error {
	if err := e.servers.UpdateStatus(ctx, serverID, models.StatusCreating, ""); err != nil {
		return fmt.Errorf("failed to mark server creating: %w", err)
	}

	server, err := e.servers.Get(ctx, serverID)
	if err != nil {
		return fmt.Errorf("failed to load server record: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"server_id": serverID,
		"name":      server.Name,
	}).Info("Starting hosted MCP server deployment")

	raw, err := e.invoker.Invoke(ctx, e.cfg.DeployServerARN, deployRequest{
		ServerID:             server.Id,
		Owner:                server.Owner,
		Name:                 server.Name,
		ContainerImage:       server.ContainerImage,
		ImageRepositoryURI:   server.ImageRepositoryURI,
		EnvironmentVariables: server.EnvironmentVariables,
	})
	if err != nil {
		return e.markFailed(ctx, serverID, fmt.Errorf("deploy task failed: %w", err))
	}

	var deployed deployResponse
	if err := json.Unmarshal(raw, &deployed); err != nil {
		return e.markFailed(ctx, serverID, fmt.Errorf("invalid deploy response: %w", err))
	}
	if deployed.StackArn != "" {
		if err := e.servers.SetStackArn(ctx, serverID, deployed.StackArn); err != nil {
			return e.markFailed(ctx, serverID, err)
		}
	}

	if err := e.pollUntilSettled(ctx, e.cfg.PollDeploymentARN, serverID, deployed.StackArn); err != nil {
		return e.markFailed(ctx, serverID, err)
	}

	if err := e.servers.UpdateStatus(ctx, serverID, models.StatusActive, ""); err != nil {
		return fmt.Errorf("failed to mark server active: %w", err)
	}

	logger.WithField("server_id", serverID).Info("Hosted MCP server is active")
	return nil
}

// DeleteServer runs the delete sequence for a hosted MCP server: mark the
// record deleting, tear down the backing stack when one exists, monitor the
// teardown, then remove the record. A record with no stack goes straight to
// removal.
func (e *Engine) DeleteServer(ctx context.Context, serverID string) error {
	server, err := e.servers.Get(ctx, serverID)
	if err != nil {
		return fmt.Errorf("failed to load server record: %w", err)
	}

	if err := e.servers.UpdateStatus(ctx, serverID, models.StatusDeleting, ""); err != nil {
		return fmt.Errorf("failed to mark server deleting: %w", err)
	}

	if server.StackArn != "" {
		logger.WithFields(logrus.Fields{
			"server_id": serverID,
			"stack_arn": server.StackArn,
		}).Info("Deleting hosted MCP server stack")

		_, err := e.invoker.Invoke(ctx, e.cfg.DeleteStackARN, deployRequest{
			ServerID: server.Id,
			Owner:    server.Owner,
			Name:     server.Name,
			StackArn: server.StackArn,
		})
		if err != nil {
			return e.markFailed(ctx, serverID, fmt.Errorf("delete task failed: %w", err))
		}

		if err := e.pollUntilSettled(ctx, e.cfg.MonitorDeleteARN, serverID, server.StackArn); err != nil {
			return e.markFailed(ctx, serverID, err)
		}
	} else {
		logger.WithField("server_id", serverID).Info("Server has no backing stack, removing record directly")
	}

	if err := e.servers.Delete(ctx, serverID); err != nil {
		return fmt.Errorf("failed to delete server record: %w", err)
	}

	logger.WithField("server_id", serverID).Info("Hosted MCP server deleted")
	return nil
}

// pollUntilSettled invokes the poll handler, waiting one interval between
// attempts for as long as the handler reports continue_polling
func (e *Engine) pollUntilSettled(ctx context.Context, pollARN, serverID, stackArn string) error {
	for {
		raw, err := e.invoker.Invoke(ctx, pollARN, pollRequest{
			ServerID: serverID,
			StackArn: stackArn,
		})
		if err != nil {
			return fmt.Errorf("poll task failed: %w", err)
		}

		var status pollResponse
		if err := json.Unmarshal(raw, &status); err != nil {
			return fmt.Errorf("invalid poll response: %w", err)
		}

		if !status.ContinuePolling {
			return nil
		}

		logger.WithFields(logrus.Fields{
			"server_id": serverID,
			"interval":  e.cfg.PollInterval.String(),
		}).Debug("Deployment still in progress, waiting")

		if err := e.sleep(ctx, e.cfg.PollInterval); err != nil {
			return fmt.Errorf("poll wait interrupted: %w", err)
		}
	}
}

// markFailed transitions the record to the terminal failed state and
// returns the original error
func (e *Engine) markFailed(ctx context.Context, serverID string, cause error) error {
	logger.WithFields(logrus.Fields{
		"server_id": serverID,
		"error":     cause.Error(),
	}).Error("Provisioning failed")

	if err := e.servers.UpdateStatus(ctx, serverID, models.StatusFailed, cause.Error()); err != nil {
		logger.WithFields(logrus.Fields{
			"server_id": serverID,
			"error":     err.Error(),
		}).Error("Failed to record failed status")
	}

	return cause
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
