package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/awslabs/lisa-admin/internal/logger"
	"github.com/sirupsen/logrus"
)

// ecrAPI is the subset of the ECR client used by the registry service
type ecrAPI interface {
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
	DeleteRepository(ctx context.Context, params *ecr.DeleteRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.DeleteRepositoryOutput, error)
}

// ImageRegistryService manages the per-server container image repositories
// backing hosted MCP servers
type ImageRegistryService struct {
	ecrClient ecrAPI
	region    string
	accountID string
	prefix    string
}

// NewImageRegistryService creates a new image registry service
func NewImageRegistryService(cfg aws.Config, accountID, prefix string) *ImageRegistryService {
	return &ImageRegistryService{
		ecrClient: ecr.NewFromConfig(cfg),
		region:    cfg.Region,
		accountID: accountID,
		prefix:    prefix,
	}
}

// RepositoryName derives the image repository name for a hosted server.
// ECR repository names must be lowercase.
func (s *ImageRegistryService) RepositoryName(serverID string) string {
	name := fmt.Sprintf("%s-mcp-%s", s.prefix, serverID)
	return strings.ToLower(strings.Trim(name, "-/"))
}

// RepositoryURI returns the full image repository URI
func (s *ImageRegistryService) RepositoryURI(repoName string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com/%s", s.accountID, s.region, repoName)
}

// EnsureRepository gets or creates the image repository for a hosted server
// and returns its name and URI
func (s *ImageRegistryService) EnsureRepository(ctx context.Context, serverID string) (string, string, error) {
	repoName := s.RepositoryName(serverID)

	describeOutput, err := s.ecrClient.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{repoName},
	})
	if err == nil && len(describeOutput.Repositories) > 0 {
		return repoName, aws.ToString(describeOutput.Repositories[0].RepositoryUri), nil
	}

	var notFound *types.RepositoryNotFoundException
	if err != nil && !errors.As(err, &notFound) {
		return "", "", fmt.Errorf("failed to describe image repository: %w", err)
	}

	createOutput, err := s.ecrClient.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(repoName),
		Tags: []types.Tag{
			{
				Key:   aws.String("managed-by"),
				Value: aws.String("lisa-admin"),
			},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create image repository: %w", err)
	}

	uri := aws.ToString(createOutput.Repository.RepositoryUri)
	logger.WithFields(logrus.Fields{
		"repository": repoName,
		"uri":        uri,
	}).Info("Created image repository")

	return repoName, uri, nil
}

// DeleteRepository removes the image repository for a hosted server together
// with any images it holds. A repository that is already gone is not an
// error.
func (s *ImageRegistryService) DeleteRepository(ctx context.Context, repoName string) error {
	_, err := s.ecrClient.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(repoName),
		Force:          true,
	})
	if err != nil {
		var notFound *types.RepositoryNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to delete image repository: %w", err)
	}

	logger.WithField("repository", repoName).Info("Deleted image repository")
	return nil
}
