package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// mockECRClient is a scripted implementation of the ECR API subset
type mockECRClient struct {
	describeFunc func(*ecr.DescribeRepositoriesInput) (*ecr.DescribeRepositoriesOutput, error)
	createFunc   func(*ecr.CreateRepositoryInput) (*ecr.CreateRepositoryOutput, error)
	deleteFunc   func(*ecr.DeleteRepositoryInput) (*ecr.DeleteRepositoryOutput, error)
	created      []string
	deleted      []string
}

func (m *mockECRClient) DescribeRepositories(_ context.Context, params *ecr.DescribeRepositoriesInput, _ ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	return m.describeFunc(params)
}

func (m *mockECRClient) CreateRepository(_ context.Context, params *ecr.CreateRepositoryInput, _ ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error) {
	m.created = append(m.created, aws.ToString(params.RepositoryName))
	return m.createFunc(params)
}

func (m *mockECRClient) DeleteRepository(_ context.Context, params *ecr.DeleteRepositoryInput, _ ...func(*ecr.Options)) (*ecr.DeleteRepositoryOutput, error) {
	m.deleted = append(m.deleted, aws.ToString(params.RepositoryName))
	return m.deleteFunc(params)
}

func newTestService(client ecrAPI) *ImageRegistryService {
	return &ImageRegistryService{
		ecrClient: client,
		region:    "us-east-1",
		accountID: "123456789012",
		prefix:    "lisa-prod",
	}
}

func TestRepositoryName_Lowercased(t *testing.T) {
	s := newTestService(nil)
	got := s.RepositoryName("Server-A1")
	want := "lisa-prod-mcp-server-a1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRepositoryURI_Format(t *testing.T) {
	s := newTestService(nil)
	got := s.RepositoryURI("lisa-prod-mcp-a")
	want := "123456789012.dkr.ecr.us-east-1.amazonaws.com/lisa-prod-mcp-a"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEnsureRepository_ReturnsExisting(t *testing.T) {
	client := &mockECRClient{
		describeFunc: func(params *ecr.DescribeRepositoriesInput) (*ecr.DescribeRepositoriesOutput, error) {
			return &ecr.DescribeRepositoriesOutput{
				Repositories: []types.Repository{
					{
						RepositoryName: aws.String(params.RepositoryNames[0]),
						RepositoryUri:  aws.String("123456789012.dkr.ecr.us-east-1.amazonaws.com/" + params.RepositoryNames[0]),
					},
				},
			}, nil
		},
	}
	s := newTestService(client)

	name, uri, err := s.EnsureRepository(context.Background(), "srv-1")
	if err != nil {
		t.Fatalf("EnsureRepository returned error: %v", err)
	}
	if name != "lisa-prod-mcp-srv-1" {
		t.Errorf("unexpected name: %q", name)
	}
	if uri != "123456789012.dkr.ecr.us-east-1.amazonaws.com/lisa-prod-mcp-srv-1" {
		t.Errorf("unexpected uri: %q", uri)
	}
	if len(client.created) != 0 {
		t.Errorf("expected no repository creation, got %v", client.created)
	}
}

func TestEnsureRepository_CreatesWhenMissing(t *testing.T) {
	client := &mockECRClient{
		describeFunc: func(params *ecr.DescribeRepositoriesInput) (*ecr.DescribeRepositoriesOutput, error) {
			return nil, &types.RepositoryNotFoundException{}
		},
		createFunc: func(params *ecr.CreateRepositoryInput) (*ecr.CreateRepositoryOutput, error) {
			return &ecr.CreateRepositoryOutput{
				Repository: &types.Repository{
					RepositoryName: params.RepositoryName,
					RepositoryUri:  aws.String("123456789012.dkr.ecr.us-east-1.amazonaws.com/" + aws.ToString(params.RepositoryName)),
				},
			}, nil
		},
	}
	s := newTestService(client)

	name, uri, err := s.EnsureRepository(context.Background(), "srv-2")
	if err != nil {
		t.Fatalf("EnsureRepository returned error: %v", err)
	}
	if name != "lisa-prod-mcp-srv-2" {
		t.Errorf("unexpected name: %q", name)
	}
	if uri == "" {
		t.Error("expected a repository uri")
	}
	if len(client.created) != 1 || client.created[0] != "lisa-prod-mcp-srv-2" {
		t.Errorf("expected creation of lisa-prod-mcp-srv-2, got %v", client.created)
	}
}

func TestDeleteRepository_IgnoresMissing(t *testing.T) {
	client := &mockECRClient{
		deleteFunc: func(params *ecr.DeleteRepositoryInput) (*ecr.DeleteRepositoryOutput, error) {
			return nil, &types.RepositoryNotFoundException{}
		},
	}
	s := newTestService(client)

	if err := s.DeleteRepository(context.Background(), "lisa-prod-mcp-gone"); err != nil {
		t.Errorf("expected missing repository to be ignored, got %v", err)
	}
}
