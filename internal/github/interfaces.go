package github

import (
	"context"

	"github.com/ryo246912/branch-pr-template/internal/models"
)

// GitHubClient defines the interface for GitHub operations
type GitHubClient interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*models.PullRequest, error)
	UpdatePullRequest(ctx context.Context, req *models.UpdateRequest) (int, error)
}

// RepositoryInfo defines repository information interface
type RepositoryInfo interface {
	GetOwner() string
	GetName() string
}

// Ensure Client implements GitHubClient interface
var _ GitHubClient = (*Client)(nil)
