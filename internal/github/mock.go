package github

import (
	"context"
	"fmt"

	"github.com/ryo246912/branch-pr-template/internal/models"
)

// MockClient implements GitHubClient for testing
type MockClient struct {
	// Control test behavior
	PullRequest  *models.PullRequest
	FetchError   error
	UpdateStatus int
	UpdateError  error

	// Track method calls
	GetPullRequestCalls    int
	UpdatePullRequestCalls int

	// Store call arguments for verification
	LastOwner    string
	LastRepo     string
	LastPRNumber int
	LastRequest  *models.UpdateRequest
}

// GetPullRequest mocks the GraphQL snapshot query
func (m *MockClient) GetPullRequest(_ context.Context, owner, repo string, number int) (*models.PullRequest, error) {
	m.GetPullRequestCalls++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastPRNumber = number
	return m.PullRequest, m.FetchError
}

// UpdatePullRequest mocks the REST update call. The status defaults to 200.
func (m *MockClient) UpdatePullRequest(_ context.Context, req *models.UpdateRequest) (int, error) {
	m.UpdatePullRequestCalls++
	m.LastRequest = req
	if req != nil {
		m.LastOwner = req.Owner
		m.LastRepo = req.Repo
		m.LastPRNumber = req.Number
	}
	status := m.UpdateStatus
	if status == 0 && m.UpdateError == nil {
		status = 200
	}
	return status, m.UpdateError
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.GetPullRequestCalls = 0
	m.UpdatePullRequestCalls = 0
	m.LastOwner = ""
	m.LastRepo = ""
	m.LastPRNumber = 0
	m.LastRequest = nil
}

// MockRepository implements repository information for testing
type MockRepository struct {
	Owner string
	Name  string
}

func (m *MockRepository) GetOwner() string {
	return m.Owner
}

func (m *MockRepository) GetName() string {
	return m.Name
}

// CreateTestPR returns a pull request snapshot for branch
func CreateTestPR(branch, title, body string) *models.PullRequest {
	return &models.PullRequest{
		Owner:  "owner",
		Repo:   "repo",
		Number: 42,
		Branch: branch,
		Title:  title,
		Body:   body,
	}
}

// NewAPIError returns an error shaped like a failed API call
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}

func NewNetworkError() error {
	return fmt.Errorf("network connection failed")
}
