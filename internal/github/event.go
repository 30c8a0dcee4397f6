package github

import (
	"encoding/json"
	"os"

	"github.com/google/go-github/v68/github"
	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
	"github.com/ryo246912/branch-pr-template/internal/models"
)

// LoadEvent reads the pull request from the event payload at path, as written
// by the Actions runner to GITHUB_EVENT_PATH. Both pull_request and
// pull_request_target payloads are accepted. When repo is non-nil it takes
// precedence over the repository named in the payload.
func LoadEvent(path string, repo RepositoryInfo) (*models.PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrReadEvent.WithError(err).WithContext("path", path)
	}
	return ParseEvent(data, repo)
}

// ParseEvent decodes a pull request event payload.
func ParseEvent(data []byte, repo RepositoryInfo) (*models.PullRequest, error) {
	var event github.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, apperrors.ErrReadEvent.WithError(err)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, apperrors.ErrNotPullRequestEvent
	}

	snapshot := &models.PullRequest{
		Owner:  event.GetRepo().GetOwner().GetLogin(),
		Repo:   event.GetRepo().GetName(),
		Number: pr.GetNumber(),
		Branch: pr.GetHead().GetRef(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
	}
	if snapshot.Number == 0 {
		snapshot.Number = event.GetNumber()
	}
	if repo != nil {
		snapshot.Owner = repo.GetOwner()
		snapshot.Repo = repo.GetName()
	}

	return snapshot, nil
}
