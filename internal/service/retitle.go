package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/ryo246912/branch-pr-template/internal/config"
	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
	"github.com/ryo246912/branch-pr-template/internal/github"
	"github.com/ryo246912/branch-pr-template/internal/logger"
	"github.com/ryo246912/branch-pr-template/internal/models"
	"github.com/ryo246912/branch-pr-template/internal/ui"
)

// Options controls how an update is dispatched
type Options struct {
	// DryRun computes the update without sending it
	DryRun bool
	// Confirm asks the prompter before sending the update
	Confirm bool
}

// RetitleService rewrites a pull request's title and body from its branch name
type RetitleService struct {
	client   github.GitHubClient
	cfg      *config.Config
	prompter ui.Prompter
	opts     Options
}

// NewRetitleService creates a new service instance
func NewRetitleService(client github.GitHubClient, cfg *config.Config, prompter ui.Prompter, opts Options) *RetitleService {
	return &RetitleService{
		client:   client,
		cfg:      cfg,
		prompter: prompter,
		opts:     opts,
	}
}

// Process handles the complete workflow for one pull request. At most one
// update call is made, and only when the title or body needs to change.
func (s *RetitleService) Process(ctx context.Context, pr *models.PullRequest) (*models.Result, error) {
	branch := pr.Branch
	if s.cfg.LowercaseBranch {
		branch = lower(branch)
	}
	logger.Debug(ctx, "branch: "+branch)

	matched, ok := Match(s.cfg.BranchRegex, branch)
	if !ok {
		return nil, apperrors.ErrNoMatch.WithContext("branch", branch)
	}
	logger.Info(ctx, "Matched branch text: "+matched)

	result := &models.Result{Matched: matched}
	req := &models.UpdateRequest{
		Owner:  pr.Owner,
		Repo:   pr.Repo,
		Number: pr.Number,
	}

	processedTitle := Render(s.cfg.TitleTemplate, matched, s.cfg.UppercaseTitle)
	logger.Debug(ctx, "processedTitle: "+processedTitle)

	titleSeparator := ""
	if s.cfg.TitlePrefixSpace {
		titleSeparator = " "
	}
	if title, update := Decide(pr.Title, processedTitle, s.cfg.ReplaceTitle, titleSeparator); update {
		req.Title = &title
		logger.Debug(ctx, "new title: "+title)
	} else {
		logger.Warn(ctx, "PR title is up to date already - no updates made")
	}

	processedBody := Render(s.cfg.BodyTemplate, matched, s.cfg.UppercaseBody)
	logger.Debug(ctx, "processedBody: "+processedBody)

	bodySeparator := strings.Repeat("\n", s.cfg.BodyPrefixNewlineCount)
	if body, update := Decide(pr.Body, processedBody, s.cfg.ReplaceBody, bodySeparator); update {
		req.Body = &body
		logger.Debug(ctx, "new body: "+body)
	} else {
		logger.Warn(ctx, "PR body is up to date already - no updates made")
	}

	if !req.HasChanges() {
		return result, nil
	}
	result.Request = req

	if s.opts.DryRun || s.opts.Confirm {
		s.prompter.ShowPreview(ui.FormatPreview(pr, req))
	}
	if s.opts.DryRun {
		logger.Info(ctx, "Dry run - pull request not updated")
		return result, nil
	}
	if s.opts.Confirm {
		confirmed, err := s.prompter.ConfirmUpdate()
		if err != nil {
			return nil, err
		}
		if !confirmed {
			logger.Info(ctx, "Update cancelled - pull request not updated")
			return result, nil
		}
	}

	status, err := s.client.UpdatePullRequest(ctx, req)
	if err != nil {
		return nil, apperrors.ErrUpdatePullRequest.WithError(err).WithContext("status", status)
	}
	result.StatusCode = status

	logger.Info(ctx, "response", "status", status)
	if status != http.StatusOK {
		logger.Error(ctx, "Updating the pull request has failed", nil, "status", status)
		return result, nil
	}
	result.TitleUpdated = req.Title != nil
	result.BodyUpdated = req.Body != nil

	return result, nil
}
