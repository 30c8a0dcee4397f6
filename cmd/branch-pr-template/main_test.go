package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
	"github.com/ryo246912/branch-pr-template/internal/github"
	"github.com/ryo246912/branch-pr-template/internal/models"
	"github.com/ryo246912/branch-pr-template/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventPayload = `{
  "number": 5,
  "pull_request": {
    "number": 5,
    "title": "Add search",
    "body": "Adds search.",
    "head": {"ref": "feature/PROJ-77-search"}
  },
  "repository": {"name": "app", "owner": {"login": "acme"}}
}`

type testEnv struct {
	*env
	vars     map[string]string
	stdout   *bytes.Buffer
	client   *github.MockClient
	prompter *ui.MockPrompter
	tokens   []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	eventPath := filepath.Join(dir, "event.json")
	require.NoError(t, os.WriteFile(eventPath, []byte(eventPayload), 0o600))
	outputPath := filepath.Join(dir, "output")
	require.NoError(t, os.WriteFile(outputPath, nil, 0o600))

	te := &testEnv{
		vars: map[string]string{
			"GITHUB_ACTIONS":                  "true",
			"GITHUB_EVENT_PATH":               eventPath,
			"GITHUB_OUTPUT":                   outputPath,
			"INPUT_REPO-TOKEN":                "ghs_secret",
			"INPUT_BRANCH-REGEX":              `[A-Z]+-\d+`,
			"INPUT_TITLE-TEMPLATE":            "%branch%",
			"INPUT_TITLE-PREFIX-SPACE":        "true",
			"INPUT_BODY-TEMPLATE":             "Ticket: %branch%",
			"INPUT_BODY-PREFIX-NEWLINE-COUNT": "1",
		},
		stdout:   &bytes.Buffer{},
		client:   &github.MockClient{},
		prompter: &ui.MockPrompter{},
	}
	te.env = &env{
		getenv: func(key string) string { return te.vars[key] },
		stdout: te.stdout,
		newClient: func(token string, opts ...github.ClientOption) (github.GitHubClient, error) {
			te.tokens = append(te.tokens, token)
			return te.client, nil
		},
		prompter: te.prompter,
	}
	return te
}

func (te *testEnv) run(args ...string) error {
	cmd := newRootCmd(te.env)
	cmd.SetArgs(args)
	cmd.SetOut(te.stdout)
	cmd.SetErr(te.stdout)
	return cmd.Execute()
}

func (te *testEnv) outputs(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(te.vars["GITHUB_OUTPUT"])
	require.NoError(t, err)
	return string(data)
}

func TestRun_UpdatesFromEvent(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run())

	assert.Equal(t, []string{"ghs_secret"}, te.tokens)
	require.Equal(t, 1, te.client.UpdatePullRequestCalls)
	req := te.client.LastRequest
	assert.Equal(t, "acme", req.Owner)
	assert.Equal(t, "app", req.Repo)
	assert.Equal(t, 5, req.Number)
	assert.Equal(t, "PROJ-77 Add search", *req.Title)
	assert.Equal(t, "Ticket: PROJ-77\nAdds search.", *req.Body)

	assert.Contains(t, te.stdout.String(), "Matched branch text: PROJ-77\n")
	assert.NotContains(t, te.stdout.String(), "::debug::")

	out := te.outputs(t)
	assert.Contains(t, out, "matched<<")
	assert.Contains(t, out, "PROJ-77")
	assert.Contains(t, out, "title-updated<<")
	assert.Contains(t, out, "body-updated<<")
	assert.Equal(t, 2, strings.Count(out, "\ntrue\n"))
}

func TestRun_GitHubRepositoryOverridesPayload(t *testing.T) {
	te := newTestEnv(t)
	te.vars["GITHUB_REPOSITORY"] = "acme/renamed"

	require.NoError(t, te.run())
	assert.Equal(t, "renamed", te.client.LastRequest.Repo)
}

func TestRun_FlagsOverrideInputs(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("--replace-title=true", "--title-template", "[%branch%]", "--debug"))

	assert.Equal(t, "[PROJ-77]", *te.client.LastRequest.Title)
	assert.Contains(t, te.stdout.String(), "::debug::branch: feature/PROJ-77-search\n")
}

func TestRun_RunnerDebug(t *testing.T) {
	te := newTestEnv(t)
	te.vars["RUNNER_DEBUG"] = "1"

	require.NoError(t, te.run())
	assert.Contains(t, te.stdout.String(), "::debug::processedBody: Ticket: PROJ-77\n")
}

func TestRun_ConfigFile(t *testing.T) {
	te := newTestEnv(t)
	delete(te.vars, "INPUT_BODY-TEMPLATE")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("body-template: \"See %branch%\"\nreplace-body: true\n"), 0o600))

	require.NoError(t, te.run("--config", path))
	assert.Equal(t, "See PROJ-77", *te.client.LastRequest.Body)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(te *testEnv)
		args        []string
		expectedErr *apperrors.AppError
		expectedLog string
	}{
		{
			name:        "missing required input",
			mutate:      func(te *testEnv) { delete(te.vars, "INPUT_REPO-TOKEN") },
			expectedErr: apperrors.ErrMissingInput,
			expectedLog: "::error::Input required and not supplied: repo-token\n",
		},
		{
			name:        "invalid newline count",
			mutate:      func(te *testEnv) { te.vars["INPUT_BODY-PREFIX-NEWLINE-COUNT"] = "two" },
			expectedErr: apperrors.ErrInvalidNewlineCount,
		},
		{
			name:        "branch does not match",
			mutate:      func(te *testEnv) { te.vars["INPUT_BRANCH-REGEX"] = `JIRA-\d+` },
			expectedErr: apperrors.ErrNoMatch,
			expectedLog: "::error::Branch name does not match given regex\n",
		},
		{
			name:        "update fails",
			mutate:      func(te *testEnv) { te.client.UpdateError = github.NewAPIError("Bad credentials") },
			expectedErr: apperrors.ErrUpdatePullRequest,
			expectedLog: "::error::Failed to update pull request: API error: Bad credentials\n",
		},
		{
			name:        "no event payload",
			mutate:      func(te *testEnv) { delete(te.vars, "GITHUB_EVENT_PATH") },
			expectedErr: apperrors.ErrReadEvent,
		},
		{
			name:        "unknown argument",
			args:        []string{"extra"},
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			if tt.mutate != nil {
				tt.mutate(te)
			}

			err := te.run(tt.args...)
			require.Error(t, err)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.expectedLog != "" {
				assert.Contains(t, te.stdout.String(), tt.expectedLog)
			}
			if tt.expectedErr != apperrors.ErrUpdatePullRequest {
				assert.Equal(t, 0, te.client.UpdatePullRequestCalls)
			}
			assert.Empty(t, strings.TrimSpace(te.outputs(t)))
		})
	}
}

func TestRun_Non200DoesNotFail(t *testing.T) {
	te := newTestEnv(t)
	te.client.UpdateStatus = 204

	require.NoError(t, te.run())
	assert.Contains(t, te.stdout.String(), "::error::Updating the pull request has failed status=204\n")
}

func TestRun_LocalPullRequest(t *testing.T) {
	te := newTestEnv(t)
	delete(te.vars, "GITHUB_ACTIONS")
	delete(te.vars, "GITHUB_OUTPUT")
	te.client.PullRequest = &models.PullRequest{
		Owner: "acme", Repo: "app", Number: 8,
		Branch: "PROJ-8-docs", Title: "Docs", Body: "",
	}
	te.prompter.Confirmed = true

	require.NoError(t, te.run("--pr", "8", "--repo", "github.com/acme/app", "--confirm"))

	assert.Equal(t, 1, te.client.GetPullRequestCalls)
	assert.Equal(t, "acme", te.client.LastOwner)
	assert.Equal(t, "app", te.client.LastRepo)
	assert.Equal(t, 8, te.client.LastPRNumber)
	assert.True(t, te.prompter.ConfirmUpdateCalled)
	assert.Equal(t, "PROJ-8 Docs", *te.client.LastRequest.Title)
}

func TestRun_LocalDryRun(t *testing.T) {
	te := newTestEnv(t)
	delete(te.vars, "GITHUB_ACTIONS")
	te.client.PullRequest = &models.PullRequest{
		Owner: "acme", Repo: "app", Number: 8, Branch: "PROJ-8-docs", Title: "Docs",
	}

	require.NoError(t, te.run("--pr", "8", "--repo", "acme/app", "--dry-run"))

	assert.Equal(t, 0, te.client.UpdatePullRequestCalls)
	assert.True(t, te.prompter.ShowPreviewCalled)
	assert.Contains(t, te.prompter.LastPreview, "#8 acme/app (PROJ-8-docs)")
}

func TestRun_DeclinedConfirmReportsNoUpdates(t *testing.T) {
	te := newTestEnv(t)
	te.prompter.Confirmed = false

	require.NoError(t, te.run("--confirm"))

	assert.True(t, te.prompter.ConfirmUpdateCalled)
	assert.Equal(t, 0, te.client.UpdatePullRequestCalls)
	out := te.outputs(t)
	assert.Contains(t, out, "title-updated<<")
	assert.Contains(t, out, "body-updated<<")
	assert.NotContains(t, out, "true")
	assert.Equal(t, 2, strings.Count(out, "\nfalse\n"))
}

func TestRun_DryRunReportsNoUpdates(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("--dry-run"))

	assert.Equal(t, 0, te.client.UpdatePullRequestCalls)
	assert.NotContains(t, te.outputs(t), "true")
}

func TestRun_LocalFetchFails(t *testing.T) {
	te := newTestEnv(t)
	delete(te.vars, "GITHUB_ACTIONS")
	te.client.FetchError = github.NewAPIError("Could not resolve to a PullRequest")

	err := te.run("--pr", "999", "--repo", "acme/app")
	assert.ErrorIs(t, err, apperrors.ErrFetchPullRequest)
}

func TestResolveRepository(t *testing.T) {
	te := newTestEnv(t)

	repo, err := resolveRepository(te.env, &options{repo: "ghe.example.com/acme/app"})
	require.NoError(t, err)
	assert.Equal(t, "acme", repo.GetOwner())
	assert.Equal(t, "app", repo.GetName())
	assert.Equal(t, "ghe.example.com", repo.repo.Host)

	repo, err = resolveRepository(te.env, &options{})
	require.NoError(t, err)
	assert.Nil(t, repo)

	_, err = resolveRepository(te.env, &options{repo: "not-a-repo"})
	assert.ErrorIs(t, err, apperrors.ErrResolveRepository)
}
