package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/ryo246912/branch-pr-template/internal/config"
	apperrors "github.com/ryo246912/branch-pr-template/internal/errors"
	"github.com/ryo246912/branch-pr-template/internal/github"
	"github.com/ryo246912/branch-pr-template/internal/logger"
	"github.com/ryo246912/branch-pr-template/internal/models"
	"github.com/ryo246912/branch-pr-template/internal/service"
	"github.com/ryo246912/branch-pr-template/internal/ui"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
)

// RepositoryAdapter adapts repository.Repository to our interface
type RepositoryAdapter struct {
	repo *repository.Repository
}

func (r *RepositoryAdapter) GetOwner() string {
	return r.repo.Owner
}

func (r *RepositoryAdapter) GetName() string {
	return r.repo.Name
}

var inputUsage = map[string]string{
	config.InputRepoToken:              "token used to update the pull request",
	config.InputBranchRegex:            "regular expression matched against the branch name",
	config.InputLowercaseBranch:        "lowercase the branch name before matching",
	config.InputTitleTemplate:          "title template, %branch% is replaced with the match",
	config.InputReplaceTitle:           "replace the title instead of prefixing it",
	config.InputTitlePrefixSpace:       "put a space between the prefix and the title",
	config.InputUppercaseTitle:         "uppercase the match in the title",
	config.InputBodyTemplate:           "body template, %branch% is replaced with the match",
	config.InputReplaceBody:            "replace the body instead of prefixing it",
	config.InputBodyPrefixNewlineCount: "number of newlines between the prefix and the body",
	config.InputUppercaseBody:          "uppercase the match in the body",
}

type options struct {
	configPath string
	eventPath  string
	repo       string
	pr         int
	dryRun     bool
	confirm    bool
	debug      bool

	inputs config.MapSource
}

// env is the environment of a run; tests replace it
type env struct {
	getenv    func(string) string
	stdout    io.Writer
	newClient func(token string, opts ...github.ClientOption) (github.GitHubClient, error)
	prompter  ui.Prompter
}

func defaultEnv() *env {
	return &env{
		getenv:    os.Getenv,
		stdout:    os.Stdout,
		newClient: func(token string, opts ...github.ClientOption) (github.GitHubClient, error) {
			return github.NewClient(token, opts...)
		},
		prompter: &ui.DefaultPrompter{Out: os.Stdout},
	}
}

func (e *env) inActions() bool {
	return e.getenv("GITHUB_ACTIONS") == "true"
}

func (e *env) debugEnabled(flag bool) bool {
	return flag || e.getenv("RUNNER_DEBUG") == "1"
}

func runCommand(ctx context.Context, e *env, opts *options) error {
	src := config.Layered{opts.inputs, config.EnvSource{Getenv: e.getenv}}
	if opts.configPath != "" {
		fileSrc, err := config.LoadFile(opts.configPath)
		if err != nil {
			return err
		}
		src = append(src, fileSrc)
	}
	if !e.inActions() {
		src = append(src, config.AuthSource{})
	}

	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	repo, err := resolveRepository(e, opts)
	if err != nil {
		return err
	}

	var clientOpts []github.ClientOption
	if apiURL := e.getenv("GITHUB_API_URL"); apiURL != "" {
		clientOpts = append(clientOpts, github.WithBaseURL(apiURL))
	}
	if repo != nil && repo.repo.Host != "" {
		clientOpts = append(clientOpts, github.WithHost(repo.repo.Host))
	}
	client, err := e.newClient(cfg.Token, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	pr, err := loadPullRequest(ctx, e, opts, client, repo)
	if err != nil {
		return err
	}

	svc := service.NewRetitleService(client, cfg, e.prompter, service.Options{
		DryRun:  opts.dryRun,
		Confirm: opts.confirm,
	})
	result, err := svc.Process(ctx, pr)
	if err != nil {
		return err
	}

	writeOutputs(e, result)
	return nil
}

// resolveRepository returns the repository named by --repo, or by
// GITHUB_REPOSITORY inside Actions. Outside Actions a pull request given with
// --pr falls back to the repository of the current directory.
func resolveRepository(e *env, opts *options) (*RepositoryAdapter, error) {
	name := opts.repo
	if name == "" && e.inActions() {
		name = e.getenv("GITHUB_REPOSITORY")
	}

	var (
		repo repository.Repository
		err  error
	)
	switch {
	case name != "":
		repo, err = repository.Parse(name)
	case opts.pr > 0:
		repo, err = repository.Current()
	default:
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrResolveRepository.WithError(err)
	}
	return &RepositoryAdapter{repo: &repo}, nil
}

func loadPullRequest(ctx context.Context, e *env, opts *options, client github.GitHubClient, repo *RepositoryAdapter) (*models.PullRequest, error) {
	if opts.pr > 0 {
		pr, err := client.GetPullRequest(ctx, repo.GetOwner(), repo.GetName(), opts.pr)
		if err != nil {
			return nil, apperrors.ErrFetchPullRequest.WithError(err)
		}
		return pr, nil
	}

	path := opts.eventPath
	if path == "" {
		path = e.getenv("GITHUB_EVENT_PATH")
	}
	if path == "" {
		return nil, apperrors.ErrReadEvent.WithError(fmt.Errorf("GITHUB_EVENT_PATH is not set; use --event-path or --pr"))
	}

	// a nil *RepositoryAdapter must not become a non-nil interface
	var info github.RepositoryInfo
	if repo != nil {
		info = repo
	}
	return github.LoadEvent(path, info)
}

func writeOutputs(e *env, result *models.Result) {
	if e.getenv("GITHUB_OUTPUT") == "" {
		return
	}
	action := githubactions.New(githubactions.WithGetenv(e.getenv), githubactions.WithWriter(e.stdout))
	action.SetOutput("matched", result.Matched)
	action.SetOutput("title-updated", strconv.FormatBool(result.TitleUpdated))
	action.SetOutput("body-updated", strconv.FormatBool(result.BodyUpdated))
}

func newRootCmd(e *env) *cobra.Command {
	opts := &options{inputs: config.MapSource{}}
	values := make(map[string]*string, len(config.Inputs))

	cmd := &cobra.Command{
		Use:   "branch-pr-template",
		Short: "Update a pull request's title and body from its branch name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, v := range values {
				if cmd.Flags().Changed(name) {
					opts.inputs[name] = *v
				}
			}

			l := logger.Initialize(e.stdout, e.debugEnabled(opts.debug), e.inActions())
			ctx := logger.WithLogger(cmd.Context(), l)

			if err := runCommand(ctx, e, opts); err != nil {
				logger.Error(ctx, err.Error(), nil)
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, name := range config.Inputs {
		values[name] = cmd.Flags().String(name, "", inputUsage[name])
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML file with input values")
	cmd.Flags().StringVar(&opts.eventPath, "event-path", "", "pull request event payload (defaults to GITHUB_EVENT_PATH)")
	cmd.Flags().StringVarP(&opts.repo, "repo", "R", "", "repository as [HOST/]OWNER/REPO")
	cmd.Flags().IntVar(&opts.pr, "pr", 0, "fetch this pull request instead of reading an event payload")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the update without sending it")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "ask before sending the update")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}
