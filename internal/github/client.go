package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	graphql "github.com/cli/shurcooL-graphql"
	"github.com/google/go-github/v68/github"
	"github.com/ryo246912/branch-pr-template/internal/models"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the default GitHub REST API base URL
	DefaultBaseURL = "https://api.github.com/"

	// DefaultHost is the default GitHub host used for GraphQL requests
	DefaultHost = "github.com"
)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets the REST API base URL, e.g. the value of GITHUB_API_URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHost sets the host GraphQL requests are sent to
func WithHost(host string) ClientOption {
	return func(c *Client) {
		c.host = host
	}
}

// WithTransport sets the transport used by both the REST and GraphQL clients
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// Client wraps GitHub API clients. Updates go through the REST API,
// snapshots of a pull request are fetched through GraphQL.
type Client struct {
	token     string
	baseURL   string
	host      string
	transport http.RoundTripper

	rest *github.Client
	gql  *api.GraphQLClient
}

func NewClient(token string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		token:     token,
		baseURL:   DefaultBaseURL,
		host:      DefaultHost,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: c.transport})
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
	c.rest = github.NewClient(oauth2.NewClient(ctx, ts))

	if c.baseURL != "" && c.baseURL != DefaultBaseURL {
		baseURL := c.baseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsedURL, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", c.baseURL, err)
		}
		c.rest.BaseURL = parsedURL
	}

	gqlClient, err := api.NewGraphQLClient(api.ClientOptions{
		AuthToken:    c.token,
		Host:         c.host,
		Transport:    c.transport,
		LogIgnoreEnv: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}
	c.gql = gqlClient

	return c, nil
}

// GetPullRequest fetches the current state of a pull request using GraphQL
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*models.PullRequest, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				Number      int
				Title       string
				Body        string
				HeadRefName string
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(repo),
		"number": graphql.Int(number),
	}

	if err := c.gql.QueryWithContext(ctx, "PullRequestSnapshot", &q, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch pull request: %w", err)
	}

	pr := q.Repository.PullRequest
	return &models.PullRequest{
		Owner:  owner,
		Repo:   repo,
		Number: pr.Number,
		Branch: pr.HeadRefName,
		Title:  pr.Title,
		Body:   pr.Body,
	}, nil
}

// UpdatePullRequest sends the title and body set in req and returns the
// response status code. Nil fields are omitted from the request.
func (c *Client) UpdatePullRequest(ctx context.Context, req *models.UpdateRequest) (int, error) {
	if req == nil || !req.HasChanges() {
		return 0, errors.New("update request has no changes")
	}

	_, resp, err := c.rest.PullRequests.Edit(ctx, req.Owner, req.Repo, req.Number, &github.PullRequest{
		Title: req.Title,
		Body:  req.Body,
	})
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		return status, fmt.Errorf("failed to update pull request: %w", err)
	}
	return status, nil
}
