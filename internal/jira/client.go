package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/clintrovert/jts/pkg/types"
)

// ErrNotFound is returned when Jira answers 404 for a resource
var ErrNotFound = errors.New("not found")

// AuthScheme is the way credentials are presented to Jira
type AuthScheme string

const (
	// AuthBasic sends email and API key as HTTP basic credentials
	AuthBasic AuthScheme = "basic"
	// AuthBearer sends the API key as a bearer token
	AuthBearer AuthScheme = "bearer"
)

// Client wraps Jira and Jira Service Management API functionality
type Client struct {
	mu      sync.RWMutex
	client  *jira.Client
	scheme  AuthScheme
	logger  *zap.Logger
	baseURL string
	email   string
	apiKey  string
}

// NewClient creates a new Jira client using basic authentication
func NewClient(baseURL, email, apiKey string, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("jira base url is required")
	}
	if email == "" || apiKey == "" {
		return nil, errors.New("jira email and api key are required")
	}

	c := &Client{
		logger:  logger,
		baseURL: baseURL,
		email:   email,
		apiKey:  apiKey,
	}
	if err := c.setAuth(AuthBasic); err != nil {
		return nil, err
	}

	return c, nil
}

// Username is the Jira user name derived from the account email
func (c *Client) Username() string {
	return UsernameFromEmail(c.email)
}

// UsernameFromEmail returns the local part of an email address
func UsernameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

// Scheme returns the auth scheme currently in use
func (c *Client) Scheme() AuthScheme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scheme
}

// UseBearerAuth switches the client to present the API key as a bearer token
func (c *Client) UseBearerAuth() error {
	return c.SetAuthScheme(AuthBearer)
}

// SetAuthScheme switches the client to the given auth scheme
func (c *Client) SetAuthScheme(scheme AuthScheme) error {
	return c.setAuth(scheme)
}

func (c *Client) setAuth(scheme AuthScheme) error {
	var httpClient *http.Client
	switch scheme {
	case AuthBasic:
		tp := jira.BasicAuthTransport{
			Username: c.email,
			Password: c.apiKey,
		}
		httpClient = tp.Client()
	case AuthBearer:
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.apiKey})
		httpClient = oauth2.NewClient(context.Background(), ts)
	default:
		return fmt.Errorf("unsupported auth scheme %q", scheme)
	}

	client, err := jira.NewClient(httpClient, c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to create jira client: %w", err)
	}

	c.mu.Lock()
	c.client = client
	c.scheme = scheme
	c.mu.Unlock()

	c.logger.Debug("jira auth scheme set", zap.String("scheme", string(scheme)))
	return nil
}

func (c *Client) api() *jira.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// GetIssue retrieves an issue by key
func (c *Client) GetIssue(ctx context.Context, key string) (*types.Issue, error) {
	issue, resp, err := c.api().Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", key, responseError(resp, err))
	}

	return issueFromJira(issue), nil
}

// SearchAssignedIssues retrieves the unresolved tasks assigned to username
func (c *Client) SearchAssignedIssues(ctx context.Context, username string) ([]types.Issue, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	jql := fmt.Sprintf("assignee = %q AND resolution = Unresolved AND issuetype = Task", username)
	issues, resp, err := c.api().Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
		StartAt:    0,
		MaxResults: 50,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", responseError(resp, err))
	}

	result := make([]types.Issue, 0, len(issues))
	for i := range issues {
		result = append(result, *issueFromJira(&issues[i]))
	}

	c.logger.Debug("searched assigned issues",
		zap.String("username", username),
		zap.Int("count", len(result)),
	)

	return result, nil
}

// issueFromJira converts a Jira issue to an Issue snapshot
func issueFromJira(issue *jira.Issue) *types.Issue {
	result := &types.Issue{Key: issue.Key}
	if issue.Fields == nil {
		return result
	}

	result.Summary = issue.Fields.Summary
	result.Description = issue.Fields.Description
	result.ProjectKey = issue.Fields.Project.Key
	if issue.Fields.Status != nil {
		result.Status = issue.Fields.Status.Name
	}
	if issue.Fields.Assignee != nil {
		result.Assignee = issue.Fields.Assignee.DisplayName
	}
	for _, attachment := range issue.Fields.Attachments {
		if attachment == nil || attachment.Content == "" {
			continue
		}
		result.Attachments = append(result.Attachments, attachment.Content)
	}

	return result
}

// responseError releases the body of a failed response and marks 404
// answers with ErrNotFound
func responseError(resp *jira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}
	if resp.Body != nil {
		resp.Body.Close()
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
