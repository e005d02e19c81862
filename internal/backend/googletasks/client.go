// Package googletasks implements service.Mirror using the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskhub/internal/config"
	"taskhub/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Mirror using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

var _ service.Mirror = (*Client)(nil)

// New creates a new Google Tasks client.
// Requires oauth_client.json and google_token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}

	tokenData, err := os.ReadFile(cfg.GoogleTokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.GoogleTokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.GoogleTokenFile, err)
	}

	// Token source refreshes on its own; the base client carries the timeout.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient())
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client. Extra
// options (such as option.WithEndpoint in tests) are passed to the SDK.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DefaultList returns the user's default task list.
func (c *Client) DefaultList(ctx context.Context) (service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return service.TaskList{}, wrapError(err)
	}

	return service.TaskList{
		ID:        DefaultListID,
		Title:     list.Title,
		IsDefault: true,
	}, nil
}

// listLists returns all task lists in API order.
func (c *Client) listLists(ctx context.Context) ([]service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	// The default list's real ID is needed to normalize it to @default.
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	var result []service.TaskList
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			isDefault := list.Id == defaultList.Id
			id := list.Id
			if isDefault {
				id = DefaultListID
			}
			result = append(result, service.TaskList{
				ID:        id,
				Title:     list.Title,
				IsDefault: isDefault,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	return result, nil
}

// ResolveList finds a list by name (case-insensitive, trimmed).
func (c *Client) ResolveList(ctx context.Context, name string) (service.TaskList, error) {
	name = strings.TrimSpace(name)

	lists, err := c.listLists(ctx)
	if err != nil {
		return service.TaskList{}, err
	}

	var matches []service.TaskList
	for _, list := range lists {
		if strings.EqualFold(strings.TrimSpace(list.Title), name) {
			matches = append(matches, list)
		}
	}

	switch len(matches) {
	case 0:
		return service.TaskList{}, fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return service.TaskList{}, fmt.Errorf("ambiguous list name: %s", name)
	}
}

// ListTasks returns every task of a list, following page tokens.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.MirrorTask, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.MirrorTask
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTask creates a new task in the specified list.
func (c *Client) CreateTask(ctx context.Context, listID string, task service.MirrorTask) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, toAPI(task)).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, &tasks.Task{
		Status: service.StatusCompleted,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// The API stores only the date part of due, as midnight UTC.
func toAPI(t service.MirrorTask) *tasks.Task {
	out := &tasks.Task{Title: t.Title, Notes: t.Notes, Status: t.Status}
	if t.Due != nil {
		y, m, d := t.Due.Date()
		out.Due = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	}
	return out
}

func fromAPI(t *tasks.Task) service.MirrorTask {
	out := service.MirrorTask{ID: t.Id, Title: t.Title, Notes: t.Notes, Status: t.Status}
	if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
		out.Due = &due
	}
	return out
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: google token expired or revoked (run: taskhub mirror-login)", service.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
