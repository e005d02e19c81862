// Package github implements service.Store on top of the GitHub Contents API.
//
// The whole Document lives in one JSON file in a repository branch. The blob
// SHA of that file is the version tag: a save sends the SHA it loaded, and
// GitHub rejects the write if the file has moved on since.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// Default file location, matching the web client.
const (
	DefaultRepo   = "myfiles"
	DefaultPath   = "task-data.json"
	DefaultBranch = "main"
)

// Options configures a Store.
type Options struct {
	Owner  string
	Repo   string
	Path   string
	Branch string

	// Seed taxonomy used when the document has none.
	Projects []string
	Themes   map[string][]string

	// HTTPClient is the base transport, including any timeout. The bearer
	// credential is layered on top of it per call.
	HTTPClient *http.Client

	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string

	Logger *slog.Logger
	Now    func() time.Time
}

// Store implements service.Store.
type Store struct {
	opts Options
	log  *slog.Logger
}

var _ service.Store = (*Store)(nil)

// New returns a Store for the file described by opts.
func New(opts Options) (*Store, error) {
	if opts.Owner == "" {
		return nil, errors.New("repository owner not configured")
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Branch == "" {
		opts.Branch = DefaultBranch
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("repo", opts.Owner+"/"+opts.Repo, "path", opts.Path, "branch", opts.Branch)
	return &Store{opts: opts, log: log}, nil
}

func (s *Store) client(ctx context.Context, credential string) (*gogithub.Client, error) {
	return NewClient(ctx, s.opts.HTTPClient, s.opts.BaseURL, credential)
}

// NewClient returns a GitHub API client that sends credential as a bearer
// token over hc. An empty credential makes unauthenticated requests and an
// empty baseURL means api.github.com.
func NewClient(ctx context.Context, hc *http.Client, baseURL, credential string) (*gogithub.Client, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	if credential != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential}))
	}
	c := gogithub.NewClient(hc)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API URL: %w", err)
		}
		c.BaseURL = u
	}
	return c, nil
}

// Load implements service.Store.
func (s *Store) Load(ctx context.Context, credential string) (model.Document, service.VersionTag, error) {
	c, err := s.client(ctx, credential)
	if err != nil {
		return model.Document{}, "", service.LoadError(err)
	}

	fc, _, _, err := c.Repositories.GetContents(ctx, s.opts.Owner, s.opts.Repo, s.opts.Path,
		&gogithub.RepositoryContentGetOptions{Ref: s.opts.Branch})
	if err != nil {
		s.log.Debug("load failed", "err", err)
		return model.Document{}, "", service.LoadError(Classify(err))
	}
	if fc == nil {
		return model.Document{}, "", service.LoadError(fmt.Errorf("%s is a directory", s.opts.Path))
	}

	content, err := fc.GetContent()
	if err != nil {
		return model.Document{}, "", service.LoadError(fmt.Errorf("decode content: %w", err))
	}
	doc, err := s.decode([]byte(content))
	if err != nil {
		return model.Document{}, "", service.LoadError(err)
	}

	tag := service.VersionTag(fc.GetSHA())
	s.log.Debug("loaded document", "sha", tag, "tasks", len(doc.Tasks), "recurring", len(doc.RecurringTasks))
	return doc, tag, nil
}

// decode parses the file and fills in whatever the writer left out.
func (s *Store) decode(data []byte) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("parse %s: %w", s.opts.Path, err)
	}
	seed := model.NewDocument(s.opts.Projects, s.opts.Themes)
	if doc.Tasks == nil {
		doc.Tasks = seed.Tasks
	}
	if doc.RecurringTasks == nil {
		doc.RecurringTasks = seed.RecurringTasks
	}
	if doc.Projects == nil {
		doc.Projects = seed.Projects
	}
	if doc.Themes == nil {
		doc.Themes = seed.Themes
	}
	return doc, nil
}

// Save implements service.Store. An empty tag creates the file.
func (s *Store) Save(ctx context.Context, credential string, tag service.VersionTag, doc model.Document) (service.VersionTag, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", service.SaveError(fmt.Errorf("encode document: %w", err))
	}
	c, err := s.client(ctx, credential)
	if err != nil {
		return "", service.SaveError(err)
	}

	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.String("Update tasks - " + s.opts.Now().UTC().Format(time.RFC3339)),
		Content: data,
		Branch:  gogithub.String(s.opts.Branch),
	}
	if tag != "" {
		opts.SHA = gogithub.String(string(tag))
	}

	res, _, err := c.Repositories.UpdateFile(ctx, s.opts.Owner, s.opts.Repo, s.opts.Path, opts)
	if err != nil {
		s.log.Debug("save failed", "sha", tag, "err", err)
		return "", service.SaveError(Classify(err))
	}

	next := service.VersionTag(res.GetContent().GetSHA())
	if next == "" {
		return "", service.SaveError(errors.New("response carried no content sha"))
	}
	s.log.Debug("saved document", "sha", tag, "new_sha", next, "bytes", len(data))
	return next, nil
}

// Classify maps an API error onto the service sentinels by status code,
// keeping the original error in the chain. Other errors are returned as is.
func Classify(err error) error {
	var er *gogithub.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		return err
	}
	switch er.Response.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", service.ErrNotFound, err)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", service.ErrConflict, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", service.ErrUnauthorized, err)
	}
	return err
}
