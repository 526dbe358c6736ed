// Package publish uploads menu artifacts to a GitHub repository through the contents API.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v66/github"
)

// ErrMissingToken is returned when no repository credential is configured.
var ErrMissingToken = errors.New("GITHUB_TOKEN is not set")

// Commit messages for the two outcomes of a publish.
const (
	MessageUpdate = "Update weekly menu"
	MessageCreate = "Add weekly menu"
)

// Action reports what a publish did to the remote file.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Error represents a failed publish of one file.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("publish error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("publish error for %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ContentsService is the part of the GitHub repositories API used for publishing.
// *github.RepositoriesService satisfies it.
type ContentsService interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

// Publisher writes local files to the root of a repository branch. The remote
// name is the base name of the local file.
type Publisher struct {
	owner    string
	repo     string
	branch   string
	contents ContentsService
}

// NewPublisher creates a Publisher for repo ("owner/name") authenticated with token.
// It fails before any network activity when token is empty.
func NewPublisher(token, repo, branch string) (*Publisher, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	client := github.NewClient(nil).WithAuthToken(token)
	return NewPublisherWithService(client.Repositories, repo, branch)
}

// NewPublisherWithService creates a Publisher over an existing contents client.
func NewPublisherWithService(contents ContentsService, repo, branch string) (*Publisher, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", repo)
	}
	if branch == "" {
		branch = "main"
	}
	return &Publisher{owner: owner, repo: name, branch: branch, contents: contents}, nil
}

// Repo returns the target repository as owner/name.
func (p *Publisher) Repo() string {
	return p.owner + "/" + p.repo
}

// Publish uploads localPath. An existing remote file is updated in place using
// its current blob SHA; a missing one is created. Any other lookup failure is
// returned without writing.
func (p *Publisher) Publish(ctx context.Context, localPath string) (Action, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return "", &Error{Path: localPath, Message: "failed to read local file", Cause: err}
	}
	remote := filepath.Base(localPath)

	sha, found, err := p.lookup(ctx, remote)
	if err != nil {
		return "", &Error{Path: remote, Message: "failed to look up remote file", Cause: err}
	}

	opts := &github.RepositoryContentFileOptions{
		Content: content,
		Branch:  github.String(p.branch),
	}
	if found {
		opts.Message = github.String(MessageUpdate)
		opts.SHA = github.String(sha)
		if _, _, err := p.contents.UpdateFile(ctx, p.owner, p.repo, remote, opts); err != nil {
			return "", &Error{Path: remote, Message: "failed to update remote file", Cause: err}
		}
		return ActionUpdated, nil
	}

	opts.Message = github.String(MessageCreate)
	if _, _, err := p.contents.CreateFile(ctx, p.owner, p.repo, remote, opts); err != nil {
		return "", &Error{Path: remote, Message: "failed to create remote file", Cause: err}
	}
	return ActionCreated, nil
}

// lookup returns the blob SHA of the remote file and whether it exists.
func (p *Publisher) lookup(ctx context.Context, remote string) (string, bool, error) {
	file, _, resp, err := p.contents.GetContents(ctx, p.owner, p.repo, remote,
		&github.RepositoryContentGetOptions{Ref: p.branch})
	if err != nil {
		if isNotFound(resp, err) {
			return "", false, nil
		}
		return "", false, err
	}
	if file == nil {
		return "", false, fmt.Errorf("%s is a directory", remote)
	}
	return file.GetSHA(), true, nil
}

func isNotFound(resp *github.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
