package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockContents struct {
	mock.Mock
}

func (m *mockContents) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	file, _ := args.Get(0).(*github.RepositoryContent)
	resp, _ := args.Get(1).(*github.Response)
	return file, nil, resp, args.Error(2)
}

func (m *mockContents) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	return &github.RepositoryContentResponse{}, nil, args.Error(0)
}

func (m *mockContents) UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	return &github.RepositoryContentResponse{}, nil, args.Error(0)
}

func response(status int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status}}
}

func localFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewPublisher_MissingToken(t *testing.T) {
	p, err := NewPublisher("", "gyo-lab/weeklymenu", "main")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewPublisherWithService_InvalidRepo(t *testing.T) {
	for _, repo := range []string{"", "weeklymenu", "/weeklymenu", "gyo-lab/", "a/b/c"} {
		_, err := NewPublisherWithService(&mockContents{}, repo, "main")
		assert.Error(t, err, repo)
	}
}

func TestNewPublisherWithService_DefaultBranch(t *testing.T) {
	p, err := NewPublisherWithService(&mockContents{}, "gyo-lab/weeklymenu", "")
	require.NoError(t, err)
	assert.Equal(t, "main", p.branch)
	assert.Equal(t, "gyo-lab/weeklymenu", p.Repo())
}

func TestPublish_UpdatesExistingFile(t *testing.T) {
	path := localFile(t, "weekly_menu.jpg", "jpeg-bytes")
	m := &mockContents{}
	m.On("GetContents", mock.Anything, "gyo-lab", "weeklymenu", "weekly_menu.jpg",
		&github.RepositoryContentGetOptions{Ref: "main"}).
		Return(&github.RepositoryContent{SHA: github.String("abc123")}, response(200), nil)
	m.On("UpdateFile", mock.Anything, "gyo-lab", "weeklymenu", "weekly_menu.jpg",
		mock.MatchedBy(func(o *github.RepositoryContentFileOptions) bool {
			return o.GetMessage() == MessageUpdate &&
				o.GetSHA() == "abc123" &&
				o.GetBranch() == "main" &&
				string(o.Content) == "jpeg-bytes"
		})).Return(nil)

	p, err := NewPublisherWithService(m, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	action, err := p.Publish(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, action)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_CreatesMissingFile(t *testing.T) {
	path := localFile(t, "weekly_menu.jpg", "jpeg-bytes")
	m := &mockContents{}
	m.On("GetContents", mock.Anything, "gyo-lab", "weeklymenu", "weekly_menu.jpg", mock.Anything).
		Return(nil, response(404), &github.ErrorResponse{Response: &http.Response{StatusCode: 404}})
	m.On("CreateFile", mock.Anything, "gyo-lab", "weeklymenu", "weekly_menu.jpg",
		mock.MatchedBy(func(o *github.RepositoryContentFileOptions) bool {
			return o.GetMessage() == MessageCreate && o.SHA == nil
		})).Return(nil)

	p, err := NewPublisherWithService(m, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	action, err := p.Publish(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, action)
	m.AssertExpectations(t)
}

func TestPublish_LookupFailureDoesNotWrite(t *testing.T) {
	path := localFile(t, "weekly_menu.jpg", "jpeg-bytes")
	m := &mockContents{}
	m.On("GetContents", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, response(500), errors.New("server error"))

	p, err := NewPublisherWithService(m, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), path)
	var pubErr *Error
	require.ErrorAs(t, err, &pubErr)
	assert.Contains(t, err.Error(), "failed to look up remote file")
	m.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "UpdateFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_WriteFailure(t *testing.T) {
	path := localFile(t, "weekly_menu.jpg", "jpeg-bytes")
	m := &mockContents{}
	m.On("GetContents", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&github.RepositoryContent{SHA: github.String("abc123")}, response(200), nil)
	m.On("UpdateFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("409 conflict"))

	p, err := NewPublisherWithService(m, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409 conflict")
}

func TestPublish_MissingLocalFile(t *testing.T) {
	m := &mockContents{}
	p, err := NewPublisherWithService(m, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), filepath.Join(t.TempDir(), "weekly_menu.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read local file")
	m.AssertNotCalled(t, "GetContents", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_AgainstContentsAPI(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/gyo-lab/weeklymenu/contents/weekly_menu.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		case http.MethodPut:
			assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"content":{"name":"weekly_menu.json"}}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := github.NewClient(nil).WithAuthToken("ghp_test")
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	p, err := NewPublisherWithService(client.Repositories, "gyo-lab/weeklymenu", "main")
	require.NoError(t, err)

	action, err := p.Publish(context.Background(), localFile(t, "weekly_menu.json", `{"월요일":{}}`))
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, action)
	assert.Equal(t, MessageCreate, created["message"])
	assert.Equal(t, "main", created["branch"])
	assert.NotEmpty(t, created["content"])
}
