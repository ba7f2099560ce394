package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	OpName    string         `json:"operationName"`
	Variables map[string]any `json:"variables"`
}

// newServer answers every request with whatever respond returns, encoded as JSON.
func newServer(t *testing.T, respond func(req graphqlRequest) any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization header is %q", got)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("while decoding request: %s", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(respond(req))
	}))
	t.Cleanup(server.Close)

	return server
}

func newClient(server *httptest.Server) github.Client {
	return github.NewClient(github.Options{Endpoint: server.URL, Token: "secret", Timeout: 5 * time.Second})
}

func TestRunQueryDecodesData(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(req graphqlRequest) any {
		assert.Equal(t, "Viewer", req.OpName)
		assert.Equal(t, "octocat", req.Variables["login"])

		return map[string]any{"data": map[string]any{"viewer": map[string]any{"login": "octocat"}}}
	})

	var data struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}

	err := newClient(server).RunQuery(context.Background(), "Viewer", "query Viewer { viewer { login } }",
		map[string]any{"login": "octocat"}, &data)
	require.NoError(t, err)
	assert.Equal(t, "octocat", data.Viewer.Login)
}

func TestRunQueryNon200IsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	var data struct{}
	err := newClient(server).RunQuery(context.Background(), "Viewer", "query Viewer { viewer { login } }", nil, &data)

	var transportErr github.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	assert.Contains(t, transportErr.Error(), "401")
	assert.Contains(t, transportErr.Error(), "bad credentials")
}

func TestRunQueryUnreachableIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	client := github.NewClient(github.Options{Endpoint: endpoint, Token: "secret", Timeout: time.Second})

	var data struct{}
	err := client.RunQuery(context.Background(), "Viewer", "query Viewer { viewer { login } }", nil, &data)

	var transportErr github.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, transportErr.Err)
}

func TestRunQueryTimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	const timeout = 200 * time.Millisecond

	client := github.NewClient(github.Options{Endpoint: server.URL, Token: "secret", Timeout: timeout})

	var data struct{}

	start := time.Now()
	err := client.RunQuery(context.Background(), "Viewer", "query Viewer { viewer { login } }", nil, &data)
	elapsed := time.Since(start)

	var transportErr github.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, transportErr.Err)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, 1500*time.Millisecond)
}

func TestRunQueryGraphQLErrors(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(graphqlRequest) any {
		return map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": "Could not resolve to a node with the global id of 'x'"}},
		}
	})

	var data struct{}
	err := newClient(server).RunQuery(context.Background(), "ProjectItems", "query { x }", nil, &data)

	var gqlErr github.GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Contains(t, err.Error(), "Could not resolve")

	msg, ok := github.GqlErrorString(err)
	assert.True(t, ok)
	assert.Equal(t, "Could not resolve to a node with the global id of 'x'", msg)
}

func TestGqlErrorStringOtherErrors(t *testing.T) {
	t.Parallel()

	_, ok := github.GqlErrorString(nil)
	assert.False(t, ok)

	_, ok = github.GqlErrorString(github.TransportError{Status: "500 Internal Server Error"})
	assert.False(t, ok)
}
