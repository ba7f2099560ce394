package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	genqlient "github.com/Khan/genqlient/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const (
	DefaultEndpoint = "https://api.github.com/graphql"
	DefaultTimeout  = 30 * time.Second
)

// Querier runs one GraphQL operation and decodes its `data` payload into data.
type Querier interface {
	RunQuery(ctx context.Context, opName, query string, variables map[string]any, data any) error
}

type Options struct {
	// Defaults to DefaultEndpoint.
	Endpoint string
	Token    string
	// Upper bound for a single request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

type Client struct {
	client  genqlient.Client
	timeout time.Duration
}

func NewClient(opts Options) Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: &authedTransport{token: opts.Token, wrapped: http.DefaultTransport},
		Timeout:   opts.Timeout,
	}

	return Client{
		client:  genqlient.NewClient(opts.Endpoint, statusCheckingDoer{wrapped: httpClient}),
		timeout: opts.Timeout,
	}
}

/*
RunQuery sends a single POST request. There are no retries.

Returned errors are TransportError when GitHub could not be reached or answered with something other than 200 OK, and
GraphQLError when the response carries an `errors` array.
*/
func (c Client) RunQuery(ctx context.Context, opName, query string, variables map[string]any, data any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &genqlient.Request{
		OpName:    opName,
		Query:     query,
		Variables: variables,
	}
	resp := &genqlient.Response{Data: data}

	err := c.client.MakeRequest(ctx, req, resp)
	if err == nil {
		return nil
	}

	var transportErr TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}

	var gqlErrs gqlerror.List
	if errors.As(err, &gqlErrs) {
		return GraphQLError{Op: opName, Errors: gqlErrs}
	}

	return fmt.Errorf("while running %s: %w", opName, err)
}

type authedTransport struct {
	token   string
	wrapped http.RoundTripper
}

func (t *authedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.wrapped.RoundTrip(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform RoundTrip in authedTransport")
	}

	return resp, nil
}

// statusCheckingDoer turns every response that is not 200 OK into a TransportError before genqlient decodes it.
type statusCheckingDoer struct {
	wrapped *http.Client
}

func (d statusCheckingDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.wrapped.Do(req)
	if err != nil {
		return nil, TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		body = []byte(fmt.Sprintf("<unreadable: %s>", err))
	}

	return nil, TransportError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}
}
