package github

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// TransportError means the request did not produce a 200 OK. Err is set when GitHub could not be reached at all.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to GitHub failed: %s", e.Err)
	}

	return fmt.Sprintf("GitHub API returned %s: %s", e.Status, e.Body)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError holds the top-level `errors` array of a response.
type GraphQLError struct {
	Op     string
	Errors gqlerror.List
}

func (e GraphQLError) Error() string {
	return fmt.Sprintf("GraphQL error in %s: %s", e.Op, e.Errors.Error())
}

func (e GraphQLError) Unwrap() error {
	return e.Errors
}

/*
GqlErrorString returns the message of the first GraphQL error if err contains one. If the error is nil or not from gql
then `"", false`.
*/
func GqlErrorString(err error) (string, bool) {
	if err != nil {
		var gqlerr GraphQLError
		if errors.As(err, &gqlerr) && len(gqlerr.Errors) > 0 {
			return gqlerr.Errors[0].Message, true
		}
	}

	return "", false
}

type InvalidURLError struct {
	URL string
}

func (e InvalidURLError) Error() string {
	return fmt.Sprintf("%q is not a project URL, expected https://<host>/(orgs|users)/<name>/projects/<number>", e.URL)
}

// ProjectNotFoundError is returned when the owner or its project does not exist. Err is GitHub's own error, if any.
type ProjectNotFoundError struct {
	Ref ProjectRef
	Err error
}

func (e ProjectNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("project %s was not found or the token cannot see it: %s", e.Ref, e.Err)
	}

	return fmt.Sprintf("project %s was not found or the token cannot see it", e.Ref)
}

func (e ProjectNotFoundError) Unwrap() error {
	return e.Err
}

type EmptyResponseError struct {
	Message string
}

func (e EmptyResponseError) Error() string {
	return fmt.Sprintf("we expected something from GitHub, but it gave us nothing. details: %s", e.Message)
}

// PageLimitError is returned once the pager used up its page budget. Fetching can resume from Cursor.
type PageLimitError struct {
	Limit  int
	Cursor string
}

func (e PageLimitError) Error() string {
	return fmt.Sprintf("stopped after %d pages of project items, resume from cursor %q", e.Limit, e.Cursor)
}
