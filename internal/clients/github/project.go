package github

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

type OwnerKind int

const (
	OwnerOrg OwnerKind = iota
	OwnerUser
)

// String returns the URL path segment of the owner kind.
func (k OwnerKind) String() string {
	if k == OwnerUser {
		return "users"
	}

	return "orgs"
}

// ProjectRef is the parsed form of a project URL.
type ProjectRef struct {
	OwnerKind OwnerKind
	OwnerName string
	Number    int
}

func (r ProjectRef) String() string {
	return fmt.Sprintf("%s/%s/projects/%d", r.OwnerKind, r.OwnerName, r.Number)
}

// ProjectHandle is what GitHub knows the project by.
type ProjectHandle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var projectURLPattern = regexp.MustCompile(`(?:^|/)(orgs|users)/([^/?#]+)/projects/(\d+)(?:[/?#]|$)`)

// ParseProjectURL accepts `https://<host>/(orgs|users)/<name>/projects/<number>` with an optional trailing path.
func ParseProjectURL(url string) (ProjectRef, error) {
	match := projectURLPattern.FindStringSubmatch(url)
	if match == nil {
		return ProjectRef{}, InvalidURLError{URL: url}
	}

	number, err := strconv.Atoi(match[3])
	if err != nil {
		return ProjectRef{}, InvalidURLError{URL: url}
	}

	kind := OwnerOrg
	if match[1] == "users" {
		kind = OwnerUser
	}

	return ProjectRef{OwnerKind: kind, OwnerName: match[2], Number: number}, nil
}

const orgProjectQuery = `query OrgProject($login: String!, $number: Int!) {
  organization(login: $login) {
    projectV2(number: $number) { id title }
  }
}`

const userProjectQuery = `query UserProject($login: String!, $number: Int!) {
  user(login: $login) {
    projectV2(number: $number) { id title }
  }
}`

type projectOwner struct {
	ProjectV2 *ProjectHandle `json:"projectV2"`
}

// ResolveProject looks the project up under its owner. A missing owner or project is a ProjectNotFoundError.
func ResolveProject(ctx context.Context, q Querier, ref ProjectRef) (ProjectHandle, error) {
	var data struct {
		Organization *projectOwner `json:"organization"`
		User         *projectOwner `json:"user"`
	}

	opName, query, ownerField := "OrgProject", orgProjectQuery, "organization"
	if ref.OwnerKind == OwnerUser {
		opName, query, ownerField = "UserProject", userProjectQuery, "user"
	}

	variables := map[string]any{"login": ref.OwnerName, "number": ref.Number}
	if err := q.RunQuery(ctx, opName, query, variables, &data); err != nil {
		if unresolved(err, ownerField) {
			return ProjectHandle{}, ProjectNotFoundError{Ref: ref, Err: err}
		}

		return ProjectHandle{}, fmt.Errorf("while looking up project %s: %w", ref, err)
	}

	owner := data.Organization
	if ref.OwnerKind == OwnerUser {
		owner = data.User
	}

	if owner == nil || owner.ProjectV2 == nil || owner.ProjectV2.ID == "" {
		return ProjectHandle{}, ProjectNotFoundError{Ref: ref}
	}

	return *owner.ProjectV2, nil
}

/*
unresolved reports whether every GraphQL error is GitHub saying it could not resolve the owner or its project. GitHub
marks those with `"type": "NOT_FOUND"`, which gqlerror does not keep, so the path and message are checked instead.
*/
func unresolved(err error, ownerField string) bool {
	var gqlErr GraphQLError
	if !errors.As(err, &gqlErr) || len(gqlErr.Errors) == 0 {
		return false
	}

	for _, e := range gqlErr.Errors {
		if e == nil || len(e.Path) == 0 || e.Path[0] != ast.PathName(ownerField) ||
			!strings.HasPrefix(e.Message, "Could not resolve to") {
			return false
		}
	}

	return true
}

// Resolve parses the URL and looks the project up.
func Resolve(ctx context.Context, q Querier, url string) (ProjectRef, ProjectHandle, error) {
	ref, err := ParseProjectURL(url)
	if err != nil {
		return ProjectRef{}, ProjectHandle{}, err
	}

	handle, err := ResolveProject(ctx, q, ref)
	if err != nil {
		return ref, ProjectHandle{}, err
	}

	return ref, handle, nil
}
