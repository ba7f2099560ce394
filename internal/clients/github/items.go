package github

import (
	"context"
	"fmt"

	"github.com/m-kuzmin/project-reporter/internal/util/option"
)

const (
	MaxPageSize     = 50
	DefaultMaxPages = 200
)

// RawItem is one project item as GitHub returned it.
type RawItem struct {
	// nil for items that are not backed by anything. Pull requests and drafts decode to an empty Issue.
	Content     *Issue `json:"content"`
	FieldValues struct {
		Nodes []*FieldValue `json:"nodes"`
	} `json:"fieldValues"`
}

type Issue struct {
	ID         string `json:"id"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	State      string `json:"state"`
	ClosedAt   string `json:"closedAt"`
	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
	IssueType *struct {
		Name string `json:"name"`
	} `json:"issueType"`
	Parent    *ParentIssue `json:"parent"`
	Assignees *struct {
		Nodes []*struct {
			Login string `json:"login"`
		} `json:"nodes"`
	} `json:"assignees"`
}

type ParentIssue struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`
}

/*
FieldValue is a custom field value of an item. At most one of Name (single select), Text and Number is set. Field value
kinds that the query doesn't ask for decode to a FieldValue with no Field.
*/
type FieldValue struct {
	Field *struct {
		Name string `json:"name"`
	} `json:"field"`
	Name   *string  `json:"name"`
	Text   *string  `json:"text"`
	Number *float64 `json:"number"`
}

const projectItemsQuery = `query ProjectItems($projectId: ID!, $first: Int!, $cursor: String) {
  node(id: $projectId) {
    ... on ProjectV2 {
      items(first: $first, after: $cursor) {
        pageInfo { hasNextPage endCursor }
        nodes {
          content {
            ... on Issue {
              id number title closedAt state
              repository { nameWithOwner }
              issueType { name }
              parent { ... on Issue { number title repository { nameWithOwner } } }
              assignees(first: 20) { nodes { login } }
            }
          }
          fieldValues(first: 20) {
            nodes {
              ... on ProjectV2ItemFieldSingleSelectValue {
                field { ... on ProjectV2FieldCommon { name } }
                name
              }
              ... on ProjectV2ItemFieldTextValue {
                field { ... on ProjectV2FieldCommon { name } }
                text
              }
              ... on ProjectV2ItemFieldNumberValue {
                field { ... on ProjectV2FieldCommon { name } }
                number
              }
            }
          }
        }
      }
    }
  }
}`

type itemsPage struct {
	Node *struct {
		Items *struct {
			PageInfo struct {
				HasNextPage bool                  `json:"hasNextPage"`
				EndCursor   option.Option[string] `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []RawItem `json:"nodes"`
		} `json:"items"`
	} `json:"node"`
}

type PagerOptions struct {
	// Items per request, 1..MaxPageSize. 0 means MaxPageSize.
	PageSize int
	// How many requests Next may make before failing with PageLimitError. 0 means DefaultMaxPages.
	MaxPages int
	// Where to resume a previous traversal. None starts from the first page.
	StartCursor option.Option[string]
}

// ItemPager walks the items of one project page by page.
type ItemPager struct {
	querier   Querier
	projectID string
	pageSize  int
	maxPages  int

	cursor option.Option[string]
	pages  int
	done   bool
}

func NewItemPager(q Querier, projectID string, opts PagerOptions) *ItemPager {
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}

	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	return &ItemPager{
		querier:   q,
		projectID: projectID,
		pageSize:  opts.PageSize,
		maxPages:  opts.MaxPages,
		cursor:    opts.StartCursor,
	}
}

// Done is true once a page reported hasNextPage = false.
func (p *ItemPager) Done() bool {
	return p.done
}

// Cursor is the position the next call to Next will read from.
func (p *ItemPager) Cursor() option.Option[string] {
	return p.cursor
}

// Pages is the number of pages read so far.
func (p *ItemPager) Pages() int {
	return p.pages
}

/*
Next fetches one page. After the last page it returns `nil, nil` and Done is true. On error the cursor does not move,
so calling Next again retries the same page.
*/
func (p *ItemPager) Next(ctx context.Context) ([]RawItem, error) {
	if p.done {
		return nil, nil
	}

	if p.pages >= p.maxPages {
		return nil, PageLimitError{Limit: p.maxPages, Cursor: p.cursor.UnwrapOr("")}
	}

	variables := map[string]any{
		"projectId": p.projectID,
		"first":     p.pageSize,
		"cursor":    p.cursor,
	}

	var page itemsPage
	if err := p.querier.RunQuery(ctx, "ProjectItems", projectItemsQuery, variables, &page); err != nil {
		return nil, fmt.Errorf("while fetching page %d of project items: %w", p.pages+1, err)
	}

	if page.Node == nil || page.Node.Items == nil {
		return nil, EmptyResponseError{Message: fmt.Sprintf("node %q has no project items", p.projectID)}
	}

	p.pages++

	info := page.Node.Items.PageInfo
	if !info.HasNextPage {
		p.done = true
	} else {
		p.cursor = info.EndCursor
	}

	return page.Node.Items.Nodes, nil
}

// FetchAllItems reads every page and returns the items in the order GitHub listed them. Any failure discards them.
func FetchAllItems(ctx context.Context, q Querier, projectID string, opts PagerOptions) ([]RawItem, error) {
	pager := NewItemPager(q, projectID, opts)
	items := make([]RawItem, 0)

	for !pager.Done() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}

		items = append(items, page...)
	}

	return items, nil
}
