package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/util/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedProject serves fixed pages keyed by cursor. Page i is reached with cursor "c<i>", page 0 with null.
type pagedProject struct {
	pages    [][]map[string]any
	requests []map[string]any
	failAt   int
}

func (p *pagedProject) RunQuery(_ context.Context, _, _ string, variables map[string]any, data any) error {
	p.requests = append(p.requests, variables)

	index := 0

	if cursor, ok := variables["cursor"].(option.Option[string]); ok {
		if c, isSome := cursor.Unwrap(); isSome {
			index, _ = strconv.Atoi(c[1:])
		}
	}

	if p.failAt > 0 && index == p.failAt {
		return errors.New("boom")
	}

	hasNext := index < len(p.pages)-1
	payload := map[string]any{"node": map[string]any{"items": map[string]any{
		"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": "c" + strconv.Itoa(index+1)},
		"nodes":    p.pages[index],
	}}}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, data)
}

func fixtureItems(n int) []map[string]any {
	items := make([]map[string]any, n)
	for i := range items {
		items[i] = map[string]any{
			"content": map[string]any{"number": i + 1, "title": "issue " + strconv.Itoa(i+1)},
			"fieldValues": map[string]any{"nodes": []map[string]any{
				{"field": map[string]any{"name": "Scope"}, "name": "Core"},
			}},
		}
	}

	return items
}

func split(items []map[string]any, sizes ...int) [][]map[string]any {
	pages := make([][]map[string]any, 0, len(sizes))
	for _, size := range sizes {
		pages = append(pages, items[:size])
		items = items[size:]
	}

	return pages
}

func numbers(items []github.RawItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.Content.Number
	}

	return out
}

func TestFetchAllItemsIsIndependentOfPageBoundaries(t *testing.T) {
	t.Parallel()

	fixture := fixtureItems(120)

	fifties := &pagedProject{pages: split(fixture, 50, 50, 20)}
	sixties := &pagedProject{pages: split(fixture, 60, 60)}

	a, err := github.FetchAllItems(context.Background(), fifties, "PVT_1", github.PagerOptions{})
	require.NoError(t, err)

	b, err := github.FetchAllItems(context.Background(), sixties, "PVT_1", github.PagerOptions{})
	require.NoError(t, err)

	require.Len(t, a, 120)
	assert.Equal(t, numbers(a), numbers(b))
	assert.Equal(t, 1, a[0].Content.Number)
	assert.Equal(t, 120, a[119].Content.Number)

	assert.Len(t, fifties.requests, 3)
	assert.Len(t, sixties.requests, 2)
}

func TestFetchAllItemsRequestsAtMostFifty(t *testing.T) {
	t.Parallel()

	project := &pagedProject{pages: split(fixtureItems(10), 10)}

	_, err := github.FetchAllItems(context.Background(), project, "PVT_1", github.PagerOptions{PageSize: 500})
	require.NoError(t, err)

	require.Len(t, project.requests, 1)
	assert.Equal(t, github.MaxPageSize, project.requests[0]["first"])
	assert.Equal(t, "PVT_1", project.requests[0]["projectId"])
	assert.True(t, project.requests[0]["cursor"].(option.Option[string]).IsNone())
}

func TestFetchAllItemsFailureDiscardsPages(t *testing.T) {
	t.Parallel()

	project := &pagedProject{pages: split(fixtureItems(120), 50, 50, 20), failAt: 2}

	items, err := github.FetchAllItems(context.Background(), project, "PVT_1", github.PagerOptions{})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "page 3")
}

func TestPagerStopsAtCeilingAndResumes(t *testing.T) {
	t.Parallel()

	project := &pagedProject{pages: split(fixtureItems(120), 50, 50, 20)}

	_, err := github.FetchAllItems(context.Background(), project, "PVT_1", github.PagerOptions{MaxPages: 2})

	var limitErr github.PageLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 2, limitErr.Limit)
	assert.Equal(t, "c2", limitErr.Cursor)

	rest, err := github.FetchAllItems(context.Background(), project, "PVT_1", github.PagerOptions{
		StartCursor: option.Some(limitErr.Cursor),
	})
	require.NoError(t, err)
	assert.Len(t, rest, 20)
	assert.Equal(t, 101, rest[0].Content.Number)
}

func TestPagerNext(t *testing.T) {
	t.Parallel()

	project := &pagedProject{pages: split(fixtureItems(3), 2, 1)}
	pager := github.NewItemPager(project, "PVT_1", github.PagerOptions{})

	first, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.False(t, pager.Done())
	assert.Equal(t, "c1", pager.Cursor().UnwrapOr(""))

	second, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.True(t, pager.Done())
	assert.Equal(t, 2, pager.Pages())

	after, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, after)
	assert.Len(t, project.requests, 2)
}

func TestFetchAllItemsNullNode(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(req graphqlRequest) any {
		assert.Equal(t, "ProjectItems", req.OpName)
		assert.Nil(t, req.Variables["cursor"])

		return map[string]any{"data": map[string]any{"node": nil}}
	})

	_, err := github.FetchAllItems(context.Background(), newClient(server), "not-a-project", github.PagerOptions{})
	assert.ErrorAs(t, err, &github.EmptyResponseError{})
}

func TestFetchAllItemsOverHTTP(t *testing.T) {
	t.Parallel()

	pages := split(fixtureItems(3), 2, 1)
	server := newServer(t, func(req graphqlRequest) any {
		index := 0
		if cursor, ok := req.Variables["cursor"].(string); ok {
			index, _ = strconv.Atoi(cursor[1:])
		}

		return map[string]any{"data": map[string]any{"node": map[string]any{"items": map[string]any{
			"pageInfo": map[string]any{"hasNextPage": index == 0, "endCursor": "c" + strconv.Itoa(index+1)},
			"nodes":    pages[index],
		}}}}
	})

	items, err := github.FetchAllItems(context.Background(), newClient(server), "PVT_1", github.PagerOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, numbers(items))
	assert.Equal(t, "Core", *items[0].FieldValues.Nodes[0].Name)
}
