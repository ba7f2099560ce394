/*
Package extract derives report columns from raw project items. The custom fields it reads (Kind, Type and Scope by
default) are not present on every project, so every function here is total: absent data resolves to a sentinel value
instead of an error.
*/
package extract

import (
	"strconv"
	"strings"

	"github.com/m-kuzmin/project-reporter/internal/clients/github"
	"github.com/m-kuzmin/project-reporter/internal/util/option"
	"golang.org/x/text/cases"
)

const (
	UnknownType = "Unknown"
	NoScope     = "No Scope"
)

// FieldNames are the names of the custom project fields to read. Matching ignores case and surrounding spaces.
type FieldNames struct {
	Kind  string
	Type  string
	Scope string
}

func DefaultFieldNames() FieldNames {
	return FieldNames{Kind: "Kind", Type: "Type", Scope: "Scope"}
}

type Extractor struct {
	Fields FieldNames
}

func New(fields FieldNames) Extractor {
	return Extractor{Fields: fields}
}

// Type returns the first of: the Kind field, the Type field, the issue type, UnknownType.
func (e Extractor) Type(item github.RawItem) string {
	return option.First(
		func() option.Option[string] { return fieldValue(item, e.Fields.Kind) },
		func() option.Option[string] { return fieldValue(item, e.Fields.Type) },
		func() option.Option[string] { return issueType(item) },
	).UnwrapOr(UnknownType)
}

// Scope returns the Scope field or NoScope.
func (e Extractor) Scope(item github.RawItem) string {
	return fieldValue(item, e.Fields.Scope).UnwrapOr(NoScope)
}

// Assignees returns the logins of the issue's assignees. Never nil.
func Assignees(item github.RawItem) []string {
	logins := make([]string, 0)

	if item.Content == nil || item.Content.Assignees == nil {
		return logins
	}

	for _, node := range item.Content.Assignees.Nodes {
		if node != nil && node.Login != "" {
			logins = append(logins, node.Login)
		}
	}

	return logins
}

// fieldValue finds the first non-empty value of the field called name.
func fieldValue(item github.RawItem, name string) option.Option[string] {
	want := foldName(name)
	if want == "" {
		return option.None[string]()
	}

	for _, value := range item.FieldValues.Nodes {
		if value == nil || value.Field == nil || foldName(value.Field.Name) != want {
			continue
		}

		if s, ok := Normalize(*value).Unwrap(); ok {
			return option.Some(s)
		}
	}

	return option.None[string]()
}

func issueType(item github.RawItem) option.Option[string] {
	if item.Content == nil || item.Content.IssueType == nil {
		return option.None[string]()
	}

	return option.NonEmpty(item.Content.IssueType.Name)
}

/*
Normalize turns a field value into a string: the single select option name, else the text, else the number in its
shortest decimal form. None if the value has none of them or they are all empty.
*/
func Normalize(value github.FieldValue) option.Option[string] {
	return option.First(
		func() option.Option[string] { return nonEmpty(value.Name) },
		func() option.Option[string] { return nonEmpty(value.Text) },
		func() option.Option[string] {
			return option.Map(option.FromPtr(value.Number), func(n float64) string {
				return strconv.FormatFloat(n, 'f', -1, 64)
			})
		},
	)
}

func nonEmpty(s *string) option.Option[string] {
	if s == nil {
		return option.None[string]()
	}

	return option.NonEmpty(*s)
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
