/*
Package template provides a Template. It is usually stored in a YAML file with 2 top-level keys: `vars` and `templates`.

The templates key has any number of named keys (not a list), each key is a template group. Each group has any number of
key value pairs where the value is an array: a fmt.Sprintf format string followed by the names of its arguments.

An argument name is either a key of `vars` or `$N`, which is the N-th (1-based) value passed to Group.Format. Here are 2
code blocks that do the same thing:

	var closed = "Closed issues"

	line := fmt.Sprintf("%s: %d", closed, count)

This is the yaml version:

	vars:
	  closed: Closed issues
	templates:
	  summary:
	    total: ["%s: %d", closed, $1]

	line, err := group.Format("total", count)

If the array has only the format string, every value passed to Format is used in order.
*/
package template

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var defaultPhrases []byte

// A template generated from a YAML file
type Template struct {
	/*
		vars:
		  var1: one
	*/
	Vars map[string]any `yaml:"vars"`

	/*
		templates:
		  template1:
			someString: ["%s %d", var1, $1]
	*/
	Templates map[string]map[string][]string `yaml:"templates"`
}

// Default is the template compiled into the binary. It holds the report phrases in Portuguese.
func Default() Template {
	templ, err := NewTemplate(defaultPhrases)
	if err != nil {
		panic(fmt.Sprintf("embedded phrases.yaml is invalid: %s", err))
	}

	return templ
}

/*
LoadYAMLTemplate reads and parses a YAML file into a template

Returned error value is either because the file could not be read or it could not be parsed as YAML
*/
func LoadYAMLTemplate(filename string) (Template, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return Template{}, fmt.Errorf("while reading template file: %w", err)
	}

	return NewTemplate(file)
}

/*
NewTemplate creates a new template from bytes

Returns an error if template source could not be parsed
*/
func NewTemplate(source []byte) (Template, error) {
	template := Template{}

	err := yaml.Unmarshal(source, &template)
	if err != nil {
		return Template{}, fmt.Errorf("while parsing YAML file: %w", err)
	}

	return template, nil
}

/*
Get returns a template group. You can call Group.Format() to get the specific string you're looking for.

Returned error indicates the group with this name doesn't exist in this template
*/
func (t Template) Get(group string) (Group, error) {
	if _, found := t.Templates[group]; !found {
		return Group{}, GroupNotFoundError{Name: group}
	}

	return Group{name: group, wrapped: &t}, nil
}

// Require checks that every group has every key. Use it to reject a template file before a report is half written.
func (t Template) Require(groups map[string][]string) error {
	for name, keys := range groups {
		group, err := t.Get(name)
		if err != nil {
			return err
		}

		for _, key := range keys {
			if _, found := group.wrapped.Templates[name][key]; !found {
				return KeyNotFoundError{Group: name, Key: key}
			}
		}
	}

	return nil
}

// Group holds a name of the group name passed into Template.Get() and a pointer to the template
type Group struct {
	name    string
	wrapped *Template
}

/*
Format renders a string from the template group. The returned string could be "" (empty) if the key exists, but it's
value is an empty array.

Returned error could either be a group lookup error (the group was deleted from the template), this key doesn't exist,
or a `$N` argument points past the values passed in.
*/
func (g Group) Format(key string, args ...any) (string, error) {
	group, exists := g.wrapped.Templates[g.name]
	if !exists {
		return "", fmt.Errorf("while looking up key %s: %w", key, GroupNotFoundError{Name: g.name})
	}

	fmtParams, found := group[key]
	if !found {
		return "", KeyNotFoundError{Group: g.name, Key: key}
	}

	switch len(fmtParams) {
	case 0:
		return "", nil
	case 1:
		return fmt.Sprintf(fmtParams[0], args...), nil
	} // At this point len() is at least 2

	values := make([]any, len(fmtParams)-1)

	for i, name := range fmtParams[1:] {
		if !strings.HasPrefix(name, "$") {
			values[i] = g.wrapped.Vars[name]

			continue
		}

		index, err := strconv.Atoi(name[1:])
		if err != nil || index < 1 || index > len(args) {
			return "", ArgumentOutOfRangeError{Group: g.name, Key: key, Argument: name, Given: len(args)}
		}

		values[i] = args[index-1]
	}

	return fmt.Sprintf(fmtParams[0], values...), nil
}

type GroupNotFoundError struct {
	Name string
}

func (e GroupNotFoundError) Error() string {
	return fmt.Sprintf("requested group with name %q was not found in template", e.Name)
}

type KeyNotFoundError struct {
	Group, Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("requested key %q from group %q was not found in template", e.Key, e.Group)
}

type ArgumentOutOfRangeError struct {
	Group, Key, Argument string
	Given                int
}

func (e ArgumentOutOfRangeError) Error() string {
	return fmt.Sprintf("template %s.%s refers to %s, but only %d values were given", e.Group, e.Key, e.Argument,
		e.Given)
}
