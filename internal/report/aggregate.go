package report

// Share is how many issues of a group have one value, and what percent of the group that is.
type Share struct {
	Name    string
	Count   int
	Percent float64
}

type ScopeGroup struct {
	Scope  string
	Issues []Issue
	Types  []Share
}

// MonthGroup holds the issues of one month split by scope. Scopes are in the order they first appear.
type MonthGroup struct {
	Month  string
	Scopes []ScopeGroup
}

// Issues returns every issue of the month, scope by scope.
func (g MonthGroup) Issues() []Issue {
	issues := make([]Issue, 0)
	for _, scope := range g.Scopes {
		issues = append(issues, scope.Issues...)
	}

	return issues
}

// ByMonthScope groups issues by month and then by scope. Each issue lands in exactly one scope group.
func ByMonthScope(issues []Issue) []MonthGroup {
	months, byMonth := groupBy(issues, func(i Issue) string { return i.Month })

	groups := make([]MonthGroup, 0, len(months))

	for _, month := range months {
		scopes, byScope := groupBy(byMonth[month], func(i Issue) string { return i.Scope })

		group := MonthGroup{Month: month, Scopes: make([]ScopeGroup, 0, len(scopes))}
		for _, scope := range scopes {
			group.Scopes = append(group.Scopes, ScopeGroup{
				Scope:  scope,
				Issues: byScope[scope],
				Types:  shares(byScope[scope], func(i Issue) string { return i.Type }),
			})
		}

		groups = append(groups, group)
	}

	return groups
}

type TypeGroup struct {
	Share
	// Distinct assignee logins across the issues of this type.
	People int
	Issues []Issue
}

type TypeSummary struct {
	Total int
	Types []TypeGroup
}

// ByType groups issues by type. Percentages are of all issues.
func ByType(issues []Issue) TypeSummary {
	names, byType := groupBy(issues, func(i Issue) string { return i.Type })

	summary := TypeSummary{Total: len(issues), Types: make([]TypeGroup, 0, len(names))}

	for _, name := range names {
		group := byType[name]
		people := make(map[string]struct{})

		for _, issue := range group {
			for _, login := range issue.Assignees {
				people[login] = struct{}{}
			}
		}

		summary.Types = append(summary.Types, TypeGroup{
			Share:  Share{Name: name, Count: len(group), Percent: percent(len(group), len(issues))},
			People: len(people),
			Issues: group,
		})
	}

	return summary
}

func shares(issues []Issue, key func(Issue) string) []Share {
	names, groups := groupBy(issues, key)

	out := make([]Share, 0, len(names))
	for _, name := range names {
		out = append(out, Share{Name: name, Count: len(groups[name]), Percent: percent(len(groups[name]), len(issues))})
	}

	return out
}

// groupBy returns the distinct keys in the order they first appear and the issues under each key.
func groupBy[K comparable](issues []Issue, key func(Issue) K) ([]K, map[K][]Issue) {
	keys := make([]K, 0)
	groups := make(map[K][]Issue)

	for _, issue := range issues {
		k := key(issue)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}

		groups[k] = append(groups[k], issue)
	}

	return keys, groups
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(count) / float64(total)
}
