package reports

import (
	"fmt"
	"strings"
)

// TypeFilter narrows the inbox to one content type, or keeps everything.
type TypeFilter string

const TypeFilterAll TypeFilter = "all"

func ParseTypeFilter(s string) (TypeFilter, error) {
	switch s {
	case "", string(TypeFilterAll):
		return TypeFilterAll, nil
	case string(TypeLivestream), string(TypeVideo):
		return TypeFilter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

func (f TypeFilter) matches(t Type) bool {
	return f == "" || f == TypeFilterAll || Type(f) == t
}

// Filter returns the reports matching both the text query and the type
// filter, in their original order. The input slice is not modified.
//
// The query is matched case-insensitively as a substring of the target
// title, reporter name or reason; an empty query matches every report.
func Filter(list []ModerationReport, query string, typeFilter TypeFilter) []ModerationReport {
	needle := strings.ToLower(query)
	out := make([]ModerationReport, 0, len(list))
	for _, r := range list {
		if !typeFilter.matches(r.Type) {
			continue
		}
		if needle != "" && !matchesQuery(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r ModerationReport, needle string) bool {
	if r.TargetTitle != nil && strings.Contains(strings.ToLower(*r.TargetTitle), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.ReporterName), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(r.Reason), needle)
}
