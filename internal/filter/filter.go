// Package filter decides which aggregated jobs match the user's criteria.
// Filtering happens after aggregation: the orchestrator always returns the
// full union, and the caller applies a filter before persisting or alerting.
package filter

import (
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure KeywordFilter implements model.JobFilter.
var _ model.JobFilter = (*KeywordFilter)(nil)

// KeywordFilter matches jobs by title keywords, location keywords, and an
// optional remote-only requirement. Matching is case-insensitive substring;
// empty keyword lists are treated as "match all". Exclusion lists win over
// inclusion lists.
type KeywordFilter struct {
	titleKeywords        []string
	titleExcludeKeywords []string
	locations            []string
	excludeLocations     []string
	remoteOnly           bool
}

// New returns a filter over title and location keywords. remoteOnly drops
// every job not flagged remote, regardless of location keywords.
func New(titleKeywords, titleExcludeKeywords, locations, excludeLocations []string, remoteOnly bool) *KeywordFilter {
	return &KeywordFilter{
		titleKeywords:        titleKeywords,
		titleExcludeKeywords: titleExcludeKeywords,
		locations:            locations,
		excludeLocations:     excludeLocations,
		remoteOnly:           remoteOnly,
	}
}

// Match reports whether the job passes every configured criterion.
func (f *KeywordFilter) Match(job model.Job) bool {
	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)

	if f.remoteOnly && !job.Remote {
		return false
	}

	for _, kw := range f.titleExcludeKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return false
		}
	}

	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}

	for _, kw := range f.excludeLocations {
		if strings.Contains(location, strings.ToLower(kw)) {
			return false
		}
	}

	// Remote jobs pass the location check: the posting is reachable no
	// matter which office keyword the user configured.
	if len(f.locations) > 0 && !job.Remote && !containsAny(location, f.locations) {
		return false
	}

	return true
}

// Apply returns the subset of jobs that Match.
func (f *KeywordFilter) Apply(jobs []model.Job) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
