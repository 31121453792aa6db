package catalog

import "github.com/jonathan/roadmap-generator/internal/types"

// URLSet is the set of URLs a roadmap is allowed to reference
type URLSet map[string]struct{}

// NewURLSet collects the URLs of the given resources.
func NewURLSet(resources []types.Resource) URLSet {
	set := make(URLSet, len(resources))
	for _, r := range resources {
		set[r.URL] = struct{}{}
	}
	return set
}

// Contains reports whether url is in the set.
func (s URLSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}
