// Package catalog provides the static whitelist of free learning resources.
// It is the only source of URLs a roadmap may reference.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/roadmap-generator/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogData []byte

const (
	// MaxPerTechnology bounds ResourcesFor
	MaxPerTechnology = 10
	// MaxPerTechnologyInSet bounds each technology's share of ResourcesForTechnologies
	MaxPerTechnologyInSet = 5
	// DefaultTopicLimit bounds ResourcesForTopics when no limit is given
	DefaultTopicLimit = 5
)

// Error represents a failure to load catalog data
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type fileFormat struct {
	Categories []struct {
		Name      string           `yaml:"name"`
		Resources []types.Resource `yaml:"resources"`
	} `yaml:"categories"`
	Technologies map[string]string `yaml:"technologies"`
}

// Catalog is an immutable index of curated resources. Safe for concurrent use.
type Catalog struct {
	categories map[string][]types.Resource
	order      []string
	techs      map[string]string // normalised technology name -> category
	names      []string
	byURL      map[string]types.Resource
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogData)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that cannot proceed without the catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("failed to load catalog: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &Error{Message: "failed to parse catalog YAML", Cause: err}
	}

	c := &Catalog{
		categories: make(map[string][]types.Resource, len(f.Categories)),
		techs:      make(map[string]string, len(f.Technologies)),
		byURL:      make(map[string]types.Resource),
	}

	for _, cat := range f.Categories {
		if cat.Name == "" {
			return nil, &Error{Message: "category without a name"}
		}
		if _, dup := c.categories[cat.Name]; dup {
			return nil, &Error{Message: fmt.Sprintf("duplicate category %q", cat.Name)}
		}
		for _, r := range cat.Resources {
			if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
				return nil, &Error{Message: fmt.Sprintf("resource %q in %s has a non-http URL", r.Title, cat.Name)}
			}
			if _, seen := c.byURL[r.URL]; !seen {
				c.byURL[r.URL] = r
			}
		}
		c.categories[cat.Name] = cat.Resources
		c.order = append(c.order, cat.Name)
	}

	for name, category := range f.Technologies {
		if _, ok := c.categories[category]; !ok {
			return nil, &Error{Message: fmt.Sprintf("technology %q refers to unknown category %q", name, category)}
		}
		c.techs[normalize(name)] = category
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Technologies returns the known technology names, sorted.
func (c *Catalog) Technologies() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether the catalog knows a technology.
func (c *Catalog) Has(technology string) bool {
	_, ok := c.techs[normalize(technology)]
	return ok
}

// ResourcesFor returns up to MaxPerTechnology resources for a technology, in catalog order.
// Unknown technologies yield an empty result.
func (c *Catalog) ResourcesFor(technology string) []types.Resource {
	return c.resourcesFor(technology, MaxPerTechnology)
}

func (c *Catalog) resourcesFor(technology string, limit int) []types.Resource {
	category, ok := c.techs[normalize(technology)]
	if !ok {
		return []types.Resource{}
	}
	src := c.categories[category]
	n := min(len(src), limit)
	out := make([]types.Resource, 0, n)
	for _, r := range src[:n] {
		out = append(out, copyResource(r))
	}
	return out
}

// ResourcesForTechnologies returns the union of resources for several technologies,
// deduplicated by URL and in first-seen order.
func (c *Catalog) ResourcesForTechnologies(technologies []string) []types.Resource {
	seen := make(map[string]bool)
	out := []types.Resource{}
	for _, tech := range technologies {
		for _, r := range c.resourcesFor(tech, MaxPerTechnologyInSet) {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out = append(out, r)
		}
	}
	return out
}

// ResourcesForTopics returns resources with at least one topic containing one of the
// given topics, compared case-insensitively. A limit <= 0 uses DefaultTopicLimit.
func (c *Catalog) ResourcesForTopics(topics []string, limit int) []types.Resource {
	if limit <= 0 {
		limit = DefaultTopicLimit
	}
	wanted := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = normalize(t); t != "" {
			wanted = append(wanted, t)
		}
	}
	out := []types.Resource{}
	if len(wanted) == 0 {
		return out
	}

	seen := make(map[string]bool)
	for _, name := range c.order {
		for _, r := range c.categories[name] {
			if seen[r.URL] || !matchesTopic(r, wanted) {
				continue
			}
			seen[r.URL] = true
			out = append(out, copyResource(r))
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

func matchesTopic(r types.Resource, wanted []string) bool {
	for _, topic := range r.Topics {
		topic = strings.ToLower(topic)
		for _, w := range wanted {
			if strings.Contains(topic, w) {
				return true
			}
		}
	}
	return false
}

// All returns every distinct resource in catalog order.
func (c *Catalog) All() []types.Resource {
	seen := make(map[string]bool, len(c.byURL))
	out := make([]types.Resource, 0, len(c.byURL))
	for _, name := range c.order {
		for _, r := range c.categories[name] {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out = append(out, copyResource(r))
		}
	}
	return out
}

// Lookup finds a resource by URL.
func (c *Catalog) Lookup(url string) (types.Resource, bool) {
	r, ok := c.byURL[url]
	if !ok {
		return types.Resource{}, false
	}
	return copyResource(r), true
}

func copyResource(r types.Resource) types.Resource {
	r.Topics = append([]string(nil), r.Topics...)
	return r
}
