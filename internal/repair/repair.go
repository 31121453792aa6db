// Package repair rewrites the resources of a decoded roadmap so that every URL is
// traceable to the catalog and nothing points at video content. Absent top-level
// sections are filled with empty values.
package repair

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/types"
	"github.com/jonathan/roadmap-generator/internal/validation"
)

// Placeholder values used when no verified resource can replace a forbidden one
const (
	PlaceholderURL      = "http://example.com"
	PlaceholderTitle    = "Resource temporarily unavailable"
	PlaceholderPlatform = "Placeholder"
	PlaceholderDuration = "N/A"
	PlaceholderNote     = "No verified resource was available for this day. Use the official documentation for this topic."
)

// Reason explains why a resource was touched
type Reason string

const (
	ReasonVideo      Reason = "video"
	ReasonUnverified Reason = "unverified"
	ReasonIncomplete Reason = "incomplete"
)

// Action records one change made to the document
type Action struct {
	Reason   Reason `json:"reason"`
	Location string `json:"location"`
	Detail   string `json:"detail"`
}

// Report lists the changes made by a repair pass
type Report struct {
	Actions []Action `json:"actions,omitempty"`
}

// Changed reports whether the pass modified anything.
func (r Report) Changed() bool {
	return len(r.Actions) > 0
}

// Count returns the number of actions with the given reason.
func (r Report) Count(reason Reason) int {
	n := 0
	for _, a := range r.Actions {
		if a.Reason == reason {
			n++
		}
	}
	return n
}

// Repairer substitutes verified resources into roadmaps
type Repairer struct {
	resources []types.Resource
	verified  catalog.URLSet
	byURL     map[string]types.Resource
}

// New creates a Repairer for the verified resources of one request.
func New(verified []types.Resource) *Repairer {
	byURL := make(map[string]types.Resource, len(verified))
	for _, r := range verified {
		if _, dup := byURL[r.URL]; !dup {
			byURL[r.URL] = r
		}
	}
	return &Repairer{
		resources: verified,
		verified:  catalog.NewURLSet(verified),
		byURL:     byURL,
	}
}

// Repair is a shorthand for New(verified).Repair(doc).
func Repair(doc types.Document, verified []types.Resource) (types.Document, Report) {
	return New(verified).Repair(doc)
}

// Repair returns a repaired deep copy of doc; the input is never modified.
// Applying Repair to its own output changes nothing.
func (r *Repairer) Repair(doc types.Document) (types.Document, Report) {
	out := doc.Clone()
	var report Report
	if out == nil {
		return nil, report
	}
	fillTopLevel(out, &report)

	weeks, ok := out["weekly_plans"].([]any)
	if !ok {
		return out, report
	}

	p := &pass{Repairer: r, used: r.usedURLs(weeks), report: &report}
	for i, raw := range weeks {
		week, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		label := validation.WeekLabel(week, i)
		switch {
		case validation.IsDetailedWeek(week):
			p.detailedWeek(label, week)
		case validation.IsHighLevelWeek(week):
			p.highLevelWeek(label, week)
		}
	}
	return out, report
}

// skillGapLists are the lists every skill_gap_analysis carries
var skillGapLists = []string{"strengths", "gaps", "challenges", "strategies"}

// fillTopLevel gives missing or null top-level sections an empty value so that
// the typed view never silently decodes an absent section. Sections of the wrong
// type are left for content validation to report.
func fillTopLevel(doc types.Document, report *Report) {
	record := func(field string) {
		report.Actions = append(report.Actions, Action{
			Reason:   ReasonIncomplete,
			Location: "roadmap",
			Detail:   "added empty " + field,
		})
	}
	for _, key := range []string{"phases", "projects", "career_insights"} {
		if doc[key] != nil {
			continue
		}
		if key == "career_insights" {
			doc[key] = ""
		} else {
			doc[key] = []any{}
		}
		record(key)
	}

	switch gap := doc["skill_gap_analysis"].(type) {
	case nil:
		filled := make(map[string]any, len(skillGapLists))
		for _, key := range skillGapLists {
			filled[key] = []any{}
		}
		doc["skill_gap_analysis"] = filled
		record("skill_gap_analysis")
	case map[string]any:
		for _, key := range skillGapLists {
			if gap[key] == nil {
				gap[key] = []any{}
				record("skill_gap_analysis." + key)
			}
		}
	}
}

// usedURLs collects the verified URLs the document already references so that
// substitutes prefer resources not yet assigned elsewhere.
func (r *Repairer) usedURLs(weeks []any) map[string]bool {
	used := make(map[string]bool)
	mark := func(res any) {
		m, ok := res.(map[string]any)
		if !ok || validation.IsVideoResource(m) {
			return
		}
		if u, _ := m["url"].(string); r.verified.Contains(u) {
			used[u] = true
		}
	}
	for _, raw := range weeks {
		week, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		mark(week["key_resource"])
		days, _ := week["daily_plans"].([]any)
		for _, d := range days {
			if day, ok := d.(map[string]any); ok {
				mark(day["resource"])
			}
		}
	}
	return used
}

type pass struct {
	*Repairer
	used   map[string]bool
	report *Report
}

func (p *pass) record(reason Reason, location, format string, args ...any) {
	p.report.Actions = append(p.report.Actions, Action{
		Reason:   reason,
		Location: location,
		Detail:   fmt.Sprintf(format, args...),
	})
}

func (p *pass) detailedWeek(label string, week map[string]any) {
	for _, key := range []string{"main_topics", "key_resource", "total_hours"} {
		if _, ok := week[key]; ok {
			delete(week, key)
			p.record(ReasonIncomplete, label, "removed high-level field %s from a detailed week", key)
		}
	}

	days, ok := week["daily_plans"].([]any)
	if !ok {
		return
	}
	if renumberDays(days) {
		p.record(ReasonIncomplete, label, "renumbered days 1-%d", len(days))
	}

	for j, raw := range days {
		day, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		loc := validation.DayLabel(label, day, j)
		topic, _ := day["topic"].(string)

		res, ok := day["resource"].(map[string]any)
		if !ok {
			sub := p.substitute("", "", loc)
			day["resource"] = dayShape(sub, defaultWhatToLearn(topic))
			p.record(ReasonIncomplete, loc, "added missing resource %s", sub.URL)
			continue
		}
		p.fixResource(loc, res, topic, true)
	}
}

func (p *pass) highLevelWeek(label string, week map[string]any) {
	raw, present := week["key_resource"]
	if !present {
		return
	}
	loc := label + " key_resource"
	res, ok := raw.(map[string]any)
	if !ok {
		sub := p.substitute("", "", loc)
		week["key_resource"] = keyShape(sub)
		p.record(ReasonIncomplete, loc, "replaced malformed key_resource with %s", sub.URL)
		return
	}
	p.fixResource(loc, res, "", false)
}

// fixResource rewrites res in place. Verified resources are resynced with their
// catalog entry; video and unverified ones are swapped for a verified substitute.
func (p *pass) fixResource(loc string, res map[string]any, topic string, day bool) {
	url, _ := res["url"].(string)
	title, _ := res["title"].(string)
	typ, _ := res["type"].(string)
	whatToLearn, _ := res["what_to_learn"].(string)
	if strings.TrimSpace(whatToLearn) == "" {
		whatToLearn = defaultWhatToLearn(topic)
	}

	video := validation.IsVideoResource(res)
	var want map[string]any
	var reason Reason

	switch entry, known := p.byURL[url]; {
	case !video && known:
		want = shape(entry, whatToLearn, day)
		reason = ReasonIncomplete
	case !video && len(p.resources) == 0 && validation.IsHTTPURL(url):
		want = completed(res, whatToLearn, day)
		reason = ReasonIncomplete
	default:
		reason = ReasonUnverified
		if video {
			reason = ReasonVideo
		}
		if video {
			// the model's type is what made it video; do not match on it
			typ = ""
		}
		sub := p.substitute(title, typ, loc)
		want = shape(sub, whatToLearn, day)
	}

	if reflect.DeepEqual(map[string]any(res), want) {
		return
	}
	detail := "resynced fields from catalog"
	if reason != ReasonIncomplete {
		detail = fmt.Sprintf("replaced %s with %s", url, want["url"])
	} else if len(p.resources) == 0 {
		detail = "filled missing fields"
	}
	for k := range res {
		delete(res, k)
	}
	for k, v := range want {
		res[k] = v
	}
	p.record(reason, loc, "%s", detail)
}

// substitute picks a verified replacement: exact title match first, then the same
// type, then any resource. The last two tiers prefer resources not used yet.
// Without verified resources it returns the placeholder.
func (p *pass) substitute(title, typ, loc string) types.Resource {
	if len(p.resources) == 0 {
		return placeholder()
	}

	title = strings.TrimSpace(title)
	if title != "" {
		for _, r := range p.resources {
			if strings.EqualFold(strings.TrimSpace(r.Title), title) {
				p.used[r.URL] = true
				return r
			}
		}
	}

	choose := func(match func(types.Resource) bool) (types.Resource, bool) {
		var first *types.Resource
		for i := range p.resources {
			r := p.resources[i]
			if !match(r) {
				continue
			}
			if !p.used[r.URL] {
				p.used[r.URL] = true
				return r, true
			}
			if first == nil {
				first = &p.resources[i]
			}
		}
		if first != nil {
			return *first, true
		}
		return types.Resource{}, false
	}

	if typ = strings.TrimSpace(typ); typ != "" {
		if r, ok := choose(func(r types.Resource) bool { return strings.EqualFold(r.Type, typ) }); ok {
			return r
		}
	}
	r, _ := choose(func(types.Resource) bool { return true })
	return r
}

func placeholder() types.Resource {
	return types.Resource{
		Title:    PlaceholderTitle,
		Type:     types.ResourceDocumentation,
		Platform: PlaceholderPlatform,
		URL:      PlaceholderURL,
		Duration: PlaceholderDuration,
	}
}

func shape(r types.Resource, whatToLearn string, day bool) map[string]any {
	if day {
		return dayShape(r, whatToLearn)
	}
	return keyShape(r)
}

func dayShape(r types.Resource, whatToLearn string) map[string]any {
	if r.URL == PlaceholderURL {
		whatToLearn = PlaceholderNote
	}
	return r.DayResource(whatToLearn)
}

func keyShape(r types.Resource) map[string]any {
	return r.KeyResource()
}

// completed fills the required fields of a resource that cannot be checked
// against a catalog entry.
func completed(res map[string]any, whatToLearn string, day bool) map[string]any {
	out := make(map[string]any, len(res)+2)
	for k, v := range res {
		out[k] = v
	}
	fill := func(key, value string) {
		if s, _ := out[key].(string); strings.TrimSpace(s) == "" {
			out[key] = value
		}
	}
	fill("title", "Learning resource")
	if t, _ := out["type"].(string); !validation.IsAllowedType(t) {
		out["type"] = types.ResourceDocumentation
	}
	if day {
		fill("platform", "Web")
		fill("duration", "Self-paced")
		fill("what_to_learn", whatToLearn)
	}
	return out
}

// renumberDays assigns day = position when the days are not exactly 1..n in some order.
func renumberDays(days []any) bool {
	seen := make(map[int]bool, len(days))
	valid := true
	for _, raw := range days {
		day, ok := raw.(map[string]any)
		if !ok {
			return false
		}
		n, ok := day["day"].(float64)
		d := int(n)
		if !ok || n != float64(d) || d < 1 || d > len(days) || seen[d] {
			valid = false
			break
		}
		seen[d] = true
	}
	if valid {
		return false
	}
	for i, raw := range days {
		raw.(map[string]any)["day"] = float64(i + 1)
	}
	return true
}

func defaultWhatToLearn(topic string) string {
	if topic = strings.TrimSpace(topic); topic != "" {
		return "Study the sections covering " + topic
	}
	return "Work through the core sections of this resource"
}
