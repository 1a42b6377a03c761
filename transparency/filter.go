package transparency

import (
	"strings"

	"github.com/uwazi/transparency-engine/generic"
)

// =============================================================================
// FILTER PREDICATES
// =============================================================================
//
// Values are trimmed first, search text included. Each field is inactive when
// empty or set to the sentinel "all" (any case). Active fields combine with
// AND. A status, sector or category value that is not a member of its enum is
// treated as inactive, so malformed input never rejects or empties a listing.
// "Unknown" selects a blank county or sector.

// MatchAll is the sentinel filter value meaning "no constraint".
const MatchAll = "all"

func active(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, MatchAll) {
		return "", false
	}
	return v, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// ProjectFilter selects projects. Search matches title, county and ward.
type ProjectFilter struct {
	Search string
	County string
	Sector string
	Status string
}

// Match reports whether p satisfies every active field.
func (f ProjectFilter) Match(p Project) bool {
	if q, ok := active(f.Search); ok {
		q = strings.ToLower(q)
		if !containsFold(p.Title, q) && !containsFold(p.County, q) && !containsFold(p.Ward, q) {
			return false
		}
	}
	if county, ok := active(f.County); ok {
		if county == generic.UnknownGroup {
			county = ""
		}
		if strings.TrimSpace(p.County) != county {
			return false
		}
	}
	if sector, ok := active(f.Sector); ok {
		want := Sector(sector)
		if sector == generic.UnknownGroup {
			want = ""
		}
		if want.Valid() && p.Sector != want {
			return false
		}
	}
	if status, ok := active(f.Status); ok && ProjectStatus(status).Valid() && p.Status != ProjectStatus(status) {
		return false
	}
	return true
}

// Apply returns the matching projects in their original order.
func (f ProjectFilter) Apply(projects []Project) []Project {
	return generic.Where(projects, f.Match)
}

// FlagFilter selects flag reports. Search matches the description.
type FlagFilter struct {
	Search   string
	Status   string
	Category string
	Priority string
}

func (f FlagFilter) Match(r FlagReport) bool {
	if q, ok := active(f.Search); ok && !containsFold(r.Description, strings.ToLower(q)) {
		return false
	}
	if status, ok := active(f.Status); ok && FlagStatus(status).Valid() && r.Status != FlagStatus(status) {
		return false
	}
	if cat, ok := active(f.Category); ok && FlagCategory(cat).Valid() && r.Category != FlagCategory(cat) {
		return false
	}
	if prio, ok := active(f.Priority); ok && Priority(prio).Valid() && r.Priority != Priority(prio) {
		return false
	}
	return true
}

func (f FlagFilter) Apply(flags []FlagReport) []FlagReport {
	return generic.Where(flags, f.Match)
}

// FilterOptions are the values a project listing can be narrowed by, each in
// first-appearance order. A blank county or sector is offered as "Unknown",
// the same label the breakdowns group it under.
type FilterOptions struct {
	Counties []string
	Sectors  []string
	Statuses []ProjectStatus
}

func (s *Store) FilterOptions() FilterOptions {
	projects := s.ds.Projects
	return FilterOptions{
		Counties: generic.Distinct(projects, func(p Project) string {
			if county := strings.TrimSpace(p.County); county != "" {
				return county
			}
			return generic.UnknownGroup
		}),
		Sectors: generic.Distinct(projects, func(p Project) string {
			if strings.TrimSpace(string(p.Sector)) == "" {
				return generic.UnknownGroup
			}
			return string(p.Sector)
		}),
		Statuses: generic.Distinct(projects, func(p Project) ProjectStatus { return p.Status }),
	}
}
