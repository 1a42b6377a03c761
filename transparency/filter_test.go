package transparency_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// =============================================================================
// PROJECT FILTER
// =============================================================================

func TestProjectFilter_AllSentinel_IsIdentity(t *testing.T) {
	// GIVEN: Every field unset or "all"
	// WHEN: Filtering the builtin projects
	// THEN: The full list comes back in the same order

	store := builtinStore(t)
	projects := store.Projects()

	filters := []transparency.ProjectFilter{
		{},
		{Search: "", County: "all", Sector: "all", Status: "all"},
		{Search: "   ", County: "ALL", Sector: "All", Status: " all "},
	}
	for _, f := range filters {
		got := f.Apply(projects)
		if diff := cmp.Diff(projectIDs(projects), projectIDs(got)); diff != "" {
			t.Errorf("filter %+v changed the listing (-want +got):\n%s", f, diff)
		}
	}
}

func TestProjectFilter_Fields(t *testing.T) {
	store := builtinStore(t)
	projects := store.Projects()

	tests := []struct {
		name   string
		filter transparency.ProjectFilter
		want   []transparency.ProjectID
	}{
		{"search title any case", transparency.ProjectFilter{Search: "CANCER"}, []transparency.ProjectID{"PROJECT-NKR-CTC-001"}},
		{"search county", transparency.ProjectFilter{Search: "kisumu"}, []transparency.ProjectID{"PROJECT-KSM-SCH-045"}},
		{"search ward", transparency.ProjectFilter{Search: "multiple wards"}, []transparency.ProjectID{"PROJECT-NRB-RD-078"}},
		{"search matches nothing", transparency.ProjectFilter{Search: "borehole"}, []transparency.ProjectID{}},
		{"county exact", transparency.ProjectFilter{County: "Nairobi"}, []transparency.ProjectID{"PROJECT-NRB-RD-078"}},
		{"county is case sensitive", transparency.ProjectFilter{County: "nairobi"}, []transparency.ProjectID{}},
		{"sector", transparency.ProjectFilter{Sector: "Health"}, []transparency.ProjectID{"PROJECT-NKR-CTC-001"}},
		{"status", transparency.ProjectFilter{Status: "Delayed"}, []transparency.ProjectID{"PROJECT-NRB-RD-078"}},
		{
			"fields combine with AND",
			transparency.ProjectFilter{Search: "n", Sector: "Infrastructure", Status: "In Progress"},
			[]transparency.ProjectID{},
		},
		{
			"unknown sector is ignored",
			transparency.ProjectFilter{Sector: "Space"},
			[]transparency.ProjectID{"PROJECT-NKR-CTC-001", "PROJECT-KSM-SCH-045", "PROJECT-NRB-RD-078"},
		},
		{
			"unknown status is ignored",
			transparency.ProjectFilter{Status: "Paused", County: "Kisumu"},
			[]transparency.ProjectID{"PROJECT-KSM-SCH-045"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectIDs(tt.filter.Apply(projects))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectFilter_UnknownSectorGroup(t *testing.T) {
	store := newTestStore(t, transparency.Dataset{Projects: []transparency.Project{
		project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 10, 0),
		project("P-2", "", transparency.StatusPlanning, 10, 0),
	}})

	got := transparency.ProjectFilter{Sector: "Unknown"}.Apply(store.Projects())

	assert.Equal(t, []transparency.ProjectID{"P-2"}, projectIDs(got))
}

func TestProjectFilter_UnknownCountyGroup(t *testing.T) {
	// GIVEN: One project with a county and one without
	// WHEN: Listing filter options and filtering by the breakdown's "Unknown" row
	// THEN: The option, the breakdown and the filter agree on the blank county

	blank := project("P-2", transparency.SectorHealth, transparency.StatusPlanning, 10, 0)
	blank.County = ""
	store := newTestStore(t, transparency.Dataset{Projects: []transparency.Project{
		project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 10, 0),
		blank,
	}})

	assert.Equal(t, []string{"Nakuru", generic.UnknownGroup}, store.FilterOptions().Counties)

	groups := store.CountyBreakdown()
	require.Len(t, groups, 2)
	assert.Equal(t, generic.UnknownGroup, groups[1].Key)

	got := transparency.ProjectFilter{County: "Unknown"}.Apply(store.Projects())
	assert.Equal(t, []transparency.ProjectID{"P-2"}, projectIDs(got))

	got = transparency.ProjectFilter{County: "Nakuru"}.Apply(store.Projects())
	assert.Equal(t, []transparency.ProjectID{"P-1"}, projectIDs(got))
}

func TestProjectFilter_SearchIsTrimmed(t *testing.T) {
	store := builtinStore(t)

	got := transparency.ProjectFilter{Search: "  kisumu  "}.Apply(store.Projects())

	assert.Equal(t, []transparency.ProjectID{"PROJECT-KSM-SCH-045"}, projectIDs(got))
}

func TestProjectFilter_DoesNotMutateInput(t *testing.T) {
	store := builtinStore(t)
	projects := store.Projects()
	before := projectIDs(projects)

	_ = transparency.ProjectFilter{Status: "Completed"}.Apply(projects)

	assert.Equal(t, before, projectIDs(projects))
	assert.Len(t, store.Projects(), 3)
}

func TestFilterOptions(t *testing.T) {
	store := builtinStore(t)

	opts := store.FilterOptions()

	assert.Equal(t, []string{"Nakuru", "Kisumu", "Nairobi"}, opts.Counties)
	assert.Equal(t, []string{"Health", "Education", "Infrastructure"}, opts.Sectors)
	assert.Equal(t, []transparency.ProjectStatus{
		transparency.StatusInProgress, transparency.StatusCompleted, transparency.StatusDelayed,
	}, opts.Statuses)
}

// =============================================================================
// FLAG FILTER
// =============================================================================

func TestFlagFilter(t *testing.T) {
	store := builtinStore(t)
	flags := store.Flags()

	flagIDs := func(fs []transparency.FlagReport) []transparency.FlagID {
		ids := make([]transparency.FlagID, 0, len(fs))
		for _, f := range fs {
			ids = append(ids, f.ID)
		}
		return ids
	}

	assert.Equal(t, []transparency.FlagID{"FLG-001", "FLG-002"}, flagIDs(transparency.FlagFilter{Status: "all"}.Apply(flags)))
	assert.Equal(t, []transparency.FlagID{"FLG-002"}, flagIDs(transparency.FlagFilter{Search: "CONCRETE"}.Apply(flags)))
	assert.Equal(t, []transparency.FlagID{"FLG-001"}, flagIDs(transparency.FlagFilter{Category: "delay"}.Apply(flags)))
	assert.Equal(t, []transparency.FlagID{"FLG-002"}, flagIDs(transparency.FlagFilter{Status: "resolved", Priority: "medium"}.Apply(flags)))
	assert.Equal(t, []transparency.FlagID{}, flagIDs(transparency.FlagFilter{Priority: "urgent"}.Apply(flags)))
	assert.Len(t, transparency.FlagFilter{Priority: "someday"}.Apply(flags), 2, "unknown priority is ignored")
}
