package transparency_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// =============================================================================
// LOADING
// =============================================================================

func TestStore_BuiltinDataset_Loads(t *testing.T) {
	store := builtinStore(t)

	assert.Len(t, store.Users(), 4)
	assert.Len(t, store.Projects(), 3)
	assert.Len(t, store.Milestones(), 5)
	assert.Len(t, store.Contractors(), 3)
	assert.Len(t, store.Tenders(), 3)
	assert.Len(t, store.Bids(), 3)
	assert.Len(t, store.Audits(), 1)
	assert.Len(t, store.Transactions(), 2)
	assert.Len(t, store.Flags(), 2)
	assert.Len(t, store.PerformanceRecords(), 2)
	assert.Len(t, store.Loans(), 2)
	assert.Len(t, store.TaxpayerFunds(), 2)
	assert.Len(t, store.PanelMembers(), 3)
	assert.Len(t, store.ChangeLogs(), 3)
}

func TestStore_BuiltinDataset_KeepsDefinitionOrder(t *testing.T) {
	store := builtinStore(t)

	var ids []transparency.ProjectID
	for _, p := range store.Projects() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []transparency.ProjectID{"PROJECT-NKR-CTC-001", "PROJECT-KSM-SCH-045", "PROJECT-NRB-RD-078"}, ids)
}

func TestStore_BuiltinDataset_OptionalFields(t *testing.T) {
	store := builtinStore(t)

	nakuru, ok := store.ProjectByID("PROJECT-NKR-CTC-001")
	require.True(t, ok)
	loanID, hasLoan := nakuru.LoanID.Get()
	assert.True(t, hasLoan)
	assert.Equal(t, transparency.LoanID("LOAN-2026-WB-002"), loanID)
	assert.False(t, nakuru.ActualEnd.IsSet(), "an ongoing project has no actual end")

	kisumu, ok := store.ProjectByID("PROJECT-KSM-SCH-045")
	require.True(t, ok)
	assert.False(t, kisumu.LoanID.IsSet(), "a budget-funded project has no loan")
	end, ok := kisumu.ActualEnd.Get()
	require.True(t, ok)
	assert.Equal(t, "2026-06-15", end.String())
}

func TestStore_EmptyDataset_ListsAreEmptyNotNil(t *testing.T) {
	store := newTestStore(t, transparency.Dataset{})

	assert.NotNil(t, store.Projects())
	assert.Empty(t, store.Projects())
	assert.NotNil(t, store.Flags())
	assert.NotNil(t, store.ChangeLogs())
}

func TestStore_ListingIsACopy(t *testing.T) {
	// GIVEN: A store
	// WHEN: A caller overwrites an element of a returned listing
	// THEN: The store still holds the original record

	store := builtinStore(t)

	projects := store.Projects()
	projects[0].Title = "tampered"
	projects[0] = transparency.Project{}

	again := store.Projects()
	assert.Equal(t, "Nakuru Cancer Treatment Center", again[0].Title)
}

func TestStore_NewStore_DoesNotAliasInput(t *testing.T) {
	ds := transparency.Dataset{Projects: []transparency.Project{project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 10, 5)}}
	store := newTestStore(t, ds)

	ds.Projects[0].Title = "changed after load"

	p, ok := store.ProjectByID("P-1")
	require.True(t, ok)
	assert.Equal(t, "Project P-1", p.Title)
}

// =============================================================================
// LOAD-TIME VALIDATION
// =============================================================================

func TestStore_Validation(t *testing.T) {
	tests := []struct {
		name   string
		ds     transparency.Dataset
		entity string
		field  string
	}{
		{
			name: "duplicate project id",
			ds: transparency.Dataset{Projects: []transparency.Project{
				project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 10, 0),
				project("P-1", transparency.SectorWater, transparency.StatusPlanning, 10, 0),
			}},
			entity: "project", field: "id",
		},
		{
			name:   "empty project id",
			ds:     transparency.Dataset{Projects: []transparency.Project{project("", transparency.SectorHealth, transparency.StatusPlanning, 10, 0)}},
			entity: "project", field: "id",
		},
		{
			name:   "unknown project status",
			ds:     transparency.Dataset{Projects: []transparency.Project{project("P-1", transparency.SectorHealth, "Paused", 10, 0)}},
			entity: "project", field: "status",
		},
		{
			name:   "unknown sector",
			ds:     transparency.Dataset{Projects: []transparency.Project{project("P-1", "Space", transparency.StatusPlanning, 10, 0)}},
			entity: "project", field: "sector",
		},
		{
			name:   "negative budget",
			ds:     transparency.Dataset{Projects: []transparency.Project{project("P-1", transparency.SectorHealth, transparency.StatusPlanning, -1, 0)}},
			entity: "project", field: "budget",
		},
		{
			name: "progress above 100",
			ds: transparency.Dataset{Projects: []transparency.Project{func() transparency.Project {
				p := project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 10, 0)
				p.Progress = 101
				return p
			}()}},
			entity: "project", field: "progress",
		},
		{
			name:   "negative disbursement",
			ds:     transparency.Dataset{Loans: []transparency.Loan{loan("L-1", 100, -5)}},
			entity: "loan", field: "disbursed",
		},
		{
			name: "unknown flag priority",
			ds: transparency.Dataset{Flags: []transparency.FlagReport{{
				ID: "F-1", Status: transparency.FlagOpen, Category: transparency.FlagDelay, Priority: "whenever",
			}}},
			entity: "flag", field: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transparency.NewStore(tt.ds)

			require.Error(t, err)
			assert.ErrorIs(t, err, generic.ErrInvalidDataset)
			var de *generic.DatasetError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.entity, de.Entity)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestStore_Validation_PermitsUnenforcedStates(t *testing.T) {
	// GIVEN: Overspend, overdisbursement, a blacklisted contractor on a project
	//        and a dangling loan reference
	// WHEN: The dataset is loaded
	// THEN: It is accepted; these states are reported, not rejected

	p := project("P-1", transparency.SectorHealth, transparency.StatusDelayed, 100, 150)
	p.ContractorID = generic.Some(transparency.ContractorID("C-1"))
	p.LoanID = generic.Some(transparency.LoanID("L-404"))

	ds := transparency.Dataset{
		Projects:    []transparency.Project{p},
		Contractors: []transparency.Contractor{{ID: "C-1", Name: "Blacklisted Ltd", Blacklisted: true, PerformanceRating: decimal.NewFromInt(1)}},
		Loans:       []transparency.Loan{loan("L-1", 100, 200)},
	}

	_, err := transparency.NewStore(ds)
	assert.NoError(t, err)
}

// =============================================================================
// DECODING
// =============================================================================

func TestDecodeDataset_RejectsUnknownKeys(t *testing.T) {
	_, err := transparency.DecodeDataset(strings.NewReader(`{"projects": [], "projcts": []}`))
	assert.Error(t, err)
}

func TestDecodeDataset_AbsentOptionalIsNone(t *testing.T) {
	doc := `{"projects": [{
		"project_id": "P-1", "title": "Borehole", "county": "Kitui", "ward": "Central",
		"sector": "Water", "description": "", "start_date": "2026-01-01", "planned_end": "2026-06-30",
		"status": "Planning", "funding_type": "Grant", "loan_id": null, "assigned_official_id": "USR-001",
		"created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-01T00:00:00Z",
		"budget": 1000000, "spent": 0, "progress": 0
	}]}`

	ds, err := transparency.DecodeDataset(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ds.Projects, 1)

	p := ds.Projects[0]
	assert.False(t, p.LoanID.IsSet(), "null loan_id is none")
	assert.False(t, p.ContractorID.IsSet(), "missing contractor_id is none")
	assert.Equal(t, generic.GranularityInstant, p.CreatedAt.Granularity)
	assert.Equal(t, generic.GranularityDay, p.StartDate.Granularity)
}
