package transparency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func builtinStore(t *testing.T) *transparency.Store {
	t.Helper()
	store, err := transparency.NewBuiltinStore()
	require.NoError(t, err)
	return store
}

func newTestStore(t *testing.T, ds transparency.Dataset) *transparency.Store {
	t.Helper()
	store, err := transparency.NewStore(ds)
	require.NoError(t, err)
	return store
}

func project(id string, sector transparency.Sector, status transparency.ProjectStatus, budget, spent int64) transparency.Project {
	return transparency.Project{
		ID:                 transparency.ProjectID(id),
		Title:              "Project " + id,
		County:             "Nakuru",
		Ward:               "Central Ward",
		Sector:             sector,
		StartDate:          generic.NewTimePoint(2026, 1, 1),
		PlannedEnd:         generic.NewTimePoint(2027, 1, 1),
		Status:             status,
		FundingType:        transparency.FundingBudget,
		AssignedOfficialID: "USR-001",
		Budget:             decimal.NewFromInt(budget),
		Spent:              decimal.NewFromInt(spent),
	}
}

func loan(id string, amount, disbursed int64) transparency.Loan {
	return transparency.Loan{
		ID:        transparency.LoanID(id),
		Lender:    "World Bank",
		Amount:    decimal.NewFromInt(amount),
		Disbursed: decimal.NewFromInt(disbursed),
		Status:    transparency.LoanDisbursing,
		Terms:     transparency.LoanTerms{InterestRate: "2.5%", DurationYears: 25, PaymentFrequency: transparency.PayAnnual},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}
