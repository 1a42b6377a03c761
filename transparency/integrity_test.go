package transparency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

func TestInspect_Builtin_Clean(t *testing.T) {
	store := builtinStore(t)

	issues := transparency.Inspect(store)

	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestInspect_ReportsPermittedStates(t *testing.T) {
	// GIVEN: A dataset the store accepts but a reviewer should see
	// WHEN: Inspecting it
	// THEN: Every state is listed in store order, none is repaired

	p := project("P-1", transparency.SectorHealth, transparency.StatusDelayed, 100, 120)
	p.ContractorID = generic.Some[transparency.ContractorID]("C-1")
	p.LoanID = generic.Some[transparency.LoanID]("L-404")

	l := loan("L-1", 100, 150)
	l.LinkedProjects = []transparency.ProjectID{"P-1", "P-404"}

	tender := transparency.Tender{
		ID: "T-1", ProjectID: "P-1", Status: transparency.TenderAwarded,
		EstimatedValue: decimal.NewFromInt(100), AwardedBidID: generic.Some[transparency.BidID]("B-9"),
	}
	other := transparency.Tender{ID: "T-2", ProjectID: "P-1", Status: transparency.TenderOpen}
	bid := func(id transparency.BidID, tender transparency.TenderID) transparency.Bid {
		return transparency.Bid{
			ID: id, TenderID: tender, ContractorID: "C-1", BidAmount: decimal.NewFromInt(90),
			Status: transparency.BidAccepted, ComplianceStatus: transparency.Compliant,
		}
	}

	ds := transparency.Dataset{
		Users:       []transparency.User{{ID: "USR-001", Role: transparency.RoleOfficial, VerificationStatus: transparency.VerificationVerified}},
		Projects:    []transparency.Project{p},
		Contractors: []transparency.Contractor{{ID: "C-1", Blacklisted: true}},
		Tenders:     []transparency.Tender{tender, other},
		Bids:        []transparency.Bid{bid("B-1", "T-1"), bid("B-2", "T-1"), bid("B-9", "T-2")},
		Loans:       []transparency.Loan{l},
	}
	store := newTestStore(t, ds)

	issues := transparency.Inspect(store)

	kinds := make([]transparency.IssueKind, 0, len(issues))
	for _, is := range issues {
		kinds = append(kinds, is.Kind)
	}
	assert.Equal(t, []transparency.IssueKind{
		transparency.IssueDanglingReference,     // P-1 loan L-404
		transparency.IssueBlacklistedContractor, // P-1 contractor C-1
		transparency.IssueOverspend,             // P-1 120 > 100
		transparency.IssueMultipleAcceptedBids,  // T-1 has B-1 and B-2
		transparency.IssueAwardMismatch,         // T-1 awarded B-9 of T-2
		transparency.IssueOverdisbursement,      // L-1 150 > 100
		transparency.IssueDanglingReference,     // L-1 links P-404
	}, kinds)

	require.Len(t, issues, 7)
	assert.Equal(t, transparency.EntityProject, issues[0].Entity)
	assert.Equal(t, "P-1", issues[0].EntityID)
	assert.Contains(t, issues[4].Message, "T-2")
	assert.Contains(t, issues[6].Message, "P-404")

	// The accessors still resolve as usual.
	_, ok := store.ProjectLoan(p)
	assert.False(t, ok)
	c, ok := store.ProjectContractor(p)
	require.True(t, ok)
	assert.True(t, c.Blacklisted)
}
