package transparency_test

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// =============================================================================
// OVERVIEW
// =============================================================================

func TestOverview_TwoProjects(t *testing.T) {
	// GIVEN: One project in progress (5B / 3.25B) and one completed (45M / 43.5M)
	// WHEN: Computing the overview
	// THEN: Totals add up and half of the projects are complete

	store := newTestStore(t, transparency.Dataset{Projects: []transparency.Project{
		project("P-1", transparency.SectorHealth, transparency.StatusInProgress, 5_000_000_000, 3_250_000_000),
		project("P-2", transparency.SectorEducation, transparency.StatusCompleted, 45_000_000, 43_500_000),
	}})

	o := store.Overview()

	assert.Equal(t, 2, o.TotalProjects)
	assertDecimal(t, "5045000000", o.TotalBudget)
	assertDecimal(t, "3293500000", o.TotalSpent)
	assertDecimal(t, "1751500000", o.Remaining)
	assertDecimal(t, "50", o.CompletionRate)
	assertDecimal(t, "50", o.InProgressShare)
	assertDecimal(t, "0", o.DelayedShare)
	assertDecimal(t, "65.3", o.Utilization)
}

func TestOverview_StatusCountsListEveryStatus(t *testing.T) {
	store := newTestStore(t, transparency.Dataset{Projects: []transparency.Project{
		project("P-1", transparency.SectorHealth, transparency.StatusDelayed, 10, 0),
	}})

	o := store.Overview()

	require.Len(t, o.StatusCounts, len(transparency.ProjectStatuses))
	for i, status := range transparency.ProjectStatuses {
		assert.Equal(t, status, o.StatusCounts[i].Key)
	}
	assert.Equal(t, 1, transparency.CountOf(o.StatusCounts, transparency.StatusDelayed))
	assert.Equal(t, 0, transparency.CountOf(o.StatusCounts, transparency.StatusCompleted))
}

func TestOverview_EmptyStore_NoDivisionByZero(t *testing.T) {
	store := newTestStore(t, transparency.Dataset{})

	o := store.Overview()

	assert.Equal(t, 0, o.TotalProjects)
	assertDecimal(t, "0", o.Utilization)
	assertDecimal(t, "0", o.CompletionRate)
	assertDecimal(t, "0", o.FlagResolutionRate)
	assertDecimal(t, "0", o.AveragePerformance)
}

func TestOverview_Builtin(t *testing.T) {
	store := builtinStore(t)

	o := store.Overview()

	assert.Equal(t, 3, o.TotalProjects)
	assertDecimal(t, "17045000000", o.TotalBudget)
	assertDecimal(t, "5693500000", o.TotalSpent)
	assertDecimal(t, "33.4", o.Utilization)
	assertDecimal(t, "33", o.CompletionRate)
	assertDecimal(t, "33", o.DelayedShare)
	assert.Equal(t, 2, o.TotalLoans)
	assertDecimal(t, "35000000000", o.TotalLoanAmount)
	assertDecimal(t, "11000000000", o.TotalDisbursed)
	assert.Equal(t, 1, o.OpenFlags)
	assert.Equal(t, 1, o.ResolvedFlags)
	assertDecimal(t, "50", o.FlagResolutionRate)
	assertDecimal(t, "84", o.AveragePerformance)
}

func TestAggregates_Idempotent(t *testing.T) {
	// GIVEN: An unchanged store
	// WHEN: Every aggregate is computed twice
	// THEN: Both runs are identical

	store := builtinStore(t)

	assert.Equal(t, store.Overview(), store.Overview())
	assert.Equal(t, store.SectorBreakdown(), store.SectorBreakdown())
	assert.Equal(t, store.CountyBreakdown(), store.CountyBreakdown())
	assert.Equal(t, store.LenderBreakdown(), store.LenderBreakdown())
	assert.Equal(t, store.LoanPortfolio(), store.LoanPortfolio())
	assert.Equal(t, store.FlagStats(), store.FlagStats())
	assert.Equal(t, store.PerformanceStats(), store.PerformanceStats())
	assert.Equal(t, store.FundSummary(), store.FundSummary())
	assert.Equal(t, transparency.Inspect(store), transparency.Inspect(store))
}

// =============================================================================
// GROUPING
// =============================================================================

func TestSectorBreakdown_UnknownIsItsOwnGroup(t *testing.T) {
	// GIVEN: Projects with sectors Health, Health, Education and one blank
	// WHEN: Breaking down by sector
	// THEN: Health 2, Education 1, Unknown 1, in first-appearance order

	store := newTestStore(t, transparency.Dataset{Projects: []transparency.Project{
		project("P-1", transparency.SectorHealth, transparency.StatusCompleted, 100, 50),
		project("P-2", transparency.SectorHealth, transparency.StatusInProgress, 300, 50),
		project("P-3", transparency.SectorEducation, transparency.StatusPlanning, 10, 0),
		project("P-4", "", transparency.StatusPlanning, 0, 0),
	}})

	groups := store.SectorBreakdown()

	require.Len(t, groups, 3)
	assert.Equal(t, "Health", groups[0].Key)
	assert.Equal(t, 2, groups[0].Projects)
	assert.Equal(t, 1, groups[0].Completed)
	assertDecimal(t, "50", groups[0].CompletionRate)
	assertDecimal(t, "400", groups[0].Budget)
	assertDecimal(t, "25", groups[0].Utilization)

	assert.Equal(t, "Education", groups[1].Key)
	assert.Equal(t, 1, groups[1].Projects)

	assert.Equal(t, generic.UnknownGroup, groups[2].Key)
	assert.Equal(t, 1, groups[2].Projects)
	assertDecimal(t, "0", groups[2].Utilization, "zero budget")
}

func TestCountyBreakdown_CountsFlags(t *testing.T) {
	store := builtinStore(t)

	groups := store.CountyBreakdown()

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Nakuru", "Kisumu", "Nairobi"}, []string{groups[0].Key, groups[1].Key, groups[2].Key})
	assert.Equal(t, 1, groups[0].Flags)
	assert.Equal(t, 0, groups[1].Flags)
	assert.Equal(t, 1, groups[2].Flags)
	assertDecimal(t, "100", groups[1].CompletionRate)
}

// =============================================================================
// LOANS
// =============================================================================

func TestDisbursementRate(t *testing.T) {
	assertDecimal(t, "40", transparency.DisbursementRate(loan("L-1", 20_000_000_000, 8_000_000_000)))
	assertDecimal(t, "0", transparency.DisbursementRate(loan("L-2", 0, 0)), "zero amount")
	assertDecimal(t, "0", transparency.DisbursementRate(loan("L-3", 0, 5)), "zero amount, non-zero disbursed")
}

func TestLoanPortfolio_Builtin(t *testing.T) {
	store := builtinStore(t)

	lp := store.LoanPortfolio()

	assert.Equal(t, 2, lp.Loans)
	assertDecimal(t, "35000000000", lp.TotalAmount)
	assertDecimal(t, "31.4", lp.DisbursementRate)
	assert.Equal(t, 2, lp.LinkedProjects)
	assertDecimal(t, "2.2", lp.AverageInterestRate, "(2.5 + 1.8) / 2 rounded half away from zero")
}

func TestLoanPortfolio_SkipsUnparsableRates(t *testing.T) {
	good := loan("L-1", 100, 0)
	good.Terms.InterestRate = " 3% "
	bad := loan("L-2", 100, 0)
	bad.Terms.InterestRate = "variable"

	store := newTestStore(t, transparency.Dataset{Loans: []transparency.Loan{good, bad}})

	assertDecimal(t, "3", store.LoanPortfolio().AverageInterestRate)

	none := newTestStore(t, transparency.Dataset{Loans: []transparency.Loan{bad}})
	assertDecimal(t, "0", none.LoanPortfolio().AverageInterestRate)
}

func TestLenderBreakdown(t *testing.T) {
	a := loan("L-1", 100, 50)
	a.LinkedProjects = []transparency.ProjectID{"P-1"}
	b := loan("L-2", 300, 50)
	b.LinkedProjects = []transparency.ProjectID{"P-1", "P-2"}
	c := loan("L-3", 10, 0)
	c.Lender = "  "

	store := newTestStore(t, transparency.Dataset{Loans: []transparency.Loan{a, b, c}})

	groups := store.LenderBreakdown()

	require.Len(t, groups, 2)
	assert.Equal(t, "World Bank", groups[0].Lender)
	assert.Equal(t, 2, groups[0].Loans)
	assertDecimal(t, "25", groups[0].DisbursementRate)
	assert.Equal(t, 2, groups[0].LinkedProjects, "P-1 counted once")
	assert.Equal(t, generic.UnknownGroup, groups[1].Lender)
}

func TestSummarizeRepayments(t *testing.T) {
	store := builtinStore(t)
	l, ok := store.LoanByID("LOAN-2026-WB-002")
	require.True(t, ok)

	rs := transparency.SummarizeRepayments(l)

	assertDecimal(t, "410000000", rs.Principal)
	assertDecimal(t, "245000000", rs.Interest)
	assertDecimal(t, "655000000", rs.Total)
	assertDecimal(t, "20000000000", rs.Outstanding, "every entry is still upcoming")
	assertDecimal(t, "19590000000", rs.ProjectedBalance)
	next, ok := rs.Next.Get()
	require.True(t, ok)
	assert.Equal(t, "2028-06-30", next.PaymentDate.String())
	assert.Equal(t, 2, transparency.CountOf(rs.ByStatus, transparency.RepaymentUpcoming))
	assert.Equal(t, 0, transparency.CountOf(rs.ByStatus, transparency.RepaymentOverdue))
}

func TestSummarizeRepayments_EmptySchedule(t *testing.T) {
	rs := transparency.SummarizeRepayments(loan("L-1", 500, 100))

	assertDecimal(t, "0", rs.Total)
	assertDecimal(t, "500", rs.Outstanding)
	assertDecimal(t, "500", rs.ProjectedBalance)
	assert.False(t, rs.Next.IsSet())
}

func TestSummarizeRepayments_OutstandingFollowsPaidEntries(t *testing.T) {
	// GIVEN: A schedule with paid, overdue and upcoming entries
	// WHEN: Summarizing it
	// THEN: Outstanding is the balance after the last paid entry, not the projection

	entry := func(month int, balance int64, status transparency.RepaymentStatus) transparency.Repayment {
		return transparency.Repayment{
			PaymentDate: generic.NewTimePoint(2027, time.Month(month), 1),
			Principal:   decimal.NewFromInt(100),
			Interest:    decimal.NewFromInt(10),
			Balance:     decimal.NewFromInt(balance),
			Status:      status,
		}
	}

	l := loan("L-1", 1000, 1000)
	l.RepaymentSchedule = []transparency.Repayment{
		entry(1, 900, transparency.RepaymentPaid),
		entry(2, 800, transparency.RepaymentPaid),
		entry(3, 700, transparency.RepaymentOverdue),
		entry(4, 600, transparency.RepaymentUpcoming),
	}

	rs := transparency.SummarizeRepayments(l)

	assertDecimal(t, "800", rs.Outstanding)
	assertDecimal(t, "600", rs.ProjectedBalance)

	l.RepaymentSchedule = []transparency.Repayment{entry(1, 999, transparency.RepaymentUpcoming)}
	rs = transparency.SummarizeRepayments(l)

	assertDecimal(t, "1000", rs.Outstanding, "nothing paid")
	assertDecimal(t, "999", rs.ProjectedBalance)
}

// =============================================================================
// PROJECT DETAIL
// =============================================================================

func TestFinancials_Overspend(t *testing.T) {
	f := transparency.Financials(project("P-1", transparency.SectorHealth, transparency.StatusDelayed, 100, 130))

	assertDecimal(t, "-30", f.Remaining)
	assertDecimal(t, "130", f.Utilization)
	assert.True(t, f.OverBudget)
}

func TestFinancials_ZeroBudget(t *testing.T) {
	f := transparency.Financials(project("P-1", transparency.SectorHealth, transparency.StatusPlanning, 0, 0))

	assertDecimal(t, "0", f.Utilization)
	assert.False(t, f.OverBudget)
}

func TestMilestoneProgress(t *testing.T) {
	store := builtinStore(t)

	mp := store.MilestoneProgress("PROJECT-NKR-CTC-001")

	assert.Equal(t, 3, mp.Total)
	assert.Equal(t, 2, mp.Completed)
	assertDecimal(t, "67", mp.CompletionRate)
	assert.Equal(t, 9, mp.SlippageDays, "MLS-001 four days late, MLS-002 five days late")

	none := store.MilestoneProgress("PROJECT-NRB-RD-078")
	assert.Equal(t, 0, none.Total)
	assertDecimal(t, "0", none.CompletionRate)
}

// =============================================================================
// AUDITS, FLAGS, PERFORMANCE, FUNDS, TENDERS
// =============================================================================

func TestFindingCounts(t *testing.T) {
	store := builtinStore(t)
	a := store.Audits()[0]

	counts := transparency.FindingCounts(a)

	require.Len(t, counts, 4)
	assert.Equal(t, 1, transparency.CountOf(counts, transparency.SeverityLow))
	assert.Equal(t, 1, transparency.CountOf(counts, transparency.SeverityMedium))
	assert.Equal(t, 0, transparency.CriticalFindings(a))

	a.Findings = append(slices.Clone(a.Findings),
		transparency.Finding{ID: "F-3", Type: transparency.FindingSafety, Severity: transparency.SeverityCritical},
		transparency.Finding{ID: "F-4", Type: transparency.FindingFinancial, Severity: transparency.SeverityHigh},
	)
	assert.Equal(t, 2, transparency.CriticalFindings(a))
}

func TestFlagStats_Builtin(t *testing.T) {
	store := builtinStore(t)

	fs := store.FlagStats()

	assert.Equal(t, 2, fs.Total)
	assert.Equal(t, 1, fs.Anonymous)
	assert.Equal(t, 1, fs.Escalated)
	assert.Equal(t, 1, transparency.CountOf(fs.ByStatus, transparency.FlagInvestigating))
	assert.Equal(t, 1, transparency.CountOf(fs.ByCategory, transparency.FlagDelay))
	assert.Equal(t, 1, transparency.CountOf(fs.ByPriority, transparency.PriorityHigh))
	assert.Len(t, fs.ByCategory, len(transparency.FlagCategories))
	assertDecimal(t, "50", fs.ResolvedRate)
}

func TestPerformanceStats_Builtin(t *testing.T) {
	store := builtinStore(t)

	ps := store.PerformanceStats()

	assert.Equal(t, 2, ps.Officials)
	assert.Equal(t, 1, ps.HighPerformers)
	assert.Equal(t, 0, ps.UnderPerformers)
	assert.Equal(t, 0, ps.OnProbation)
	assertDecimal(t, "84", ps.AverageScore)
}

func TestOfficialSummary(t *testing.T) {
	store := builtinStore(t)

	sum := store.OfficialSummary("USR-001")

	u, ok := sum.User.Get()
	require.True(t, ok)
	assert.Equal(t, "Dr. Sarah Mwangi", u.Name)
	assert.Len(t, sum.Projects, 2)
	assertDecimal(t, "17000000000", sum.Budget)
	assertDecimal(t, "5650000000", sum.Spent)
	latest, ok := sum.Latest.Get()
	require.True(t, ok)
	assert.Equal(t, transparency.RecordID("PRF-001"), latest.ID)
}

func TestOfficialSummary_Unknown(t *testing.T) {
	store := builtinStore(t)

	sum := store.OfficialSummary("USR-999")

	assert.False(t, sum.User.IsSet())
	assert.NotNil(t, sum.Projects)
	assert.Empty(t, sum.Projects)
	assert.False(t, sum.Latest.IsSet())
	assertDecimal(t, "0", sum.Utilization)
}

func TestFundSummary_Builtin(t *testing.T) {
	store := builtinStore(t)

	fs := store.FundSummary()

	assertDecimal(t, "7000000000", fs.TotalCollected)
	assertDecimal(t, "45000000", fs.TotalSpent)
	assertDecimal(t, "6955000000", fs.Remaining)
	assertDecimal(t, "0.6", fs.UsageRate)
	require.Len(t, fs.BySource, 2)
	assert.Equal(t, transparency.SourceIncomeTax, fs.BySource[0].Source)
	assert.Equal(t, transparency.SourceVAT, fs.BySource[1].Source)
	assert.Equal(t, 1, transparency.CountOf(fs.ByAllocation, transparency.Allocated))
	assert.Equal(t, 0, transparency.CountOf(fs.ByAllocation, transparency.Reserved))
}

func TestTenderSummary(t *testing.T) {
	store := builtinStore(t)
	tender, ok := store.TenderByID("TND-001")
	require.True(t, ok)

	ts := store.TenderSummary(tender)

	assert.Equal(t, 1, ts.Bids)
	assert.Equal(t, 1, ts.Accepted)
	low, ok := ts.LowestBid.Get()
	require.True(t, ok)
	assertDecimal(t, "4800000000", low)
	assertDecimal(t, "200000000", ts.Savings)
	assertDecimal(t, "4", ts.SavingsRate)
}

func TestTenderSummary_NoBids(t *testing.T) {
	tender := transparency.Tender{ID: "T-1", Status: transparency.TenderOpen, EstimatedValue: decimal.NewFromInt(100)}
	store := newTestStore(t, transparency.Dataset{Tenders: []transparency.Tender{tender}})

	ts := store.TenderSummary(tender)

	assert.Equal(t, 0, ts.Bids)
	assert.False(t, ts.LowestBid.IsSet())
	assert.False(t, ts.AwardedBid.IsSet())
	assertDecimal(t, "0", ts.Savings)
}
