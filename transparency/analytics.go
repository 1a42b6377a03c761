/*
analytics.go - Dashboard aggregates derived from the store

PURPOSE:
  Every number the dashboards show is computed here from the full entity
  collections on each call. Nothing is cached and nothing is written, so two
  calls over the same store return identical values.

ROUNDING (see generic/rate.go):
  - Count rates (completion, status share, resolution): whole percent
  - Amount rates (utilization, disbursement, fund usage): one decimal
  - Score averages: whole number
  A zero denominator gives 0.

GROUPING:
  Sector, county, lender and fund source groups appear in the order their key
  is first seen in the store. A blank key is grouped under "Unknown".

SEE ALSO:
  - relations.go: The lookups these aggregates are built from
  - api/dto.go: JSON shapes of these values
*/
package transparency

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uwazi/transparency-engine/generic"
)

// Performance score bands.
const (
	HighPerformerScore  = 80
	UnderPerformerScore = 60
)

// Tally is a count for one enum member.
type Tally[K ~string] struct {
	Key   K
	Count int
}

// tally counts items per key, listing every member of keys (zero included)
// in the order given.
func tally[T any, K ~string](keys []K, items []T, key func(T) K) []Tally[K] {
	out := make([]Tally[K], len(keys))
	for i, k := range keys {
		out[i] = Tally[K]{Key: k, Count: generic.CountBy(items, func(item T) bool { return key(item) == k })}
	}
	return out
}

// CountOf returns the count for k, or 0 when k is not tallied.
func CountOf[K ~string](tallies []Tally[K], k K) int {
	for _, t := range tallies {
		if t.Key == k {
			return t.Count
		}
	}
	return 0
}

func projectBudget(p Project) decimal.Decimal { return p.Budget }
func projectSpent(p Project) decimal.Decimal  { return p.Spent }

// =============================================================================
// OVERVIEW
// =============================================================================

type Overview struct {
	TotalProjects   int
	TotalBudget     decimal.Decimal
	TotalSpent      decimal.Decimal
	Remaining       decimal.Decimal
	Utilization     decimal.Decimal
	StatusCounts    []Tally[ProjectStatus]
	CompletionRate  decimal.Decimal
	InProgressShare decimal.Decimal
	DelayedShare    decimal.Decimal

	TotalLoans      int
	TotalLoanAmount decimal.Decimal
	TotalDisbursed  decimal.Decimal

	OpenFlags          int
	ResolvedFlags      int
	FlagResolutionRate decimal.Decimal

	AveragePerformance decimal.Decimal
}

func (s *Store) Overview() Overview {
	projects := s.ds.Projects
	budget := generic.SumBy(projects, projectBudget)
	spent := generic.SumBy(projects, projectSpent)
	statuses := tally(ProjectStatuses, projects, func(p Project) ProjectStatus { return p.Status })
	n := len(projects)

	flags := s.ds.Flags
	resolved := generic.CountBy(flags, func(f FlagReport) bool { return f.Status == FlagResolved })

	return Overview{
		TotalProjects:   n,
		TotalBudget:     budget,
		TotalSpent:      spent,
		Remaining:       budget.Sub(spent),
		Utilization:     generic.AmountRate(spent, budget),
		StatusCounts:    statuses,
		CompletionRate:  generic.CountRate(CountOf(statuses, StatusCompleted), n),
		InProgressShare: generic.CountRate(CountOf(statuses, StatusInProgress), n),
		DelayedShare:    generic.CountRate(CountOf(statuses, StatusDelayed), n),

		TotalLoans:      len(s.ds.Loans),
		TotalLoanAmount: generic.SumBy(s.ds.Loans, func(l Loan) decimal.Decimal { return l.Amount }),
		TotalDisbursed:  generic.SumBy(s.ds.Loans, func(l Loan) decimal.Decimal { return l.Disbursed }),

		OpenFlags:          generic.CountBy(flags, FlagReport.Open),
		ResolvedFlags:      resolved,
		FlagResolutionRate: generic.CountRate(resolved, len(flags)),

		AveragePerformance: averageScore(s.ds.PerformanceRecords),
	}
}

// Open reports whether the flag still awaits an outcome.
func (f FlagReport) Open() bool {
	return f.Status != FlagResolved && f.Status != FlagRejected
}

func averageScore(records []PerformanceRecord) decimal.Decimal {
	sum := generic.SumBy(records, func(r PerformanceRecord) decimal.Decimal { return decimal.NewFromInt(int64(r.Score)) })
	return generic.Average(sum, len(records), generic.ScorePlaces)
}

// =============================================================================
// SECTOR / COUNTY BREAKDOWNS
// =============================================================================

// ProjectGroup summarizes the projects sharing a sector or county.
type ProjectGroup struct {
	Key            string
	Projects       int
	Completed      int
	CompletionRate decimal.Decimal
	Budget         decimal.Decimal
	Spent          decimal.Decimal
	Utilization    decimal.Decimal
	Flags          int
}

func (s *Store) SectorBreakdown() []ProjectGroup {
	return s.projectGroups(func(p Project) string { return string(p.Sector) })
}

func (s *Store) CountyBreakdown() []ProjectGroup {
	return s.projectGroups(func(p Project) string { return p.County })
}

func (s *Store) projectGroups(key func(Project) string) []ProjectGroup {
	flagsPerProject := make(map[ProjectID]int)
	for _, f := range s.ds.Flags {
		flagsPerProject[f.ProjectID]++
	}

	groups := generic.GroupBy(s.ds.Projects, key)
	out := make([]ProjectGroup, 0, len(groups))
	for _, g := range groups {
		completed := generic.CountBy(g.Items, func(p Project) bool { return p.Status == StatusCompleted })
		budget := generic.SumBy(g.Items, projectBudget)
		spent := generic.SumBy(g.Items, projectSpent)
		flags := 0
		for _, p := range g.Items {
			flags += flagsPerProject[p.ID]
		}
		out = append(out, ProjectGroup{
			Key:            g.Key,
			Projects:       len(g.Items),
			Completed:      completed,
			CompletionRate: generic.CountRate(completed, len(g.Items)),
			Budget:         budget,
			Spent:          spent,
			Utilization:    generic.AmountRate(spent, budget),
			Flags:          flags,
		})
	}
	return out
}

// =============================================================================
// LOANS
// =============================================================================

// DisbursementRate is disbursed over amount as a percentage; 0 for a zero amount.
func DisbursementRate(l Loan) decimal.Decimal {
	return generic.AmountRate(l.Disbursed, l.Amount)
}

// ParsedInterestRate parses terms such as "2.5%". The bool is false when the
// string holds no number.
func (t LoanTerms) ParsedInterestRate() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t.InterestRate), "%"))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

type LenderGroup struct {
	Lender           string
	Loans            int
	Amount           decimal.Decimal
	Disbursed        decimal.Decimal
	DisbursementRate decimal.Decimal
	LinkedProjects   int
}

func (s *Store) LenderBreakdown() []LenderGroup {
	groups := generic.GroupBy(s.ds.Loans, func(l Loan) string { return l.Lender })
	out := make([]LenderGroup, 0, len(groups))
	for _, g := range groups {
		amount := generic.SumBy(g.Items, func(l Loan) decimal.Decimal { return l.Amount })
		disbursed := generic.SumBy(g.Items, func(l Loan) decimal.Decimal { return l.Disbursed })
		out = append(out, LenderGroup{
			Lender:           g.Key,
			Loans:            len(g.Items),
			Amount:           amount,
			Disbursed:        disbursed,
			DisbursementRate: generic.AmountRate(disbursed, amount),
			LinkedProjects:   len(linkedProjectIDs(g.Items)),
		})
	}
	return out
}

func linkedProjectIDs(loans []Loan) []ProjectID {
	var ids []ProjectID
	for _, l := range loans {
		ids = append(ids, l.LinkedProjects...)
	}
	return generic.Distinct(ids, func(id ProjectID) ProjectID { return id })
}

type LoanPortfolio struct {
	Loans               int
	TotalAmount         decimal.Decimal
	TotalDisbursed      decimal.Decimal
	DisbursementRate    decimal.Decimal
	LinkedProjects      int
	AverageInterestRate decimal.Decimal
}

// LoanPortfolio totals every loan. Interest rates that do not parse are left
// out of the average.
func (s *Store) LoanPortfolio() LoanPortfolio {
	loans := s.ds.Loans
	amount := generic.SumBy(loans, func(l Loan) decimal.Decimal { return l.Amount })
	disbursed := generic.SumBy(loans, func(l Loan) decimal.Decimal { return l.Disbursed })

	rateSum, rated := decimal.Zero, 0
	for _, l := range loans {
		if r, ok := l.Terms.ParsedInterestRate(); ok {
			rateSum = rateSum.Add(r)
			rated++
		}
	}

	return LoanPortfolio{
		Loans:               len(loans),
		TotalAmount:         amount,
		TotalDisbursed:      disbursed,
		DisbursementRate:    generic.AmountRate(disbursed, amount),
		LinkedProjects:      len(linkedProjectIDs(loans)),
		AverageInterestRate: generic.Average(rateSum, rated, generic.AmountPlaces),
	}
}

type RepaymentSummary struct {
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	Outstanding      decimal.Decimal
	ProjectedBalance decimal.Decimal
	Next             generic.Optional[Repayment]
	ByStatus         []Tally[RepaymentStatus]
}

// SummarizeRepayments totals a loan's schedule. Outstanding is the balance
// after the last paid entry in schedule order, or the full amount when
// nothing has been paid. ProjectedBalance is the balance once the whole
// schedule is met. Next is the first upcoming payment in schedule order.
func SummarizeRepayments(l Loan) RepaymentSummary {
	schedule := l.RepaymentSchedule
	principal := generic.SumBy(schedule, func(r Repayment) decimal.Decimal { return r.Principal })
	interest := generic.SumBy(schedule, func(r Repayment) decimal.Decimal { return r.Interest })

	outstanding := l.Amount
	for _, r := range schedule {
		if r.Status == RepaymentPaid {
			outstanding = r.Balance
		}
	}
	projected := l.Amount
	if len(schedule) > 0 {
		projected = schedule[len(schedule)-1].Balance
	}

	next := generic.None[Repayment]()
	if r, ok := generic.Find(schedule, func(r Repayment) bool { return r.Status == RepaymentUpcoming }); ok {
		next = generic.Some(r)
	}

	return RepaymentSummary{
		Principal:        principal,
		Interest:         interest,
		Total:            principal.Add(interest),
		Outstanding:      outstanding,
		ProjectedBalance: projected,
		Next:             next,
		ByStatus:         tally(RepaymentStatuses, schedule, func(r Repayment) RepaymentStatus { return r.Status }),
	}
}

// =============================================================================
// PROJECT DETAIL
// =============================================================================

type ProjectFinancials struct {
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Utilization decimal.Decimal
	OverBudget  bool
}

// Financials may report a negative remaining amount; overspend is permitted.
func Financials(p Project) ProjectFinancials {
	return ProjectFinancials{
		Budget:      p.Budget,
		Spent:       p.Spent,
		Remaining:   p.Budget.Sub(p.Spent),
		Utilization: generic.AmountRate(p.Spent, p.Budget),
		OverBudget:  p.Spent.GreaterThan(p.Budget),
	}
}

type MilestoneProgress struct {
	Total          int
	Completed      int
	CompletionRate decimal.Decimal
	Delayed        int
	SlippageDays   int
}

// MilestoneProgress sums slippage over milestones that finished after their
// planned end.
func (s *Store) MilestoneProgress(id ProjectID) MilestoneProgress {
	ms := s.MilestonesByProject(id)
	completed := generic.CountBy(ms, func(m Milestone) bool { return m.Status == MilestoneCompleted })

	slippage := 0
	for _, m := range ms {
		if end, ok := m.ActualEnd.Get(); ok && end.After(m.PlannedEnd) {
			slippage += generic.DaysBetween(m.PlannedEnd, end)
		}
	}

	return MilestoneProgress{
		Total:          len(ms),
		Completed:      completed,
		CompletionRate: generic.CountRate(completed, len(ms)),
		Delayed:        generic.CountBy(ms, func(m Milestone) bool { return m.Status == MilestoneDelayed }),
		SlippageDays:   slippage,
	}
}

// =============================================================================
// AUDITS
// =============================================================================

// FindingCounts counts an audit's findings per severity, every severity listed.
func FindingCounts(a Audit) []Tally[Severity] {
	return tally(Severities, a.Findings, func(f Finding) Severity { return f.Severity })
}

// CriticalFindings counts high and critical findings.
func CriticalFindings(a Audit) int {
	return generic.CountBy(a.Findings, func(f Finding) bool {
		return f.Severity == SeverityHigh || f.Severity == SeverityCritical
	})
}

// =============================================================================
// FLAGS
// =============================================================================

type FlagStats struct {
	Total        int
	ByStatus     []Tally[FlagStatus]
	ByCategory   []Tally[FlagCategory]
	ByPriority   []Tally[Priority]
	Anonymous    int
	Escalated    int
	ResolvedRate decimal.Decimal
}

// FlagStats counts escalated flags as those with a recorded escalation or in
// the escalated status.
func (s *Store) FlagStats() FlagStats {
	flags := s.ds.Flags
	byStatus := tally(FlagStatuses, flags, func(f FlagReport) FlagStatus { return f.Status })
	return FlagStats{
		Total:      len(flags),
		ByStatus:   byStatus,
		ByCategory: tally(FlagCategories, flags, func(f FlagReport) FlagCategory { return f.Category }),
		ByPriority: tally(Priorities, flags, func(f FlagReport) Priority { return f.Priority }),
		Anonymous:  generic.CountBy(flags, FlagReport.Anonymous),
		Escalated: generic.CountBy(flags, func(f FlagReport) bool {
			return len(f.Escalations) > 0 || f.Status == FlagEscalated
		}),
		ResolvedRate: generic.CountRate(CountOf(byStatus, FlagResolved), len(flags)),
	}
}

// =============================================================================
// PERFORMANCE
// =============================================================================

type PerformanceStats struct {
	Records         int
	Officials       int
	HighPerformers  int
	UnderPerformers int
	OnProbation     int
	AverageScore    decimal.Decimal
}

// PerformanceStats bands each official by their latest record.
func (s *Store) PerformanceStats() PerformanceStats {
	records := s.ds.PerformanceRecords
	officials := generic.Distinct(records, func(r PerformanceRecord) UserID { return r.OfficialID })

	latest := make([]PerformanceRecord, 0, len(officials))
	for _, id := range officials {
		if r, ok := latestRecord(s.PerformanceByOfficial(id)); ok {
			latest = append(latest, r)
		}
	}

	return PerformanceStats{
		Records:         len(records),
		Officials:       len(officials),
		HighPerformers:  generic.CountBy(latest, func(r PerformanceRecord) bool { return r.Score >= HighPerformerScore }),
		UnderPerformers: generic.CountBy(latest, func(r PerformanceRecord) bool { return r.Score < UnderPerformerScore }),
		OnProbation:     generic.CountBy(latest, func(r PerformanceRecord) bool { return r.Action == ActionProbation }),
		AverageScore:    averageScore(records),
	}
}

// latestRecord picks the most recent evaluation; on equal dates the later
// record in store order wins.
func latestRecord(records []PerformanceRecord) (PerformanceRecord, bool) {
	if len(records) == 0 {
		return PerformanceRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if !r.EvaluationDate.Before(best.EvaluationDate) {
			best = r
		}
	}
	return best, true
}

type OfficialSummary struct {
	OfficialID  UserID
	User        generic.Optional[User]
	Projects    []Project
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	Utilization decimal.Decimal
	Records     []PerformanceRecord
	Latest      generic.Optional[PerformanceRecord]
}

// OfficialSummary is defined for any id; an unknown official has no user,
// no projects and no records.
func (s *Store) OfficialSummary(id UserID) OfficialSummary {
	sum := OfficialSummary{OfficialID: id, Projects: s.ProjectsByOfficial(id), Records: s.PerformanceByOfficial(id)}
	if u, ok := s.UserByID(id); ok {
		sum.User = generic.Some(u)
	}
	if r, ok := latestRecord(sum.Records); ok {
		sum.Latest = generic.Some(r)
	}
	sum.Budget = generic.SumBy(sum.Projects, projectBudget)
	sum.Spent = generic.SumBy(sum.Projects, projectSpent)
	sum.Utilization = generic.AmountRate(sum.Spent, sum.Budget)
	return sum
}

// =============================================================================
// TAXPAYER FUNDS
// =============================================================================

type FundSourceGroup struct {
	Source FundSource
	Funds  int
	Amount decimal.Decimal
	Spent  decimal.Decimal
}

type FundSummary struct {
	TotalCollected decimal.Decimal
	TotalSpent     decimal.Decimal
	Remaining      decimal.Decimal
	UsageRate      decimal.Decimal
	BySource       []FundSourceGroup
	ByAllocation   []Tally[AllocationStatus]
}

func (s *Store) FundSummary() FundSummary {
	funds := s.ds.TaxpayerFunds
	collected := generic.SumBy(funds, func(f TaxpayerFund) decimal.Decimal { return f.Amount })
	spent := generic.SumBy(funds, func(f TaxpayerFund) decimal.Decimal { return f.SpentAmount })

	groups := generic.GroupBy(funds, func(f TaxpayerFund) string { return string(f.Source) })
	bySource := make([]FundSourceGroup, 0, len(groups))
	for _, g := range groups {
		bySource = append(bySource, FundSourceGroup{
			Source: FundSource(g.Key),
			Funds:  len(g.Items),
			Amount: generic.SumBy(g.Items, func(f TaxpayerFund) decimal.Decimal { return f.Amount }),
			Spent:  generic.SumBy(g.Items, func(f TaxpayerFund) decimal.Decimal { return f.SpentAmount }),
		})
	}

	return FundSummary{
		TotalCollected: collected,
		TotalSpent:     spent,
		Remaining:      generic.SumBy(funds, func(f TaxpayerFund) decimal.Decimal { return f.RemainingBalance }),
		UsageRate:      generic.AmountRate(spent, collected),
		BySource:       bySource,
		ByAllocation:   tally(AllocationStatuses, funds, func(f TaxpayerFund) AllocationStatus { return f.AllocationStatus }),
	}
}

// =============================================================================
// TENDERS
// =============================================================================

type TenderSummary struct {
	Bids       int
	Accepted   int
	LowestBid  generic.Optional[decimal.Decimal]
	AwardedBid generic.Optional[Bid]
	// Savings is the estimate minus the awarded amount; zero without an award.
	Savings     decimal.Decimal
	SavingsRate decimal.Decimal
}

func (s *Store) TenderSummary(t Tender) TenderSummary {
	bids := s.BidsByTender(t.ID)
	sum := TenderSummary{
		Bids:     len(bids),
		Accepted: generic.CountBy(bids, func(b Bid) bool { return b.Status == BidAccepted }),
		Savings:  decimal.Zero,
	}
	for _, b := range bids {
		if low, ok := sum.LowestBid.Get(); !ok || b.BidAmount.LessThan(low) {
			sum.LowestBid = generic.Some(b.BidAmount)
		}
	}
	if b, ok := s.AwardedBid(t); ok {
		sum.AwardedBid = generic.Some(b)
		sum.Savings = t.EstimatedValue.Sub(b.BidAmount)
		sum.SavingsRate = generic.AmountRate(sum.Savings, t.EstimatedValue)
	}
	return sum
}
