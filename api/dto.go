/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures the dashboards read. Records are returned in
  their dataset shape; aggregates are converted here so the wire format does
  not depend on the Go types in transparency/analytics.go.

NUMBERS:
  - Money: decimal strings ("17045000000"), never floats
  - Rates and averages: JSON numbers, already rounded by the aggregate
  - Counts: integers

TYPES:
  Aggregates:
    SummaryDTO, ProjectGroupDTO, LenderGroupDTO, LoanPortfolioDTO,
    FlagStatsDTO, PerformanceStatsDTO, FundSummaryDTO

  Records with derived values:
    ProjectItemDTO, ProjectDetailDTO, LoanItemDTO, LoanDetailDTO,
    OfficialDTO, TenderDetailDTO

  Other:
    FilterOptionsDTO, IssueDTO, ErrorResponse

SEE ALSO:
  - handlers.go: Uses these types
  - transparency/analytics.go: The aggregates converted here
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// Fallback labels for references that do not resolve.
const (
	UnknownOfficial      = "Unknown Official"
	NoContractorAssigned = "No Contractor Assigned"
)

// =============================================================================
// SHARED
// =============================================================================

type TallyDTO struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func toTallies[K ~string](ts []transparency.Tally[K]) []TallyDTO {
	out := make([]TallyDTO, len(ts))
	for i, t := range ts {
		out[i] = TallyDTO{Key: string(t.Key), Count: t.Count}
	}
	return out
}

func rate(d decimal.Decimal) float64 { return d.InexactFloat64() }

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// AGGREGATES
// =============================================================================

type SummaryDTO struct {
	Currency        string     `json:"currency"`
	TotalProjects   int        `json:"total_projects"`
	TotalBudget     string     `json:"total_budget"`
	TotalSpent      string     `json:"total_spent"`
	Remaining       string     `json:"remaining"`
	Utilization     float64    `json:"utilization"`
	StatusCounts    []TallyDTO `json:"status_counts"`
	CompletionRate  float64    `json:"completion_rate"`
	InProgressShare float64    `json:"in_progress_share"`
	DelayedShare    float64    `json:"delayed_share"`

	TotalLoans      int    `json:"total_loans"`
	TotalLoanAmount string `json:"total_loan_amount"`
	TotalDisbursed  string `json:"total_disbursed"`

	OpenFlags          int     `json:"open_flags"`
	ResolvedFlags      int     `json:"resolved_flags"`
	FlagResolutionRate float64 `json:"flag_resolution_rate"`

	AveragePerformance float64 `json:"average_performance"`
}

// NewSummaryDTO converts the overview aggregate to its wire shape.
func NewSummaryDTO(o transparency.Overview) SummaryDTO {
	return SummaryDTO{
		Currency:           string(generic.CurrencyKES),
		TotalProjects:      o.TotalProjects,
		TotalBudget:        o.TotalBudget.String(),
		TotalSpent:         o.TotalSpent.String(),
		Remaining:          o.Remaining.String(),
		Utilization:        rate(o.Utilization),
		StatusCounts:       toTallies(o.StatusCounts),
		CompletionRate:     rate(o.CompletionRate),
		InProgressShare:    rate(o.InProgressShare),
		DelayedShare:       rate(o.DelayedShare),
		TotalLoans:         o.TotalLoans,
		TotalLoanAmount:    o.TotalLoanAmount.String(),
		TotalDisbursed:     o.TotalDisbursed.String(),
		OpenFlags:          o.OpenFlags,
		ResolvedFlags:      o.ResolvedFlags,
		FlagResolutionRate: rate(o.FlagResolutionRate),
		AveragePerformance: rate(o.AveragePerformance),
	}
}

type ProjectGroupDTO struct {
	Key            string  `json:"key"`
	Projects       int     `json:"projects"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	Budget         string  `json:"budget"`
	Spent          string  `json:"spent"`
	Utilization    float64 `json:"utilization"`
	Flags          int     `json:"flags"`
}

func toProjectGroupDTOs(groups []transparency.ProjectGroup) []ProjectGroupDTO {
	out := make([]ProjectGroupDTO, len(groups))
	for i, g := range groups {
		out[i] = ProjectGroupDTO{
			Key:            g.Key,
			Projects:       g.Projects,
			Completed:      g.Completed,
			CompletionRate: rate(g.CompletionRate),
			Budget:         g.Budget.String(),
			Spent:          g.Spent.String(),
			Utilization:    rate(g.Utilization),
			Flags:          g.Flags,
		}
	}
	return out
}

type LenderGroupDTO struct {
	Lender           string  `json:"lender"`
	Loans            int     `json:"loans"`
	Amount           string  `json:"amount"`
	Disbursed        string  `json:"disbursed"`
	DisbursementRate float64 `json:"disbursement_rate"`
	LinkedProjects   int     `json:"linked_projects"`
}

func toLenderGroupDTOs(groups []transparency.LenderGroup) []LenderGroupDTO {
	out := make([]LenderGroupDTO, len(groups))
	for i, g := range groups {
		out[i] = LenderGroupDTO{
			Lender:           g.Lender,
			Loans:            g.Loans,
			Amount:           g.Amount.String(),
			Disbursed:        g.Disbursed.String(),
			DisbursementRate: rate(g.DisbursementRate),
			LinkedProjects:   g.LinkedProjects,
		}
	}
	return out
}

type LoanPortfolioDTO struct {
	Loans               int     `json:"loans"`
	TotalAmount         string  `json:"total_amount"`
	TotalDisbursed      string  `json:"total_disbursed"`
	DisbursementRate    float64 `json:"disbursement_rate"`
	LinkedProjects      int     `json:"linked_projects"`
	AverageInterestRate float64 `json:"average_interest_rate"`
}

func toLoanPortfolioDTO(p transparency.LoanPortfolio) LoanPortfolioDTO {
	return LoanPortfolioDTO{
		Loans:               p.Loans,
		TotalAmount:         p.TotalAmount.String(),
		TotalDisbursed:      p.TotalDisbursed.String(),
		DisbursementRate:    rate(p.DisbursementRate),
		LinkedProjects:      p.LinkedProjects,
		AverageInterestRate: rate(p.AverageInterestRate),
	}
}

type FlagStatsDTO struct {
	Total        int        `json:"total"`
	ByStatus     []TallyDTO `json:"by_status"`
	ByCategory   []TallyDTO `json:"by_category"`
	ByPriority   []TallyDTO `json:"by_priority"`
	Anonymous    int        `json:"anonymous"`
	Escalated    int        `json:"escalated"`
	ResolvedRate float64    `json:"resolved_rate"`
}

func toFlagStatsDTO(s transparency.FlagStats) FlagStatsDTO {
	return FlagStatsDTO{
		Total:        s.Total,
		ByStatus:     toTallies(s.ByStatus),
		ByCategory:   toTallies(s.ByCategory),
		ByPriority:   toTallies(s.ByPriority),
		Anonymous:    s.Anonymous,
		Escalated:    s.Escalated,
		ResolvedRate: rate(s.ResolvedRate),
	}
}

type PerformanceStatsDTO struct {
	Records         int     `json:"records"`
	Officials       int     `json:"officials"`
	HighPerformers  int     `json:"high_performers"`
	UnderPerformers int     `json:"under_performers"`
	OnProbation     int     `json:"on_probation"`
	AverageScore    float64 `json:"average_score"`
}

func toPerformanceStatsDTO(s transparency.PerformanceStats) PerformanceStatsDTO {
	return PerformanceStatsDTO{
		Records:         s.Records,
		Officials:       s.Officials,
		HighPerformers:  s.HighPerformers,
		UnderPerformers: s.UnderPerformers,
		OnProbation:     s.OnProbation,
		AverageScore:    rate(s.AverageScore),
	}
}

type FundSourceDTO struct {
	Source string `json:"source"`
	Funds  int    `json:"funds"`
	Amount string `json:"amount"`
	Spent  string `json:"spent"`
}

type FundSummaryDTO struct {
	TotalCollected string          `json:"total_collected"`
	TotalSpent     string          `json:"total_spent"`
	Remaining      string          `json:"remaining"`
	UsageRate      float64         `json:"usage_rate"`
	BySource       []FundSourceDTO `json:"by_source"`
	ByAllocation   []TallyDTO      `json:"by_allocation"`
}

func toFundSummaryDTO(s transparency.FundSummary) FundSummaryDTO {
	sources := make([]FundSourceDTO, len(s.BySource))
	for i, g := range s.BySource {
		sources[i] = FundSourceDTO{Source: string(g.Source), Funds: g.Funds, Amount: g.Amount.String(), Spent: g.Spent.String()}
	}
	return FundSummaryDTO{
		TotalCollected: s.TotalCollected.String(),
		TotalSpent:     s.TotalSpent.String(),
		Remaining:      s.Remaining.String(),
		UsageRate:      rate(s.UsageRate),
		BySource:       sources,
		ByAllocation:   toTallies(s.ByAllocation),
	}
}

// =============================================================================
// PROJECTS
// =============================================================================

type FinancialsDTO struct {
	Budget      string  `json:"budget"`
	Spent       string  `json:"spent"`
	Remaining   string  `json:"remaining"`
	Utilization float64 `json:"utilization"`
	OverBudget  bool    `json:"over_budget"`
}

func toFinancialsDTO(f transparency.ProjectFinancials) FinancialsDTO {
	return FinancialsDTO{
		Budget:      f.Budget.String(),
		Spent:       f.Spent.String(),
		Remaining:   f.Remaining.String(),
		Utilization: rate(f.Utilization),
		OverBudget:  f.OverBudget,
	}
}

// ProjectItemDTO is one row of the project listing.
type ProjectItemDTO struct {
	transparency.Project
	Financials FinancialsDTO `json:"financials"`
}

type RefDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type ContractorRefDTO struct {
	RefDTO
	Blacklisted bool `json:"blacklisted"`
}

type MilestoneProgressDTO struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	Delayed        int     `json:"delayed"`
	SlippageDays   int     `json:"slippage_days"`
}

type AuditDTO struct {
	transparency.Audit
	FindingCounts    []TallyDTO `json:"finding_counts"`
	CriticalFindings int        `json:"critical_findings"`
}

type ProjectDetailDTO struct {
	Project      transparency.Project        `json:"project"`
	Financials   FinancialsDTO               `json:"financials"`
	Official     RefDTO                      `json:"official"`
	Contractor   ContractorRefDTO            `json:"contractor"`
	Loan         *transparency.Loan          `json:"loan,omitempty"`
	Milestones   []transparency.Milestone    `json:"milestones"`
	Progress     MilestoneProgressDTO        `json:"progress"`
	Transactions []transparency.Transaction  `json:"transactions"`
	Flags        []transparency.FlagReport   `json:"flags"`
	Audits       []AuditDTO                  `json:"audits"`
	Tenders      []transparency.Tender       `json:"tenders"`
	Funds        []transparency.TaxpayerFund `json:"funds"`
	ChangeLog    []transparency.ChangeLog    `json:"change_log"`
}

type FilterOptionsDTO struct {
	Counties []string `json:"counties"`
	Sectors  []string `json:"sectors"`
	Statuses []string `json:"statuses"`
}

// =============================================================================
// LOANS
// =============================================================================

type LoanItemDTO struct {
	transparency.Loan
	DisbursementRate float64 `json:"disbursement_rate"`
}

type RepaymentSummaryDTO struct {
	Principal        string                  `json:"principal"`
	Interest         string                  `json:"interest"`
	Total            string                  `json:"total"`
	Outstanding      string                  `json:"outstanding"`
	ProjectedBalance string                  `json:"projected_balance"`
	Next             *transparency.Repayment `json:"next,omitempty"`
	ByStatus         []TallyDTO              `json:"by_status"`
}

func toRepaymentSummaryDTO(s transparency.RepaymentSummary) RepaymentSummaryDTO {
	dto := RepaymentSummaryDTO{
		Principal:        s.Principal.String(),
		Interest:         s.Interest.String(),
		Total:            s.Total.String(),
		Outstanding:      s.Outstanding.String(),
		ProjectedBalance: s.ProjectedBalance.String(),
		ByStatus:         toTallies(s.ByStatus),
	}
	if next, ok := s.Next.Get(); ok {
		dto.Next = &next
	}
	return dto
}

type LoanDetailDTO struct {
	Loan             transparency.Loan      `json:"loan"`
	DisbursementRate float64                `json:"disbursement_rate"`
	Repayments       RepaymentSummaryDTO    `json:"repayments"`
	Projects         []transparency.Project `json:"projects"`
}

// =============================================================================
// OFFICIALS / TENDERS
// =============================================================================

type OfficialDTO struct {
	OfficialID  string                           `json:"official_id"`
	Name        string                           `json:"name"`
	User        *transparency.User               `json:"user,omitempty"`
	Projects    []transparency.Project           `json:"projects"`
	Budget      string                           `json:"budget"`
	Spent       string                           `json:"spent"`
	Utilization float64                          `json:"utilization"`
	Records     []transparency.PerformanceRecord `json:"records"`
	Latest      *transparency.PerformanceRecord  `json:"latest,omitempty"`
}

func toOfficialDTO(s transparency.OfficialSummary) OfficialDTO {
	dto := OfficialDTO{
		OfficialID:  string(s.OfficialID),
		Name:        UnknownOfficial,
		Projects:    s.Projects,
		Budget:      s.Budget.String(),
		Spent:       s.Spent.String(),
		Utilization: rate(s.Utilization),
		Records:     s.Records,
	}
	if u, ok := s.User.Get(); ok {
		dto.User = &u
		dto.Name = u.Name
	}
	if r, ok := s.Latest.Get(); ok {
		dto.Latest = &r
	}
	return dto
}

type TenderSummaryDTO struct {
	Bids         int     `json:"bids"`
	Accepted     int     `json:"accepted"`
	LowestBid    *string `json:"lowest_bid,omitempty"`
	AwardedBidID *string `json:"awarded_bid_id,omitempty"`
	Savings      string  `json:"savings"`
	SavingsRate  float64 `json:"savings_rate"`
}

func toTenderSummaryDTO(s transparency.TenderSummary) TenderSummaryDTO {
	dto := TenderSummaryDTO{
		Bids:        s.Bids,
		Accepted:    s.Accepted,
		Savings:     s.Savings.String(),
		SavingsRate: rate(s.SavingsRate),
	}
	if low, ok := s.LowestBid.Get(); ok {
		v := low.String()
		dto.LowestBid = &v
	}
	if b, ok := s.AwardedBid.Get(); ok {
		id := string(b.ID)
		dto.AwardedBidID = &id
	}
	return dto
}

type TenderDetailDTO struct {
	Tender  transparency.Tender        `json:"tender"`
	Bids    []transparency.Bid         `json:"bids"`
	Panel   []transparency.PanelMember `json:"panel"`
	Summary TenderSummaryDTO           `json:"summary"`
}

// =============================================================================
// INTEGRITY
// =============================================================================

// =============================================================================
// CONTRACTOR / FLAG DETAIL
// =============================================================================

type ContractorDetailDTO struct {
	Contractor transparency.Contractor `json:"contractor"`
	Projects   []transparency.Project  `json:"projects"`
	Bids       []transparency.Bid      `json:"bids"`
}

type FlagDetailDTO struct {
	Flag      transparency.FlagReport  `json:"flag"`
	Project   RefDTO                   `json:"project"`
	ChangeLog []transparency.ChangeLog `json:"change_log"`
}

type IssueDTO struct {
	Kind     string `json:"kind"`
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
	Message  string `json:"message"`
}

func toIssueDTOs(issues []transparency.Issue) []IssueDTO {
	out := make([]IssueDTO, len(issues))
	for i, is := range issues {
		out[i] = IssueDTO{Kind: string(is.Kind), Entity: string(is.Entity), EntityID: is.EntityID, Message: is.Message}
	}
	return out
}
