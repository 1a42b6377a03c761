// Package transparency implements the government-transparency domain: the
// fourteen record types, the immutable entity store, relationship accessors,
// dashboard aggregates and filter predicates.
package transparency

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/uwazi/transparency-engine/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	UserID        string
	ProjectID     string
	MilestoneID   string
	ContractorID  string
	TenderID      string
	BidID         string
	AuditID       string
	TransactionID string
	FlagID        string
	RecordID      string
	LoanID        string
	FundID        string
	PanelID       string
	MemberID      string
	LogID         string
)

// AnonymousReporter is the user_id of a flag filed without an account.
const AnonymousReporter UserID = "anonymous"

// =============================================================================
// USER
// =============================================================================

type Role string

const (
	RoleCitizen     Role = "citizen"
	RoleOfficial    Role = "official"
	RoleAuditor     Role = "auditor"
	RoleContractor  Role = "contractor"
	RolePanelMember Role = "panel_member"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficial, RoleAuditor, RoleContractor, RolePanelMember, RoleAdmin:
		return true
	}
	return false
}

type Verification string

const (
	VerificationVerified Verification = "verified"
	VerificationPending  Verification = "pending"
	VerificationRejected Verification = "rejected"
)

func (v Verification) Valid() bool {
	return v == VerificationVerified || v == VerificationPending || v == VerificationRejected
}

type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type User struct {
	ID                 UserID                        `json:"user_id"`
	Name               string                        `json:"name"`
	Role               Role                          `json:"role"`
	County             string                        `json:"county"`
	AuthID             string                        `json:"auth_id"`
	VerificationStatus Verification                  `json:"verification_status"`
	CreatedAt          generic.TimePoint             `json:"created_at"`
	ContactInfo        generic.Optional[ContactInfo] `json:"contact_info,omitzero"`
}

// =============================================================================
// PROJECT
// =============================================================================

type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
	StatusSuspended  ProjectStatus = "Suspended"
	StatusDelayed    ProjectStatus = "Delayed"
	StatusCancelled  ProjectStatus = "Cancelled"
)

// ProjectStatuses lists every project status in display order.
var ProjectStatuses = []ProjectStatus{
	StatusPlanning, StatusInProgress, StatusCompleted, StatusSuspended, StatusDelayed, StatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Sector string

const (
	SectorHealth         Sector = "Health"
	SectorEducation      Sector = "Education"
	SectorInfrastructure Sector = "Infrastructure"
	SectorWater          Sector = "Water"
	SectorAgriculture    Sector = "Agriculture"
	SectorSecurity       Sector = "Security"
	SectorHousing        Sector = "Housing"
	SectorEnergy         Sector = "Energy"
)

var Sectors = []Sector{
	SectorHealth, SectorEducation, SectorInfrastructure, SectorWater,
	SectorAgriculture, SectorSecurity, SectorHousing, SectorEnergy,
}

// Valid accepts the blank sector too: it is grouped under "Unknown".
func (s Sector) Valid() bool {
	if s == "" {
		return true
	}
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

type FundingType string

const (
	FundingBudget             FundingType = "Budget"
	FundingLoan               FundingType = "Loan"
	FundingGrant              FundingType = "Grant"
	FundingPPP                FundingType = "PPP"
	FundingDevelopmentPartner FundingType = "Development Partner"
)

func (f FundingType) Valid() bool {
	switch f {
	case FundingBudget, FundingLoan, FundingGrant, FundingPPP, FundingDevelopmentPartner:
		return true
	}
	return false
}

type Project struct {
	ID                 ProjectID                           `json:"project_id"`
	Title              string                              `json:"title"`
	County             string                              `json:"county"`
	Ward               string                              `json:"ward"`
	Sector             Sector                              `json:"sector"`
	Description        string                              `json:"description"`
	StartDate          generic.TimePoint                   `json:"start_date"`
	PlannedEnd         generic.TimePoint                   `json:"planned_end"`
	ActualEnd          generic.Optional[generic.TimePoint] `json:"actual_end,omitzero"`
	Status             ProjectStatus                       `json:"status"`
	FundingType        FundingType                         `json:"funding_type"`
	LoanID             generic.Optional[LoanID]            `json:"loan_id,omitzero"`
	AssignedOfficialID UserID                              `json:"assigned_official_id"`
	CreatedAt          generic.TimePoint                   `json:"created_at"`
	UpdatedAt          generic.TimePoint                   `json:"updated_at"`
	Budget             decimal.Decimal                     `json:"budget"`
	Spent              decimal.Decimal                     `json:"spent"`
	Progress           int                                 `json:"progress"`
	Image              generic.Optional[string]            `json:"image,omitzero"`
	ContractorID       generic.Optional[ContractorID]      `json:"contractor_id,omitzero"`
	TenderID           generic.Optional[TenderID]          `json:"tender_id,omitzero"`
}

// =============================================================================
// MILESTONE
// =============================================================================

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneDelayed    MilestoneStatus = "delayed"
	MilestoneCancelled  MilestoneStatus = "cancelled"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestoneDelayed, MilestoneCancelled:
		return true
	}
	return false
}

type Milestone struct {
	ID                 MilestoneID                         `json:"milestone_id"`
	ProjectID          ProjectID                           `json:"project_id"`
	Title              string                              `json:"title"`
	PlannedStart       generic.TimePoint                   `json:"planned_start"`
	PlannedEnd         generic.TimePoint                   `json:"planned_end"`
	ActualStart        generic.Optional[generic.TimePoint] `json:"actual_start,omitzero"`
	ActualEnd          generic.Optional[generic.TimePoint] `json:"actual_end,omitzero"`
	EvidenceRefs       []string                            `json:"evidence_refs"`
	Status             MilestoneStatus                     `json:"status"`
	Description        generic.Optional[string]            `json:"description,omitzero"`
	ProgressPercentage generic.Optional[int]               `json:"progress_percentage,omitzero"`
}

// =============================================================================
// CONTRACTOR, TENDER, BID
// =============================================================================

type ContractorContact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Contractor struct {
	ID                ContractorID      `json:"contractor_id"`
	Name              string            `json:"name"`
	CompanyRegNo      string            `json:"company_reg_no"`
	Contact           ContractorContact `json:"contact"`
	Blacklisted       bool              `json:"blacklisted_flag"`
	Specializations   []string          `json:"specializations"`
	PerformanceRating decimal.Decimal   `json:"performance_rating"`
	ProjectsCompleted int               `json:"projects_completed"`
	EstablishedYear   int               `json:"established_year"`
}

type TenderStatus string

const (
	TenderOpen      TenderStatus = "open"
	TenderClosed    TenderStatus = "closed"
	TenderAwarded   TenderStatus = "awarded"
	TenderCancelled TenderStatus = "cancelled"
)

func (s TenderStatus) Valid() bool {
	return s == TenderOpen || s == TenderClosed || s == TenderAwarded || s == TenderCancelled
}

type Tender struct {
	ID             TenderID                `json:"tender_id"`
	ProjectID      ProjectID               `json:"project_id"`
	PublishedDate  generic.TimePoint       `json:"published_date"`
	ClosingDate    generic.TimePoint       `json:"closing_date"`
	DocsRef        []string                `json:"docs_ref"`
	PanelID        PanelID                 `json:"panel_id"`
	Title          string                  `json:"title"`
	EstimatedValue decimal.Decimal         `json:"estimated_value"`
	Requirements   []string                `json:"requirements"`
	Status         TenderStatus            `json:"status"`
	AwardedBidID   generic.Optional[BidID] `json:"awarded_bid_id,omitzero"`
}

type BidStatus string

const (
	BidSubmitted   BidStatus = "submitted"
	BidUnderReview BidStatus = "under_review"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
	BidWithdrawn   BidStatus = "withdrawn"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidSubmitted, BidUnderReview, BidAccepted, BidRejected, BidWithdrawn:
		return true
	}
	return false
}

type Compliance string

const (
	Compliant     Compliance = "compliant"
	NonCompliant  Compliance = "non_compliant"
	PendingReview Compliance = "pending_review"
)

func (c Compliance) Valid() bool {
	return c == Compliant || c == NonCompliant || c == PendingReview
}

type Bid struct {
	ID               BidID                 `json:"bid_id"`
	TenderID         TenderID              `json:"tender_id"`
	ContractorID     ContractorID          `json:"contractor_id"`
	BidAmount        decimal.Decimal       `json:"bid_amount"`
	DocumentsRef     []string              `json:"documents_ref"`
	Score            int                   `json:"score"`
	Status           BidStatus             `json:"status"`
	SubmittedDate    generic.TimePoint     `json:"submitted_date"`
	TechnicalScore   generic.Optional[int] `json:"technical_score,omitzero"`
	FinancialScore   generic.Optional[int] `json:"financial_score,omitzero"`
	ComplianceStatus Compliance            `json:"compliance_status"`
}

// =============================================================================
// AUDIT
// =============================================================================

type FindingType string

const (
	FindingFinancial  FindingType = "financial"
	FindingTechnical  FindingType = "technical"
	FindingCompliance FindingType = "compliance"
	FindingQuality    FindingType = "quality"
	FindingSafety     FindingType = "safety"
)

func (t FindingType) Valid() bool {
	switch t {
	case FindingFinancial, FindingTechnical, FindingCompliance, FindingQuality, FindingSafety:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

type AuditStatus string

const (
	AuditScheduled        AuditStatus = "scheduled"
	AuditInProgress       AuditStatus = "in_progress"
	AuditCompleted        AuditStatus = "completed"
	AuditFollowUpRequired AuditStatus = "follow_up_required"
)

func (s AuditStatus) Valid() bool {
	switch s {
	case AuditScheduled, AuditInProgress, AuditCompleted, AuditFollowUpRequired:
		return true
	}
	return false
}

type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingSatisfactory     Rating = "satisfactory"
	RatingNeedsImprovement Rating = "needs_improvement"
	RatingUnsatisfactory   Rating = "unsatisfactory"
)

func (r Rating) Valid() bool {
	switch r {
	case RatingExcellent, RatingGood, RatingSatisfactory, RatingNeedsImprovement, RatingUnsatisfactory:
		return true
	}
	return false
}

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
)

func (s ActionStatus) Valid() bool {
	return s == ActionPending || s == ActionInProgress || s == ActionCompleted
}

type Finding struct {
	ID          string      `json:"id"`
	Type        FindingType `json:"type"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	Evidence    []string    `json:"evidence"`
}

type AuditAction struct {
	Action           string            `json:"action"`
	Date             generic.TimePoint `json:"date"`
	ResponsibleParty string            `json:"responsible_party"`
	Status           ActionStatus      `json:"status"`
}

type Audit struct {
	ID            AuditID           `json:"audit_id"`
	ProjectID     ProjectID         `json:"project_id"`
	Quarter       string            `json:"quarter"`
	Findings      []Finding         `json:"findings"`
	Status        AuditStatus       `json:"status"`
	ActionsTaken  []AuditAction     `json:"actions_taken"`
	AuditorID     UserID            `json:"auditor_id"`
	AuditDate     generic.TimePoint `json:"audit_date"`
	OverallRating Rating            `json:"overall_rating"`
}

// =============================================================================
// TRANSACTION
// =============================================================================

type TxCategory string

const (
	TxMaterials TxCategory = "materials"
	TxLabor     TxCategory = "labor"
	TxEquipment TxCategory = "equipment"
	TxServices  TxCategory = "services"
	TxOverhead  TxCategory = "overhead"
	TxOther     TxCategory = "other"
)

func (c TxCategory) Valid() bool {
	switch c {
	case TxMaterials, TxLabor, TxEquipment, TxServices, TxOverhead, TxOther:
		return true
	}
	return false
}

type Approval string

const (
	ApprovalApproved Approval = "approved"
	ApprovalPending  Approval = "pending"
	ApprovalRejected Approval = "rejected"
)

func (a Approval) Valid() bool {
	return a == ApprovalApproved || a == ApprovalPending || a == ApprovalRejected
}

type Transaction struct {
	ID             TransactionID            `json:"tx_id"`
	ProjectID      ProjectID                `json:"project_id"`
	Amount         decimal.Decimal          `json:"amount"`
	Recipient      string                   `json:"recipient"`
	InvoiceRef     string                   `json:"invoice_ref"`
	Date           generic.TimePoint        `json:"date"`
	PaymentProof   []string                 `json:"payment_proof"`
	Description    string                   `json:"description"`
	Category       TxCategory               `json:"category"`
	ApprovalStatus Approval                 `json:"approval_status"`
	ApprovedBy     generic.Optional[UserID] `json:"approved_by,omitzero"`
}

// =============================================================================
// FLAG REPORT
// =============================================================================

type FlagStatus string

const (
	FlagOpen          FlagStatus = "open"
	FlagInvestigating FlagStatus = "investigating"
	FlagResolved      FlagStatus = "resolved"
	FlagRejected      FlagStatus = "rejected"
	FlagEscalated     FlagStatus = "escalated"
)

var FlagStatuses = []FlagStatus{FlagOpen, FlagInvestigating, FlagResolved, FlagRejected, FlagEscalated}

func (s FlagStatus) Valid() bool {
	for _, known := range FlagStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type FlagCategory string

const (
	FlagQuality       FlagCategory = "quality"
	FlagCorruption    FlagCategory = "corruption"
	FlagDelay         FlagCategory = "delay"
	FlagSafety        FlagCategory = "safety"
	FlagEnvironmental FlagCategory = "environmental"
	FlagFinancial     FlagCategory = "financial"
	FlagOther         FlagCategory = "other"
)

var FlagCategories = []FlagCategory{
	FlagQuality, FlagCorruption, FlagDelay, FlagSafety, FlagEnvironmental, FlagFinancial, FlagOther,
}

func (c FlagCategory) Valid() bool {
	for _, known := range FlagCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

type Geotag struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type Escalation struct {
	Level       int               `json:"level"`
	Date        generic.TimePoint `json:"date"`
	EscalatedTo string            `json:"escalated_to"`
	Reason      string            `json:"reason"`
}

type FlagReport struct {
	ID           FlagID                              `json:"flag_id"`
	ProjectID    ProjectID                           `json:"project_id"`
	UserID       UserID                              `json:"user_id"`
	Description  string                              `json:"description"`
	EvidenceRefs []string                            `json:"evidence_refs"`
	Geotag       generic.Optional[Geotag]            `json:"geotag,omitzero"`
	Status       FlagStatus                          `json:"status"`
	Escalations  []Escalation                        `json:"escalations"`
	Category     FlagCategory                        `json:"category"`
	Priority     Priority                            `json:"priority"`
	CreatedAt    generic.TimePoint                   `json:"created_at"`
	ResolvedAt   generic.Optional[generic.TimePoint] `json:"resolved_at,omitzero"`
}

// Anonymous reports whether the flag was filed without an account.
func (f FlagReport) Anonymous() bool { return f.UserID == AnonymousReporter }

// =============================================================================
// PERFORMANCE RECORD
// =============================================================================

type PerformanceAction string

const (
	ActionContinue           PerformanceAction = "continue"
	ActionImprovementPlan    PerformanceAction = "improvement_plan"
	ActionProbation          PerformanceAction = "probation"
	ActionRecommendedRemoval PerformanceAction = "recommended_removal"
)

func (a PerformanceAction) Valid() bool {
	switch a {
	case ActionContinue, ActionImprovementPlan, ActionProbation, ActionRecommendedRemoval:
		return true
	}
	return false
}

type PerformanceMetrics struct {
	ProjectsOnTime      int `json:"projects_on_time"`
	ProjectsOnBudget    int `json:"projects_on_budget"`
	CitizenSatisfaction int `json:"citizen_satisfaction"`
	TransparencyScore   int `json:"transparency_score"`
	ResponsivenessScore int `json:"responsiveness_score"`
}

type PerformanceRecord struct {
	ID             RecordID                 `json:"record_id"`
	OfficialID     UserID                   `json:"official_id"`
	ProjectIDs     []ProjectID              `json:"project_ids"`
	Quarter        string                   `json:"quarter"`
	Metrics        PerformanceMetrics       `json:"metrics"`
	Score          int                      `json:"score"`
	Action         PerformanceAction        `json:"action"`
	EvaluationDate generic.TimePoint        `json:"evaluation_date"`
	EvaluatorID    UserID                   `json:"evaluator_id"`
	Comments       generic.Optional[string] `json:"comments,omitzero"`
}

// =============================================================================
// LOAN
// =============================================================================

type LoanStatus string

const (
	LoanApproved   LoanStatus = "approved"
	LoanDisbursing LoanStatus = "disbursing"
	LoanActive     LoanStatus = "active"
	LoanCompleted  LoanStatus = "completed"
	LoanDefaulted  LoanStatus = "defaulted"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanApproved, LoanDisbursing, LoanActive, LoanCompleted, LoanDefaulted:
		return true
	}
	return false
}

type PaymentFrequency string

const (
	PayMonthly    PaymentFrequency = "monthly"
	PayQuarterly  PaymentFrequency = "quarterly"
	PaySemiAnnual PaymentFrequency = "semi_annual"
	PayAnnual     PaymentFrequency = "annual"
)

func (f PaymentFrequency) Valid() bool {
	return f == PayMonthly || f == PayQuarterly || f == PaySemiAnnual || f == PayAnnual
}

type RepaymentStatus string

const (
	RepaymentUpcoming RepaymentStatus = "upcoming"
	RepaymentPaid     RepaymentStatus = "paid"
	RepaymentOverdue  RepaymentStatus = "overdue"
)

var RepaymentStatuses = []RepaymentStatus{RepaymentUpcoming, RepaymentPaid, RepaymentOverdue}

func (s RepaymentStatus) Valid() bool {
	return s == RepaymentUpcoming || s == RepaymentPaid || s == RepaymentOverdue
}

type LoanTerms struct {
	InterestRate      string                `json:"interest_rate"`
	DurationYears     int                   `json:"duration_years"`
	GracePeriodMonths generic.Optional[int] `json:"grace_period_months,omitzero"`
	PaymentFrequency  PaymentFrequency      `json:"payment_frequency"`
}

type Repayment struct {
	PaymentDate generic.TimePoint `json:"payment_date"`
	Principal   decimal.Decimal   `json:"principal"`
	Interest    decimal.Decimal   `json:"interest"`
	Balance     decimal.Decimal   `json:"balance"`
	Status      RepaymentStatus   `json:"status"`
}

type Loan struct {
	ID                LoanID            `json:"loan_id"`
	Lender            string            `json:"lender"`
	Amount            decimal.Decimal   `json:"amount"`
	Purpose           string            `json:"purpose"`
	Terms             LoanTerms         `json:"terms"`
	RepaymentSchedule []Repayment       `json:"repayment_schedule"`
	LinkedProjects    []ProjectID       `json:"linked_projects"`
	Disbursed         decimal.Decimal   `json:"disbursed"`
	Status            LoanStatus        `json:"status"`
	SignedDate        generic.TimePoint `json:"signed_date"`
	FirstDisbursement generic.TimePoint `json:"first_disbursement"`
}

// =============================================================================
// TAXPAYER FUND
// =============================================================================

type FundSource string

const (
	SourceIncomeTax   FundSource = "income_tax"
	SourceVAT         FundSource = "vat"
	SourceExciseDuty  FundSource = "excise_duty"
	SourceImportDuty  FundSource = "import_duty"
	SourceCountyRates FundSource = "county_rates"
	SourceOther       FundSource = "other"
)

func (s FundSource) Valid() bool {
	switch s {
	case SourceIncomeTax, SourceVAT, SourceExciseDuty, SourceImportDuty, SourceCountyRates, SourceOther:
		return true
	}
	return false
}

type CollectionMethod string

const (
	CollectedKRA         CollectionMethod = "kra"
	CollectedCounty      CollectionMethod = "county"
	CollectedParastatals CollectionMethod = "parastatals"
	CollectedOther       CollectionMethod = "other"
)

func (m CollectionMethod) Valid() bool {
	return m == CollectedKRA || m == CollectedCounty || m == CollectedParastatals || m == CollectedOther
}

type AllocationStatus string

const (
	Allocated   AllocationStatus = "allocated"
	Unallocated AllocationStatus = "unallocated"
	Reserved    AllocationStatus = "reserved"
)

var AllocationStatuses = []AllocationStatus{Allocated, Unallocated, Reserved}

func (s AllocationStatus) Valid() bool {
	return s == Allocated || s == Unallocated || s == Reserved
}

type TaxpayerFund struct {
	ID                   FundID                      `json:"fund_id"`
	Source               FundSource                  `json:"source"`
	Amount               decimal.Decimal             `json:"amount"`
	AllocatedToProjectID generic.Optional[ProjectID] `json:"allocated_to_project_id,omitzero"`
	DateCollected        generic.TimePoint           `json:"date_collected"`
	UsagePurpose         string                      `json:"usage_purpose"`
	SpentAmount          decimal.Decimal             `json:"spent_amount"`
	RemainingBalance     decimal.Decimal             `json:"remaining_balance"`
	FiscalYear           string                      `json:"fiscal_year"`
	CollectionMethod     CollectionMethod            `json:"collection_method"`
	AllocationStatus     AllocationStatus            `json:"allocation_status"`
}

// =============================================================================
// PANEL MEMBER
// =============================================================================

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
)

func (s MemberStatus) Valid() bool {
	return s == MemberActive || s == MemberInactive || s == MemberSuspended
}

type PanelMember struct {
	PanelID              PanelID           `json:"panel_id"`
	ID                   MemberID          `json:"member_id"`
	Name                 string            `json:"member_name"`
	Expertise            []string          `json:"expertise"`
	AppointedBy          string            `json:"appointed_by"`
	AppointmentDate      generic.TimePoint `json:"appointment_date"`
	TermEndDate          generic.TimePoint `json:"term_end_date"`
	Status               MemberStatus      `json:"status"`
	ConflictsOfInterest  []string          `json:"conflicts_of_interest"`
	EvaluationsCompleted int               `json:"evaluations_completed"`
}

// =============================================================================
// CHANGE LOG - append-only audit trail over any entity
// =============================================================================

// EntityType identifies which kind of record a ChangeLog entry points at.
type EntityType string

const (
	EntityUser        EntityType = "user"
	EntityProject     EntityType = "project"
	EntityMilestone   EntityType = "milestone"
	EntityContractor  EntityType = "contractor"
	EntityTender      EntityType = "tender"
	EntityBid         EntityType = "bid"
	EntityAudit       EntityType = "audit"
	EntityTransaction EntityType = "transaction"
	EntityFlag        EntityType = "flag"
	EntityPerformance EntityType = "performance"
	EntityLoan        EntityType = "loan"
	EntityFund        EntityType = "fund"
	EntityPanel       EntityType = "panel"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityUser, EntityProject, EntityMilestone, EntityContractor, EntityTender, EntityBid,
		EntityAudit, EntityTransaction, EntityFlag, EntityPerformance, EntityLoan, EntityFund, EntityPanel:
		return true
	}
	return false
}

type ChangeAction string

const (
	ChangeCreate       ChangeAction = "create"
	ChangeUpdate       ChangeAction = "update"
	ChangeDelete       ChangeAction = "delete"
	ChangeStatusChange ChangeAction = "status_change"
)

func (a ChangeAction) Valid() bool {
	return a == ChangeCreate || a == ChangeUpdate || a == ChangeDelete || a == ChangeStatusChange
}

type Change struct {
	Action   ChangeAction                      `json:"action"`
	Field    generic.Optional[string]          `json:"field,omitzero"`
	OldValue generic.Optional[json.RawMessage] `json:"old_value,omitzero"`
	NewValue generic.Optional[json.RawMessage] `json:"new_value,omitzero"`
	Reason   generic.Optional[string]          `json:"reason,omitzero"`
}

type ChangeLog struct {
	ID        LogID                    `json:"log_id"`
	Entity    EntityType               `json:"entity"`
	EntityID  string                   `json:"entity_id"`
	Change    Change                   `json:"change"`
	Timestamp generic.TimePoint        `json:"timestamp"`
	UserID    UserID                   `json:"user_id"`
	UserRole  string                   `json:"user_role"`
	Hash      string                   `json:"hash"`
	IPAddress generic.Optional[string] `json:"ip_address,omitzero"`
	UserAgent generic.Optional[string] `json:"user_agent,omitzero"`
}
