package transparency

import "github.com/uwazi/transparency-engine/generic"

// =============================================================================
// SINGLE LOOKUPS - (record, found)
// =============================================================================
//
// A false result means the id resolves to nothing. Callers render a fallback
// for it; it is never an error.

func (s *Store) UserByID(id UserID) (User, bool) {
	return generic.Find(s.ds.Users, func(u User) bool { return u.ID == id })
}

func (s *Store) ProjectByID(id ProjectID) (Project, bool) {
	return generic.Find(s.ds.Projects, func(p Project) bool { return p.ID == id })
}

func (s *Store) MilestoneByID(id MilestoneID) (Milestone, bool) {
	return generic.Find(s.ds.Milestones, func(m Milestone) bool { return m.ID == id })
}

func (s *Store) ContractorByID(id ContractorID) (Contractor, bool) {
	return generic.Find(s.ds.Contractors, func(c Contractor) bool { return c.ID == id })
}

func (s *Store) TenderByID(id TenderID) (Tender, bool) {
	return generic.Find(s.ds.Tenders, func(t Tender) bool { return t.ID == id })
}

func (s *Store) BidByID(id BidID) (Bid, bool) {
	return generic.Find(s.ds.Bids, func(b Bid) bool { return b.ID == id })
}

func (s *Store) LoanByID(id LoanID) (Loan, bool) {
	return generic.Find(s.ds.Loans, func(l Loan) bool { return l.ID == id })
}

func (s *Store) AuditByID(id AuditID) (Audit, bool) {
	return generic.Find(s.ds.Audits, func(a Audit) bool { return a.ID == id })
}

func (s *Store) FlagByID(id FlagID) (FlagReport, bool) {
	return generic.Find(s.ds.Flags, func(f FlagReport) bool { return f.ID == id })
}

func (s *Store) FundByID(id FundID) (TaxpayerFund, bool) {
	return generic.Find(s.ds.TaxpayerFunds, func(f TaxpayerFund) bool { return f.ID == id })
}

// =============================================================================
// OPTIONAL FOREIGN KEYS
// =============================================================================
//
// An absent reference and a dangling one both come back as not found.

func (s *Store) ProjectOfficial(p Project) (User, bool) {
	return s.UserByID(p.AssignedOfficialID)
}

func (s *Store) ProjectLoan(p Project) (Loan, bool) {
	id, ok := p.LoanID.Get()
	if !ok {
		return Loan{}, false
	}
	return s.LoanByID(id)
}

func (s *Store) ProjectContractor(p Project) (Contractor, bool) {
	id, ok := p.ContractorID.Get()
	if !ok {
		return Contractor{}, false
	}
	return s.ContractorByID(id)
}

func (s *Store) ProjectTender(p Project) (Tender, bool) {
	id, ok := p.TenderID.Get()
	if !ok {
		return Tender{}, false
	}
	return s.TenderByID(id)
}

// AwardedBid resolves the tender's awarded bid. A bid id that belongs to a
// different tender is returned as is; Inspect reports that state.
func (s *Store) AwardedBid(t Tender) (Bid, bool) {
	id, ok := t.AwardedBidID.Get()
	if !ok {
		return Bid{}, false
	}
	return s.BidByID(id)
}

func (s *Store) FundProject(f TaxpayerFund) (Project, bool) {
	id, ok := f.AllocatedToProjectID.Get()
	if !ok {
		return Project{}, false
	}
	return s.ProjectByID(id)
}

// =============================================================================
// FAN-OUT LOOKUPS - children of a parent, possibly empty, never nil
// =============================================================================

func (s *Store) ProjectsByOfficial(id UserID) []Project {
	return generic.Where(s.ds.Projects, func(p Project) bool { return p.AssignedOfficialID == id })
}

func (s *Store) ProjectsByContractor(id ContractorID) []Project {
	return generic.Where(s.ds.Projects, func(p Project) bool {
		cid, ok := p.ContractorID.Get()
		return ok && cid == id
	})
}

func (s *Store) MilestonesByProject(id ProjectID) []Milestone {
	return generic.Where(s.ds.Milestones, func(m Milestone) bool { return m.ProjectID == id })
}

func (s *Store) TransactionsByProject(id ProjectID) []Transaction {
	return generic.Where(s.ds.Transactions, func(t Transaction) bool { return t.ProjectID == id })
}

func (s *Store) FlagsByProject(id ProjectID) []FlagReport {
	return generic.Where(s.ds.Flags, func(f FlagReport) bool { return f.ProjectID == id })
}

func (s *Store) AuditsByProject(id ProjectID) []Audit {
	return generic.Where(s.ds.Audits, func(a Audit) bool { return a.ProjectID == id })
}

func (s *Store) TendersByProject(id ProjectID) []Tender {
	return generic.Where(s.ds.Tenders, func(t Tender) bool { return t.ProjectID == id })
}

func (s *Store) BidsByTender(id TenderID) []Bid {
	return generic.Where(s.ds.Bids, func(b Bid) bool { return b.TenderID == id })
}

func (s *Store) BidsByContractor(id ContractorID) []Bid {
	return generic.Where(s.ds.Bids, func(b Bid) bool { return b.ContractorID == id })
}

func (s *Store) PerformanceByOfficial(id UserID) []PerformanceRecord {
	return generic.Where(s.ds.PerformanceRecords, func(r PerformanceRecord) bool { return r.OfficialID == id })
}

func (s *Store) FundsByProject(id ProjectID) []TaxpayerFund {
	return generic.Where(s.ds.TaxpayerFunds, func(f TaxpayerFund) bool {
		pid, ok := f.AllocatedToProjectID.Get()
		return ok && pid == id
	})
}

func (s *Store) PanelMembersByPanel(id PanelID) []PanelMember {
	return generic.Where(s.ds.PanelMembers, func(m PanelMember) bool { return m.PanelID == id })
}

// ChangeLogsForEntity returns the audit trail of one record.
func (s *Store) ChangeLogsForEntity(entity EntityType, id string) []ChangeLog {
	return generic.Where(s.ds.ChangeLogs, func(c ChangeLog) bool { return c.Entity == entity && c.EntityID == id })
}

// LoanProjects resolves linked_projects in store order. Ids that match no
// project are dropped.
func (s *Store) LoanProjects(l Loan) []Project {
	linked := make(map[ProjectID]bool, len(l.LinkedProjects))
	for _, id := range l.LinkedProjects {
		linked[id] = true
	}
	return generic.Where(s.ds.Projects, func(p Project) bool { return linked[p.ID] })
}
