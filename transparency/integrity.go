package transparency

import (
	"fmt"
)

// =============================================================================
// INTEGRITY REPORT - states the model permits but a reviewer should see
// =============================================================================
//
// Nothing here is enforced: the store accepts every one of these states and
// the accessors resolve dangling references to "not found". Inspect only
// lists them.

type IssueKind string

const (
	IssueBlacklistedContractor IssueKind = "blacklisted_contractor"
	IssueMultipleAcceptedBids  IssueKind = "multiple_accepted_bids"
	IssueAwardMismatch         IssueKind = "award_mismatch"
	IssueOverspend             IssueKind = "overspend"
	IssueOverdisbursement      IssueKind = "overdisbursement"
	IssueDanglingReference     IssueKind = "dangling_reference"
)

type Issue struct {
	Kind     IssueKind
	Entity   EntityType
	EntityID string
	Message  string
}

// Inspect walks the store entity by entity, in store order.
func Inspect(s *Store) []Issue {
	var issues []Issue
	add := func(kind IssueKind, entity EntityType, id string, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, Entity: entity, EntityID: id, Message: fmt.Sprintf(format, args...)})
	}

	for _, p := range s.ds.Projects {
		id := string(p.ID)
		if _, ok := s.ProjectOfficial(p); !ok {
			add(IssueDanglingReference, EntityProject, id, "assigned official %s does not exist", p.AssignedOfficialID)
		}
		if lid, ok := p.LoanID.Get(); ok {
			if _, found := s.LoanByID(lid); !found {
				add(IssueDanglingReference, EntityProject, id, "loan %s does not exist", lid)
			}
		}
		if cid, ok := p.ContractorID.Get(); ok {
			c, found := s.ContractorByID(cid)
			if !found {
				add(IssueDanglingReference, EntityProject, id, "contractor %s does not exist", cid)
			} else if c.Blacklisted {
				add(IssueBlacklistedContractor, EntityProject, id, "contractor %s is blacklisted", cid)
			}
		}
		if tid, ok := p.TenderID.Get(); ok {
			if _, found := s.TenderByID(tid); !found {
				add(IssueDanglingReference, EntityProject, id, "tender %s does not exist", tid)
			}
		}
		if p.Spent.GreaterThan(p.Budget) {
			add(IssueOverspend, EntityProject, id, "spent %s exceeds budget %s", p.Spent, p.Budget)
		}
	}

	projectExists := func(id ProjectID) bool {
		_, ok := s.ProjectByID(id)
		return ok
	}
	for _, m := range s.ds.Milestones {
		if !projectExists(m.ProjectID) {
			add(IssueDanglingReference, EntityMilestone, string(m.ID), "project %s does not exist", m.ProjectID)
		}
	}

	for _, t := range s.ds.Tenders {
		id := string(t.ID)
		if !projectExists(t.ProjectID) {
			add(IssueDanglingReference, EntityTender, id, "project %s does not exist", t.ProjectID)
		}
		bids := s.BidsByTender(t.ID)
		accepted := 0
		for _, b := range bids {
			if b.Status == BidAccepted {
				accepted++
			}
		}
		if accepted > 1 {
			add(IssueMultipleAcceptedBids, EntityTender, id, "%d bids are accepted", accepted)
		}
		if bid, ok := t.AwardedBidID.Get(); ok {
			b, found := s.BidByID(bid)
			switch {
			case !found:
				add(IssueAwardMismatch, EntityTender, id, "awarded bid %s does not exist", bid)
			case b.TenderID != t.ID:
				add(IssueAwardMismatch, EntityTender, id, "awarded bid %s belongs to tender %s", bid, b.TenderID)
			}
		}
	}

	for _, a := range s.ds.Audits {
		if !projectExists(a.ProjectID) {
			add(IssueDanglingReference, EntityAudit, string(a.ID), "project %s does not exist", a.ProjectID)
		}
	}
	for _, t := range s.ds.Transactions {
		if !projectExists(t.ProjectID) {
			add(IssueDanglingReference, EntityTransaction, string(t.ID), "project %s does not exist", t.ProjectID)
		}
	}
	for _, f := range s.ds.Flags {
		if !projectExists(f.ProjectID) {
			add(IssueDanglingReference, EntityFlag, string(f.ID), "project %s does not exist", f.ProjectID)
		}
	}

	for _, l := range s.ds.Loans {
		id := string(l.ID)
		if l.Disbursed.GreaterThan(l.Amount) {
			add(IssueOverdisbursement, EntityLoan, id, "disbursed %s exceeds amount %s", l.Disbursed, l.Amount)
		}
		for _, pid := range l.LinkedProjects {
			if !projectExists(pid) {
				add(IssueDanglingReference, EntityLoan, id, "linked project %s does not exist", pid)
			}
		}
	}

	if issues == nil {
		return []Issue{}
	}
	return issues
}
