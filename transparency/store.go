/*
store.go - The entity store: every record, loaded once, never mutated

PURPOSE:
  Holds the full set of records per entity type as ordered sequences.
  Insertion order is definition order and is the only ordering any
  accessor or aggregate ever returns.

LIFECYCLE:
  1. A Dataset is decoded (embedded seed, JSON file, or SQLite snapshot)
  2. NewStore validates it and takes ownership
  3. The *Store is passed explicitly to everything that reads it

LOAD-TIME RULES (the only error path of the core):
  - every record has a non-empty id, unique within its entity type
  - enum fields hold a member of their set
  - project progress is within [0, 100]
  - money amounts are not negative

NOT ENFORCED (the data model permits these states):
  - referential integrity: a dangling FK resolves to "not found"
  - spent <= budget, disbursed <= amount
  - blacklisted contractors on projects, several accepted bids per tender
  See integrity.go for a report of such states.

CONCURRENCY:
  The store is never written after NewStore returns, so it is safe for
  concurrent readers without locking.

SEE ALSO:
  - relations.go: Relationship accessors
  - analytics.go: Aggregates
  - store/sqlite: Snapshot persistence of a Dataset
*/
package transparency

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/uwazi/transparency-engine/generic"
)

// Dataset is the serialized form of the entity store.
type Dataset struct {
	Users              []User              `json:"users"`
	Projects           []Project           `json:"projects"`
	Milestones         []Milestone         `json:"milestones"`
	Contractors        []Contractor        `json:"contractors"`
	Tenders            []Tender            `json:"tenders"`
	Bids               []Bid               `json:"bids"`
	Audits             []Audit             `json:"audits"`
	Transactions       []Transaction       `json:"transactions"`
	Flags              []FlagReport        `json:"flags"`
	PerformanceRecords []PerformanceRecord `json:"performance_records"`
	Loans              []Loan              `json:"loans"`
	TaxpayerFunds      []TaxpayerFund      `json:"taxpayer_funds"`
	PanelMembers       []PanelMember       `json:"panel_members"`
	ChangeLogs         []ChangeLog         `json:"change_logs"`
}

//go:embed seed/dataset.json
var builtinDataset []byte

// BuiltinDataset decodes the dataset compiled into the binary.
func BuiltinDataset() (Dataset, error) {
	return DecodeDataset(bytes.NewReader(builtinDataset))
}

// DecodeDataset reads a JSON dataset. Unknown keys are rejected so a typo in
// a hand-edited file does not silently drop a field.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}

// =============================================================================
// STORE
// =============================================================================

// Store is the read-only entity store.
type Store struct {
	ds Dataset
}

// NewStore validates ds and returns a store owning a private copy of it.
func NewStore(ds Dataset) (*Store, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &Store{ds: ds.clone()}, nil
}

// NewBuiltinStore is NewStore over the embedded dataset.
func NewBuiltinStore() (*Store, error) {
	ds, err := BuiltinDataset()
	if err != nil {
		return nil, err
	}
	return NewStore(ds)
}

// Dataset returns a copy of the store contents, e.g. for snapshotting.
func (s *Store) Dataset() Dataset { return s.ds.clone() }

func (s *Store) Users() []User                           { return slices.Clone(s.ds.Users) }
func (s *Store) Projects() []Project                     { return slices.Clone(s.ds.Projects) }
func (s *Store) Milestones() []Milestone                 { return slices.Clone(s.ds.Milestones) }
func (s *Store) Contractors() []Contractor               { return slices.Clone(s.ds.Contractors) }
func (s *Store) Tenders() []Tender                       { return slices.Clone(s.ds.Tenders) }
func (s *Store) Bids() []Bid                             { return slices.Clone(s.ds.Bids) }
func (s *Store) Audits() []Audit                         { return slices.Clone(s.ds.Audits) }
func (s *Store) Transactions() []Transaction             { return slices.Clone(s.ds.Transactions) }
func (s *Store) Flags() []FlagReport                     { return slices.Clone(s.ds.Flags) }
func (s *Store) PerformanceRecords() []PerformanceRecord { return slices.Clone(s.ds.PerformanceRecords) }
func (s *Store) Loans() []Loan                           { return slices.Clone(s.ds.Loans) }
func (s *Store) TaxpayerFunds() []TaxpayerFund           { return slices.Clone(s.ds.TaxpayerFunds) }
func (s *Store) PanelMembers() []PanelMember             { return slices.Clone(s.ds.PanelMembers) }
func (s *Store) ChangeLogs() []ChangeLog                 { return slices.Clone(s.ds.ChangeLogs) }

// clone copies every top-level slice. Nested slices (evidence refs, findings)
// are shared and must be treated as read-only by callers.
func (ds Dataset) clone() Dataset {
	return Dataset{
		Users:              nonNil(ds.Users),
		Projects:           nonNil(ds.Projects),
		Milestones:         nonNil(ds.Milestones),
		Contractors:        nonNil(ds.Contractors),
		Tenders:            nonNil(ds.Tenders),
		Bids:               nonNil(ds.Bids),
		Audits:             nonNil(ds.Audits),
		Transactions:       nonNil(ds.Transactions),
		Flags:              nonNil(ds.Flags),
		PerformanceRecords: nonNil(ds.PerformanceRecords),
		Loans:              nonNil(ds.Loans),
		TaxpayerFunds:      nonNil(ds.TaxpayerFunds),
		PanelMembers:       nonNil(ds.PanelMembers),
		ChangeLogs:         nonNil(ds.ChangeLogs),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return slices.Clone(items)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate applies the load-time rules and returns the first violation.
func (ds Dataset) Validate() error {
	checks := []func() error{
		ds.validateUsers, ds.validateProjects, ds.validateMilestones, ds.validateContractors,
		ds.validateTenders, ds.validateBids, ds.validateAudits, ds.validateTransactions,
		ds.validateFlags, ds.validatePerformance, ds.validateLoans, ds.validateFunds,
		ds.validatePanel, ds.validateChangeLogs,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	entity string
	seen   map[string]bool
}

func newValidator(entity string) *validator {
	return &validator{entity: entity, seen: make(map[string]bool)}
}

func (v *validator) id(id string) error {
	if id == "" {
		return &generic.DatasetError{Entity: v.entity, Field: "id", Reason: "is empty"}
	}
	if v.seen[id] {
		return &generic.DatasetError{Entity: v.entity, ID: id, Field: "id", Reason: "is duplicated"}
	}
	v.seen[id] = true
	return nil
}

func (v *validator) enum(id, field string, value fmt.Stringer, ok bool) error {
	if ok {
		return nil
	}
	return &generic.DatasetError{Entity: v.entity, ID: id, Field: field, Reason: fmt.Sprintf("has unknown value %q", value)}
}

func (v *validator) nonNegative(id, field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return &generic.DatasetError{Entity: v.entity, ID: id, Field: field, Reason: "is negative"}
	}
	return nil
}

// label adapts a string enum to fmt.Stringer for error messages.
type label string

func (l label) String() string { return string(l) }

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateUsers() error {
	v := newValidator("user")
	for _, u := range ds.Users {
		id := string(u.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "role", label(u.Role), u.Role.Valid()),
			v.enum(id, "verification_status", label(u.VerificationStatus), u.VerificationStatus.Valid()),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateProjects() error {
	v := newValidator("project")
	for _, p := range ds.Projects {
		id := string(p.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(p.Status), p.Status.Valid()),
			v.enum(id, "sector", label(p.Sector), p.Sector.Valid()),
			v.enum(id, "funding_type", label(p.FundingType), p.FundingType.Valid()),
			v.nonNegative(id, "budget", p.Budget),
			v.nonNegative(id, "spent", p.Spent),
		); err != nil {
			return err
		}
		if p.Progress < 0 || p.Progress > 100 {
			return &generic.DatasetError{Entity: "project", ID: id, Field: "progress", Reason: fmt.Sprintf("%d is outside [0,100]", p.Progress)}
		}
	}
	return nil
}

func (ds Dataset) validateMilestones() error {
	v := newValidator("milestone")
	for _, m := range ds.Milestones {
		id := string(m.ID)
		if err := firstErr(v.id(id), v.enum(id, "status", label(m.Status), m.Status.Valid())); err != nil {
			return err
		}
		if pct, ok := m.ProgressPercentage.Get(); ok && (pct < 0 || pct > 100) {
			return &generic.DatasetError{Entity: "milestone", ID: id, Field: "progress_percentage", Reason: fmt.Sprintf("%d is outside [0,100]", pct)}
		}
	}
	return nil
}

func (ds Dataset) validateContractors() error {
	v := newValidator("contractor")
	for _, c := range ds.Contractors {
		if err := v.id(string(c.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateTenders() error {
	v := newValidator("tender")
	for _, t := range ds.Tenders {
		id := string(t.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(t.Status), t.Status.Valid()),
			v.nonNegative(id, "estimated_value", t.EstimatedValue),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateBids() error {
	v := newValidator("bid")
	for _, b := range ds.Bids {
		id := string(b.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(b.Status), b.Status.Valid()),
			v.enum(id, "compliance_status", label(b.ComplianceStatus), b.ComplianceStatus.Valid()),
			v.nonNegative(id, "bid_amount", b.BidAmount),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateAudits() error {
	v := newValidator("audit")
	for _, a := range ds.Audits {
		id := string(a.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(a.Status), a.Status.Valid()),
			v.enum(id, "overall_rating", label(a.OverallRating), a.OverallRating.Valid()),
		); err != nil {
			return err
		}
		for _, f := range a.Findings {
			if err := firstErr(
				v.enum(id, "findings.type", label(f.Type), f.Type.Valid()),
				v.enum(id, "findings.severity", label(f.Severity), f.Severity.Valid()),
			); err != nil {
				return err
			}
		}
		for _, act := range a.ActionsTaken {
			if err := v.enum(id, "actions_taken.status", label(act.Status), act.Status.Valid()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ds Dataset) validateTransactions() error {
	v := newValidator("transaction")
	for _, t := range ds.Transactions {
		id := string(t.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "category", label(t.Category), t.Category.Valid()),
			v.enum(id, "approval_status", label(t.ApprovalStatus), t.ApprovalStatus.Valid()),
			v.nonNegative(id, "amount", t.Amount),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateFlags() error {
	v := newValidator("flag")
	for _, f := range ds.Flags {
		id := string(f.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(f.Status), f.Status.Valid()),
			v.enum(id, "category", label(f.Category), f.Category.Valid()),
			v.enum(id, "priority", label(f.Priority), f.Priority.Valid()),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validatePerformance() error {
	v := newValidator("performance")
	for _, r := range ds.PerformanceRecords {
		id := string(r.ID)
		if err := firstErr(v.id(id), v.enum(id, "action", label(r.Action), r.Action.Valid())); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateLoans() error {
	v := newValidator("loan")
	for _, l := range ds.Loans {
		id := string(l.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "status", label(l.Status), l.Status.Valid()),
			v.enum(id, "terms.payment_frequency", label(l.Terms.PaymentFrequency), l.Terms.PaymentFrequency.Valid()),
			v.nonNegative(id, "amount", l.Amount),
			v.nonNegative(id, "disbursed", l.Disbursed),
		); err != nil {
			return err
		}
		for _, r := range l.RepaymentSchedule {
			if err := v.enum(id, "repayment_schedule.status", label(r.Status), r.Status.Valid()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ds Dataset) validateFunds() error {
	v := newValidator("fund")
	for _, f := range ds.TaxpayerFunds {
		id := string(f.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "source", label(f.Source), f.Source.Valid()),
			v.enum(id, "collection_method", label(f.CollectionMethod), f.CollectionMethod.Valid()),
			v.enum(id, "allocation_status", label(f.AllocationStatus), f.AllocationStatus.Valid()),
			v.nonNegative(id, "amount", f.Amount),
		); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validatePanel() error {
	v := newValidator("panel_member")
	for _, m := range ds.PanelMembers {
		id := string(m.ID)
		if err := firstErr(v.id(id), v.enum(id, "status", label(m.Status), m.Status.Valid())); err != nil {
			return err
		}
	}
	return nil
}

func (ds Dataset) validateChangeLogs() error {
	v := newValidator("change_log")
	for _, c := range ds.ChangeLogs {
		id := string(c.ID)
		if err := firstErr(
			v.id(id),
			v.enum(id, "entity", label(c.Entity), c.Entity.Valid()),
			v.enum(id, "change.action", label(c.Change.Action), c.Change.Action.Valid()),
		); err != nil {
			return err
		}
	}
	return nil
}
