/*
handlers.go - HTTP API handlers for the transparency dashboards

PURPOSE:
  Exposes the entity store and its aggregates via a read-only REST API.
  Handles HTTP request/response and JSON serialization; every number comes
  from transparency/analytics.go.

ENDPOINTS:
  Aggregates:
    GET /api/summary                   Overview figures
    GET /api/analytics/sectors         Per-sector project groups
    GET /api/analytics/counties        Per-county project groups
    GET /api/analytics/lenders         Per-lender loan groups
    GET /api/analytics/loans           Loan portfolio
    GET /api/analytics/flags           Flag statistics
    GET /api/analytics/performance     Official performance bands
    GET /api/analytics/funds           Taxpayer fund usage

  Records:
    GET /api/projects                  ?search=&county=&sector=&status=
    GET /api/projects/filters          Values for the filter dropdowns
    GET /api/projects/{id}             Project with every related record
    GET /api/loans                     Loans with disbursement rate
    GET /api/loans/{id}                Loan, repayment summary, linked projects
    GET /api/officials/{id}            Official summary
    GET /api/tenders/{id}              Tender, bids, evaluation panel, savings
    GET /api/flags                     ?search=&status=&category=&priority=
    GET /api/changelog                 ?entity=&entity_id=

  Reports:
    GET /api/integrity                 States a reviewer should look at
    GET /api/export.xlsx               Dashboard workbook

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid query parameter
  - 404: Record not found
  - 500: Internal errors (workbook rendering)

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/report"
	"github.com/uwazi/transparency-engine/transparency"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler serves one immutable store. It holds no mutable state, so it is
// safe for concurrent requests.
type Handler struct {
	store  *transparency.Store
	logger *zap.Logger
}

// NewHandler creates a handler over store. A nil logger discards output.
func NewHandler(store *transparency.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// =============================================================================
// AGGREGATES
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewSummaryDTO(h.store.Overview()))
}

func (h *Handler) GetSectorBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProjectGroupDTOs(h.store.SectorBreakdown()))
}

func (h *Handler) GetCountyBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProjectGroupDTOs(h.store.CountyBreakdown()))
}

func (h *Handler) GetLenderBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLenderGroupDTOs(h.store.LenderBreakdown()))
}

func (h *Handler) GetLoanPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toLoanPortfolioDTO(h.store.LoanPortfolio()))
}

func (h *Handler) GetFlagStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFlagStatsDTO(h.store.FlagStats()))
}

func (h *Handler) GetPerformanceStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPerformanceStatsDTO(h.store.PerformanceStats()))
}

func (h *Handler) GetFundSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFundSummaryDTO(h.store.FundSummary()))
}

// =============================================================================
// PROJECTS
// =============================================================================

// ListProjects returns the projects matching the query filters, in store
// order. Missing parameters and "all" leave a field unfiltered.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transparency.ProjectFilter{
		Search: q.Get("search"),
		County: q.Get("county"),
		Sector: q.Get("sector"),
		Status: q.Get("status"),
	}

	projects := filter.Apply(h.store.Projects())
	dtos := make([]ProjectItemDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ProjectItemDTO{Project: p, Financials: toFinancialsDTO(transparency.Financials(p))}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.store.FilterOptions()
	statuses := make([]string, len(opts.Statuses))
	for i, s := range opts.Statuses {
		statuses[i] = string(s)
	}
	writeJSON(w, http.StatusOK, FilterOptionsDTO{Counties: opts.Counties, Sectors: opts.Sectors, Statuses: statuses})
}

// GetProject returns a project with every record that refers to it.
// References that do not resolve fall back to display labels.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := transparency.ProjectID(chi.URLParam(r, "id"))
	p, ok := h.store.ProjectByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found", &generic.NotFoundError{Entity: "project", ID: string(id)})
		return
	}

	dto := ProjectDetailDTO{
		Project:      p,
		Financials:   toFinancialsDTO(transparency.Financials(p)),
		Official:     RefDTO{Name: UnknownOfficial},
		Contractor:   ContractorRefDTO{RefDTO: RefDTO{Name: NoContractorAssigned}},
		Milestones:   h.store.MilestonesByProject(id),
		Transactions: h.store.TransactionsByProject(id),
		Flags:        h.store.FlagsByProject(id),
		Tenders:      h.store.TendersByProject(id),
		Funds:        h.store.FundsByProject(id),
		ChangeLog:    h.store.ChangeLogsForEntity(transparency.EntityProject, string(id)),
	}
	if u, ok := h.store.ProjectOfficial(p); ok {
		dto.Official = RefDTO{ID: string(u.ID), Name: u.Name}
	}
	if c, ok := h.store.ProjectContractor(p); ok {
		dto.Contractor = ContractorRefDTO{RefDTO: RefDTO{ID: string(c.ID), Name: c.Name}, Blacklisted: c.Blacklisted}
	}
	if l, ok := h.store.ProjectLoan(p); ok {
		dto.Loan = &l
	}

	progress := h.store.MilestoneProgress(id)
	dto.Progress = MilestoneProgressDTO{
		Total:          progress.Total,
		Completed:      progress.Completed,
		CompletionRate: rate(progress.CompletionRate),
		Delayed:        progress.Delayed,
		SlippageDays:   progress.SlippageDays,
	}

	audits := h.store.AuditsByProject(id)
	dto.Audits = make([]AuditDTO, len(audits))
	for i, a := range audits {
		dto.Audits[i] = AuditDTO{
			Audit:            a,
			FindingCounts:    toTallies(transparency.FindingCounts(a)),
			CriticalFindings: transparency.CriticalFindings(a),
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// LOANS
// =============================================================================

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans := h.store.Loans()
	dtos := make([]LoanItemDTO, len(loans))
	for i, l := range loans {
		dtos[i] = LoanItemDTO{Loan: l, DisbursementRate: rate(transparency.DisbursementRate(l))}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id := transparency.LoanID(chi.URLParam(r, "id"))
	l, ok := h.store.LoanByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Loan not found", &generic.NotFoundError{Entity: "loan", ID: string(id)})
		return
	}

	writeJSON(w, http.StatusOK, LoanDetailDTO{
		Loan:             l,
		DisbursementRate: rate(transparency.DisbursementRate(l)),
		Repayments:       toRepaymentSummaryDTO(transparency.SummarizeRepayments(l)),
		Projects:         h.store.LoanProjects(l),
	})
}

// =============================================================================
// OFFICIALS / TENDERS
// =============================================================================

func (h *Handler) GetOfficial(w http.ResponseWriter, r *http.Request) {
	id := transparency.UserID(chi.URLParam(r, "id"))
	if _, ok := h.store.UserByID(id); !ok {
		writeError(w, http.StatusNotFound, "Official not found", &generic.NotFoundError{Entity: "user", ID: string(id)})
		return
	}
	writeJSON(w, http.StatusOK, toOfficialDTO(h.store.OfficialSummary(id)))
}

func (h *Handler) GetTender(w http.ResponseWriter, r *http.Request) {
	id := transparency.TenderID(chi.URLParam(r, "id"))
	t, ok := h.store.TenderByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Tender not found", &generic.NotFoundError{Entity: "tender", ID: string(id)})
		return
	}

	writeJSON(w, http.StatusOK, TenderDetailDTO{
		Tender:  t,
		Bids:    h.store.BidsByTender(id),
		Panel:   h.store.PanelMembersByPanel(t.PanelID),
		Summary: toTenderSummaryDTO(h.store.TenderSummary(t)),
	})
}

func (h *Handler) GetContractor(w http.ResponseWriter, r *http.Request) {
	id := transparency.ContractorID(chi.URLParam(r, "id"))
	c, ok := h.store.ContractorByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Contractor not found", &generic.NotFoundError{Entity: "contractor", ID: string(id)})
		return
	}

	writeJSON(w, http.StatusOK, ContractorDetailDTO{
		Contractor: c,
		Projects:   h.store.ProjectsByContractor(id),
		Bids:       h.store.BidsByContractor(id),
	})
}

// =============================================================================
// FLAGS / CHANGE LOG
// =============================================================================

func (h *Handler) ListFlags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transparency.FlagFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Priority: q.Get("priority"),
	}
	writeJSON(w, http.StatusOK, filter.Apply(h.store.Flags()))
}

// GetFlag returns one citizen report with the project it concerns. A project
// id that resolves nowhere is shown by id alone.
func (h *Handler) GetFlag(w http.ResponseWriter, r *http.Request) {
	id := transparency.FlagID(chi.URLParam(r, "id"))
	f, ok := h.store.FlagByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Flag not found", &generic.NotFoundError{Entity: "flag", ID: string(id)})
		return
	}

	project := RefDTO{ID: string(f.ProjectID), Name: string(f.ProjectID)}
	if p, ok := h.store.ProjectByID(f.ProjectID); ok {
		project.Name = p.Title
	}
	writeJSON(w, http.StatusOK, FlagDetailDTO{
		Flag:      f,
		Project:   project,
		ChangeLog: h.store.ChangeLogsForEntity(transparency.EntityFlag, string(id)),
	})
}

// ListChangeLog returns the audit trail, optionally narrowed to one entity
// type and one record id.
func (h *Handler) ListChangeLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entity := transparency.EntityType(q.Get("entity"))
	entityID := q.Get("entity_id")

	if entity != "" && !entity.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid entity", fmt.Errorf("unknown entity type %q", entity))
		return
	}
	if entityID != "" && entity == "" {
		writeError(w, http.StatusBadRequest, "entity is required with entity_id", nil)
		return
	}

	logs := h.store.ChangeLogs()
	switch {
	case entityID != "":
		logs = h.store.ChangeLogsForEntity(entity, entityID)
	case entity != "":
		logs = generic.Where(logs, func(c transparency.ChangeLog) bool { return c.Entity == entity })
	}
	writeJSON(w, http.StatusOK, logs)
}

// =============================================================================
// REPORTS
// =============================================================================

func (h *Handler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toIssueDTOs(transparency.Inspect(h.store)))
}

func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	data, err := report.Workbook(h.store)
	if err != nil {
		h.logger.Error("Workbook export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate workbook", err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=uwazi-dashboard.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
