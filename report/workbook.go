/*
Package report renders the dashboard aggregates into an .xlsx workbook.

SHEETS:
  Summary:  One label/value row per overview figure
  Projects: Every project with its financials, in store order
  Sectors:  SectorBreakdown
  Counties: CountyBreakdown
  Loans:    Every loan with disbursement and repayment totals

  Money is written as numbers in KES. Rates are percentages rounded the way
  the aggregates round them.

SEE ALSO:
  - transparency/analytics.go: The figures written here
  - api/handlers.go: Serves the workbook at /api/export.xlsx
*/
package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/uwazi/transparency-engine/transparency"
	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order.
const (
	SheetSummary  = "Summary"
	SheetProjects = "Projects"
	SheetSectors  = "Sectors"
	SheetCounties = "Counties"
	SheetLoans    = "Loans"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	widths  []float64
	rows    [][]any
}

// Workbook builds the dashboard workbook from the store.
func Workbook(store *transparency.Store) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#8B0000"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets(store) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile builds the workbook and writes it to path.
func WriteFile(store *transparency.Store, path string) error {
	data, err := Workbook(store)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, w := range sh.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.SetPanes(sh.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }

func sheets(store *transparency.Store) []sheet {
	return []sheet{summarySheet(store), projectsSheet(store), groupSheet(SheetSectors, "Sector", store.SectorBreakdown()),
		groupSheet(SheetCounties, "County", store.CountyBreakdown()), loansSheet(store)}
}

func summarySheet(store *transparency.Store) sheet {
	o := store.Overview()
	lp := store.LoanPortfolio()
	rows := [][]any{
		{"Total Projects", o.TotalProjects},
		{"Total Budget (KES)", num(o.TotalBudget)},
		{"Total Spent (KES)", num(o.TotalSpent)},
		{"Remaining (KES)", num(o.Remaining)},
		{"Budget Utilization (%)", num(o.Utilization)},
		{"Completion Rate (%)", num(o.CompletionRate)},
		{"In Progress (%)", num(o.InProgressShare)},
		{"Delayed (%)", num(o.DelayedShare)},
	}
	for _, sc := range o.StatusCounts {
		rows = append(rows, []any{"Projects " + string(sc.Key), sc.Count})
	}
	rows = append(rows,
		[]any{"Loans", o.TotalLoans},
		[]any{"Loan Amount (KES)", num(o.TotalLoanAmount)},
		[]any{"Disbursed (KES)", num(o.TotalDisbursed)},
		[]any{"Disbursement Rate (%)", num(lp.DisbursementRate)},
		[]any{"Average Interest Rate (%)", num(lp.AverageInterestRate)},
		[]any{"Open Flags", o.OpenFlags},
		[]any{"Resolved Flags", o.ResolvedFlags},
		[]any{"Flag Resolution Rate (%)", num(o.FlagResolutionRate)},
		[]any{"Average Performance Score", num(o.AveragePerformance)},
	)
	return sheet{name: SheetSummary, headers: []string{"Metric", "Value"}, widths: []float64{32, 20}, rows: rows}
}

func projectsSheet(store *transparency.Store) sheet {
	sh := sheet{
		name: SheetProjects,
		headers: []string{"Project ID", "Title", "County", "Ward", "Sector", "Status", "Funding",
			"Budget (KES)", "Spent (KES)", "Remaining (KES)", "Utilization (%)", "Progress (%)", "Contractor", "Loan"},
		widths: []float64{24, 40, 14, 22, 16, 14, 12, 18, 18, 18, 14, 12, 32, 22},
	}
	for _, p := range store.Projects() {
		fin := transparency.Financials(p)
		contractor := "No Contractor Assigned"
		if c, ok := store.ProjectContractor(p); ok {
			contractor = c.Name
		}
		loanID := ""
		if id, ok := p.LoanID.Get(); ok {
			loanID = string(id)
		}
		sh.rows = append(sh.rows, []any{
			string(p.ID), p.Title, p.County, p.Ward, string(p.Sector), string(p.Status), string(p.FundingType),
			num(fin.Budget), num(fin.Spent), num(fin.Remaining), num(fin.Utilization), p.Progress, contractor, loanID,
		})
	}
	return sh
}

func groupSheet(name, keyHeader string, groups []transparency.ProjectGroup) sheet {
	sh := sheet{
		name: name,
		headers: []string{keyHeader, "Projects", "Completed", "Completion Rate (%)",
			"Budget (KES)", "Spent (KES)", "Utilization (%)", "Flags"},
		widths: []float64{20, 10, 10, 18, 18, 18, 14, 8},
	}
	for _, g := range groups {
		sh.rows = append(sh.rows, []any{
			g.Key, g.Projects, g.Completed, num(g.CompletionRate),
			num(g.Budget), num(g.Spent), num(g.Utilization), g.Flags,
		})
	}
	return sh
}

func loansSheet(store *transparency.Store) sheet {
	sh := sheet{
		name: SheetLoans,
		headers: []string{"Loan ID", "Lender", "Purpose", "Amount (KES)", "Disbursed (KES)", "Disbursement (%)",
			"Interest Rate", "Status", "Scheduled Repayment (KES)", "Outstanding (KES)", "Linked Projects"},
		widths: []float64{22, 36, 36, 18, 18, 16, 12, 12, 24, 18, 14},
	}
	for _, l := range store.Loans() {
		rs := transparency.SummarizeRepayments(l)
		sh.rows = append(sh.rows, []any{
			string(l.ID), l.Lender, l.Purpose, num(l.Amount), num(l.Disbursed), num(transparency.DisbursementRate(l)),
			l.Terms.InterestRate, string(l.Status), num(rs.Total), num(rs.Outstanding), len(store.LoanProjects(l)),
		})
	}
	return sh
}
