package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/devices-lab/busrouter/board"
	"github.com/devices-lab/busrouter/grid"
	"github.com/devices-lab/busrouter/route"
)

// A Report bundles the lint findings for one routing result.
type Report struct {
	BoardName string

	Issues          []Issue
	StructIssues    []Issue
	ClearanceIssues []Issue
	CountIssues     []Issue

	Connected  int
	Failed     int
	Backtracks int
	Vias       int
	Segments   int
}

// GenerateReport runs the lint pass and categorizes the findings.
func GenerateReport(brd *board.Board, baseGrid *grid.Grid, buses map[string]route.Bus, result *route.RoutingResult) *Report {
	report := &Report{
		BoardName:  brd.Name,
		Issues:     RunLint(brd, baseGrid, buses, result),
		Connected:  result.Connected,
		Failed:     result.Failed,
		Backtracks: result.Backtracks,
		Vias:       len(result.Vias),
		Segments:   result.TotalSegments(),
	}

	for _, issue := range report.Issues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueClearance:
			report.ClearanceIssues = append(report.ClearanceIssues, issue)
		case IssueCount:
			report.CountIssues = append(report.CountIssues, issue)
		}
	}

	return report
}

// Clean reports whether the lint pass found nothing.
func (r *Report) Clean() bool {
	return len(r.Issues) == 0
}

// WriteReport writes a formatted report to a writer.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "ROUTING VERIFICATION REPORT: %s\n", r.BoardName)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nconnected sockets: %d\n", r.Connected)
	fmt.Fprintf(w, "failed routes:     %d\n", r.Failed)
	fmt.Fprintf(w, "backtracks:        %d\n", r.Backtracks)
	fmt.Fprintf(w, "segments:          %d\n", r.Segments)
	fmt.Fprintf(w, "vias:              %d\n", r.Vias)

	if r.Clean() {
		fmt.Fprintln(w, "\nno issues found")
		return
	}

	fmt.Fprintf(w, "\nfound %d issues:\n", len(r.Issues))

	writeGroup := func(title string, issues []Issue) {
		if len(issues) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s ISSUES (%d):\n", title, len(issues))
		fmt.Fprintln(w, dash)
		for _, issue := range issues {
			if issue.Net != "" {
				fmt.Fprintf(w, "  [%s] %s\n", issue.Net, issue.Message)
			} else {
				fmt.Fprintf(w, "  %s\n", issue.Message)
			}
		}
	}

	writeGroup("STRUCT", r.StructIssues)
	writeGroup("CLEARANCE", r.ClearanceIssues)
	writeGroup("COUNT", r.CountIssues)
}
