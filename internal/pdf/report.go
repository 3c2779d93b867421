package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskhive/internal/models"
	"taskhive/internal/services"
)

// ReportGenerator renders a project's analytics into a PDF report.
type ReportGenerator struct{}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

func (g *ReportGenerator) Generate(w io.Writer, project *models.Project, stats *services.ProjectStatistics) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Project report: "+project.Name, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Project report: "+project.Name, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Status: %s", project.Status), "", 1, "L", false, 0, "")
	doc.Ln(4)

	row := func(label, value string) {
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(70, 8, label, "1", 0, "L", false, 0, "")
		doc.CellFormat(50, 8, value, "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 10, "Tasks", "", 1, "L", false, 0, "")
	row("Total", fmt.Sprintf("%d", stats.TotalTasks))
	row("Completed", fmt.Sprintf("%d", stats.CompletedTasks))
	row("In progress", fmt.Sprintf("%d", stats.InProgressTasks))
	row("Overdue", fmt.Sprintf("%d", stats.OverdueTasks))
	row("Completion rate", fmt.Sprintf("%.2f%%", stats.CompletionRate))
	if stats.AverageCompletionTime != nil {
		row("Avg. completion time", formatDuration(*stats.AverageCompletionTime))
	}
	row("Members", fmt.Sprintf("%d", stats.MemberCount))
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 10, "By priority", "", 1, "L", false, 0, "")
	for _, p := range []models.TaskPriority{models.PriorityCritical, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		row(string(p), fmt.Sprintf("%d", stats.TasksByPriority[string(p)]))
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 10, "Recent activity", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	if len(stats.RecentActivity) == 0 {
		doc.CellFormat(0, 6, "No activity recorded.", "", 1, "L", false, 0, "")
	}
	for _, entry := range stats.RecentActivity {
		line := fmt.Sprintf("%s  %s", entry.CreatedAt.Format("2006-01-02 15:04"), entry.Action)
		doc.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	return doc.Output(w)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d >= 24*time.Hour {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
	if d >= time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	}
	return fmt.Sprintf("%.0fm", d.Minutes())
}
