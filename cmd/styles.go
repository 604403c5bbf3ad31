package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/engine"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// printReport renders a batch report, one line per item, then the totals.
func printReport(report engine.Report) {
	for _, item := range report.Items {
		var line string
		switch item.Status {
		case engine.StatusOK:
			line = successStyle.Render("ok  ")
		case engine.StatusSkipped:
			line = warnStyle.Render("skip")
		default:
			line = errorStyle.Render("fail")
		}
		line += fmt.Sprintf("  %-10s %-20s", item.App, item.Name)
		if item.Latency > 0 {
			line += dimStyle.Render(item.Latency.Round(time.Millisecond).String())
		}
		if item.Detail != "" {
			line += dimStyle.Render(item.Detail)
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d attempted, %d succeeded, %d failed, %d skipped\n",
		report.Attempted(), report.Succeeded(), report.Failed(), report.Skipped())
}
