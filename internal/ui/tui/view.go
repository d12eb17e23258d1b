package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("eksforge: %s", m.ClusterName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done && m.Mode == "destroy":
		status += doneStyle.Render("Destroyed")
	case m.Done:
		status += doneStyle.Render("Ready")
	case m.Mode == "destroy":
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Destroying...")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Provisioning...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d%%\n", bar, int(progress*100))
}

func renderPhases(b *strings.Builder, m Model) {
	section := "Apply"
	if m.Mode == "destroy" {
		section = "Teardown"
	}
	b.WriteString(sectionStyle.Render("  " + section))
	b.WriteString("\n")

	for _, row := range m.Phases {
		var mark, name string
		switch row.State {
		case stateDone:
			mark = doneStyle.Render(checkMark)
			name = dimStyle.Render(row.Name)
		case stateFailed:
			mark = failedStyle.Render(crossMark)
			name = failedStyle.Render(row.Name)
		case stateSkipped:
			mark = skippedStyle.Render(skipMark)
			name = dimStyle.Render(row.Name)
			if row.Message != "" {
				name += dimStyle.Render(" (" + row.Message + ")")
			}
		case stateActive:
			mark = activeStyle.Render(currentSpinner(m.SpinnerFrame))
			name = activeStyle.Render(row.Name)
		default:
			mark = dimStyle.Render(pending)
			name = dimStyle.Render(row.Name)
		}
		fmt.Fprintf(b, "  %s %s\n", mark, name)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime).Round(time.Second))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed %s - press q to quit", elapsed)))
	b.WriteString("\n")
}

// calculateProgress returns completion in [0, 1]. Skipped phases count as
// complete.
func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Phases) == 0 {
		return 0
	}
	finished := 0
	for _, row := range m.Phases {
		if row.State == stateDone || row.State == stateSkipped {
			finished++
		}
	}
	return float64(finished) / float64(len(m.Phases))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm", h, min)
	case min > 0:
		return fmt.Sprintf("%dm%ds", min, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
