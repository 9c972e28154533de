package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/resolver"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("178")). // Gold
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	alertColors = map[string]lipgloss.Color{
		models.AlertGreen: lipgloss.Color("46"),
		models.AlertAmber: lipgloss.Color("214"),
		models.AlertRed:   lipgloss.Color("196"),
	}
)

// cardFields are shown beneath the header, in this order.
var cardFields = []string{
	models.ColumnClientID,
	models.ColumnTier,
	models.ColumnRegion,
	models.ColumnDeliveryFrequency,
	models.ColumnStatus,
	models.ColumnUrgency,
	models.ColumnComplianceAlerts,
	models.ColumnRiskAnalysis,
	models.ColumnRegulatoryUpdates,
	models.ColumnFinancialStats,
	models.ColumnDateScraped,
}

// AlertBadge renders the alert level on its own color. Unknown levels are
// shown as-is in gray.
func AlertBadge(level string) string {
	color, ok := alertColors[level]
	if !ok {
		color = lipgloss.Color("245")
	}
	if level == "" {
		level = "-"
	}
	return badgeStyle.Foreground(lipgloss.Color("0")).Background(color).Render(level)
}

// Card renders a bordered summary of the record. width <= 0 lets the card
// size itself.
func Card(res resolver.Resolution, width int) string {
	rec := res.Record

	var b strings.Builder
	b.WriteString(titleStyle.Render(rec.ClientName))
	b.WriteString("  ")
	b.WriteString(AlertBadge(rec.AlertLevel))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Last Updated: %s", rec.DateScraped)))
	b.WriteString("\n\n")

	for _, col := range cardFields {
		v, _ := rec.Get(col)
		if v == "" {
			continue
		}
		b.WriteString(labelStyle.Render(Label(col) + ": "))
		b.WriteString(v)
		b.WriteString("\n")
	}

	if rec.ExecutiveSummary != "" {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Executive Summary"))
		b.WriteString("\n")
		b.WriteString(rec.ExecutiveSummary)
		b.WriteString("\n")
	}

	if notice := res.Notice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n")
	}

	style := cardStyle
	if inner := width - cardStyle.GetHorizontalBorderSize(); width > 0 && inner > 0 {
		style = style.Width(inner)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
