package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/seat-predictor/seat-predictor/seat/inference"
)

var (
	// Colors
	primary = lipgloss.Color("#06B6D4") // Cyan - headings
	muted   = lipgloss.Color("#9CA3AF") // Gray - borders
	warning = lipgloss.Color("#F59E0B") // Amber
	danger  = lipgloss.Color("#EF4444") // Red

	groupTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginTop(1)

	headerCell = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	bodyCell = lipgloss.NewStyle().
			Padding(0, 1)

	warnStyle = lipgloss.NewStyle().Foreground(warning)
	errStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
)

// nameHeader is the column title for the dimension not grouped by.
func nameHeader(g inference.GroupBy) string {
	if g == inference.GroupByCourse {
		return "College"
	}
	return "Course"
}

// renderGroups draws one titled table per group.
func renderGroups(groupBy inference.GroupBy, groups []inference.Group) string {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(groupTitle.Render(g.Key))
		b.WriteString("\n")

		rows := make([][]string, len(g.Entries))
		for i, e := range g.Entries {
			rows[i] = []string{e.Name, strconv.Itoa(e.BestRank), strconv.Itoa(e.LastRank)}
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(muted)).
			Headers(nameHeader(groupBy), "Best Rank", "Last Rank").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerCell
				}
				return bodyCell
			})
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

// writeResponse prints a successful prediction, as tables or JSON.
func writeResponse(w io.Writer, resp *inference.Response, asJSON bool) error {
	if asJSON {
		return writeJSON(w, struct {
			GroupBy  inference.GroupBy `json:"group_by"`
			Groups   []inference.Group `json:"groups"`
			Warnings []string          `json:"warnings,omitempty"`
		}{resp.Query.GroupBy, resp.Groups, resp.Warnings})
	}
	if err := writeWarnings(w, resp.Warnings); err != nil {
		return err
	}
	_, err := io.WriteString(w, renderGroups(resp.Query.GroupBy, resp.Groups))
	return err
}

// writeNoEligible prints the no-results message and any warnings raised
// while answering the query.
func writeNoEligible(w io.Writer, warnings []string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, struct {
			Error    string   `json:"error"`
			Warnings []string `json:"warnings,omitempty"`
		}{inference.ErrNoEligible.Error(), warnings})
	}
	if err := writeWarnings(w, warnings); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, errStyle.Render("No eligible colleges/courses found for the given inputs."))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeWarnings(w io.Writer, warnings []string) error {
	for _, warn := range warnings {
		if _, err := fmt.Fprintln(w, warnStyle.Render("warning: "+warn)); err != nil {
			return err
		}
	}
	return nil
}
