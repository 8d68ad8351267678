package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seat-predictor/seat-predictor/seat/inference"
)

var (
	formWatch      bool // Reload the table when its file changes
	formAccessible bool // Plain prompts instead of the TUI
)

// formValues holds the raw form input (strings for huh).
type formValues struct {
	rank     string
	quota    string
	category string
	college  string
	course   string
	groupBy  string
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Interactive college predictor form",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg := configFromFlags(cmd)
		svc, closeFn := newService(ctx, cmd, cfg)
		defer closeFn()

		if _, err := svc.Store().Table(); err != nil {
			logrus.Fatalf("Loading inference table failed: %v", err)
		}
		if formWatch || cfg.Serve.Watch {
			if err := svc.Store().Watch(ctx); err != nil {
				logrus.Warnf("Table reload disabled: %v", err)
			}
			defer svc.Store().Stop()
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, groupTitle.Render("College Predictor"))
		vals := formValues{college: inference.Any, course: inference.Any, groupBy: string(inference.GroupByCollege)}
		for {
			table, err := svc.Store().Table()
			if err != nil {
				logrus.Fatalf("Loading inference table failed: %v", err)
			}
			form := newQueryForm(table.Options(), &vals)
			if err := form.RunWithContext(ctx); err != nil {
				if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
					return
				}
				logrus.Fatalf("Form failed: %v", err)
			}

			q, err := vals.query()
			if err != nil {
				_, _ = fmt.Fprintln(out, errStyle.Render(err.Error()))
			} else {
				runPredict(ctx, svc, q, out, false)
			}

			again := true
			confirm := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().Title("Run another query?").Value(&again),
			)).WithTheme(formTheme()).WithAccessible(formAccessible)
			if err := confirm.RunWithContext(ctx); err != nil || !again {
				return
			}
		}
	},
}

// query converts raw form input into a Query.
func (v formValues) query() (inference.Query, error) {
	rank, err := strconv.Atoi(strings.TrimSpace(v.rank))
	if err != nil {
		return inference.Query{}, fmt.Errorf("rank must be a positive integer, got %q", v.rank)
	}
	groupBy, err := inference.ParseGroupBy(v.groupBy)
	if err != nil {
		return inference.Query{}, err
	}
	return inference.Query{
		Rank:     rank,
		Quota:    v.quota,
		Category: v.category,
		College:  v.college,
		Course:   v.course,
		GroupBy:  groupBy,
	}, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

// withAny prepends the wildcard option.
func withAny(values []string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("ANY", inference.Any)}
	return append(opts, huh.NewOptions(values...)...)
}

func newQueryForm(opts inference.Options, v *formValues) *huh.Form {
	if v.quota == "" && len(opts.Quotas) > 0 {
		v.quota = opts.Quotas[0]
	}
	if v.category == "" && len(opts.Categories) > 0 {
		v.category = opts.Categories[0]
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rank").
				Placeholder("e.g., 12500").
				CharLimit(9).
				Value(&v.rank).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Quota").
				Options(huh.NewOptions(opts.Quotas...)...).
				Value(&v.quota),
			huh.NewSelect[string]().
				Title("Candidate Category").
				Options(huh.NewOptions(opts.Categories...)...).
				Value(&v.category),
		).Title("Candidate"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("College").
				Description("Use ↑/↓ or type / to filter").
				Options(withAny(opts.Colleges)...).
				Height(10).
				Value(&v.college),
			huh.NewSelect[string]().
				Title("Course").
				Options(withAny(opts.Courses)...).
				Height(10).
				Value(&v.course),
			huh.NewSelect[string]().
				Title("Group results by").
				Options(
					huh.NewOption("College", string(inference.GroupByCollege)),
					huh.NewOption("Course", string(inference.GroupByCourse)),
				).
				Value(&v.groupBy),
		).Title("Filters"),
	).WithTheme(formTheme()).
		WithAccessible(formAccessible).
		WithProgramOptions(tea.WithOutput(os.Stderr))
}

// formTheme returns the huh theme matching the result tables.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		MarginBottom(1)
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(primary).
		SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(muted)

	return t
}

func init() {
	formCmd.Flags().BoolVar(&formWatch, "watch", false, "Reload the inference table when its file changes")
	formCmd.Flags().BoolVar(&formAccessible, "accessible", false, "Use plain prompts instead of the full-screen form")
	addServeFlags(formCmd)

	rootCmd.AddCommand(formCmd)
}
