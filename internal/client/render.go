package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/atinyakov/savingsboard/internal/models"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#7a8699")
	surface = lipgloss.Color("#2a3850")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Message lipgloss.Style
	Error   lipgloss.Style
	Card    lipgloss.Style
}

// DefaultStyles returns the dashboard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Message: lipgloss.NewStyle().Foreground(accent),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(danger),
		Card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(surface).Padding(0, 1),
	}
}

var pesos = message.NewPrinter(language.English)

// FormatPrice renders v as PHP currency, or n/a when unknown.
func FormatPrice(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return pesos.Sprintf("₱%.2f", *v)
}

// FormatDate renders an optional date.
func FormatDate(s *string) string {
	if s == nil || *s == "" {
		return "n/a"
	}
	return *s
}

// Renderer writes the views to a terminal.
type Renderer struct {
	Out    io.Writer
	Styles Styles
}

// NewRenderer writes to out with the default styles.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{Out: out, Styles: DefaultStyles()}
}

// Banners prints the current message and error banners, if any.
func (r *Renderer) Banners(f *Feedback) {
	if msg := f.Message(); msg != "" {
		fmt.Fprintln(r.Out, r.Styles.Message.Render(msg))
	}
	if msg := f.Error(); msg != "" {
		fmt.Fprintln(r.Out, r.Styles.Error.Render(msg))
	}
}

// Dashboard prints the board header, totals and one card per item.
func (r *Renderer) Dashboard(d *Dashboard) {
	s := r.Styles
	user := "guest"
	if d.Auth != nil {
		user = d.Auth.Username
	}
	fmt.Fprintln(r.Out, s.Title.Render("Savings Board")+"  "+s.Muted.Render("signed in as "+user))
	fmt.Fprintln(r.Out, s.Label.Render("Board: ")+d.BoardLabel)

	target, market := d.Totals()
	fmt.Fprintf(r.Out, "%s %s   %s %s   %s %d\n",
		s.Label.Render("Target:"), FormatPrice(&target),
		s.Label.Render("Market:"), FormatPrice(&market),
		s.Label.Render("Items:"), len(d.Items))

	if len(d.Items) == 0 {
		fmt.Fprintln(r.Out, s.Muted.Render("No items yet. Use `add` to track one."))
	}
	for _, it := range d.Items {
		fmt.Fprintln(r.Out, s.Card.Render(r.item(it, d.AnalysisRunning == it.ID)))
	}
	r.Banners(d.Feedback)
}

func (r *Renderer) item(it models.Item, running bool) string {
	s := r.Styles
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.Title.Render("#"+strconv.FormatInt(it.ID, 10)), s.Label.Render(it.ItemName))
	fmt.Fprintf(&b, "Target %s  Market %s\n", FormatPrice(&it.TargetPrice), FormatPrice(it.MarketPrice))
	fmt.Fprintf(&b, "Save daily %s  weekly %s\n", FormatPrice(it.SavingsDaily), FormatPrice(it.SavingsWeekly))
	fmt.Fprintf(&b, "%s → %s", FormatDate(it.StartDate), FormatDate(it.EndDate))
	if it.AddedBy != "" {
		b.WriteString(s.Muted.Render("  added by " + it.AddedBy))
	}

	if it.AnalysisSummary != nil && *it.AnalysisSummary != "" {
		b.WriteString("\n" + s.Label.Render("Summary: ") + *it.AnalysisSummary)
	}
	if it.AnalysisRecommendation != nil && *it.AnalysisRecommendation != "" {
		b.WriteString("\n" + s.Label.Render("Recommendation: ") + *it.AnalysisRecommendation)
	}
	if len(it.Alternatives) > 0 {
		b.WriteString("\n" + s.Label.Render("Alternatives:"))
		for _, alt := range it.Alternatives {
			b.WriteString("\n  - " + alternative(alt))
		}
	}
	if running {
		b.WriteString("\n" + s.Muted.Render("Analyzing..."))
	}
	return b.String()
}

// alternative names the option, with its price only when one is known.
func alternative(alt models.Alternative) string {
	if alt.EstimatedPrice == nil || *alt.EstimatedPrice == 0 {
		return alt.Name
	}
	return fmt.Sprintf("%s (%s)", alt.Name, FormatPrice(alt.EstimatedPrice))
}

// Boards prints the user's board memberships.
func (r *Renderer) Boards(boards []models.Membership) {
	if len(boards) == 0 {
		fmt.Fprintln(r.Out, r.Styles.Muted.Render("You are not on any board yet."))
		return
	}
	for _, b := range boards {
		line := fmt.Sprintf("%s  %s", r.Styles.Label.Render(b.BoardCode), b.Name)
		if b.Role != "" {
			line += r.Styles.Muted.Render("  " + b.Role)
		}
		fmt.Fprintln(r.Out, line)
	}
}

// Help lists the shell commands.
func (r *Renderer) Help() {
	fmt.Fprintln(r.Out, r.Styles.Card.Render(strings.Join([]string{
		"create [name]   create a board",
		"join <code>     join a board by code",
		"refresh         reload the current board",
		"boards          list your boards",
		"add             add an item",
		"analyze <id>    run AI analysis for an item",
		"show            print the board",
		"logout          forget this session",
		"exit            leave the shell",
	}, "\n")))
}
