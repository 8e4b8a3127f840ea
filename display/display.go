// SPDX-License-Identifier: GPL-3.0-or-later

// Package display renders the command line listings.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/ingest"
	"github.com/rfpdesk/rfpmail/ranking"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	Warning  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	cell = lipgloss.NewStyle().Padding(0, 1)
)

func SuccessMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func ErrorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func Header(w io.Writer, title string) {
	fmt.Fprintln(w, Bold.Render(title))
}

// Truncate shortens s to maxLen runes, adding an ellipsis if needed.
func Truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func Money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optionalMoney(v *float64) string {
	if v == nil {
		return Dim.Render("-")
	}
	return Money(*v)
}

func optionalDays(v *int) string {
	if v == nil {
		return Dim.Render("-")
	}
	return fmt.Sprintf("%d days", *v)
}

func optionalId(v *int64) string {
	if v == nil {
		return Dim.Render("-")
	}
	return strconv.FormatInt(*v, 10)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// OutcomeLabel colours a ledger outcome.
func OutcomeLabel(outcome domain.Outcome) string {
	label := fmt.Sprintf("%-9s", outcome)
	switch outcome {
	case domain.OutcomeIngested:
		return Success.Render(label)
	case domain.OutcomeDegraded:
		return Warning.Render(label)
	case domain.OutcomeMalformed:
		return ErrStyle.Render(label)
	default:
		return Muted.Render(label)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})
}

func render(w io.Writer, t *table.Table, empty string, rows int) {
	if rows == 0 {
		fmt.Fprintln(w, Dim.Render(empty))
		return
	}
	fmt.Fprintln(w, t.String())
}

func Vendors(w io.Writer, vendors []*domain.Vendor) {
	t := newTable("ID", "NAME", "EMAIL", "CONTACT", "CREATED")
	for _, v := range vendors {
		t.Row(strconv.FormatInt(v.Id, 10), Truncate(v.Name, 40), v.Email, v.ContactPerson, date(v.CreatedAt))
	}
	render(w, t, "No vendors", len(vendors))
}

func Rfps(w io.Writer, rfps []*domain.Rfp) {
	t := newTable("ID", "TITLE", "ITEMS", "BUDGET", "DELIVERY", "CREATED")
	for _, r := range rfps {
		t.Row(strconv.FormatInt(r.Id, 10), Truncate(r.Title, 40), strconv.Itoa(len(r.Items)), optionalMoney(r.Budget), optionalDays(r.DeliveryDays), date(r.CreatedAt))
	}
	render(w, t, "No rfps", len(rfps))
}

func Proposals(w io.Writer, proposals []*domain.Proposal) {
	t := newTable("ID", "RFP", "VENDOR", "TOTAL", "ITEMS", "DELIVERY", "WARRANTY", "RECEIVED")
	for _, p := range proposals {
		t.Row(
			strconv.FormatInt(p.Id, 10),
			optionalId(p.RfpId),
			Truncate(p.VendorName, 30),
			Money(p.Total),
			strconv.Itoa(len(p.LineItems)),
			optionalDays(p.DeliveryDays),
			Truncate(p.Warranty, 20),
			date(p.CreatedAt),
		)
	}
	render(w, t, "No proposals", len(proposals))
}

func Ranking(w io.Writer, ranked []ranking.Ranked) {
	t := newTable("#", "SCORE", "PROPOSAL", "VENDOR", "TOTAL", "RATIONALE")
	for n, r := range ranked {
		t.Row(
			strconv.Itoa(n+1),
			strconv.Itoa(r.Score),
			strconv.FormatInt(r.Proposal.Id, 10),
			Truncate(r.Proposal.VendorName, 30),
			Money(r.Proposal.Total),
			r.Rationale,
		)
	}
	render(w, t, "No proposals to rank", len(ranked))
}

func Messages(w io.Writer, messages []*domain.ProcessedMessage) {
	t := newTable("MESSAGE", "UID", "OUTCOME", "PROPOSAL", "SUBJECT", "OBSERVED")
	for _, m := range messages {
		t.Row(
			Truncate(m.MessageID, 40),
			strconv.FormatUint(uint64(m.Uid), 10),
			OutcomeLabel(m.Outcome),
			optionalId(m.ProposalId),
			Truncate(m.Subject, 40),
			date(m.ObservedAt),
		)
	}
	render(w, t, "No processed messages", len(messages))
}

func PollResult(w io.Writer, r *ingest.PollResult) {
	Header(w, "Poll "+r.PollID)
	fmt.Fprintf(w, "  %-10s %d\n", "fetched", r.Fetched)
	fmt.Fprintf(w, "  %-10s %s\n", "ingested", Success.Render(strconv.Itoa(r.Ingested)))
	fmt.Fprintf(w, "  %-10s %d\n", "duplicate", r.Duplicate)
	fmt.Fprintf(w, "  %-10s %d\n", "stale", r.Stale)
	fmt.Fprintf(w, "  %-10s %d\n", "empty", r.Empty)
	fmt.Fprintf(w, "  %-10s %s\n", "degraded", Warning.Render(strconv.Itoa(r.Degraded)))
	fmt.Fprintf(w, "  %-10s %s\n", "malformed", ErrStyle.Render(strconv.Itoa(r.Malformed)))
	fmt.Fprintf(w, "  %-10s %d\n", "retried", r.Retried)
	fmt.Fprintf(w, "  %s\n", Dim.Render("took "+r.Duration.Round(time.Millisecond).String()))
}
