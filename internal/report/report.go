// Package report renders threshold tables and badge distributions for
// terminals and logs.
package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/teambadge/internal/domain/badge"
)

const (
	ruleWidth  = 80
	labelWidth = 30
	badgeWidth = 20
)

// Option configures a Printer.
type Option func(*Printer)

// WithColor forces colored headings on or off.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) Option {
	return func(p *Printer) {
		p.msg = message.NewPrinter(tag)
	}
}

// Printer writes reports to w.
type Printer struct {
	w       io.Writer
	color   bool
	msg     *message.Printer
	heading *color.Color
	tier    *color.Color
}

// New creates a Printer. Colors follow the terminal unless WithColor is given.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{
		w:     w,
		color: !color.NoColor,
		msg:   message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.heading = color.New(color.FgCyan, color.Bold)
	p.tier = color.New(color.FgYellow, color.Bold)
	if p.color {
		p.heading.EnableColor()
		p.tier.EnableColor()
	} else {
		p.heading.DisableColor()
		p.tier.DisableColor()
	}
	return p
}

// Thresholds prints both tiers of a table in row order.
func (p *Printer) Thresholds(t *badge.Table) {
	rules := t.Rules()
	p.banner(strings.ToUpper(t.Name()) + " BADGE ASSIGNMENT THRESHOLDS")

	p.tier.Fprintln(p.w, "\nPRIMARY BADGE THRESHOLDS:")
	p.line("-")
	for _, r := range rules {
		p.printf("%s %s %s\n", padRight(r.Label, labelWidth), r.Direction, FormatCutoff(r, r.Primary))
	}

	p.tier.Fprintln(p.w, "\nSECONDARY BADGE THRESHOLDS:")
	p.line("-")
	for _, r := range rules {
		p.printf("%s %s %s\n", padRight(r.Label, labelWidth), r.Direction, FormatCutoff(r, r.Secondary))
	}
	p.line("=")
	p.printf("\n")
}

// Distribution prints the primary badge counts and batch totals.
func (p *Printer) Distribution(d badge.Distribution) {
	p.banner("BADGE DISTRIBUTION SUMMARY")
	p.printf("\n")
	for _, s := range d.Shares {
		p.printf("%s: %3d teams (%.1f%%)\n", padRight(string(s.Badge), badgeWidth), s.Count, s.Percent)
	}
	p.printf("\n")
	p.line("-")
	p.printf("Total teams: %d\n", d.Total)
	p.printf("Teams with specialty badge: %d (%.1f%%)\n", d.Specialty, pct(d.Specialty, d.Total))
	p.printf("Teams with Balanced badge: %d (%.1f%%)\n", d.Balanced, pct(d.Balanced, d.Total))
	p.printf("Teams with secondary badges: %d (%.1f%%)\n", d.WithSecondary, pct(d.WithSecondary, d.Total))
	p.line("=")
	p.printf("\n")
}

// FormatCutoff renders a cutoff the way it reads in a report: percentages
// with one decimal, ranks with their "Top N" hint, everything else as is.
func FormatCutoff(r badge.Rule, v float64) string {
	if r.Percent {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if r.RequirePositive {
		s += " (Top " + s + ")"
	}
	return s
}

func (p *Printer) banner(title string) {
	p.printf("\n")
	p.line("=")
	p.heading.Fprintln(p.w, title)
	p.line("=")
}

func (p *Printer) line(ch string) {
	p.printf("%s\n", strings.Repeat(ch, ruleWidth))
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = p.msg.Fprintf(p.w, format, args...)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
