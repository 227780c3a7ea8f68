package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/okineadev/gitpaper/internal/commit"
)

// typeColors colors section headers and entries by commit type.
var typeColors = map[string]color.Attribute{
	"feat":     color.FgGreen,
	"perf":     color.FgMagenta,
	"fix":      color.FgYellow,
	"refactor": color.FgCyan,
	"docs":     color.FgBlue,
}

var (
	breakingStyle = color.New(color.FgRed, color.Bold)
	hashStyle     = color.New(color.Faint)
	headerStyle   = color.New(color.Bold)
)

// TerminalOptions controls the terminal preview.
type TerminalOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// Terminal writes a colored preview of d to w.
func Terminal(w io.Writer, d Data, opts TerminalOptions) error {
	width := resolveWidth(opts.MaxWidth)
	paint := func(c *color.Color, s string) string {
		if opts.Plain {
			return s
		}
		return c.Sprint(s)
	}

	header := d.To
	if d.From != "" {
		header = d.From + " → " + d.To
	}
	if header != "" {
		if _, err := fmt.Fprintf(w, "%s\n", paint(headerStyle, header)); err != nil {
			return err
		}
	}

	if d.Overview != "" {
		for _, line := range splitLines(strings.TrimSpace(d.Overview)) {
			fmt.Fprintf(w, "│ %s\n", wrapText(line, width-2, "│ "))
		}
	}

	if d.Result == nil || d.Result.IsEmpty() {
		_, err := fmt.Fprintln(w, "\nNo changes.")
		return err
	}

	for _, section := range d.Result.Sections {
		style, headStyle := styleFor(section.Type)
		title := sectionTitle(section.Title, d.Emoji)
		if _, err := fmt.Fprintf(w, "\n%s\n", paint(headStyle, title)); err != nil {
			return err
		}
		for _, c := range section.Commits {
			if err := writeEntry(w, c, style, paint, width); err != nil {
				return err
			}
		}
	}

	if d.Contributors && len(d.Result.Contributors) > 0 {
		fmt.Fprintf(w, "\n%s\n", paint(headerStyle, sectionTitle("❤️ Contributors", d.Emoji)))
		for _, id := range d.Result.Contributors {
			label := id.DisplayName()
			if id.Username != "" {
				label = fmt.Sprintf("%s (@%s)", label, id.Username)
			}
			fmt.Fprintf(w, "  - %s\n", label)
		}
	}
	return nil
}

func styleFor(typ string) (body, header *color.Color) {
	attr, ok := typeColors[typ]
	if !ok {
		attr = color.FgWhite
	}
	return color.New(attr), color.New(attr, color.Bold)
}

func writeEntry(w io.Writer, c commit.ParsedCommit, style *color.Color, paint func(*color.Color, string) string, width int) error {
	prefix := "  - "
	var b strings.Builder
	if c.IsBreaking {
		b.WriteString(paint(breakingStyle, "BREAKING "))
	}
	if c.Scope != "" {
		b.WriteString(c.Scope + ": ")
	}
	text := upperFirst(c.Description)
	if c.ChangelogBody != "" {
		text = strings.Join(splitLines(c.ChangelogBody), " ")
	}
	b.WriteString(paint(style, wrapText(text, width-len(prefix)-shortHashLen-1, "    ")))
	if c.Hash != "" {
		b.WriteString(" " + paint(hashStyle, shortHash(c.Hash)))
	}
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, b.String())
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text
	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}
		for breakPoint > 1 && !utf8.RuneStart(remaining[breakPoint]) {
			breakPoint--
		}
		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}
	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}
	return strings.Join(lines, "\n"+indent)
}
