package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps category headers to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"Added":   {Color: color.New(color.FgGreen), Icon: "✓"},
	"Changed": {Color: color.New(color.FgBlue), Icon: "~"},
	"Fixed":   {Color: color.New(color.FgYellow), Icon: "⚡"},
}

// FormatOptions controls the terminal preview.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// ResolvePlain reports whether output to w should be plain: either requested,
// or w is not a terminal.
func ResolvePlain(requested bool, w io.Writer) bool {
	if requested {
		return true
	}
	_, ok := terminalFd(w)
	return !ok
}

// terminalFd returns the file descriptor of w when w is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// FormatPreview writes the new entry and compare line for the user to review.
// Plain output is the exact text that goes into the file.
func FormatPreview(w io.Writer, entry *LogEntry, compareLine string, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\nAdded log entry:\n\n%s", entry.Render())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Added new compare link:\n\n%s", compareLine)
		return err
	}

	width := resolveWidth(w, opts.MaxWidth)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(w, "\n%s\n\n", dim("Added log entry:"))
	fmt.Fprintf(w, "%s\n", bold(formatEntryHeader(entry.Version, entry.Date)))

	for _, cat := range []struct {
		name  string
		items []string
	}{
		{"Added", entry.Added},
		{"Changed", entry.Changed},
		{"Fixed", entry.Fixed},
	} {
		if len(cat.items) > 0 {
			writeCategorySection(w, cat.name, cat.items, width)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", dim("Added new compare link:"))
	_, err := fmt.Fprint(w, color.New(color.FgCyan).Sprint(compareLine))
	return err
}

// writeCategorySection writes a single category with its items.
func writeCategorySection(w io.Writer, name string, items []string, width int) {
	style := categoryStyles[name]
	colored := style.Color.SprintFunc()

	fmt.Fprintf(w, "%s %s\n", colored(style.Icon), colored(name))

	prefix := "  - "
	for _, item := range items {
		wrapped := wrapText(item, width-len(prefix), "    ")
		fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	}
}

// resolveWidth returns maxWidth when set, otherwise the width of the
// terminal behind w, falling back to 80 columns.
func resolveWidth(w io.Writer, maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if fd, ok := terminalFd(w); ok {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			return cols
		}
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

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
