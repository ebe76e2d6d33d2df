package changelog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the Go time layout for changelog entry dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LogEntry is one release section: a version, its date, and the items added,
// changed and fixed in that release. Items keep their input order.
type LogEntry struct {
	Version string
	Date    string
	Added   []string
	Changed []string
	Fixed   []string
}

// NewLogEntry builds an entry, failing with ErrEmptyEntry when added, changed
// and fixed are all empty.
func NewLogEntry(version, date string, added, changed, fixed []string) (*LogEntry, error) {
	if len(added) == 0 && len(changed) == 0 && len(fixed) == 0 {
		return nil, ErrEmptyEntry
	}

	return &LogEntry{
		Version: version,
		Date:    date,
		Added:   added,
		Changed: changed,
		Fixed:   fixed,
	}, nil
}

// Render formats the entry as a Keep a Changelog section:
//
//	## [1.2.4] - 2026-01-15
//	### Added
//	- Feature A
//
// Empty categories are omitted. The result always ends with a blank line so
// the following section stays separated.
func (e *LogEntry) Render() string {
	sections := []string{formatEntryHeader(e.Version, e.Date)}

	categories := []struct {
		name  string
		items []string
	}{
		{"Added", e.Added},
		{"Changed", e.Changed},
		{"Fixed", e.Fixed},
	}

	for _, cat := range categories {
		if len(cat.items) > 0 {
			sections = append(sections, renderCategory(cat.name, cat.items))
		}
	}

	return strings.Join(sections, "\n") + "\n\n"
}

// Count returns the total number of items across all categories.
func (e *LogEntry) Count() int {
	return len(e.Added) + len(e.Changed) + len(e.Fixed)
}

func formatEntryHeader(version, date string) string {
	return fmt.Sprintf("## [%s] - %s", version, date)
}

func renderCategory(name string, items []string) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "### "+name)
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// ValidateDate checks that date is a real calendar date in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("%w: %q (expected: YYYY-MM-DD)", ErrInvalidDate, date)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDate, date)
	}
	return nil
}

// Today returns now formatted as an entry date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
