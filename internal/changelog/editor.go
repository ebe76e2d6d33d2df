package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

var compareLinkPattern = regexp.MustCompile(`^\[\d{1,3}\.\d{1,3}\.\d{1,3}\]`)

const compareSeparator = "/compare/"

// SplitLines splits content into lines that keep their trailing newline.
// Joining the result reproduces content byte for byte.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines concatenates newline-preserving lines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "")
}

// IsCompareLink reports whether line is a "[x.y.z]: ..." link reference.
func IsCompareLink(line string) bool {
	return compareLinkPattern.MatchString(line)
}

// FindInsertionIndex returns the index of the first version heading after the
// title line. The new entry is inserted there, so anything between the title
// and the first release (e.g. an Unreleased section) stays above it.
func FindInsertionIndex(lines []string) (int, error) {
	for i := 1; i < len(lines); i++ {
		if IsVersionHeading(lines[i]) {
			return i, nil
		}
	}
	return 0, ErrNoExistingEntries
}

// FindCompareBlockStart returns the index of the first line of the trailing
// block of compare links. Line 0 is the title and is never part of the block.
func FindCompareBlockStart(lines []string) (int, error) {
	last := len(lines) - 1
	for last > 0 && !IsCompareLink(lines[last]) {
		last--
	}
	if last <= 0 {
		return 0, ErrNoCompareLinks
	}

	first := last
	for first > 0 && IsCompareLink(lines[first-1]) {
		first--
	}
	if first == 0 {
		return 0, ErrCompareBlockAtFileStart
	}
	return first, nil
}

// SynthesizeCompareLine derives the compare link for next from an existing one.
// Given "[1.0.1]: https://host/repo/compare/v1.0.0...v1.0.1" it produces
// "[1.0.2]: https://host/repo/compare/v1.0.1...v1.0.2\n" for current 1.0.1.
func SynthesizeCompareLine(existing string, current, next Version) (string, error) {
	head, _, found := strings.Cut(existing, compareSeparator)
	if !found {
		return "", fmt.Errorf("%w: missing %q in %q", ErrMalformedCompareLine, compareSeparator, strings.TrimSpace(existing))
	}

	_, base, found := strings.Cut(head, ":")
	if !found {
		return "", fmt.Errorf("%w: missing label in %q", ErrMalformedCompareLine, strings.TrimSpace(existing))
	}

	head = fmt.Sprintf("[%s]:%s", next, base)
	tail := fmt.Sprintf("v%s...v%s\n", current, next)
	return head + compareSeparator + tail, nil
}

// Assemble splices the rendered entry and the new compare line into lines.
// The input slice is not modified.
func Assemble(lines []string, insertionIndex, compareIndex int, rendered, compareLine string) []string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:insertionIndex]...)
	out = append(out, rendered)
	out = append(out, lines[insertionIndex:compareIndex]...)
	out = append(out, compareLine)
	out = append(out, lines[compareIndex:]...)
	return out
}

// Spans holds the two splice points located in a changelog.
type Spans struct {
	Insertion    int
	CompareBlock int
}

// Editor holds the lines of one changelog file and performs the splice.
type Editor struct {
	lines []string
}

// NewEditor splits content into lines for editing.
func NewEditor(content string) *Editor {
	return &Editor{lines: SplitLines(content)}
}

// Lines returns the editor's line buffer. Callers must not modify it.
func (e *Editor) Lines() []string {
	return e.lines
}

// Locate finds the insertion point and the start of the compare link block.
func (e *Editor) Locate() (Spans, error) {
	insertion, err := FindInsertionIndex(e.lines)
	if err != nil {
		return Spans{}, err
	}

	compare, err := FindCompareBlockStart(e.lines)
	if err != nil {
		return Spans{}, err
	}

	if compare < insertion {
		return Spans{}, fmt.Errorf("%w: compare links at line %d precede first entry at line %d",
			ErrNoCompareLinks, compare+1, insertion+1)
	}

	return Spans{Insertion: insertion, CompareBlock: compare}, nil
}

// CompareLineAt returns the first line of the compare block.
func (e *Editor) CompareLineAt(s Spans) string {
	return e.lines[s.CompareBlock]
}

// Apply returns the full new file content.
func (e *Editor) Apply(s Spans, rendered, compareLine string) string {
	return JoinLines(Assemble(e.lines, s.Insertion, s.CompareBlock, rendered, compareLine))
}
