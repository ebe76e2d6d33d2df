package changelog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Prompter reads free-text answers line by line from an input stream and
// writes prompts to an output stream.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	now     func() time.Time
}

// NewPrompter creates a prompter reading from in and prompting on out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
	}
}

// WithClock overrides the clock used for the default date.
func (p *Prompter) WithClock(now func() time.Time) *Prompter {
	p.now = now
	return p
}

// Ask prints label and returns the next input line without its newline.
// Returns io.EOF when the input is exhausted.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// AskList reads lines until a blank line and returns the non-blank ones.
// EOF ends the list like a blank line does.
func (p *Prompter) AskList(label string) ([]string, bool, error) {
	var items []string
	for {
		answer, err := p.Ask(label)
		if err == io.EOF {
			return items, true, nil
		}
		if err != nil {
			return items, false, err
		}
		if answer == "" {
			return items, false, nil
		}
		items = append(items, answer)
	}
}

// AskDate asks for an entry date. A blank answer (or EOF) means fallback,
// or today when fallback is empty; an invalid date is reported and asked again.
func (p *Prompter) AskDate(fallback string) (string, error) {
	if fallback == "" {
		fallback = Today(p.now())
	}
	for {
		answer, err := p.Ask("Date?: ")
		if err == io.EOF || (err == nil && answer == "") {
			return fallback, nil
		}
		if err != nil {
			return "", err
		}
		if verr := ValidateDate(answer); verr != nil {
			fmt.Fprintf(p.out, "'%s' is not a valid date (expected YYYY-MM-DD)\n", answer)
			continue
		}
		return answer, nil
	}
}

// PromptLogEntry builds an entry for version interactively. It asks for a
// date (blank keeps defaultDate), then for added, changed and fixed items in
// that order, each list ending at a blank line. The three lists are asked
// again until at least one item has been entered in any category.
func PromptLogEntry(p *Prompter, version, defaultDate string) (*LogEntry, error) {
	date, err := p.AskDate(defaultDate)
	if err != nil {
		return nil, err
	}

	var added, changed, fixed []string
	for {
		for _, cat := range []struct {
			label string
			items *[]string
		}{
			{"Added?: ", &added},
			{"Changed?: ", &changed},
			{"Fixed?: ", &fixed},
		} {
			items, eof, err := p.AskList(cat.label)
			if err != nil {
				return nil, err
			}
			*cat.items = append(*cat.items, items...)
			if eof {
				return finishPrompt(version, date, added, changed, fixed)
			}
		}

		if len(added) > 0 || len(changed) > 0 || len(fixed) > 0 {
			return NewLogEntry(version, date, added, changed, fixed)
		}
		fmt.Fprintln(p.out, "You need to enter some additions, fixes or changes")
	}
}

// finishPrompt completes an entry when input ran out mid-prompt.
func finishPrompt(version, date string, added, changed, fixed []string) (*LogEntry, error) {
	entry, err := NewLogEntry(version, date, added, changed, fixed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPromptAborted, err)
	}
	return entry, nil
}
