package changelog

import "errors"

// Sentinel errors returned by the changelog package. Callers match them with
// errors.Is; the messages are wrapped with context where they are produced.
var (
	// ErrInvalidVersionFormat is returned when text is not three dot-separated
	// groups of 1-3 digits.
	ErrInvalidVersionFormat = errors.New("invalid version format")

	// ErrInvalidDate is returned when a date is not a real YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrEmptyEntry is returned when an entry has no added, changed or fixed items.
	ErrEmptyEntry = errors.New("no log entries provided")

	// ErrNoVersionFound is returned when no version heading exists in the file.
	ErrNoVersionFound = errors.New("no version found in changelog")

	// ErrNoExistingEntries is returned when there is no version heading to
	// insert the new entry before.
	ErrNoExistingEntries = errors.New("no records in changelog file")

	// ErrNoCompareLinks is returned when the file has no trailing compare links.
	ErrNoCompareLinks = errors.New("no compare links found")

	// ErrCompareBlockAtFileStart is returned when the compare link block
	// extends to the first line of the file.
	ErrCompareBlockAtFileStart = errors.New("compare links go to start of file")

	// ErrMalformedCompareLine is returned when a compare link lacks the
	// "[x.y.z]:" label or the "/compare/" separator.
	ErrMalformedCompareLine = errors.New("malformed compare link")

	// ErrPromptAborted is returned when interactive input ends before an
	// entry could be completed.
	ErrPromptAborted = errors.New("input ended before entry was complete")
)
