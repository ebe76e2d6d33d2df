// Package changelog edits Keep a Changelog markdown files in place of a
// generator: it reads an existing CHANGELOG.md as lines and splices in a new
// release section and its compare link without touching anything else.
//
// This package implements:
//   - Version parsing, ordering and incrementing for "## [x.y.z]" headings
//   - LogEntry rendering of Added, Changed and Fixed sections
//   - Locating the insertion point and the trailing compare link block
//   - Deriving the new compare link from the newest existing one
//   - Interactive entry prompting and a colored terminal preview
package changelog
