package gitutils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// HunkSource identifies which snapshot a hunk was parsed from.
type HunkSource string

const (
	WorkingSource HunkSource = "working"
	StagedSource  HunkSource = "staged"
)

// LineKind tags one line of a hunk.
type LineKind byte

const (
	ContextLine LineKind = ' '
	AddedLine   LineKind = '+'
	RemovedLine LineKind = '-'
)

// HunkLine is one line-level change within a hunk. Line is the resolved line
// number: new-file numbering for added/context lines, old-file numbering for
// removed lines.
type HunkLine struct {
	Kind LineKind
	Text string
	Line int
}

// ChangeHunk is one contiguous diff chunk within one file.
//
// IDs are derived from file path, source and ordinal index within that file,
// so they are unique within one snapshot and stable only for its lifetime;
// recompute after any change to the working tree.
type ChangeHunk struct {
	ID       string
	File     string
	Source   HunkSource
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []HunkLine
	Summary  string
	Added    int
	Removed  int
}

// GetWorkingChangesAsHunks parses the full working diff into hunks.
func (r *Repo) GetWorkingChangesAsHunks(ctx context.Context) (hunks []ChangeHunk, err error) {
	var diff string

	diff, _, err = r.GetWorkingDiff(ctx, DefaultContextLines)
	if err != nil {
		goto end
	}
	hunks = ParseHunks(diff, WorkingSource)

end:
	return hunks, err
}

// GetStagedChangesAsHunks parses the index diff into hunks.
func (r *Repo) GetStagedChangesAsHunks(ctx context.Context) (hunks []ChangeHunk, err error) {
	var diff StagedDiff
	var ok bool

	diff, ok, err = r.GetStagedDiff(ctx, StagedDiffArgs{})
	if err != nil || !ok {
		goto end
	}
	hunks = ParseHunks(diff.DiffText, StagedSource)

end:
	return hunks, err
}

// ParseHunks splits a raw unified diff into ChangeHunks. Lines it does not
// understand (mode changes, binary notices, index lines) are skipped; a
// malformed hunk header ends the current file section rather than failing,
// since git's own output is the only expected producer.
func ParseHunks(diffText string, source HunkSource) (hunks []ChangeHunk) {
	var file string
	var fileOrdinal int
	var current *ChangeHunk
	var oldLine, newLine int

	flush := func() {
		if current == nil {
			return
		}
		current.Summary = summarizeHunk(*current)
		hunks = append(hunks, *current)
		current = nil
	}

	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			file = ""
			fileOrdinal = 0

		case strings.HasPrefix(line, "+++ "):
			name := strings.TrimPrefix(line, "+++ ")
			name = strings.TrimPrefix(name, "b/")
			if name != "/dev/null" {
				file = name
			}

		case strings.HasPrefix(line, "--- "):
			// Deleted files have +++ /dev/null; fall back to the old name.
			if file == "" {
				name := strings.TrimPrefix(line, "--- ")
				name = strings.TrimPrefix(name, "a/")
				if name != "/dev/null" {
					file = name
				}
			}

		case strings.HasPrefix(line, "@@ "):
			flush()
			if file == "" {
				continue
			}
			h, parseOK := parseHunkHeader(line)
			if !parseOK {
				file = ""
				continue
			}
			h.File = file
			h.Source = source
			h.ID = HunkID(file, source, fileOrdinal)
			fileOrdinal++
			oldLine = h.OldStart
			newLine = h.NewStart
			current = &h

		default:
			// Git prefixes even blank context lines with a space, so a
			// truly empty line is only the trailing newline artifact.
			if current == nil || len(line) == 0 {
				continue
			}
			switch line[0] {
			case '+':
				current.Lines = append(current.Lines, HunkLine{Kind: AddedLine, Text: line[1:], Line: newLine})
				current.Added++
				newLine++
			case '-':
				current.Lines = append(current.Lines, HunkLine{Kind: RemovedLine, Text: line[1:], Line: oldLine})
				current.Removed++
				oldLine++
			case ' ':
				current.Lines = append(current.Lines, HunkLine{Kind: ContextLine, Text: line[1:], Line: newLine})
				oldLine++
				newLine++
			case '\\':
				// "\ No newline at end of file"
			default:
				flush()
			}
		}
	}
	flush()

	return hunks
}

// HunkID builds the stable-within-snapshot identifier for a hunk.
func HunkID(file string, source HunkSource, ordinal int) string {
	return fmt.Sprintf("%s@%s#%d", file, source, ordinal)
}

// parseHunkHeader parses "@@ -oldStart,oldCount +newStart,newCount @@ ...".
func parseHunkHeader(line string) (h ChangeHunk, ok bool) {
	var fields []string
	var oldPart, newPart string

	fields = strings.SplitN(line, "@@", 3)
	if len(fields) < 3 {
		goto end
	}

	fields = strings.Fields(strings.TrimSpace(fields[1]))
	if len(fields) != 2 {
		goto end
	}
	oldPart = strings.TrimPrefix(fields[0], "-")
	newPart = strings.TrimPrefix(fields[1], "+")

	h.OldStart, h.OldCount, ok = parseRange(oldPart)
	if !ok {
		goto end
	}
	h.NewStart, h.NewCount, ok = parseRange(newPart)

end:
	return h, ok
}

// parseRange parses "start,count" where ",count" defaults to 1.
func parseRange(s string) (start, count int, ok bool) {
	var err error

	count = 1
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		count, err = strconv.Atoi(s[idx+1:])
		if err != nil {
			goto end
		}
		s = s[:idx]
	}
	start, err = strconv.Atoi(s)
	if err != nil {
		goto end
	}
	ok = true

end:
	return start, count, ok
}

// summarizeHunk derives a short human summary from the first changed lines.
func summarizeHunk(h ChangeHunk) (summary string) {
	const maxLen = 80

	for _, l := range h.Lines {
		if l.Kind == ContextLine {
			continue
		}
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		summary = fmt.Sprintf("%c %s", l.Kind, text)
		break
	}
	if summary == "" {
		summary = fmt.Sprintf("%s:%d", h.File, h.NewStart)
	}
	if len(summary) > maxLen {
		summary = summary[:maxLen-3] + "..."
	}
	return summary
}

// FormatPatch reconstructs a unified diff from hunks, grouped per file in
// input order, suitable for `git apply --cached`.
func FormatPatch(hunks []ChangeHunk) string {
	var b strings.Builder
	var lastFile string

	for _, h := range hunks {
		if h.File != lastFile {
			fmt.Fprintf(&b, "diff --git a/%s b/%s\n", h.File, h.File)
			fmt.Fprintf(&b, "--- a/%s\n", h.File)
			fmt.Fprintf(&b, "+++ b/%s\n", h.File)
			lastFile = h.File
		}
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			fmt.Fprintf(&b, "%c%s\n", l.Kind, l.Text)
		}
	}
	return b.String()
}
