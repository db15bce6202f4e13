package target

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	grepPattern     = regexp.MustCompile(`^(.*?):(\d+):(\d+):(.*)$`)
	jumpPattern     = regexp.MustCompile(`^\[(\w+)\]\s*(.*?):(\d+):(\d+):`)
	blinesPattern   = regexp.MustCompile(`^\s*(\d+)`)
	bufTagsPattern  = regexp.MustCompile(`^.*?:(\d+)`)
	projTagsPattern = regexp.MustCompile(`^(.*):(\d+).*\[(.*)@(.*?)\]`)
	commitPattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+([0-9a-z]+)\s+`)
)

// GrepPosition is a match parsed from a "path:line:column:content" line.
type GrepPosition struct {
	Path    string
	Line    int
	Column  int
	Content string
}

// ExtractGrepPosition parses a vimgrep-style result line.
func ExtractGrepPosition(line string) (GrepPosition, bool) {
	m := grepPattern.FindStringSubmatch(line)
	if m == nil || m[1] == "" {
		return GrepPosition{}, false
	}

	lnum, ok := atoi(m[2])
	if !ok {
		return GrepPosition{}, false
	}
	col, ok := atoi(m[3])
	if !ok {
		return GrepPosition{}, false
	}

	return GrepPosition{Path: m[1], Line: lnum, Column: col, Content: m[4]}, true
}

// JumpPosition is a definition or reference parsed from a jump listing.
type JumpPosition struct {
	Kind   string
	Path   string
	Line   int
	Column int
}

// ExtractJumpPosition parses a "[kind] path:line:column:..." line.
func ExtractJumpPosition(line string) (JumpPosition, bool) {
	m := jumpPattern.FindStringSubmatch(line)
	if m == nil || m[2] == "" {
		return JumpPosition{}, false
	}

	lnum, ok := atoi(m[3])
	if !ok {
		return JumpPosition{}, false
	}
	col, ok := atoi(m[4])
	if !ok {
		return JumpPosition{}, false
	}

	return JumpPosition{Kind: m[1], Path: m[2], Line: lnum, Column: col}, true
}

// ExtractBlinesLine parses the leading line number of a buffer-lines result.
func ExtractBlinesLine(line string) (int, bool) {
	return firstNumber(blinesPattern, line)
}

// ExtractBufferTagLine parses the line number of a buffer-tags result.
func ExtractBufferTagLine(line string) (int, bool) {
	return firstNumber(bufTagsPattern, line)
}

// ExtractProjectTag parses a "name:line [kind@path]" project-tags line and
// returns the line and path.
func ExtractProjectTag(line string) (int, string, bool) {
	m := projTagsPattern.FindStringSubmatch(line)
	if m == nil || m[4] == "" {
		return 0, "", false
	}

	lnum, ok := atoi(m[2])
	if !ok {
		return 0, "", false
	}

	return lnum, m[4], true
}

// ExtractCommitRevision parses the revision that follows the date column of
// a commit listing.
func ExtractCommitRevision(line string) (string, bool) {
	m := commitPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractHelpTag splits a help-tags line into the subject (first field) and
// the help file that defines it (last field).
func ExtractHelpTag(line string) (string, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[len(fields)-1], true
}

// StripIcon removes a leading "<glyph> " prefix added when icons are shown.
// Lines that start with an ASCII character are returned unchanged.
func StripIcon(line string) string {
	r, size := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError || r < utf8.RuneSelf {
		return line
	}
	if rest := line[size:]; strings.HasPrefix(rest, " ") {
		return rest[1:]
	}
	return line
}

func firstNumber(re *regexp.Regexp, line string) (int, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return atoi(m[1])
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
