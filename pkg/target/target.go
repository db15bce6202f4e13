// Package target turns raw result lines from search providers into
// structured preview targets.
package target

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which variant of Target is active.
type Kind int

// Target variants.
const (
	KindDirectory Kind = iota + 1
	KindFile
	KindLineInFile
	KindGitCommit
	KindHelpTags
)

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindLineInFile:
		return "line_in_file"
	case KindGitCommit:
		return "git_commit"
	case KindHelpTags:
		return "help_tags"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// HelpTopic locates a subject in the editor's help documentation.
type HelpTopic struct {
	Subject     string `json:"subject"`
	DocFilename string `json:"doc_filename"`
	Runtimepath string `json:"runtimepath"`
}

// Target describes what to preview. It is a comparable value and is used
// directly as a cache key. Build one with the variant constructors; the
// zero value is not a valid target.
type Target struct {
	kind     Kind
	path     string
	line     int
	revision string
	help     HelpTopic
}

// Directory targets the listing of a directory.
func Directory(path string) Target {
	return Target{kind: KindDirectory, path: path}
}

// File targets the start of a file.
func File(path string) Target {
	return Target{kind: KindFile, path: path}
}

// LineInFile targets a 1-based line of a file.
func LineInFile(path string, line int) Target {
	return Target{kind: KindLineInFile, path: path, line: line}
}

// GitCommit targets a revision shown with git.
func GitCommit(revision string) Target {
	return Target{kind: KindGitCommit, revision: revision}
}

// HelpTags targets a subject in the help documentation.
func HelpTags(subject, docFilename, runtimepath string) Target {
	return Target{kind: KindHelpTags, help: HelpTopic{
		Subject:     subject,
		DocFilename: docFilename,
		Runtimepath: runtimepath,
	}}
}

// Kind returns the active variant.
func (t Target) Kind() Kind {
	return t.kind
}

// IsValid reports whether t was built by one of the variant constructors.
func (t Target) IsValid() bool {
	return t.kind >= KindDirectory && t.kind <= KindHelpTags
}

// Path returns the filesystem path of Directory, File and LineInFile
// targets. It reports false for the other variants.
func (t Target) Path() (string, bool) {
	switch t.kind {
	case KindDirectory, KindFile, KindLineInFile:
		return t.path, true
	default:
		return "", false
	}
}

// Line returns the 1-based line of a LineInFile target, or 0.
func (t Target) Line() int {
	return t.line
}

// Revision returns the revision of a GitCommit target.
func (t Target) Revision() string {
	return t.revision
}

// Help returns the topic of a HelpTags target.
func (t Target) Help() HelpTopic {
	return t.help
}

// String renders the target for logs and terminal output.
func (t Target) String() string {
	switch t.kind {
	case KindDirectory, KindFile:
		return fmt.Sprintf("%s(%s)", t.kind, t.path)
	case KindLineInFile:
		return fmt.Sprintf("%s(%s:%d)", t.kind, t.path, t.line)
	case KindGitCommit:
		return fmt.Sprintf("%s(%s)", t.kind, t.revision)
	case KindHelpTags:
		return fmt.Sprintf("%s(%s in %s)", t.kind, t.help.Subject, t.help.DocFilename)
	default:
		return "invalid target"
	}
}

type targetJSON struct {
	Kind     string     `json:"kind"`
	Path     string     `json:"path,omitempty"`
	Line     int        `json:"line,omitempty"`
	Revision string     `json:"revision,omitempty"`
	Help     *HelpTopic `json:"help,omitempty"`
}

// MarshalJSON encodes the target with its kind and the fields it carries.
func (t Target) MarshalJSON() ([]byte, error) {
	out := targetJSON{
		Kind:     t.kind.String(),
		Path:     t.path,
		Line:     t.line,
		Revision: t.revision,
	}
	if t.kind == KindHelpTags {
		help := t.help
		out.Help = &help
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode target: %w", err)
	}
	return data, nil
}
