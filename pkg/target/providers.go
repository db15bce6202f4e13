package target

import (
	"strings"

	"github.com/yaklabco/peek/pkg/fsutil"
)

// Provider ids understood by DefaultRegistry.
const (
	ProviderFiles       = "files"
	ProviderGitFiles    = "git_files"
	ProviderRecentFiles = "recent_files"
	ProviderHistory     = "history"
	ProviderCocLocation = "coc_location"
	ProviderGrep        = "grep"
	ProviderLiveGrep    = "live_grep"
	ProviderIGrep       = "igrep"
	ProviderDumbJump    = "dumb_jump"
	ProviderBlines      = "blines"
	ProviderTags        = "tags"
	ProviderProjTags    = "proj_tags"
	ProviderCommits     = "commits"
	ProviderBCommits    = "bcommits"
	ProviderHelpTags    = "help_tags"
	ProviderFiler       = "filer"
)

func registerBuiltins(reg *Registry) {
	reg.Register(resolveCwdFile, ProviderFiles, ProviderGitFiles)
	reg.Register(resolvePlainFile, ProviderRecentFiles)
	reg.Register(resolveHistory, ProviderHistory)
	reg.Register(resolveGrep, ProviderCocLocation, ProviderGrep, ProviderLiveGrep, ProviderIGrep)
	reg.Register(resolveDumbJump, ProviderDumbJump)
	reg.Register(bufferLine(ExtractBlinesLine), ProviderBlines)
	reg.Register(bufferLine(ExtractBufferTagLine), ProviderTags)
	reg.Register(resolveProjTags, ProviderProjTags)
	reg.Register(resolveCommit, ProviderCommits, ProviderBCommits)
	reg.Register(resolveHelpTags, ProviderHelpTags)
	reg.Register(resolveFiler, ProviderFiler)
}

func resolveCwdFile(line string, env Env) (Resolved, bool) {
	return Resolved{Target: File(fsutil.JoinCwd(env.Cwd, line))}, true
}

func resolvePlainFile(line string, _ Env) (Resolved, bool) {
	return Resolved{Target: File(line)}, true
}

func resolveHistory(line string, env Env) (Resolved, bool) {
	if strings.HasPrefix(line, "~") {
		return Resolved{Target: File(fsutil.ExpandTilde(line))}, true
	}
	return resolveCwdFile(line, env)
}

func resolveGrep(line string, env Env) (Resolved, bool) {
	pos, ok := ExtractGrepPosition(line)
	if !ok {
		return Resolved{}, false
	}

	path := fsutil.JoinCwd(env.Cwd, strings.TrimPrefix(pos.Path, "./"))
	observed := pos.Content

	return Resolved{Target: LineInFile(path, pos.Line), ObservedLine: &observed}, true
}

func resolveDumbJump(line string, env Env) (Resolved, bool) {
	pos, ok := ExtractJumpPosition(line)
	if !ok {
		return Resolved{}, false
	}
	return Resolved{Target: LineInFile(fsutil.JoinCwd(env.Cwd, pos.Path), pos.Line)}, true
}

// bufferLine resolves providers that list lines of the start buffer. A
// missing buffer path yields an invalid target, reported as ErrNoPath.
func bufferLine(extract func(string) (int, bool)) ResolveFunc {
	return func(line string, env Env) (Resolved, bool) {
		lnum, ok := extract(line)
		if !ok {
			return Resolved{}, false
		}
		if env.StartBufferPath == "" {
			return Resolved{}, true
		}
		return Resolved{Target: LineInFile(env.StartBufferPath, lnum)}, true
	}
}

func resolveProjTags(line string, env Env) (Resolved, bool) {
	lnum, path, ok := ExtractProjectTag(line)
	if !ok {
		return Resolved{}, false
	}
	return Resolved{Target: LineInFile(fsutil.JoinCwd(env.Cwd, path), lnum)}, true
}

func resolveCommit(line string, _ Env) (Resolved, bool) {
	rev, ok := ExtractCommitRevision(line)
	if !ok {
		return Resolved{}, false
	}
	return Resolved{Target: GitCommit(rev)}, true
}

func resolveHelpTags(line string, env Env) (Resolved, bool) {
	subject, doc, ok := ExtractHelpTag(line)
	if !ok {
		return Resolved{}, false
	}
	return Resolved{Target: HelpTags(subject, doc, env.Runtimepath)}, true
}

func resolveFiler(line string, env Env) (Resolved, bool) {
	if strings.TrimSpace(line) == "" {
		return Resolved{}, false
	}

	path := fsutil.JoinCwd(env.Cwd, line)
	if fsutil.IsDir(path) {
		return Resolved{Target: Directory(path)}, true
	}
	return Resolved{Target: File(path)}, true
}
