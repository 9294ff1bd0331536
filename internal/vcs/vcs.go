// Package vcs wraps the git subprocess invocations shared by the coupling
// engines, history search, and drift detection: log, grep, and show.
// Grounded on the teacher's internal/git package (history.go's GetFileHistory
// exec.CommandContext idiom, diff.go's porcelain parsing).
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Commit is a single log entry: hash, subject, author name, author email,
// and ISO date.
type Commit struct {
	Hash    string
	Subject string
	Author  string
	Email   string
	Date    string
}

func run(ctx context.Context, repoRoot string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoRoot
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

const logFormat = "%H\x1f%s\x1f%an\x1f%ae\x1f%aI"

func parseLogLines(output string) []Commit {
	var commits []Commit
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 5)
		if len(parts) != 5 {
			continue
		}
		commits = append(commits, Commit{Hash: parts[0], Subject: parts[1], Author: parts[2], Email: parts[3], Date: parts[4]})
	}
	return commits
}

// FileLog returns the commit log touching path, newest first, capped at
// maxCount entries.
func FileLog(ctx context.Context, repoRoot, path string, maxCount int) ([]Commit, error) {
	out, err := run(ctx, repoRoot, "log", "--max-count", strconv.Itoa(maxCount), "--format="+logFormat, "--", path)
	if err != nil {
		return nil, err
	}
	return parseLogLines(out), nil
}

// ChangedFiles returns the list of files touched by sha.
func ChangedFiles(ctx context.Context, repoRoot, sha string) ([]string, error) {
	out, err := run(ctx, repoRoot, "show", "--name-only", "--format=", sha)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// ShowFileDiff returns the diff introduced by sha, restricted to path when
// path is non-empty, with three lines of context, truncated to maxChars
// characters. An empty path shows the commit's full diff across every file
// it touched — "--" followed by an empty pathspec is rejected by git, so the
// pathspec restriction is omitted entirely rather than passed as "".
func ShowFileDiff(ctx context.Context, repoRoot, sha, path string, maxChars int) (string, error) {
	args := []string{"show", "-U3", sha}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := run(ctx, repoRoot, args...)
	if err != nil {
		return "", err
	}
	if len(out) > maxChars {
		return out[:maxChars], nil
	}
	return out, nil
}

// GrepOptions configures GrepFiles.
type GrepOptions struct {
	FixedString   bool // -F
	ExtendedRegex bool // -E
	IgnoreCase    bool // -i
	Globs         []string // pathspec magic, e.g. "*.md", "**/*.md"
}

// GrepFiles runs `git grep -l --untracked --no-optional-locks` for pattern,
// returning matching file paths from the working tree, tracked and untracked
// (files excluded by .gitignore are not searched). A no-match exit status
// (1) is not an error — it yields an empty slice. --no-optional-locks lets
// concurrent grep invocations share the working tree safely (§6).
func GrepFiles(ctx context.Context, repoRoot, pattern string, opts GrepOptions) ([]string, error) {
	args := []string{"--no-optional-locks", "grep", "-l", "--untracked"}
	if opts.FixedString {
		args = append(args, "-F")
	}
	if opts.ExtendedRegex {
		args = append(args, "-E")
	}
	if opts.IgnoreCase {
		args = append(args, "-i")
	}
	args = append(args, "-e", pattern)
	if len(opts.Globs) > 0 {
		args = append(args, "--")
		args = append(args, opts.Globs...)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoRoot
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// ListFiles runs `git ls-files` over tracked and untracked, non-ignored
// files restricted to the given pathspecs, letting callers locate files by
// name pattern (e.g. test-naming conventions) rather than by content.
func ListFiles(ctx context.Context, repoRoot string, pathspecs []string) ([]string, error) {
	args := append([]string{"ls-files", "--cached", "--others", "--exclude-standard", "--"}, pathspecs...)
	out, err := run(ctx, repoRoot, args...)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// ReadFile returns path's content as committed at HEAD, or its working-tree
// content when path is not in HEAD.
func ReadFile(ctx context.Context, repoRoot, path string) (string, error) {
	out, err := run(ctx, repoRoot, "show", "HEAD:"+path)
	if err == nil {
		return out, nil
	}
	// Fall back to the working tree for untracked/uncommitted content.
	data, ferr := readWorkingTree(repoRoot, path)
	if ferr != nil {
		return "", err
	}
	return data, nil
}

// LogFilters carries the optional since/until/author restrictions §6 says
// the core applies at the VCS level rather than after parsing.
type LogFilters struct {
	Since  string
	Until  string
	Author string
}

func (f LogFilters) args() []string {
	var args []string
	if f.Since != "" {
		args = append(args, "--since", f.Since)
	}
	if f.Until != "" {
		args = append(args, "--until", f.Until)
	}
	if f.Author != "" {
		args = append(args, "--author", f.Author)
	}
	return args
}

// LogGrep searches commit messages (git log --grep -i).
func LogGrep(ctx context.Context, repoRoot, query string, maxCount int, filters LogFilters) ([]Commit, error) {
	args := []string{"log", "--max-count", strconv.Itoa(maxCount), "--format=" + logFormat, "--grep", query, "-i"}
	args = append(args, filters.args()...)
	out, err := run(ctx, repoRoot, args...)
	if err != nil {
		return nil, err
	}
	return parseLogLines(out), nil
}

// LogPickaxe searches diff content for query (git log -S, "pickaxe").
func LogPickaxe(ctx context.Context, repoRoot, query, path string, maxCount int, filters LogFilters) ([]Commit, error) {
	args := []string{"log", "--max-count", strconv.Itoa(maxCount), "--format=" + logFormat, "-S", query}
	args = append(args, filters.args()...)
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := run(ctx, repoRoot, args...)
	if err != nil {
		return nil, err
	}
	return parseLogLines(out), nil
}

// LogLineRange runs `git log -L start,end:path --format=<logFormat>`. The
// log format is interleaved with the diff hunks `-L` prints; ParseLineRangeLog
// below keeps only lines that match the commit-record format.
func LogLineRange(ctx context.Context, repoRoot, path string, start, end int) (string, error) {
	rangeArg := fmt.Sprintf("%d,%d:%s", start, end, path)
	return run(ctx, repoRoot, "log", "--format="+logFormat, "-L", rangeArg)
}

// ParseLineRangeLog extracts commit records from LogLineRange's raw output,
// ignoring the interleaved diff-hunk content (§4.8 line-range mode).
func ParseLineRangeLog(raw string) []Commit {
	return parseLogLines(raw)
}
