package build

import (
	"flag"
	"os"
	"strings"
)

var (
	gitCommitFlag = flag.String("git-commit", "", `overrides git commit hash embedded into executables`)
	gitDateFlag   = flag.String("git-date", "", `overrides git commit date embedded into executables`)
)

// Environment contains metadata embedded into executables
type Environment struct {
	Commit string
	Date   string // YYYYMMDD
}

// Env returns metadata from flags, then the GIT_COMMIT / GIT_DATE
// environment variables, then the local git checkout.
func Env() *Environment {
	env := &Environment{
		Commit: firstNonEmpty(*gitCommitFlag, os.Getenv("GIT_COMMIT")),
		Date:   firstNonEmpty(*gitDateFlag, os.Getenv("GIT_DATE")),
	}
	if env.Commit == "" {
		env.Commit = headCommit()
	}
	if env.Commit != "" && env.Date == "" {
		env.Date = RunGit("show", "-s", "--format=%cd", "--date=format:%Y%m%d", env.Commit)
	}
	return env
}

func headCommit() string {
	head := readGitFile("HEAD")
	if !strings.HasPrefix(head, "ref: ") {
		return head
	}
	return readGitFile(strings.TrimPrefix(head, "ref: "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
