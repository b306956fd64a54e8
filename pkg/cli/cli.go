package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/spf13/cobra"
)

// UsageError is returned when a command is invoked with the wrong positional arguments
// or with flags that could not be parsed.
type UsageError struct {
	Usage string
	Got   int
	Err   error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid number of arguments: %d", e.Got)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExactArgs accepts exactly n positional arguments and reports a *UsageError otherwise.
func ExactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Usage: usage, Got: len(args)}
		}
		return nil
	}
}

// FlagErrorUsage turns flag parsing errors into a *UsageError carrying usage.
func FlagErrorUsage(usage string) func(cmd *cobra.Command, err error) error {
	return func(cmd *cobra.Command, err error) error {
		return &UsageError{Usage: usage, Got: len(cmd.Flags().Args()), Err: err}
	}
}

// AsUsageError finds a *UsageError in the chain of err.
func AsUsageError(err error) (*UsageError, bool) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return usageErr, true
	}
	return nil, false
}

func WrapRunE(log *logger.Logger, fn func(log *logger.Logger, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(log, cmd, args); err != nil {
			log.Errorf("ERROR: %v", err)
			return err
		}
		return nil
	}
}

func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func MustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	Must(err)
	return val
}

func MustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	Must(err)
	return val
}

func GetBuildInfo() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "(no build info available)"
	}
	commit := "unknown commit"
	commitDate := "unknown date"
	dirty := ""
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > 8 {
				commit = commit[:8]
			}
		case "vcs.time":
			commitDate = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				dirty = " (dirty)"
			}
		}
	}
	return fmt.Sprintf("revision: %s (%s)%s", commit, commitDate, dirty)
}

func GetRelativePath(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	relP, err := filepath.Rel(cwd, p)
	if err != nil {
		return p
	}
	return relP
}
