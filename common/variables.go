package common

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	LOCKBOM_HOME_VARIABLE = `LOCKBOM_HOME`
)

var (
	LogLinenumbers bool
	LogHides       []string

	silentFlag bool
	debugFlag  bool
	traceFlag  bool

	forcedHome string
)

// DefineVerbosity is the single place where command line verbosity
// flags become effective.
func DefineVerbosity(silent, debug, trace bool) {
	silentFlag = silent
	debugFlag = debug
	traceFlag = trace
}

func Silent() bool {
	return silentFlag && !debugFlag && !traceFlag
}

func DebugFlag() bool {
	return debugFlag || traceFlag
}

func TraceFlag() bool {
	return traceFlag
}

// ForceHome overrides the lockbom home directory for this process.
func ForceHome(value string) {
	forcedHome = value
}

// Home is the directory where settings and persistent configuration
// live. Precedence: ForceHome, then $LOCKBOM_HOME, then ~/.lockbom.
func Home() string {
	if len(forcedHome) > 0 {
		return ExpandPath(forcedHome)
	}
	if value := os.Getenv(LOCKBOM_HOME_VARIABLE); len(value) > 0 {
		return ExpandPath(value)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lockbom")
	}
	return filepath.Join(home, ".lockbom")
}

func ExpandPath(entry string) string {
	intermediate := os.ExpandEnv(entry)
	result, err := filepath.Abs(intermediate)
	if err != nil {
		return intermediate
	}
	return result
}

func EnsureDirectory(directory string) (string, error) {
	fullpath := ExpandPath(directory)
	err := os.MkdirAll(fullpath, 0o750)
	if err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", fullpath, err)
	}
	return fullpath, nil
}
