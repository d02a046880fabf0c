package pretty

import (
	"fmt"

	"github.com/lockbom/lockbom/common"
)

// Ok signals a successful command run.
func Ok() error {
	common.Log("%sOK.%s", Green, Reset)
	return nil
}

func Warning(format string, rest ...interface{}) {
	common.Log("%sWarning: "+format+"%s", append([]interface{}{Yellow}, append(rest, Reset)...)...)
}

func Highlight(format string, rest ...interface{}) {
	common.Log("%s"+format+"%s", append([]interface{}{Cyan}, append(rest, Reset)...)...)
}

func Note(format string, rest ...interface{}) {
	common.Log("%sNote: "+format+"%s", append([]interface{}{Faint}, append(rest, Reset)...)...)
}

// Exit ends the command with given code and message. The exit travels
// as a panic so that deferred cleanups run; main catches it and turns
// it into the process exit code.
func Exit(code int, format string, rest ...interface{}) error {
	message := format
	if len(rest) > 0 {
		message = fmt.Sprintf(format, rest...)
	}
	color := Green
	if code != 0 {
		color = Red
	}
	panic(common.ExitCode{Code: code, Message: color + message + Reset})
}

// Guard watches over the condition, and exits the process with given
// code and message when the condition fails.
func Guard(condition bool, code int, format string, rest ...interface{}) {
	if !condition {
		Exit(code, format, rest...)
	}
}
