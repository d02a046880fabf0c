package common

// ExitCode is panicked out of deep command code and caught at the main
// level, so deferred cleanups still run before the process ends.
type ExitCode struct {
	Code    int
	Message string
}

func (it ExitCode) ShowMessage() {
	Log("%s", it.Message)
}
