package common

const (
	DefaultSbomFormat = `spdx`
)

var (
	Version = `v0.4.1`
)

// ToolIdentity is the creator string stamped into generated documents.
func ToolIdentity() string {
	return "lockbom " + Version
}
