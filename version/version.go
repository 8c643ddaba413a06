// Package version holds build information, set at link time with
// -ldflags "-X github.com/farcloser/cutoff/version.version=v1.2.3 -X github.com/farcloser/cutoff/version.commit=abcdef".
package version

//nolint:gochecknoglobals // set by the linker
var (
	name    = "cutoff"
	version = "dev"
	commit  = "unknown"
)

func Name() string {
	return name
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}
