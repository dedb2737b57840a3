// Package version provides the build version of the module.
package version

import "fmt"

// Build information, overridden at link time.
var (
	release = "0.1.0"
	commit  = "dev"
)

// Info describes the build version.
type Info struct {
	Release string
	Commit  string
}

func (v Info) String() string {
	return fmt.Sprintf("%s (%s)", v.Release, v.Commit)
}

// Current returns the build version.
func Current() Info {
	return Info{
		Release: release,
		Commit:  commit,
	}
}
