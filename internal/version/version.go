package version

import (
	"fmt"

	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
)

func Version() semver.Version {
	return version
}

func PrintVersion() {
	fmt.Printf("propsplit %s\n", version.String())
}
