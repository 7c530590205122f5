package version

import "fmt"

// Version represents a version of httpbench-go
type Version struct {
	major int
	minor int
	patch int
}

func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Current returns current version of httpbench-go
func Current() *Version {
	return &Version{major: 0, minor: 3, patch: 0}
}
