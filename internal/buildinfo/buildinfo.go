// Package buildinfo carries the version stamped in at link time, e.g.
// -ldflags "-X github.com/go-sod/vrelay/internal/buildinfo.BuildTag=v0.1.0".
package buildinfo

import (
	"fmt"
	"io"
)

const Graffiti = "                 _             \n __   ___ __ ___| | __ _ _   _ \n \\ \\ / / '__/ _ \\ |/ _` | | | |\n  \\ V /| | |  __/ | (_| | |_| |\n   \\_/ |_|  \\___|_|\\__,_|\\__, |\n                         |___/ \n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "VRELAY"
	Time     string = ""
)

type Version struct {
	Name string
	Tag  string
	Time string
}

// Current returns the version of the running binary.
func Current() Version {
	return Version{Name: Name, Tag: BuildTag, Time: Time}
}

// String renders the startup line, leaving out a missing build time.
func (v Version) String() string {
	if v.Time == "" {
		return fmt.Sprintf("%s: %s", v.Name, v.Tag)
	}
	return fmt.Sprintf("%s: %s, %s", v.Name, v.Time, v.Tag)
}

// Print writes the startup line to w, preceded by the banner when
// banner is set.
func Print(w io.Writer, banner bool) {
	if banner {
		_, _ = fmt.Fprint(w, Graffiti)
	}
	_, _ = fmt.Fprintln(w, Current())
}
