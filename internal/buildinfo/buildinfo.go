// Package buildinfo carries the firmware identity stamped in by the linker:
//
//	-ldflags "-X zeitgeber/internal/buildinfo.Version=v1.0.3"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is the identifier shown on the window title and the boot log.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		return Commit
	}
	return "dev"
}

// Full adds the commit and build date to Short when they are known.
func Full() string {
	s := Short()
	if Commit != "" && Commit != "unknown" && s != Commit {
		s += "+" + Commit
	}
	if Date != "" && Date != "unknown" {
		s += " " + Date
	}
	return s
}
