//go:build !tinygo && unix

package hal

import (
	"os"

	"golang.org/x/sys/unix"
)

func reexec(logger Logger) {
	exe, err := os.Executable()
	if err == nil {
		err = unix.Exec(exe, os.Args, os.Environ())
	}
	logger.WriteLineString("reset: exec: " + err.Error())
	os.Exit(3)
}
