//go:build !tinygo && !unix

package hal

import "os"

func reexec(logger Logger) {
	logger.WriteLineString("reset: process restart unsupported on this platform")
	os.Exit(3)
}
