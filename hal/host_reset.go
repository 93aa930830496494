//go:build !tinygo

package hal

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"sync"
)

const hostResetDefaultPath = "zeitgeber.rcon"

// hostReset keeps the reset-cause register in a small file so it survives the
// process, the way RCON survives a reset on the chip.
type hostReset struct {
	mu     sync.Mutex
	path   string
	logger Logger
}

func newHostReset(path string, logger Logger) *hostReset {
	if p := os.Getenv("ZEITGEBER_RCON_PATH"); p != "" {
		path = p
	}
	return &hostReset{path: path, logger: logger}
}

func (r *hostReset) Cause() ResetCause {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := os.ReadFile(r.path)
	if err != nil || len(b) != 4 {
		return ResetPowerOn
	}
	return DecodeResetWord(binary.LittleEndian.Uint32(b))
}

func (r *hostReset) ClearCause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.logger.WriteLineString("rcon: clear: " + err.Error())
	}
}

func (r *hostReset) store(cause ResetCause) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], EncodeResetWord(cause))
	if err := os.WriteFile(r.path, b[:], 0o644); err != nil {
		r.logger.WriteLineString("rcon: store: " + err.Error())
	}
}

// Reset records the cause and unwinds the main loop; the runner catches the
// ResetSignal and boots the system again.
func (r *hostReset) Reset(cause ResetCause) {
	r.store(cause)
	r.logger.WriteLineString("reset: " + cause.String())
	panic(ResetSignal{Cause: cause})
}

// hardReset restarts the whole process. It is used where the main loop cannot
// be unwound, i.e. a watchdog bite while a task hook is stuck.
func (r *hostReset) hardReset(cause ResetCause) {
	r.store(cause)
	r.logger.WriteLineString("reset: " + cause.String() + " (hard)")
	reexec(r.logger)
}
