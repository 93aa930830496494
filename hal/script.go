package hal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// ScriptAction is one kind of scripted input.
type ScriptAction uint8

const (
	ScriptPress ScriptAction = iota + 1
	ScriptRelease
	ScriptTap
	ScriptTrap
	ScriptQuit
)

func (a ScriptAction) String() string {
	switch a {
	case ScriptPress:
		return "press"
	case ScriptRelease:
		return "release"
	case ScriptTap:
		return "tap"
	case ScriptTrap:
		return "trap"
	case ScriptQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ScriptEvent is an input applied once At ticks have elapsed since start.
type ScriptEvent struct {
	At     uint64
	Action ScriptAction
	Button Button
	Trap   Trap
}

// ParseScript parses a headless input script such as
//
//	100 press 1; 140 release 1; 900 trap stack; 2000 quit
//
// Buttons are numbered from 1. Events are returned sorted by tick.
func ParseScript(src string) ([]ScriptEvent, error) {
	words, err := shlex.Split(src)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	var (
		events []ScriptEvent
		rec    []string
	)
	flush := func() error {
		if len(rec) == 0 {
			return nil
		}
		ev, err := parseScriptRecord(rec)
		if err != nil {
			return err
		}
		events = append(events, ev)
		rec = rec[:0]
		return nil
	}
	for _, w := range words {
		end := strings.HasSuffix(w, ";")
		if w = strings.TrimSuffix(w, ";"); w != "" {
			rec = append(rec, w)
		}
		if end {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events, nil
}

func parseScriptRecord(rec []string) (ScriptEvent, error) {
	if len(rec) < 2 {
		return ScriptEvent{}, fmt.Errorf("script: %q: want <tick> <action> [arg]", strings.Join(rec, " "))
	}
	at, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return ScriptEvent{}, fmt.Errorf("script: bad tick %q: %w", rec[0], err)
	}
	ev := ScriptEvent{At: at}

	switch rec[1] {
	case "press":
		ev.Action = ScriptPress
	case "release":
		ev.Action = ScriptRelease
	case "tap":
		ev.Action = ScriptTap
	case "trap":
		ev.Action = ScriptTrap
	case "quit":
		ev.Action = ScriptQuit
		if len(rec) != 2 {
			return ScriptEvent{}, fmt.Errorf("script: quit takes no argument")
		}
		return ev, nil
	default:
		return ScriptEvent{}, fmt.Errorf("script: unknown action %q", rec[1])
	}
	if len(rec) != 3 {
		return ScriptEvent{}, fmt.Errorf("script: %s wants one argument", rec[1])
	}

	if ev.Action == ScriptTrap {
		t, ok := ParseTrap(rec[2])
		if !ok {
			return ScriptEvent{}, fmt.Errorf("script: unknown trap %q", rec[2])
		}
		ev.Trap = t
		return ev, nil
	}

	n, err := strconv.Atoi(rec[2])
	if err != nil || n < 1 || n > NumButtons {
		return ScriptEvent{}, fmt.Errorf("script: bad button %q", rec[2])
	}
	ev.Button = Button(n - 1)
	return ev, nil
}
