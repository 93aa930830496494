//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"zeitgeber/app"
	"zeitgeber/hal"
)

func main() {
	var (
		cfg          hal.HeadlessConfig
		hz           uint
		configPath   string
		script       string
		displayFault bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.UintVar(&hz, "hz", 0, "Tick rate (0 = config file or 1000).")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&configPath, "config", "", "YAML config file.")
	flag.StringVar(&cfg.Board.SerialPort, "serial", "", "Mirror the log to this serial port.")
	flag.BoolVar(&cfg.TTY, "tty", false, "Read buttons (1-4) and traps (o/a/s/m) from the terminal in headless mode.")
	flag.StringVar(&script, "script", "", `Headless input script, e.g. "100 press 1; 140 release 1; 900 trap stack".`)
	flag.BoolVar(&displayFault, "display-fault", false, "Simulate a panel that fails to initialise.")
	flag.Parse()

	appCfg := app.DefaultConfig()
	if configPath != "" {
		var err error
		if appCfg, err = app.LoadConfig(configPath); err != nil {
			fatal(err)
		}
	}
	if hz != 0 {
		if hz > uint(app.MaxHz) {
			fatal(fmt.Errorf("-hz %d: above %d", hz, app.MaxHz))
		}
		appCfg.Hz = uint32(hz)
	}
	if err := appCfg.Validate(); err != nil {
		fatal(err)
	}
	cfg.Board.Hz = appCfg.Hz
	cfg.Board.Watchdog = appCfg.Watchdog
	cfg.Board.DisplayFault = displayFault

	if script != "" {
		events, err := hal.ParseScript(script)
		if err != nil {
			fatal(err)
		}
		cfg.Script = events
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(newApp, cfg.Board); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
