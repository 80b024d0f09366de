// This file is part of MiniSoC.
//
// MiniSoC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// MiniSoC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with MiniSoC.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/minisoc/config"
	"github.com/jetsetilly/minisoc/debugger"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/jetsetilly/minisoc/debugger/terminal/colorterm"
	"github.com/jetsetilly/minisoc/debugger/terminal/plainterm"
	"github.com/jetsetilly/minisoc/gui/sdldisplay"
	"github.com/jetsetilly/minisoc/hardware"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/display"
	"github.com/jetsetilly/minisoc/logger"
	"github.com/jetsetilly/minisoc/modalflag"
	"github.com/jetsetilly/minisoc/performance"
	"github.com/jetsetilly/minisoc/statsview"
	"github.com/jetsetilly/minisoc/tracer"
	xterm "golang.org/x/term"
)

const version = "0.3.0"

func main() {
	os.Exit(launch())
}

// one-line configuration failure to stderr, exit 1. these are not
// recoverable.
func configFailure(err error) int {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	return 1
}

func launch() int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode("RUN", "VERSION")

	romPath := md.Flags.String("rom", "", "ROM image to load (required)")
	configPath := md.Flags.String("config", "", "config file (default emulator.conf)")
	debug := md.Flags.Bool("debug", false, "start the interactive debugger")
	width := md.Flags.Uint("width", 640, "display width in pixels")
	height := md.Flags.Uint("height", 480, "display height in pixels")
	sdlBase := md.Flags.String("sdl-base", "", "display device base address")
	ramBase := md.Flags.String("ram-base", "", "RAM base address")
	ramSize := md.Flags.String("ram-size", "", "RAM size in bytes")
	uartBase := md.Flags.String("uart-base", "", "UART base address")
	timerBase := md.Flags.String("timer-base", "", "timer base address")
	title := md.Flags.String("title", "", "window title")
	headless := md.Flags.Bool("headless", false, "run without a window")
	itrace := md.Flags.Bool("itrace", false, "trace executed instructions")
	mtrace := md.Flags.Bool("mtrace", false, "trace memory events")
	bptrace := md.Flags.Bool("bptrace", false, "trace branch prediction")
	logLevel := md.Flags.String("log-level", "", "trace|debug|info|warn|error")
	logFilename := md.Flags.String("log-filename", "", "log file prefix (logs to <prefix>.err, device output to <prefix>.out)")
	cpuFrequency := md.Flags.String("cpu-frequency", "", "CPU frequency in Hz (drives device sync)")
	okOnHalt := md.Flags.Bool("ok-on-halt", false, "exit status 0 when the program HALTs")
	stats := md.Flags.Bool("statsview", false, "run the stats server")
	profile := md.Flags.String("profile", "none", "run with profiling: cpu|mem|both|none")

	switch md.Parse() {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		return 1
	}

	if md.Mode() == "VERSION" {
		fmt.Fprintf(md.Output, "minisoc %s\n", version)
		return 0
	}

	conf := config.NewConfig()

	// the config file is loaded first so that the command line can override
	// it. an explicitly named file must exist; the default one needn't.
	path := *configPath
	required := path != ""
	if path == "" {
		path = config.DefaultConfigFile
	}
	if err := conf.LoadFile(path, required); err != nil {
		return configFailure(err)
	}

	// merge explicitly set flags over the file values
	var flagErr error
	md.Visit(func(name string) {
		set := func(key string, value string) {
			if err := conf.Set(key, value); err != nil && flagErr == nil {
				flagErr = err
			}
		}
		switch name {
		case "rom":
			conf.ROMPath = *romPath
		case "debug":
			conf.Debug = *debug
		case "width":
			conf.Width = uint32(*width)
		case "height":
			conf.Height = uint32(*height)
		case "sdl-base":
			set("sdl_base", *sdlBase)
		case "ram-base":
			set("ram_base", *ramBase)
		case "ram-size":
			set("ram_size", *ramSize)
		case "uart-base":
			set("uart_base", *uartBase)
		case "timer-base":
			set("timer_base", *timerBase)
		case "title":
			conf.Title = *title
		case "headless":
			conf.Headless = *headless
		case "itrace":
			conf.ITrace = *itrace
		case "mtrace":
			conf.MTrace = *mtrace
		case "bptrace":
			conf.BPTrace = *bptrace
		case "log-level":
			conf.LogLevel = *logLevel
		case "log-filename":
			conf.LogFilename = *logFilename
		case "cpu-frequency":
			set("cpu_frequency", *cpuFrequency)
		case "ok-on-halt":
			conf.OKOnHalt = *okOnHalt
		}
	})
	if flagErr != nil {
		return configFailure(flagErr)
	}

	level, ok := logger.ParseLevel(conf.LogLevel)
	if !ok {
		return configFailure(fmt.Errorf("unknown log level: %s", conf.LogLevel))
	}
	logger.SetLevel(level)
	logger.SetEcho(os.Stderr)

	// device output (UART TX) and the log stream are process-wide sinks that
	// can be redirected to files
	var deviceOutput io.Writer = os.Stdout
	if conf.LogFilename != "" {
		errFile, err := os.Create(conf.LogFilename + ".err")
		if err != nil {
			return configFailure(err)
		}
		defer errFile.Close()
		logger.SetEcho(errFile)

		outFile, err := os.Create(conf.LogFilename + ".out")
		if err != nil {
			return configFailure(err)
		}
		defer outFile.Close()
		deviceOutput = outFile
	}

	var surface display.Surface
	if !conf.Headless {
		var err error
		surface, err = sdldisplay.NewSurface(conf.Title, conf.Width, conf.Height)
		if err != nil {
			return configFailure(err)
		}
	}

	machine, err := hardware.NewMachine(conf, surface, deviceOutput)
	if err != nil {
		if surface != nil {
			surface.Destroy()
		}
		return configFailure(err)
	}
	defer machine.Teardown()

	dbg := debugger.NewDebugger(machine)
	dbg.SetTraceOptions(tracer.Options{
		Instruction:      conf.ITrace,
		MemEvents:        conf.MTrace,
		BranchPrediction: conf.BPTrace,
	})

	if *stats {
		statsview.Launch(os.Stdout)
	}

	var term terminal.Terminal
	if conf.Debug {
		if xterm.IsTerminal(int(os.Stdin.Fd())) {
			term = &colorterm.ColorTerm{}
		} else {
			term = &plainterm.PlainTerminal{}
		}
	}

	err = performance.RunWithProfiling(*profile, "minisoc", func() error {
		return dbg.Run(conf.Debug, term)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	switch machine.CPU.LastError().Kind {
	case bus.ErrNone:
		return 0
	case bus.ErrHalt:
		if conf.OKOnHalt {
			return 0
		}
		return 1
	}
	return 1
}
