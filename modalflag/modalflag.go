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

// Package modalflag is a thin wrapper around the flag package from the
// standard library, handling the sub-mode pattern used by the main program
// (eg. "minisoc -rom image.bin run"; flags come before the mode name).
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Modes wraps a flag.FlagSet with sub-mode selection.
type Modes struct {
	// where to print output (help messages etc). defaults to os.Stdout
	Output io.Writer

	// the underlying flag set. flags can be defined on this directly; call
	// the Parse() function of this struct rather than the flag set's.
	Flags *flag.FlagSet

	args     []string
	subModes []string
	mode     string
}

// NewArgs initialises the Modes struct with an argument list (most likely
// os.Args[1:]).
func (md *Modes) NewArgs(args []string) {
	if md.Output == nil {
		md.Output = os.Stdout
	}
	md.args = args
	md.NewMode()
}

// NewMode prepares a fresh flag set for parsing the next mode's flags.
func (md *Modes) NewMode(subModes ...string) {
	md.subModes = subModes
	md.Flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.Flags.SetOutput(md.Output)
}

// Mode returns the sub-mode encountered during the previous Parse, or the
// empty string.
func (md *Modes) Mode() string {
	return md.mode
}

// ParseResult is returned from the Parse function.
type ParseResult int

// List of valid ParseResult values.
const (
	ParseContinue ParseResult = iota
	ParseHelp
	ParseError
)

// Parse the argument list. If the first non-flag argument matches one of the
// sub-modes given to NewMode, it is recorded and the remaining arguments are
// left for the next Parse.
func (md *Modes) Parse() ParseResult {
	err := md.Flags.Parse(md.args)
	if err != nil {
		if err == flag.ErrHelp {
			if len(md.subModes) > 0 {
				fmt.Fprintf(md.Output, "available sub-modes: %s\n", strings.Join(md.subModes, ", "))
			}
			return ParseHelp
		}
		return ParseError
	}

	md.args = md.Flags.Args()
	md.mode = ""

	if len(md.args) > 0 && len(md.subModes) > 0 {
		candidate := strings.ToUpper(md.args[0])
		for _, m := range md.subModes {
			if candidate == strings.ToUpper(m) {
				md.mode = candidate
				md.args = md.args[1:]
				break
			}
		}
	}

	return ParseContinue
}

// RemainingArgs returns the arguments left over after the previous Parse.
func (md *Modes) RemainingArgs() []string {
	return md.args
}

// Visit calls fn for each flag that was explicitly set on the command line.
func (md *Modes) Visit(fn func(name string)) {
	md.Flags.Visit(func(f *flag.Flag) { fn(f.Name) })
}
