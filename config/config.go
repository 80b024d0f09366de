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

package config

// Config collects every tunable the emulator accepts, from the command line
// or from the config file. Flags win over file values; file values win over
// the defaults.
type Config struct {
	ROMPath string

	Debug    bool
	Headless bool

	Width  uint32
	Height uint32
	Title  string

	SDLBase   uint64
	RAMBase   uint64
	RAMSize   uint64
	UARTBase  uint64
	TimerBase uint64

	ITrace  bool
	MTrace  bool
	BPTrace bool

	LogLevel    string
	LogFilename string

	// CPU frequency in Hz. zero means unconfigured, in which case device
	// synchronisation falls back to a fixed cycle threshold.
	CPUFrequency uint64

	// exit with status 0 when the program stops on a HALT instruction. when
	// false a HALT exits with status 1, the same as any other fault
	OKOnHalt bool
}

// DefaultConfigFile is the config file consulted when none is named on the
// command line.
const DefaultConfigFile = "emulator.conf"

// NewConfig returns a Config with the documented defaults.
func NewConfig() *Config {
	return &Config{
		Width:     640,
		Height:    480,
		Title:     "Emulator",
		SDLBase:   0x30000000,
		RAMBase:   0x80000000,
		RAMSize:   268435456,
		UARTBase:  0x20000000,
		TimerBase: 0x20001000,
		LogLevel:  "info",
	}
}
