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

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/minisoc/curated"
)

// LoadFile merges key=value pairs from the named file into the config.
// Comments begin with '#' or ';' and extend to the end of the line; values
// may be quoted with single or double quotes; integer values accept decimal
// and 0x-prefixed hexadecimal.
//
// A missing file is an error only when required is true (ie. when the file
// was named explicitly on the command line).
func (c *Config) LoadFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if required {
			return curated.Errorf(curated.ConfigFileCannotOpen, path)
		}
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// strip comments
		if i := strings.IndexAny(line, "#;"); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			return curated.Errorf(curated.ConfigFileError, path, lineNum, "expected key=value")
		}

		key := strings.TrimSpace(line[:eq])
		value := unquote(strings.TrimSpace(line[eq+1:]))

		if err := c.apply(key, value); err != nil {
			return curated.Errorf(curated.ConfigFileError, path, lineNum, err)
		}
	}

	return scanner.Err()
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ParseUint parses a decimal or 0x-prefixed hexadecimal integer.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseBool accepts the usual spellings of true and false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, curated.Errorf("invalid boolean: %s", s)
}

// Set applies a single key=value pair, with the same keys and value syntax
// as the config file. Used by the command line to override file values.
func (c *Config) Set(key string, value string) error {
	return c.apply(key, value)
}

func (c *Config) apply(key string, value string) error {
	switch key {
	case "rom":
		c.ROMPath = value
		return nil

	case "debug":
		v, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.Debug = v
		return nil

	case "headless":
		v, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.Headless = v
		return nil

	case "itrace":
		v, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.ITrace = v
		return nil

	case "mtrace":
		v, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.MTrace = v
		return nil

	case "bptrace":
		v, err := ParseBool(value)
		if err != nil {
			return err
		}
		c.BPTrace = v
		return nil

	case "log_level":
		c.LogLevel = value
		return nil

	case "log_filename":
		c.LogFilename = value
		return nil

	case "title":
		c.Title = value
		return nil

	case "width", "height":
		v, err := ParseUint(value)
		if err != nil || v == 0 || v > 1<<16 {
			return curated.Errorf("invalid %s: %s", key, value)
		}
		if key == "width" {
			c.Width = uint32(v)
		} else {
			c.Height = uint32(v)
		}
		return nil

	case "ram_base", "ram_size", "uart_base", "timer_base", "sdl_base", "cpu_frequency":
		v, err := ParseUint(value)
		if err != nil {
			return curated.Errorf("invalid %s: %s", key, value)
		}
		switch key {
		case "ram_base":
			c.RAMBase = v
		case "ram_size":
			c.RAMSize = v
		case "uart_base":
			c.UARTBase = v
		case "timer_base":
			c.TimerBase = v
		case "sdl_base":
			c.SDLBase = v
		case "cpu_frequency":
			c.CPUFrequency = v
		}
		return nil
	}

	return curated.Errorf("unknown key: %s", key)
}
