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

package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/minisoc/logger"
	"github.com/jetsetilly/minisoc/test"
)

func TestLevels(t *testing.T) {
	logger.Clear()
	logger.SetLevel(logger.LevelWarn)
	defer logger.SetLevel(logger.LevelInfo)

	logger.Log(logger.LevelInfo, "test", "dropped")
	logger.Log(logger.LevelError, "test", "kept")

	out, _ := test.NewCappedWriter(1024)
	logger.Write(out)

	test.Equate(t, strings.Contains(out.String(), "dropped"), false)
	test.Equate(t, strings.Contains(out.String(), "kept"), true)
	test.Equate(t, strings.Contains(out.String(), "error: test:"), true)
}

func TestRepeatFolding(t *testing.T) {
	logger.Clear()
	logger.SetLevel(logger.LevelInfo)

	for i := 0; i < 3; i++ {
		logger.Log(logger.LevelInfo, "test", "same message")
	}

	out, _ := test.NewCappedWriter(1024)
	logger.Write(out)

	test.Equate(t, strings.Count(out.String(), "same message"), 1)
	test.Equate(t, strings.Contains(out.String(), "(repeat x3)"), true)
}

func TestTail(t *testing.T) {
	logger.Clear()
	logger.SetLevel(logger.LevelInfo)

	logger.Log(logger.LevelInfo, "test", "first")
	logger.Log(logger.LevelInfo, "test", "second")
	logger.Log(logger.LevelInfo, "test", "third")

	out, _ := test.NewCappedWriter(1024)
	logger.Tail(out, 2)

	test.Equate(t, strings.Contains(out.String(), "first"), false)
	test.Equate(t, strings.Contains(out.String(), "second"), true)
	test.Equate(t, strings.Contains(out.String(), "third"), true)
}

func TestEcho(t *testing.T) {
	logger.Clear()
	logger.SetLevel(logger.LevelInfo)

	out, _ := test.NewCappedWriter(1024)
	logger.SetEcho(out)
	defer logger.SetEcho(nil)

	logger.Logf(logger.LevelInfo, "test", "echoed %d", 42)
	test.Equate(t, strings.Contains(out.String(), "echoed 42"), true)
}

func TestParseLevel(t *testing.T) {
	l, ok := logger.ParseLevel("trace")
	test.Equate(t, ok, true)
	test.Equate(t, int(l), int(logger.LevelTrace))

	l, ok = logger.ParseLevel("ERROR")
	test.Equate(t, ok, true)
	test.Equate(t, int(l), int(logger.LevelError))

	_, ok = logger.ParseLevel("loud")
	test.Equate(t, ok, false)
}
