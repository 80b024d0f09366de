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

package display

// EventKind classifies an input event returned by a surface poll.
type EventKind int

// List of event kinds. EventNone indicates the poll timed out with nothing
// to report.
const (
	EventNone EventKind = iota
	EventKeyDown
	EventQuit
)

// Event is a single input event from the presentation surface.
type Event struct {
	Kind EventKind
	Key  uint32
}

// Surface is the presentation layer the display device draws to. The SDL
// implementation lives in gui/sdldisplay; a nil surface leaves the device in
// headless mode where presents are accepted but nothing is drawn.
type Surface interface {
	// PollEvent returns the next pending input event, waiting up to
	// timeoutMS milliseconds. Must be safe to call with a zero timeout.
	PollEvent(timeoutMS int) Event

	// Present copies the framebuffer to the surface. The pixel format is
	// ARGB8888 in row-major order with pitch = width*4.
	Present(pixels []byte) error

	// Destroy releases the surface's resources.
	Destroy()
}
