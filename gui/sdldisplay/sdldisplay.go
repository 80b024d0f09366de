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

// Package sdldisplay is the SDL implementation of the display surface: a
// window, a renderer and a streaming texture the framebuffer is copied into
// on every present.
package sdldisplay

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/hardware/display"
)

// Surface implements the display.Surface interface on top of SDL.
type Surface struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width  int32
	height int32
}

// NewSurface is the preferred method of initialisation for the Surface type.
func NewSurface(title string, width uint32, height uint32) (*Surface, error) {
	var err error

	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, curated.Errorf(curated.SDL, err)
	}

	s := &Surface{
		width:  int32(width),
		height: int32(height),
	}

	s.window, err = sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		s.width, s.height, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, curated.Errorf(curated.SDL, err)
	}

	s.renderer, err = sdl.CreateRenderer(s.window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, curated.Errorf(curated.SDL, err)
	}

	s.texture, err = s.renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING, s.width, s.height)
	if err != nil {
		return nil, curated.Errorf(curated.SDL, err)
	}

	return s, nil
}

// PollEvent implements the display.Surface interface. Events the device
// doesn't care about are swallowed without waiting any further.
func (s *Surface) PollEvent(timeoutMS int) display.Event {
	for {
		var ev sdl.Event
		if timeoutMS > 0 {
			ev = sdl.WaitEventTimeout(timeoutMS)
		} else {
			ev = sdl.PollEvent()
		}
		if ev == nil {
			return display.Event{Kind: display.EventNone}
		}

		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return display.Event{Kind: display.EventQuit}

		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Repeat == 0 {
				return display.Event{
					Kind: display.EventKeyDown,
					Key:  uint32(ev.Keysym.Sym),
				}
			}
		}

		// swallowed an event we don't handle; don't wait for more
		timeoutMS = 0
	}
}

// Present implements the display.Surface interface.
func (s *Surface) Present(pixels []byte) error {
	if err := s.texture.Update(nil, pixels, int(s.width)*4); err != nil {
		return curated.Errorf(curated.SDL, err)
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return curated.Errorf(curated.SDL, err)
	}
	s.renderer.Present()
	return nil
}

// Destroy implements the display.Surface interface.
func (s *Surface) Destroy() {
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
}
