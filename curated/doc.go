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

// Package curated is the error type used throughout the application. A
// curated error is created from a message pattern, defined in messages.go,
// and can be identified by that pattern later with the Is() and Has()
// functions. Wrapped error chains are de-duplicated on output so that callers
// never need to worry about the immediate context of the function creating
// the error.
package curated
