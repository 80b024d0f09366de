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

package debugger

// event poll timeout when the display has nothing else to do. a present
// request pending on the next iteration is serviced at most this late.
const displayPollMS = 10

// displayLoop is the body of the display thread: pump input events, service
// present requests and propagate a window-close into an exit request.
func (dbg *Debugger) displayLoop() {
	d := dbg.machine.Display

	for !dbg.run.Exiting() {
		timeout := displayPollMS
		if d.ConsumePresentRequest() {
			d.Present()
			// more work may be pending; don't linger in the poll
			timeout = 0
		}

		d.PumpInput(timeout)

		if d.QuitRequested() {
			dbg.run.RequestExit()
			return
		}
	}
}
