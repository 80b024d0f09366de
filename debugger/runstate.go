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

import (
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/minisoc/debugger/govern"
)

// runState is the shared state machine the three debugger threads coordinate
// through. The command thread mutates it, the CPU thread waits on it. The
// state is mirrored in an atomic so that readers outside the critical
// section (the status line, the command handlers) never block the CPU thread.
type runState struct {
	crit sync.Mutex
	cond *sync.Cond

	state        govern.State
	stateAtomic  int32
	stepsPending uint32

	shouldExit int32
	exitChan   chan struct{}
	exitOnce   sync.Once
}

func newRunState() *runState {
	r := &runState{
		exitChan: make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.crit)
	return r
}

// State returns the current state without taking the critical section.
func (r *runState) State() govern.State {
	return govern.State(atomic.LoadInt32(&r.stateAtomic))
}

// SetState changes the state and wakes the CPU thread.
func (r *runState) SetState(s govern.State) {
	r.crit.Lock()
	r.state = s
	atomic.StoreInt32(&r.stateAtomic, int32(s))
	r.crit.Unlock()
	r.cond.Broadcast()
}

// AddSteps queues instructions for the CPU thread, forcing the state to
// Running so that the wait predicate releases it.
func (r *runState) AddSteps(n uint32) {
	r.crit.Lock()
	r.stepsPending += n
	r.state = govern.Running
	atomic.StoreInt32(&r.stateAtomic, int32(govern.Running))
	r.crit.Unlock()
	r.cond.Broadcast()
}

// TakeSteps consumes all pending steps in one batch.
func (r *runState) TakeSteps() uint32 {
	r.crit.Lock()
	defer r.crit.Unlock()
	n := r.stepsPending
	r.stepsPending = 0
	return n
}

// RequestExit sets the exit flag and wakes every waiter. Idempotent.
func (r *runState) RequestExit() {
	atomic.StoreInt32(&r.shouldExit, 1)
	r.exitOnce.Do(func() { close(r.exitChan) })
	r.cond.Broadcast()
}

// Exiting returns true once RequestExit has been called.
func (r *runState) Exiting() bool {
	return atomic.LoadInt32(&r.shouldExit) != 0
}

// ExitChan is closed when exit has been requested.
func (r *runState) ExitChan() <-chan struct{} {
	return r.exitChan
}

// WaitRunnable blocks until there is something for the CPU thread to do:
// exit, free-running execution or pending steps. Spurious wakes are handled
// by re-checking the predicate.
func (r *runState) WaitRunnable() {
	r.crit.Lock()
	defer r.crit.Unlock()
	for atomic.LoadInt32(&r.shouldExit) == 0 && r.state != govern.Running && r.stepsPending == 0 {
		r.cond.Wait()
	}
}
