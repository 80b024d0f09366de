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

package hardware

import (
	"io"
	"os"
	"sort"

	"github.com/jetsetilly/minisoc/config"
	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu"
	"github.com/jetsetilly/minisoc/hardware/cpu/toycore"
	"github.com/jetsetilly/minisoc/hardware/device"
	"github.com/jetsetilly/minisoc/hardware/display"
	"github.com/jetsetilly/minisoc/hardware/memory"
	"github.com/jetsetilly/minisoc/hardware/peripherals/timer"
	"github.com/jetsetilly/minisoc/hardware/peripherals/uart"
	"github.com/jetsetilly/minisoc/logger"
)

// Region names a half-open address range [Base, Base+Size) in the machine's
// address plan.
type Region struct {
	Name string
	Base uint64
	Size uint64
}

// batch threshold used when no CPU frequency has been configured.
const unclockedThreshold = 1000

// Machine assembles the devices onto the bus according to the configured
// address plan and owns their lifetimes.
type Machine struct {
	Bus *bus.Bus

	ROM     *memory.Memory
	RAM     *memory.Memory
	UART    *uart.UART
	Timer   *timer.Timer
	Display *display.Display

	CPU cpu.Executor

	// minimum device sync threshold in cycles. used by the controller to
	// bound the CPU batch size.
	syncThreshold uint64
}

// NewMachine builds the machine described by the config. The surface may be
// nil for a headless display. The deviceOutput writer receives UART TX bytes.
func NewMachine(conf *config.Config, surface display.Surface, deviceOutput io.Writer) (*Machine, error) {
	if conf.ROMPath == "" {
		return nil, curated.Errorf(curated.AddressPlan, "no ROM image specified")
	}

	fi, err := os.Stat(conf.ROMPath)
	if err != nil {
		return nil, curated.Errorf(curated.ROMLoad, err)
	}
	romSize := uint64(fi.Size())
	if romSize == 0 {
		return nil, curated.Errorf(curated.ROMLoad, "empty ROM image")
	}

	m := &Machine{
		Bus:     bus.NewBus(),
		ROM:     memory.NewROM(romSize),
		RAM:     memory.NewRAM(conf.RAMSize),
		UART:    uart.NewUART(),
		Timer:   timer.NewTimer(),
		Display: display.NewDisplay(conf.Width, conf.Height, surface),
		CPU:     toycore.NewCore(),
	}

	if _, err := m.ROM.LoadImage(conf.ROMPath, 0); err != nil {
		return nil, err
	}

	if deviceOutput != nil {
		m.UART.SetOutput(deviceOutput)
	}

	plan := []planEntry{
		{Region{"ROM", 0x00000000, romSize}, m.ROM},
		{Region{"UART", conf.UARTBase, 0x100}, m.UART},
		{Region{"TIMER", conf.TimerBase, 0x100}, m.Timer},
		{Region{"DISPLAY", conf.SDLBase, m.Display.MappedSize()}, m.Display},
		{Region{"RAM", conf.RAMBase, conf.RAMSize}, m.RAM},
	}

	regions := make([]Region, 0, len(plan))
	for _, p := range plan {
		regions = append(regions, p.region)
	}
	if err := ValidatePlan(regions); err != nil {
		return nil, err
	}

	for _, p := range plan {
		m.Bus.Register(p.dev, p.region.Base, p.region.Size, p.region.Name)
		logger.Logf(logger.LevelDebug, "machine", "%s mapped at %#08x (size %#x)",
			p.region.Name, p.region.Base, p.region.Size)
	}

	m.deriveSyncThresholds(conf.CPUFrequency)

	return m, nil
}

type planEntry struct {
	region Region
	dev    bus.Device
}

// ValidatePlan refuses address plans with overflowing or overlapping
// regions. The bus itself does no such checking: a bus served malformed
// mappings would silently shadow by registration order, so the plan is
// rejected before the bus starts serving.
func ValidatePlan(regions []Region) error {
	for _, r := range regions {
		if r.Size == 0 {
			return curated.Errorf(curated.AddressPlan, curated.Errorf("%s: zero size", r.Name))
		}
		if r.Base+r.Size < r.Base {
			return curated.Errorf(curated.AddressPlan, curated.Errorf("%s: range overflows", r.Name))
		}
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Base < sorted[j].Base })

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		curr := sorted[i]
		if curr.Base < prev.Base+prev.Size {
			return curated.Errorf(curated.AddressPlan,
				curated.Errorf("%s overlaps %s", curr.Name, prev.Name))
		}
	}

	return nil
}

// deriveSyncThresholds computes each device's sync threshold from its
// declared update frequency and records the minimum as the CPU batch bound.
func (m *Machine) deriveSyncThresholds(cpuFrequency uint64) {
	if cpuFrequency == 0 {
		m.syncThreshold = unclockedThreshold
		return
	}

	min := uint64(0)
	for _, mp := range m.Bus.Mappings() {
		f, ok := mp.Device.(device.Frequency)
		if !ok {
			continue
		}
		hz := f.UpdateFrequency()
		if hz == 0 {
			continue
		}

		threshold := cpuFrequency / hz
		if threshold < 1 {
			threshold = 1
		}

		if s, ok := mp.Device.(interface{ SetSyncThreshold(uint64) }); ok {
			s.SetSyncThreshold(threshold)
		}

		if min == 0 || threshold < min {
			min = threshold
		}
	}

	if min == 0 {
		min = cpuFrequency / 60
		if min < 1 {
			min = 1
		}
	}

	m.syncThreshold = min
}

// SyncThreshold returns the cycle bound the controller uses for CPU batches.
func (m *Machine) SyncThreshold() uint64 {
	return m.syncThreshold
}

// Teardown releases the devices in the reverse of construction order. The
// UART is flushed so that buffered output is not lost.
func (m *Machine) Teardown() {
	if m.Display != nil {
		m.Display.Destroy()
	}
	if m.UART != nil {
		m.UART.Flush()
	}
}
