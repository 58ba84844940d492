// SPDX-License-Identifier: MIT

package bench

import (
	"qkdhal/internal/monitor"
	"qkdhal/pkg/hal/amperemeter"
	"qkdhal/pkg/hal/opticalswitch"
	"qkdhal/pkg/hal/polarisation"
	"qkdhal/pkg/hal/powermeter"
	"qkdhal/pkg/hal/voltmeter"
)

// Readers returns one monitor source per quantity the measuring
// instruments of the bench can report, in declaration order. A
// polarisation controller reports the position of each wave plate.
func (b *Bench) Readers() []monitor.Source {
	var out []monitor.Source
	for _, inst := range b.instruments {
		switch hw := inst.Hardware.(type) {
		case powermeter.PowerMeter:
			out = append(out, monitor.Source{Instrument: inst.Name, Quantity: "optical_power", Unit: "W", Read: hw.Read})
		case voltmeter.VoltMeter:
			out = append(out, monitor.Source{Instrument: inst.Name, Quantity: "voltage", Unit: "V", Read: hw.Voltage})
		case amperemeter.AmpereMeter:
			out = append(out, monitor.Source{Instrument: inst.Name, Quantity: "current", Unit: "A", Read: hw.Current})
		case polarisation.Controller:
			for _, ch := range []polarisation.Channel{polarisation.QWP1, polarisation.HWP, polarisation.QWP2} {
				out = append(out, monitor.Source{
					Instrument: inst.Name,
					Quantity:   "position_" + plateKeys[ch],
					Unit:       "deg",
					Read:       func() (float64, error) { return hw.Position(ch) },
				})
			}
		case opticalswitch.Switch:
			out = append(out, monitor.Source{
				Instrument: inst.Name,
				Quantity:   "state",
				Read: func() (float64, error) {
					s, err := hw.ReadState()
					return float64(s), err
				},
			})
		}
	}
	return out
}

var plateKeys = map[polarisation.Channel]string{
	polarisation.QWP1: "qwp1",
	polarisation.HWP:  "hwp",
	polarisation.QWP2: "qwp2",
}
