// SPDX-License-Identifier: MIT

package soundcard

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

func init() {
	registry.Register(registry.Entry{
		Category: hal.ADC,
		Type:     reflect.TypeOf(&ADC{}),
		Requires: adcGuard.Required(),
		Factory:  registry.FactoryOf(NewADC),
	})
	registry.Register(registry.Entry{
		Category: hal.DAC,
		Type:     reflect.TypeOf(&DAC{}),
		Requires: dacGuard.Required(),
		Factory:  registry.FactoryOf(NewDAC),
	})
	registry.Register(registry.Entry{
		Category: hal.DACADC,
		Type:     reflect.TypeOf(&DACADC{}),
		Requires: dacadcGuard.Required(),
		Factory:  registry.FactoryOf(NewDACADC),
	})
}
