// SPDX-License-Identifier: MIT

// Package all registers every built-in instrument driver. Import it for its
// side effects:
//
//	import _ "qkdhal/pkg/hal/all"
package all

import (
	_ "qkdhal/pkg/hal/adc"
	_ "qkdhal/pkg/hal/amperemeter"
	_ "qkdhal/pkg/hal/biascontrol"
	_ "qkdhal/pkg/hal/dac"
	_ "qkdhal/pkg/hal/dacadc"
	_ "qkdhal/pkg/hal/laser"
	_ "qkdhal/pkg/hal/opticalswitch"
	_ "qkdhal/pkg/hal/polarisation"
	_ "qkdhal/pkg/hal/powermeter"
	_ "qkdhal/pkg/hal/powersupply"
	_ "qkdhal/pkg/hal/soundcard"
	_ "qkdhal/pkg/hal/voa"
	_ "qkdhal/pkg/hal/voltmeter"
)
