//go:build !tinygo

package hal

import "time"

// TimerFreq is the tick rate used to convert wall-clock time into timer
// ticks on the host build, where there is no hardware counter to read.
const TimerFreq = 1000000 // 1MHz-equivalent, matching the RP2040 hardware timer

var hostBoot = time.Now()

func getSystemTicks() uint32 {
	return uint32(time.Since(hostBoot).Microseconds())
}

func setSystemTicks(ticks uint32) {
	// The host build derives time from the wall clock; explicit sets are
	// only meaningful for deterministic unit tests, which talk to the
	// motion/trajectory packages directly rather than through this clock.
}
