//go:build tinygo

package hal

import "sync/atomic"

// TimerFreq is the RP2040/RP2350 hardware microsecond-timer rate.
const TimerFreq = 1000000

var systemTicksValue uint32

// getSystemTicks and setSystemTicks are ISR-safe: target code updates the
// tick value from the hardware timer register on every main-loop iteration
// (see targets/rp2040/clock.go), and the safety task may read it from a
// different priority level, so this is an atomic cell rather than a plain word.
func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicksValue)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicksValue, ticks)
}
