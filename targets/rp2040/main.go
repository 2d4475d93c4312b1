//go:build rp2040 || rp2350

package main

import (
	"time"

	"machine"

	"axisfw/config"
	"axisfw/dispatch"
	"axisfw/driver"
	"axisfw/hal"
	"axisfw/motion"
	"axisfw/protocol"
	"axisfw/pulsegen"
)

const (
	stepPin   = 2
	dirPin    = 3
	enablePin = 4

	tickPeriod = time.Millisecond
)

var (
	inputBuffer *protocol.FifoBuffer
	disp        *dispatch.Dispatcher
)

func main() {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	if err := InitUSB(); err != nil {
		return
	}
	InitClock()

	gpio := NewRPGPIODriver()
	stepDirCfg := driver.Config{
		Pins: driver.Pins{
			StepPin: stepPin, StepPinUsed: true,
			DirPin: dirPin, DirPinUsed: true,
			EnablePin: enablePin, EnablePinUsed: true,
		},
		Timing: driver.Timing{StepPulseUS: 2, DirSetupUS: 5, EnableDelayMS: 1},
	}
	stepDir, err := NewGPIODriver(gpio, stepDirCfg)
	if err != nil {
		return
	}

	gen := pulsegen.NewTimerGenerator(gpio, hal.GPIOPin(stepPin), 2)
	_ = gen.Init()

	controller := motion.NewController(stepDir, gen, motion.DefaultConfig())
	store := config.NewStore(&config.MemBackend{})
	if err := store.LoadFromBackend(); err != nil {
		store.Reset()
	}

	disp = dispatch.New()
	dispatch.RegisterMotionHandlers(disp, controller)
	dispatch.RegisterConfigHandlers(disp, store)
	dispatch.RegisterSystemHandlers(disp, controller, store, func() {
		if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err == nil {
			_ = machine.Watchdog.Start()
		}
		for {
			time.Sleep(time.Millisecond)
		}
	})

	inputBuffer = protocol.NewFifoBuffer(4 * protocol.MaxStuffedFrame)
	go usbReaderLoop()

	lastTick := GetHardwareTime()
	for {
		UpdateSystemTime()

		now := GetHardwareTime()
		controller.Tick(now - lastTick)
		lastTick = now

		processFrames()
		time.Sleep(tickPeriod)
	}
}

// processFrames drains every complete stuffed frame currently buffered,
// dispatching each and writing its response straight back over USB.
func processFrames() {
	for {
		stuffed, consumed, err := protocol.SplitDelimited(inputBuffer.Data())
		if err != nil {
			return
		}
		inputBuffer.Pop(consumed)

		frame, decodeErr := protocol.DecodeFrame(stuffed)
		if decodeErr != nil {
			continue
		}
		resp := disp.Handle(frame)
		encoded, err := protocol.EncodeFrame(resp.ID, resp.Payload)
		if err != nil {
			continue
		}
		_, _ = USBWriteBytes(encoded)
	}
}

// usbReaderLoop feeds bytes off the USB CDC endpoint into inputBuffer; it
// runs on its own goroutine so a slow host never stalls the motion tick.
func usbReaderLoop() {
	for {
		available := USBAvailable()
		if available == 0 {
			time.Sleep(100 * time.Microsecond)
			continue
		}
		b, err := USBRead()
		if err != nil {
			time.Sleep(time.Millisecond)
			continue
		}
		inputBuffer.Write([]byte{b})
	}
}
