// Command axisfw is the host-simulation build of the axis firmware: it
// speaks the same framed wire protocol a real RP2040 target would, but
// runs the motion controller against driver.SimDriver and a simulated
// pulse generator instead of real hardware. It exists so axisctl and the
// dispatcher can be exercised end to end without a board attached.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"axisfw/config"
	"axisfw/dispatch"
	"axisfw/driver"
	"axisfw/hal"
	"axisfw/host/link"
	"axisfw/motion"
	"axisfw/protocol"
	"axisfw/pulsegen"
)

var (
	device   = flag.String("device", "/dev/ttyACM0", "Serial device path to serve the link on")
	baud     = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	tickRate = flag.Duration("tick", time.Millisecond, "Motion controller tick period")
)

func main() {
	flag.Parse()

	port, err := link.OpenPort(link.DefaultConfig(*device))
	if err != nil {
		fmt.Fprintf(os.Stderr, "axisfw: opening %s: %v\n", *device, err)
		os.Exit(1)
	}
	defer port.Close()

	controller, store := buildController()
	disp := dispatch.New()
	dispatch.RegisterMotionHandlers(disp, controller)
	dispatch.RegisterConfigHandlers(disp, store)
	dispatch.RegisterSystemHandlers(disp, controller, store, nil)

	go tickLoop(controller, *tickRate)

	fmt.Printf("axisfw: serving the axis link on %s\n", *device)
	if err := serveLink(port, disp); err != nil {
		fmt.Fprintf(os.Stderr, "axisfw: %v\n", err)
		os.Exit(1)
	}
}

// buildController wires a simulated driver and pulse generator behind a
// fresh motion.Controller, and a config.Store seeded with the compile-time
// defaults (no NVM to load from in the host simulation).
func buildController() (*motion.Controller, *config.Store) {
	driverCfg := driver.Config{
		Pins: driver.Pins{StepPinUsed: true, DirPinUsed: true, EnablePinUsed: true},
	}
	d := driver.NewSimDriver(driverCfg)

	gpio := hal.NewSimGPIODriver()
	gen := pulsegen.NewTimerGenerator(gpio, hal.GPIOPin(0), 2)
	_ = gen.Init()

	controller := motion.NewController(d, gen, motion.DefaultConfig())
	store := config.NewStore(&config.MemBackend{})
	return controller, store
}

// tickLoop drives the motion controller at a fixed period, matching the
// real-time guarantee §5 places on the motion task regardless of how busy
// the communication task is.
func tickLoop(controller *motion.Controller, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for range ticker.C {
		controller.Tick(uint32(period.Microseconds()))
	}
}

// serveLink runs the frame decode/dispatch/encode loop over port until a
// read error ends the connection.
func serveLink(port link.Port, disp *dispatch.Dispatcher) error {
	buf := protocol.NewFifoBuffer(4 * protocol.MaxStuffedFrame)
	readBuf := make([]byte, 256)

	for {
		for {
			stuffed, consumed, err := protocol.SplitDelimited(buf.Data())
			if err != nil {
				break
			}
			buf.Pop(consumed)

			frame, decodeErr := protocol.DecodeFrame(stuffed)
			if decodeErr != nil {
				continue
			}
			resp := disp.Handle(frame)
			encoded, err := protocol.EncodeFrame(resp.ID, resp.Payload)
			if err != nil {
				continue
			}
			if _, err := port.Write(encoded); err != nil {
				return err
			}
		}

		n, err := port.Read(readBuf)
		if n > 0 {
			buf.Write(readBuf[:n])
		}
		if err != nil {
			return err
		}
	}
}
