// Command axisctl is the host-side control tool for the axis link: it
// opens a serial connection to the firmware and drives it interactively or
// from a scripted config file.
package main

import (
	"flag"
	"fmt"
	"os"

	"axisfw/host/cli"
	"axisfw/host/link"
)

var (
	device     = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud       = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	configPath = flag.String("config", "", "Optional YAML config file (device/baud/default-move overrides)")
)

func main() {
	flag.Parse()

	cfg := cli.DefaultHostConfig()
	if *configPath != "" {
		loaded, err := cli.LoadHostConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "axisctl: loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.Device = *device
		cfg.Baud = *baud
	}

	fmt.Printf("axisctl: connecting to %s at %d baud\n", cfg.Device, cfg.Baud)
	client, err := link.Open(cfg.Device, cfg.Baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "axisctl: connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("axisctl: connected. type 'help' for commands, 'quit' to exit.")
	if err := cli.RunREPL(client, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "axisctl: %v\n", err)
		os.Exit(1)
	}
}
