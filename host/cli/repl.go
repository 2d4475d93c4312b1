// Package cli implements the host command-line tool's interactive loop
// (§4.10), grounded on the reference host
// tool's read-a-line/dispatch-by-name structure but tokenizing each line
// with github.com/google/shlex instead of strings.Fields, so quoted
// arguments and escapes work the way a real shell line would.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"axisfw/host/link"
	"axisfw/protocol"
	"axisfw/trajectory"
)

// Command is one REPL verb: a name, an argument-count/usage hint for help
// text, and the handler that runs it against a connected Client.
type Command struct {
	Name    string
	Usage   string
	Handler func(c *link.Client, args []string) error
}

// Commands is the fixed verb table (`move`, `stop`, `status`, `get`/`set`
// parameter, `home`, `preview`) that Dispatch looks each REPL line's verb
// up in.
var Commands = []Command{
	{"move", "move <position>", cmdMove},
	{"moveby", "moveby <distance>", cmdMoveBy},
	{"velocity", "velocity <signed-velocity>", cmdVelocity},
	{"stop", "stop", cmdStop},
	{"estop", "estop", cmdEStop},
	{"home", "home <forward|reverse> <seek-velocity>", cmdHome},
	{"status", "status", cmdStatus},
	{"get", "get <param-id-hex>", cmdGetParam},
	{"set", "set <param-id-hex> u8|u16|u32|f32 <value>", cmdSetParam},
	{"preview", "preview <distance> <max-velocity> <acceleration>", cmdPreview},
	{"save", "save", cmdSaveConfig},
	{"load", "load", cmdLoadConfig},
	{"reset", "reset", cmdResetConfig},
}

func findCommand(name string) *Command {
	for i := range Commands {
		if Commands[i].Name == name {
			return &Commands[i]
		}
	}
	return nil
}

// Dispatch tokenizes line with shlex and runs the matching Command. An
// empty line is a no-op; "help" lists every command's usage.
func Dispatch(c *link.Client, line string, out io.Writer) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("cli: parsing %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	if tokens[0] == "help" || tokens[0] == "?" {
		printHelp(out)
		return nil
	}

	cmd := findCommand(tokens[0])
	if cmd == nil {
		return fmt.Errorf("cli: unknown command %q (try 'help')", tokens[0])
	}
	return cmd.Handler(c, tokens[1:])
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	for _, cmd := range Commands {
		fmt.Fprintf(out, "  %s\n", cmd.Usage)
	}
	fmt.Fprintln(out, "  quit | exit")
}

// RunREPL reads lines from in until EOF, "quit", or "exit", dispatching
// each through Dispatch and printing errors to out rather than aborting
// the loop on one bad command.
func RunREPL(c *link.Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := Dispatch(c, line, out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
	return scanner.Err()
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func cmdMove(c *link.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: move <position>")
	}
	pos, err := parseInt32(args[0])
	if err != nil {
		return err
	}
	return c.MoveTo(pos)
}

func cmdMoveBy(c *link.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: moveby <distance>")
	}
	dist, err := parseInt32(args[0])
	if err != nil {
		return err
	}
	return c.MoveBy(dist)
}

func cmdVelocity(c *link.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: velocity <signed-velocity>")
	}
	v, err := parseInt32(args[0])
	if err != nil {
		return err
	}
	return c.MoveVelocity(v)
}

func cmdStop(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: stop")
	}
	return c.Stop()
}

func cmdEStop(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: estop")
	}
	return c.EmergencyStop()
}

func cmdHome(c *link.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: home <forward|reverse> <seek-velocity>")
	}
	var reverse bool
	switch args[0] {
	case "forward":
		reverse = false
	case "reverse":
		reverse = true
	default:
		return fmt.Errorf("direction must be forward or reverse, got %q", args[0])
	}
	v, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return err
	}
	return c.Home(reverse, uint32(v))
}

func cmdStatus(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: status")
	}
	status, err := c.Status()
	if err != nil {
		return err
	}
	fmt.Printf("state=%d pos=%d target=%d velocity=%d distance_to_go=%d in_motion=%v at_target=%v\n",
		status.State, status.CurrentPosition, status.TargetPosition,
		status.CurrentVelocity, status.DistanceToGo, status.InMotion, status.AtTarget)
	return nil
}

func parseParamID(s string) (protocol.ParamID, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("param id must be a number (e.g. 0x02): %w", err)
	}
	return protocol.ParamID(v), nil
}

func cmdGetParam(c *link.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <param-id-hex>")
	}
	id, err := parseParamID(args[0])
	if err != nil {
		return err
	}
	raw, err := c.GetParam(id)
	if err != nil {
		return err
	}
	fmt.Printf("param 0x%02x = % x\n", id, raw)
	return nil
}

func cmdSetParam(c *link.Client, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: set <param-id-hex> u8|u16|u32|f32 <value>")
	}
	id, err := parseParamID(args[0])
	if err != nil {
		return err
	}
	switch args[1] {
	case "u8":
		v, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return err
		}
		return c.SetParamU8(id, uint8(v))
	case "u16":
		v, err := strconv.ParseUint(args[2], 10, 16)
		if err != nil {
			return err
		}
		return c.SetParamU16(id, uint16(v))
	case "u32":
		v, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return err
		}
		return c.SetParamU32(id, uint32(v))
	case "f32":
		v, err := strconv.ParseFloat(args[2], 32)
		if err != nil {
			return err
		}
		return c.SetParamF32(id, float32(v))
	default:
		return fmt.Errorf("unknown type %q, want u8|u16|u32|f32", args[1])
	}
}

// cmdPreview plans a trapezoidal move locally and prints its closed-form
// velocity/position curve without touching hardware, using the same
// VelocityAt/PositionAt queries the trapezoid planner exposes for this
// purpose. It never talks to the Client; a caller can preview a move
// before deciding whether to send it.
func cmdPreview(c *link.Client, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: preview <distance> <max-velocity> <acceleration>")
	}
	distance, err := parseInt32(args[0])
	if err != nil {
		return err
	}
	maxVelocity, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return err
	}
	acceleration, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return err
	}

	var tr trajectory.Trapezoid
	if err := tr.Plan(trajectory.TrapezoidParams{
		Distance:     distance,
		MaxVelocity:  uint32(maxVelocity),
		Acceleration: uint32(acceleration),
	}); err != nil {
		return err
	}

	timing := tr.Timing()
	fmt.Printf("triangle=%v peak_velocity=%d total_time_us=%d\n", timing.IsTriangle, timing.PeakVelocity, timing.TotalTimeUS)

	const steps = 10
	for i := 0; i <= steps; i++ {
		t := timing.TotalTimeUS / steps * uint32(i)
		fmt.Printf("  t=%8dus  v=%6d  pos=%8d\n", t, tr.VelocityAt(t), tr.PositionAt(t))
	}
	return nil
}

func cmdSaveConfig(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: save")
	}
	return c.SaveConfig()
}

func cmdLoadConfig(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: load")
	}
	return c.LoadConfig()
}

func cmdResetConfig(c *link.Client, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: reset")
	}
	return c.ResetConfig()
}
