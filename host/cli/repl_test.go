package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/shlex"
)

// preview never touches the Client; a nil one must not cause it to fail.
func TestDispatchPreviewNeedsNoClient(t *testing.T) {
	var out bytes.Buffer
	if err := Dispatch(nil, `preview 2000 10000 100000`, &out); err != nil {
		t.Fatalf("Dispatch(preview): %v", err)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := Dispatch(nil, "frobnicate", &out); err == nil {
		t.Fatalf("Dispatch should reject an unknown command")
	}
}

func TestDispatchEmptyLineIsNoOp(t *testing.T) {
	var out bytes.Buffer
	if err := Dispatch(nil, "   ", &out); err != nil {
		t.Fatalf("Dispatch on a blank line should be a no-op, got %v", err)
	}
}

func TestDispatchHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	if err := Dispatch(nil, "help", &out); err != nil {
		t.Fatalf("Dispatch(help): %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("move")) {
		t.Fatalf("help output does not mention 'move': %q", out.String())
	}
}

func TestDispatchMoveRejectsBadArgCount(t *testing.T) {
	var out bytes.Buffer
	if err := Dispatch(nil, "move", &out); err == nil {
		t.Fatalf("Dispatch(move) with no args should fail")
	}
	if err := Dispatch(nil, "move 1 2", &out); err == nil {
		t.Fatalf("Dispatch(move) with two args should fail")
	}
}

func TestShlexTokenizesQuotedArguments(t *testing.T) {
	tokens, err := shlex.Split(`set 0x30 u8 "7"`)
	if err != nil {
		t.Fatalf("shlex.Split: %v", err)
	}
	want := []string{"set", "0x30", "u8", "7"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestLoadHostConfigFillsDefaultsForMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axisctl.yaml")
	if err := os.WriteFile(path, []byte("device: /dev/ttyUSB1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadHostConfig(path)
	if err != nil {
		t.Fatalf("LoadHostConfig: %v", err)
	}
	if cfg.Device != "/dev/ttyUSB1" {
		t.Fatalf("Device = %q, want /dev/ttyUSB1", cfg.Device)
	}
	if cfg.Baud != DefaultHostConfig().Baud {
		t.Fatalf("Baud = %d, want default %d", cfg.Baud, DefaultHostConfig().Baud)
	}
	if cfg.DefaultMove.MaxVelocity != DefaultHostConfig().DefaultMove.MaxVelocity {
		t.Fatalf("DefaultMove.MaxVelocity = %d, want default", cfg.DefaultMove.MaxVelocity)
	}
}

func TestLoadHostConfigMissingFileFails(t *testing.T) {
	if _, err := LoadHostConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("LoadHostConfig should fail for a missing file")
	}
}
