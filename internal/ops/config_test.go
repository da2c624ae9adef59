package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"main/internal/bridge"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Bridge.SocketPath != "/tmp/trading-bridge.sock" {
		t.Fatalf("socket path mismatch! got %s", loaded.Bridge.SocketPath)
	}
	if loaded.QueueCapacity != 1024 {
		t.Fatalf("queue capacity mismatch! should be 1024 but got %d", loaded.QueueCapacity)
	}
	if loaded.QueuePolicy != bridge.PolicyBlock {
		t.Fatalf("queue policy mismatch! should be block")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"bridge": {
			"socketPath": "/tmp/test-bridge.sock",
			"backoffMs": 500,
			"queueCapacity": 64,
			"queuePolicy": "drop-oldest"
		},
		"instruments": [
			{"name": "ES 12-25", "tickSize": 0.25, "pointValue": 50, "exchange": "CME"}
		],
		"sim": {"account": "Paper1", "startCash": 250000},
		"journal": {"enabled": true, "host": "localhost", "port": 5432, "user": "bridge", "database": "bridge"}
	}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Bridge.SocketPath != "/tmp/test-bridge.sock" {
		t.Fatalf("socket path mismatch! got %s", loaded.Bridge.SocketPath)
	}
	if loaded.Bridge.Backoff != 500*time.Millisecond {
		t.Fatalf("backoff mismatch! got %s", loaded.Bridge.Backoff)
	}
	if loaded.QueuePolicy != bridge.PolicyDropOldest {
		t.Fatalf("queue policy mismatch! should be drop-oldest")
	}
	if len(loaded.Instruments) != 1 || loaded.Instruments[0].Name != "ES 12-25" {
		t.Fatalf("instruments mismatch! got %+v", loaded.Instruments)
	}
	if loaded.Sim.Account != "Paper1" || loaded.Sim.StartCash != 250000 {
		t.Fatalf("sim config mismatch! got %+v", loaded.Sim)
	}
	if !loaded.Journal.Enabled || loaded.Journal.Database != "bridge" {
		t.Fatalf("journal config mismatch! got %+v", loaded.Journal)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	testCases := []struct {
		desc string
		body string
	}{
		{"invalid json", `{`},
		{"unknown queue policy", `{"bridge": {"queuePolicy": "newest-wins"}}`},
		{"empty instrument name", `{"instruments": [{"name": ""}]}`},
		{"negative tick size", `{"instruments": [{"name": "ES", "tickSize": -1}]}`},
		{"journal without database", `{"journal": {"enabled": true}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
