// Package ops loads the bridge runtime configuration.
package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"main/internal/account"
	"main/internal/bridge"
	"main/internal/host"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Bridge      BridgeConfig         `json:"bridge"`
	Instruments []InstrumentConfig   `json:"instruments"`
	Sim         SimConfig            `json:"sim"`
	Health      account.HealthLimits `json:"health"`
	Journal     JournalConfig        `json:"journal"`
	Profiler    ProfilerConfig       `json:"profiler"`
}

// BridgeConfig describes the transport and queue.
type BridgeConfig struct {
	SocketPath      string `json:"socketPath"`
	Network         string `json:"network"`
	BackoffMS       int    `json:"backoffMs"`
	AcceptTimeoutMS int    `json:"acceptTimeoutMs"`
	ReadBufferSize  int    `json:"readBufferSize"`
	QueueCapacity   int    `json:"queueCapacity"`
	QueuePolicy     string `json:"queuePolicy"`
}

// InstrumentConfig describes one resolvable instrument.
type InstrumentConfig struct {
	Name       string  `json:"name"`
	TickSize   float64 `json:"tickSize"`
	PointValue float64 `json:"pointValue"`
	MinMove    float64 `json:"minMove"`
	Exchange   string  `json:"exchange"`
}

// SimConfig describes the paper host.
type SimConfig struct {
	Account        string  `json:"account"`
	StartCash      float64 `json:"startCash"`
	TickIntervalMS int     `json:"tickIntervalMs"`
	AutoFill       *bool   `json:"autoFill"`
	Seed           int64   `json:"seed"`
}

// JournalConfig describes the optional execution journal database.
type JournalConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// ProfilerConfig describes the optional continuous profiler.
type ProfilerConfig struct {
	Enabled       bool   `json:"enabled"`
	ServerAddress string `json:"serverAddress"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Bridge        bridge.Config
	QueueCapacity int
	QueuePolicy   bridge.OverflowPolicy
	Instruments   []host.Instrument
	Sim           SimConfig
	Health        account.HealthLimits
	Journal       JournalConfig
	Profiler      ProfilerConfig
}

// Load reads a JSON config file and resolves it. An empty path yields the
// defaults.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if cfg.Bridge.SocketPath == "" {
		cfg.Bridge.SocketPath = "/tmp/trading-bridge.sock"
	}
	if cfg.Bridge.QueueCapacity <= 0 {
		cfg.Bridge.QueueCapacity = 1024
	}
	policy, err := bridge.ParsePolicy(cfg.Bridge.QueuePolicy)
	if err != nil {
		return Loaded{}, fmt.Errorf("invalid queue policy: %q", cfg.Bridge.QueuePolicy)
	}

	instruments := make([]host.Instrument, 0, len(cfg.Instruments))
	for _, inst := range cfg.Instruments {
		if inst.Name == "" {
			return Loaded{}, fmt.Errorf("instrument name is empty")
		}
		if inst.TickSize < 0 {
			return Loaded{}, fmt.Errorf("instrument %s: tickSize must be >= 0", inst.Name)
		}
		instruments = append(instruments, host.Instrument{
			Name:       inst.Name,
			TickSize:   inst.TickSize,
			PointValue: inst.PointValue,
			MinMove:    inst.MinMove,
			Exchange:   inst.Exchange,
		})
	}

	if cfg.Journal.Enabled && cfg.Journal.Database == "" {
		return Loaded{}, fmt.Errorf("journal enabled without database")
	}

	return Loaded{
		Bridge: bridge.Config{
			SocketPath:     cfg.Bridge.SocketPath,
			Network:        cfg.Bridge.Network,
			Backoff:        time.Duration(cfg.Bridge.BackoffMS) * time.Millisecond,
			AcceptTimeout:  time.Duration(cfg.Bridge.AcceptTimeoutMS) * time.Millisecond,
			ReadBufferSize: cfg.Bridge.ReadBufferSize,
		},
		QueueCapacity: cfg.Bridge.QueueCapacity,
		QueuePolicy:   policy,
		Instruments:   instruments,
		Sim:           cfg.Sim,
		Health:        cfg.Health,
		Journal:       cfg.Journal,
		Profiler:      cfg.Profiler,
	}, nil
}
