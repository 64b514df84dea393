package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"beacon-transmitter/internal/beacon"
	"beacon-transmitter/internal/host"
)

//go:embed default_beacon.json
var defaultBeaconJSON []byte

const (
	TransportHCI  = "hci"
	TransportUART = "uart"
)

// AdvertiseSettings のモードと間隔
var advertiseModes = map[string]time.Duration{
	"low_power":   1000 * time.Millisecond,
	"balanced":    250 * time.Millisecond,
	"low_latency": 100 * time.Millisecond,
}

// 設定ファイルの内容
type Config struct {
	Transport     string        `yaml:"transport"`
	DeviceID      int           `yaml:"device_id"`
	UART          UART          `yaml:"uart"`
	MinOSVersion  string        `yaml:"min_os_version"`
	AdvertiseMode string        `yaml:"advertise_mode"`
	MetricsPort   int           `yaml:"metrics_port"`
	Beacon        beacon.Beacon `yaml:"beacon"`
}

type UART struct {
	Path string `yaml:"path"`
	Baud int    `yaml:"baud"`
}

// 埋め込みのビーコン設定を読み込む
func DefaultBeacon() (beacon.Beacon, error) {
	var b beacon.Beacon
	if err := json.Unmarshal(defaultBeaconJSON, &b); err != nil {
		return beacon.Beacon{}, fmt.Errorf("parse default beacon: %w", err)
	}
	return b, nil
}

// 設定ファイルがない場合のデフォルト
func DefaultConfig() Config {
	b, err := DefaultBeacon()
	if err != nil {
		panic(err)
	}
	return Config{
		Transport:     TransportHCI,
		DeviceID:      0,
		UART:          UART{Path: "/dev/ttyACM0", Baud: 1000000},
		MinOSVersion:  defaultMinOSVersion(),
		AdvertiseMode: "low_power",
		Beacon:        b,
	}
}

// HCIユーザーチャネルは Linux 3.13 から。macOS は 10.13 (Darwin 17) 以降
func defaultMinOSVersion() string {
	if runtime.GOOS == "darwin" {
		return "17.0"
	}
	return "3.13"
}

// YAMLを読み込む。ファイルがなければデフォルト
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Transport {
	case TransportHCI:
		if c.DeviceID < 0 {
			return fmt.Errorf("device_id must be >= 0, got %d", c.DeviceID)
		}
	case TransportUART:
		if c.UART.Path == "" {
			return errors.New("uart.path is required for uart transport")
		}
		if c.UART.Baud <= 0 {
			return fmt.Errorf("uart.baud must be positive, got %d", c.UART.Baud)
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if _, err := c.MinOS(); err != nil {
		return fmt.Errorf("min_os_version: %w", err)
	}
	if _, err := c.AdvertiseInterval(); err != nil {
		return err
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port out of range: %d", c.MetricsPort)
	}
	if err := c.Beacon.Validate(); err != nil {
		return fmt.Errorf("beacon: %w", err)
	}
	return nil
}

func (c Config) MinOS() (host.Version, error) {
	return host.ParseVersion(c.MinOSVersion)
}

func (c Config) AdvertiseInterval() (time.Duration, error) {
	d, ok := advertiseModes[c.AdvertiseMode]
	if !ok {
		return 0, fmt.Errorf("unknown advertise_mode %q", c.AdvertiseMode)
	}
	return d, nil
}
