//go:build linux
// +build linux

package cmd

import (
	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/host"
	"beacon-transmitter/internal/preflight"
)

func newHost(cfg config.Config) (preflight.Host, error) {
	interval, err := cfg.AdvertiseInterval()
	if err != nil {
		return nil, err
	}
	if cfg.Transport == config.TransportUART {
		return host.NewUARTHost(cfg.UART.Path, cfg.UART.Baud, cfg.DeviceID, interval), nil
	}
	return host.NewSysfsHost(cfg.DeviceID, interval), nil
}
