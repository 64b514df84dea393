//go:build darwin
// +build darwin

package cmd

import (
	"fmt"

	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/host"
	"beacon-transmitter/internal/preflight"
)

func newHost(cfg config.Config) (preflight.Host, error) {
	if cfg.Transport != config.TransportHCI {
		return nil, fmt.Errorf("transport %q is only supported on linux", cfg.Transport)
	}
	return host.NewDarwinHost(), nil
}
