//go:build darwin
// +build darwin

package host

import (
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"

	"beacon-transmitter/internal/beacon"
)

func openDevice(opts ...ble.Option) (beacon.Advertiser, error) {
	d, err := darwin.NewDevice(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init device: %w", err)
	}
	ble.SetDefaultDevice(d)
	return d, nil
}
