//go:build darwin

package host

import (
	"github.com/go-ble/ble"

	"beacon-transmitter/internal/beacon"
)

func NewDarwinHost() *DarwinHost {
	return &DarwinHost{
		open: func() (beacon.Advertiser, error) {
			return openDevice(ble.OptPeripheralRole())
		},
	}
}
