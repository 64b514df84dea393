//go:build linux
// +build linux

package host

import (
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"

	"beacon-transmitter/internal/beacon"
)

// BLEデバイス初期化
// HCIのユーザーチャネルを占有するので一度だけ開く
func openDevice(opts ...ble.Option) (beacon.Advertiser, error) {
	d, err := linux.NewDevice(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init device: %w", err)
	}
	ble.SetDefaultDevice(d)
	return d, nil
}
